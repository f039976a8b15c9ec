package analytics

import (
	"time"

	"salesdash/models"
)

// Snapshot is the aggregated view of one window and the window before it.
type Snapshot struct {
	Window         Window             `json:"window"`
	Sales          []models.Sale      `json:"-"`
	Daily          []DailyAggregate   `json:"daily"`
	PreviousDaily  []DailyAggregate   `json:"previousDaily"`
	Products       []ProductAggregate `json:"products"`
	TotalRevenue   float64            `json:"totalRevenue"`
	TotalQuantity  int                `json:"totalQuantity"`
	Transactions   int                `json:"transactions"`
	AverageTxValue float64            `json:"averageTransactionValue"`
}

// BuildSnapshot aggregates all sales of the window of the given length ending
// at now, plus the preceding window for comparison.
func BuildSnapshot(cfg Config, now time.Time, sales []models.Sale, days int) Snapshot {
	if days <= 0 {
		days = cfg.WindowDays
	}
	w := WindowFor(now, days)
	current := FilterByDateRange(sales, w)
	daily := DailyAggregates(current)

	snap := Snapshot{
		Window:        w,
		Sales:         current,
		Daily:         daily,
		PreviousDaily: DailyAggregates(FilterByDateRange(sales, PreviousWindow(w))),
		Products:      ProductAggregates(cfg, current, days),
		TotalRevenue:  SumTotals(daily),
		TotalQuantity: SumQuantity(daily),
		Transactions:  len(current),
	}
	if snap.Transactions > 0 {
		snap.AverageTxValue = snap.TotalRevenue / float64(snap.Transactions)
	}
	return snap
}
