package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"salesdash/models"
)

// DateLayout is the calendar-day format used for sale dates.
const DateLayout = "2006-01-02"

// DailyAggregate is the rollup of one calendar day.
type DailyAggregate struct {
	Date         string  `json:"date"`
	Total        float64 `json:"total"`
	Quantity     int     `json:"quantity"`
	Transactions int     `json:"transactions"`
}

// ProductAggregate is the rollup of one product over a window.
type ProductAggregate struct {
	ProductID     string  `json:"productId"`
	ProductName   string  `json:"productName"`
	TotalQuantity int     `json:"totalQuantity"`
	TotalRevenue  float64 `json:"totalRevenue"`
	AverageDaily  float64 `json:"averageDaily"`
}

// Window is an inclusive range of calendar days.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

// WindowFor returns the window of exactly days calendar days ending on now's
// day. Lengths below one mean today only.
func WindowFor(now time.Time, days int) Window {
	if days < 1 {
		days = 1
	}
	return Window{
		Start: now.AddDate(0, 0, -(days - 1)).Format(DateLayout),
		End:   now.Format(DateLayout),
		Days:  days,
	}
}

// PreviousWindow returns the window of the same length immediately before w.
func PreviousWindow(w Window) Window {
	start, err := time.Parse(DateLayout, w.Start)
	if err != nil {
		return Window{Days: w.Days}
	}
	return Window{
		Start: start.AddDate(0, 0, -w.Days).Format(DateLayout),
		End:   start.AddDate(0, 0, -1).Format(DateLayout),
		Days:  w.Days,
	}
}

// FilterByDateRange keeps the sales whose date falls inside w, both ends
// included.
func FilterByDateRange(sales []models.Sale, w Window) []models.Sale {
	out := make([]models.Sale, 0, len(sales))
	for _, s := range sales {
		if s.Date >= w.Start && s.Date <= w.End {
			out = append(out, s)
		}
	}
	return out
}

// DailyAggregates groups sales by date, ascending.
func DailyAggregates(sales []models.Sale) []DailyAggregate {
	type acc struct {
		total decimal.Decimal
		qty   int
		count int
	}
	byDate := make(map[string]*acc)
	for _, s := range sales {
		a, ok := byDate[s.Date]
		if !ok {
			a = &acc{}
			byDate[s.Date] = a
		}
		a.total = a.total.Add(s.Total)
		a.qty += s.Quantity
		a.count++
	}

	out := make([]DailyAggregate, 0, len(byDate))
	for date, a := range byDate {
		out = append(out, DailyAggregate{
			Date:         date,
			Total:        a.total.InexactFloat64(),
			Quantity:     a.qty,
			Transactions: a.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// ProductAggregates groups sales by product, highest revenue first. The daily
// average divides by windowDays unless the config asks for active days.
func ProductAggregates(cfg Config, sales []models.Sale, windowDays int) []ProductAggregate {
	type acc struct {
		agg     ProductAggregate
		revenue decimal.Decimal
	}
	var order []string
	byProduct := make(map[string]*acc)
	activeDays := make(map[string]struct{})
	for _, s := range sales {
		activeDays[s.Date] = struct{}{}
		a, ok := byProduct[s.ProductID]
		if !ok {
			a = &acc{agg: ProductAggregate{ProductID: s.ProductID, ProductName: s.ProductName}}
			byProduct[s.ProductID] = a
			order = append(order, s.ProductID)
		}
		a.agg.TotalQuantity += s.Quantity
		a.revenue = a.revenue.Add(s.Total)
	}

	divisor := float64(windowDays)
	if cfg.VelocityBasis == VelocityByActiveDays {
		divisor = float64(len(activeDays))
	}

	out := make([]ProductAggregate, 0, len(order))
	for _, id := range order {
		a := byProduct[id]
		a.agg.TotalRevenue = a.revenue.InexactFloat64()
		if divisor > 0 {
			a.agg.AverageDaily = float64(a.agg.TotalQuantity) / divisor
		}
		out = append(out, a.agg)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalRevenue > out[j].TotalRevenue })
	return out
}

// SumTotals adds the totals of a daily series.
func SumTotals(days []DailyAggregate) float64 {
	var sum float64
	for _, d := range days {
		sum += d.Total
	}
	return sum
}

// SumQuantity adds the quantities of a daily series.
func SumQuantity(days []DailyAggregate) int {
	var sum int
	for _, d := range days {
		sum += d.Quantity
	}
	return sum
}

// PercentChange is (current-previous)/previous*100. With a zero previous value
// it returns 100 when current is positive and 0 otherwise.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}
