package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/models"
)

func sale(date, productID string, qty int, price int64) models.Sale {
	s := models.Sale{
		ID:          date + "-" + productID,
		Date:        date,
		ProductID:   productID,
		ProductName: "Product " + productID,
		Quantity:    qty,
		UnitPrice:   decimal.NewFromInt(price),
	}
	s.Recompute()
	return s
}

func TestDailyAggregatesConservesTotals(t *testing.T) {
	sales := []models.Sale{
		sale("2024-01-03", "a", 2, 1500),
		sale("2024-01-01", "b", 1, 2500),
		sale("2024-01-03", "b", 3, 2500),
		sale("2024-01-02", "a", 1, 1500),
	}

	daily := DailyAggregates(sales)
	require.Len(t, daily, 3)
	assert.Equal(t, "2024-01-01", daily[0].Date)
	assert.Equal(t, "2024-01-03", daily[2].Date)
	assert.Equal(t, 2, daily[2].Transactions)
	assert.Equal(t, 10500.0, daily[2].Total)

	var want float64
	var qty int
	for _, s := range sales {
		want += s.Total.InexactFloat64()
		qty += s.Quantity
	}
	assert.Equal(t, want, SumTotals(daily))
	assert.Equal(t, qty, SumQuantity(daily))

	var byProduct float64
	for _, p := range ProductAggregates(DefaultConfig(), sales, 30) {
		byProduct += p.TotalRevenue
	}
	assert.Equal(t, want, byProduct)
}

func TestProductAggregatesOrderAndVelocity(t *testing.T) {
	sales := []models.Sale{
		sale("2024-01-01", "a", 3, 1000),
		sale("2024-01-02", "a", 3, 1000),
		sale("2024-01-02", "b", 1, 50000),
	}

	cfg := DefaultConfig()
	aggs := ProductAggregates(cfg, sales, 30)
	require.Len(t, aggs, 2)
	assert.Equal(t, "b", aggs[0].ProductID)
	assert.Equal(t, 6, aggs[1].TotalQuantity)
	assert.InDelta(t, 0.2, aggs[1].AverageDaily, 1e-9)

	cfg.VelocityBasis = VelocityByActiveDays
	aggs = ProductAggregates(cfg, sales, 30)
	assert.InDelta(t, 3.0, aggs[1].AverageDaily, 1e-9)
}

func TestPercentChange(t *testing.T) {
	assert.Equal(t, 100.0, PercentChange(5, 0))
	assert.Equal(t, 0.0, PercentChange(0, 0))
	assert.Equal(t, 50.0, PercentChange(150, 100))
	assert.Equal(t, -25.0, PercentChange(75, 100))
}

func TestWindows(t *testing.T) {
	now := time.Date(2024, 1, 31, 15, 0, 0, 0, time.UTC)
	w := WindowFor(now, 30)
	assert.Equal(t, Window{Start: "2024-01-02", End: "2024-01-31", Days: 30}, w)
	assert.Equal(t, Window{Start: "2023-12-03", End: "2024-01-01", Days: 30}, PreviousWindow(w))

	in := FilterByDateRange([]models.Sale{
		sale("2024-01-01", "a", 1, 1),
		sale("2024-01-02", "a", 1, 1),
		sale("2024-01-31", "a", 1, 1),
		sale("2024-02-01", "a", 1, 1),
	}, w)
	require.Len(t, in, 2)
	assert.Equal(t, "2024-01-02", in[0].Date)
	assert.Equal(t, "2024-01-31", in[1].Date)

	today := WindowFor(now, 0)
	assert.Equal(t, Window{Start: "2024-01-31", End: "2024-01-31", Days: 1}, today)
	assert.Equal(t, Window{Start: "2024-01-30", End: "2024-01-30", Days: 1}, PreviousWindow(today))
}

func TestWindowsCoverEqualDays(t *testing.T) {
	now := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
	var sales []models.Sale
	for d := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC); !d.After(now); d = d.AddDate(0, 0, 1) {
		sales = append(sales, sale(d.Format(DateLayout), "a", 1, 1000))
	}

	for _, days := range []int{1, 7, 30} {
		snap := BuildSnapshot(DefaultConfig(), now, sales, days)
		assert.Len(t, snap.Daily, days)
		assert.Len(t, snap.PreviousDaily, days)
		assert.Equal(t, SumTotals(snap.PreviousDaily), snap.TotalRevenue)
		require.Len(t, snap.Products, 1)
		assert.InDelta(t, 1.0, snap.Products[0].AverageDaily, 1e-9)

		for _, in := range GenerateInsights(DefaultConfig(), snap.Daily, snap.Products, snap.PreviousDaily) {
			assert.NotEqual(t, InsightIncrease, in.Type, "days=%d", days)
			assert.Nil(t, in.Percentage, "days=%d: %s", days, in.Title)
		}
	}
}

func TestBuildSnapshot(t *testing.T) {
	now := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
	sales := []models.Sale{
		sale("2024-01-20", "a", 2, 5000),
		sale("2024-01-21", "b", 1, 4000),
		sale("2023-12-15", "a", 1, 5000),
	}

	snap := BuildSnapshot(DefaultConfig(), now, sales, 0)
	assert.Equal(t, 30, snap.Window.Days)
	assert.Equal(t, 2, snap.Transactions)
	assert.Equal(t, 14000.0, snap.TotalRevenue)
	assert.Equal(t, 7000.0, snap.AverageTxValue)
	require.Len(t, snap.PreviousDaily, 1)
	assert.Equal(t, "2023-12-15", snap.PreviousDaily[0].Date)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "Rp 15.000", FormatCurrency(15000))
	assert.Equal(t, "Rp 0", FormatCurrency(0))
	assert.Equal(t, "-Rp 2.500", FormatCurrency(-2500))
	assert.Equal(t, "1.234.567", FormatNumber(1234567))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "2 Jan 2024", FormatDate("2024-01-02"))
	assert.Equal(t, "17 Agu 2024", FormatDate("2024-08-17"))
	assert.Equal(t, "soon", FormatDate("soon"))
	assert.Equal(t, "turun", Label(TrendDown))
	assert.Equal(t, "kritis", Label(StockCritical))
	assert.Equal(t, "mingguan", Label(PeriodWeekly))
	assert.Equal(t, "custom", Label("custom"))
}
