package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/models"
)

func TestBuildReportAndRender(t *testing.T) {
	now := time.Date(2024, 1, 31, 9, 0, 0, 0, time.UTC)
	cfg := DefaultConfig()
	sales := []models.Sale{
		sale("2024-01-29", "a", 3, 5000),
		sale("2024-01-30", "b", 1, 2000),
	}
	products := []models.Product{
		{ID: "a", Name: "Product a", Stock: 2, MinStock: 10},
		{ID: "b", Name: "Product b", Stock: 50, MinStock: 10},
	}

	snap := BuildSnapshot(cfg, now, sales, 30)
	r := BuildReport(cfg, now, "Toko <Maju>", snap, products)
	assert.Equal(t, 17000.0, r.TotalSales)
	assert.Equal(t, 4, r.TotalQuantity)
	require.Len(t, r.TopProducts, 2)
	assert.Equal(t, "a", r.TopProducts[0].ProductID)
	require.Len(t, r.StockAlerts, 1)
	assert.Equal(t, "a", r.StockAlerts[0].ProductID)
	assert.Equal(t, PeriodWeekly, r.Prediction.Period)
	assert.Contains(t, r.Summary, "Rp 17.000")

	html, err := RenderReportHTML(r)
	require.NoError(t, err)
	assert.Contains(t, html, "Toko &lt;Maju&gt;")
	assert.Contains(t, html, "2 Jan 2024")
	assert.Contains(t, html, "Rp 15.000")
}

func TestWeeklySummaryEmpty(t *testing.T) {
	s := WeeklySummary(nil, nil)
	assert.Contains(t, s, "Total penjualan: Rp 0")
	assert.Contains(t, s, "Produk terlaris: - (0 unit)")
}
