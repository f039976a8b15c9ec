package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/models"
)

func TestClassifyStock(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		stock, min int
		want       string
	}{
		{5, 20, StockCritical},
		{10, 20, StockCritical},
		{15, 20, StockLow},
		{20, 20, StockLow},
		{50, 20, StockNormal},
		{100, 20, StockNormal},
		{101, 20, StockOverstock},
		{0, 0, StockCritical},
		{-3, 10, StockCritical},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ClassifyStock(cfg, c.stock, c.min), "stock=%d min=%d", c.stock, c.min)
	}
}

func TestDaysUntilEmpty(t *testing.T) {
	assert.Equal(t, NoDepletion, DaysUntilEmpty(10, 0))
	assert.Equal(t, 3, DaysUntilEmpty(10, 3))
	assert.Equal(t, 0, DaysUntilEmpty(0, 2))
}

func TestRecommendedRestockNeverNegative(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 0, RecommendedRestock(cfg, 500, 1))
	assert.Equal(t, 0, RecommendedRestock(cfg, 0, 0))
	assert.Equal(t, 25, RecommendedRestock(cfg, 5, 1))
	assert.Equal(t, 11, RecommendedRestock(cfg, 4, 0.5))
	for stock := -5; stock < 100; stock += 7 {
		assert.GreaterOrEqual(t, RecommendedRestock(cfg, stock, 0.7), 0)
	}
}

func TestProfitMargin(t *testing.T) {
	p := models.Product{Price: decimal.NewFromInt(20000), CostPrice: decimal.NewFromInt(15000)}
	assert.InDelta(t, 25.0, ProfitMargin(p), 1e-9)

	p.Price = decimal.Zero
	assert.Equal(t, 0.0, ProfitMargin(p))
}

func TestAnalyzeStockOrdering(t *testing.T) {
	products := []models.Product{
		{ID: "idle", Name: "Idle", Stock: 40, MinStock: 10},
		{ID: "fast", Name: "Fast", Stock: 4, MinStock: 10},
		{ID: "slow", Name: "Slow", Stock: 30, MinStock: 10},
	}
	aggs := []ProductAggregate{
		{ProductID: "fast", AverageDaily: 2},
		{ProductID: "slow", AverageDaily: 1},
	}

	out := AnalyzeStock(DefaultConfig(), products, aggs)
	require.Len(t, out, 3)
	assert.Equal(t, "fast", out[0].ProductID)
	assert.Equal(t, 2, out[0].DaysUntilEmpty)
	assert.Equal(t, StockCritical, out[0].Status)
	assert.Equal(t, 56, out[0].RecommendedRestock)
	assert.Equal(t, "idle", out[2].ProductID)
	assert.Equal(t, NoDepletion, out[2].DaysUntilEmpty)

	attention := NeedsAttention(out)
	require.Len(t, attention, 1)
	assert.Equal(t, "fast", attention[0].ProductID)
}
