package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/models"
)

func recommendFixture() (Prediction, []StockStatus, []models.Product, []ProductAggregate) {
	products := []models.Product{
		{ID: "p1", Name: "Kopi", Stock: 2, MinStock: 10, Unit: "pcs", Price: decimal.NewFromInt(15000), CostPrice: decimal.NewFromInt(5000)},
		{ID: "p2", Name: "Teh", Stock: 100, MinStock: 10, Price: decimal.NewFromInt(10000), CostPrice: decimal.NewFromInt(8000)},
	}
	pred := Prediction{
		Period:          PeriodWeekly,
		ConfidenceLevel: 80,
		TrendPercentage: 25,
		Trend:           TrendUp,
		ProductPredictions: []ProductPrediction{
			{ProductID: "p2", ProductName: "Teh", PredictedQuantity: 5},
			{ProductID: "p1", ProductName: "Kopi", PredictedQuantity: 50},
		},
	}
	stock := []StockStatus{
		{ProductID: "p1", RecommendedRestock: 40},
		{ProductID: "p2", RecommendedRestock: 0},
	}
	aggs := []ProductAggregate{
		{ProductID: "p1", TotalRevenue: 300000},
		{ProductID: "p2", TotalRevenue: 20000},
	}
	return pred, stock, products, aggs
}

func TestRecommend(t *testing.T) {
	pred, stock, products, aggs := recommendFixture()

	recs := Recommend(DefaultConfig(), pred, stock, products, aggs)
	var types []string
	for _, r := range recs {
		types = append(types, r.Type)
	}
	assert.Equal(t, []string{RecRestock, RecPromotion, RecPromotion, RecBundling, RecPricing, RecExpansion}, types)

	assert.Equal(t, "restock:p1", recs[0].ID)
	assert.Contains(t, recs[0].ActionItems[0], "Pesan Kopi minimal 50 pcs")
	assert.Equal(t, "promotion:p2", recs[1].ID)
	assert.Equal(t, []string{"p1", "p2"}, recs[3].ProductIDs)
	assert.Equal(t, []string{"p1"}, recs[4].ProductIDs)
}

func TestRecommendLowConfidenceSkipsRestock(t *testing.T) {
	pred, stock, products, aggs := recommendFixture()
	pred.ConfidenceLevel = 65
	pred.TrendPercentage = 0

	for _, r := range Recommend(DefaultConfig(), pred, stock, products, aggs) {
		assert.NotEqual(t, RecRestock, r.Type)
		assert.NotEqual(t, RecPricing, r.Type)
		assert.NotEqual(t, RecExpansion, r.Type)
	}
}

func TestRecommendNothingToSay(t *testing.T) {
	recs := Recommend(DefaultConfig(), Prediction{}, nil, nil, nil)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestNotify(t *testing.T) {
	now := time.Date(2024, 3, 30, 10, 0, 0, 0, time.UTC)
	products := []models.Product{
		{ID: "out", Name: "Gula", Stock: 0},
		{ID: "low", Name: "Beras", Stock: 5, Unit: "kg"},
		{ID: "ok", Name: "Minyak", Stock: 100},
	}
	sales := []models.Sale{sale("2024-03-01", "ok", 1, 1000)}
	pred := &Prediction{Period: PeriodWeekly, Trend: TrendDown, TrendPercentage: -12}

	got := Notify(DefaultConfig(), NotificationInput{Now: now, Products: products, Sales: sales, Prediction: pred})
	var ids []string
	for _, n := range got {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"out-of-stock:out", "low-stock:low", "no-sales", "prediction:weekly", "setup:settings"}, ids)
	assert.Equal(t, PriorityHigh, got[0].Priority)
	assert.Contains(t, got[1].Message, "5 kg")
	assert.Contains(t, got[3].Message, "12.0%")
}

func TestNotifyLowSalesAndSetup(t *testing.T) {
	now := time.Date(2024, 3, 30, 10, 0, 0, 0, time.UTC)
	products := []models.Product{{ID: "ok", Name: "Minyak", Stock: 100}}
	sales := []models.Sale{sale("2024-03-29", "ok", 1, 1000), sale("2024-03-28", "ok", 2, 1000)}

	got := Notify(DefaultConfig(), NotificationInput{Now: now, Products: products, Sales: sales, BusinessName: "Toko Maju"})
	require.Len(t, got, 1)
	assert.Equal(t, "low-sales", got[0].ID)

	got = Notify(DefaultConfig(), NotificationInput{Now: now, BusinessName: "Toko Maju"})
	require.Len(t, got, 1)
	assert.Equal(t, "setup:products", got[0].ID)

	got = Notify(DefaultConfig(), NotificationInput{Now: now, Products: products, BusinessName: "Toko Maju"})
	require.Len(t, got, 1)
	assert.Equal(t, "setup:sales", got[0].ID)
}

func TestIsLowStock(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, IsLowStock(cfg, 0))
	assert.True(t, IsLowStock(cfg, 12))
	assert.False(t, IsLowStock(cfg, 13))
}
