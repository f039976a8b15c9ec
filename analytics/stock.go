package analytics

import (
	"math"
	"sort"

	"salesdash/models"
)

// Stock statuses.
const (
	StockCritical  = "critical"
	StockLow       = "low"
	StockNormal    = "normal"
	StockOverstock = "overstock"
)

// StockStatus is the depletion outlook of one product.
type StockStatus struct {
	ProductID          string  `json:"productId"`
	ProductName        string  `json:"productName"`
	CurrentStock       int     `json:"currentStock"`
	MinStock           int     `json:"minStock"`
	AverageDailySales  float64 `json:"averageDailySales"`
	DaysUntilEmpty     int     `json:"daysUntilEmpty"`
	Status             string  `json:"status"`
	RecommendedRestock int     `json:"recommendedRestock"`
	ProfitMargin       float64 `json:"profitMargin"`
}

// ClassifyStock returns the first matching status: critical, low, overstock,
// then normal.
func ClassifyStock(cfg Config, stock, minStock int) string {
	s, m := float64(stock), float64(minStock)
	switch {
	case s <= m*cfg.CriticalStockFactor:
		return StockCritical
	case s <= m:
		return StockLow
	case s > m*cfg.OverstockFactor:
		return StockOverstock
	default:
		return StockNormal
	}
}

// DaysUntilEmpty is floor(stock/velocity), or NoDepletion when nothing sells.
func DaysUntilEmpty(stock int, velocity float64) int {
	if velocity <= 0 {
		return NoDepletion
	}
	return int(math.Floor(float64(stock) / velocity))
}

// RecommendedRestock sizes an order that covers the restock horizon. Never
// negative.
func RecommendedRestock(cfg Config, stock int, velocity float64) int {
	need := math.Ceil(velocity*float64(cfg.RestockHorizonDays) - float64(stock))
	if need < 0 {
		return 0
	}
	return int(need)
}

// ProfitMargin is (price-cost)/price as a percentage; 0 for a zero price.
func ProfitMargin(p models.Product) float64 {
	if p.Price.IsZero() {
		return 0
	}
	return p.Price.Sub(p.CostPrice).Div(p.Price).InexactFloat64() * 100
}

// AnalyzeStock computes the stock outlook of every product, most urgent first.
func AnalyzeStock(cfg Config, products []models.Product, aggregates []ProductAggregate) []StockStatus {
	velocity := make(map[string]float64, len(aggregates))
	for _, a := range aggregates {
		velocity[a.ProductID] = a.AverageDaily
	}

	out := make([]StockStatus, 0, len(products))
	for _, p := range products {
		v := velocity[p.ID]
		out = append(out, StockStatus{
			ProductID:          p.ID,
			ProductName:        p.Name,
			CurrentStock:       p.Stock,
			MinStock:           p.MinStock,
			AverageDailySales:  v,
			DaysUntilEmpty:     DaysUntilEmpty(p.Stock, v),
			Status:             ClassifyStock(cfg, p.Stock, p.MinStock),
			RecommendedRestock: RecommendedRestock(cfg, p.Stock, v),
			ProfitMargin:       ProfitMargin(p),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysUntilEmpty < out[j].DaysUntilEmpty })
	return out
}

// NeedsAttention keeps the critical and low entries.
func NeedsAttention(statuses []StockStatus) []StockStatus {
	out := make([]StockStatus, 0)
	for _, s := range statuses {
		if s.Status == StockCritical || s.Status == StockLow {
			out = append(out, s)
		}
	}
	return out
}
