package analytics

import (
	"fmt"
	"sort"
	"strings"

	"salesdash/models"
)

// Recommendation types.
const (
	RecRestock   = "restock"
	RecPromotion = "promotion"
	RecBundling  = "bundling"
	RecPricing   = "price-adjustment"
	RecExpansion = "expansion"
)

// Priorities shared by recommendations and notifications.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation is a canned, rule-triggered business suggestion.
type Recommendation struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	Priority       string   `json:"priority"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	ActionItems    []string `json:"actionItems"`
	ExpectedImpact string   `json:"expectedImpact"`
	ProductIDs     []string `json:"productIds,omitempty"`
}

const (
	restockCandidates = 3
	promotionCount    = 2
	bundleMax         = 3
)

// Recommend maps the forecast and stock outlook onto recommendations.
func Recommend(cfg Config, pred Prediction, stock []StockStatus, products []models.Product, aggregates []ProductAggregate) []Recommendation {
	recs := make([]Recommendation, 0)

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	restockQty := make(map[string]int, len(stock))
	for _, s := range stock {
		restockQty[s.ProductID] = s.RecommendedRestock
	}
	revenue := make(map[string]float64, len(aggregates))
	for _, a := range aggregates {
		revenue[a.ProductID] = a.TotalRevenue
	}

	byQty := append([]ProductPrediction(nil), pred.ProductPredictions...)
	sort.SliceStable(byQty, func(i, j int) bool { return byQty[i].PredictedQuantity > byQty[j].PredictedQuantity })

	if pred.ConfidenceLevel >= cfg.RestockMinConfidence {
		for i, pp := range byQty {
			if i >= restockCandidates {
				break
			}
			p, ok := byID[pp.ProductID]
			if !ok || p.Stock > p.MinStock {
				continue
			}
			qty := restockQty[p.ID]
			if qty < pp.PredictedQuantity {
				qty = pp.PredictedQuantity
			}
			recs = append(recs, Recommendation{
				ID:          "restock:" + p.ID,
				Type:        RecRestock,
				Priority:    PriorityHigh,
				Title:       fmt.Sprintf("Restock %s", p.Name),
				Description: fmt.Sprintf("%s termasuk produk yang diprediksi paling laku, tetapi stoknya tinggal %d %s (minimum %d).", p.Name, p.Stock, unitOf(p), p.MinStock),
				ActionItems: []string{
					fmt.Sprintf("Pesan %s minimal %d %s", p.Name, qty, unitOf(p)),
					"Pastikan lead time supplier sebelum stok habis",
					fmt.Sprintf("Naikkan stok minimum %s jika ini terulang", p.Name),
				},
				ExpectedImpact: "Mencegah kehilangan penjualan pada produk terlaris",
				ProductIDs:     []string{p.ID},
			})
		}
	}

	var slow []ProductPrediction
	for i := len(byQty) - 1; i >= 0 && len(slow) < promotionCount; i-- {
		if revenue[byQty[i].ProductID] > 0 {
			slow = append(slow, byQty[i])
		}
	}
	for _, pp := range slow {
		recs = append(recs, Recommendation{
			ID:          "promotion:" + pp.ProductID,
			Type:        RecPromotion,
			Priority:    PriorityMedium,
			Title:       fmt.Sprintf("Promosikan %s", pp.ProductName),
			Description: fmt.Sprintf("%s diprediksi hanya terjual %d unit pada periode berikutnya.", pp.ProductName, pp.PredictedQuantity),
			ActionItems: []string{
				fmt.Sprintf("Beri diskon 10-15%% untuk %s", pp.ProductName),
				fmt.Sprintf("Letakkan %s di dekat produk terlaris", pp.ProductName),
			},
			ExpectedImpact: "Mempercepat perputaran stok dan membebaskan modal",
			ProductIDs:     []string{pp.ProductID},
		})
	}

	if len(byQty) >= 2 {
		bundle := byQty
		if len(bundle) > bundleMax {
			bundle = bundle[:bundleMax]
		}
		names := make([]string, 0, len(bundle))
		ids := make([]string, 0, len(bundle))
		for _, pp := range bundle {
			names = append(names, pp.ProductName)
			ids = append(ids, pp.ProductID)
		}
		joined := strings.Join(names, " + ")
		recs = append(recs, Recommendation{
			ID:          "bundling:" + strings.Join(ids, ","),
			Type:        RecBundling,
			Priority:    PriorityLow,
			Title:       "Buat Paket Bundling",
			Description: fmt.Sprintf("Gabungkan produk yang paling sering dibeli: %s.", joined),
			ActionItems: []string{
				fmt.Sprintf("Jual %s sebagai paket dengan harga 10%% lebih murah dari harga satuan", joined),
				"Beri nama paket yang menarik",
			},
			ExpectedImpact: "Menaikkan rata-rata nilai transaksi",
			ProductIDs:     ids,
		})
	}

	if pred.TrendPercentage > cfg.PriceTrendPct {
		var ids, names []string
		for _, p := range products {
			if p.CostPrice.IsPositive() && p.Price.Div(p.CostPrice).InexactFloat64() > cfg.MarginRatio {
				ids = append(ids, p.ID)
				names = append(names, p.Name)
			}
		}
		if len(ids) > 0 {
			recs = append(recs, Recommendation{
				ID:          "price-adjustment",
				Type:        RecPricing,
				Priority:    PriorityMedium,
				Title:       "Tinjau Harga Jual",
				Description: fmt.Sprintf("Permintaan naik %.1f%%. Produk berikut masih bisa dinaikkan harganya sedikit: %s.", pred.TrendPercentage, strings.Join(names, ", ")),
				ActionItems: []string{
					"Naikkan harga 3-5% untuk produk tersebut",
					"Pantau penjualan dua minggu ke depan untuk melihat penurunan volume",
				},
				ExpectedImpact: "Meningkatkan margin selagi permintaan tinggi",
				ProductIDs:     ids,
			})
		}
	}

	if pred.TrendPercentage > cfg.ExpansionTrendPct && pred.ConfidenceLevel >= cfg.ExpansionMinConfidence {
		recs = append(recs, Recommendation{
			ID:          "expansion",
			Type:        RecExpansion,
			Priority:    PriorityLow,
			Title:       "Pertimbangkan Ekspansi",
			Description: fmt.Sprintf("Penjualan tumbuh %.1f%% dengan tingkat keyakinan %.0f%%.", pred.TrendPercentage, pred.ConfidenceLevel),
			ActionItems: []string{
				"Tambah produk di kategori terlaris",
				"Naikkan stok sebelum permintaan naik",
				"Coba saluran penjualan baru",
			},
			ExpectedImpact: "Memanfaatkan pertumbuhan saat ini",
		})
	}

	return recs
}

func unitOf(p models.Product) string {
	if p.Unit == "" {
		return "unit"
	}
	return p.Unit
}
