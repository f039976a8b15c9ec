package assistant

import (
	"fmt"
	"strings"
	"time"

	"salesdash/analytics"
	"salesdash/models"
)

// Query types.
const (
	QueryDailySales   = "daily_sales"
	QueryWeeklySales  = "weekly_sales"
	QueryMonthlySales = "monthly_sales"
	QueryTopProducts  = "top_products"
	QueryStockStatus  = "stock_status"
	QueryPrediction   = "prediction"
	QueryGeneral      = "general"
)

// Query is a routed natural-language question.
type Query struct {
	Type   string            `json:"type"`
	Params map[string]string `json:"params"`
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// ParseQuery routes a question by keyword. The first matching rule wins.
func ParseQuery(text string) Query {
	q := strings.ToLower(text)
	sales := containsAny(q, "penjualan", "sales")

	switch {
	case sales && containsAny(q, "hari ini", "today"):
		return Query{Type: QueryDailySales, Params: map[string]string{"period": "today"}}
	case sales && containsAny(q, "minggu", "week"):
		return Query{Type: QueryWeeklySales, Params: map[string]string{"period": "week"}}
	case sales && containsAny(q, "bulan", "month"):
		return Query{Type: QueryMonthlySales, Params: map[string]string{"period": "month"}}
	case containsAny(q, "produk", "product") && containsAny(q, "laris", "terbaik", "top", "best"):
		return Query{Type: QueryTopProducts, Params: map[string]string{}}
	case containsAny(q, "stok", "stock"):
		return Query{Type: QueryStockStatus, Params: map[string]string{}}
	case containsAny(q, "prediksi", "forecast"):
		return Query{Type: QueryPrediction, Params: map[string]string{}}
	}
	return Query{Type: QueryGeneral, Params: map[string]string{}}
}

// QueryResult is the answer to a routed query.
type QueryResult struct {
	Query  Query       `json:"query"`
	Answer string      `json:"answer"`
	Data   interface{} `json:"data,omitempty"`
}

// Answer computes the figures a query asks for from the owner's data.
func Answer(cfg analytics.Config, now time.Time, q Query, products []models.Product, sales []models.Sale) QueryResult {
	res := QueryResult{Query: q}

	switch q.Type {
	case QueryDailySales, QueryWeeklySales, QueryMonthlySales:
		days, label := 1, "hari ini"
		switch q.Type {
		case QueryWeeklySales:
			days, label = 7, "7 hari terakhir"
		case QueryMonthlySales:
			days, label = 30, "30 hari terakhir"
		}
		w := analytics.WindowFor(now, days)
		daily := analytics.DailyAggregates(analytics.FilterByDateRange(sales, w))
		total := analytics.SumTotals(daily)
		qty := analytics.SumQuantity(daily)
		res.Answer = fmt.Sprintf("Penjualan %s: %s dari %d unit.", label, analytics.FormatCurrency(total), qty)
		res.Data = map[string]interface{}{"window": w, "total": total, "quantity": qty, "daily": daily}

	case QueryTopProducts:
		snap := analytics.BuildSnapshot(cfg, now, sales, cfg.WindowDays)
		top := snap.Products
		if len(top) > 5 {
			top = top[:5]
		}
		if len(top) == 0 {
			res.Answer = "Belum ada penjualan tercatat."
		} else {
			lines := make([]string, 0, len(top))
			for i, p := range top {
				lines = append(lines, fmt.Sprintf("%d. %s: %d unit (%s)", i+1, p.ProductName, p.TotalQuantity, analytics.FormatCurrency(p.TotalRevenue)))
			}
			res.Answer = "Produk terlaris:\n" + strings.Join(lines, "\n")
		}
		res.Data = top

	case QueryStockStatus:
		snap := analytics.BuildSnapshot(cfg, now, sales, cfg.WindowDays)
		attention := analytics.NeedsAttention(analytics.AnalyzeStock(cfg, products, snap.Products))
		if len(attention) == 0 {
			res.Answer = "Semua produk memiliki stok yang cukup."
		} else {
			lines := make([]string, 0, len(attention))
			for _, s := range attention {
				lines = append(lines, fmt.Sprintf("- %s: sisa %d (%s)", s.ProductName, s.CurrentStock, analytics.Label(s.Status)))
			}
			res.Answer = "Produk yang perlu di-restock:\n" + strings.Join(lines, "\n")
		}
		res.Data = attention

	case QueryPrediction:
		snap := analytics.BuildSnapshot(cfg, now, sales, cfg.WindowDays)
		pred := analytics.WeeklyForecast(cfg, snap.Daily, snap.Products)
		res.Answer = fmt.Sprintf("Prediksi penjualan minggu depan: %s (tren %s, tingkat keyakinan %.0f%%).",
			analytics.FormatCurrency(pred.PredictedValue), analytics.Label(pred.Trend), pred.ConfidenceLevel)
		res.Data = pred

	default:
		res.Answer = "Saya dapat menjawab pertanyaan tentang penjualan hari ini, minggu ini, atau bulan ini, produk terlaris, status stok, dan prediksi penjualan. Coba tanya: \"Berapa penjualan minggu ini?\""
	}
	return res
}
