package analytics

import (
	"fmt"
	"math"
)

// Insight kinds.
const (
	InsightIncrease = "increase"
	InsightDecrease = "decrease"
	InsightStable   = "stable"
	InsightAnomaly  = "anomaly"
	InsightInfo     = "info"
)

// Insight is a human-readable observation about the current period.
type Insight struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Value       *float64 `json:"value,omitempty"`
	Percentage  *float64 `json:"percentage,omitempty"`
	Date        string   `json:"date,omitempty"`
}

// GenerateInsights compares the current period with the previous one and
// describes products and unusual days. products must be ordered by revenue,
// highest first, as ProductAggregates returns them.
func GenerateInsights(cfg Config, daily []DailyAggregate, products []ProductAggregate, previous []DailyAggregate) []Insight {
	insights := make([]Insight, 0)

	currentTotal := SumTotals(daily)
	change := PercentChange(currentTotal, SumTotals(previous))
	switch {
	case change > 0:
		insights = append(insights, Insight{
			Type:        InsightIncrease,
			Title:       "Penjualan Meningkat",
			Description: fmt.Sprintf("Penjualan naik %.1f%% dibanding periode sebelumnya.", change),
			Percentage:  ptr(change),
		})
	case change < 0:
		insights = append(insights, Insight{
			Type:        InsightDecrease,
			Title:       "Penjualan Menurun",
			Description: fmt.Sprintf("Penjualan turun %.1f%% dibanding periode sebelumnya.", math.Abs(change)),
			Percentage:  ptr(change),
		})
	}

	if len(products) > 0 {
		top := products[0]
		insights = append(insights, Insight{
			Type:        InsightInfo,
			Title:       "Produk Terlaris",
			Description: fmt.Sprintf("%s adalah produk paling laris dengan %d unit terjual.", top.ProductName, top.TotalQuantity),
			Value:       ptr(float64(top.TotalQuantity)),
		})
	}

	// Median by revenue rank, not a variance measure.
	if len(products) > 1 {
		mid := products[len(products)/2]
		insights = append(insights, Insight{
			Type:        InsightStable,
			Title:       "Produk Paling Stabil",
			Description: fmt.Sprintf("%s memiliki penjualan yang stabil.", mid.ProductName),
		})
	}

	insights = append(insights, detectAnomalies(cfg, daily, currentTotal)...)

	if len(products) > 0 {
		slowest := products[len(products)-1]
		if slowest.TotalQuantity < cfg.SlowMoverQuantity {
			insights = append(insights, Insight{
				Type:        InsightDecrease,
				Title:       "Produk Lambat Laku",
				Description: fmt.Sprintf("%s hanya terjual %d unit. Pertimbangkan promo atau bundling.", slowest.ProductName, slowest.TotalQuantity),
				Value:       ptr(float64(slowest.TotalQuantity)),
			})
		}
	}

	return insights
}

func detectAnomalies(cfg Config, daily []DailyAggregate, total float64) []Insight {
	if len(daily) < cfg.AnomalyMinDays || len(daily) == 0 {
		return nil
	}
	mean := total / float64(len(daily))
	stdDev := populationStdDev(daily, mean)

	var out []Insight
	for _, d := range daily {
		if math.Abs(d.Total-mean) <= cfg.AnomalySigma*stdDev {
			continue
		}
		high := d.Total > mean
		title, level := "Penjualan Tidak Biasa (Rendah)", "sangat rendah"
		if high {
			title, level = "Penjualan Tidak Biasa (Tinggi)", "sangat tinggi"
		}
		out = append(out, Insight{
			Type:        InsightAnomaly,
			Title:       title,
			Description: fmt.Sprintf("Penjualan pada %s %s (%s) dibanding rata-rata.", FormatDate(d.Date), level, FormatCurrency(d.Total)),
			Value:       ptr(d.Total),
			Date:        d.Date,
		})
	}
	return out
}

func populationStdDev(daily []DailyAggregate, mean float64) float64 {
	var sq float64
	for _, d := range daily {
		sq += (d.Total - mean) * (d.Total - mean)
	}
	return math.Sqrt(sq / float64(len(daily)))
}

func ptr(v float64) *float64 { return &v }
