package analytics

import (
	"fmt"
	"math"
)

// Forecast periods.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// Trend directions.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

const (
	forecastDays = 14
	halfWindow   = 7
)

type confidenceRange struct{ lo, hi float64 }

var (
	periodConfidence = map[string]confidenceRange{
		PeriodDaily:   {75, 85},
		PeriodWeekly:  {70, 80},
		PeriodMonthly: {60, 75},
	}
	productConfidence = confidenceRange{65, 80}
	productForecasts  = 5
)

// ProductPrediction is the forecast quantity for one product.
type ProductPrediction struct {
	ProductID         string  `json:"productId"`
	ProductName       string  `json:"productName"`
	PredictedQuantity int     `json:"predictedQuantity"`
	Confidence        float64 `json:"confidence"`
}

// Prediction is the revenue forecast for a period.
type Prediction struct {
	Period             string              `json:"period"`
	PredictedValue     float64             `json:"predictedValue"`
	ConfidenceLevel    float64             `json:"confidenceLevel"`
	Trend              string              `json:"trend"`
	TrendPercentage    float64             `json:"trendPercentage"`
	ProductPredictions []ProductPrediction `json:"productPredictions"`
}

// ValidPeriod reports whether p is a known forecast period.
func ValidPeriod(p string) bool {
	_, ok := periodConfidence[p]
	return ok
}

// HorizonMultiplier is the number of days a period covers.
func HorizonMultiplier(period string) float64 {
	switch period {
	case PeriodWeekly:
		return 7
	case PeriodMonthly:
		return 30
	default:
		return 1
	}
}

// Forecast projects the last two weeks forward. The trend compares the first
// seven days with the rest; confidence falls as the daily totals get noisier.
func Forecast(cfg Config, daily []DailyAggregate, products []ProductAggregate, period string) (Prediction, error) {
	band, ok := periodConfidence[period]
	if !ok {
		return Prediction{}, fmt.Errorf("unknown forecast period %q", period)
	}
	return forecast(cfg, daily, products, period, band), nil
}

// WeeklyForecast is Forecast for the weekly period, which cannot fail.
func WeeklyForecast(cfg Config, daily []DailyAggregate, products []ProductAggregate) Prediction {
	return forecast(cfg, daily, products, PeriodWeekly, periodConfidence[PeriodWeekly])
}

func forecast(cfg Config, daily []DailyAggregate, products []ProductAggregate, period string, band confidenceRange) Prediction {
	recent := daily
	if len(recent) > forecastDays {
		recent = recent[len(recent)-forecastDays:]
	}

	avg := averageTotal(recent)
	trendPct := 0.0
	if len(recent) > halfWindow {
		trendPct = PercentChange(averageTotal(recent[halfWindow:]), averageTotal(recent[:halfWindow]))
	}

	cv := coefficientOfVariation(recent, avg)
	horizon := HorizonMultiplier(period)
	growth := 1 + trendPct/100

	pred := Prediction{
		Period:             period,
		PredictedValue:     avg * horizon * growth,
		ConfidenceLevel:    band.scale(cv),
		Trend:              classifyTrend(trendPct, cfg.TrendBandPct),
		TrendPercentage:    trendPct,
		ProductPredictions: make([]ProductPrediction, 0, productForecasts),
	}

	top := products
	if len(top) > productForecasts {
		top = top[:productForecasts]
	}
	for _, p := range top {
		pred.ProductPredictions = append(pred.ProductPredictions, ProductPrediction{
			ProductID:         p.ProductID,
			ProductName:       p.ProductName,
			PredictedQuantity: int(math.Round(p.AverageDaily * horizon * growth)),
			Confidence:        productConfidence.scale(cv),
		})
	}
	return pred
}

func classifyTrend(pct, band float64) string {
	switch {
	case pct > band:
		return TrendUp
	case pct < -band:
		return TrendDown
	default:
		return TrendStable
	}
}

func (r confidenceRange) scale(cv float64) float64 {
	return r.lo + (r.hi-r.lo)*(1-math.Min(cv, 1))
}

func averageTotal(days []DailyAggregate) float64 {
	if len(days) == 0 {
		return 0
	}
	return SumTotals(days) / float64(len(days))
}

// coefficientOfVariation is stdDev/mean of the daily totals. An empty or
// all-zero series counts as maximally uncertain.
func coefficientOfVariation(days []DailyAggregate, mean float64) float64 {
	if len(days) == 0 || mean <= 0 {
		return 1
	}
	return populationStdDev(days, mean) / mean
}
