// Package analytics turns product and sale snapshots into the dashboard's
// derived figures: daily and per-product rollups, insights, forecasts, stock
// status, recommendations and notifications. Every function is pure and
// recomputes from scratch.
package analytics

// Velocity bases for ProductAggregates.
const (
	VelocityByWindow     = "window"
	VelocityByActiveDays = "active-days"
)

// NoDepletion is the daysUntilEmpty sentinel for products that do not sell.
const NoDepletion = 999

// Config holds the tunable thresholds of the heuristics.
type Config struct {
	WindowDays    int
	VelocityBasis string

	TrendBandPct      float64
	SlowMoverQuantity int
	AnomalyMinDays    int
	AnomalySigma      float64

	RestockHorizonDays   int
	CriticalStockFactor  float64
	OverstockFactor      float64
	RestockMinConfidence float64

	PriceTrendPct          float64
	MarginRatio            float64
	ExpansionTrendPct      float64
	ExpansionMinConfidence float64

	LowStockRatio        float64
	LowStockNormalizer   float64
	LowSalesTransactions int
	RecentDays           int
}

// DefaultConfig returns the thresholds the dashboard has always used.
func DefaultConfig() Config {
	return Config{
		WindowDays:    30,
		VelocityBasis: VelocityByWindow,

		TrendBandPct:      5,
		SlowMoverQuantity: 10,
		AnomalyMinDays:    8,
		AnomalySigma:      2,

		RestockHorizonDays:   30,
		CriticalStockFactor:  0.5,
		OverstockFactor:      5,
		RestockMinConfidence: 70,

		PriceTrendPct:          15,
		MarginRatio:            1.5,
		ExpansionTrendPct:      20,
		ExpansionMinConfidence: 75,

		LowStockRatio:        0.2,
		LowStockNormalizer:   50,
		LowSalesTransactions: 5,
		RecentDays:           7,
	}
}
