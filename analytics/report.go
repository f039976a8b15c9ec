package analytics

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"salesdash/models"
)

const reportTopProducts = 5

// Report is the period report shown on the report page and sent by e-mail.
type Report struct {
	StoreName     string             `json:"storeName"`
	GeneratedAt   time.Time          `json:"generatedAt"`
	Window        Window             `json:"period"`
	TotalSales    float64            `json:"totalSales"`
	TotalQuantity int                `json:"totalQuantity"`
	AverageDaily  float64            `json:"averageDaily"`
	TopProducts   []ProductAggregate `json:"topProducts"`
	Insights      []Insight          `json:"insights"`
	Prediction    Prediction         `json:"predictions"`
	StockAlerts   []StockStatus      `json:"stockAlerts"`
	Summary       string             `json:"summary"`
}

// BuildReport assembles the report for a snapshot.
func BuildReport(cfg Config, now time.Time, storeName string, snap Snapshot, products []models.Product) Report {
	pred := WeeklyForecast(cfg, snap.Daily, snap.Products)

	top := snap.Products
	if len(top) > reportTopProducts {
		top = top[:reportTopProducts]
	}

	lastWeek := snap.Daily
	if len(lastWeek) > 7 {
		lastWeek = lastWeek[len(lastWeek)-7:]
	}

	r := Report{
		StoreName:     storeName,
		GeneratedAt:   now,
		Window:        snap.Window,
		TotalSales:    snap.TotalRevenue,
		TotalQuantity: snap.TotalQuantity,
		TopProducts:   top,
		Insights:      GenerateInsights(cfg, snap.Daily, snap.Products, snap.PreviousDaily),
		Prediction:    pred,
		StockAlerts:   NeedsAttention(AnalyzeStock(cfg, products, snap.Products)),
		Summary:       WeeklySummary(lastWeek, snap.Products),
	}
	if snap.Window.Days > 0 {
		r.AverageDaily = snap.TotalRevenue / float64(snap.Window.Days)
	}
	return r
}

// WeeklySummary is the plain-text digest of a week of sales.
func WeeklySummary(daily []DailyAggregate, products []ProductAggregate) string {
	total := SumTotals(daily)
	avg := 0.0
	if len(daily) > 0 {
		avg = total / float64(len(daily))
	}

	topName, topQty, slowName, slowQty := "-", 0, "-", 0
	if len(products) > 0 {
		topName, topQty = products[0].ProductName, products[0].TotalQuantity
		last := products[len(products)-1]
		slowName, slowQty = last.ProductName, last.TotalQuantity
	}

	var b strings.Builder
	b.WriteString("Ringkasan minggu ini:\n")
	fmt.Fprintf(&b, "- Total penjualan: %s\n", FormatCurrency(total))
	fmt.Fprintf(&b, "- Total unit terjual: %s unit\n", FormatNumber(float64(SumQuantity(daily))))
	fmt.Fprintf(&b, "- Rata-rata harian: %s\n", FormatCurrency(avg))
	fmt.Fprintf(&b, "- Produk terlaris: %s (%d unit)\n", topName, topQty)
	fmt.Fprintf(&b, "- Produk perlu perhatian: %s (%d unit)", slowName, slowQty)
	return b.String()
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"currency": FormatCurrency,
	"date":     FormatDate,
	"label":    Label,
	"pct":      func(v float64) string { return fmt.Sprintf("%.0f%%", v) },
}).Parse(`<!DOCTYPE html>
<html><body style="font-family:sans-serif">
<h2>Laporan Penjualan - {{.StoreName}}</h2>
<p>Periode: {{date .Window.Start}} - {{date .Window.End}}</p>
<h3>Ringkasan</h3>
<table>
<tr><td>Total penjualan</td><td>{{currency .TotalSales}}</td></tr>
<tr><td>Unit terjual</td><td>{{.TotalQuantity}}</td></tr>
<tr><td>Rata-rata harian</td><td>{{currency .AverageDaily}}</td></tr>
</table>
<h3>Produk terlaris</h3>
<table>
<tr><th>Produk</th><th>Jumlah</th><th>Pendapatan</th></tr>
{{range .TopProducts}}<tr><td>{{.ProductName}}</td><td>{{.TotalQuantity}}</td><td>{{currency .TotalRevenue}}</td></tr>
{{end}}</table>
<h3>Prediksi minggu depan</h3>
<p>{{currency .Prediction.PredictedValue}} (tren {{label .Prediction.Trend}}, keyakinan {{pct .Prediction.ConfidenceLevel}})</p>
{{if .StockAlerts}}<h3>Stok perlu perhatian</h3>
<ul>{{range .StockAlerts}}<li>{{.ProductName}}: {{.CurrentStock}} ({{label .Status}})</li>{{end}}</ul>{{end}}
{{if .Insights}}<h3>Insight</h3>
<ul>{{range .Insights}}<li><b>{{.Title}}</b>: {{.Description}}</li>{{end}}</ul>{{end}}
</body></html>`))

// RenderReportHTML renders the report as an HTML e-mail body.
func RenderReportHTML(r Report) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}
