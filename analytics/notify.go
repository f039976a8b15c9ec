package analytics

import (
	"fmt"
	"time"

	"salesdash/models"
)

// Notification types.
const (
	NotifyStock      = "stock-alert"
	NotifySales      = "sales-alert"
	NotifyPrediction = "prediction-alert"
	NotifySystem     = "system"
)

// Notification is a dashboard alert. IDs are stable across renders so a
// client can remember which ones it has read.
type Notification struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Priority  string `json:"priority"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	ActionURL string `json:"actionUrl,omitempty"`
}

// NotificationInput is the snapshot notifications are derived from.
type NotificationInput struct {
	Now          time.Time
	Products     []models.Product
	Sales        []models.Sale
	BusinessName string
	Prediction   *Prediction
}

// Notify runs the fixed threshold checks over the snapshot.
func Notify(cfg Config, in NotificationInput) []Notification {
	out := make([]Notification, 0)

	for _, p := range in.Products {
		switch {
		case p.Stock <= 0:
			out = append(out, Notification{
				ID:        "out-of-stock:" + p.ID,
				Type:      NotifyStock,
				Priority:  PriorityHigh,
				Title:     "Stok Habis",
				Message:   fmt.Sprintf("Stok %s sudah habis.", p.Name),
				ActionURL: "/stok",
			})
		case IsLowStock(cfg, p.Stock):
			out = append(out, Notification{
				ID:        "low-stock:" + p.ID,
				Type:      NotifyStock,
				Priority:  PriorityMedium,
				Title:     "Stok Rendah",
				Message:   fmt.Sprintf("Stok %s tinggal %d %s.", p.Name, p.Stock, unitOf(p)),
				ActionURL: "/stok",
			})
		}
	}

	if len(in.Products) > 0 && len(in.Sales) > 0 {
		recent := FilterByDateRange(in.Sales, WindowFor(in.Now, cfg.RecentDays))
		switch {
		case len(recent) == 0:
			out = append(out, Notification{
				ID:        "no-sales",
				Type:      NotifySales,
				Priority:  PriorityMedium,
				Title:     "Tidak Ada Penjualan",
				Message:   fmt.Sprintf("Tidak ada penjualan tercatat dalam %d hari terakhir.", cfg.RecentDays),
				ActionURL: "/data",
			})
		case len(recent) < cfg.LowSalesTransactions:
			out = append(out, Notification{
				ID:        "low-sales",
				Type:      NotifySales,
				Priority:  PriorityLow,
				Title:     "Aktivitas Penjualan Rendah",
				Message:   fmt.Sprintf("Hanya %d transaksi dalam %d hari terakhir.", len(recent), cfg.RecentDays),
				ActionURL: "/analisis",
			})
		}
	}

	if in.Prediction != nil && in.Prediction.Trend == TrendDown {
		out = append(out, Notification{
			ID:        "prediction:" + in.Prediction.Period,
			Type:      NotifyPrediction,
			Priority:  PriorityMedium,
			Title:     "Penjualan Diprediksi Turun",
			Message:   fmt.Sprintf("Prediksi %s menunjukkan tren turun %.1f%%.", Label(in.Prediction.Period), -in.Prediction.TrendPercentage),
			ActionURL: "/prediksi",
		})
	}

	if in.BusinessName == "" {
		out = append(out, Notification{
			ID:        "setup:settings",
			Type:      NotifySystem,
			Priority:  PriorityLow,
			Title:     "Lengkapi Profil Usaha",
			Message:   "Atur nama usaha dan preferensi Anda di Pengaturan.",
			ActionURL: "/pengaturan",
		})
	}
	if len(in.Products) == 0 {
		out = append(out, Notification{
			ID:        "setup:products",
			Type:      NotifySystem,
			Priority:  PriorityLow,
			Title:     "Tambahkan Produk Pertama",
			Message:   "Tambahkan produk yang Anda jual untuk mulai memantau stok.",
			ActionURL: "/data",
		})
	} else if len(in.Sales) == 0 {
		out = append(out, Notification{
			ID:        "setup:sales",
			Type:      NotifySystem,
			Priority:  PriorityLow,
			Title:     "Catat Penjualan Pertama",
			Message:   "Catat penjualan untuk melihat insight dan prediksi.",
			ActionURL: "/data",
		})
	}

	return out
}

// IsLowStock applies the normalized low-stock rule:
// stock/(stock+normalizer) <= ratio, for positive stock.
func IsLowStock(cfg Config, stock int) bool {
	if stock <= 0 {
		return false
	}
	s := float64(stock)
	return s/(s+cfg.LowStockNormalizer) <= cfg.LowStockRatio
}
