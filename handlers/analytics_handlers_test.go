package handlers

import (
	"context"
	"errors"
	"testing"
	_ "time/tzdata"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/analytics"
	"salesdash/mailer"
	"salesdash/models"
	"salesdash/repository"
)

func seededApp(t *testing.T) (*fiber.App, *Handler) {
	store := repository.NewMemoryStore()
	seed(t, store)
	return newTestApp(t, store)
}

func TestGetAnalytics(t *testing.T) {
	app, _ := seededApp(t)

	code, env := do(t, app, "GET", "/analytics", nil)
	require.Equal(t, fiber.StatusOK, code)
	var body struct {
		TotalRevenue      float64                      `json:"totalRevenue"`
		TotalQuantity     int                          `json:"totalQuantity"`
		TotalTransactions int                          `json:"totalTransactions"`
		AverageTxValue    float64                      `json:"averageTransactionValue"`
		ProductSales      []analytics.ProductAggregate `json:"productSales"`
		LowStockProducts  []models.Product             `json:"lowStockProducts"`
		Period            analytics.Window             `json:"period"`
	}
	decode(t, env, &body)
	assert.Equal(t, 34000.0, body.TotalRevenue)
	assert.Equal(t, 7, body.TotalQuantity)
	assert.Equal(t, 3, body.TotalTransactions)
	assert.InDelta(t, 11333.33, body.AverageTxValue, 0.01)
	require.Len(t, body.ProductSales, 2)
	assert.Equal(t, "Kopi", body.ProductSales[0].ProductName)
	require.Len(t, body.LowStockProducts, 1)
	assert.Equal(t, "Teh", body.LowStockProducts[0].Name)
	assert.Equal(t, analytics.Window{Start: "2024-03-01", End: "2024-03-30", Days: 30}, body.Period)

	code, env = do(t, app, "GET", "/analytics?days=7", nil)
	require.Equal(t, fiber.StatusOK, code)
	decode(t, env, &body)
	assert.Equal(t, 14000.0, body.TotalRevenue)

	code, _ = do(t, app, "GET", "/analytics?days=-3", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestGetInsights(t *testing.T) {
	app, _ := seededApp(t)

	code, env := do(t, app, "GET", "/analytics/insights", nil)
	require.Equal(t, fiber.StatusOK, code)
	var insights []analytics.Insight
	decode(t, env, &insights)
	assert.NotEmpty(t, insights)
}

func TestGetPrediction(t *testing.T) {
	app, _ := seededApp(t)

	code, env := do(t, app, "GET", "/analytics/prediction?period=daily", nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	var pred analytics.Prediction
	decode(t, env, &pred)
	assert.Equal(t, analytics.PeriodDaily, pred.Period)
	assert.Len(t, pred.ProductPredictions, 2)

	code, env = do(t, app, "GET", "/analytics/prediction", nil)
	require.Equal(t, fiber.StatusOK, code)
	decode(t, env, &pred)
	assert.Equal(t, analytics.PeriodWeekly, pred.Period)

	code, _ = do(t, app, "GET", "/analytics/prediction?period=yearly", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestGetStockAnalysis(t *testing.T) {
	app, _ := seededApp(t)

	code, env := do(t, app, "GET", "/analytics/stock", nil)
	require.Equal(t, fiber.StatusOK, code)
	var body struct {
		Products       []analytics.StockStatus `json:"products"`
		NeedsAttention []analytics.StockStatus `json:"needsAttention"`
	}
	decode(t, env, &body)
	require.Len(t, body.Products, 2)
	assert.Equal(t, "Teh", body.Products[0].ProductName)
	assert.InDelta(t, 60, body.Products[0].DaysUntilEmpty, 1)
	assert.InDelta(t, 70, body.Products[1].DaysUntilEmpty, 1)
	require.Len(t, body.NeedsAttention, 1)
	assert.Equal(t, analytics.StockCritical, body.NeedsAttention[0].Status)
}

func TestGetRecommendations(t *testing.T) {
	app, _ := seededApp(t)

	code, env := do(t, app, "GET", "/analytics/recommendations?period=monthly", nil)
	require.Equal(t, fiber.StatusOK, code)
	var recs []analytics.Recommendation
	decode(t, env, &recs)
	require.NotEmpty(t, recs)

	types := make(map[string]bool)
	for _, r := range recs {
		types[r.Type] = true
	}
	assert.True(t, types[analytics.RecPromotion])

	code, _ = do(t, app, "GET", "/analytics/recommendations?period=hourly", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func notificationIDs(t *testing.T, env envelope) map[string]bool {
	var list []analytics.Notification
	decode(t, env, &list)
	ids := make(map[string]bool, len(list))
	for _, n := range list {
		ids[n.ID] = true
	}
	return ids
}

func TestGetNotifications(t *testing.T) {
	app, _ := seededApp(t)

	code, env := do(t, app, "GET", "/notifications", nil)
	require.Equal(t, fiber.StatusOK, code)
	ids := notificationIDs(t, env)
	assert.True(t, ids["setup:settings"])
	assert.True(t, ids["low-stock:p2"])
	assert.False(t, ids["low-stock:p1"])
	assert.True(t, ids["low-sales"])

	code, _ = do(t, app, "PUT", "/settings", map[string]interface{}{"businessName": "Warung Budi", "enableNotifications": true})
	require.Equal(t, fiber.StatusOK, code)
	code, env = do(t, app, "GET", "/notifications", nil)
	require.Equal(t, fiber.StatusOK, code)
	ids = notificationIDs(t, env)
	assert.False(t, ids["setup:settings"])
	assert.True(t, ids["low-stock:p2"])

	code, _ = do(t, app, "PUT", "/settings", map[string]interface{}{"businessName": "Warung Budi", "enableNotifications": false})
	require.Equal(t, fiber.StatusOK, code)
	code, env = do(t, app, "GET", "/notifications", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Empty(t, notificationIDs(t, env))
}

func TestReports(t *testing.T) {
	app, _ := seededApp(t)

	code, env := do(t, app, "GET", "/reports", nil)
	require.Equal(t, fiber.StatusOK, code)
	var r analytics.Report
	decode(t, env, &r)
	assert.Equal(t, "Toko Budi", r.StoreName)
	assert.Equal(t, 34000.0, r.TotalSales)
	require.Len(t, r.StockAlerts, 1)
	assert.Equal(t, analytics.PeriodWeekly, r.Prediction.Period)

	code, env = do(t, app, "GET", "/reports/summary", nil)
	require.Equal(t, fiber.StatusOK, code)
	var summary struct {
		Summary string `json:"summary"`
	}
	decode(t, env, &summary)
	assert.Contains(t, summary.Summary, "- Total penjualan: Rp 14.000")
	assert.Contains(t, summary.Summary, "- Produk terlaris: Kopi (2 unit)")
}

func TestSendReport(t *testing.T) {
	app, h := seededApp(t)

	code, env := do(t, app, "POST", "/email/send-report", map[string]string{"recipientEmail": "boss@example.com"})
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
	assert.Equal(t, "Email service not configured", env.Message)

	sent := &stubMailer{}
	h.Mailer = sent
	code, env = do(t, app, "POST", "/email/send-report", map[string]string{"recipientEmail": "boss@example.com"})
	require.Equal(t, fiber.StatusOK, code, env.Message)
	require.Len(t, sent.sent, 1)
	msg := sent.sent[0]
	assert.Equal(t, "boss@example.com", msg.To)
	assert.Equal(t, "Laporan Penjualan - Toko Budi", msg.Subject)
	assert.Contains(t, msg.HTML, "Laporan Penjualan - Toko Budi")
	assert.Contains(t, msg.Text, "Ringkasan minggu ini:")

	code, _ = do(t, app, "POST", "/email/send-report", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "budi@example.com", sent.sent[1].To)

	code, _ = do(t, app, "POST", "/email/send-report", map[string]string{"recipientEmail": "nobody"})
	assert.Equal(t, fiber.StatusBadRequest, code)

	sent.err = mailer.ErrNotConfigured
	code, _ = do(t, app, "POST", "/email/send-report", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, code)

	sent.err = errors.New("535 authentication failed")
	code, env = do(t, app, "POST", "/email/send-report", nil)
	assert.Equal(t, fiber.StatusBadGateway, code)
	assert.NotContains(t, env.Message, "535")
}

func TestOwnersAreIsolated(t *testing.T) {
	store := repository.NewMemoryStore()
	seed(t, store)
	require.NoError(t, store.CreateProduct(context.Background(), &models.Product{ID: "other", UserID: "owner-2", Name: "Kopi"}))
	app, _ := newTestApp(t, store)

	code, _ := do(t, app, "GET", "/products/other", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
	code, _ = do(t, app, "POST", "/sales", map[string]interface{}{"productId": "other", "quantity": 1})
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestWindowsFollowOwnerTimezone(t *testing.T) {
	app, _ := seededApp(t)

	var body struct {
		TotalRevenue float64          `json:"totalRevenue"`
		Period       analytics.Window `json:"period"`
	}
	code, env := do(t, app, "GET", "/analytics?days=1", nil)
	require.Equal(t, fiber.StatusOK, code)
	decode(t, env, &body)
	assert.Equal(t, "2024-03-30", body.Period.End)
	assert.Equal(t, 10000.0, body.TotalRevenue)

	code, _ = do(t, app, "PUT", "/settings", map[string]interface{}{"timezone": "Mars/Olympus"})
	assert.Equal(t, fiber.StatusBadRequest, code)

	// UTC+14: the server's noon is already the 31st there.
	code, env = do(t, app, "PUT", "/settings", map[string]interface{}{"timezone": "Pacific/Kiritimati"})
	require.Equal(t, fiber.StatusOK, code, env.Message)

	code, env = do(t, app, "GET", "/analytics?days=1", nil)
	require.Equal(t, fiber.StatusOK, code)
	decode(t, env, &body)
	assert.Equal(t, analytics.Window{Start: "2024-03-31", End: "2024-03-31", Days: 1}, body.Period)
	assert.Equal(t, 0.0, body.TotalRevenue)

	code, env = do(t, app, "POST", "/sales", map[string]interface{}{"productId": "p1", "quantity": 1})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	var sale models.Sale
	decode(t, env, &sale)
	assert.Equal(t, "2024-03-31", sale.Date)
}
