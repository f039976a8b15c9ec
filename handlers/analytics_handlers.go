package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"salesdash/analytics"
	"salesdash/models"
	"salesdash/repository"
)

// snapshot loads the owner's data and aggregates the requested window.
func (h *Handler) snapshot(c *fiber.Ctx, days int) (analytics.Snapshot, []models.Product, error) {
	products, sales, err := h.ownerData(c.UserContext(), ownerID(c))
	if err != nil {
		return analytics.Snapshot{}, nil, err
	}
	return analytics.BuildSnapshot(h.Analytics, h.ownerNow(c), sales, days), products, nil
}

func (h *Handler) windowSnapshot(c *fiber.Ctx) (analytics.Snapshot, []models.Product, error) {
	days, ok := h.queryDays(c)
	if !ok {
		return analytics.Snapshot{}, nil, fiber.NewError(fiber.StatusBadRequest, "days must be between 1 and 366")
	}
	return h.snapshot(c, days)
}

// analyticsError reports a bad query parameter as 400 and anything else as a
// store failure.
func (h *Handler) analyticsError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return errorJSON(c, fe.Code, fe.Message)
	}
	return h.storeError(c, err, "analytics")
}

// HandleGetAnalytics returns the headline figures of the window.
// GET /api/v1/analytics?days=30
func (h *Handler) HandleGetAnalytics(c *fiber.Ctx) error {
	snap, products, err := h.windowSnapshot(c)
	if err != nil {
		return h.analyticsError(c, err)
	}

	lowStock := make([]models.Product, 0)
	for _, p := range products {
		if p.Stock <= p.MinStock {
			lowStock = append(lowStock, p)
		}
	}

	return successJSON(c, fiber.StatusOK, fiber.Map{
		"totalRevenue":            snap.TotalRevenue,
		"totalQuantity":           snap.TotalQuantity,
		"totalTransactions":       snap.Transactions,
		"averageTransactionValue": snap.AverageTxValue,
		"productSales":            snap.Products,
		"dailySales":              snap.Daily,
		"lowStockProducts":        lowStock,
		"period":                  snap.Window,
	})
}

// HandleGetInsights compares the window with the one before it.
// GET /api/v1/analytics/insights?days=30
func (h *Handler) HandleGetInsights(c *fiber.Ctx) error {
	snap, _, err := h.windowSnapshot(c)
	if err != nil {
		return h.analyticsError(c, err)
	}
	return successJSON(c, fiber.StatusOK, analytics.GenerateInsights(h.Analytics, snap.Daily, snap.Products, snap.PreviousDaily))
}

// HandleGetPrediction forecasts revenue for the requested period.
// GET /api/v1/analytics/prediction?period=weekly&days=30
func (h *Handler) HandleGetPrediction(c *fiber.Ctx) error {
	period := c.Query("period", analytics.PeriodWeekly)
	if !analytics.ValidPeriod(period) {
		return errorJSON(c, fiber.StatusBadRequest, "period must be daily, weekly or monthly")
	}

	snap, _, err := h.windowSnapshot(c)
	if err != nil {
		return h.analyticsError(c, err)
	}
	pred, err := analytics.Forecast(h.Analytics, snap.Daily, snap.Products, period)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return successJSON(c, fiber.StatusOK, pred)
}

// HandleGetStockAnalysis returns the depletion outlook of every product.
// GET /api/v1/analytics/stock?days=30
func (h *Handler) HandleGetStockAnalysis(c *fiber.Ctx) error {
	snap, products, err := h.windowSnapshot(c)
	if err != nil {
		return h.analyticsError(c, err)
	}

	statuses := analytics.AnalyzeStock(h.Analytics, products, snap.Products)
	return successJSON(c, fiber.StatusOK, fiber.Map{
		"products":       statuses,
		"needsAttention": analytics.NeedsAttention(statuses),
	})
}

// HandleGetRecommendations derives business recommendations from the forecast
// and the stock outlook.
// GET /api/v1/analytics/recommendations?period=weekly&days=30
func (h *Handler) HandleGetRecommendations(c *fiber.Ctx) error {
	period := c.Query("period", analytics.PeriodWeekly)
	if !analytics.ValidPeriod(period) {
		return errorJSON(c, fiber.StatusBadRequest, "period must be daily, weekly or monthly")
	}

	snap, products, err := h.windowSnapshot(c)
	if err != nil {
		return h.analyticsError(c, err)
	}
	pred, err := analytics.Forecast(h.Analytics, snap.Daily, snap.Products, period)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	stock := analytics.AnalyzeStock(h.Analytics, products, snap.Products)
	return successJSON(c, fiber.StatusOK, analytics.Recommend(h.Analytics, pred, stock, products, snap.Products))
}

// HandleGetNotifications runs the alert checks. Owners who switched
// notifications off get an empty list.
// GET /api/v1/notifications
func (h *Handler) HandleGetNotifications(c *fiber.Ctx) error {
	businessName := ""
	saved, err := h.Store.GetSettings(c.UserContext(), ownerID(c))
	switch {
	case err == nil:
		if !saved.EnableNotifications {
			return successJSON(c, fiber.StatusOK, []analytics.Notification{})
		}
		businessName = saved.BusinessName
	case !errors.Is(err, repository.ErrNotFound):
		return h.storeError(c, err, "settings")
	}

	products, sales, err := h.ownerData(c.UserContext(), ownerID(c))
	if err != nil {
		return h.storeError(c, err, "notifications")
	}

	now := h.ownerNow(c)
	snap := analytics.BuildSnapshot(h.Analytics, now, sales, h.Analytics.WindowDays)
	pred := analytics.WeeklyForecast(h.Analytics, snap.Daily, snap.Products)

	return successJSON(c, fiber.StatusOK, analytics.Notify(h.Analytics, analytics.NotificationInput{
		Now:          now,
		Products:     products,
		Sales:        sales,
		BusinessName: businessName,
		Prediction:   &pred,
	}))
}
