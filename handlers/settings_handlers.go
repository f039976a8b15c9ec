package handlers

import (
	"net/mail"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"salesdash/models"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

// HandleGetSettings returns the owner's settings, or the defaults when none
// were saved.
// GET /api/v1/settings
func (h *Handler) HandleGetSettings(c *fiber.Ctx) error {
	s, err := h.settingsFor(c)
	if err != nil {
		return h.storeError(c, err, "settings")
	}
	return successJSON(c, fiber.StatusOK, s)
}

// HandleUpdateSettings replaces the owner's settings. Missing or invalid
// enumerations fall back to the defaults.
// PUT /api/v1/settings
func (h *Handler) HandleUpdateSettings(c *fiber.Ctx) error {
	var input models.Settings
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	input.BusinessName = strings.TrimSpace(input.BusinessName)
	input.NotificationEmail = strings.TrimSpace(input.NotificationEmail)
	if input.NotificationEmail != "" {
		if _, err := mail.ParseAddress(input.NotificationEmail); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "notificationEmail is not a valid address")
		}
	}
	input.Timezone = strings.TrimSpace(input.Timezone)
	if input.Timezone != "" {
		if _, err := time.LoadLocation(input.Timezone); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "timezone is not a valid IANA zone")
		}
	}
	if input.LowStockThreshold < 0 {
		return errorJSON(c, fiber.StatusBadRequest, "lowStockThreshold cannot be negative")
	}

	input.Normalize(models.DefaultSettings(localString(c, "userName"), localString(c, "userEmail")))
	input.UpdatedAt = h.Now().UTC()

	if err := h.Store.SaveSettings(c.UserContext(), ownerID(c), &input); err != nil {
		return h.storeError(c, err, "settings")
	}

	h.logActivity(c, models.ActionUpdateSettings, "Mengubah pengaturan usaha")
	return successJSON(c, fiber.StatusOK, input)
}

// HandleGetData returns everything the dashboard needs in one pull. Store
// failures degrade to empty data so the dashboard still renders.
// GET /api/v1/data
func (h *Handler) HandleGetData(c *fiber.Ctx) error {
	products, sales, err := h.ownerData(c.UserContext(), ownerID(c))
	if err != nil {
		h.Log.Error("loading dashboard data failed", zap.String("user_id", ownerID(c)), zap.Error(err))
		products, sales = []models.Product{}, []models.Sale{}
	}

	settings, err := h.settingsFor(c)
	if err != nil {
		h.Log.Error("loading settings failed", zap.String("user_id", ownerID(c)), zap.Error(err))
		settings = models.DefaultSettings(localString(c, "userName"), localString(c, "userEmail"))
	}

	return successJSON(c, fiber.StatusOK, fiber.Map{
		"products": products,
		"sales":    sales,
		"settings": settings,
	})
}

// HandleListActivity returns the newest activity log entries.
// GET /api/v1/activity?limit=50
func (h *Handler) HandleListActivity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultActivityLimit)
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	entries, err := h.Store.ListActivity(c.UserContext(), ownerID(c), limit)
	if err != nil {
		return h.storeError(c, err, "activity")
	}
	return successJSON(c, fiber.StatusOK, entries)
}
