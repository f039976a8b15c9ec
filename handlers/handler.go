// Package handlers implements the /api/v1 endpoints on top of a repository
// store and the analytics pipeline.
package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"salesdash/analytics"
	"salesdash/assistant"
	"salesdash/mailer"
	"salesdash/models"
	"salesdash/repository"
)

// Handler carries the dependencies shared by every endpoint.
type Handler struct {
	Store     repository.Store
	Assistant *assistant.Assistant
	Mailer    mailer.Sender
	Log       *zap.Logger
	Analytics analytics.Config
	// Now is the clock used for windows and timestamps. It should return the
	// business's local time so calendar days line up with sale dates.
	Now func() time.Time
}

// New returns a Handler with a wall clock in loc.
func New(store repository.Store, asst *assistant.Assistant, m mailer.Sender, log *zap.Logger, cfg analytics.Config, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	if asst == nil {
		asst = assistant.New("", nil)
	}
	return &Handler{
		Store:     store,
		Assistant: asst,
		Mailer:    m,
		Log:       log,
		Analytics: cfg,
		Now:       func() time.Time { return time.Now().In(loc) },
	}
}

func ownerID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}

func localString(c *fiber.Ctx, key string) string {
	v, _ := c.Locals(key).(string)
	return v
}

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"status": "error", "message": message})
}

func successJSON(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{"status": "success", "data": data})
}

// storeError maps repository sentinels onto HTTP statuses and logs anything
// unexpected.
func (h *Handler) storeError(c *fiber.Ctx, err error, what string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, what+" not found")
	case errors.Is(err, repository.ErrConflict):
		return errorJSON(c, fiber.StatusConflict, what+" already exists")
	}
	h.Log.Error("store operation failed",
		zap.String("resource", what),
		zap.String("path", c.Path()),
		zap.String("user_id", ownerID(c)),
		zap.Error(err))
	return errorJSON(c, fiber.StatusInternalServerError, "Failed to process "+what)
}

// logActivity records a write. Failures are logged and never fail the request.
func (h *Handler) logActivity(c *fiber.Ctx, action, details string) {
	entry := &models.ActivityLog{
		ID:        uuid.NewString(),
		UserID:    ownerID(c),
		UserName:  localString(c, "userName"),
		Action:    action,
		Details:   details,
		Timestamp: h.Now().UTC(),
	}
	if err := h.Store.LogActivity(c.UserContext(), entry); err != nil {
		h.Log.Warn("activity log write failed", zap.String("action", action), zap.Error(err))
	}
}

// settingsFor returns the owner's saved settings, or the defaults when none
// were saved.
func (h *Handler) settingsFor(c *fiber.Ctx) (models.Settings, error) {
	defaults := models.DefaultSettings(localString(c, "userName"), localString(c, "userEmail"))
	s, err := h.Store.GetSettings(c.UserContext(), ownerID(c))
	if errors.Is(err, repository.ErrNotFound) {
		return defaults, nil
	}
	if err != nil {
		return models.Settings{}, err
	}
	s.Normalize(defaults)
	return s, nil
}

// ownerNow is the current time in the owner's saved timezone. Owners without
// saved settings, or with a zone that no longer loads, get the server zone.
func (h *Handler) ownerNow(c *fiber.Ctx) time.Time {
	now := h.Now()
	if loc, ok := c.Locals("ownerLocation").(*time.Location); ok {
		return now.In(loc)
	}
	s, err := h.Store.GetSettings(c.UserContext(), ownerID(c))
	if err != nil || s.Timezone == "" {
		return now
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		h.Log.Warn("owner timezone ignored", zap.String("timezone", s.Timezone), zap.Error(err))
		return now
	}
	c.Locals("ownerLocation", loc)
	return now.In(loc)
}

// ownerData loads every product and sale of the owner.
func (h *Handler) ownerData(ctx context.Context, userID string) ([]models.Product, []models.Sale, error) {
	products, err := h.Store.ListProducts(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	sales, err := h.Store.ListSales(ctx, userID, models.SalesFilter{})
	if err != nil {
		return nil, nil, err
	}
	return products, sales, nil
}

// queryDays reads the days parameter, falling back to the analytics window.
func (h *Handler) queryDays(c *fiber.Ctx) (int, bool) {
	days := c.QueryInt("days", h.Analytics.WindowDays)
	return days, days > 0 && days <= 366
}
