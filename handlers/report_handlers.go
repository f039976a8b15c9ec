package handlers

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"salesdash/analytics"
	"salesdash/mailer"
)

const summaryDays = 7

// SendReportInput is the body of POST /email/send-report. Recipient defaults
// to the notification e-mail in settings.
type SendReportInput struct {
	RecipientEmail string `json:"recipientEmail"`
	Subject        string `json:"subject"`
	Days           int    `json:"days"`
}

func (h *Handler) buildReport(c *fiber.Ctx, days int) (analytics.Report, string, error) {
	snap, products, err := h.snapshot(c, days)
	if err != nil {
		return analytics.Report{}, "", err
	}
	settings, err := h.settingsFor(c)
	if err != nil {
		return analytics.Report{}, "", err
	}
	r := analytics.BuildReport(h.Analytics, h.ownerNow(c), settings.BusinessName, snap, products)
	return r, settings.NotificationEmail, nil
}

// HandleGetReport assembles the period report.
// GET /api/v1/reports?days=30
func (h *Handler) HandleGetReport(c *fiber.Ctx) error {
	days, ok := h.queryDays(c)
	if !ok {
		return errorJSON(c, fiber.StatusBadRequest, "days must be between 1 and 366")
	}
	r, _, err := h.buildReport(c, days)
	if err != nil {
		return h.storeError(c, err, "report")
	}
	return successJSON(c, fiber.StatusOK, r)
}

// HandleGetReportSummary returns the plain-text digest of the last week.
// GET /api/v1/reports/summary
func (h *Handler) HandleGetReportSummary(c *fiber.Ctx) error {
	snap, _, err := h.snapshot(c, summaryDays)
	if err != nil {
		return h.storeError(c, err, "report")
	}
	return successJSON(c, fiber.StatusOK, fiber.Map{
		"summary": analytics.WeeklySummary(snap.Daily, snap.Products),
		"period":  snap.Window,
	})
}

// HandleSendReport renders the report as HTML and e-mails it.
// POST /api/v1/email/send-report
func (h *Handler) HandleSendReport(c *fiber.Ctx) error {
	var input SendReportInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	days := input.Days
	if days == 0 {
		days = h.Analytics.WindowDays
	}
	if days < 0 || days > 366 {
		return errorJSON(c, fiber.StatusBadRequest, "days must be between 1 and 366")
	}

	r, settingsEmail, err := h.buildReport(c, days)
	if err != nil {
		return h.storeError(c, err, "report")
	}

	to := strings.TrimSpace(input.RecipientEmail)
	if to == "" {
		to = settingsEmail
	}
	if to == "" {
		return errorJSON(c, fiber.StatusBadRequest, "recipientEmail is required")
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "recipientEmail is not a valid address")
	}

	html, err := analytics.RenderReportHTML(r)
	if err != nil {
		h.Log.Error("rendering report failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to render report")
	}

	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		subject = "Laporan Penjualan - " + r.StoreName
	}

	if h.Mailer == nil {
		return errorJSON(c, fiber.StatusServiceUnavailable, "Email service not configured")
	}
	err = h.Mailer.Send(c.UserContext(), mailer.Message{To: to, Subject: subject, HTML: html, Text: r.Summary})
	switch {
	case errors.Is(err, mailer.ErrNotConfigured):
		return errorJSON(c, fiber.StatusServiceUnavailable, "Email service not configured")
	case err != nil:
		h.Log.Error("sending report failed", zap.String("to", to), zap.Error(err))
		return errorJSON(c, fiber.StatusBadGateway, "Failed to send email")
	}

	h.Log.Info("report sent", zap.String("to", to), zap.String("user_id", ownerID(c)))
	return successJSON(c, fiber.StatusOK, fiber.Map{"message": "Email sent successfully", "email": to})
}
