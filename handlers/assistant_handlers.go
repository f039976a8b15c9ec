package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"salesdash/assistant"
)

// QueryInput is the body of POST /query.
type QueryInput struct {
	Query string `json:"query"`
}

// ChatInput is the body of POST /chat. Context, when set, replaces the
// summary built from the owner's data.
type ChatInput struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

// HandleQuery routes a natural-language question to the matching figures.
// POST /api/v1/query
func (h *Handler) HandleQuery(c *fiber.Ctx) error {
	var input QueryInput
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(input.Query) == "" {
		return errorJSON(c, fiber.StatusBadRequest, "query is required")
	}

	products, sales, err := h.ownerData(c.UserContext(), ownerID(c))
	if err != nil {
		return h.storeError(c, err, "query")
	}

	q := assistant.ParseQuery(input.Query)
	return successJSON(c, fiber.StatusOK, assistant.Answer(h.Analytics, h.ownerNow(c), q, products, sales))
}

// HandleChat answers a free-form question with the configured AI provider.
// POST /api/v1/chat
func (h *Handler) HandleChat(c *fiber.Ctx) error {
	var input ChatInput
	if err := c.BodyParser(&input); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	input.Message = strings.TrimSpace(input.Message)
	if input.Message == "" {
		return errorJSON(c, fiber.StatusBadRequest, "message is required")
	}

	products, sales, err := h.ownerData(c.UserContext(), ownerID(c))
	if err != nil {
		return h.storeError(c, err, "chat")
	}
	settings, err := h.settingsFor(c)
	if err != nil {
		return h.storeError(c, err, "settings")
	}

	biz := assistant.BuildContext(h.Analytics, h.ownerNow(c), settings.BusinessName, products, sales)
	reply, err := h.Assistant.Chat(c.UserContext(), input.Message, input.Context, biz)
	if err != nil {
		return h.chatError(c, err)
	}

	return successJSON(c, fiber.StatusOK, fiber.Map{
		"reply":    reply,
		"provider": h.Assistant.Provider(),
	})
}

func (h *Handler) chatError(c *fiber.Ctx, err error) error {
	var up *assistant.UpstreamError
	if errors.As(err, &up) {
		h.Log.Warn("ai provider rejected request",
			zap.String("provider", h.Assistant.Provider()),
			zap.Int("upstream_status", up.Status),
			zap.String("upstream_message", up.Message))
		switch up.Status {
		case fiber.StatusUnauthorized:
			return errorJSON(c, fiber.StatusUnauthorized, "AI provider rejected the API key")
		case fiber.StatusTooManyRequests:
			return errorJSON(c, fiber.StatusTooManyRequests, "AI provider rate limit reached, try again later")
		}
		return errorJSON(c, fiber.StatusBadGateway, "AI provider error: "+up.Message)
	}

	h.Log.Error("chat failed", zap.String("provider", h.Assistant.Provider()), zap.Error(err))
	return errorJSON(c, fiber.StatusBadGateway, "AI provider is unavailable")
}
