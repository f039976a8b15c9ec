package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// NIM completes chats through NVIDIA NIM's OpenAI-compatible endpoint.
type NIM struct {
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration
}

func NewNIM(baseURL, apiKey, model string, timeout time.Duration) *NIM {
	return &NIM{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (n *NIM) Complete(ctx context.Context, system, message string) (string, error) {
	timeout := n.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout || timeout <= 0 {
			timeout = left
		}
	}

	agent := fiber.Post(n.baseURL + "/chat/completions")
	agent.Set(fiber.HeaderAuthorization, "Bearer "+n.apiKey)
	agent.JSON(chatRequest{
		Model: n.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: message},
		},
		Temperature: 0.7,
		MaxTokens:   1024,
	})
	if timeout > 0 {
		agent.Timeout(timeout)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("call nim: %w", errs[0])
	}
	if code < 200 || code > 299 {
		return "", &UpstreamError{Status: code, Message: strings.TrimSpace(string(body))}
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode nim response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
