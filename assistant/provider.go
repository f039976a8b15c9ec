package assistant

import (
	"context"
	"fmt"
	"io"
	"time"

	"salesdash/config"
)

// Provider names.
const (
	ProviderGemini = "gemini"
	ProviderNIM    = "nim"
)

// FromConfig builds the assistant for the configured provider. The returned
// closer releases provider clients and is never nil.
func FromConfig(ctx context.Context, cfg config.AIConfig) (*Assistant, io.Closer, error) {
	switch cfg.Provider {
	case "", "local":
		return New("", nil), nopCloser{}, nil
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, nil, fmt.Errorf("%s: GEMINI_API_KEY is not set", ProviderGemini)
		}
		g, err := NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		return New(ProviderGemini, g), g, nil
	case ProviderNIM:
		if cfg.NIMAPIKey == "" {
			return nil, nil, fmt.Errorf("%s: NVIDIA_NIM_API_KEY is not set", ProviderNIM)
		}
		timeout := time.Duration(cfg.TimeoutSec) * time.Second
		return New(ProviderNIM, NewNIM(cfg.NIMBaseURL, cfg.NIMAPIKey, cfg.NIMModel, timeout)), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrNoProvider, cfg.Provider)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
