// Package assistant answers owner questions: keyword-routed data queries and
// a chat assistant backed by an LLM provider or a built-in responder.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salesdash/analytics"
	"salesdash/models"
)

// ErrNoProvider is returned by FromConfig for an unknown provider name.
var ErrNoProvider = errors.New("unknown ai provider")

// UpstreamError is a non-2xx answer from the LLM provider.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ai provider returned %d: %s", e.Status, e.Message)
}

// Completer sends one system prompt and one user message to an LLM.
type Completer interface {
	Complete(ctx context.Context, system, message string) (string, error)
}

// BusinessContext is the data summary the assistant reasons over.
type BusinessContext struct {
	StoreName    string
	WindowDays   int
	TotalRevenue float64
	ProductCount int
	TopProducts  []analytics.ProductAggregate
	LowStock     []models.Product
}

// BuildContext summarizes the owner's last window of sales.
func BuildContext(cfg analytics.Config, now time.Time, storeName string, products []models.Product, sales []models.Sale) BusinessContext {
	snap := analytics.BuildSnapshot(cfg, now, sales, cfg.WindowDays)
	top := snap.Products
	if len(top) > 5 {
		top = top[:5]
	}
	low := make([]models.Product, 0)
	for _, p := range products {
		if p.Stock <= p.MinStock {
			low = append(low, p)
		}
	}
	if storeName == "" {
		storeName = "Toko Saya"
	}
	return BusinessContext{
		StoreName:    storeName,
		WindowDays:   snap.Window.Days,
		TotalRevenue: snap.TotalRevenue,
		ProductCount: len(products),
		TopProducts:  top,
		LowStock:     low,
	}
}

// DailyAverage spreads revenue over the whole window.
func (b BusinessContext) DailyAverage() float64 {
	if b.WindowDays <= 0 {
		return 0
	}
	return b.TotalRevenue / float64(b.WindowDays)
}

// String renders the context as prompt text.
func (b BusinessContext) String() string {
	top := make([]string, 0, len(b.TopProducts))
	for _, p := range b.TopProducts {
		top = append(top, p.ProductName)
	}
	low := make([]string, 0, len(b.LowStock))
	for _, p := range b.LowStock {
		low = append(low, p.Name)
	}
	topText, lowText := "Belum ada data", "Tidak ada"
	if len(top) > 0 {
		topText = strings.Join(top, ", ")
	}
	if len(low) > 0 {
		lowText = strings.Join(low, ", ")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Data bisnis %q:\n", b.StoreName)
	fmt.Fprintf(&sb, "- Total penjualan %d hari: %s\n", b.WindowDays, analytics.FormatCurrency(b.TotalRevenue))
	fmt.Fprintf(&sb, "- Rata-rata harian: %s\n", analytics.FormatCurrency(b.DailyAverage()))
	fmt.Fprintf(&sb, "- Total produk: %d\n", b.ProductCount)
	fmt.Fprintf(&sb, "- Produk terlaris: %s\n", topText)
	fmt.Fprintf(&sb, "- Produk stok rendah: %s", lowText)
	return sb.String()
}

const systemPrompt = `Kamu adalah asisten bisnis untuk UMKM Indonesia. Berikan saran praktis yang bisa langsung dijalankan berdasarkan data bisnis berikut:

%s

Jawab dalam Bahasa Indonesia yang mudah dipahami. Fokus pada:
1. Analisis yang relevan dengan pertanyaan
2. Rekomendasi konkret dan praktis
3. Angka spesifik dari data jika relevan
4. Tips yang bisa langsung diterapkan`

// Assistant routes chat messages to the configured provider, or to the
// built-in responder when none is configured.
type Assistant struct {
	completer Completer
	provider  string
}

// New wraps a completer. A nil completer selects the built-in responder.
func New(provider string, c Completer) *Assistant {
	if c == nil {
		provider = "local"
	}
	return &Assistant{completer: c, provider: provider}
}

// Provider names the backend answering chats.
func (a *Assistant) Provider() string { return a.provider }

// Chat answers message. contextText, when non-empty, replaces the rendered
// business context in the prompt.
func (a *Assistant) Chat(ctx context.Context, message, contextText string, biz BusinessContext) (string, error) {
	if a.completer == nil {
		return LocalResponse(message, biz), nil
	}
	if strings.TrimSpace(contextText) == "" {
		contextText = biz.String()
	}
	reply, err := a.completer.Complete(ctx, fmt.Sprintf(systemPrompt, contextText), message)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "Maaf, tidak dapat memproses permintaan.", nil
	}
	return reply, nil
}
