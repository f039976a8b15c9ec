package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"salesdash/models"
)

// MemoryStore keeps everything in process. It backs DB_DRIVER=memory for
// local runs and the handler tests.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]models.Product
	sales    map[string]models.Sale
	settings map[string]models.Settings
	activity []models.ActivityLog
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]models.Product),
		sales:    make(map[string]models.Sale),
		settings: make(map[string]models.Settings),
	}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) ListProducts(_ context.Context, userID string) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Product, 0)
	for _, p := range m.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) ListProductsPage(ctx context.Context, userID string, limit, offset int) ([]models.Product, int, error) {
	all, _ := m.ListProducts(ctx, userID)
	total := len(all)
	if offset >= total {
		return []models.Product{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *MemoryStore) GetProduct(_ context.Context, userID, id string) (models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok || p.UserID != userID {
		return models.Product{}, ErrNotFound
	}
	return p, nil
}

// nameTaken compares names ignoring case, like the SQL unique indexes.
func (m *MemoryStore) nameTaken(userID, name, exceptID string) bool {
	for _, p := range m.products {
		if p.UserID == userID && p.ID != exceptID && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func (m *MemoryStore) CreateProduct(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.nameTaken(p.UserID, p.Name, p.ID) {
		return fmt.Errorf("create product: %w", ErrConflict)
	}
	m.products[p.ID] = *p
	return nil
}

func (m *MemoryStore) UpdateProduct(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.products[p.ID]
	if !ok || cur.UserID != p.UserID {
		return ErrNotFound
	}
	if m.nameTaken(p.UserID, p.Name, p.ID) {
		return fmt.Errorf("update product: %w", ErrConflict)
	}
	m.products[p.ID] = *p
	return nil
}

func (m *MemoryStore) DeleteProduct(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok || p.UserID != userID {
		return ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *MemoryStore) ListSales(_ context.Context, userID string, f models.SalesFilter) ([]models.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Sale, 0)
	for _, s := range m.sales {
		switch {
		case s.UserID != userID:
		case f.From != "" && s.Date < f.From:
		case f.To != "" && s.Date > f.To:
		case f.ProductID != "" && s.ProductID != f.ProductID:
		default:
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) GetSale(_ context.Context, userID, id string) (models.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sales[id]
	if !ok || s.UserID != userID {
		return models.Sale{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) CreateSale(_ context.Context, s *models.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[s.ProductID]
	if !ok || p.UserID != s.UserID {
		return ErrNotFound
	}
	p.Stock -= s.Quantity
	m.products[p.ID] = p
	m.sales[s.ID] = *s
	return nil
}

func (m *MemoryStore) UpdateSale(_ context.Context, s *models.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.sales[s.ID]
	if !ok || cur.UserID != s.UserID {
		return ErrNotFound
	}
	m.sales[s.ID] = *s
	return nil
}

func (m *MemoryStore) DeleteSale(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sales[id]
	if !ok || s.UserID != userID {
		return ErrNotFound
	}
	delete(m.sales, id)
	return nil
}

func (m *MemoryStore) GetSettings(_ context.Context, userID string) (models.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.settings[userID]
	if !ok {
		return models.Settings{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) SaveSettings(_ context.Context, userID string, s *models.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings[userID] = *s
	return nil
}

func (m *MemoryStore) LogActivity(_ context.Context, a *models.ActivityLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.activity = append(m.activity, *a)
	return nil
}

func (m *MemoryStore) ListActivity(_ context.Context, userID string, limit int) ([]models.ActivityLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.ActivityLog, 0)
	for i := len(m.activity) - 1; i >= 0 && len(out) < limit; i-- {
		if m.activity[i].UserID == userID {
			out = append(out, m.activity[i])
		}
	}
	return out, nil
}
