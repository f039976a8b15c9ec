// Package repository persists products, sales, settings and the activity log
// for each owner. Every query is scoped by the owner's user id.
package repository

import (
	"context"
	"encoding/json"
	"errors"

	"salesdash/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Store is implemented by the Postgres, MySQL and in-memory backends.
type Store interface {
	Ping(ctx context.Context) error

	ListProducts(ctx context.Context, userID string) ([]models.Product, error)
	ListProductsPage(ctx context.Context, userID string, limit, offset int) ([]models.Product, int, error)
	GetProduct(ctx context.Context, userID, id string) (models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, userID, id string) error

	ListSales(ctx context.Context, userID string, f models.SalesFilter) ([]models.Sale, error)
	GetSale(ctx context.Context, userID, id string) (models.Sale, error)
	// CreateSale records the sale and decrements the product's stock in one
	// transaction. Stock may go negative.
	CreateSale(ctx context.Context, s *models.Sale) error
	UpdateSale(ctx context.Context, s *models.Sale) error
	DeleteSale(ctx context.Context, userID, id string) error

	// GetSettings returns ErrNotFound when the owner never saved settings.
	GetSettings(ctx context.Context, userID string) (models.Settings, error)
	SaveSettings(ctx context.Context, userID string, s *models.Settings) error

	LogActivity(ctx context.Context, a *models.ActivityLog) error
	ListActivity(ctx context.Context, userID string, limit int) ([]models.ActivityLog, error)
}

// settingsRow is the flat form of models.Settings; list fields are stored as
// JSON text so both SQL backends share one schema.
type settingsRow struct {
	BusinessName        string `db:"business_name"`
	StoreAddress        string `db:"store_address"`
	BusinessType        string `db:"business_type"`
	Timezone            string `db:"timezone"`
	Currency            string `db:"currency"`
	LowStockThreshold   int    `db:"low_stock_threshold"`
	EnableNotifications bool   `db:"enable_notifications"`
	EnableAutoReports   bool   `db:"enable_auto_reports"`
	ReportFrequency     string `db:"report_frequency"`
	NotificationEmail   string `db:"notification_email"`
	Categories          string `db:"categories"`
	Units               string `db:"units"`
}

func toSettingsRow(s *models.Settings) (settingsRow, error) {
	cats, err := json.Marshal(s.Categories)
	if err != nil {
		return settingsRow{}, err
	}
	units, err := json.Marshal(s.Units)
	if err != nil {
		return settingsRow{}, err
	}
	return settingsRow{
		BusinessName:        s.BusinessName,
		StoreAddress:        s.StoreAddress,
		BusinessType:        s.BusinessType,
		Timezone:            s.Timezone,
		Currency:            s.Currency,
		LowStockThreshold:   s.LowStockThreshold,
		EnableNotifications: s.EnableNotifications,
		EnableAutoReports:   s.EnableAutoReports,
		ReportFrequency:     s.ReportFrequency,
		NotificationEmail:   s.NotificationEmail,
		Categories:          string(cats),
		Units:               string(units),
	}, nil
}

func (r settingsRow) settings() models.Settings {
	s := models.Settings{
		BusinessName:        r.BusinessName,
		StoreAddress:        r.StoreAddress,
		BusinessType:        r.BusinessType,
		Timezone:            r.Timezone,
		Currency:            r.Currency,
		LowStockThreshold:   r.LowStockThreshold,
		EnableNotifications: r.EnableNotifications,
		EnableAutoReports:   r.EnableAutoReports,
		ReportFrequency:     r.ReportFrequency,
		NotificationEmail:   r.NotificationEmail,
	}
	// Malformed lists fall back to the defaults through Normalize.
	_ = json.Unmarshal([]byte(r.Categories), &s.Categories)
	_ = json.Unmarshal([]byte(r.Units), &s.Units)
	return s
}
