package models

import "time"

// Settings holds the per-owner business configuration.
type Settings struct {
	BusinessName        string    `json:"businessName"`
	StoreAddress        string    `json:"storeAddress"`
	BusinessType        string    `json:"businessType"`
	Timezone            string    `json:"timezone"`
	Currency            string    `json:"currency"`
	LowStockThreshold   int       `json:"lowStockThreshold"`
	EnableNotifications bool      `json:"enableNotifications"`
	EnableAutoReports   bool      `json:"enableAutoReports"`
	ReportFrequency     string    `json:"reportFrequency"`
	NotificationEmail   string    `json:"notificationEmail"`
	Categories          []string  `json:"categories"`
	Units               []string  `json:"units"`
	UpdatedAt           time.Time `json:"updatedAt,omitempty"`
}

var (
	DefaultCategories = []string{"Makanan", "Minuman", "Snack", "Lainnya"}
	DefaultUnits      = []string{"Pcs", "Box", "Kg", "Liter"}

	ValidBusinessTypes   = map[string]bool{"retail": true, "wholesale": true, "fnb": true, "service": true, "other": true}
	ValidReportFrequency = map[string]bool{"daily": true, "weekly": true, "monthly": true}
)

// DefaultSettings returns the settings served to an owner who never saved any.
func DefaultSettings(ownerName, ownerEmail string) Settings {
	name := "Toko Saya"
	if ownerName != "" {
		name = "Toko " + ownerName
	}
	return Settings{
		BusinessName:        name,
		BusinessType:        "retail",
		Timezone:            "Asia/Jakarta",
		Currency:            "IDR",
		LowStockThreshold:   10,
		EnableNotifications: true,
		ReportFrequency:     "weekly",
		NotificationEmail:   ownerEmail,
		Categories:          append([]string(nil), DefaultCategories...),
		Units:               append([]string(nil), DefaultUnits...),
	}
}

// Normalize fills blank fields from defaults, the same way a PUT without them
// would be stored.
func (s *Settings) Normalize(defaults Settings) {
	if s.BusinessName == "" {
		s.BusinessName = defaults.BusinessName
	}
	if !ValidBusinessTypes[s.BusinessType] {
		s.BusinessType = defaults.BusinessType
	}
	if s.Timezone == "" {
		s.Timezone = defaults.Timezone
	}
	if s.Currency == "" {
		s.Currency = defaults.Currency
	}
	if s.LowStockThreshold <= 0 {
		s.LowStockThreshold = defaults.LowStockThreshold
	}
	if !ValidReportFrequency[s.ReportFrequency] {
		s.ReportFrequency = defaults.ReportFrequency
	}
	if s.NotificationEmail == "" {
		s.NotificationEmail = defaults.NotificationEmail
	}
	if len(s.Categories) == 0 {
		s.Categories = defaults.Categories
	}
	if len(s.Units) == 0 {
		s.Units = defaults.Units
	}
}
