package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
)

// --- JWT & Auth ---

// JwtClaims are issued by the external sign-in provider. UserID scopes every
// query to the owning user.
type JwtClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// --- Core Models ---

// Product is an item the business sells.
type Product struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"-" db:"user_id"`
	Name      string          `json:"name" db:"name"`
	Category  string          `json:"category" db:"category"`
	Price     decimal.Decimal `json:"price" db:"price"`
	CostPrice decimal.Decimal `json:"costPrice" db:"cost_price"`
	Stock     int             `json:"stock" db:"stock"`
	MinStock  int             `json:"minStock" db:"min_stock"`
	Unit      string          `json:"unit" db:"unit"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// ProductInput is the body of POST /products.
type ProductInput struct {
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	CostPrice decimal.Decimal `json:"costPrice"`
	Stock     int             `json:"stock"`
	MinStock  *int            `json:"minStock"`
	Unit      string          `json:"unit"`
}

// ProductUpdate is a partial update; nil fields are left untouched.
type ProductUpdate struct {
	Name      *string          `json:"name"`
	Category  *string          `json:"category"`
	Price     *decimal.Decimal `json:"price"`
	CostPrice *decimal.Decimal `json:"costPrice"`
	Stock     *int             `json:"stock"`
	MinStock  *int             `json:"minStock"`
	Unit      *string          `json:"unit"`
}

// Empty reports whether the update carries no fields.
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Category == nil && u.Price == nil && u.CostPrice == nil &&
		u.Stock == nil && u.MinStock == nil && u.Unit == nil
}

// Sale is a single recorded sale line. Date is a calendar day (YYYY-MM-DD).
type Sale struct {
	ID          string          `json:"id" db:"id"`
	UserID      string          `json:"-" db:"user_id"`
	Date        string          `json:"date" db:"date"`
	ProductID   string          `json:"productId" db:"product_id"`
	ProductName string          `json:"productName" db:"product_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"price" db:"price"`
	Total       decimal.Decimal `json:"total" db:"total"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// Recompute enforces total = quantity × unitPrice.
func (s *Sale) Recompute() {
	s.Total = s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// SaleInput is the body of POST /sales. ProductName and Price default to the
// product's current values when omitted.
type SaleInput struct {
	Date        string           `json:"date"`
	ProductID   string           `json:"productId"`
	ProductName string           `json:"productName"`
	Quantity    int              `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
}

// SaleUpdate is a partial update of a sale.
type SaleUpdate struct {
	Date        *string          `json:"date"`
	ProductID   *string          `json:"productId"`
	ProductName *string          `json:"productName"`
	Quantity    *int             `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
}

// Empty reports whether the update carries no fields.
func (u SaleUpdate) Empty() bool {
	return u.Date == nil && u.ProductID == nil && u.ProductName == nil && u.Quantity == nil && u.Price == nil
}

// Apply merges the update into s and recomputes the total.
func (u SaleUpdate) Apply(s *Sale) {
	if u.Date != nil {
		s.Date = *u.Date
	}
	if u.ProductID != nil {
		s.ProductID = *u.ProductID
	}
	if u.ProductName != nil {
		s.ProductName = *u.ProductName
	}
	if u.Quantity != nil {
		s.Quantity = *u.Quantity
	}
	if u.Price != nil {
		s.UnitPrice = *u.Price
	}
	s.Recompute()
}

// SalesFilter narrows a sales listing.
type SalesFilter struct {
	From      string
	To        string
	ProductID string
}

// ActivityLog records a write made through the API.
type ActivityLog struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	UserName  string    `json:"userName" db:"user_name"`
	Action    string    `json:"action" db:"action"`
	Details   string    `json:"details" db:"details"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

// Activity actions.
const (
	ActionAddProduct     = "ADD_PRODUCT"
	ActionUpdateProduct  = "UPDATE_PRODUCT"
	ActionDeleteProduct  = "DELETE_PRODUCT"
	ActionAddSale        = "ADD_SALE"
	ActionUpdateSale     = "UPDATE_SALE"
	ActionDeleteSale     = "DELETE_SALE"
	ActionUpdateSettings = "UPDATE_SETTINGS"
)

// Pagination describes a page of results.
type Pagination struct {
	TotalItems  int `json:"totalItems"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalPages  int `json:"totalPages"`
}

// PaginatedProductsResponse is the response of GET /products.
type PaginatedProductsResponse struct {
	Items      []Product  `json:"items"`
	Pagination Pagination `json:"pagination"`
}
