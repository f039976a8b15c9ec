package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"salesdash/models"
)

const (
	productColumns  = `id, user_id, name, category, price, cost_price, stock, min_stock, unit, created_at, updated_at`
	saleColumns     = `id, user_id, date, product_id, product_name, quantity, price, total, created_at`
	settingsColumns = `business_name, store_address, business_type, timezone, currency, low_stock_threshold,
		enable_notifications, enable_auto_reports, report_frequency, notification_email, categories, units, updated_at`
	activityColumns = `id, user_id, user_name, action, details, timestamp`
)

// pgxConn is the part of *pgxpool.Pool the store uses.
type pgxConn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore is the pgx-backed Store.
type PostgresStore struct {
	db pgxConn
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func scanProduct(row pgx.Row, p *models.Product) error {
	return row.Scan(&p.ID, &p.UserID, &p.Name, &p.Category, &p.Price, &p.CostPrice, &p.Stock, &p.MinStock, &p.Unit, &p.CreatedAt, &p.UpdatedAt)
}

func scanSale(row pgx.Row, sl *models.Sale) error {
	return row.Scan(&sl.ID, &sl.UserID, &sl.Date, &sl.ProductID, &sl.ProductName, &sl.Quantity, &sl.UnitPrice, &sl.Total, &sl.CreatedAt)
}

func (s *PostgresStore) ListProducts(ctx context.Context, userID string) ([]models.Product, error) {
	rows, err := s.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *PostgresStore) ListProductsPage(ctx context.Context, userID string, limit, offset int) ([]models.Product, int, error) {
	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := s.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE user_id = $1 ORDER BY name LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0, limit)
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (s *PostgresStore) GetProduct(ctx context.Context, userID, id string) (models.Product, error) {
	var p models.Product
	err := scanProduct(s.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE user_id = $1 AND id = $2`, userID, id), &p)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, ErrNotFound
	}
	if err != nil {
		return p, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) CreateProduct(ctx context.Context, p *models.Product) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, p.UserID, p.Name, p.Category, p.Price, p.CostPrice, p.Stock, p.MinStock, p.Unit, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return pgError("create product", err)
	}
	return nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE products
		SET name = $3, category = $4, price = $5, cost_price = $6, stock = $7, min_stock = $8, unit = $9, updated_at = $10
		WHERE user_id = $1 AND id = $2`,
		p.UserID, p.ID, p.Name, p.Category, p.Price, p.CostPrice, p.Stock, p.MinStock, p.Unit, p.UpdatedAt)
	if err != nil {
		return pgError("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM products WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListSales(ctx context.Context, userID string, f models.SalesFilter) ([]models.Sale, error) {
	where := []string{"user_id = $1"}
	args := []interface{}{userID}
	if f.From != "" {
		args = append(args, f.From)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.To != "" {
		args = append(args, f.To)
		where = append(where, fmt.Sprintf("date <= $%d", len(args)))
	}
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where = append(where, fmt.Sprintf("product_id = $%d", len(args)))
	}

	query := `SELECT ` + saleColumns + ` FROM sales WHERE ` + strings.Join(where, " AND ") + ` ORDER BY date DESC, created_at DESC`
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	sales := make([]models.Sale, 0)
	for rows.Next() {
		var sl models.Sale
		if err := scanSale(rows, &sl); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, sl)
	}
	return sales, rows.Err()
}

func (s *PostgresStore) GetSale(ctx context.Context, userID, id string) (models.Sale, error) {
	var sl models.Sale
	err := scanSale(s.db.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE user_id = $1 AND id = $2`, userID, id), &sl)
	if errors.Is(err, pgx.ErrNoRows) {
		return sl, ErrNotFound
	}
	if err != nil {
		return sl, fmt.Errorf("get sale: %w", err)
	}
	return sl, nil
}

func (s *PostgresStore) CreateSale(ctx context.Context, sl *models.Sale) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE products SET stock = stock - $3, updated_at = NOW() WHERE user_id = $1 AND id = $2`,
		sl.UserID, sl.ProductID, sl.Quantity)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		sl.ID, sl.UserID, sl.Date, sl.ProductID, sl.ProductName, sl.Quantity, sl.UnitPrice, sl.Total, sl.CreatedAt); err != nil {
		return pgError("create sale", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateSale(ctx context.Context, sl *models.Sale) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE sales
		SET date = $3, product_id = $4, product_name = $5, quantity = $6, price = $7, total = $8
		WHERE user_id = $1 AND id = $2`,
		sl.UserID, sl.ID, sl.Date, sl.ProductID, sl.ProductName, sl.Quantity, sl.UnitPrice, sl.Total)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteSale(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM sales WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetSettings(ctx context.Context, userID string) (models.Settings, error) {
	var r settingsRow
	var out models.Settings
	err := s.db.QueryRow(ctx, `SELECT `+settingsColumns+` FROM settings WHERE user_id = $1`, userID).Scan(
		&r.BusinessName, &r.StoreAddress, &r.BusinessType, &r.Timezone, &r.Currency, &r.LowStockThreshold,
		&r.EnableNotifications, &r.EnableAutoReports, &r.ReportFrequency, &r.NotificationEmail, &r.Categories, &r.Units,
		&out.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return out, ErrNotFound
	}
	if err != nil {
		return out, fmt.Errorf("get settings: %w", err)
	}
	updated := out.UpdatedAt
	out = r.settings()
	out.UpdatedAt = updated
	return out, nil
}

func (s *PostgresStore) SaveSettings(ctx context.Context, userID string, st *models.Settings) error {
	r, err := toSettingsRow(st)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO settings (user_id, `+settingsColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (user_id) DO UPDATE SET
			business_name = EXCLUDED.business_name,
			store_address = EXCLUDED.store_address,
			business_type = EXCLUDED.business_type,
			timezone = EXCLUDED.timezone,
			currency = EXCLUDED.currency,
			low_stock_threshold = EXCLUDED.low_stock_threshold,
			enable_notifications = EXCLUDED.enable_notifications,
			enable_auto_reports = EXCLUDED.enable_auto_reports,
			report_frequency = EXCLUDED.report_frequency,
			notification_email = EXCLUDED.notification_email,
			categories = EXCLUDED.categories,
			units = EXCLUDED.units,
			updated_at = EXCLUDED.updated_at`,
		userID, r.BusinessName, r.StoreAddress, r.BusinessType, r.Timezone, r.Currency, r.LowStockThreshold,
		r.EnableNotifications, r.EnableAutoReports, r.ReportFrequency, r.NotificationEmail, r.Categories, r.Units, st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *PostgresStore) LogActivity(ctx context.Context, a *models.ActivityLog) error {
	_, err := s.db.Exec(ctx, `INSERT INTO activity_logs (`+activityColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.UserID, a.UserName, a.Action, a.Details, a.Timestamp)
	if err != nil {
		return fmt.Errorf("log activity: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListActivity(ctx context.Context, userID string, limit int) ([]models.ActivityLog, error) {
	rows, err := s.db.Query(ctx, `SELECT `+activityColumns+` FROM activity_logs WHERE user_id = $1 ORDER BY timestamp DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	logs := make([]models.ActivityLog, 0)
	for rows.Next() {
		var a models.ActivityLog
		if err := rows.Scan(&a.ID, &a.UserID, &a.UserName, &a.Action, &a.Details, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		logs = append(logs, a)
	}
	return logs, rows.Err()
}

// pgError maps a unique violation to ErrConflict.
func pgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
