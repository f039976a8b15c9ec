package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"salesdash/models"
)

// MySQLStore is the sqlx-backed Store for MySQL and TiDB.
type MySQLStore struct {
	db *sqlx.DB
}

func NewMySQLStore(db *sqlx.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

func (s *MySQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *MySQLStore) ListProducts(ctx context.Context, userID string) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := s.db.SelectContext(ctx, &products, `SELECT `+productColumns+` FROM products WHERE user_id = ? ORDER BY name`, userID); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *MySQLStore) ListProductsPage(ctx context.Context, userID string, limit, offset int) ([]models.Product, int, error) {
	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM products WHERE user_id = ?`, userID); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	products := make([]models.Product, 0, limit)
	if err := s.db.SelectContext(ctx, &products, `SELECT `+productColumns+` FROM products WHERE user_id = ? ORDER BY name LIMIT ? OFFSET ?`, userID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

func (s *MySQLStore) GetProduct(ctx context.Context, userID, id string) (models.Product, error) {
	var p models.Product
	err := s.db.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE user_id = ? AND id = ?`, userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	if err != nil {
		return p, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *MySQLStore) CreateProduct(ctx context.Context, p *models.Product) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (:id, :user_id, :name, :category, :price, :cost_price, :stock, :min_stock, :unit, :created_at, :updated_at)`, p)
	if err != nil {
		return mysqlError("create product", err)
	}
	return nil
}

func (s *MySQLStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.db.NamedExecContext(ctx, `
		UPDATE products
		SET name = :name, category = :category, price = :price, cost_price = :cost_price,
			stock = :stock, min_stock = :min_stock, unit = :unit, updated_at = :updated_at
		WHERE user_id = :user_id AND id = :id`, p)
	if err != nil {
		return mysqlError("update product", err)
	}
	return requireRow(res)
}

func (s *MySQLStore) DeleteProduct(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireRow(res)
}

func (s *MySQLStore) ListSales(ctx context.Context, userID string, f models.SalesFilter) ([]models.Sale, error) {
	where := []string{"user_id = ?"}
	args := []interface{}{userID}
	if f.From != "" {
		where = append(where, "date >= ?")
		args = append(args, f.From)
	}
	if f.To != "" {
		where = append(where, "date <= ?")
		args = append(args, f.To)
	}
	if f.ProductID != "" {
		where = append(where, "product_id = ?")
		args = append(args, f.ProductID)
	}

	sales := make([]models.Sale, 0)
	query := `SELECT ` + saleColumns + ` FROM sales WHERE ` + strings.Join(where, " AND ") + ` ORDER BY date DESC, created_at DESC`
	if err := s.db.SelectContext(ctx, &sales, query, args...); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

func (s *MySQLStore) GetSale(ctx context.Context, userID, id string) (models.Sale, error) {
	var sl models.Sale
	err := s.db.GetContext(ctx, &sl, `SELECT `+saleColumns+` FROM sales WHERE user_id = ? AND id = ?`, userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return sl, ErrNotFound
	}
	if err != nil {
		return sl, fmt.Errorf("get sale: %w", err)
	}
	return sl, nil
}

func (s *MySQLStore) CreateSale(ctx context.Context, sl *models.Sale) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE products SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ? AND id = ?`,
		sl.Quantity, sl.UserID, sl.ProductID)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}

	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES (:id, :user_id, :date, :product_id, :product_name, :quantity, :price, :total, :created_at)`, sl); err != nil {
		return mysqlError("create sale", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *MySQLStore) UpdateSale(ctx context.Context, sl *models.Sale) error {
	res, err := s.db.NamedExecContext(ctx, `
		UPDATE sales
		SET date = :date, product_id = :product_id, product_name = :product_name,
			quantity = :quantity, price = :price, total = :total
		WHERE user_id = :user_id AND id = :id`, sl)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return requireRow(res)
}

func (s *MySQLStore) DeleteSale(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sales WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return requireRow(res)
}

func (s *MySQLStore) GetSettings(ctx context.Context, userID string) (models.Settings, error) {
	var row struct {
		settingsRow
		UpdatedAt sql.NullTime `db:"updated_at"`
	}
	err := s.db.GetContext(ctx, &row, `SELECT `+settingsColumns+` FROM settings WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Settings{}, ErrNotFound
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	out := row.settings()
	out.UpdatedAt = row.UpdatedAt.Time
	return out, nil
}

func (s *MySQLStore) SaveSettings(ctx context.Context, userID string, st *models.Settings) error {
	r, err := toSettingsRow(st)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO settings (user_id, `+settingsColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			business_name = VALUES(business_name),
			store_address = VALUES(store_address),
			business_type = VALUES(business_type),
			timezone = VALUES(timezone),
			currency = VALUES(currency),
			low_stock_threshold = VALUES(low_stock_threshold),
			enable_notifications = VALUES(enable_notifications),
			enable_auto_reports = VALUES(enable_auto_reports),
			report_frequency = VALUES(report_frequency),
			notification_email = VALUES(notification_email),
			categories = VALUES(categories),
			units = VALUES(units),
			updated_at = VALUES(updated_at)`,
		userID, r.BusinessName, r.StoreAddress, r.BusinessType, r.Timezone, r.Currency, r.LowStockThreshold,
		r.EnableNotifications, r.EnableAutoReports, r.ReportFrequency, r.NotificationEmail, r.Categories, r.Units, st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *MySQLStore) LogActivity(ctx context.Context, a *models.ActivityLog) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO activity_logs (`+activityColumns+`)
		VALUES (:id, :user_id, :user_name, :action, :details, :timestamp)`, a)
	if err != nil {
		return fmt.Errorf("log activity: %w", err)
	}
	return nil
}

func (s *MySQLStore) ListActivity(ctx context.Context, userID string, limit int) ([]models.ActivityLog, error) {
	logs := make([]models.ActivityLog, 0)
	if err := s.db.SelectContext(ctx, &logs, `SELECT `+activityColumns+` FROM activity_logs WHERE user_id = ? ORDER BY timestamp DESC LIMIT ?`, userID, limit); err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return logs, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// mysqlError maps a duplicate-key error to ErrConflict.
func mysqlError(op string, err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
