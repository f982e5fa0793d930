package repositories

import (
	"cluster-route-service/internal/domain"
	"cluster-route-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQL-backed implementation of the OrderStore port.
// Dialect picks placeholder syntax for writes; reads are portable.
type SQLOrderRepository struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewSQLOrderRepository(db *sql.DB, dialect Dialect) *SQLOrderRepository {
	return &SQLOrderRepository{DB: db, Dialect: dialect}
}

// Return all orders stored in the database.
func (s *SQLOrderRepository) ListOrders(ctx context.Context) (_ []*domain.Order, err error) {
	defer obs.Time(ctx, "orders.ListOrders")(&err)

	if s.DB == nil {
		return nil, errors.New("sql order repository: DB is nil")
	}

	query := `
	SELECT
		order_id,
		name,
		phone,
		address,
		lon,
		lat
	FROM orders
	ORDER BY order_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orders: query orders table: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0, 64)
	for rows.Next() {
		var o domain.Order
		err := rows.Scan(&o.OrderID, &o.Name, &o.Phone, &o.Address, &o.Location.Lon, &o.Location.Lat)
		if err != nil {
			return nil, fmt.Errorf("list orders: scan row: %w", err)
		}
		orders = append(orders, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: row iteration: %w", err)
	}

	return orders, nil
}

func createOrderQuery(d Dialect) string {
	switch d {
	case Postgres:
		return `
	INSERT INTO orders (order_id, name, phone, address, lon, lat)
	SELECT COALESCE(MAX(order_id), 0) + 1, $1::text, $2::text, $3::text,
		$4::double precision, $5::double precision
	FROM orders
	RETURNING order_id;
	`
	default:
		return `
	INSERT INTO orders (order_id, name, phone, address, lon, lat)
	SELECT COALESCE(MAX(order_id), 0) + 1, ?, ?, ?, ?, ?
	FROM orders
	RETURNING order_id;
	`
	}
}

// Insert a new order and return it with its assigned order_id.
// The id is one past the current maximum.
func (s *SQLOrderRepository) CreateOrder(ctx context.Context, o *domain.Order) (_ *domain.Order, err error) {
	defer obs.Time(ctx, "orders.CreateOrder")(&err)

	if s.DB == nil {
		return nil, errors.New("sql order repository: DB is nil")
	}
	if o == nil {
		return nil, errors.New("create order: order is nil")
	}

	created := *o
	created.Name = strings.TrimSpace(created.Name)
	created.Phone = strings.TrimSpace(created.Phone)
	created.Address = strings.TrimSpace(created.Address)
	if created.Address == "" {
		return nil, errors.New("create order: address cannot be empty")
	}
	if !created.Location.Valid() {
		return nil, fmt.Errorf("create order: invalid location %s", created.Location.Key())
	}

	row := s.DB.QueryRowContext(ctx, createOrderQuery(s.Dialect),
		created.Name, created.Phone, created.Address, created.Location.Lon, created.Location.Lat)
	if err := row.Scan(&created.OrderID); err != nil {
		return nil, fmt.Errorf("create order: insert: %w", err)
	}

	return &created, nil
}

// Replace every stored order with the contents of a seed file.
// Nothing changes if the file is invalid or any insert fails.
func (s *SQLOrderRepository) ReplaceFromJSON(ctx context.Context, jsonPath string) (_ int, err error) {
	defer obs.Time(ctx, "orders.ReplaceFromJSON")(&err)

	if s.DB == nil {
		return 0, errors.New("sql order repository: DB is nil")
	}

	rows, err := readSeed(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("replace orders: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("replace orders: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM orders;`); err != nil {
		return 0, fmt.Errorf("replace orders: clear table: %w", err)
	}
	if err := insertSeed(ctx, tx, s.Dialect, rows); err != nil {
		return 0, fmt.Errorf("replace orders: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("replace orders: commit tx: %w", err)
	}

	return len(rows), nil
}
