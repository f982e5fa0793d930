package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Dialect selects the SQL flavor for statements that differ between engines.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(s))) {
	case SQLite:
		return SQLite, nil
	case Postgres, "pgx":
		return Postgres, nil
	default:
		return "", fmt.Errorf("unknown database dialect %q", s)
	}
}

// Initialize the orders schema. The DDL is portable across SQLite and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createOrdersQuery := `
	CREATE TABLE IF NOT EXISTS orders (
		order_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL,
		address TEXT NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_orders_location
	ON orders(lon, lat);
	`

	statements := []string{
		createOrdersQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type pointGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// OrderSeed is one order in the seed file. Geometry is a GeoJSON Point ([lon, lat]).
type OrderSeed struct {
	OrderID  int           `json:"order_id"`
	Name     string        `json:"name"`
	Phone    string        `json:"phone"`
	Address  string        `json:"address"`
	Geometry pointGeometry `json:"geometry"`
}

func upsertOrderQuery(d Dialect) string {
	switch d {
	case Postgres:
		return `
	INSERT INTO orders (order_id, name, phone, address, lon, lat)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (order_id) DO UPDATE SET
		name = EXCLUDED.name,
		phone = EXCLUDED.phone,
		address = EXCLUDED.address,
		lon = EXCLUDED.lon,
		lat = EXCLUDED.lat;
	`
	default:
		return `
	INSERT OR REPLACE INTO orders (order_id, name, phone, address, lon, lat)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	}
}

// readSeed parses and validates a seed file.
// Orders without an order_id are numbered by their position in the file.
func readSeed(jsonPath string) ([]OrderSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", jsonPath, err)
	}

	var data []OrderSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	rows := make([]OrderSeed, 0, len(data))
	for i, item := range data {
		if item.OrderID == 0 {
			item.OrderID = i + 1
		}
		if item.OrderID < 0 {
			return nil, fmt.Errorf("invalid order_id at index %d: %d", i+1, item.OrderID)
		}

		item.Address = strings.TrimSpace(item.Address)
		if item.Address == "" {
			return nil, fmt.Errorf("item at index %d: address cannot be empty", i+1)
		}

		if len(item.Geometry.Coordinates) != 2 {
			return nil, fmt.Errorf("item at index %d: geometry needs [lon, lat]", i+1)
		}
		rows = append(rows, item)
	}
	return rows, nil
}

func insertSeed(ctx context.Context, tx *sql.Tx, dialect Dialect, rows []OrderSeed) error {
	stmt, err := tx.PrepareContext(ctx, upsertOrderQuery(dialect))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range rows {
		lon, lat := o.Geometry.Coordinates[0], o.Geometry.Coordinates[1]
		if _, err := stmt.ExecContext(ctx, o.OrderID, o.Name, o.Phone, o.Address, lon, lat); err != nil {
			return fmt.Errorf("insert order_id=%d: %w", o.OrderID, err)
		}
	}
	return nil
}

// Populate the database with order data from a JSON file.
// Existing orders with the same order_id are overwritten.
func SeedFromJSON(ctx context.Context, db *sql.DB, dialect Dialect, jsonPath string) (int, error) {
	rows, err := readSeed(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed orders: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed orders: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := insertSeed(ctx, tx, dialect, rows); err != nil {
		return 0, fmt.Errorf("seed orders: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed orders: commit tx: %w", err)
	}

	return len(rows), nil
}
