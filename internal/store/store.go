package store

import (
	"context"
	"fmt"
	"time"

	"hotel-analytics-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store reads historical order line items from Postgres, as an alternative
// to CSV upload.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// LoadOrderLineItems retrieves raw order line items for a hotel within the
// given created_at range, oldest first. hotelID <= 0 loads all properties.
func (s *Store) LoadOrderLineItems(ctx context.Context, hotelID int, from, to time.Time) ([]models.OrderLineItem, error) {
	const baseQuery = `
		SELECT order_id, hotel_id, order_no, item_name, item_quantity, item_price, status, created_at, updated_at
		FROM order_line_items
		WHERE created_at >= $1 AND created_at < $2`

	var rows []models.OrderLineItem
	var err error
	if hotelID > 0 {
		err = s.db.SelectContext(ctx, &rows,
			baseQuery+" AND hotel_id = $3 ORDER BY created_at", from, to, hotelID)
	} else {
		err = s.db.SelectContext(ctx, &rows,
			baseQuery+" ORDER BY created_at", from, to)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order line items: %w", err)
	}
	return rows, nil
}

// CountOrderLineItems reports how many rows the range would load, for
// request validation before running a full analysis.
func (s *Store) CountOrderLineItems(ctx context.Context, hotelID int, from, to time.Time) (int, error) {
	var count int
	var err error
	if hotelID > 0 {
		err = s.db.GetContext(ctx, &count,
			"SELECT COUNT(*) FROM order_line_items WHERE created_at >= $1 AND created_at < $2 AND hotel_id = $3",
			from, to, hotelID)
	} else {
		err = s.db.GetContext(ctx, &count,
			"SELECT COUNT(*) FROM order_line_items WHERE created_at >= $1 AND created_at < $2",
			from, to)
	}
	return count, err
}

// ListHotels returns the distinct hotel IDs present in the order history.
func (s *Store) ListHotels(ctx context.Context) ([]int, error) {
	var ids []int
	err := s.db.SelectContext(ctx, &ids,
		"SELECT DISTINCT hotel_id FROM order_line_items ORDER BY hotel_id")
	return ids, err
}

// SaveOrderLineItems bulk-inserts order rows (used by fixture seeding).
func (s *Store) SaveOrderLineItems(ctx context.Context, rows []models.OrderLineItem) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insert = `
		INSERT INTO order_line_items (order_id, hotel_id, order_no, item_name, item_quantity, item_price, status, created_at, updated_at)
		VALUES (:order_id, :hotel_id, :order_no, :item_name, :item_quantity, :item_price, :status, :created_at, :updated_at)`

	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
			return fmt.Errorf("failed to insert order line item: %w", err)
		}
	}

	return tx.Commit()
}
