package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/stocklens/doi-dashboard/internal/config"
	"github.com/stocklens/doi-dashboard/internal/domain"
)

// PostgresSource reads a previously seeded snapshot table. The dashboard
// never writes to it; seeding happens out-of-band via the seed CLI.
type PostgresSource struct {
	db *sqlx.DB
}

// NewPostgresSource opens a connection pool against the configured database.
func NewPostgresSource(cfg *config.DatabaseConfig) (*PostgresSource, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresSource{db: db}, nil
}

func (s *PostgresSource) Name() string { return "postgres" }

// Close releases the connection pool. Safe to call after the one-time load.
func (s *PostgresSource) Close() error {
	return s.db.Close()
}

func (s *PostgresSource) Load(ctx context.Context) ([]domain.InventoryRecord, error) {
	query := `
		SELECT
			sku_id, product, category, buyer, warehouse,
			quantity_on_hand, unit_cost, unit_price, daily_sales_velocity,
			expiry_date
		FROM inventory_snapshot
		ORDER BY sku_id
	`

	var records []domain.InventoryRecord
	if err := s.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("error loading inventory snapshot: %w", err)
	}

	return records, nil
}
