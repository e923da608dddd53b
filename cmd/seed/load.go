package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/urfave/cli/v2"

	"github.com/stocklens/doi-dashboard/internal/dataset"
	"github.com/stocklens/doi-dashboard/internal/domain"
)

const createSnapshotTable = `
CREATE TABLE IF NOT EXISTS inventory_snapshot (
	sku_id               TEXT PRIMARY KEY,
	product              TEXT NOT NULL,
	category             TEXT NOT NULL,
	buyer                TEXT NOT NULL,
	warehouse            TEXT NOT NULL,
	quantity_on_hand     INTEGER NOT NULL CHECK (quantity_on_hand >= 0),
	unit_cost            DOUBLE PRECISION NOT NULL CHECK (unit_cost >= 0),
	unit_price           DOUBLE PRECISION NOT NULL CHECK (unit_price >= 0),
	daily_sales_velocity DOUBLE PRECISION NOT NULL CHECK (daily_sales_velocity >= 0),
	expiry_date          DATE
)`

func runLoad(c *cli.Context) error {
	ctx := c.Context

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer f.Close()

	records, err := dataset.ParseCSV(f)
	if err != nil {
		return fmt.Errorf("failed to parse snapshot file: %w", err)
	}
	if err := dataset.Validate(records); err != nil {
		return fmt.Errorf("snapshot file is invalid: %w", err)
	}

	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, createSnapshotTable); err != nil {
		return fmt.Errorf("failed to create inventory_snapshot table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Each load replaces the snapshot wholesale; the serving path never
	// writes, so this is the only writer.
	if _, err := tx.ExecContext(ctx, "TRUNCATE inventory_snapshot"); err != nil {
		return fmt.Errorf("failed to truncate inventory_snapshot: %w", err)
	}

	for i := range records {
		if err := insertRecord(ctx, tx, &records[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot load: %w", err)
	}

	log.Printf("loaded %d records into inventory_snapshot", len(records))
	return nil
}

func insertRecord(ctx context.Context, tx *sql.Tx, rec *domain.InventoryRecord) error {
	var expiry sql.NullTime
	if rec.ExpiryDate != nil {
		expiry = sql.NullTime{Time: *rec.ExpiryDate, Valid: true}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO inventory_snapshot (
			sku_id, product, category, buyer, warehouse,
			quantity_on_hand, unit_cost, unit_price, daily_sales_velocity, expiry_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.SKUID, rec.Product, rec.Category, rec.Buyer, rec.Warehouse,
		rec.QuantityOnHand, rec.UnitCost, rec.UnitPrice, rec.DailySalesVelocity, expiry,
	)
	if err != nil {
		return fmt.Errorf("failed to insert sku %s: %w", rec.SKUID, err)
	}
	return nil
}
