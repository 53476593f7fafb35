package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kitchenkeeper/internal/common"
	"github.com/dmitrijs2005/kitchenkeeper/internal/dbx"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
)

const columns = `id, name, sku, quantity::float8, unit, reorder_level::float8,
		 cost_per_unit::float8, last_restocked, expiry_date, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*models.InventoryItem, error) {
	var (
		it   models.InventoryItem
		sku  sql.NullString
		unit sql.NullString
		cost sql.NullFloat64
		rest sql.NullTime
		exp  sql.NullTime
		upd  sql.NullTime
	)
	if err := s.Scan(&it.ID, &it.Name, &sku, &it.Quantity, &unit, &it.ReorderLevel, &cost, &rest, &exp, &upd); err != nil {
		return nil, err
	}
	if sku.Valid {
		it.SKU = &sku.String
	}
	if unit.Valid {
		it.Unit = &unit.String
	}
	if cost.Valid {
		it.CostPerUnit = &cost.Float64
	}
	if rest.Valid {
		it.LastRestocked = &rest.Time
	}
	if exp.Valid {
		it.ExpiryDate = &exp.Time
	}
	if upd.Valid {
		it.UpdatedAt = &upd.Time
	}
	return &it, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.InventoryItem, error) {
	query := `SELECT ` + columns + `
		 FROM inventory_items
		 ORDER BY name
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := []models.InventoryItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return items, nil
}

func (r *PostgresRepository) AdjustQuantity(ctx context.Context, id string, delta float64, restock bool) (*models.InventoryItem, error) {
	query := `UPDATE inventory_items
		 SET quantity = GREATEST(0, quantity + $2),
		     last_restocked = CASE WHEN $3 THEN NOW() ELSE last_restocked END,
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING ` + columns

	it, err := scanItem(r.db.QueryRowContext(ctx, query, id, delta, restock))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return it, nil
}
