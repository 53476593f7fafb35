package deliveries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kitchenkeeper/internal/common"
	"github.com/dmitrijs2005/kitchenkeeper/internal/dbx"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
)

const columns = `id, order_id, delivered_quantity::float8, ordered_quantity::float8,
		 delivery_notes, delivered_by, delivery_date, signature_key, delivery_status, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConfirmation(s scanner) (*models.DeliveryConfirmation, error) {
	var (
		d      models.DeliveryConfirmation
		notes  sql.NullString
		key    sql.NullString
		status string
	)
	err := s.Scan(&d.ID, &d.OrderID, &d.DeliveredQuantity, &d.OrderedQuantity,
		&notes, &d.DeliveredBy, &d.DeliveryDate, &key, &status, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		d.DeliveryNotes = &notes.String
	}
	if key.Valid {
		d.SignatureKey = &key.String
	}
	d.Status = models.DeliveryStatus(status)
	return &d, nil
}

func (r *PostgresRepository) Create(ctx context.Context, d *models.DeliveryConfirmation) (*models.DeliveryConfirmation, error) {
	query :=
		`INSERT INTO delivery_confirmations
		   (order_id, delivered_quantity, ordered_quantity, delivery_notes,
		    delivered_by, delivery_date, signature_key, delivery_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		d.OrderID, d.DeliveredQuantity, d.OrderedQuantity, d.DeliveryNotes,
		d.DeliveredBy, d.DeliveryDate, d.SignatureKey, string(d.Status)).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return d, nil
}

// List returns confirmations by delivery date, newest first. Rows sharing a
// delivery date fall back to insertion order.
func (r *PostgresRepository) List(ctx context.Context, limit int) ([]models.DeliveryConfirmation, error) {
	query := `SELECT ` + columns + `
		 FROM delivery_confirmations
		 ORDER BY delivery_date DESC, created_at DESC
		 LIMIT $1
		 `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	res := []models.DeliveryConfirmation{}
	for rows.Next() {
		d, err := scanConfirmation(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		res = append(res, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return res, nil
}

func (r *PostgresRepository) GetByOrderID(ctx context.Context, orderID string) (*models.DeliveryConfirmation, error) {
	query := `SELECT ` + columns + `
		 FROM delivery_confirmations
		 WHERE order_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1
		 `

	d, err := scanConfirmation(r.db.QueryRowContext(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return d, nil
}
