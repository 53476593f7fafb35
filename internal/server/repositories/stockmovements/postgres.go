package stockmovements

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/kitchenkeeper/internal/dbx"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.StockMovement) (*models.StockMovement, error) {
	query :=
		`INSERT INTO stock_movements (inventory_id, quantity, type, note, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		m.InventoryID, m.Quantity, string(m.Type), m.Note, m.CreatedBy).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]models.StockMovement, error) {
	query :=
		`SELECT id, inventory_id, quantity::float8, type, note, created_by, created_at
		 FROM stock_movements
		 ORDER BY created_at DESC
		 LIMIT $1
		 `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	res := []models.StockMovement{}
	for rows.Next() {
		var (
			m         models.StockMovement
			typ       string
			note      sql.NullString
			createdBy sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.InventoryID, &m.Quantity, &typ, &note, &createdBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		m.Type = models.MovementType(typ)
		if note.Valid {
			m.Note = &note.String
		}
		if createdBy.Valid {
			m.CreatedBy = &createdBy.String
		}
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return res, nil
}
