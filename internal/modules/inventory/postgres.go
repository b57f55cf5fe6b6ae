package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed inventory repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const materialColumns = `id, branch, name, unit, quantity, min_quantity,
	unit_price, supplier_id, is_active, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, m *Material) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO materials
		  (id, branch, name, unit, quantity, min_quantity, unit_price, supplier_id, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		m.ID, m.Branch, m.Name, m.Unit, m.Quantity, m.MinQuantity,
		m.UnitPrice, m.SupplierID, m.IsActive)
	if err != nil {
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Material, error) {
	m, err := scanMaterial(r.db.QueryRowContext(ctx,
		`SELECT `+materialColumns+` FROM materials WHERE id=$1`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("material %s not found", id)
	}
	return m, err
}

func (r *postgresRepo) List(ctx context.Context, branch string, activeOnly bool) ([]*Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE branch=$1`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, branch)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var materials []*Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, m *Material) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE materials
		SET name=$2, unit=$3, min_quantity=$4, unit_price=$5, supplier_id=$6,
		    is_active=$7, updated_at=NOW()
		WHERE id=$1`,
		m.ID, m.Name, m.Unit, m.MinQuantity, m.UnitPrice, m.SupplierID, m.IsActive)
	if err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("material %s not found", m.ID)
	}
	return nil
}

func (r *postgresRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta float64) (float64, error) {
	var qty float64
	err := r.db.QueryRowContext(ctx, `
		UPDATE materials
		SET quantity = GREATEST(quantity + $2, 0), updated_at=NOW()
		WHERE id=$1
		RETURNING quantity`,
		id, delta).Scan(&qty)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("material %s not found", id)
	}
	if err != nil {
		return 0, fmt.Errorf("adjust material quantity: %w", err)
	}
	return qty, nil
}

func (r *postgresRepo) RecordMove(ctx context.Context, move *StockMove) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stock_moves (id, material_id, delta, reason, employee_id)
		VALUES ($1,$2,$3,$4,$5)`,
		move.ID, move.MaterialID, move.Delta, move.Reason, move.EmployeeID)
	if err != nil {
		return fmt.Errorf("insert stock move: %w", err)
	}
	return nil
}

func (r *postgresRepo) ListMoves(ctx context.Context, materialID uuid.UUID, limit int) ([]*StockMove, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, material_id, delta, reason, employee_id, created_at
		FROM stock_moves WHERE material_id=$1
		ORDER BY created_at DESC LIMIT $2`,
		materialID, limit)
	if err != nil {
		return nil, fmt.Errorf("list stock moves: %w", err)
	}
	defer rows.Close()

	var moves []*StockMove
	for rows.Next() {
		var mv StockMove
		if err := rows.Scan(&mv.ID, &mv.MaterialID, &mv.Delta, &mv.Reason,
			&mv.EmployeeID, &mv.CreatedAt); err != nil {
			return nil, err
		}
		moves = append(moves, &mv)
	}
	return moves, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMaterial(row rowScanner) (*Material, error) {
	var m Material
	err := row.Scan(&m.ID, &m.Branch, &m.Name, &m.Unit, &m.Quantity, &m.MinQuantity,
		&m.UnitPrice, &m.SupplierID, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
