package supplier

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed supplier repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const supplierColumns = `id, name, phone, email, address, tax_id, note,
	is_active, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, s *Supplier) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, phone, email, address, tax_id, note, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		s.ID, s.Name, s.Phone, s.Email, s.Address, s.TaxID, s.Note, s.IsActive)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Supplier, error) {
	s, err := scanSupplier(r.db.QueryRowContext(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE id=$1`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("supplier %s not found", id)
	}
	return s, err
}

func (r *postgresRepo) List(ctx context.Context, activeOnly bool) ([]*Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []*Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, s *Supplier) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE suppliers
		SET name=$2, phone=$3, email=$4, address=$5, tax_id=$6, note=$7,
		    is_active=$8, updated_at=NOW()
		WHERE id=$1`,
		s.ID, s.Name, s.Phone, s.Email, s.Address, s.TaxID, s.Note, s.IsActive)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("supplier %s not found", s.ID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSupplier(row rowScanner) (*Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Phone, &s.Email, &s.Address, &s.TaxID,
		&s.Note, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
