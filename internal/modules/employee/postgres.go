package employee

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed employee repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, e *Employee) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (id, email, password_hash, full_name, phone, role, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, e.Email, e.PasswordHash, e.FullName, e.Phone, e.Role, e.IsActive)
	if err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Employee, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid employee id: %w", err)
	}
	return scanEmployee(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, full_name, phone, role, is_active, created_at, updated_at
		FROM employees WHERE id=$1`, uid))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*Employee, error) {
	return scanEmployee(r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, full_name, phone, role, is_active, created_at, updated_at
		FROM employees WHERE LOWER(email)=$1`, strings.ToLower(email)))
}

func (r *postgresRepo) List(ctx context.Context) ([]*Employee, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, password_hash, full_name, phone, role, is_active, created_at, updated_at
		FROM employees ORDER BY full_name`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []*Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, e *Employee) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE employees SET full_name=$2, phone=$3, role=$4, is_active=$5, updated_at=NOW()
		WHERE id=$1`,
		e.ID, e.FullName, e.Phone, e.Role, e.IsActive)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("employee %s not found", e.ID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row rowScanner) (*Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.Email, &e.PasswordHash, &e.FullName, &e.Phone,
		&e.Role, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
