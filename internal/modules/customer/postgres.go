package customer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed customer repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, c *Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, phone, email, points)
		VALUES ($1,$2,$3,$4,$5)`,
		c.ID, c.Name, c.Phone, c.Email, c.Points)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Customer, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid customer id: %w", err)
	}
	return scanCustomer(r.db.QueryRowContext(ctx, `
		SELECT id, name, phone, email, points, created_at, updated_at
		FROM customers WHERE id=$1`, uid))
}

func (r *postgresRepo) GetByPhone(ctx context.Context, phone string) (*Customer, error) {
	return scanCustomer(r.db.QueryRowContext(ctx, `
		SELECT id, name, phone, email, points, created_at, updated_at
		FROM customers WHERE phone=$1`, phone))
}

func (r *postgresRepo) List(ctx context.Context, keyword string) ([]*Customer, error) {
	query := `SELECT id, name, phone, email, points, created_at, updated_at FROM customers`
	args := []interface{}{}
	if keyword != "" {
		query += ` WHERE name ILIKE $1 OR phone LIKE $1`
		args = append(args, "%"+keyword+"%")
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []*Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, c *Customer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers SET name=$2, phone=$3, email=$4, updated_at=NOW() WHERE id=$1`,
		c.ID, c.Name, c.Phone, c.Email)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("customer %s not found", c.ID)
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid customer id: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id=$1`, uid)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("customer %s not found", id)
	}
	return nil
}

func (r *postgresRepo) AddPoints(ctx context.Context, id string, points int) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid customer id: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers SET points = points + $2, updated_at=NOW() WHERE id=$1`, uid, points)
	if err != nil {
		return fmt.Errorf("add points: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("customer %s not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(row rowScanner) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Points, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
