package promotion

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed promotion repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const promotionColumns = `id, code, name, type, value, min_order_amount, max_discount,
	starts_at, ends_at, is_active, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, p *Promotion) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO promotions (id, code, name, type, value, min_order_amount, max_discount, starts_at, ends_at, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.ID, p.Code, p.Name, p.Type, p.Value, p.MinOrderAmount, p.MaxDiscount,
		p.StartsAt, p.EndsAt, p.IsActive)
	if err != nil {
		return fmt.Errorf("insert promotion: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Promotion, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid promotion id: %w", err)
	}
	return scanPromotion(r.db.QueryRowContext(ctx,
		`SELECT `+promotionColumns+` FROM promotions WHERE id=$1`, uid))
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*Promotion, error) {
	return scanPromotion(r.db.QueryRowContext(ctx,
		`SELECT `+promotionColumns+` FROM promotions WHERE UPPER(code)=$1`,
		strings.ToUpper(code)))
}

func (r *postgresRepo) List(ctx context.Context, activeOnly bool) ([]*Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions`
	if activeOnly {
		query += ` WHERE is_active AND NOW() BETWEEN starts_at AND ends_at`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	var promos []*Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		promos = append(promos, p)
	}
	return promos, rows.Err()
}

func (r *postgresRepo) Update(ctx context.Context, p *Promotion) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE promotions
		SET code=$2, name=$3, type=$4, value=$5, min_order_amount=$6, max_discount=$7,
		    starts_at=$8, ends_at=$9, is_active=$10, updated_at=NOW()
		WHERE id=$1`,
		p.ID, p.Code, p.Name, p.Type, p.Value, p.MinOrderAmount, p.MaxDiscount,
		p.StartsAt, p.EndsAt, p.IsActive)
	if err != nil {
		return fmt.Errorf("update promotion: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("promotion %s not found", p.ID)
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid promotion id: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM promotions WHERE id=$1`, uid)
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("promotion %s not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPromotion(row rowScanner) (*Promotion, error) {
	var p Promotion
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Type, &p.Value, &p.MinOrderAmount,
		&p.MaxDiscount, &p.StartsAt, &p.EndsAt, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
