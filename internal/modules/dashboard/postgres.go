package dashboard

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed reporting repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) DaySummary(ctx context.Context, branch string, day time.Time) (*Summary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	summary := &Summary{
		Date:           start.Format("2006-01-02"),
		CountsByStatus: map[string]int{},
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total),0)
		FROM invoices
		WHERE branch=$1 AND created_at >= $2 AND created_at < $3
		GROUP BY status`,
		branch, start, end)
	if err != nil {
		return nil, fmt.Errorf("day summary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		var total int64
		if err := rows.Scan(&status, &count, &total); err != nil {
			return nil, err
		}
		summary.CountsByStatus[status] = count
		summary.InvoiceCount += count
		// Only settled invoices count toward revenue.
		if status == "COMPLETED" {
			summary.Revenue = total
			if count > 0 {
				summary.AverageTicket = total / int64(count)
			}
		}
	}
	return summary, rows.Err()
}

func (r *postgresRepo) TopProducts(ctx context.Context, branch string, from, to time.Time, limit int) ([]*TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT d.product_id, d.name, SUM(d.quantity), SUM(d.line_total)
		FROM invoice_details d
		JOIN invoices i ON i.id = d.invoice_id
		WHERE i.branch=$1 AND i.status='COMPLETED'
		  AND i.created_at >= $2 AND i.created_at < $3
		GROUP BY d.product_id, d.name
		ORDER BY SUM(d.quantity) DESC
		LIMIT $4`,
		branch, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()

	var products []*TopProduct
	for rows.Next() {
		var p TopProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Quantity, &p.Revenue); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) RevenueSeries(ctx context.Context, branch string, from, to time.Time) ([]*RevenuePoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DATE(created_at), COALESCE(SUM(total),0), COUNT(*)
		FROM invoices
		WHERE branch=$1 AND status='COMPLETED'
		  AND created_at >= $2 AND created_at < $3
		GROUP BY DATE(created_at)
		ORDER BY DATE(created_at)`,
		branch, from, to)
	if err != nil {
		return nil, fmt.Errorf("revenue series: %w", err)
	}
	defer rows.Close()

	var points []*RevenuePoint
	for rows.Next() {
		var day time.Time
		var p RevenuePoint
		if err := rows.Scan(&day, &p.Revenue, &p.Count); err != nil {
			return nil, err
		}
		p.Date = day.Format("2006-01-02")
		points = append(points, &p)
	}
	return points, rows.Err()
}
