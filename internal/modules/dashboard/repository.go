package dashboard

import (
	"context"
	"time"
)

// Repository reads reporting aggregates from the invoice tables.
type Repository interface {
	DaySummary(ctx context.Context, branch string, day time.Time) (*Summary, error)
	TopProducts(ctx context.Context, branch string, from, to time.Time, limit int) ([]*TopProduct, error)
	RevenueSeries(ctx context.Context, branch string, from, to time.Time) ([]*RevenuePoint, error)
}
