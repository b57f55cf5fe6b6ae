package dashboard

import (
	"context"
	"time"
)

type Service interface {
	TodaySummary(ctx context.Context) (*Summary, error)
	Summary(ctx context.Context, day time.Time) (*Summary, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]*TopProduct, error)
	RevenueSeries(ctx context.Context, from, to time.Time) ([]*RevenuePoint, error)
}

type service struct {
	repo   Repository
	branch string
	now    func() time.Time
}

func NewService(repo Repository, branch string) Service {
	return &service{repo: repo, branch: branch, now: time.Now}
}

func (s *service) TodaySummary(ctx context.Context) (*Summary, error) {
	return s.repo.DaySummary(ctx, s.branch, s.now())
}

func (s *service) Summary(ctx context.Context, day time.Time) (*Summary, error) {
	return s.repo.DaySummary(ctx, s.branch, day)
}

func (s *service) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]*TopProduct, error) {
	from, to = s.defaultRange(from, to)
	return s.repo.TopProducts(ctx, s.branch, from, to, limit)
}

func (s *service) RevenueSeries(ctx context.Context, from, to time.Time) ([]*RevenuePoint, error) {
	from, to = s.defaultRange(from, to)
	return s.repo.RevenueSeries(ctx, s.branch, from, to)
}

// defaultRange falls back to the trailing 7 days when the caller leaves
// either bound unset.
func (s *service) defaultRange(from, to time.Time) (time.Time, time.Time) {
	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -7)
	}
	return from, to
}
