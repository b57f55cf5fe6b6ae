package customer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PointsPerVND is the loyalty accrual denominator: one point per 10,000 VND
// of final invoice total, floored.
const PointsPerVND = 10000

// Service defines customer business logic.
type Service interface {
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error)
	GetCustomer(ctx context.Context, id string) (*Customer, error)
	FindByPhone(ctx context.Context, phone string) (*Customer, error)
	ListCustomers(ctx context.Context, keyword string) ([]*Customer, error)
	UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (*Customer, error)
	DeleteCustomer(ctx context.Context, id string) error

	// AwardPoints accrues loyalty points for a completed invoice total.
	AwardPoints(ctx context.Context, id string, invoiceTotal int64) error
}

type service struct{ repo Repository }

// NewService creates a new customer service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	if strings.TrimSpace(req.Phone) == "" {
		return nil, fmt.Errorf("phone is required")
	}
	c := &Customer{
		ID:    uuid.New(),
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
		Email: strings.TrimSpace(req.Email),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) FindByPhone(ctx context.Context, phone string) (*Customer, error) {
	return s.repo.GetByPhone(ctx, strings.TrimSpace(phone))
}

func (s *service) ListCustomers(ctx context.Context, keyword string) ([]*Customer, error) {
	return s.repo.List(ctx, keyword)
}

func (s *service) UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}
	if strings.TrimSpace(req.Name) != "" {
		c.Name = strings.TrimSpace(req.Name)
	}
	if strings.TrimSpace(req.Phone) != "" {
		c.Phone = strings.TrimSpace(req.Phone)
	}
	c.Email = strings.TrimSpace(req.Email)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) DeleteCustomer(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) AwardPoints(ctx context.Context, id string, invoiceTotal int64) error {
	if invoiceTotal <= 0 {
		return nil
	}
	points := int(invoiceTotal / PointsPerVND)
	if points == 0 {
		return nil
	}
	return s.repo.AddPoints(ctx, id, points)
}
