package promotion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service defines promotion business logic.
type Service interface {
	CreatePromotion(ctx context.Context, req CreatePromotionRequest) (*Promotion, error)
	GetPromotion(ctx context.Context, id string) (*Promotion, error)
	ListPromotions(ctx context.Context, activeOnly bool) ([]*Promotion, error)
	UpdatePromotion(ctx context.Context, id string, req CreatePromotionRequest) (*Promotion, error)
	DeletePromotion(ctx context.Context, id string) error

	// ValidateCode resolves a code and returns the discount it would yield
	// against the supplied subtotal. Expired, inactive, or below-minimum
	// promotions are rejected with an error.
	ValidateCode(ctx context.Context, req ValidateCodeRequest) (*ValidateCodeResponse, error)
}

type service struct{ repo Repository }

// NewService creates a new promotion service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreatePromotion(ctx context.Context, req CreatePromotionRequest) (*Promotion, error) {
	p, err := buildPromotion(req)
	if err != nil {
		return nil, err
	}
	p.ID = uuid.New()
	p.IsActive = true
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetPromotion(ctx context.Context, id string) (*Promotion, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListPromotions(ctx context.Context, activeOnly bool) ([]*Promotion, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *service) UpdatePromotion(ctx context.Context, id string, req CreatePromotionRequest) (*Promotion, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("promotion not found: %w", err)
	}
	p, err := buildPromotion(req)
	if err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.IsActive = existing.IsActive
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeletePromotion(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) ValidateCode(ctx context.Context, req ValidateCodeRequest) (*ValidateCodeResponse, error) {
	if strings.TrimSpace(req.Code) == "" {
		return nil, fmt.Errorf("code is required")
	}
	p, err := s.repo.GetByCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("promotion code not found: %w", err)
	}
	if !p.Redeemable(time.Now()) {
		return nil, fmt.Errorf("promotion %s is not currently redeemable", p.Code)
	}
	if p.MinOrderAmount > 0 && req.Subtotal < p.MinOrderAmount {
		return nil, fmt.Errorf("order total below minimum %d for promotion %s", p.MinOrderAmount, p.Code)
	}
	return &ValidateCodeResponse{Promotion: p, Discount: Discount(p, req.Subtotal)}, nil
}

func buildPromotion(req CreatePromotionRequest) (*Promotion, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, fmt.Errorf("code is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required")
	}
	t := Type(strings.ToUpper(req.Type))
	if !t.Valid() {
		return nil, fmt.Errorf("invalid type: %s", req.Type)
	}
	if req.Value < 0 {
		return nil, fmt.Errorf("value cannot be negative")
	}
	if t == TypePercentage && req.Value > 100 {
		return nil, fmt.Errorf("percentage value cannot exceed 100")
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, fmt.Errorf("ends_at must be after starts_at")
	}
	return &Promotion{
		Code:           code,
		Name:           strings.TrimSpace(req.Name),
		Type:           t,
		Value:          req.Value,
		MinOrderAmount: req.MinOrderAmount,
		MaxDiscount:    req.MaxDiscount,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
	}, nil
}
