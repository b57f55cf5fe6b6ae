package supplier

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service interface {
	CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*Supplier, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*Supplier, error)
	ListSuppliers(ctx context.Context, activeOnly bool) ([]*Supplier, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*Supplier, error)
	DeactivateSupplier(ctx context.Context, id uuid.UUID) error
}

type service struct{ repo Repository }

func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*Supplier, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("supplier name is required")
	}
	sup := &Supplier{
		ID:       uuid.New(),
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		TaxID:    req.TaxID,
		Note:     req.Note,
		IsActive: true,
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *service) GetSupplier(ctx context.Context, id uuid.UUID) (*Supplier, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListSuppliers(ctx context.Context, activeOnly bool) ([]*Supplier, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *service) UpdateSupplier(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*Supplier, error) {
	sup, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		sup.Name = req.Name
	}
	if req.Phone != "" {
		sup.Phone = req.Phone
	}
	if req.Email != "" {
		sup.Email = req.Email
	}
	if req.Address != "" {
		sup.Address = req.Address
	}
	if req.TaxID != "" {
		sup.TaxID = req.TaxID
	}
	if req.Note != "" {
		sup.Note = req.Note
	}
	if req.IsActive != nil {
		sup.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *service) DeactivateSupplier(ctx context.Context, id uuid.UUID) error {
	sup, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	sup.IsActive = false
	return s.repo.Update(ctx, sup)
}
