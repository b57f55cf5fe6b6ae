package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service manages raw material stock for a branch.
type Service interface {
	CreateMaterial(ctx context.Context, req CreateMaterialRequest) (*Material, error)
	GetMaterial(ctx context.Context, id uuid.UUID) (*Material, error)
	ListMaterials(ctx context.Context, activeOnly bool) ([]*Material, error)
	ListLowStock(ctx context.Context) ([]*Material, error)
	UpdateMaterial(ctx context.Context, id uuid.UUID, req UpdateMaterialRequest) (*Material, error)

	// AdjustStock applies a stock in (positive delta) or stock out
	// (negative delta) and records the movement. Quantity floors at zero.
	AdjustStock(ctx context.Context, id uuid.UUID, req AdjustStockRequest, employeeID string) (*Material, error)
	ListMoves(ctx context.Context, materialID uuid.UUID, limit int) ([]*StockMove, error)
}

type service struct {
	repo   Repository
	branch string
	log    *zap.Logger
}

func NewService(repo Repository, branch string, log *zap.Logger) Service {
	return &service{repo: repo, branch: branch, log: log}
}

func (s *service) CreateMaterial(ctx context.Context, req CreateMaterialRequest) (*Material, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("material name is required")
	}
	if req.Unit == "" {
		return nil, fmt.Errorf("material unit is required")
	}
	if req.Quantity < 0 {
		req.Quantity = 0
	}
	m := &Material{
		ID:          uuid.New(),
		Branch:      s.branch,
		Name:        req.Name,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		UnitPrice:   req.UnitPrice,
		SupplierID:  req.SupplierID,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.log.Info("material created", zap.String("id", m.ID.String()), zap.String("name", m.Name))
	return m, nil
}

func (s *service) GetMaterial(ctx context.Context, id uuid.UUID) (*Material, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListMaterials(ctx context.Context, activeOnly bool) ([]*Material, error) {
	return s.repo.List(ctx, s.branch, activeOnly)
}

func (s *service) ListLowStock(ctx context.Context) ([]*Material, error) {
	materials, err := s.repo.List(ctx, s.branch, true)
	if err != nil {
		return nil, err
	}
	low := []*Material{}
	for _, m := range materials {
		if m.LowStock() {
			low = append(low, m)
		}
	}
	return low, nil
}

func (s *service) UpdateMaterial(ctx context.Context, id uuid.UUID, req UpdateMaterialRequest) (*Material, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		m.Name = req.Name
	}
	if req.Unit != "" {
		m.Unit = req.Unit
	}
	if req.MinQuantity != nil {
		m.MinQuantity = *req.MinQuantity
	}
	if req.UnitPrice != nil {
		m.UnitPrice = *req.UnitPrice
	}
	if req.SupplierID != nil {
		m.SupplierID = req.SupplierID
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) AdjustStock(ctx context.Context, id uuid.UUID, req AdjustStockRequest, employeeID string) (*Material, error) {
	if req.Delta == 0 {
		return nil, fmt.Errorf("delta must be non-zero")
	}
	qty, err := s.repo.AdjustQuantity(ctx, id, req.Delta)
	if err != nil {
		return nil, err
	}
	move := &StockMove{
		ID:         uuid.New(),
		MaterialID: id,
		Delta:      req.Delta,
		Reason:     req.Reason,
		EmployeeID: employeeID,
	}
	if err := s.repo.RecordMove(ctx, move); err != nil {
		// Quantity already changed. Keep going, the audit trail is
		// advisory.
		s.log.Warn("record stock move", zap.String("material_id", id.String()), zap.Error(err))
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.LowStock() {
		s.log.Warn("material low on stock",
			zap.String("name", m.Name),
			zap.Float64("quantity", qty),
			zap.Float64("min_quantity", m.MinQuantity))
	}
	return m, nil
}

func (s *service) ListMoves(ctx context.Context, materialID uuid.UUID, limit int) ([]*StockMove, error) {
	return s.repo.ListMoves(ctx, materialID, limit)
}
