package invoice

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phamquangminh/brewpos-backend/internal/modules/catalog"
	"github.com/phamquangminh/brewpos-backend/internal/modules/customer"
)

// Publisher emits invoice lifecycle events. Publish failures never fail the
// business operation.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// Service defines invoice business logic.
type Service interface {
	// CreateDraft opens a PENDING invoice from the requested lines.
	CreateDraft(ctx context.Context, req CreateDraftRequest) (*Invoice, error)

	// UpdateDraft replaces the lines of an existing PENDING invoice.
	UpdateDraft(ctx context.Context, id int64, req CreateDraftRequest) (*Invoice, error)

	GetInvoice(ctx context.Context, id int64) (*Invoice, error)
	ListInvoices(ctx context.Context, branch, status string) ([]*Invoice, error)

	// TableDrafts reconciles the PENDING invoices of a table: newest draft
	// is canonical, older duplicates are orphans.
	TableDrafts(ctx context.Context, branch string, table int) (TableDrafts, error)

	// CancelPending cancels a single PENDING invoice.
	CancelPending(ctx context.Context, id int64) error

	// CancelTableDrafts cancels every PENDING draft of a table, best-effort:
	// individual failures are logged and skipped so no orphan survives a
	// partial outage. Returns how many drafts were actually cancelled.
	CancelTableDrafts(ctx context.Context, branch string, table int) (int, error)

	// Complete settles a PENDING invoice: status transition, stock
	// decrement, loyalty accrual, event publication. Side-effect failures
	// become warnings, never errors, since the customer has already paid.
	Complete(ctx context.Context, id int64, req CompleteRequest) (*CompleteResult, error)
}

type service struct {
	repo      Repository
	products  catalog.Repository
	customers customer.Service
	publisher Publisher
	log       *zap.Logger
}

// NewService creates a new invoice service.
func NewService(repo Repository, products catalog.Repository, customers customer.Service, publisher Publisher, log *zap.Logger) Service {
	return &service{repo: repo, products: products, customers: customers, publisher: publisher, log: log}
}

func (s *service) CreateDraft(ctx context.Context, req CreateDraftRequest) (*Invoice, error) {
	inv, err := s.buildDraft(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to persist invoice: %w", err)
	}
	return inv, nil
}

func (s *service) UpdateDraft(ctx context.Context, id int64, req CreateDraftRequest) (*Invoice, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("invoice not found: %w", err)
	}
	if !strings.EqualFold(string(existing.Status), string(StatusPending)) {
		return nil, fmt.Errorf("only PENDING invoices can be edited (current: %s)", existing.Status)
	}

	inv, err := s.buildDraft(ctx, req)
	if err != nil {
		return nil, err
	}
	inv.ID = existing.ID
	inv.Branch = existing.Branch
	inv.CreatedAt = existing.CreatedAt
	if err := s.repo.ReplaceDetails(ctx, inv); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListInvoices(ctx context.Context, branch, status string) ([]*Invoice, error) {
	return s.repo.List(ctx, branch, status)
}

func (s *service) TableDrafts(ctx context.Context, branch string, table int) (TableDrafts, error) {
	pending, err := s.repo.List(ctx, branch, string(StatusPending))
	if err != nil {
		return TableDrafts{}, err
	}
	return DraftsForTable(pending, table), nil
}

func (s *service) CancelPending(ctx context.Context, id int64) error {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("invoice not found: %w", err)
	}
	if !strings.EqualFold(string(inv.Status), string(StatusPending)) {
		return fmt.Errorf("only PENDING invoices can be cancelled (current: %s)", inv.Status)
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusCancelled, ""); err != nil {
		return err
	}
	s.publish(ctx, "invoice.cancelled", inv)
	return nil
}

func (s *service) CancelTableDrafts(ctx context.Context, branch string, table int) (int, error) {
	drafts, err := s.TableDrafts(ctx, branch, table)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, inv := range drafts.All() {
		if err := s.CancelPending(ctx, inv.ID); err != nil {
			s.log.Warn("cancel table draft failed",
				zap.Int64("invoice_id", inv.ID), zap.Int("table", table), zap.Error(err))
			continue
		}
		cancelled++
	}
	return cancelled, nil
}

func (s *service) Complete(ctx context.Context, id int64, req CompleteRequest) (*CompleteResult, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("invoice not found: %w", err)
	}
	if !strings.EqualFold(string(inv.Status), string(StatusPending)) {
		return nil, fmt.Errorf("only PENDING invoices can be completed (current: %s)", inv.Status)
	}

	method := PaymentMethod(strings.ToUpper(req.PaymentMethod))
	switch method {
	case MethodCash, MethodCard, MethodVNPay:
	default:
		return nil, fmt.Errorf("invalid payment_method: %s (allowed: CASH, CARD, VNPAY)", req.PaymentMethod)
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusCompleted, method); err != nil {
		return nil, err
	}
	inv.Status = StatusCompleted
	inv.PaymentMethod = method

	var warnings []string
	for _, d := range inv.Details {
		if err := s.products.AdjustStock(ctx, d.ProductID.String(), -d.Quantity); err != nil {
			s.log.Warn("stock decrement failed",
				zap.Int64("invoice_id", id), zap.String("product_id", d.ProductID.String()), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("stock not adjusted for %s", d.Name))
		}
	}
	if inv.CustomerID != nil {
		if err := s.customers.AwardPoints(ctx, inv.CustomerID.String(), inv.Total); err != nil {
			s.log.Warn("loyalty accrual failed",
				zap.Int64("invoice_id", id), zap.String("customer_id", inv.CustomerID.String()), zap.Error(err))
			warnings = append(warnings, "loyalty points not awarded")
		}
	}
	s.publish(ctx, "invoice.completed", inv)

	return &CompleteResult{Invoice: inv, Warnings: warnings}, nil
}

func (s *service) buildDraft(ctx context.Context, req CreateDraftRequest) (*Invoice, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("invoice must contain at least one line")
	}
	if req.Branch == "" {
		return nil, fmt.Errorf("branch is required")
	}

	orderType := OrderType(strings.ToUpper(req.OrderType))
	if orderType == "" {
		orderType = OrderDineIn
	}
	if orderType != OrderDineIn && orderType != OrderTakeAway {
		return nil, fmt.Errorf("invalid order_type: %s", req.OrderType)
	}

	var details []*Detail
	var subtotal int64
	for _, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be > 0 for product %s", line.ProductID)
		}
		p, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", line.ProductID)
		}
		if p.Status != catalog.StatusActive {
			return nil, fmt.Errorf("product %s is currently unavailable", p.Name)
		}

		lineTotal := p.Price * int64(line.Quantity)
		subtotal += lineTotal
		details = append(details, &Detail{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  line.Quantity,
			UnitPrice: p.Price,
			LineTotal: lineTotal,
			Note:      line.Note,
		})
	}

	discount := req.Discount
	if discount < 0 {
		discount = 0
	}

	inv := &Invoice{
		Branch:      req.Branch,
		TableNumber: req.TableNumber,
		Note:        req.Note,
		Status:      StatusPending,
		OrderType:   orderType,
		Subtotal:    subtotal,
		Discount:    discount,
		Tax:         0, // VND retail price is tax-inclusive
		Total:       subtotal - discount,
		Details:     details,
	}

	if req.CustomerID != "" {
		uid, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("invalid customer_id: %w", err)
		}
		inv.CustomerID = &uid
	}
	if req.EmployeeID != "" {
		uid, err := uuid.Parse(req.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("invalid employee_id: %w", err)
		}
		inv.EmployeeID = &uid
	}
	return inv, nil
}

func (s *service) publish(ctx context.Context, key string, inv *Invoice) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, key, inv); err != nil {
		s.log.Warn("event publish failed", zap.String("routing_key", key),
			zap.Int64("invoice_id", inv.ID), zap.Error(err))
	}
}
