package pos

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phamquangminh/brewpos-backend/internal/modules/catalog"
	"github.com/phamquangminh/brewpos-backend/internal/modules/customer"
	"github.com/phamquangminh/brewpos-backend/internal/modules/invoice"
	"github.com/phamquangminh/brewpos-backend/internal/modules/promotion"
)

// Service drives a terminal's order draft. Cart mutations follow the store
// contract: rejected changes are silent and the caller sees the unchanged
// snapshot. Errors are reserved for lookups and I/O.
type Service interface {
	View(terminal string) View

	AddItem(ctx context.Context, terminal, productID string, qty int) (View, error)
	RemoveItem(terminal, productID string) (View, error)
	UpdateQuantity(terminal, productID string, qty int) (View, error)
	UpdateNote(terminal, productID, note string) (View, error)

	AttachCustomer(ctx context.Context, terminal, customerID string) (View, error)
	DetachCustomer(terminal string) View
	SetDiscount(terminal string, discount int64) View
	ApplyPromotionCode(ctx context.Context, terminal, code string) (View, error)
	ClearPromotion(terminal string) View
	SetTable(terminal string, table int) View
	SetOrderType(terminal, orderType string) (View, error)
	Clear(terminal string) View

	// Checkout persists the draft as a PENDING invoice: a new one, or the
	// draft the session is resuming when current_invoice_id is set.
	Checkout(ctx context.Context, terminal string) (*invoice.Invoice, error)

	// ResumeTable loads the canonical pending draft of a table into the
	// session, joining its lines against a fresh catalog fetch.
	ResumeTable(ctx context.Context, terminal string, table int) (View, error)
}

type service struct {
	store      *Store
	products   catalog.Service
	customers  customer.Service
	promotions promotion.Service
	invoices   invoice.Service
	branch     string
	log        *zap.Logger
}

// NewService creates a new POS service.
func NewService(store *Store, products catalog.Service, customers customer.Service,
	promotions promotion.Service, invoices invoice.Service, branch string, log *zap.Logger) Service {
	return &service{
		store:      store,
		products:   products,
		customers:  customers,
		promotions: promotions,
		invoices:   invoices,
		branch:     branch,
		log:        log,
	}
}

func (s *service) View(terminal string) View {
	return s.store.Session(terminal).Snapshot()
}

func (s *service) AddItem(ctx context.Context, terminal, productID string, qty int) (View, error) {
	sess := s.store.Session(terminal)
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return sess.Snapshot(), fmt.Errorf("product not found: %w", err)
	}
	sess.AddItem(p, qty)
	return sess.Snapshot(), nil
}

func (s *service) RemoveItem(terminal, productID string) (View, error) {
	sess := s.store.Session(terminal)
	uid, err := uuid.Parse(productID)
	if err != nil {
		return sess.Snapshot(), fmt.Errorf("invalid product id: %w", err)
	}
	sess.RemoveItem(uid)
	return sess.Snapshot(), nil
}

func (s *service) UpdateQuantity(terminal, productID string, qty int) (View, error) {
	sess := s.store.Session(terminal)
	uid, err := uuid.Parse(productID)
	if err != nil {
		return sess.Snapshot(), fmt.Errorf("invalid product id: %w", err)
	}
	sess.UpdateQuantity(uid, qty)
	return sess.Snapshot(), nil
}

func (s *service) UpdateNote(terminal, productID, note string) (View, error) {
	sess := s.store.Session(terminal)
	uid, err := uuid.Parse(productID)
	if err != nil {
		return sess.Snapshot(), fmt.Errorf("invalid product id: %w", err)
	}
	sess.UpdateNote(uid, note)
	return sess.Snapshot(), nil
}

func (s *service) AttachCustomer(ctx context.Context, terminal, customerID string) (View, error) {
	sess := s.store.Session(terminal)
	c, err := s.customers.GetCustomer(ctx, customerID)
	if err != nil {
		return sess.Snapshot(), fmt.Errorf("customer not found: %w", err)
	}
	sess.SetCustomer(&CustomerRef{ID: c.ID, Name: c.Name, Phone: c.Phone, Points: c.Points})
	return sess.Snapshot(), nil
}

func (s *service) DetachCustomer(terminal string) View {
	sess := s.store.Session(terminal)
	sess.SetCustomer(nil)
	return sess.Snapshot()
}

func (s *service) SetDiscount(terminal string, discount int64) View {
	sess := s.store.Session(terminal)
	sess.SetDiscount(discount)
	return sess.Snapshot()
}

func (s *service) ApplyPromotionCode(ctx context.Context, terminal, code string) (View, error) {
	sess := s.store.Session(terminal)
	res, err := s.promotions.ValidateCode(ctx, promotion.ValidateCodeRequest{
		Code:     code,
		Subtotal: sess.Subtotal(),
	})
	if err != nil {
		return sess.Snapshot(), err
	}
	sess.SetPromotion(res.Promotion)
	return sess.Snapshot(), nil
}

func (s *service) ClearPromotion(terminal string) View {
	sess := s.store.Session(terminal)
	sess.SetPromotion(nil)
	return sess.Snapshot()
}

func (s *service) SetTable(terminal string, table int) View {
	sess := s.store.Session(terminal)
	sess.SetTable(table)
	return sess.Snapshot()
}

func (s *service) SetOrderType(terminal, orderType string) (View, error) {
	sess := s.store.Session(terminal)
	t := invoice.OrderType(strings.ToUpper(orderType))
	if t != invoice.OrderDineIn && t != invoice.OrderTakeAway {
		return sess.Snapshot(), fmt.Errorf("invalid order_type: %s", orderType)
	}
	sess.SetOrderType(t)
	return sess.Snapshot(), nil
}

func (s *service) Clear(terminal string) View {
	sess := s.store.Session(terminal)
	sess.Clear()
	return sess.Snapshot()
}

func (s *service) Checkout(ctx context.Context, terminal string) (*invoice.Invoice, error) {
	sess := s.store.Session(terminal)
	view := sess.Snapshot()
	if len(view.Items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	req := invoice.CreateDraftRequest{
		Branch:      s.branch,
		TableNumber: view.Table,
		OrderType:   string(view.OrderType),
		Discount:    view.Discount,
	}
	if view.Customer != nil {
		req.CustomerID = view.Customer.ID.String()
	}
	for _, line := range view.Items {
		req.Lines = append(req.Lines, invoice.DraftLine{
			ProductID: line.Product.ID.String(),
			Quantity:  line.Quantity,
			Note:      line.Note,
		})
	}

	var inv *invoice.Invoice
	var err error
	if view.CurrentInvoiceID > 0 {
		inv, err = s.invoices.UpdateDraft(ctx, view.CurrentInvoiceID, req)
	} else {
		inv, err = s.invoices.CreateDraft(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	sess.SetCurrentInvoiceID(inv.ID)
	return inv, nil
}

func (s *service) ResumeTable(ctx context.Context, terminal string, table int) (View, error) {
	sess := s.store.Session(terminal)

	drafts, err := s.invoices.TableDrafts(ctx, s.branch, table)
	if err != nil {
		return sess.Snapshot(), err
	}
	if drafts.Canonical == nil {
		sess.SetTable(table)
		return sess.Snapshot(), nil
	}

	products, err := s.products.ListProducts(ctx, "", "", false)
	if err != nil {
		return sess.Snapshot(), fmt.Errorf("catalog fetch failed: %w", err)
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	sess.RestoreFromInvoice(drafts.Canonical, byID)

	// The restore keeps only the customer id; profile details come from a
	// follow-up lookup and are optional.
	if c := drafts.Canonical.CustomerID; c != nil {
		if cust, err := s.customers.GetCustomer(ctx, c.String()); err == nil {
			sess.SetCustomer(&CustomerRef{ID: cust.ID, Name: cust.Name, Phone: cust.Phone, Points: cust.Points})
		} else {
			s.log.Warn("customer lookup after restore failed",
				zap.String("customer_id", c.String()), zap.Error(err))
		}
	}
	return sess.Snapshot(), nil
}
