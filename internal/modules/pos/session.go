package pos

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phamquangminh/brewpos-backend/internal/modules/catalog"
	"github.com/phamquangminh/brewpos-backend/internal/modules/invoice"
	"github.com/phamquangminh/brewpos-backend/internal/modules/promotion"
)

// Line is one product on the in-progress order.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
	Note     string          `json:"note"`
}

// CustomerRef is the customer attached to the draft. After a restore only
// the ID is known; name/phone/points are filled in by a follow-up lookup.
type CustomerRef struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name,omitempty"`
	Phone  string    `json:"phone,omitempty"`
	Points int       `json:"points,omitempty"`
}

// Session holds the order draft of exactly one terminal. Mutations that
// fail validation are silent no-ops: the UI is expected to have already
// checked and surfaced the reason, and the store never reports why it
// refused.
//
// Stock checks compare against the product snapshot captured when the line
// was added; they are not revalidated against live data.
type Session struct {
	mu sync.Mutex

	terminalID       string
	items            []*Line
	customer         *CustomerRef
	discount         int64
	promotion        *promotion.Promotion
	table            int
	orderType        invoice.OrderType
	currentInvoiceID int64

	log *zap.Logger
}

// NewSession creates an empty session for a terminal.
func NewSession(terminalID string, log *zap.Logger) *Session {
	return &Session{terminalID: terminalID, orderType: invoice.OrderDineIn, log: log}
}

// AddItem merges qty of p into the draft. No-op when the product is out of
// stock, inactive, or the resulting quantity would exceed the stock on hand.
func (s *Session) AddItem(p *catalog.Product, qty int) {
	if p == nil || qty <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.Stock <= 0 || p.Status != catalog.StatusActive {
		return
	}
	for _, line := range s.items {
		if line.Product.ID == p.ID {
			if line.Quantity+qty > p.Stock {
				return
			}
			line.Quantity += qty
			line.Product = *p
			return
		}
	}
	if qty > p.Stock {
		return
	}
	s.items = append(s.items, &Line{Product: *p, Quantity: qty, Note: ""})
}

// RemoveItem deletes the line for productID; no-op if absent.
func (s *Session) RemoveItem(productID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(productID)
}

func (s *Session) removeLocked(productID uuid.UUID) {
	for i, line := range s.items {
		if line.Product.ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the line quantity. Zero or negative removes the line;
// a quantity above the stock snapshot is a no-op.
func (s *Session) UpdateQuantity(productID uuid.UUID, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		s.removeLocked(productID)
		return
	}
	for _, line := range s.items {
		if line.Product.ID == productID {
			if qty > line.Product.Stock {
				return
			}
			line.Quantity = qty
			return
		}
	}
}

// UpdateNote replaces the free-text note on a line.
func (s *Session) UpdateNote(productID uuid.UUID, note string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range s.items {
		if line.Product.ID == productID {
			line.Note = note
			return
		}
	}
}

// SetCustomer attaches (or detaches, with nil) a customer.
func (s *Session) SetCustomer(c *CustomerRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customer = c
}

// SetDiscount sets a manual discount. No validation: the discount is not
// clamped against the subtotal.
func (s *Session) SetDiscount(d int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discount = d
}

// SetPromotion applies a promotion and recomputes the discount against the
// current subtotal. A nil promotion zeroes the discount.
func (s *Session) SetPromotion(p *promotion.Promotion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.promotion = p
	s.discount = promotion.Discount(p, s.subtotalLocked())
}

// SetTable records the selected table (zero for takeaway counters).
func (s *Session) SetTable(table int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = table
}

// SetOrderType records the order type.
func (s *Session) SetOrderType(t invoice.OrderType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderType = t
}

// SetCurrentInvoiceID links the session to a server-side pending invoice,
// so checkout completes that draft instead of creating a new one.
func (s *Session) SetCurrentInvoiceID(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentInvoiceID = id
}

// Clear resets the draft. Table and order type survive: the cashier stays
// where they are.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.customer = nil
	s.discount = 0
	s.promotion = nil
	s.currentInvoiceID = 0
}

// RestoreFromInvoice rebuilds the draft from a persisted pending invoice.
// Lines whose product no longer exists in the supplied catalog are dropped
// and logged, never surfaced. The promotion is always cleared; the caller
// re-resolves it if needed. Only the customer id is restored.
func (s *Session) RestoreFromInvoice(inv *invoice.Invoice, products map[uuid.UUID]*catalog.Product) {
	if inv == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	for _, d := range inv.Details {
		p, ok := products[d.ProductID]
		if !ok {
			s.log.Warn("restore dropped line: product missing from catalog",
				zap.Int64("invoice_id", inv.ID), zap.String("product_id", d.ProductID.String()))
			continue
		}
		s.items = append(s.items, &Line{Product: *p, Quantity: d.Quantity, Note: d.Note})
	}

	s.customer = nil
	if inv.CustomerID != nil {
		s.customer = &CustomerRef{ID: *inv.CustomerID}
	}
	s.discount = inv.Discount
	s.promotion = nil
	s.currentInvoiceID = inv.ID
	if t := inv.TableRef(); t > 0 {
		s.table = t
	}
}

// Subtotal is the sum of unit price times quantity over all lines.
func (s *Session) Subtotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotalLocked()
}

func (s *Session) subtotalLocked() int64 {
	var total int64
	for _, line := range s.items {
		total += line.Product.Price * int64(line.Quantity)
	}
	return total
}

// Tax is always zero at the counter; tax lives on the invoice.
func (s *Session) Tax() int64 { return 0 }

// Total is subtotal minus discount. Deliberately not clamped: a fixed
// discount larger than the subtotal yields a negative total.
func (s *Session) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotalLocked() - s.discount
}

// PromotionDiscount previews what a promotion would take off the current
// subtotal without applying it.
func (s *Session) PromotionDiscount(p *promotion.Promotion) int64 {
	return promotion.Discount(p, s.Subtotal())
}

// View is a serializable snapshot of a session.
type View struct {
	TerminalID       string               `json:"terminal_id"`
	Items            []Line               `json:"items"`
	Customer         *CustomerRef         `json:"customer,omitempty"`
	Discount         int64                `json:"discount"`
	Promotion        *promotion.Promotion `json:"promotion,omitempty"`
	Table            int                  `json:"table,omitempty"`
	OrderType        invoice.OrderType    `json:"order_type"`
	CurrentInvoiceID int64                `json:"current_invoice_id,omitempty"`
	Subtotal         int64                `json:"subtotal"`
	Tax              int64                `json:"tax"`
	Total            int64                `json:"total"`
}

// Snapshot captures the session state for responses.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Line, 0, len(s.items))
	for _, line := range s.items {
		items = append(items, *line)
	}
	subtotal := s.subtotalLocked()
	return View{
		TerminalID:       s.terminalID,
		Items:            items,
		Customer:         s.customer,
		Discount:         s.discount,
		Promotion:        s.promotion,
		Table:            s.table,
		OrderType:        s.orderType,
		CurrentInvoiceID: s.currentInvoiceID,
		Subtotal:         subtotal,
		Tax:              0,
		Total:            subtotal - s.discount,
	}
}
