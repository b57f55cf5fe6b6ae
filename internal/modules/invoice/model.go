package invoice

import (
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of an invoice.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// PaymentMethod is how a completed invoice was settled.
type PaymentMethod string

const (
	MethodCash  PaymentMethod = "CASH"
	MethodCard  PaymentMethod = "CARD"
	MethodVNPay PaymentMethod = "VNPAY"
)

// OrderType distinguishes table service from takeaway.
type OrderType string

const (
	OrderDineIn   OrderType = "DINE_IN"
	OrderTakeAway OrderType = "TAKE_AWAY"
)

// Invoice is an order at a branch. A PENDING invoice is an open tab; invoice
// ids are numeric because the payment gateway reference embeds them
// (INV<id>_<millis>). Amounts are integer VND.
type Invoice struct {
	ID            int64         `json:"id"`
	Branch        string        `json:"branch"`
	TableNumber   int           `json:"table_number,omitempty"`
	Note          string        `json:"note,omitempty"`
	CustomerID    *uuid.UUID    `json:"customer_id,omitempty"`
	EmployeeID    *uuid.UUID    `json:"employee_id,omitempty"`
	Status        Status        `json:"status"`
	OrderType     OrderType     `json:"order_type"`
	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`
	Subtotal      int64         `json:"subtotal"`
	Discount      int64         `json:"discount"`
	Tax           int64         `json:"tax"`
	Total         int64         `json:"total"`
	Details       []*Detail     `json:"details,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Detail is a single line on an invoice.
type Detail struct {
	ID        int64     `json:"id"`
	InvoiceID int64     `json:"invoice_id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
	LineTotal int64     `json:"line_total"`
	Note      string    `json:"note,omitempty"`
}

// Historical rows encode the table inside the free-text note ("Bàn: 3").
// New rows carry table_number as a real column; the pattern remains for
// compatibility with data written before the migration.
var tableNotePattern = regexp.MustCompile(`Bàn:\s*(\d+)`)

// TableFromNote extracts a legacy table reference from a note.
func TableFromNote(note string) (int, bool) {
	m := tableNotePattern.FindStringSubmatch(note)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// TableRef resolves the invoice's table: the typed column when set, the
// legacy note convention otherwise. Zero means no table (takeaway).
func (inv *Invoice) TableRef() int {
	if inv.TableNumber > 0 {
		return inv.TableNumber
	}
	if n, ok := TableFromNote(inv.Note); ok {
		return n
	}
	return 0
}

// DraftLine is one requested line when creating or updating a draft.
type DraftLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note,omitempty"`
}

// CreateDraftRequest is the payload for opening a PENDING invoice.
type CreateDraftRequest struct {
	Branch      string      `json:"branch"`
	TableNumber int         `json:"table_number,omitempty"`
	OrderType   string      `json:"order_type,omitempty"`
	CustomerID  string      `json:"customer_id,omitempty"`
	EmployeeID  string      `json:"employee_id,omitempty"`
	Note        string      `json:"note,omitempty"`
	Discount    int64       `json:"discount,omitempty"`
	Lines       []DraftLine `json:"lines"`
}

// CompleteRequest settles a PENDING invoice.
type CompleteRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// CompleteResult carries the finalized invoice plus any side-effect warnings.
// Warnings never fail the completion: by the time they occur the customer
// has already paid.
type CompleteResult struct {
	Invoice  *Invoice `json:"invoice"`
	Warnings []string `json:"warnings,omitempty"`
}
