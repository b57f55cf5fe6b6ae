package payment

import (
	"time"

	"github.com/google/uuid"
)

// Provider identifies a payment gateway.
type Provider string

const ProviderVNPay Provider = "VNPAY"

// TxStatus is the internal state of a payment attempt.
type TxStatus string

const (
	TxCompleted TxStatus = "COMPLETED"
	TxFailed    TxStatus = "FAILED"
	TxRefunded  TxStatus = "REFUNDED"
)

// Transaction records one gateway payment attempt against an invoice.
type Transaction struct {
	ID                uuid.UUID `json:"id"`
	InvoiceID         int64     `json:"invoice_id"`
	Provider          Provider  `json:"provider"`
	TxnRef            string    `json:"txn_ref"`
	Amount            int64     `json:"amount"`
	ResponseCode      string    `json:"response_code,omitempty"`
	TransactionStatus string    `json:"transaction_status,omitempty"`
	BankCode          string    `json:"bank_code,omitempty"`
	Status            TxStatus  `json:"status"`
	Message           string    `json:"message,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PayURLRequest is the payload for building a gateway redirect URL.
type PayURLRequest struct {
	InvoiceID int64  `json:"invoice_id"`
	Amount    int64  `json:"amount"`
	OrderInfo string `json:"order_info,omitempty"`
	ClientIP  string `json:"-"`
}

// PayURLResponse carries the signed redirect URL and its transaction ref.
type PayURLResponse struct {
	PayURL string `json:"pay_url"`
	TxnRef string `json:"txn_ref"`
}

// ReturnResult is what the return handler reports back to the UI after a
// gateway redirect. A completion failure after a successful charge does not
// downgrade Success; it surfaces as a warning instead.
type ReturnResult struct {
	Result   *CallbackResult `json:"result"`
	Warnings []string        `json:"warnings,omitempty"`
}
