package payment

import "context"

// Repository defines data access for payment transactions.
type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	GetByTxnRef(ctx context.Context, txnRef string) (*Transaction, error)
	ListByInvoice(ctx context.Context, invoiceID int64) ([]*Transaction, error)
	UpdateStatus(ctx context.Context, id string, status TxStatus, message string) error
}
