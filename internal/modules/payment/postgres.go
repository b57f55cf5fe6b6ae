package payment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed payment repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const txColumns = `id, invoice_id, provider, txn_ref, amount, response_code,
	transaction_status, bank_code, status, message, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, tx *Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payment_transactions
		  (id, invoice_id, provider, txn_ref, amount, response_code, transaction_status, bank_code, status, message)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		tx.ID, tx.InvoiceID, tx.Provider, tx.TxnRef, tx.Amount,
		tx.ResponseCode, tx.TransactionStatus, tx.BankCode, tx.Status, tx.Message)
	if err != nil {
		return fmt.Errorf("insert payment transaction: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetByTxnRef(ctx context.Context, txnRef string) (*Transaction, error) {
	return scanTransaction(r.db.QueryRowContext(ctx,
		`SELECT `+txColumns+` FROM payment_transactions WHERE txn_ref=$1`, txnRef))
}

func (r *postgresRepo) ListByInvoice(ctx context.Context, invoiceID int64) ([]*Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+txColumns+` FROM payment_transactions WHERE invoice_id=$1 ORDER BY created_at DESC`,
		invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payment transactions: %w", err)
	}
	defer rows.Close()

	var txs []*Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status TxStatus, message string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid transaction id: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE payment_transactions SET status=$2, message=$3, updated_at=NOW() WHERE id=$1`,
		uid, status, message)
	if err != nil {
		return fmt.Errorf("update payment transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("payment transaction %s not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*Transaction, error) {
	var tx Transaction
	err := row.Scan(&tx.ID, &tx.InvoiceID, &tx.Provider, &tx.TxnRef, &tx.Amount,
		&tx.ResponseCode, &tx.TransactionStatus, &tx.BankCode, &tx.Status, &tx.Message,
		&tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}
