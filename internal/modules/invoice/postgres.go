package invoice

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a Postgres-backed invoice repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, inv *Invoice) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO invoices
		  (branch, table_number, note, customer_id, employee_id, status, order_type,
		   payment_method, subtotal, discount, tax, total)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at, updated_at`,
		inv.Branch, inv.TableNumber, inv.Note, inv.CustomerID, inv.EmployeeID,
		inv.Status, inv.OrderType, inv.PaymentMethod,
		inv.Subtotal, inv.Discount, inv.Tax, inv.Total).
		Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}

	if err := insertDetails(ctx, tx, inv); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRowContext(ctx, `
		SELECT id, branch, table_number, note, customer_id, employee_id, status, order_type,
		       payment_method, subtotal, discount, tax, total, created_at, updated_at
		FROM invoices WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	inv.Details, err = r.listDetails(ctx, id)
	return inv, err
}

func (r *postgresRepo) List(ctx context.Context, branch, status string) ([]*Invoice, error) {
	query := `
		SELECT id, branch, table_number, note, customer_id, employee_id, status, order_type,
		       payment_method, subtotal, discount, tax, total, created_at, updated_at
		FROM invoices WHERE branch=$1`
	args := []interface{}{branch}
	if status != "" {
		args = append(args, status)
		query += ` AND UPPER(status)=UPPER($2)`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, inv := range invoices {
		if inv.Details, err = r.listDetails(ctx, inv.ID); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

func (r *postgresRepo) ReplaceDetails(ctx context.Context, inv *Invoice) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE invoices
		SET table_number=$2, note=$3, customer_id=$4, subtotal=$5, discount=$6, tax=$7, total=$8, updated_at=NOW()
		WHERE id=$1 AND UPPER(status)='PENDING'`,
		inv.ID, inv.TableNumber, inv.Note, inv.CustomerID,
		inv.Subtotal, inv.Discount, inv.Tax, inv.Total)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("pending invoice %d not found", inv.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_details WHERE invoice_id=$1`, inv.ID); err != nil {
		return fmt.Errorf("clear invoice details: %w", err)
	}
	if err := insertDetails(ctx, tx, inv); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id int64, status Status, method PaymentMethod) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE invoices SET status=$2, payment_method=COALESCE(NULLIF($3,''), payment_method), updated_at=NOW()
		WHERE id=$1`, id, status, string(method))
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("invoice %d not found", id)
	}
	return nil
}

func insertDetails(ctx context.Context, tx *sql.Tx, inv *Invoice) error {
	for _, d := range inv.Details {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO invoice_details (invoice_id, product_id, name, quantity, unit_price, line_total, note)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			RETURNING id`,
			inv.ID, d.ProductID, d.Name, d.Quantity, d.UnitPrice, d.LineTotal, d.Note).
			Scan(&d.ID)
		if err != nil {
			return fmt.Errorf("insert invoice detail: %w", err)
		}
		d.InvoiceID = inv.ID
	}
	return nil
}

func (r *postgresRepo) listDetails(ctx context.Context, invoiceID int64) ([]*Detail, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, invoice_id, product_id, name, quantity, unit_price, line_total, note
		FROM invoice_details WHERE invoice_id=$1 ORDER BY id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice details: %w", err)
	}
	defer rows.Close()

	var details []*Detail
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.ID, &d.InvoiceID, &d.ProductID, &d.Name, &d.Quantity,
			&d.UnitPrice, &d.LineTotal, &d.Note); err != nil {
			return nil, err
		}
		details = append(details, &d)
	}
	return details, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInvoice(row rowScanner) (*Invoice, error) {
	var inv Invoice
	var method sql.NullString
	err := row.Scan(&inv.ID, &inv.Branch, &inv.TableNumber, &inv.Note, &inv.CustomerID,
		&inv.EmployeeID, &inv.Status, &inv.OrderType, &method,
		&inv.Subtotal, &inv.Discount, &inv.Tax, &inv.Total, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.PaymentMethod = PaymentMethod(method.String)
	return &inv, nil
}
