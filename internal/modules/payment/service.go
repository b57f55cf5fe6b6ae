package payment

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/phamquangminh/brewpos-backend/internal/modules/invoice"
)

// Service drives the VNPay payment flow: pay URL issuance, return
// callback handling and transaction bookkeeping.
type Service interface {
	CreatePayURL(ctx context.Context, req PayURLRequest) (*PayURLResponse, error)
	HandleReturn(ctx context.Context, q url.Values) (*ReturnResult, error)
	ListByInvoice(ctx context.Context, invoiceID int64) ([]*Transaction, error)
	RefundTransaction(ctx context.Context, txnRef, reason string) (*Transaction, error)
}

type service struct {
	repo     Repository
	gateway  Gateway
	invoices invoice.Service
	log      *zap.Logger
}

func NewService(repo Repository, gateway Gateway, invoices invoice.Service, log *zap.Logger) Service {
	return &service{repo: repo, gateway: gateway, invoices: invoices, log: log}
}

func (s *service) CreatePayURL(ctx context.Context, req PayURLRequest) (*PayURLResponse, error) {
	if req.InvoiceID <= 0 {
		return nil, fmt.Errorf("invoice id is required")
	}
	inv, err := s.invoices.GetInvoice(ctx, req.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoice %d not found", req.InvoiceID)
	}
	if inv.Status != invoice.StatusPending {
		return nil, fmt.Errorf("invoice %d is not pending", req.InvoiceID)
	}

	amount := req.Amount
	if amount <= 0 {
		amount = inv.Total
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	req.Amount = amount
	return s.gateway.BuildPayURL(req)
}

func (s *service) HandleReturn(ctx context.Context, q url.Values) (*ReturnResult, error) {
	res := ParseReturn(q)

	if !s.gateway.VerifyReturn(q) {
		// A bad checksum means the redirect was tampered with or truncated.
		// Treat it as a failed payment rather than trusting any field.
		s.log.Warn("vnpay return signature mismatch", zap.String("txn_ref", res.TxnRef))
		res.Success = false
		res.Message = "Chữ ký không hợp lệ"
	}

	status := TxFailed
	if res.Success {
		status = TxCompleted
	}
	tx := &Transaction{
		ID:                uuid.New(),
		InvoiceID:         res.InvoiceID,
		Provider:          ProviderVNPay,
		TxnRef:            res.TxnRef,
		Amount:            res.Amount,
		ResponseCode:      res.ResponseCode,
		TransactionStatus: res.TransactionStatus,
		BankCode:          res.BankCode,
		Status:            status,
		Message:           res.Message,
	}
	out := &ReturnResult{Result: res}
	if err := s.repo.Create(ctx, tx); err != nil {
		// The customer already saw the gateway outcome. Losing the audit
		// row must not change what we report back.
		s.log.Error("record payment transaction", zap.Error(err))
		out.Warnings = append(out.Warnings, "không lưu được giao dịch thanh toán")
	}

	if res.Success && res.InvoiceID > 0 {
		completed, err := s.invoices.Complete(ctx, res.InvoiceID, invoice.CompleteRequest{
			PaymentMethod: string(invoice.MethodVNPay),
		})
		if err != nil {
			s.log.Error("complete invoice after payment",
				zap.Int64("invoice_id", res.InvoiceID), zap.Error(err))
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("thanh toán thành công nhưng chưa hoàn tất hóa đơn %d", res.InvoiceID))
		} else {
			out.Warnings = append(out.Warnings, completed.Warnings...)
		}
	}
	return out, nil
}

func (s *service) ListByInvoice(ctx context.Context, invoiceID int64) ([]*Transaction, error) {
	return s.repo.ListByInvoice(ctx, invoiceID)
}

func (s *service) RefundTransaction(ctx context.Context, txnRef, reason string) (*Transaction, error) {
	tx, err := s.repo.GetByTxnRef(ctx, txnRef)
	if err != nil {
		return nil, fmt.Errorf("transaction %s not found", txnRef)
	}
	if tx.Status != TxCompleted {
		return nil, fmt.Errorf("transaction %s is not completed", txnRef)
	}
	if reason == "" {
		reason = "refunded"
	}
	if err := s.repo.UpdateStatus(ctx, tx.ID.String(), TxRefunded, reason); err != nil {
		return nil, err
	}
	tx.Status = TxRefunded
	tx.Message = reason
	return tx, nil
}
