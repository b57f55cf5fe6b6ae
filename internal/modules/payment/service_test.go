package payment

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phamquangminh/brewpos-backend/internal/modules/invoice"
)

type fakeRepo struct {
	created   []*Transaction
	createErr error
	byRef     map[string]*Transaction
	updated   map[string]TxStatus
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byRef: map[string]*Transaction{}, updated: map[string]TxStatus{}}
}

func (f *fakeRepo) Create(ctx context.Context, tx *Transaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, tx)
	f.byRef[tx.TxnRef] = tx
	return nil
}

func (f *fakeRepo) GetByTxnRef(ctx context.Context, ref string) (*Transaction, error) {
	tx, ok := f.byRef[ref]
	if !ok {
		return nil, fmt.Errorf("transaction %s not found", ref)
	}
	return tx, nil
}

func (f *fakeRepo) ListByInvoice(ctx context.Context, invoiceID int64) ([]*Transaction, error) {
	var txs []*Transaction
	for _, tx := range f.created {
		if tx.InvoiceID == invoiceID {
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id string, status TxStatus, message string) error {
	f.updated[id] = status
	return nil
}

type fakeGateway struct {
	verify bool
}

func (f *fakeGateway) BuildPayURL(req PayURLRequest) (*PayURLResponse, error) {
	return &PayURLResponse{
		PayURL: "https://gateway.example/pay",
		TxnRef: fmt.Sprintf("INV%d_1", req.InvoiceID),
	}, nil
}

func (f *fakeGateway) VerifyReturn(q url.Values) bool { return f.verify }

type fakeInvoices struct {
	invoice.Service

	pending     map[int64]*invoice.Invoice
	completed   []int64
	completeErr error
}

func (f *fakeInvoices) GetInvoice(ctx context.Context, id int64) (*invoice.Invoice, error) {
	inv, ok := f.pending[id]
	if !ok {
		return nil, fmt.Errorf("invoice %d not found", id)
	}
	return inv, nil
}

func (f *fakeInvoices) Complete(ctx context.Context, id int64, req invoice.CompleteRequest) (*invoice.CompleteResult, error) {
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	f.completed = append(f.completed, id)
	return &invoice.CompleteResult{Warnings: []string{"stock not adjusted for Trà đào"}}, nil
}

func newTestService(repo Repository, gw Gateway, inv invoice.Service) Service {
	return NewService(repo, gw, inv, zap.NewNop())
}

func TestCreatePayURLDefaultsToInvoiceTotal(t *testing.T) {
	invoices := &fakeInvoices{pending: map[int64]*invoice.Invoice{
		7: {ID: 7, Status: invoice.StatusPending, Total: 120_000},
	}}
	svc := newTestService(newFakeRepo(), &fakeGateway{}, invoices)

	res, err := svc.CreatePayURL(context.Background(), PayURLRequest{InvoiceID: 7})
	require.NoError(t, err)
	assert.Equal(t, "INV7_1", res.TxnRef)
}

func TestCreatePayURLRejectsNonPending(t *testing.T) {
	invoices := &fakeInvoices{pending: map[int64]*invoice.Invoice{
		7: {ID: 7, Status: invoice.StatusCompleted, Total: 120_000},
	}}
	svc := newTestService(newFakeRepo(), &fakeGateway{}, invoices)

	_, err := svc.CreatePayURL(context.Background(), PayURLRequest{InvoiceID: 7})
	assert.Error(t, err)

	_, err = svc.CreatePayURL(context.Background(), PayURLRequest{InvoiceID: 99})
	assert.Error(t, err)
}

func TestHandleReturnSuccessCompletesInvoice(t *testing.T) {
	repo := newFakeRepo()
	invoices := &fakeInvoices{}
	svc := newTestService(repo, &fakeGateway{verify: true}, invoices)

	out, err := svc.HandleReturn(context.Background(), returnQuery(nil))
	require.NoError(t, err)

	assert.True(t, out.Result.Success)
	assert.Equal(t, []int64{49}, invoices.completed)
	// Completion warnings pass through to the caller.
	assert.Contains(t, out.Warnings, "stock not adjusted for Trà đào")

	require.Len(t, repo.created, 1)
	assert.Equal(t, TxCompleted, repo.created[0].Status)
	assert.Equal(t, int64(49), repo.created[0].InvoiceID)
	assert.Equal(t, int64(58_000), repo.created[0].Amount)
}

func TestHandleReturnCompletionFailureIsWarning(t *testing.T) {
	repo := newFakeRepo()
	invoices := &fakeInvoices{completeErr: fmt.Errorf("db down")}
	svc := newTestService(repo, &fakeGateway{verify: true}, invoices)

	out, err := svc.HandleReturn(context.Background(), returnQuery(nil))
	require.NoError(t, err)

	// The customer was charged; the result stays successful.
	assert.True(t, out.Result.Success)
	require.NotEmpty(t, out.Warnings)
	assert.Contains(t, out.Warnings[0], "49")
}

func TestHandleReturnBadSignature(t *testing.T) {
	repo := newFakeRepo()
	invoices := &fakeInvoices{}
	svc := newTestService(repo, &fakeGateway{verify: false}, invoices)

	out, err := svc.HandleReturn(context.Background(), returnQuery(nil))
	require.NoError(t, err)

	assert.False(t, out.Result.Success)
	assert.Empty(t, invoices.completed)
	require.Len(t, repo.created, 1)
	assert.Equal(t, TxFailed, repo.created[0].Status)
}

func TestHandleReturnFailedPaymentIsRecorded(t *testing.T) {
	repo := newFakeRepo()
	invoices := &fakeInvoices{}
	svc := newTestService(repo, &fakeGateway{verify: true}, invoices)

	out, err := svc.HandleReturn(context.Background(), returnQuery(map[string]string{"vnp_ResponseCode": "24"}))
	require.NoError(t, err)

	assert.False(t, out.Result.Success)
	assert.Equal(t, "Khách hàng hủy giao dịch", out.Result.Message)
	assert.Empty(t, invoices.completed)
	require.Len(t, repo.created, 1)
	assert.Equal(t, TxFailed, repo.created[0].Status)
}

func TestRefundTransaction(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeGateway{verify: true}, &fakeInvoices{})

	_, err := svc.HandleReturn(context.Background(), returnQuery(nil))
	require.NoError(t, err)

	tx, err := svc.RefundTransaction(context.Background(), "INV49_1765531668630", "khách trả hàng")
	require.NoError(t, err)
	assert.Equal(t, TxRefunded, tx.Status)
	assert.Equal(t, TxRefunded, repo.updated[tx.ID.String()])

	// Refunding twice fails: the stored status is no longer COMPLETED.
	_, err = svc.RefundTransaction(context.Background(), "INV49_1765531668630", "")
	assert.Error(t, err)
}
