package invoice

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/phamquangminh/brewpos-backend/internal/modules/catalog"
	"github.com/phamquangminh/brewpos-backend/internal/modules/customer"
)

type fakeInvoiceRepo struct {
	nextID   int64
	byID     map[int64]*Invoice
	statuses map[int64]Status
	updErr   map[int64]error
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		byID:     map[int64]*Invoice{},
		statuses: map[int64]Status{},
		updErr:   map[int64]error{},
	}
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, inv *Invoice) error {
	f.nextID++
	inv.ID = f.nextID
	inv.CreatedAt = time.Now()
	f.byID[inv.ID] = inv
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, id int64) (*Invoice, error) {
	inv, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("invoice %d not found", id)
	}
	return inv, nil
}

func (f *fakeInvoiceRepo) List(ctx context.Context, branch, status string) ([]*Invoice, error) {
	var out []*Invoice
	for _, inv := range f.byID {
		if status == "" || string(inv.Status) == status {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) ReplaceDetails(ctx context.Context, inv *Invoice) error {
	f.byID[inv.ID] = inv
	return nil
}

func (f *fakeInvoiceRepo) UpdateStatus(ctx context.Context, id int64, status Status, method PaymentMethod) error {
	if err := f.updErr[id]; err != nil {
		return err
	}
	inv, ok := f.byID[id]
	if !ok {
		return fmt.Errorf("invoice %d not found", id)
	}
	inv.Status = status
	f.statuses[id] = status
	return nil
}

type fakeCatalogRepo struct {
	catalog.Repository

	products map[string]*catalog.Product
	adjusted map[string]int
	adjErr   map[string]error
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		products: map[string]*catalog.Product{},
		adjusted: map[string]int{},
		adjErr:   map[string]error{},
	}
}

func (f *fakeCatalogRepo) add(name string, price int64, stock int) *catalog.Product {
	p := &catalog.Product{ID: uuid.New(), Name: name, Price: price, Stock: stock, Status: catalog.StatusActive}
	f.products[p.ID.String()] = p
	return p
}

func (f *fakeCatalogRepo) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s not found", id)
	}
	return p, nil
}

func (f *fakeCatalogRepo) AdjustStock(ctx context.Context, id string, delta int) error {
	if err := f.adjErr[id]; err != nil {
		return err
	}
	f.adjusted[id] += delta
	return nil
}

type fakeCustomers struct {
	customer.Service

	awarded map[string]int64
	err     error
}

func (f *fakeCustomers) AwardPoints(ctx context.Context, id string, total int64) error {
	if f.err != nil {
		return f.err
	}
	if f.awarded == nil {
		f.awarded = map[string]int64{}
	}
	f.awarded[id] += total
	return nil
}

type fakePublisher struct {
	keys []string
	err  error
}

func (f *fakePublisher) Publish(ctx context.Context, key string, payload interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	return nil
}

func newTestInvoiceService(repo Repository, products catalog.Repository, customers customer.Service, pub Publisher) Service {
	return NewService(repo, products, customers, pub, zap.NewNop())
}

func TestCreateDraftComputesTotals(t *testing.T) {
	repo := newFakeInvoiceRepo()
	products := newFakeCatalogRepo()
	coffee := products.add("Cà phê sữa", 29_000, 10)
	tea := products.add("Trà đào", 35_000, 10)
	svc := newTestInvoiceService(repo, products, &fakeCustomers{}, &fakePublisher{})

	inv, err := svc.CreateDraft(context.Background(), CreateDraftRequest{
		Branch:      "main",
		TableNumber: 3,
		Discount:    10_000,
		Lines: []DraftLine{
			{ProductID: coffee.ID.String(), Quantity: 2},
			{ProductID: tea.ID.String(), Quantity: 1, Note: "ít đá"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, inv.Status)
	assert.Equal(t, OrderDineIn, inv.OrderType)
	assert.Equal(t, int64(93_000), inv.Subtotal)
	assert.Equal(t, int64(10_000), inv.Discount)
	assert.Zero(t, inv.Tax)
	assert.Equal(t, int64(83_000), inv.Total)
	require.Len(t, inv.Details, 2)
	assert.Equal(t, "ít đá", inv.Details[1].Note)
}

func TestCreateDraftValidation(t *testing.T) {
	repo := newFakeInvoiceRepo()
	products := newFakeCatalogRepo()
	inactive := products.add("Ngừng bán", 20_000, 5)
	inactive.Status = catalog.StatusInactive
	svc := newTestInvoiceService(repo, products, &fakeCustomers{}, &fakePublisher{})

	_, err := svc.CreateDraft(context.Background(), CreateDraftRequest{Branch: "main"})
	assert.Error(t, err)

	_, err = svc.CreateDraft(context.Background(), CreateDraftRequest{
		Branch: "main",
		Lines:  []DraftLine{{ProductID: uuid.NewString(), Quantity: 1}},
	})
	assert.Error(t, err)

	_, err = svc.CreateDraft(context.Background(), CreateDraftRequest{
		Branch: "main",
		Lines:  []DraftLine{{ProductID: inactive.ID.String(), Quantity: 1}},
	})
	assert.Error(t, err)

	_, err = svc.CreateDraft(context.Background(), CreateDraftRequest{
		Branch:    "main",
		OrderType: "DELIVERY",
		Lines:     []DraftLine{{ProductID: inactive.ID.String(), Quantity: 1}},
	})
	assert.Error(t, err)
}

func TestCompleteHappyPath(t *testing.T) {
	repo := newFakeInvoiceRepo()
	products := newFakeCatalogRepo()
	coffee := products.add("Cà phê", 25_000, 10)
	customers := &fakeCustomers{}
	pub := &fakePublisher{}
	svc := newTestInvoiceService(repo, products, customers, pub)

	customerID := uuid.New()
	inv, err := svc.CreateDraft(context.Background(), CreateDraftRequest{
		Branch:     "main",
		CustomerID: customerID.String(),
		Lines:      []DraftLine{{ProductID: coffee.ID.String(), Quantity: 3}},
	})
	require.NoError(t, err)

	res, err := svc.Complete(context.Background(), inv.ID, CompleteRequest{PaymentMethod: "cash"})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, res.Invoice.Status)
	assert.Equal(t, MethodCash, res.Invoice.PaymentMethod)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, -3, products.adjusted[coffee.ID.String()])
	assert.Equal(t, inv.Total, customers.awarded[customerID.String()])
	assert.Equal(t, []string{"invoice.completed"}, pub.keys)
}

func TestCompleteSideEffectFailuresAreWarnings(t *testing.T) {
	repo := newFakeInvoiceRepo()
	products := newFakeCatalogRepo()
	coffee := products.add("Cà phê", 25_000, 10)
	products.adjErr[coffee.ID.String()] = fmt.Errorf("db down")
	customers := &fakeCustomers{err: fmt.Errorf("db down")}
	pub := &fakePublisher{err: fmt.Errorf("broker down")}
	svc := newTestInvoiceService(repo, products, customers, pub)

	customerID := uuid.New()
	inv, err := svc.CreateDraft(context.Background(), CreateDraftRequest{
		Branch:     "main",
		CustomerID: customerID.String(),
		Lines:      []DraftLine{{ProductID: coffee.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	res, err := svc.Complete(context.Background(), inv.ID, CompleteRequest{PaymentMethod: "VNPAY"})
	require.NoError(t, err)

	// The invoice still completes; every side effect becomes a warning.
	assert.Equal(t, StatusCompleted, res.Invoice.Status)
	assert.Len(t, res.Warnings, 2)
}

func TestCompleteGuards(t *testing.T) {
	repo := newFakeInvoiceRepo()
	products := newFakeCatalogRepo()
	coffee := products.add("Cà phê", 25_000, 10)
	svc := newTestInvoiceService(repo, products, &fakeCustomers{}, &fakePublisher{})

	inv, err := svc.CreateDraft(context.Background(), CreateDraftRequest{
		Branch: "main",
		Lines:  []DraftLine{{ProductID: coffee.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), inv.ID, CompleteRequest{PaymentMethod: "BITCOIN"})
	assert.Error(t, err)

	_, err = svc.Complete(context.Background(), 999, CompleteRequest{PaymentMethod: "CASH"})
	assert.Error(t, err)

	_, err = svc.Complete(context.Background(), inv.ID, CompleteRequest{PaymentMethod: "CASH"})
	require.NoError(t, err)

	// A second completion is refused.
	_, err = svc.Complete(context.Background(), inv.ID, CompleteRequest{PaymentMethod: "CASH"})
	assert.Error(t, err)
}

func TestCancelTableDraftsIsBestEffort(t *testing.T) {
	repo := newFakeInvoiceRepo()
	products := newFakeCatalogRepo()
	coffee := products.add("Cà phê", 25_000, 10)
	svc := newTestInvoiceService(repo, products, &fakeCustomers{}, &fakePublisher{})

	var ids []int64
	for i := 0; i < 3; i++ {
		inv, err := svc.CreateDraft(context.Background(), CreateDraftRequest{
			Branch:      "main",
			TableNumber: 4,
			Lines:       []DraftLine{{ProductID: coffee.ID.String(), Quantity: 1}},
		})
		require.NoError(t, err)
		ids = append(ids, inv.ID)
	}
	repo.updErr[ids[1]] = fmt.Errorf("deadlock")

	cancelled, err := svc.CancelTableDrafts(context.Background(), "main", 4)
	require.NoError(t, err)

	// One draft failed to cancel and was skipped, not fatal.
	assert.Equal(t, 2, cancelled)
	assert.Equal(t, StatusCancelled, repo.byID[ids[0]].Status)
	assert.Equal(t, StatusPending, repo.byID[ids[1]].Status)
	assert.Equal(t, StatusCancelled, repo.byID[ids[2]].Status)
}

func TestUpdateDraftOnlyPending(t *testing.T) {
	repo := newFakeInvoiceRepo()
	products := newFakeCatalogRepo()
	coffee := products.add("Cà phê", 25_000, 10)
	svc := newTestInvoiceService(repo, products, &fakeCustomers{}, &fakePublisher{})

	inv, err := svc.CreateDraft(context.Background(), CreateDraftRequest{
		Branch: "main",
		Lines:  []DraftLine{{ProductID: coffee.ID.String(), Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateDraft(context.Background(), inv.ID, CreateDraftRequest{
		Branch: "main",
		Lines:  []DraftLine{{ProductID: coffee.ID.String(), Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100_000), updated.Subtotal)

	_, err = svc.Complete(context.Background(), inv.ID, CompleteRequest{PaymentMethod: "CASH"})
	require.NoError(t, err)

	_, err = svc.UpdateDraft(context.Background(), inv.ID, CreateDraftRequest{
		Branch: "main",
		Lines:  []DraftLine{{ProductID: coffee.ID.String(), Quantity: 1}},
	})
	assert.Error(t, err)
}
