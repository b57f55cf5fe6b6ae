package pos

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/phamquangminh/brewpos-backend/internal/modules/catalog"
	"github.com/phamquangminh/brewpos-backend/internal/modules/invoice"
	"github.com/phamquangminh/brewpos-backend/internal/modules/promotion"
)

func testProduct(name string, price int64, stock int) *catalog.Product {
	return &catalog.Product{
		ID:     uuid.New(),
		Name:   name,
		Price:  price,
		Stock:  stock,
		Status: catalog.StatusActive,
	}
}

func newTestSession() *Session {
	return NewSession("counter-1", zap.NewNop())
}

func TestAddItemMergesLines(t *testing.T) {
	s := newTestSession()
	coffee := testProduct("Cà phê sữa", 29_000, 10)

	s.AddItem(coffee, 1)
	s.AddItem(coffee, 2)

	view := s.Snapshot()
	assert.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, int64(87_000), view.Subtotal)
}

func TestAddItemOutOfStockIsNoOp(t *testing.T) {
	s := newTestSession()
	s.AddItem(testProduct("Hết hàng", 20_000, 0), 1)
	assert.Empty(t, s.Snapshot().Items)
}

func TestAddItemInactiveIsNoOp(t *testing.T) {
	s := newTestSession()
	p := testProduct("Ngừng bán", 20_000, 5)
	p.Status = catalog.StatusInactive
	s.AddItem(p, 1)
	assert.Empty(t, s.Snapshot().Items)
}

func TestAddItemNeverExceedsStock(t *testing.T) {
	s := newTestSession()
	tea := testProduct("Trà đào", 35_000, 3)

	s.AddItem(tea, 2)
	s.AddItem(tea, 2) // would reach 4, above stock
	assert.Equal(t, 2, s.Snapshot().Items[0].Quantity)

	s.AddItem(tea, 1)
	assert.Equal(t, 3, s.Snapshot().Items[0].Quantity)

	// A single add above stock is also refused.
	s2 := newTestSession()
	s2.AddItem(tea, 4)
	assert.Empty(t, s2.Snapshot().Items)
}

func TestUpdateQuantity(t *testing.T) {
	s := newTestSession()
	tea := testProduct("Trà sen", 40_000, 5)
	s.AddItem(tea, 1)

	s.UpdateQuantity(tea.ID, 4)
	assert.Equal(t, 4, s.Snapshot().Items[0].Quantity)

	// Above the stock snapshot: unchanged.
	s.UpdateQuantity(tea.ID, 6)
	assert.Equal(t, 4, s.Snapshot().Items[0].Quantity)

	// Zero removes the line, same as RemoveItem.
	s.UpdateQuantity(tea.ID, 0)
	assert.Empty(t, s.Snapshot().Items)
}

func TestRemoveItem(t *testing.T) {
	s := newTestSession()
	a := testProduct("A", 10_000, 5)
	b := testProduct("B", 20_000, 5)
	s.AddItem(a, 1)
	s.AddItem(b, 2)

	s.RemoveItem(a.ID)
	view := s.Snapshot()
	assert.Len(t, view.Items, 1)
	assert.Equal(t, b.ID, view.Items[0].Product.ID)

	// Removing a missing product is a no-op.
	s.RemoveItem(uuid.New())
	assert.Len(t, s.Snapshot().Items, 1)
}

func TestTotalIsNotClamped(t *testing.T) {
	s := newTestSession()
	s.AddItem(testProduct("Bánh mì", 25_000, 10), 2)

	s.SetDiscount(80_000)
	assert.Equal(t, int64(-30_000), s.Total())
	assert.Equal(t, int64(50_000), s.Subtotal())
	assert.Equal(t, int64(0), s.Tax())
}

func TestSetPromotionRecomputesDiscount(t *testing.T) {
	s := newTestSession()
	s.AddItem(testProduct("Cơm gà", 55_000, 10), 2) // subtotal 110,000

	s.SetPromotion(&promotion.Promotion{Type: promotion.TypePercentage, Value: 10})
	assert.Equal(t, int64(11_000), s.Snapshot().Discount)

	s.SetPromotion(nil)
	assert.Equal(t, int64(0), s.Snapshot().Discount)
}

func TestClearKeepsTableAndOrderType(t *testing.T) {
	s := newTestSession()
	s.AddItem(testProduct("X", 10_000, 5), 1)
	s.SetCustomer(&CustomerRef{ID: uuid.New(), Name: "Anh Tuấn"})
	s.SetDiscount(5_000)
	s.SetTable(7)
	s.SetOrderType(invoice.OrderTakeAway)
	s.SetCurrentInvoiceID(42)

	s.Clear()

	view := s.Snapshot()
	assert.Empty(t, view.Items)
	assert.Nil(t, view.Customer)
	assert.Zero(t, view.Discount)
	assert.Zero(t, view.CurrentInvoiceID)
	assert.Equal(t, 7, view.Table)
	assert.Equal(t, invoice.OrderTakeAway, view.OrderType)
}

func TestRestoreFromInvoice(t *testing.T) {
	coffee := testProduct("Cà phê đen", 25_000, 10)
	missing := uuid.New()
	customerID := uuid.New()

	inv := &invoice.Invoice{
		ID:          17,
		TableNumber: 5,
		CustomerID:  &customerID,
		Discount:    10_000,
		Details: []*invoice.Detail{
			{ProductID: coffee.ID, Name: coffee.Name, Quantity: 2, UnitPrice: 25_000},
			{ProductID: missing, Name: "Đã xóa", Quantity: 1, UnitPrice: 30_000},
		},
	}

	s := newTestSession()
	s.SetPromotion(&promotion.Promotion{Type: promotion.TypeFixedAmount, Value: 5_000})
	s.RestoreFromInvoice(inv, map[uuid.UUID]*catalog.Product{coffee.ID: coffee})

	view := s.Snapshot()
	// The line whose product vanished from the catalog is dropped.
	assert.Len(t, view.Items, 1)
	assert.Equal(t, coffee.ID, view.Items[0].Product.ID)
	assert.Equal(t, 2, view.Items[0].Quantity)

	// Only the customer id survives a restore.
	assert.NotNil(t, view.Customer)
	assert.Equal(t, customerID, view.Customer.ID)
	assert.Empty(t, view.Customer.Name)

	assert.Nil(t, view.Promotion)
	assert.Equal(t, int64(10_000), view.Discount)
	assert.Equal(t, int64(17), view.CurrentInvoiceID)
	assert.Equal(t, 5, view.Table)
}

func TestRestoreFromLegacyNoteTable(t *testing.T) {
	coffee := testProduct("Cà phê", 25_000, 10)
	inv := &invoice.Invoice{
		ID:   9,
		Note: "Bàn: 12",
		Details: []*invoice.Detail{
			{ProductID: coffee.ID, Quantity: 1, UnitPrice: 25_000},
		},
	}

	s := newTestSession()
	s.RestoreFromInvoice(inv, map[uuid.UUID]*catalog.Product{coffee.ID: coffee})
	assert.Equal(t, 12, s.Snapshot().Table)
}

func TestStoreReusesSessions(t *testing.T) {
	store := NewStore(zap.NewNop())

	a := store.Session("counter-1")
	b := store.Session("counter-1")
	assert.Same(t, a, b)

	other := store.Session("counter-2")
	assert.NotSame(t, a, other)

	store.Drop("counter-1")
	assert.NotSame(t, a, store.Session("counter-1"))
}
