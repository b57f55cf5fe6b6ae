package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	Repository

	created []*Product
	byID    map[string]*Product
}

func (f *fakeRepo) Create(ctx context.Context, p *Product) error {
	if f.byID == nil {
		f.byID = map[string]*Product{}
	}
	f.created = append(f.created, p)
	f.byID[p.ID.String()] = p
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("product %s not found", id)
	}
	return p, nil
}

func (f *fakeRepo) Update(ctx context.Context, p *Product) error {
	f.byID[p.ID.String()] = p
	return nil
}

func TestCreateProduct(t *testing.T) {
	svc := NewService(&fakeRepo{})

	p, err := svc.CreateProduct(context.Background(), CreateProductRequest{
		Name: "  Cà phê sữa đá ", Category: " Cà phê ", Price: 29_000, Stock: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, "Cà phê sữa đá", p.Name)
	assert.Equal(t, "Cà phê", p.Category)
	assert.Equal(t, StatusActive, p.Status)
	assert.True(t, p.Sellable())
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.CreateProduct(context.Background(), CreateProductRequest{Price: 10_000})
	assert.Error(t, err)
	_, err = svc.CreateProduct(context.Background(), CreateProductRequest{Name: "X", Price: -1})
	assert.Error(t, err)
	_, err = svc.CreateProduct(context.Background(), CreateProductRequest{Name: "X", Price: 1, Stock: -1})
	assert.Error(t, err)
}

func TestUpdateProductStatus(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	p, err := svc.CreateProduct(context.Background(), CreateProductRequest{Name: "Trà đào", Price: 35_000, Stock: 10})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(context.Background(), p.ID.String(), UpdateProductRequest{
		Name: "Trà đào cam sả", Price: 39_000, Stock: 10, Status: "inactive",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, updated.Status)
	assert.False(t, updated.Sellable())

	_, err = svc.UpdateProduct(context.Background(), p.ID.String(), UpdateProductRequest{
		Name: "Trà đào", Price: 35_000, Stock: 10, Status: "DISCONTINUED",
	})
	assert.Error(t, err)
}

func TestSellable(t *testing.T) {
	assert.True(t, (&Product{Status: StatusActive, Stock: 1}).Sellable())
	assert.False(t, (&Product{Status: StatusActive, Stock: 0}).Sellable())
	assert.False(t, (&Product{Status: StatusInactive, Stock: 5}).Sellable())
}
