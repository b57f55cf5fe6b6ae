package inventory

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	materials map[uuid.UUID]*Material
	moves     []*StockMove
	moveErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{materials: map[uuid.UUID]*Material{}}
}

func (f *fakeRepo) Create(ctx context.Context, m *Material) error {
	f.materials[m.ID] = m
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Material, error) {
	m, ok := f.materials[id]
	if !ok {
		return nil, fmt.Errorf("material %s not found", id)
	}
	return m, nil
}

func (f *fakeRepo) List(ctx context.Context, branch string, activeOnly bool) ([]*Material, error) {
	var out []*Material
	for _, m := range f.materials {
		if activeOnly && !m.IsActive {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, m *Material) error {
	f.materials[m.ID] = m
	return nil
}

func (f *fakeRepo) AdjustQuantity(ctx context.Context, id uuid.UUID, delta float64) (float64, error) {
	m, ok := f.materials[id]
	if !ok {
		return 0, fmt.Errorf("material %s not found", id)
	}
	m.Quantity += delta
	if m.Quantity < 0 {
		m.Quantity = 0
	}
	return m.Quantity, nil
}

func (f *fakeRepo) RecordMove(ctx context.Context, move *StockMove) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	f.moves = append(f.moves, move)
	return nil
}

func (f *fakeRepo) ListMoves(ctx context.Context, materialID uuid.UUID, limit int) ([]*StockMove, error) {
	return f.moves, nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, "main", zap.NewNop())
}

func TestAdjustStockFloorsAtZero(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	m, err := svc.CreateMaterial(context.Background(), CreateMaterialRequest{
		Name: "Sữa đặc", Unit: "hộp", Quantity: 5,
	})
	require.NoError(t, err)

	out, err := svc.AdjustStock(context.Background(), m.ID, AdjustStockRequest{Delta: -8, Reason: "hỏng"}, "emp1")
	require.NoError(t, err)
	assert.Equal(t, float64(0), out.Quantity)

	require.Len(t, repo.moves, 1)
	assert.Equal(t, float64(-8), repo.moves[0].Delta)
	assert.Equal(t, "emp1", repo.moves[0].EmployeeID)
}

func TestAdjustStockZeroDeltaRejected(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	m, err := svc.CreateMaterial(context.Background(), CreateMaterialRequest{Name: "Đường", Unit: "kg"})
	require.NoError(t, err)

	_, err = svc.AdjustStock(context.Background(), m.ID, AdjustStockRequest{Delta: 0}, "")
	assert.Error(t, err)
}

func TestAdjustStockSurvivesMoveRecordingFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.moveErr = fmt.Errorf("db down")
	svc := newTestService(repo)
	m, err := svc.CreateMaterial(context.Background(), CreateMaterialRequest{Name: "Cà phê hạt", Unit: "kg", Quantity: 10})
	require.NoError(t, err)

	out, err := svc.AdjustStock(context.Background(), m.ID, AdjustStockRequest{Delta: 2}, "")
	require.NoError(t, err)
	assert.Equal(t, float64(12), out.Quantity)
}

func TestListLowStock(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	low, err := svc.CreateMaterial(context.Background(), CreateMaterialRequest{
		Name: "Trân châu", Unit: "kg", Quantity: 1, MinQuantity: 2,
	})
	require.NoError(t, err)
	_, err = svc.CreateMaterial(context.Background(), CreateMaterialRequest{
		Name: "Đường", Unit: "kg", Quantity: 20, MinQuantity: 2,
	})
	require.NoError(t, err)
	// No threshold means never low.
	_, err = svc.CreateMaterial(context.Background(), CreateMaterialRequest{
		Name: "Ống hút", Unit: "hộp", Quantity: 0,
	})
	require.NoError(t, err)

	got, err := svc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, low.ID, got[0].ID)
}

func TestCreateMaterialValidation(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.CreateMaterial(context.Background(), CreateMaterialRequest{Unit: "kg"})
	assert.Error(t, err)
	_, err = svc.CreateMaterial(context.Background(), CreateMaterialRequest{Name: "Đường"})
	assert.Error(t, err)

	m, err := svc.CreateMaterial(context.Background(), CreateMaterialRequest{
		Name: "Đường", Unit: "kg", Quantity: -3,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(0), m.Quantity)
	assert.True(t, m.IsActive)
}
