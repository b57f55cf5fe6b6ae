package promotion

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	Repository

	byCode map[string]*Promotion
}

func (f *fakeRepo) Create(ctx context.Context, p *Promotion) error {
	if f.byCode == nil {
		f.byCode = map[string]*Promotion{}
	}
	f.byCode[p.Code] = p
	return nil
}

func (f *fakeRepo) GetByCode(ctx context.Context, code string) (*Promotion, error) {
	p, ok := f.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, fmt.Errorf("no promotion with code %s", code)
	}
	return p, nil
}

func seedPromotion(t *testing.T, svc Service, req CreatePromotionRequest) *Promotion {
	t.Helper()
	p, err := svc.CreatePromotion(context.Background(), req)
	require.NoError(t, err)
	return p
}

func validWindow() (time.Time, time.Time) {
	now := time.Now()
	return now.Add(-time.Hour), now.Add(24 * time.Hour)
}

func TestCreatePromotionNormalizesCode(t *testing.T) {
	svc := NewService(&fakeRepo{})
	starts, ends := validWindow()

	p := seedPromotion(t, svc, CreatePromotionRequest{
		Code: " tet2026 ", Name: "Tết", Type: "percentage", Value: 15,
		StartsAt: starts, EndsAt: ends,
	})
	assert.Equal(t, "TET2026", p.Code)
	assert.Equal(t, TypePercentage, p.Type)
	assert.True(t, p.IsActive)
}

func TestCreatePromotionValidation(t *testing.T) {
	svc := NewService(&fakeRepo{})
	starts, ends := validWindow()

	cases := []CreatePromotionRequest{
		{Name: "x", Type: "PERCENTAGE", Value: 10, StartsAt: starts, EndsAt: ends},                       // no code
		{Code: "A", Type: "PERCENTAGE", Value: 10, StartsAt: starts, EndsAt: ends},                       // no name
		{Code: "A", Name: "x", Type: "CASHBACK", Value: 10, StartsAt: starts, EndsAt: ends},              // bad type
		{Code: "A", Name: "x", Type: "PERCENTAGE", Value: 150, StartsAt: starts, EndsAt: ends},           // >100%
		{Code: "A", Name: "x", Type: "FIXED_AMOUNT", Value: -1, StartsAt: starts, EndsAt: ends},          // negative
		{Code: "A", Name: "x", Type: "PERCENTAGE", Value: 10, StartsAt: ends, EndsAt: starts},            // inverted window
	}
	for i, req := range cases {
		_, err := svc.CreatePromotion(context.Background(), req)
		assert.Error(t, err, "case %d", i)
	}
}

func TestValidateCode(t *testing.T) {
	svc := NewService(&fakeRepo{})
	starts, ends := validWindow()
	seedPromotion(t, svc, CreatePromotionRequest{
		Code: "GIAM20", Name: "Giảm 20%", Type: "PERCENTAGE", Value: 20,
		MaxDiscount: 50_000, MinOrderAmount: 200_000,
		StartsAt: starts, EndsAt: ends,
	})

	res, err := svc.ValidateCode(context.Background(), ValidateCodeRequest{Code: "GIAM20", Subtotal: 1_000_000})
	require.NoError(t, err)
	assert.Equal(t, int64(50_000), res.Discount)

	// Below the minimum order amount.
	_, err = svc.ValidateCode(context.Background(), ValidateCodeRequest{Code: "GIAM20", Subtotal: 100_000})
	assert.Error(t, err)

	// Unknown code.
	_, err = svc.ValidateCode(context.Background(), ValidateCodeRequest{Code: "NOPE", Subtotal: 500_000})
	assert.Error(t, err)

	// Blank code.
	_, err = svc.ValidateCode(context.Background(), ValidateCodeRequest{Subtotal: 500_000})
	assert.Error(t, err)
}

func TestValidateCodeRejectsExpired(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	starts, ends := validWindow()
	p := seedPromotion(t, svc, CreatePromotionRequest{
		Code: "HETHAN", Name: "Hết hạn", Type: "FIXED_AMOUNT", Value: 10_000,
		StartsAt: starts, EndsAt: ends,
	})

	p.EndsAt = time.Now().Add(-time.Minute)
	_, err := svc.ValidateCode(context.Background(), ValidateCodeRequest{Code: "HETHAN", Subtotal: 500_000})
	assert.Error(t, err)

	p.EndsAt = ends
	p.IsActive = false
	_, err = svc.ValidateCode(context.Background(), ValidateCodeRequest{Code: "HETHAN", Subtotal: 500_000})
	assert.Error(t, err)
}
