package promotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscount(t *testing.T) {
	tests := []struct {
		name     string
		promo    *Promotion
		subtotal int64
		want     int64
	}{
		{
			name:     "nil promotion",
			promo:    nil,
			subtotal: 100_000,
			want:     0,
		},
		{
			name:     "percentage",
			promo:    &Promotion{Type: TypePercentage, Value: 10},
			subtotal: 250_000,
			want:     25_000,
		},
		{
			name:     "percentage capped by max discount",
			promo:    &Promotion{Type: TypePercentage, Value: 20, MaxDiscount: 50_000},
			subtotal: 1_000_000,
			want:     50_000,
		},
		{
			name:     "percentage under the cap",
			promo:    &Promotion{Type: TypePercentage, Value: 20, MaxDiscount: 50_000},
			subtotal: 100_000,
			want:     20_000,
		},
		{
			name:     "below minimum order amount",
			promo:    &Promotion{Type: TypePercentage, Value: 20, MinOrderAmount: 200_000},
			subtotal: 100_000,
			want:     0,
		},
		{
			name:     "exactly at minimum order amount",
			promo:    &Promotion{Type: TypePercentage, Value: 10, MinOrderAmount: 200_000},
			subtotal: 200_000,
			want:     20_000,
		},
		{
			name:     "fixed amount",
			promo:    &Promotion{Type: TypeFixedAmount, Value: 30_000},
			subtotal: 120_000,
			want:     30_000,
		},
		{
			name:     "fixed amount larger than subtotal is not clamped",
			promo:    &Promotion{Type: TypeFixedAmount, Value: 80_000},
			subtotal: 50_000,
			want:     80_000,
		},
		{
			name:     "bogo computes nothing at the counter",
			promo:    &Promotion{Type: TypeBOGO, Value: 1},
			subtotal: 500_000,
			want:     0,
		},
		{
			name:     "bundle computes nothing at the counter",
			promo:    &Promotion{Type: TypeBundle, Value: 100_000},
			subtotal: 500_000,
			want:     0,
		},
		{
			name:     "free shipping computes nothing at the counter",
			promo:    &Promotion{Type: TypeFreeShipping},
			subtotal: 500_000,
			want:     0,
		},
		{
			name:     "buy x get y computes nothing at the counter",
			promo:    &Promotion{Type: TypeBuyXGetY, Value: 2},
			subtotal: 500_000,
			want:     0,
		},
		{
			name:     "zero subtotal",
			promo:    &Promotion{Type: TypePercentage, Value: 50},
			subtotal: 0,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Discount(tt.promo, tt.subtotal))
		})
	}
}

func TestDiscountIntegerTruncation(t *testing.T) {
	// 15% of 10,001 VND is 1,500.15; integer math truncates.
	p := &Promotion{Type: TypePercentage, Value: 15}
	assert.Equal(t, int64(1_500), Discount(p, 10_001))
}

func TestTypeValid(t *testing.T) {
	for _, typ := range []Type{TypePercentage, TypeFixedAmount, TypeBOGO, TypeBundle, TypeFreeShipping, TypeBuyXGetY} {
		assert.True(t, typ.Valid(), string(typ))
	}
	assert.False(t, Type("LOYALTY").Valid())
	assert.False(t, Type("").Valid())
}
