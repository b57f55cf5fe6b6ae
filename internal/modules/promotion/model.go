package promotion

import (
	"time"

	"github.com/google/uuid"
)

// Type enumerates the supported promotion kinds. Only PERCENTAGE and
// FIXED_AMOUNT produce a discount at the counter; the remaining kinds are
// valid but are settled authoritatively at invoice completion.
type Type string

const (
	TypePercentage   Type = "PERCENTAGE"
	TypeFixedAmount  Type = "FIXED_AMOUNT"
	TypeBOGO         Type = "BOGO"
	TypeBundle       Type = "BUNDLE"
	TypeFreeShipping Type = "FREE_SHIPPING"
	TypeBuyXGetY     Type = "BUY_X_GET_Y"
)

// Valid reports whether t is a known promotion type.
func (t Type) Valid() bool {
	switch t {
	case TypePercentage, TypeFixedAmount, TypeBOGO, TypeBundle, TypeFreeShipping, TypeBuyXGetY:
		return true
	}
	return false
}

// Promotion is a discount program. Amounts are integer VND; for PERCENTAGE
// promotions Value carries the percent (20 means 20%).
type Promotion struct {
	ID             uuid.UUID `json:"id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Type           Type      `json:"type"`
	Value          int64     `json:"value"`
	MinOrderAmount int64     `json:"min_order_amount,omitempty"`
	MaxDiscount    int64     `json:"max_discount,omitempty"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// InWindow reports whether the promotion is inside its validity window at t.
func (p *Promotion) InWindow(t time.Time) bool {
	return !t.Before(p.StartsAt) && !t.After(p.EndsAt)
}

// Redeemable reports whether the promotion can be applied right now.
func (p *Promotion) Redeemable(now time.Time) bool {
	return p.IsActive && p.InWindow(now)
}

// CreatePromotionRequest holds the data for creating a promotion.
type CreatePromotionRequest struct {
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Value          int64     `json:"value"`
	MinOrderAmount int64     `json:"min_order_amount,omitempty"`
	MaxDiscount    int64     `json:"max_discount,omitempty"`
	StartsAt       time.Time `json:"starts_at"`
	EndsAt         time.Time `json:"ends_at"`
}

// ValidateCodeRequest asks whether a code applies to a given subtotal.
type ValidateCodeRequest struct {
	Code     string `json:"code"`
	Subtotal int64  `json:"subtotal"`
}

// ValidateCodeResponse carries the applicable promotion and its discount.
type ValidateCodeResponse struct {
	Promotion *Promotion `json:"promotion"`
	Discount  int64      `json:"discount"`
}
