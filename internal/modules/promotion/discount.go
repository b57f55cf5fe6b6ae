package promotion

// Discount computes the discount a promotion yields against a subtotal.
// It is pure: no time, state, or repository access.
//
// Rules:
//   - nil promotion yields zero;
//   - a subtotal below MinOrderAmount yields zero;
//   - PERCENTAGE yields subtotal*Value/100, clamped to MaxDiscount when set;
//   - FIXED_AMOUNT yields Value, deliberately not clamped against the
//     subtotal (a fixed discount may exceed the order);
//   - every other type yields zero here and is settled at completion.
//
// Integer division floors the result, which is correct for VND.
func Discount(p *Promotion, subtotal int64) int64 {
	if p == nil {
		return 0
	}
	if p.MinOrderAmount > 0 && subtotal < p.MinOrderAmount {
		return 0
	}

	switch p.Type {
	case TypePercentage:
		d := subtotal * p.Value / 100
		if p.MaxDiscount > 0 && d > p.MaxDiscount {
			d = p.MaxDiscount
		}
		return d
	case TypeFixedAmount:
		return p.Value
	default:
		return 0
	}
}
