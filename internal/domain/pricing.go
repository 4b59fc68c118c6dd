package domain

import "time"

// Currency is the storefront's modeled currency. All amounts are centavos.
const Currency = "PHP"

// Quote is the totals breakdown derived from a cart snapshot, an optional
// active promotion, and an optional selected shipping tier.
type Quote struct {
	Subtotal        int64         `json:"subtotal"`
	AmountDiscount  int64         `json:"amount_discount"`
	PercentDiscount int64         `json:"percent_discount"`
	AdjustedTotal   int64         `json:"adjusted_total"`
	FreeShipping    bool          `json:"free_shipping"`
	TierSelected    bool          `json:"tier_selected"`
	ShippingTier    *ShippingTier `json:"shipping_tier,omitempty"`
	ShippingAmount  int64         `json:"shipping_amount"`
	Total           int64         `json:"total"`
	Currency        string        `json:"currency"`
}

// AmountDiscount returns the flat discount in centavos: the promotion's
// amount when the subtotal meets its threshold, zero otherwise.
func AmountDiscount(promo *Promotion, subtotal int64) int64 {
	if promo == nil || promo.Amount <= 0 {
		return 0
	}
	if subtotal < promo.AmountThreshold {
		return 0
	}
	return promo.Amount
}

// PercentDiscount returns the percentage discount in centavos. Eligibility is
// checked against the raw subtotal, but the discount is computed on the base
// net of any flat discount (chained, not stacked). Rounds half-up at the
// centavo.
func PercentDiscount(promo *Promotion, subtotal, base int64) int64 {
	if promo == nil || promo.PercentDiscount <= 0 {
		return 0
	}
	if subtotal < promo.PercentDiscountThreshold {
		return 0
	}
	if base < 0 {
		base = 0
	}
	return (base*promo.PercentDiscount + 50) / 100
}

// AdjustedTotal subtracts both discounts from the subtotal, floored at zero.
func AdjustedTotal(subtotal, amountDiscount, percentDiscount int64) int64 {
	adjusted := subtotal - amountDiscount - percentDiscount
	if adjusted < 0 {
		return 0
	}
	return adjusted
}

// FreeShipping reports whether shipping is forced free: either some line item
// ships free, or an eligible promotion waives shipping and the post-discount
// total meets its threshold. Forced-free overrides any selected tier.
func FreeShipping(items []LineItem, promo *Promotion, adjustedTotal int64) bool {
	if HasFreeShippingItem(items) {
		return true
	}
	if promo != nil && promo.IsFreeShipping && adjustedTotal >= promo.FreeShippingThreshold {
		return true
	}
	return false
}

// ComputeQuote derives the full totals breakdown. A promotion that has
// expired by now is treated as absent. A nil tier means the shopper has not
// picked one yet; shipping then contributes zero to the total.
func ComputeQuote(items []LineItem, promo *Promotion, tier *ShippingTier, now time.Time) Quote {
	if !promo.EligibleAt(now) {
		promo = nil
	}

	subtotal := Subtotal(items)
	amountDisc := AmountDiscount(promo, subtotal)
	percentDisc := PercentDiscount(promo, subtotal, subtotal-amountDisc)
	adjusted := AdjustedTotal(subtotal, amountDisc, percentDisc)

	q := Quote{
		Subtotal:        subtotal,
		AmountDiscount:  amountDisc,
		PercentDiscount: percentDisc,
		AdjustedTotal:   adjusted,
		Currency:        Currency,
	}

	if FreeShipping(items, promo, adjusted) {
		q.FreeShipping = true
	} else if tier != nil && tier.Valid() {
		q.TierSelected = true
		q.ShippingTier = tier
		q.ShippingAmount = tier.Amount()
	}

	q.Total = adjusted + q.ShippingAmount
	return q
}
