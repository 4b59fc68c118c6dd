package domain

import "time"

// Promotion is a time-boxed discount snapshot fetched from the promotions
// store. All monetary values and thresholds are in centavos; PercentDiscount
// is a whole percentage (10 = 10% off).
type Promotion struct {
	ID                       int64     `json:"id"`
	Name                     string    `json:"name"`
	Details                  string    `json:"details,omitempty"`
	PercentDiscount          int64     `json:"percent_discount"`
	PercentDiscountThreshold int64     `json:"percent_discount_threshold"`
	Amount                   int64     `json:"amount"`
	AmountThreshold          int64     `json:"amount_threshold"`
	IsFreeShipping           bool      `json:"is_free_shipping"`
	FreeShippingThreshold    int64     `json:"free_shipping_threshold"`
	ExpirationDate           time.Time `json:"expiration_date"`
}

// EligibleAt reports whether the promotion is still active at the given
// instant. An expired promotion must be treated as absent everywhere.
func (p *Promotion) EligibleAt(now time.Time) bool {
	return p != nil && now.Before(p.ExpirationDate)
}
