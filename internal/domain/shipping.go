package domain

import "fmt"

// ShippingTier is one of the fixed flat shipping price points selectable at
// checkout. Tier values are the peso price labels the storefront displays.
type ShippingTier string

const (
	TierStorePickup ShippingTier = "0"
	TierMetroManila ShippingTier = "79"
	TierProvincial  ShippingTier = "150"
)

// Amount returns the tier's shipping cost in centavos.
func (t ShippingTier) Amount() int64 {
	switch t {
	case TierStorePickup:
		return 0
	case TierMetroManila:
		return 7900
	case TierProvincial:
		return 15000
	default:
		return 0
	}
}

// Valid reports whether t is one of the known tiers.
func (t ShippingTier) Valid() bool {
	switch t {
	case TierStorePickup, TierMetroManila, TierProvincial:
		return true
	}
	return false
}

// ParseShippingTier parses a tier label into a ShippingTier.
func ParseShippingTier(s string) (ShippingTier, error) {
	t := ShippingTier(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown shipping tier %q", s)
	}
	return t, nil
}
