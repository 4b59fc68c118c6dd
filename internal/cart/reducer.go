package cart

import "github.com/billy-le/love-edith/internal/domain"

// State is the cart aggregate: the ordered line list (insertion order is
// display order) plus the non-persisted promotion and shipping tier.
type State struct {
	Items []domain.LineItem
	Promo *domain.Promotion
	Tier  *domain.ShippingTier
}

// clone returns a copy of the state with its own items slice, so reads
// always see an immutable snapshot.
func (s State) clone() State {
	items := make([]domain.LineItem, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}

// Reduce applies an action to the state and returns the next state plus
// whether the line list changed (the caller persists on true). Reduce never
// mutates its input and never fails: invalid payloads leave the state
// unchanged.
func Reduce(state State, action Action) (State, bool) {
	switch a := action.(type) {
	case Increment:
		if a.Item.VariantID <= 0 {
			return state, false
		}
		next := state.clone()
		if i := domain.FindByVariant(next.Items, a.Item.VariantID); i != -1 {
			next.Items[i].Qty++
		} else {
			item := a.Item
			item.Qty = 1
			next.Items = append(next.Items, item)
		}
		return next, true

	case Decrement:
		i := domain.FindByVariant(state.Items, a.Item.VariantID)
		if i == -1 || state.Items[i].Qty == 0 {
			return state, false
		}
		next := state.clone()
		next.Items[i].Qty--
		return next, true

	case Delete:
		if domain.FindByVariant(state.Items, a.VariantID) == -1 {
			return state, false
		}
		next := state
		next.Items = make([]domain.LineItem, 0, len(state.Items)-1)
		for _, item := range state.Items {
			if item.VariantID != a.VariantID {
				next.Items = append(next.Items, item)
			}
		}
		return next, true

	case SetItems:
		next := state
		next.Items = make([]domain.LineItem, len(a.Items))
		copy(next.Items, a.Items)
		return next, true

	case SetPromotion:
		next := state
		next.Promo = a.Promo
		return next, false

	case SetShipping:
		next := state
		next.Tier = a.Tier
		return next, false
	}

	return state, false
}
