// Package cart implements the shopping cart store: a pure reducer over a
// closed set of actions, wrapped by a Store that persists the line list
// through an injected Storage adapter after every mutation that changes it.
package cart

import "github.com/billy-le/love-edith/internal/domain"

// Action is the closed set of cart store operations. Payload-carrying
// variants are exhaustively matched by the reducer; anything else is a no-op.
type Action interface {
	isAction()
}

// Increment adds one unit of the given line item. If a line with the same
// variant ID exists its quantity grows by one, otherwise the item is appended
// with quantity one.
type Increment struct {
	Item domain.LineItem
}

// Decrement removes one unit of the line item matching the payload's variant
// ID. Quantity clamps at zero; the zero-quantity line stays in the list.
type Decrement struct {
	Item domain.LineItem
}

// Delete removes the line whose variant ID matches.
type Delete struct {
	VariantID int64
}

// SetItems replaces the entire line list wholesale.
type SetItems struct {
	Items []domain.LineItem
}

// SetPromotion replaces the active promotion snapshot. Not persisted.
type SetPromotion struct {
	Promo *domain.Promotion
}

// SetShipping replaces the selected shipping tier. Not persisted.
type SetShipping struct {
	Tier *domain.ShippingTier
}

func (Increment) isAction()    {}
func (Decrement) isAction()    {}
func (Delete) isAction()       {}
func (SetItems) isAction()     {}
func (SetPromotion) isAction() {}
func (SetShipping) isAction()  {}
