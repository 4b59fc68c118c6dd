package domain

// ImageFormat is one display-size descriptor for a line item image.
// Not used in pricing.
type ImageFormat struct {
	URL   string `json:"url"`
	Width int    `json:"width"`
}

// LineItem is one purchasable unit in the cart. Descriptive and pricing
// attributes are fixed at add-time; Price is in centavos.
type LineItem struct {
	ProductID       int64         `json:"product_id"`
	VariantID       int64         `json:"variant_id"`
	Name            string        `json:"name"`
	Price           int64         `json:"price"`
	Size            string        `json:"size"`
	Color           string        `json:"color"`
	Qty             int           `json:"qty"`
	Images          []ImageFormat `json:"images,omitempty"`
	HasFreeShipping bool          `json:"has_free_shipping"`
	IsPreorder      bool          `json:"is_preorder"`
}

// Subtotal computes the sum of price * qty over all line items, in centavos.
func Subtotal(items []LineItem) int64 {
	var total int64
	for _, item := range items {
		total += item.Price * int64(item.Qty)
	}
	return total
}

// ItemCount returns the total quantity across all line items.
func ItemCount(items []LineItem) int {
	var count int
	for _, item := range items {
		count += item.Qty
	}
	return count
}

// FindByVariant returns the index of the line item with the given variant ID,
// or -1 if not present. The variant ID uniquely identifies a size+color
// combination, so it is the identity key for increment/decrement matching.
func FindByVariant(items []LineItem, variantID int64) int {
	for i := range items {
		if items[i].VariantID == variantID {
			return i
		}
	}
	return -1
}

// PruneZeroQty returns a copy of items with all zero-quantity lines removed.
// Decrement clamps at zero rather than deleting, so checkout prunes the
// leftovers before submission.
func PruneZeroQty(items []LineItem) []LineItem {
	pruned := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.Qty > 0 {
			pruned = append(pruned, item)
		}
	}
	return pruned
}

// HasFreeShippingItem reports whether any line item carries free shipping.
func HasFreeShippingItem(items []LineItem) bool {
	for _, item := range items {
		if item.HasFreeShipping {
			return true
		}
	}
	return false
}
