package models

// CartItem is a single cart line. ProductID values are unique within a cart;
// merging adds quantity instead of duplicating lines.
type CartItem struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// PricedCartItem is a cart line resolved against the catalog.
type PricedCartItem struct {
	Product  *Product `json:"product"`
	Quantity int      `json:"quantity"`
}
