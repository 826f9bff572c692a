package domain

// CartItem is a cart line resolved against the catalog, the shape the
// cart listing endpoint returns. Lines always carry a positive
// quantity; a quantity that would drop to zero deletes the row instead.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int32   `json:"quantity"`
}
