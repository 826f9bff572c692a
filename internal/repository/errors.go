package repository

import "errors"

var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrProductNotFound   = errors.New("product not found")
	ErrCartLineNotFound  = errors.New("cart line not found")
	ErrInconsistentCart  = errors.New("cart references a product missing from the catalog")
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrRatingNotFound    = errors.New("rating not found")
)
