package domain

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Kind        *string `json:"kind,omitempty"`
	Price       float64 `json:"price"`
	Description *string `json:"description,omitempty"`
}

type NewProduct struct {
	Name        string  `json:"name"`
	Kind        *string `json:"kind,omitempty"`
	Price       float64 `json:"price"`
	Description *string `json:"description,omitempty"`
}
