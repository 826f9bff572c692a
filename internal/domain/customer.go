package domain

type Customer struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Password    string  `json:"-"`
	PhoneNumber string  `json:"phone_number"`
	EmailID     string  `json:"email_id"`
	Address     *string `json:"address,omitempty"`
}

// NewCustomer carries registration input. Password is the plaintext
// credential and is hashed before it ever reaches a repository.
type NewCustomer struct {
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	PhoneNumber string  `json:"phone_number"`
	EmailID     string  `json:"email_id"`
	Address     *string `json:"address,omitempty"`
}
