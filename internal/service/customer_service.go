package service

import (
	"context"
	"errors"
	"log"

	"github.com/NerdyPepper/furby/internal/domain"
	"github.com/NerdyPepper/furby/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type Profile struct {
	Username     string          `json:"username"`
	EmailID      string          `json:"email_id"`
	Address      *string         `json:"address,omitempty"`
	PhoneNumber  string          `json:"phone_number"`
	Transactions []*domain.Order `json:"transactions"`
	RatingsGiven int32           `json:"ratings_given"`
}

type CustomerService struct {
	customers repository.CustomerRepository
	orders    repository.OrderRepository
	ratings   repository.RatingRepository
}

func NewCustomerService(
	customers repository.CustomerRepository,
	orders repository.OrderRepository,
	ratings repository.RatingRepository,
) *CustomerService {
	return &CustomerService{
		customers: customers,
		orders:    orders,
		ratings:   ratings,
	}
}

// Register hashes the password and creates the customer.
func (s *CustomerService) Register(ctx context.Context, input *domain.NewCustomer) (*domain.Customer, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	hashed := *input
	hashed.Password = string(hash)
	customer, err := s.customers.Create(ctx, &hashed)
	if err != nil {
		log.Printf("repo create customer error: %v", err)
		return nil, err
	}
	return customer, nil
}

// Authenticate verifies the credentials and returns the customer.
// A wrong password and an unknown username both come back as
// ErrWrongPassword so login failures are indistinguishable to callers.
func (s *CustomerService) Authenticate(ctx context.Context, username, password string) (*domain.Customer, error) {
	customer, err := s.customers.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrCustomerNotFound) {
		return nil, ErrWrongPassword
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}
	return customer, nil
}

func (s *CustomerService) ChangePassword(ctx context.Context, customerID int64, oldPassword, newPassword string) error {
	if customerID <= 0 {
		return ErrUnauthenticated
	}

	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(oldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.customers.UpdatePassword(ctx, customerID, string(hash))
}

func (s *CustomerService) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.customers.UsernameExists(ctx, username)
}

func (s *CustomerService) GetByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	return s.customers.GetByUsername(ctx, username)
}

// Profile bundles the customer's contact fields with their order
// history and how many ratings they have left.
func (s *CustomerService) Profile(ctx context.Context, customerID int64) (*Profile, error) {
	if customerID <= 0 {
		return nil, ErrUnauthenticated
	}

	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.orders.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	ratingsGiven, err := s.ratings.CountByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		Username:     customer.Username,
		EmailID:      customer.EmailID,
		Address:      customer.Address,
		PhoneNumber:  customer.PhoneNumber,
		Transactions: transactions,
		RatingsGiven: ratingsGiven,
	}, nil
}
