package services

import (
	"context"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/app/repositories"
	"github.com/miraedance/atelier/internal/store"
)

// CustomerInput is the admin customer form and the self-service profile
// edit. Measurements use pointers so blank fields never clobber stored
// values.
type CustomerInput struct {
	Name         string `json:"name"         validate:"required,max=100"`
	Phone        string `json:"phone"        validate:"required,max=30"`
	Email        string `json:"email"        validate:"nullable,email"`
	Organization string `json:"organization" validate:"nullable,max=100"`
	Address      string `json:"address"      validate:"nullable,max=300"`
	CarNumber    string `json:"carNumber"    validate:"nullable,max=30"`
	Size         string `json:"size"         validate:"nullable,max=20"`

	Measurements models.Measurements `json:"measurements"`
}

type CustomerService struct {
	customers *repositories.CustomerRepository
}

func NewCustomerService(customers *repositories.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	return s.customers.All(ctx)
}

func (s *CustomerService) Get(ctx context.Context, id string) (models.Customer, error) {
	return s.customers.Find(ctx, id)
}

// CreateAdmin stores an admin-entered customer under a "c_"-prefixed key.
func (s *CustomerService) CreateAdmin(ctx context.Context, in CustomerInput) (models.Customer, error) {
	id, err := s.customers.CreateAdmin(ctx, models.Customer{
		Name:         in.Name,
		Phone:        in.Phone,
		Email:        in.Email,
		Organization: in.Organization,
		Address:      in.Address,
		CarNumber:    in.CarNumber,
		Size:         in.Size,
		Measurements: in.Measurements,
	})
	if err != nil {
		return models.Customer{}, err
	}
	return s.customers.Find(ctx, id)
}

// Update applies the submitted fields as a partial patch. Measurements the
// form left blank produce no patch keys, so stored values stay put.
func (s *CustomerService) Update(ctx context.Context, id string, in CustomerInput) (models.Customer, error) {
	partial := map[string]any{
		"name":  in.Name,
		"phone": in.Phone,
	}
	if in.Email != "" {
		partial["email"] = in.Email
	}
	if in.Organization != "" {
		partial["organization"] = in.Organization
	}
	if in.Address != "" {
		partial["address"] = in.Address
	}
	if in.CarNumber != "" {
		partial["carNumber"] = in.CarNumber
	}
	if in.Size != "" {
		partial["size"] = in.Size
	}

	measurements, err := store.Fields(in.Measurements)
	if err != nil {
		return models.Customer{}, err
	}
	for k, v := range measurements {
		partial[k] = v
	}

	if err := s.customers.Update(ctx, id, partial); err != nil {
		return models.Customer{}, err
	}
	return s.customers.Find(ctx, id)
}

func (s *CustomerService) Delete(ctx context.Context, id string) error {
	return s.customers.Delete(ctx, id)
}
