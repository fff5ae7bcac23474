package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/miraedance/atelier/app/models"
	"github.com/miraedance/atelier/app/repositories"
	"github.com/miraedance/atelier/internal/consistency"
	"github.com/miraedance/atelier/internal/store"
	"github.com/miraedance/atelier/pkg/event"
)

// ErrInvalidTransition is returned when a status move is not allowed by the
// progression.
var ErrInvalidTransition = errors.New("services: status transition not allowed")

// ErrUnknownStatus is returned for labels outside the status vocabulary.
var ErrUnknownStatus = errors.New("services: unknown order status")

// OrderInput is the customer-facing order form.
type OrderInput struct {
	ProductID       string `json:"productId" validate:"required"`
	SelectedSize    string `json:"selectedSize"`
	SelectedColor   string `json:"selectedColor"`
	Quantity        int    `json:"quantity"`
	DeliveryAddress string `json:"deliveryAddress" validate:"nullable,max=300"`
	PhoneNumber     string `json:"phoneNumber"     validate:"nullable,max=30"`
	SpecialRequests string `json:"specialRequests" validate:"nullable,max=2000"`
}

type OrderService struct {
	orders    *repositories.OrderRepository
	products  *repositories.ProductRepository
	customers *repositories.CustomerRepository
}

func NewOrderService(
	orders *repositories.OrderRepository,
	products *repositories.ProductRepository,
	customers *repositories.CustomerRepository,
) *OrderService {
	return &OrderService{orders: orders, products: products, customers: customers}
}

// Create places an order for the authenticated customer, snapshotting the
// product's display fields and the customer's name/email at order time.
func (s *OrderService) Create(ctx context.Context, customerID string, in OrderInput) (models.Order, error) {
	product, err := s.products.Find(ctx, in.ProductID)
	if err != nil {
		return models.Order{}, fmt.Errorf("services: load product %s: %w", in.ProductID, err)
	}

	o := models.Order{
		CustomerID:      customerID,
		ProductID:       product.ID,
		ProductName:     product.Name,
		ProductPrice:    product.Price,
		ProductImageURL: product.ImageURL,
		SelectedSize:    in.SelectedSize,
		SelectedColor:   in.SelectedColor,
		Quantity:        in.Quantity,
		Status:          consistency.StatusPending,
		DeliveryAddress: in.DeliveryAddress,
		PhoneNumber:     in.PhoneNumber,
		SpecialRequests: in.SpecialRequests,
	}
	if o.Quantity <= 0 {
		o.Quantity = 1
	}

	// The customer record may not exist yet for brand-new accounts; the
	// order still goes through with just the id link.
	if customer, err := s.customers.Find(ctx, customerID); err == nil {
		o.CustomerName = customer.Name
		o.CustomerEmail = customer.Email
		if o.DeliveryAddress == "" {
			o.DeliveryAddress = customer.Address
		}
		if o.PhoneNumber == "" {
			o.PhoneNumber = customer.Phone
		}
	}

	id, err := s.orders.Create(ctx, o)
	if err != nil {
		return models.Order{}, err
	}

	created, err := s.orders.Find(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	event.FireAsync(event.OrderCreated, created)
	return created, nil
}

// All returns every order for the admin list, statuses normalized.
func (s *OrderService) All(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Status = consistency.CanonicalStatus(orders[i].Status)
	}
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (models.Order, error) {
	o, err := s.orders.Find(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	o.Status = consistency.CanonicalStatus(o.Status)
	return o, nil
}

// Transition moves an order along the status progression. Forward moves and
// cancellation only; terminal states stay terminal.
func (s *OrderService) Transition(ctx context.Context, id, to string) (models.Order, error) {
	if !consistency.ValidStatus(to) {
		return models.Order{}, ErrUnknownStatus
	}

	o, err := s.orders.Find(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	if !consistency.CanTransition(o.Status, to) {
		return models.Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition,
			consistency.CanonicalStatus(o.Status), consistency.CanonicalStatus(to))
	}

	return s.setStatus(ctx, id, consistency.CanonicalStatus(to))
}

// SetStatus is the admin override: any canonical status, no progression
// check.
func (s *OrderService) SetStatus(ctx context.Context, id, to string) (models.Order, error) {
	if !consistency.ValidStatus(to) {
		return models.Order{}, ErrUnknownStatus
	}
	return s.setStatus(ctx, id, consistency.CanonicalStatus(to))
}

func (s *OrderService) setStatus(ctx context.Context, id, to string) (models.Order, error) {
	if err := s.orders.Update(ctx, id, map[string]any{"status": to}); err != nil {
		return models.Order{}, err
	}
	o, err := s.Get(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	event.FireAsync(event.OrderStatusChanged, o)
	return o, nil
}

// Delete removes an order outright; allowed from any status.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.orders.Delete(ctx, id)
}

// ForCustomer returns the customer's orders through the fallback matching
// chain, with display fields resolved against the live catalog.
func (s *OrderService) ForCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	customer, err := s.customers.Find(ctx, customerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Account exists but no customer record yet: only id-linked
			// orders can match, and there are none for a fresh id.
			return nil, nil
		}
		return nil, err
	}

	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.All(ctx)
	if err != nil {
		return nil, err
	}

	return consistency.ResolveOrdersForCustomer(customer, orders, products), nil
}
