package models

import "time"

// Order references a customer and a product by id, and redundantly captures
// the customer's name/email and the product's name/price/image at creation
// time. The denormalized product fields are a deliberate historical-record
// snapshot; they drift until the next product edit re-synchronizes them.
type Order struct {
	ID string `bson:"_id,omitempty" json:"id"`

	CustomerID    string `bson:"customerId"    json:"customerId"`
	CustomerName  string `bson:"customerName"  json:"customerName"`
	CustomerEmail string `bson:"customerEmail,omitempty" json:"customerEmail,omitempty"`

	ProductID       string  `bson:"productId"                 json:"productId"    validate:"required"`
	ProductName     string  `bson:"productName"               json:"productName"`
	ProductPrice    float64 `bson:"productPrice"              json:"productPrice"`
	ProductImageURL string  `bson:"productImageUrl,omitempty" json:"productImageUrl,omitempty"`

	SelectedSize    string `bson:"selectedSize,omitempty"  json:"selectedSize,omitempty"`
	SelectedColor   string `bson:"selectedColor,omitempty" json:"selectedColor,omitempty"`
	Quantity        int    `bson:"quantity"                json:"quantity" validate:"gte=1"`
	Status          string `bson:"status"                  json:"status"`
	DeliveryAddress string `bson:"deliveryAddress"         json:"deliveryAddress"`
	PhoneNumber     string `bson:"phoneNumber"             json:"phoneNumber"`
	SpecialRequests string `bson:"specialRequests,omitempty" json:"specialRequests,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
