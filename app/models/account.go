package models

import "time"

// Account roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Account is an identity-provider credential record. Kept separate from
// Customer: an account authenticates, a customer record describes the person
// being fitted. The two share an id for self-service signups.
type Account struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	Email      string    `bson:"email"         json:"email"`
	SecretHash string    `bson:"secretHash"    json:"-"`
	Role       string    `bson:"role"          json:"role"`
	Disabled   bool      `bson:"disabled,omitempty" json:"disabled,omitempty"`
	CreatedAt  time.Time `bson:"createdAt"     json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"     json:"updatedAt"`
}
