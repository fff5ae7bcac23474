package models

import "time"

// Consultation statuses.
const (
	ConsultationNew      = "new"
	ConsultationAnswered = "answered"
	ConsultationClosed   = "closed"
)

// Consultation is a free-standing inquiry with no relationship to products
// or orders; plain CRUD, no consistency obligations.
type Consultation struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name"          json:"name"    validate:"required,max=100"`
	Phone     string    `bson:"phone"         json:"phone"   validate:"required,max=30"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty" validate:"nullable,email"`
	Message   string    `bson:"message"       json:"message" validate:"required,max=4000"`
	Status    string    `bson:"status"        json:"status"`
	CreatedAt time.Time `bson:"createdAt"     json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"     json:"updatedAt"`
}
