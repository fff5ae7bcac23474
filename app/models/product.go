package models

import "time"

// Product is an authoritative catalogue record. Orders capture a snapshot of
// its name/price/image at creation time; the consistency engine keeps those
// snapshots loosely in sync when the product is edited.
type Product struct {
	ID          string    `bson:"_id,omitempty"       json:"id"`
	Name        string    `bson:"name"                json:"name"        validate:"required,max=200"`
	Description string    `bson:"description"         json:"description"`
	Price       float64   `bson:"price"               json:"price"       validate:"gte=0"`
	Category    string    `bson:"category,omitempty"  json:"category,omitempty"`
	ImageURL    string    `bson:"imageUrl,omitempty"  json:"imageUrl,omitempty"`
	Sizes       []string  `bson:"sizes"               json:"sizes"`
	Colors      []string  `bson:"colors"              json:"colors"`
	CreatedAt   time.Time `bson:"createdAt"           json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"           json:"updatedAt"`
}
