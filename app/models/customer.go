package models

import "time"

// Customer is a costume customer. Two key spaces coexist: records created by
// self-service signup are keyed by the identity-provider account id, records
// entered manually by an admin are keyed by a store-generated "c_"-prefixed
// id. The signup merge engine reconciles the two after the fact.
type Customer struct {
	ID           string `bson:"_id,omitempty"           json:"id"`
	Name         string `bson:"name"                    json:"name"    validate:"required,max=100"`
	Phone        string `bson:"phone"                   json:"phone"   validate:"required,max=30"`
	Email        string `bson:"email,omitempty"         json:"email,omitempty"`
	Organization string `bson:"organization,omitempty"  json:"organization,omitempty"`
	Address      string `bson:"address,omitempty"       json:"address,omitempty"`
	CarNumber    string `bson:"carNumber,omitempty"     json:"carNumber,omitempty"`
	Size         string `bson:"size,omitempty"          json:"size,omitempty"`

	Measurements Measurements `bson:",inline" json:"measurements"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Measurements are the optional body measurements (centimeters) a costume is
// cut against. Pointers with omitempty so that an unsubmitted field never
// overwrites a stored value with zero — partial updates simply omit it.
type Measurements struct {
	Height        *float64 `bson:"height,omitempty"        json:"height,omitempty"`
	Weight        *float64 `bson:"weight,omitempty"        json:"weight,omitempty"`
	Neck          *float64 `bson:"neck,omitempty"          json:"neck,omitempty"`
	ShoulderWidth *float64 `bson:"shoulderWidth,omitempty" json:"shoulderWidth,omitempty"`
	Chest         *float64 `bson:"chest,omitempty"         json:"chest,omitempty"`
	Waist         *float64 `bson:"waist,omitempty"         json:"waist,omitempty"`
	Hip           *float64 `bson:"hip,omitempty"           json:"hip,omitempty"`
	ArmLength     *float64 `bson:"armLength,omitempty"     json:"armLength,omitempty"`
	SleeveLength  *float64 `bson:"sleeveLength,omitempty"  json:"sleeveLength,omitempty"`
	BackLength    *float64 `bson:"backLength,omitempty"    json:"backLength,omitempty"`
	SkirtLength   *float64 `bson:"skirtLength,omitempty"   json:"skirtLength,omitempty"`
	Inseam        *float64 `bson:"inseam,omitempty"        json:"inseam,omitempty"`
	Thigh         *float64 `bson:"thigh,omitempty"         json:"thigh,omitempty"`
	Ankle         *float64 `bson:"ankle,omitempty"         json:"ankle,omitempty"`
}
