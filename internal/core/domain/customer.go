package domain

import (
	"errors"
	"time"
)

var ErrCustomerNotFound = errors.New("customer not found")

// Address represents a service location.
type Address struct {
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	ZipCode string `json:"zip_code" bson:"zip_code"`
}

// Customer is a service recipient with contact details and a default
// service address used to pre-fill new jobs.
type Customer struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Address   Address   `json:"address" bson:"address"`
	Notes     string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
