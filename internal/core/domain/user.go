package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin      = "admin"
	RoleDispatcher = "dispatcher"
	RoleTechnician = "technician"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// Well-known permission keys. The gate treats the set as open-ended; these
// constants exist so route wiring and seeds agree on spelling.
const (
	PermViewJobs       = "viewJobs"
	PermEditJobs       = "editJobs"
	PermViewCustomers  = "viewCustomers"
	PermEditCustomers  = "editCustomers"
	PermViewInvoices   = "viewInvoices"
	PermEditInvoices   = "editInvoices"
	PermViewCalendar   = "viewCalendar"
	PermManageSettings = "manageSettings"
	PermManageUsers    = "manageUsers"
)

// PermissionSet maps permission keys to boolean grants for one user.
// An absent key reads as false.
type PermissionSet map[string]bool

// Has reports whether the key is explicitly granted. Absence and explicit
// false are indistinguishable, which is exactly the contract the gate wants.
func (p PermissionSet) Has(key string) bool {
	return p[key]
}

// User models an authenticated actor in the system.
type User struct {
	ID           string        `json:"id" bson:"_id,omitempty"`
	Email        string        `json:"email" bson:"email"`
	Name         string        `json:"name,omitempty" bson:"name,omitempty"`
	PasswordHash string        `json:"-" bson:"password_hash"`
	Role         string        `json:"role" bson:"role"`
	Timezone     string        `json:"timezone,omitempty" bson:"timezone,omitempty"`
	Permissions  PermissionSet `json:"permissions" bson:"permissions"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" bson:"updated_at"`
}
