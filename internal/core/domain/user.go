package domain

import (
	"errors"
	"time"
)

// Role classifies a marketplace account.
type Role string

const (
	RoleFan      Role = "fan"
	RoleDesigner Role = "designer"
	RoleShop     Role = "shop"
	RoleElite    Role = "elite"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleFan, RoleDesigner, RoleShop, RoleElite, RoleAdmin:
		return true
	}
	return false
}

// IsShopClass reports whether r is a paying shop-side role (shop or elite).
// These roles need an active subscription before they may post.
func (r Role) IsShopClass() bool {
	return r == RoleShop || r == RoleElite
}

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")
var ErrSubscriptionRequired = errors.New("subscription payment required")

// CalendarIntegrations maps a provider name (e.g. "googleCalendar") to its
// per-user opt-in flag. The builtin iCalendar export does not appear here; it
// is always on.
type CalendarIntegrations map[string]bool

// User models a marketplace account. Role is fixed at signup; there is no
// role-change operation.
type User struct {
	ID                   string               `json:"id" bson:"_id,omitempty"`
	FirstName            string               `json:"first_name" bson:"first_name"`
	LastName             string               `json:"last_name" bson:"last_name"`
	Username             string               `json:"username" bson:"username"`
	Email                string               `json:"email" bson:"email"`
	PasswordHash         string               `json:"-" bson:"password_hash"`
	Role                 Role                 `json:"role" bson:"role"`
	IsAdmin              bool                 `json:"is_admin" bson:"is_admin"`
	IsPaid               bool                 `json:"is_paid" bson:"is_paid"`
	DepositAmount        float64              `json:"deposit_amount,omitempty" bson:"deposit_amount,omitempty"`
	CalendarIntegrations CalendarIntegrations `json:"calendar_integrations,omitempty" bson:"calendar_integrations,omitempty"`
	CreatedAt            time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at" bson:"updated_at"`
}

// FullName is used in notification and calendar text.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
