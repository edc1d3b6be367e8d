package ports

import (
	"context"

	"github.com/rightartist/marketplace/internal/core/domain"
)

// RegisterInput carries the signup form. Role is fixed at signup.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
	Role      string
}

// AuthService implements signup and login. Login returns a signed bearer
// token alongside the account.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
