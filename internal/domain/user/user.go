package user

import (
	"context"

	"github.com/google/uuid"
)

// User is the gallery owner account. One owner per deployment is the
// expected shape, but nothing below assumes it.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
}

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
}
