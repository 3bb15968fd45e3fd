package repository

import (
	"context"

	"github.com/oksasatya/files-manager/internal/domain/entity"
)

// UserRepository is the credential store.
type UserRepository interface {
	// Create fails with apperror.ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Count(ctx context.Context) (int64, error)
}
