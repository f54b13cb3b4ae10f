package services

import (
	"context"
	"errors"

	"github.com/devconnect/backend/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailExists    = errors.New("email already registered")
	ErrUsernameExists = errors.New("username already taken")
)

// UserService is the identity store contract. Implementations must enforce
// unique email and username at write time.
type UserService interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *models.User) error

	// FindCandidates returns profile-complete users matching the filter,
	// excluding the given ids, in store-default order.
	FindCandidates(ctx context.Context, filter models.FeedFilter, excludeIDs []string, skip, limit int64) ([]models.User, error)
	CountCandidates(ctx context.Context, filter models.FeedFilter, excludeIDs []string) (int64, error)
}
