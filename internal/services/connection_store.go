package services

import (
	"context"
	"errors"

	"github.com/devconnect/backend/internal/models"
)

var (
	ErrRequestNotFound  = errors.New("connection request not found")
	ErrConnectionExists = errors.New("connection request already exists")
)

// ConnectionStore is the connection-request store contract. Implementations
// must reject a second insert for the same pair of users (either direction)
// with ErrConnectionExists, and ReviewInterested must match-and-update in a
// single conditional operation so concurrent reviewers cannot both succeed.
type ConnectionStore interface {
	Create(ctx context.Context, req *models.ConnectionRequest) error
	PairExists(ctx context.Context, userA, userB string) (bool, error)

	// ReviewInterested sets the status of the request with the given id,
	// provided it is addressed to reviewerID and still interested. Anything
	// else is ErrRequestNotFound.
	ReviewInterested(ctx context.Context, requestID, reviewerID string, status models.ConnectionStatus) (*models.ConnectionRequest, error)

	FindReceived(ctx context.Context, toUserID string, skip, limit int64) ([]models.ConnectionRequest, error)
	CountReceived(ctx context.Context, toUserID string) (int64, error)

	FindAccepted(ctx context.Context, userID string, skip, limit int64) ([]models.ConnectionRequest, error)
	CountAccepted(ctx context.Context, userID string) (int64, error)

	// RelatedUserIDs returns every counterparty of any request involving
	// userID, regardless of status.
	RelatedUserIDs(ctx context.Context, userID string) ([]string, error)
}
