package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/devconnect/backend/internal/models"
)

var (
	ErrInvalidStatus = errors.New("invalid status for this operation")
	ErrSelfRequest   = errors.New("cannot send connection request to yourself")
)

// ConnectionService enforces the connection-request lifecycle: requests are
// created as interested or ignored by the sender, and an interested request
// is resolved exactly once, by its recipient, into accepted or rejected.
type ConnectionService struct {
	users       UserService
	connections ConnectionStore
}

func NewConnectionService(users UserService, connections ConnectionStore) *ConnectionService {
	return &ConnectionService{
		users:       users,
		connections: connections,
	}
}

func (s *ConnectionService) Send(ctx context.Context, fromUserID, toUserID string, status models.ConnectionStatus, message string) (*models.ConnectionRequest, error) {
	if !status.ValidForSend() {
		return nil, ErrInvalidStatus
	}
	if fromUserID == toUserID {
		return nil, ErrSelfRequest
	}

	if _, err := s.users.GetByID(ctx, toUserID); err != nil {
		return nil, err
	}

	// Either direction blocks: a pending, ignored or resolved request between
	// the two users rules out a new one.
	exists, err := s.connections.PairExists(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConnectionExists
	}

	now := time.Now().UTC()
	req := &models.ConnectionRequest{
		ID:         uuid.New().String(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     status,
		Message:    message,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// The store's uniqueness constraint catches the race where two requests
	// for the same pair pass PairExists concurrently.
	if err := s.connections.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *ConnectionService) Review(ctx context.Context, reviewerID, requestID string, status models.ConnectionStatus) (*models.ConnectionRequest, error) {
	if !status.ValidForReview() {
		return nil, ErrInvalidStatus
	}
	// A request that was already reviewed, is not addressed to this reviewer,
	// or never existed all surface as not found.
	return s.connections.ReviewInterested(ctx, requestID, reviewerID, status)
}

func (s *ConnectionService) ListReceived(ctx context.Context, userID string, params models.PageParams) (models.Page, error) {
	reqs, err := s.connections.FindReceived(ctx, userID, params.Skip(), params.Size)
	if err != nil {
		return models.Page{}, err
	}
	total, err := s.connections.CountReceived(ctx, userID)
	if err != nil {
		return models.Page{}, err
	}

	received := make([]models.ReceivedRequest, 0, len(reqs))
	for _, req := range reqs {
		sender, err := s.users.GetByID(ctx, req.FromUserID)
		if err != nil {
			return models.Page{}, err
		}
		received = append(received, models.ReceivedRequest{
			ID:        req.ID,
			From:      sender.Public(),
			Status:    req.Status,
			Message:   req.Message,
			CreatedAt: req.CreatedAt,
		})
	}

	return models.NewPage(received, params, total), nil
}

func (s *ConnectionService) ListConnections(ctx context.Context, userID string, params models.PageParams) (models.Page, error) {
	reqs, err := s.connections.FindAccepted(ctx, userID, params.Skip(), params.Size)
	if err != nil {
		return models.Page{}, err
	}
	total, err := s.connections.CountAccepted(ctx, userID)
	if err != nil {
		return models.Page{}, err
	}

	connections := make([]models.Connection, 0, len(reqs))
	for _, req := range reqs {
		otherID := req.FromUserID
		if otherID == userID {
			otherID = req.ToUserID
		}
		other, err := s.users.GetByID(ctx, otherID)
		if err != nil {
			return models.Page{}, err
		}
		connections = append(connections, models.Connection{
			ID:          req.ID,
			User:        other.Public(),
			ConnectedAt: req.UpdatedAt,
		})
	}

	return models.NewPage(connections, params, total), nil
}
