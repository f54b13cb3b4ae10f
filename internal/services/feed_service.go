package services

import (
	"context"

	"github.com/devconnect/backend/internal/models"
)

// FeedService computes the paginated list of candidate users a member may
// still send a connection request to.
type FeedService struct {
	users       UserService
	connections ConnectionStore
}

func NewFeedService(users UserService, connections ConnectionStore) *FeedService {
	return &FeedService{
		users:       users,
		connections: connections,
	}
}

// GetFeed excludes the user themselves and everyone they share a request
// with, in any status and either direction. An ignored or rejected request
// removes the pair from each other's feeds permanently.
func (s *FeedService) GetFeed(ctx context.Context, userID string, filter models.FeedFilter, params models.PageParams) (models.Page, error) {
	related, err := s.connections.RelatedUserIDs(ctx, userID)
	if err != nil {
		return models.Page{}, err
	}

	excluded := []string{userID}
	for _, id := range related {
		if id != userID {
			excluded = append(excluded, id)
		}
	}

	total, err := s.users.CountCandidates(ctx, filter, excluded)
	if err != nil {
		return models.Page{}, err
	}
	users, err := s.users.FindCandidates(ctx, filter, excluded, params.Skip(), params.Size)
	if err != nil {
		return models.Page{}, err
	}

	candidates := make([]models.PublicUser, 0, len(users))
	for i := range users {
		candidates = append(candidates, users[i].Public())
	}

	return models.NewPage(candidates, params, total), nil
}
