package services

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/devconnect/backend/internal/models"
)

// MemoryUserService is an in-memory UserService used in tests and local
// development without a database.
type MemoryUserService struct {
	mu      sync.RWMutex
	users   map[string]*models.User // userID -> user
	byEmail map[string]string       // email -> userID
	byName  map[string]string       // username -> userID
}

func NewMemoryUserService() *MemoryUserService {
	return &MemoryUserService{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
		byName:  make(map[string]string),
	}
}

func (s *MemoryUserService) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return ErrEmailExists
	}
	if _, exists := s.byName[user.Username]; exists {
		return ErrUsernameExists
	}

	clone := *user
	s.users[user.ID] = &clone
	s.byEmail[user.Email] = user.ID
	s.byName[user.Username] = user.ID
	return nil
}

func (s *MemoryUserService) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *MemoryUserService) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byEmail[email]
	if !exists {
		return nil, ErrUserNotFound
	}
	clone := *s.users[id]
	return &clone, nil
}

func (s *MemoryUserService) UsernameExists(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.byName[username]
	return exists, nil
}

func (s *MemoryUserService) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, exists := s.users[user.ID]
	if !exists {
		return ErrUserNotFound
	}
	delete(s.byEmail, old.Email)
	delete(s.byName, old.Username)

	clone := *user
	s.users[user.ID] = &clone
	s.byEmail[user.Email] = user.ID
	s.byName[user.Username] = user.ID
	return nil
}

func (s *MemoryUserService) matchCandidates(filter models.FeedFilter, excludeIDs []string) []models.User {
	excluded := make(map[string]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	var loc *regexp.Regexp
	if filter.Location != "" {
		loc = regexp.MustCompile("(?i)" + regexp.QuoteMeta(filter.Location))
	}

	matched := []models.User{}
	for _, user := range s.users {
		if _, skip := excluded[user.ID]; skip {
			continue
		}
		if !user.IsProfileComplete {
			continue
		}
		if filter.ExperienceLevel != "" && user.ExperienceLevel != filter.ExperienceLevel {
			continue
		}
		if len(filter.Skills) > 0 && !anySkillMatch(user.Skills, filter.Skills) {
			continue
		}
		if loc != nil && !loc.MatchString(user.Location) {
			continue
		}
		matched = append(matched, *user)
	}

	// Maps iterate in random order; sort for a stable store-default ordering.
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched
}

func anySkillMatch(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

func (s *MemoryUserService) FindCandidates(_ context.Context, filter models.FeedFilter, excludeIDs []string, skip, limit int64) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.matchCandidates(filter, excludeIDs)
	return pageSlice(matched, skip, limit), nil
}

func (s *MemoryUserService) CountCandidates(_ context.Context, filter models.FeedFilter, excludeIDs []string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.matchCandidates(filter, excludeIDs))), nil
}

// MemoryConnectionStore is an in-memory ConnectionStore used in tests and
// local development without a database.
type MemoryConnectionStore struct {
	mu       sync.RWMutex
	requests map[string]*models.ConnectionRequest // requestID -> request
	order    []string                             // insertion order, oldest first
}

func NewMemoryConnectionStore() *MemoryConnectionStore {
	return &MemoryConnectionStore{
		requests: make(map[string]*models.ConnectionRequest),
	}
}

func (s *MemoryConnectionStore) Create(_ context.Context, req *models.ConnectionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.requests {
		if existing.FromUserID == req.FromUserID && existing.ToUserID == req.ToUserID {
			return ErrConnectionExists
		}
	}

	clone := *req
	s.requests[req.ID] = &clone
	s.order = append(s.order, req.ID)
	return nil
}

func (s *MemoryConnectionStore) PairExists(_ context.Context, userA, userB string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, req := range s.requests {
		if (req.FromUserID == userA && req.ToUserID == userB) ||
			(req.FromUserID == userB && req.ToUserID == userA) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryConnectionStore) ReviewInterested(_ context.Context, requestID, reviewerID string, status models.ConnectionStatus) (*models.ConnectionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, exists := s.requests[requestID]
	if !exists || req.ToUserID != reviewerID || req.Status != models.StatusInterested {
		return nil, ErrRequestNotFound
	}

	req.Status = status
	req.UpdatedAt = time.Now().UTC()
	clone := *req
	return &clone, nil
}

func (s *MemoryConnectionStore) received(toUserID string) []models.ConnectionRequest {
	// Newest first.
	out := []models.ConnectionRequest{}
	for i := len(s.order) - 1; i >= 0; i-- {
		req := s.requests[s.order[i]]
		if req.ToUserID == toUserID && req.Status == models.StatusInterested {
			out = append(out, *req)
		}
	}
	return out
}

func (s *MemoryConnectionStore) FindReceived(_ context.Context, toUserID string, skip, limit int64) ([]models.ConnectionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return pageSlice(s.received(toUserID), skip, limit), nil
}

func (s *MemoryConnectionStore) CountReceived(_ context.Context, toUserID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.received(toUserID))), nil
}

func (s *MemoryConnectionStore) accepted(userID string) []models.ConnectionRequest {
	out := []models.ConnectionRequest{}
	for i := len(s.order) - 1; i >= 0; i-- {
		req := s.requests[s.order[i]]
		if req.Status != models.StatusAccepted {
			continue
		}
		if req.FromUserID == userID || req.ToUserID == userID {
			out = append(out, *req)
		}
	}
	return out
}

func (s *MemoryConnectionStore) FindAccepted(_ context.Context, userID string, skip, limit int64) ([]models.ConnectionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return pageSlice(s.accepted(userID), skip, limit), nil
}

func (s *MemoryConnectionStore) CountAccepted(_ context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.accepted(userID))), nil
}

func (s *MemoryConnectionStore) RelatedUserIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]struct{}{}
	ids := []string{}
	for _, req := range s.requests {
		if req.FromUserID != userID && req.ToUserID != userID {
			continue
		}
		for _, id := range []string{req.FromUserID, req.ToUserID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func pageSlice[T any](items []T, skip, limit int64) []T {
	if skip >= int64(len(items)) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < int64(len(items)) {
		items = items[:limit]
	}
	return items
}
