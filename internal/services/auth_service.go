package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devconnect/backend/internal/models"
)

var ErrInvalidPassword = errors.New("invalid password")

// AuthResult bundles a user with a freshly issued token pair.
type AuthResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

type AuthService struct {
	users  UserService
	hasher CredentialHasher
	tokens TokenIssuer
}

func NewAuthService(users UserService, hasher CredentialHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*AuthResult, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if err != ErrUserNotFound {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	username, err := s.UniqueUsername(ctx, strings.SplitN(req.Email, "@", 2)[0])
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:              uuid.New().String(),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Username:        username,
		Email:           req.Email,
		PasswordHash:    hash,
		Bio:             models.DefaultBio,
		ExperienceLevel: "student",
		MembershipType:  "basic",
		Provider:        models.ProviderLocal,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if user.PasswordHash == "" || !s.hasher.Compare(user.PasswordHash, req.Password) {
		return nil, ErrInvalidPassword
	}
	return s.issueTokens(ctx, user)
}

// Refresh rotates the token pair. The presented token must both verify and
// match the single stored refresh token, so a stolen stale token is useless
// after the next legitimate refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	userID, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, ErrInvalidRefreshToken
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.RefreshToken = ""
	return s.users.Update(ctx, user)
}

func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// IssueTokensFor is used by the OAuth flows once the external identity is
// resolved to a local user record.
func (s *AuthService) IssueTokensFor(ctx context.Context, user *models.User) (*AuthResult, error) {
	return s.issueTokens(ctx, user)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*AuthResult, error) {
	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	// A single live refresh token per user; reissuing overwrites the old one.
	user.RefreshToken = refresh
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

var usernameCleaner = regexp.MustCompile(`[^a-z0-9._]+`)

// UniqueUsername derives a valid username from base, appending a numeric
// suffix until it is free.
func (s *AuthService) UniqueUsername(ctx context.Context, base string) (string, error) {
	base = usernameCleaner.ReplaceAllString(strings.ToLower(strings.TrimSpace(base)), "")
	if len(base) < 3 {
		base = "user"
	}
	if len(base) > 24 {
		base = base[:24]
	}

	candidate := base
	for count := 1; ; count++ {
		taken, err := s.users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, count)
	}
}
