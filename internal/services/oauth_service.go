package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/devconnect/backend/internal/models"
)

var (
	ErrOAuthExchange = errors.New("authorization code exchange failed")
	ErrOAuthNoEmail  = errors.New("identity provider did not supply an email")
)

const githubAPIBase = "https://api.github.com"

// googleIDTokenClaims are the fields we read off a verified Google ID token.
type googleIDTokenClaims struct {
	Subject    string
	Email      string
	GivenName  string
	FamilyName string
}

type OAuthService struct {
	users UserService
	auth  *AuthService

	googleCfg *oauth2.Config
	githubCfg *oauth2.Config

	// Overridable in tests.
	validateGoogleToken func(ctx context.Context, rawIDToken, audience string) (*googleIDTokenClaims, error)
	githubAPI           string
}

func NewOAuthService(users UserService, auth *AuthService, googleClientID, googleClientSecret, githubClientID, githubClientSecret string) *OAuthService {
	return &OAuthService{
		users: users,
		auth:  auth,
		googleCfg: &oauth2.Config{
			ClientID:     googleClientID,
			ClientSecret: googleClientSecret,
			// "postmessage" is the redirect the Google JS popup flow expects.
			RedirectURL: "postmessage",
			Endpoint:    google.Endpoint,
		},
		githubCfg: &oauth2.Config{
			ClientID:     githubClientID,
			ClientSecret: githubClientSecret,
			Endpoint:     githuboauth.Endpoint,
		},
		validateGoogleToken: validateGoogleIDToken,
		githubAPI:           githubAPIBase,
	}
}

func validateGoogleIDToken(ctx context.Context, rawIDToken, audience string) (*googleIDTokenClaims, error) {
	payload, err := idtoken.Validate(ctx, rawIDToken, audience)
	if err != nil {
		return nil, err
	}
	claims := &googleIDTokenClaims{Subject: payload.Subject}
	claims.Email, _ = payload.Claims["email"].(string)
	claims.GivenName, _ = payload.Claims["given_name"].(string)
	claims.FamilyName, _ = payload.Claims["family_name"].(string)
	return claims, nil
}

func (s *OAuthService) GoogleSignIn(ctx context.Context, code string) (*AuthResult, bool, error) {
	token, err := s.googleCfg.Exchange(ctx, code)
	if err != nil {
		return nil, false, ErrOAuthExchange
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, false, ErrOAuthExchange
	}

	claims, err := s.validateGoogleToken(ctx, rawIDToken, s.googleCfg.ClientID)
	if err != nil {
		return nil, false, fmt.Errorf("verifying google id token: %w", err)
	}
	if claims.Email == "" {
		return nil, false, ErrOAuthNoEmail
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(claims.Email))
	isNew := false
	if err == ErrUserNotFound {
		isNew = true
		user, err = s.createOAuthUser(ctx, oauthProfile{
			email:     strings.ToLower(claims.Email),
			firstName: claims.GivenName,
			lastName:  claims.FamilyName,
			username:  claims.GivenName + claims.FamilyName,
			provider:  models.ProviderGoogle,
			googleID:  claims.Subject,
		})
	}
	if err != nil {
		return nil, false, err
	}

	result, err := s.auth.IssueTokensFor(ctx, user)
	return result, isNew, err
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email   string `json:"email"`
	Primary bool   `json:"primary"`
}

func (s *OAuthService) GitHubSignIn(ctx context.Context, code string) (*AuthResult, bool, error) {
	token, err := s.githubCfg.Exchange(ctx, code)
	if err != nil {
		return nil, false, ErrOAuthExchange
	}

	client := s.githubCfg.Client(ctx, token)
	client.Timeout = 10 * time.Second

	var ghUser githubUser
	if err := s.getJSON(ctx, client, s.githubAPI+"/user", &ghUser); err != nil {
		return nil, false, err
	}

	// Email is often hidden on the profile; the emails endpoint lists it.
	var emails []githubEmail
	if err := s.getJSON(ctx, client, s.githubAPI+"/user/emails", &emails); err != nil {
		return nil, false, err
	}

	primaryEmail := ""
	for _, e := range emails {
		if e.Primary {
			primaryEmail = e.Email
			break
		}
	}
	if primaryEmail == "" && len(emails) > 0 {
		primaryEmail = emails[0].Email
	}
	if primaryEmail == "" {
		return nil, false, ErrOAuthNoEmail
	}

	user, err := s.users.GetByEmail(ctx, strings.ToLower(primaryEmail))
	isNew := false
	if err == ErrUserNotFound {
		isNew = true
		first, last := splitName(ghUser.Name)
		user, err = s.createOAuthUser(ctx, oauthProfile{
			email:     strings.ToLower(primaryEmail),
			firstName: first,
			lastName:  last,
			username:  ghUser.Login,
			provider:  models.ProviderGitHub,
			githubID:  fmt.Sprintf("%d", ghUser.ID),
			photoURL:  ghUser.AvatarURL,
		})
	}
	if err != nil {
		return nil, false, err
	}

	result, err := s.auth.IssueTokensFor(ctx, user)
	return result, isNew, err
}

func (s *OAuthService) getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type oauthProfile struct {
	email     string
	firstName string
	lastName  string
	username  string
	provider  string
	googleID  string
	githubID  string
	photoURL  string
}

func (s *OAuthService) createOAuthUser(ctx context.Context, p oauthProfile) (*models.User, error) {
	username, err := s.auth.UniqueUsername(ctx, p.username)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:              uuid.New().String(),
		FirstName:       p.firstName,
		LastName:        p.lastName,
		Username:        username,
		Email:           p.email,
		PhotoURL:        p.photoURL,
		Bio:             models.DefaultBio,
		ExperienceLevel: "student",
		MembershipType:  "basic",
		Provider:        p.provider,
		GoogleID:        p.googleID,
		GitHubID:        p.githubID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
