package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/services"
)

type OAuthHandler struct {
	oauthService  *services.OAuthService
	refreshExpiry time.Duration
	log           *zap.Logger
}

func NewOAuthHandler(oauthService *services.OAuthService, refreshExpiry time.Duration, log *zap.Logger) *OAuthHandler {
	return &OAuthHandler{
		oauthService:  oauthService,
		refreshExpiry: refreshExpiry,
		log:           log,
	}
}

type oauthRequest struct {
	Code string `json:"code"`
}

func (h *OAuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "Google", h.oauthService.GoogleSignIn)
}

func (h *OAuthHandler) GitHub(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "GitHub", h.oauthService.GitHubSignIn)
}

func (h *OAuthHandler) handle(w http.ResponseWriter, r *http.Request, provider string, signIn func(ctx context.Context, code string) (*services.AuthResult, bool, error)) {
	var req oauthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, "Authorization code is required"))
		return
	}

	result, isNew, err := signIn(r.Context(), req.Code)
	if err != nil {
		h.log.Warn("oauth sign-in failed", zap.String("provider", provider), zap.Error(err))
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(http.StatusUnauthorized, provider+" authentication failed"))
		return
	}

	message := provider + " login successful"
	if isNew {
		message = provider + " signup successful"
	}

	setRefreshCookie(w, result.RefreshToken, h.refreshExpiry)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(http.StatusOK, authPayload{
		User:        result.User,
		AccessToken: result.AccessToken,
	}, message))
}
