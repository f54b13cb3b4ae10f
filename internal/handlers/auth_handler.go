package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/devconnect/backend/internal/middleware"
	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/services"
)

type AuthHandler struct {
	authService   *services.AuthService
	refreshExpiry time.Duration
	log           *zap.Logger
}

func NewAuthHandler(authService *services.AuthService, refreshExpiry time.Duration, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		refreshExpiry: refreshExpiry,
		log:           log,
	}
}

type authPayload struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, "Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(http.StatusBadRequest, "Required fields are missing or invalid", errs))
		return
	}

	result, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		if err == services.ErrEmailExists {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse(http.StatusConflict, "User already exists"))
			return
		}
		h.log.Error("register failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(http.StatusInternalServerError, "Failed to create user"))
		return
	}

	setRefreshCookie(w, result.RefreshToken, h.refreshExpiry)
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(http.StatusCreated, authPayload{
		User:        result.User,
		AccessToken: result.AccessToken,
	}, "User registered and logged in successfully"))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, "Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(http.StatusBadRequest, "Required fields are missing", errs))
		return
	}

	result, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		switch err {
		case services.ErrUserNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse(http.StatusNotFound, "User does not exist"))
		case services.ErrInvalidPassword:
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(http.StatusUnauthorized, "Invalid user credentials"))
		default:
			h.log.Error("login failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(http.StatusInternalServerError, "Login failed"))
		}
		return
	}

	setRefreshCookie(w, result.RefreshToken, h.refreshExpiry)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(http.StatusOK, authPayload{
		User:        result.User,
		AccessToken: result.AccessToken,
	}, "User logged in successfully"))
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(http.StatusUnauthorized, "Refresh token required"))
		return
	}

	result, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		if err == services.ErrInvalidRefreshToken {
			clearRefreshCookie(w)
			writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(http.StatusUnauthorized, "Invalid or expired refresh token"))
			return
		}
		h.log.Error("token refresh failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(http.StatusInternalServerError, "Failed to refresh token"))
		return
	}

	setRefreshCookie(w, result.RefreshToken, h.refreshExpiry)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(http.StatusOK, authPayload{
		User:        result.User,
		AccessToken: result.AccessToken,
	}, "Access token refreshed"))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	if err := h.authService.Logout(r.Context(), userID); err != nil && err != services.ErrUserNotFound {
		h.log.Error("logout failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(http.StatusInternalServerError, "Logout failed"))
		return
	}

	clearRefreshCookie(w)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(http.StatusOK, nil, "User logged out successfully"))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), userID)
	if err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse(http.StatusNotFound, "User not found"))
			return
		}
		h.log.Error("current user lookup failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(http.StatusInternalServerError, "Failed to get user"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(http.StatusOK, user, "Current user fetched"))
}
