package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/devconnect/backend/internal/middleware"
	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/services"
)

type ConnectionHandler struct {
	connectionService *services.ConnectionService
	log               *zap.Logger
}

func NewConnectionHandler(connectionService *services.ConnectionService, log *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
		log:               log,
	}
}

func (h *ConnectionHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req models.SendConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, "Invalid request body"))
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(http.StatusBadRequest, "Required fields are missing or invalid", errs))
		return
	}

	request, err := h.connectionService.Send(r.Context(), userID, req.ToUserID, models.ConnectionStatus(req.Status), req.Message)
	if err != nil {
		switch err {
		case services.ErrInvalidStatus:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, "Invalid status type: "+req.Status))
		case services.ErrSelfRequest:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, "Cannot send connection request to yourself"))
		case services.ErrUserNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse(http.StatusNotFound, "User not found"))
		case services.ErrConnectionExists:
			writeJSON(w, http.StatusConflict, models.NewErrorResponse(http.StatusConflict, "Connection request already exists"))
		default:
			h.log.Error("send request failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(http.StatusInternalServerError, "Failed to send connection request"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(http.StatusCreated, request, "Connection request sent"))
}

func (h *ConnectionHandler) Review(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	requestID := chi.URLParam(r, "requestId")

	var req models.ReviewConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, "Invalid request body"))
		return
	}

	request, err := h.connectionService.Review(r.Context(), userID, requestID, models.ConnectionStatus(req.Status))
	if err != nil {
		switch err {
		case services.ErrInvalidStatus:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, "Invalid status type: "+req.Status))
		case services.ErrRequestNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse(http.StatusNotFound, "Connection request not found"))
		default:
			h.log.Error("review request failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(http.StatusInternalServerError, "Failed to review connection request"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(http.StatusOK, request, "Connection request "+req.Status))
}

func (h *ConnectionHandler) Received(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	page, err := h.connectionService.ListReceived(r.Context(), userID, parsePageParams(r))
	if err != nil {
		h.log.Error("list received failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch received requests"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(http.StatusOK, page, "Received requests fetched"))
}

func (h *ConnectionHandler) Connections(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	page, err := h.connectionService.ListConnections(r.Context(), userID, parsePageParams(r))
	if err != nil {
		h.log.Error("list connections failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch connections"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(http.StatusOK, page, "Connections fetched"))
}
