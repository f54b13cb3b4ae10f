package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/devconnect/backend/internal/middleware"
	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/services"
)

type FeedHandler struct {
	feedService *services.FeedService
	log         *zap.Logger
}

func NewFeedHandler(feedService *services.FeedService, log *zap.Logger) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
		log:         log,
	}
}

func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	q := r.URL.Query()
	filter := models.FeedFilter{
		ExperienceLevel: q.Get("experience_level"),
		Location:        q.Get("location"),
	}
	if filter.ExperienceLevel != "" && !models.ValidExperienceLevel(filter.ExperienceLevel) {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(http.StatusBadRequest, "Invalid field values", []models.FieldError{
			{Field: "experience_level", Message: "Invalid experience level"},
		}))
		return
	}

	// Skills arrive either repeated (?skills=go&skills=rust) or comma-joined.
	skills := q["skills"]
	if len(skills) == 1 && strings.Contains(skills[0], ",") {
		skills = strings.Split(skills[0], ",")
	}
	filter.Skills = models.NormalizeSkills(skills)

	page, err := h.feedService.GetFeed(r.Context(), userID, filter, parsePageParams(r))
	if err != nil {
		h.log.Error("feed query failed", zap.String("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(http.StatusInternalServerError, "Failed to fetch feed"))
		return
	}

	count := 0
	if users, ok := page.Data.([]models.PublicUser); ok {
		count = len(users)
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(http.StatusOK, page,
		fmt.Sprintf("Found %d developers for you to connect with", count)))
}
