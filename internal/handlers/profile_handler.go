package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/devconnect/backend/internal/middleware"
	"github.com/devconnect/backend/internal/models"
	"github.com/devconnect/backend/internal/services"
)

type ProfileHandler struct {
	profileService *services.ProfileService
	imageService   *services.ImageService
	maxUploadMB    int64
	log            *zap.Logger
}

func NewProfileHandler(profileService *services.ProfileService, imageService *services.ImageService, maxUploadMB int64, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		imageService:   imageService,
		maxUploadMB:    maxUploadMB,
		log:            log,
	}
}

// Complete accepts either a JSON body or a multipart form with an optional
// photo file.
func (h *ProfileHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	var req models.CompleteProfileRequest
	var ok bool
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		req, ok = h.parseMultipart(w, r)
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, "Invalid request body"))
			return
		}
		ok = true
	}
	if !ok {
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(http.StatusBadRequest, "Invalid field values", errs))
		return
	}

	user, err := h.profileService.Complete(r.Context(), userID, &req)
	if err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse(http.StatusNotFound, "User not found"))
			return
		}
		h.log.Error("profile completion failed", zap.String("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(http.StatusInternalServerError, "Failed to complete profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(http.StatusOK, user, "Profile completed successfully"))
}

func (h *ProfileHandler) parseMultipart(w http.ResponseWriter, r *http.Request) (models.CompleteProfileRequest, bool) {
	var req models.CompleteProfileRequest

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)
	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, "File too large or invalid form data"))
		return req, false
	}

	req.Gender = r.FormValue("gender")
	req.Location = r.FormValue("location")
	req.Headline = r.FormValue("headline")
	req.PhoneNumber = r.FormValue("phone_number")
	req.ExperienceLevel = r.FormValue("experience_level")
	req.Bio = r.FormValue("bio")
	req.SocialLinks = models.SocialLinks{
		GitHub:    r.FormValue("github"),
		LinkedIn:  r.FormValue("linkedin"),
		Portfolio: r.FormValue("portfolio"),
		Twitter:   r.FormValue("twitter"),
	}
	if age := r.FormValue("age"); age != "" {
		req.Age, _ = strconv.Atoi(age)
	}

	// Skills arrive either as repeated fields or one comma-joined value.
	skills := r.Form["skills"]
	if len(skills) == 1 && strings.Contains(skills[0], ",") {
		skills = strings.Split(skills[0], ",")
	}
	req.Skills = skills

	file, header, err := r.FormFile("photo")
	if err == nil {
		defer file.Close()
		url, err := h.imageService.SavePhoto(header.Filename, file)
		if err != nil {
			if err == services.ErrInvalidImage {
				writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(http.StatusBadRequest, "Invalid photo type. Allowed: JPEG, PNG, GIF, WebP"))
				return req, false
			}
			h.log.Error("photo upload failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(http.StatusInternalServerError, "Failed to upload photo"))
			return req, false
		}
		req.PhotoURL = url
	}

	return req, true
}
