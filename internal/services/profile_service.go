package services

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/devconnect/backend/internal/models"
)

// ProfileService applies the one-shot profile completion update.
type ProfileService struct {
	users     UserService
	sanitizer *bluemonday.Policy
}

func NewProfileService(users UserService) *ProfileService {
	return &ProfileService{
		users:     users,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Complete writes the profile fields and flips isProfileComplete. Free-text
// fields are stripped of any markup before they are stored.
func (s *ProfileService) Complete(ctx context.Context, userID string, req *models.CompleteProfileRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Gender = req.Gender
	user.Age = req.Age
	user.Location = s.clean(req.Location)
	user.Headline = s.clean(req.Headline)
	user.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.ExperienceLevel != "" {
		user.ExperienceLevel = req.ExperienceLevel
	}
	user.Skills = models.NormalizeSkills(req.Skills)
	if req.Bio != "" {
		user.Bio = s.clean(req.Bio)
	}
	user.SocialLinks = models.SocialLinks{
		GitHub:    strings.TrimSpace(req.SocialLinks.GitHub),
		LinkedIn:  strings.TrimSpace(req.SocialLinks.LinkedIn),
		Portfolio: strings.TrimSpace(req.SocialLinks.Portfolio),
		Twitter:   strings.TrimSpace(req.SocialLinks.Twitter),
	}
	if req.PhotoURL != "" {
		user.PhotoURL = req.PhotoURL
	}
	user.IsProfileComplete = true

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *ProfileService) clean(v string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(v))
}
