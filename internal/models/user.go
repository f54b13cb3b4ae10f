package models

import (
	"regexp"
	"strings"
	"time"
)

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

const (
	MaxSkills      = 10
	MinAge         = 18
	MaxAge         = 100
	MaxHeadlineLen = 100
	MaxBioLen      = 500

	DefaultBio = "This is a default about of the user!"
)

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[\d\s\-\(\)]+$`)

	genders          = []string{"male", "female", "others"}
	membershipTypes  = []string{"basic", "premium", "gold", "platinum"}
	experienceLevels = []string{"student", "junior", "mid", "senior", "lead", "freelancer"}
)

type SocialLinks struct {
	GitHub    string `json:"github,omitempty" bson:"github,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Portfolio string `json:"portfolio,omitempty" bson:"portfolio,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
}

type User struct {
	ID              string      `json:"id" bson:"_id"`
	FirstName       string      `json:"first_name" bson:"first_name"`
	LastName        string      `json:"last_name,omitempty" bson:"last_name,omitempty"`
	Username        string      `json:"username" bson:"username"`
	Email           string      `json:"email" bson:"email"`
	PasswordHash    string      `json:"-" bson:"password,omitempty"`
	Location        string      `json:"location,omitempty" bson:"location,omitempty"`
	Headline        string      `json:"headline,omitempty" bson:"headline,omitempty"`
	Gender          string      `json:"gender,omitempty" bson:"gender,omitempty"`
	PhoneNumber     string      `json:"phone_number,omitempty" bson:"phone_number,omitempty"`
	Age             int         `json:"age,omitempty" bson:"age,omitempty"`
	PhotoURL        string      `json:"photo_url,omitempty" bson:"photo_url,omitempty"`
	IsPremium       bool        `json:"is_premium" bson:"is_premium"`
	MembershipType  string      `json:"membership_type" bson:"membership_type"`
	Bio             string      `json:"bio" bson:"bio"`
	ExperienceLevel string      `json:"experience_level" bson:"experience_level"`
	SocialLinks     SocialLinks `json:"social_links" bson:"social_links"`
	Skills          []string    `json:"skills" bson:"skills"`

	Provider     string `json:"provider" bson:"provider"`
	GoogleID     string `json:"-" bson:"google_id,omitempty"`
	GitHubID     string `json:"-" bson:"github_id,omitempty"`
	RefreshToken string `json:"-" bson:"refresh_token,omitempty"`

	IsProfileComplete bool `json:"is_profile_complete" bson:"is_profile_complete"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// PublicUser is the subset of User safe to show other members.
type PublicUser struct {
	ID              string   `json:"id" bson:"_id"`
	FirstName       string   `json:"first_name" bson:"first_name"`
	LastName        string   `json:"last_name,omitempty" bson:"last_name,omitempty"`
	Username        string   `json:"username" bson:"username"`
	PhotoURL        string   `json:"photo_url,omitempty" bson:"photo_url,omitempty"`
	Headline        string   `json:"headline,omitempty" bson:"headline,omitempty"`
	Age             int      `json:"age,omitempty" bson:"age,omitempty"`
	Gender          string   `json:"gender,omitempty" bson:"gender,omitempty"`
	Bio             string   `json:"bio" bson:"bio"`
	ExperienceLevel string   `json:"experience_level" bson:"experience_level"`
	Skills          []string `json:"skills" bson:"skills"`
	IsPremium       bool     `json:"is_premium" bson:"is_premium"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Username:        u.Username,
		PhotoURL:        u.PhotoURL,
		Headline:        u.Headline,
		Age:             u.Age,
		Gender:          u.Gender,
		Bio:             u.Bio,
		ExperienceLevel: u.ExperienceLevel,
		Skills:          u.Skills,
		IsPremium:       u.IsPremium,
	}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (r *RegisterRequest) Validate() []FieldError {
	var errs []FieldError

	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if r.FirstName == "" {
		errs = append(errs, FieldError{"first_name", "First name is required"})
	} else if len(r.FirstName) < 2 || len(r.FirstName) > 50 {
		errs = append(errs, FieldError{"first_name", "First name must be between 2 and 50 characters"})
	}
	if len(r.LastName) > 50 {
		errs = append(errs, FieldError{"last_name", "Last name cannot exceed 50 characters"})
	}
	if r.Email == "" {
		errs = append(errs, FieldError{"email", "Email is required"})
	} else if !emailPattern.MatchString(r.Email) {
		errs = append(errs, FieldError{"email", "Invalid email address"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{"password", "Password is required"})
	} else if len(r.Password) < 6 {
		errs = append(errs, FieldError{"password", "Password must be at least 6 characters"})
	}

	return errs
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() []FieldError {
	var errs []FieldError

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	if r.Email == "" {
		errs = append(errs, FieldError{"email", "Email is required"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{"password", "Password is required"})
	}

	return errs
}

type CompleteProfileRequest struct {
	Gender          string      `json:"gender"`
	Age             int         `json:"age"`
	Location        string      `json:"location"`
	Headline        string      `json:"headline"`
	PhoneNumber     string      `json:"phone_number"`
	ExperienceLevel string      `json:"experience_level"`
	Skills          []string    `json:"skills"`
	Bio             string      `json:"bio"`
	SocialLinks     SocialLinks `json:"social_links"`
	PhotoURL        string      `json:"-"`
}

func (r *CompleteProfileRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Age != 0 && (r.Age < MinAge || r.Age > MaxAge) {
		errs = append(errs, FieldError{"age", "Age must be between 18 and 100"})
	}
	if r.Gender != "" && !contains(genders, r.Gender) {
		errs = append(errs, FieldError{"gender", "Invalid gender selection"})
	}
	if r.ExperienceLevel != "" && !contains(experienceLevels, r.ExperienceLevel) {
		errs = append(errs, FieldError{"experience_level", "Invalid experience level"})
	}
	if len(r.Headline) > MaxHeadlineLen {
		errs = append(errs, FieldError{"headline", "Headline cannot exceed 100 characters"})
	}
	if len(r.Bio) > MaxBioLen {
		errs = append(errs, FieldError{"bio", "Bio cannot exceed 500 characters"})
	}
	if r.PhoneNumber != "" && !phonePattern.MatchString(r.PhoneNumber) {
		errs = append(errs, FieldError{"phone_number", "Please enter a valid phone number"})
	}
	if len(r.Location) > 100 {
		errs = append(errs, FieldError{"location", "Location cannot exceed 100 characters"})
	}

	return errs
}

// NormalizeSkills trims entries, drops blanks and caps the list at MaxSkills.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == MaxSkills {
			break
		}
	}
	return out
}

// FeedFilter holds the optional feed query filters.
type FeedFilter struct {
	ExperienceLevel string
	Skills          []string
	Location        string
}

func ValidUsername(username string) bool {
	return len(username) >= 3 && len(username) <= 30 && usernamePattern.MatchString(username)
}

func ValidExperienceLevel(level string) bool {
	return contains(experienceLevels, level)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
