package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/association-site-api/internal/models"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	slugRegex  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

const (
	MaxTitleLength = 255
	MaxSlugLength  = 255
	MaxEmailLength = 320
	MaxPathLength  = 2048
)

// ValidateArticleInput checks an article before it is written.
// On create an empty slug is allowed; the caller derives it from the title.
func ValidateArticleInput(in *models.ArticleInput, creating bool) []models.FieldError {
	var errors []models.FieldError

	// Validate title
	title := strings.TrimSpace(in.Title)
	if title == "" {
		errors = append(errors, models.FieldError{Field: "title", Message: "title is required"})
	} else if utf8.RuneCountInString(title) > MaxTitleLength {
		errors = append(errors, models.FieldError{
			Field:   "title",
			Message: fmt.Sprintf("title must be at most %d characters", MaxTitleLength),
		})
	}

	// Validate slug
	switch {
	case in.Slug == "" && !creating:
		errors = append(errors, models.FieldError{Field: "slug", Message: "slug is required"})
	case in.Slug == "":
	case len(in.Slug) > MaxSlugLength:
		errors = append(errors, models.FieldError{
			Field:   "slug",
			Message: fmt.Sprintf("slug must be at most %d characters", MaxSlugLength),
		})
	case !IsValidSlug(in.Slug):
		errors = append(errors, models.FieldError{
			Field:   "slug",
			Message: "slug must be kebab-case (lowercase letters, numbers, hyphens)",
			Value:   in.Slug,
		})
	}

	// Validate category; empty means the default
	if in.Category != "" && !models.ValidCategories[in.Category] {
		errors = append(errors, models.FieldError{
			Field:   "category",
			Message: "invalid category, must be one of: about, projects, media, contact",
			Value:   in.Category,
		})
	}

	return errors
}

// ValidateEmail checks a normalized newsletter address
func ValidateEmail(email string) []models.FieldError {
	var errors []models.FieldError

	if email == "" {
		errors = append(errors, models.FieldError{Field: "email", Message: "email is required"})
	} else if len(email) > MaxEmailLength || !IsValidEmail(email) {
		errors = append(errors, models.FieldError{Field: "email", Message: "invalid email format", Value: email})
	}
	return errors
}

// ValidateCredentials checks that a login request carries both fields
func ValidateCredentials(username, password string) []models.FieldError {
	var errors []models.FieldError

	if strings.TrimSpace(username) == "" {
		errors = append(errors, models.FieldError{Field: "username", Message: "username is required"})
	}
	if password == "" {
		errors = append(errors, models.FieldError{Field: "password", Message: "password is required"})
	}
	return errors
}

// ValidatePageView checks a tracking beacon
func ValidatePageView(pv *models.PageView) []models.FieldError {
	var errors []models.FieldError

	if pv.Path == "" {
		errors = append(errors, models.FieldError{Field: "path", Message: "path is required"})
	} else if !strings.HasPrefix(pv.Path, "/") {
		errors = append(errors, models.FieldError{Field: "path", Message: "path must start with /", Value: pv.Path})
	} else if len(pv.Path) > MaxPathLength {
		errors = append(errors, models.FieldError{
			Field:   "path",
			Message: fmt.Sprintf("path must be at most %d characters", MaxPathLength),
		})
	}
	return errors
}

// IsValidSlug reports whether s is a kebab-case slug
func IsValidSlug(s string) bool {
	return slugRegex.MatchString(s)
}

// IsValidEmail reports whether s looks like an email address
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsValidUUID checks if a string is a valid UUID
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
