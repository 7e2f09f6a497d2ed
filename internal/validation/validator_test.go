package validation

import (
	"strings"
	"testing"

	"github.com/association-site-api/internal/models"
)

func hasField(errors []models.FieldError, field string) bool {
	for _, err := range errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

func TestValidateArticleInput(t *testing.T) {
	tests := []struct {
		name       string
		input      models.ArticleInput
		creating   bool
		wantErrors int
		wantFields []string
	}{
		{
			name:       "valid create with manual slug",
			input:      models.ArticleInput{Title: "Hello", Slug: "hello-world", Category: models.CategoryMedia},
			creating:   true,
			wantErrors: 0,
		},
		{
			name:       "create without slug is allowed",
			input:      models.ArticleInput{Title: "Hello"},
			creating:   true,
			wantErrors: 0,
		},
		{
			name:       "update without slug",
			input:      models.ArticleInput{Title: "Hello"},
			creating:   false,
			wantErrors: 1,
			wantFields: []string{"slug"},
		},
		{
			name:       "whitespace title",
			input:      models.ArticleInput{Title: "   ", Slug: "ok"},
			creating:   true,
			wantErrors: 1,
			wantFields: []string{"title"},
		},
		{
			name:       "slug not kebab-case",
			input:      models.ArticleInput{Title: "Hello", Slug: "Hello World"},
			creating:   true,
			wantErrors: 1,
			wantFields: []string{"slug"},
		},
		{
			name:       "slug with trailing hyphen",
			input:      models.ArticleInput{Title: "Hello", Slug: "hello-"},
			creating:   false,
			wantErrors: 1,
			wantFields: []string{"slug"},
		},
		{
			name:       "unknown category",
			input:      models.ArticleInput{Title: "Hello", Slug: "hello", Category: "sports"},
			creating:   true,
			wantErrors: 1,
			wantFields: []string{"category"},
		},
		{
			name:       "title too long",
			input:      models.ArticleInput{Title: strings.Repeat("a", MaxTitleLength+1), Slug: "x"},
			creating:   true,
			wantErrors: 1,
			wantFields: []string{"title"},
		},
		{
			name:       "multiple errors",
			input:      models.ArticleInput{Title: "", Slug: "", Category: "nope"},
			creating:   false,
			wantErrors: 3,
			wantFields: []string{"title", "slug", "category"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := ValidateArticleInput(&tt.input, tt.creating)
			if len(errors) != tt.wantErrors {
				t.Errorf("ValidateArticleInput() got %d errors, want %d. Errors: %v", len(errors), tt.wantErrors, errors)
			}
			for _, wantField := range tt.wantFields {
				if !hasField(errors, wantField) {
					t.Errorf("Expected error for field '%s' but not found", wantField)
				}
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"member@example.org", true},
		{"first.last+news@sub.example.no", true},
		{"", false},
		{"no-at-sign", false},
		{"missing@tld", false},
		{"spaces in@example.org", false},
		{strings.Repeat("a", MaxEmailLength) + "@example.org", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			errors := ValidateEmail(tt.email)
			if (len(errors) == 0) != tt.valid {
				t.Errorf("ValidateEmail(%q) valid = %v, want %v", tt.email, len(errors) == 0, tt.valid)
			}
		})
	}
}

func TestValidateCredentials(t *testing.T) {
	if errs := ValidateCredentials("admin", "secret"); len(errs) != 0 {
		t.Errorf("Expected no errors, got %v", errs)
	}
	errs := ValidateCredentials(" ", "")
	if len(errs) != 2 || !hasField(errs, "username") || !hasField(errs, "password") {
		t.Errorf("Expected username and password errors, got %v", errs)
	}
}

func TestValidatePageView(t *testing.T) {
	tests := []struct {
		path       string
		wantErrors int
	}{
		{"/", 0},
		{"/artikkel/hello", 0},
		{"", 1},
		{"relative/path", 1},
		{"/" + strings.Repeat("x", MaxPathLength), 1},
	}

	for _, tt := range tests {
		errors := ValidatePageView(&models.PageView{Path: tt.path})
		if len(errors) != tt.wantErrors {
			t.Errorf("ValidatePageView(%q) got %d errors, want %d", tt.path, len(errors), tt.wantErrors)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"a", "hello", "hello-world", "2024-annual-report"}
	invalid := []string{"", "-a", "a-", "a--b", "Hello", "hei på deg", "a_b"}

	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true, want false", s)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	if !IsValidUUID("550e8400-e29b-41d4-a716-446655440000") {
		t.Error("Expected valid UUID")
	}
	if IsValidUUID("not-a-uuid") {
		t.Error("Expected invalid UUID")
	}
}

// BenchmarkValidateArticleInput benchmarks the full article validation pass
func BenchmarkValidateArticleInput(b *testing.B) {
	input := &models.ArticleInput{
		Title:    "Årsmøte 2024: referat og veien videre",
		Slug:     "arsmote-2024-referat-og-veien-videre",
		Category: models.CategoryAbout,
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ValidateArticleInput(input, false)
	}
}
