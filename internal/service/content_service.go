package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/association-site-api/internal/config"
	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/repository"
)

// TruncateWords shortens text to at most maxWords whitespace-separated words,
// appending "..." when anything was cut.
func TruncateWords(text string, maxWords int) (string, bool) {
	words := strings.Fields(text)
	if maxWords <= 0 || len(words) <= maxWords {
		return text, false
	}
	return strings.Join(words[:maxWords], " ") + "...", true
}

// contentService is the concrete implementation of ContentService
type contentService struct {
	repos        *repository.Repositories
	summaryWords int
	log          zerolog.Logger
}

// newContentService creates a new ContentService
func newContentService(repos *repository.Repositories, cfg config.ContentConfig, log zerolog.Logger) *contentService {
	return &contentService{
		repos:        repos,
		summaryWords: cfg.ProjectSummaryWords,
		log:          log.With().Str("service", "content").Logger(),
	}
}

// PublishedArticles lists published articles newest first
func (s *contentService) PublishedArticles(ctx context.Context, category models.Category, limit int) ([]*models.Article, error) {
	if category != "" && !models.ValidCategories[category] {
		return nil, models.NewValidationError("category", "invalid category")
	}
	articles, err := s.repos.Article.List(ctx, repository.ArticleFilter{
		Category:      category,
		PublishedOnly: true,
		Limit:         limit,
	})
	if err != nil {
		return nil, storeError("list published articles", err)
	}
	return articles, nil
}

// ArticleBySlug returns a published article
func (s *contentService) ArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	article, err := s.repos.Article.GetBySlug(ctx, slug, true)
	if err != nil {
		return nil, storeError("get article by slug", err)
	}
	if article == nil {
		return nil, models.ErrNotFound
	}
	return article, nil
}

// Projects lists published projects with a shortened content summary
func (s *contentService) Projects(ctx context.Context) ([]*models.ProjectSummary, error) {
	projects, err := s.repos.Project.ListPublished(ctx)
	if err != nil {
		return nil, storeError("list projects", err)
	}

	out := make([]*models.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		var content string
		if p.Content != nil {
			content = *p.Content
		}
		summary, truncated := TruncateWords(content, s.summaryWords)
		out = append(out, &models.ProjectSummary{Project: *p, Summary: summary, IsTruncated: truncated})
	}
	return out, nil
}

// ProjectBySlug returns a published project
func (s *contentService) ProjectBySlug(ctx context.Context, slug string) (*models.Project, error) {
	project, err := s.repos.Project.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, storeError("get project", err)
	}
	if project == nil {
		return nil, models.ErrNotFound
	}
	return project, nil
}

// Team lists published team members in display order
func (s *contentService) Team(ctx context.Context) ([]*models.TeamMember, error) {
	members, err := s.repos.Team.ListPublished(ctx)
	if err != nil {
		return nil, storeError("list team", err)
	}
	return members, nil
}
