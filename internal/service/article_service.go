package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/repository"
	"github.com/association-site-api/internal/validation"
)

var (
	slugReplacer = strings.NewReplacer("æ", "ae", "ø", "o", "å", "a")
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
)

// DeriveSlug turns a title into a URL slug: lower-cased, Norwegian letters
// transliterated, every other run of characters collapsed to one hyphen.
func DeriveSlug(title string) string {
	s := strings.ToLower(title)
	s = slugReplacer.Replace(s)
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// changeTypeFor classifies an update by its publish transition
func changeTypeFor(wasPublished, published bool) models.ChangeType {
	switch {
	case !wasPublished && published:
		return models.ChangePublished
	case wasPublished && !published:
		return models.ChangeUnpublished
	default:
		return models.ChangeUpdated
	}
}

// articleService is the concrete implementation of ArticleService
type articleService struct {
	articles repository.ArticleRepository
	history  repository.HistoryRepository
	log      zerolog.Logger
	now      func() time.Time
}

// newArticleService creates a new ArticleService
func newArticleService(repos *repository.Repositories, log zerolog.Logger) *articleService {
	return &articleService{
		articles: repos.Article,
		history:  repos.History,
		log:      log.With().Str("service", "article").Logger(),
		now:      time.Now,
	}
}

// Save validates and writes the article, then records the change.
// Save and the history append are not atomic; a failed append is logged only.
func (s *articleService) Save(ctx context.Context, in models.ArticleInput, existing *models.Article, actor models.Identity) (string, error) {
	if actor.ID == "" {
		return "", models.ErrUnauthenticated
	}

	creating := existing == nil
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)

	if errs := validation.ValidateArticleInput(&in, creating); len(errs) > 0 {
		return "", models.NewValidationErrors(errs)
	}
	if creating && in.Slug == "" {
		in.Slug = DeriveSlug(in.Title)
		if in.Slug == "" {
			return "", models.NewValidationError("slug", "slug could not be derived from title, set it manually")
		}
		if len(in.Slug) > validation.MaxSlugLength {
			return "", models.NewValidationError("slug",
				fmt.Sprintf("slug derived from title is longer than %d characters, set it manually", validation.MaxSlugLength))
		}
	}
	if in.Category == "" {
		in.Category = models.DefaultCategory
	}

	now := s.now().UTC()
	article := &models.Article{
		Title:                  in.Title,
		Slug:                   in.Slug,
		Content:                in.Content,
		Excerpt:                in.Excerpt,
		FeaturedImageURL:       in.FeaturedImageURL,
		Category:               in.Category,
		Published:              in.Published,
		LastModifiedBy:         actor.ID,
		LastModifiedByUsername: actor.Username,
		UpdatedAt:              now,
	}

	var change models.ChangeType
	if creating {
		article.AuthorID = actor.ID
		article.CreatedAt = now
		if err := s.articles.Create(ctx, article); err != nil {
			return "", storeError("create article", err)
		}
		change = models.ChangeCreated
	} else {
		article.ID = existing.ID
		article.AuthorID = existing.AuthorID
		article.CreatedAt = existing.CreatedAt
		if err := s.articles.Update(ctx, article); err != nil {
			return "", storeError("update article", err)
		}
		change = changeTypeFor(existing.Published, article.Published)
	}

	s.log.Info().
		Str("article_id", article.ID).
		Str("slug", article.Slug).
		Str("change_type", string(change)).
		Str("actor", actor.Username).
		Msg("Article saved")

	s.recordHistory(ctx, article, change, actor, now)
	return article.ID, nil
}

func (s *articleService) recordHistory(ctx context.Context, a *models.Article, change models.ChangeType, actor models.Identity, at time.Time) {
	entry := &models.ArticleHistoryEntry{
		ArticleID:         a.ID,
		Title:             a.Title,
		Slug:              a.Slug,
		Content:           a.Content,
		Excerpt:           a.Excerpt,
		FeaturedImageURL:  a.FeaturedImageURL,
		Published:         a.Published,
		Category:          a.Category,
		ChangedByUserID:   actor.ID,
		ChangedByUsername: actor.Username,
		ChangeType:        change,
		ChangedAt:         at,
	}
	if err := s.history.Append(ctx, entry); err != nil {
		s.log.Error().Err(err).
			Str("article_id", a.ID).
			Str("change_type", string(change)).
			Msg("Failed to record article history")
	}
}

// Delete removes the article. History is left untouched.
func (s *articleService) Delete(ctx context.Context, id string, actor models.Identity) error {
	if actor.ID == "" {
		return models.ErrUnauthenticated
	}
	if err := s.articles.Delete(ctx, id); err != nil {
		return storeError("delete article", err)
	}
	s.log.Info().Str("article_id", id).Str("actor", actor.Username).Msg("Article deleted")
	return nil
}

// Get returns an article regardless of its publish state
func (s *articleService) Get(ctx context.Context, id string) (*models.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get article", err)
	}
	if article == nil {
		return nil, models.ErrNotFound
	}
	return article, nil
}

// List returns every article newest first, optionally for one category
func (s *articleService) List(ctx context.Context, category models.Category) ([]*models.Article, error) {
	if category != "" && !models.ValidCategories[category] {
		return nil, models.NewValidationError("category", "invalid category")
	}
	articles, err := s.articles.List(ctx, repository.ArticleFilter{Category: category})
	if err != nil {
		return nil, storeError("list articles", err)
	}
	return articles, nil
}

// Stats counts articles for the admin dashboard
func (s *articleService) Stats(ctx context.Context) (*models.ArticleStats, error) {
	articles, err := s.articles.List(ctx, repository.ArticleFilter{})
	if err != nil {
		return nil, storeError("article stats", err)
	}

	stats := &models.ArticleStats{ByCategory: make(map[models.Category]int, len(models.Categories))}
	for _, c := range models.Categories {
		stats.ByCategory[c] = 0
	}
	for _, a := range articles {
		stats.Total++
		if a.Published {
			stats.Published++
		} else {
			stats.Drafts++
		}
		stats.ByCategory[a.Category]++
	}
	return stats, nil
}
