package repository

import (
	"context"

	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/store"
)

// historyRepo is the concrete implementation of HistoryRepository.
// It only ever inserts and reads; entries are immutable.
type historyRepo struct {
	s store.Store
}

// NewHistoryRepo creates a new history repository
func NewHistoryRepo(s store.Store) HistoryRepository {
	return &historyRepo{s: s}
}

// Append inserts a history entry and fills in its ID
func (r *historyRepo) Append(ctx context.Context, e *models.ArticleHistoryEntry) error {
	e.ID = newID(e.ID)
	e.ChangedAt = nowIfZero(e.ChangedAt)

	_, err := r.s.Insert(ctx, store.TableArticleHistory, store.Record{
		"id":                  e.ID,
		"article_id":          e.ArticleID,
		"title":               e.Title,
		"slug":                e.Slug,
		"content":             store.Nullable(e.Content),
		"excerpt":             store.Nullable(e.Excerpt),
		"featured_image_url":  store.Nullable(e.FeaturedImageURL),
		"published":           e.Published,
		"category":            string(e.Category),
		"changed_by_user_id":  nullableID(e.ChangedByUserID),
		"changed_by_username": e.ChangedByUsername,
		"change_type":         string(e.ChangeType),
		"changed_at":          e.ChangedAt,
	})
	return err
}

// ListByArticle returns up to limit entries for an article, newest first
func (r *historyRepo) ListByArticle(ctx context.Context, articleID string, limit int) ([]*models.ArticleHistoryEntry, error) {
	entries := make([]*models.ArticleHistoryEntry, 0)
	if !validID(articleID) {
		return entries, nil
	}

	rows, err := r.s.Select(ctx, store.TableArticleHistory, store.Query{
		Eq:      map[string]any{"article_id": articleID},
		OrderBy: []store.Order{store.Desc("changed_at")},
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	for _, rec := range rows {
		entries = append(entries, &models.ArticleHistoryEntry{
			ID:                rec.ID(),
			ArticleID:         rec.String("article_id"),
			Title:             rec.String("title"),
			Slug:              rec.String("slug"),
			Content:           rec.StringPtr("content"),
			Excerpt:           rec.StringPtr("excerpt"),
			FeaturedImageURL:  rec.StringPtr("featured_image_url"),
			Published:         rec.Bool("published"),
			Category:          models.Category(rec.String("category")),
			ChangedByUserID:   rec.String("changed_by_user_id"),
			ChangedByUsername: rec.String("changed_by_username"),
			ChangeType:        models.ChangeType(rec.String("change_type")),
			ChangedAt:         rec.Time("changed_at"),
		})
	}
	return entries, nil
}
