package repository

import (
	"context"
	"time"

	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/store"
)

// analyticsRepo is the concrete implementation of AnalyticsRepository
type analyticsRepo struct {
	s store.Store
}

// NewAnalyticsRepo creates a new analytics repository
func NewAnalyticsRepo(s store.Store) AnalyticsRepository {
	return &analyticsRepo{s: s}
}

// RecordArticleView inserts one article view
func (r *analyticsRepo) RecordArticleView(ctx context.Context, v *models.ArticleView) error {
	v.ID = newID(v.ID)
	v.ViewedAt = nowIfZero(v.ViewedAt)

	_, err := r.s.Insert(ctx, store.TableArticleViews, store.Record{
		"id":           v.ID,
		"article_slug": v.ArticleSlug,
		"visitor_id":   v.VisitorID,
		"referrer":     store.Nullable(v.Referrer),
		"user_agent":   store.Nullable(v.UserAgent),
		"viewed_at":    v.ViewedAt,
	})
	return err
}

// GetDaily returns the counter row for a date and path, or nil
func (r *analyticsRepo) GetDaily(ctx context.Context, date, path string) (*models.SiteAnalytics, error) {
	rec, err := first(ctx, r.s, store.TableSiteAnalytics, store.Query{
		Eq: map[string]any{"date": date, "page_path": path},
	})
	if err != nil || rec == nil {
		return nil, err
	}
	return dailyFromRecord(rec), nil
}

// CreateDaily inserts a new counter row
func (r *analyticsRepo) CreateDaily(ctx context.Context, row *models.SiteAnalytics) error {
	row.ID = newID(row.ID)
	row.CreatedAt = nowIfZero(row.CreatedAt)
	row.UpdatedAt = nowIfZero(row.UpdatedAt)

	_, err := r.s.Insert(ctx, store.TableSiteAnalytics, store.Record{
		"id":              row.ID,
		"date":            row.Date,
		"page_path":       row.PagePath,
		"page_views":      row.PageViews,
		"unique_visitors": row.UniqueVisitors,
		"created_at":      row.CreatedAt,
		"updated_at":      row.UpdatedAt,
	})
	return err
}

// IncrementPageViews adds one page view to an existing row in a single write
func (r *analyticsRepo) IncrementPageViews(ctx context.Context, id string, at time.Time) (*models.SiteAnalytics, error) {
	rec, err := r.s.Increment(ctx, store.TableSiteAnalytics, id, "page_views", 1, store.Record{
		"updated_at": nowIfZero(at),
	})
	if err != nil {
		return nil, err
	}
	return dailyFromRecord(rec), nil
}

// ListDailySince returns counter rows on or after date (YYYY-MM-DD)
func (r *analyticsRepo) ListDailySince(ctx context.Context, date string) ([]*models.SiteAnalytics, error) {
	rows, err := r.s.Select(ctx, store.TableSiteAnalytics, store.Query{
		Gte:     map[string]any{"date": date},
		OrderBy: []store.Order{store.Asc("date")},
	})
	if err != nil {
		return nil, err
	}

	out := make([]*models.SiteAnalytics, 0, len(rows))
	for _, rec := range rows {
		out = append(out, dailyFromRecord(rec))
	}
	return out, nil
}

// ListArticleViewsSince returns article views at or after since
func (r *analyticsRepo) ListArticleViewsSince(ctx context.Context, since time.Time) ([]*models.ArticleView, error) {
	rows, err := r.s.Select(ctx, store.TableArticleViews, store.Query{
		Gte:     map[string]any{"viewed_at": since},
		OrderBy: []store.Order{store.Asc("viewed_at")},
	})
	if err != nil {
		return nil, err
	}

	out := make([]*models.ArticleView, 0, len(rows))
	for _, rec := range rows {
		out = append(out, &models.ArticleView{
			ID:          rec.ID(),
			ArticleSlug: rec.String("article_slug"),
			VisitorID:   rec.String("visitor_id"),
			Referrer:    rec.StringPtr("referrer"),
			UserAgent:   rec.StringPtr("user_agent"),
			ViewedAt:    rec.Time("viewed_at"),
		})
	}
	return out, nil
}

func dailyFromRecord(rec store.Record) *models.SiteAnalytics {
	return &models.SiteAnalytics{
		ID:             rec.ID(),
		Date:           rec.String("date"),
		PagePath:       rec.String("page_path"),
		PageViews:      rec.Int("page_views"),
		UniqueVisitors: rec.Int("unique_visitors"),
		CreatedAt:      rec.Time("created_at"),
		UpdatedAt:      rec.Time("updated_at"),
	}
}
