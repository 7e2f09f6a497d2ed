package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/association-site-api/internal/config"
	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/repository"
	"github.com/association-site-api/internal/store"
	"github.com/association-site-api/internal/validation"
)

const (
	dateLayout       = "2006-01-02"
	visitorUAPrefix  = 50
	maxAnalyticsDays = 365
)

// articlePathPrefixes are the public article routes whose views are tracked per slug
var articlePathPrefixes = []string{"/artikkel/", "/articles/"}

// analyticsService is the concrete implementation of AnalyticsService
type analyticsService struct {
	analytics   repository.AnalyticsRepository
	defaultDays int
	log         zerolog.Logger
	now         func() time.Time
}

// newAnalyticsService creates a new AnalyticsService
func newAnalyticsService(analytics repository.AnalyticsRepository, cfg config.ContentConfig, log zerolog.Logger) *analyticsService {
	return &analyticsService{
		analytics:   analytics,
		defaultDays: cfg.AnalyticsDays,
		log:         log.With().Str("service", "analytics").Logger(),
		now:         time.Now,
	}
}

// Track records a page view, plus an article view for article pages.
func (s *analyticsService) Track(ctx context.Context, pv models.PageView) error {
	if errs := validation.ValidatePageView(&pv); len(errs) > 0 {
		return models.NewValidationErrors(errs)
	}
	now := s.now().UTC()

	if slug, ok := articleSlugFromPath(pv.Path); ok {
		view := &models.ArticleView{
			ArticleSlug: slug,
			VisitorID:   fmt.Sprintf("%s_%d", prefixRunes(pv.UserAgent, visitorUAPrefix), now.UnixMilli()),
			Referrer:    optionalString(pv.Referrer),
			UserAgent:   optionalString(pv.UserAgent),
			ViewedAt:    now,
		}
		if err := s.analytics.RecordArticleView(ctx, view); err != nil {
			return storeError("record article view", err)
		}
	}

	return s.incrementDaily(ctx, now.Format(dateLayout), pv.Path, now)
}

func (s *analyticsService) incrementDaily(ctx context.Context, date, path string, now time.Time) error {
	row, err := s.analytics.GetDaily(ctx, date, path)
	if err != nil {
		return storeError("get daily analytics", err)
	}

	if row == nil {
		err := s.analytics.CreateDaily(ctx, &models.SiteAnalytics{
			Date:           date,
			PagePath:       path,
			PageViews:      1,
			UniqueVisitors: 1,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return storeError("create daily analytics", err)
		}
		// another request created the row first
		if row, err = s.analytics.GetDaily(ctx, date, path); err != nil {
			return storeError("get daily analytics", err)
		}
		if row == nil {
			return fmt.Errorf("daily analytics row for %s vanished: %w", path, models.ErrPersistence)
		}
	}

	if _, err := s.analytics.IncrementPageViews(ctx, row.ID, now); err != nil {
		return storeError("update daily analytics", err)
	}
	return nil
}

// Summary aggregates tracking data over the last days days, today included.
func (s *analyticsService) Summary(ctx context.Context, days int) (*models.AnalyticsSummary, error) {
	if days <= 0 {
		days = s.defaultDays
	}
	if days > maxAnalyticsDays {
		days = maxAnalyticsDays
	}

	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))
	since := start.Format(dateLayout)

	rows, err := s.analytics.ListDailySince(ctx, since)
	if err != nil {
		return nil, storeError("list daily analytics", err)
	}
	views, err := s.analytics.ListArticleViewsSince(ctx, start)
	if err != nil {
		return nil, storeError("list article views", err)
	}

	summary := &models.AnalyticsSummary{Since: since}
	pages := make(map[string]int)
	for _, r := range rows {
		summary.TotalPageViews += r.PageViews
		pages[r.PagePath] += r.PageViews
	}
	articles := make(map[string]int)
	for _, v := range views {
		articles[v.ArticleSlug]++
	}

	summary.Pages = rankCounts(pages)
	summary.Articles = rankCounts(articles)
	return summary, nil
}

// rankCounts sorts by count descending, then key
func rankCounts(counts map[string]int) []models.CountByKey {
	out := make([]models.CountByKey, 0, len(counts))
	for k, c := range counts {
		out = append(out, models.CountByKey{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func articleSlugFromPath(path string) (string, bool) {
	for _, prefix := range articlePathPrefixes {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		slug := strings.TrimPrefix(path, prefix)
		if i := strings.IndexAny(slug, "?#"); i >= 0 {
			slug = slug[:i]
		}
		slug = strings.TrimSuffix(slug, "/")
		if slug == "" || strings.Contains(slug, "/") {
			return "", false
		}
		return slug, true
	}
	return "", false
}

func prefixRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
