package models

import (
	"time"
)

// PageView is a tracking beacon sent by the public site
type PageView struct {
	Path      string `json:"path"`
	Referrer  string `json:"referrer"`
	UserAgent string `json:"userAgent"`
}

// ArticleView records a single view of an article page
type ArticleView struct {
	ID          string    `json:"id"`
	ArticleSlug string    `json:"article_slug"`
	VisitorID   string    `json:"visitor_id"`
	Referrer    *string   `json:"referrer"`
	UserAgent   *string   `json:"user_agent"`
	ViewedAt    time.Time `json:"viewed_at"`
}

// SiteAnalytics is the per-day, per-path page view counter
type SiteAnalytics struct {
	ID             string    `json:"id"`
	Date           string    `json:"date"` // YYYY-MM-DD
	PagePath       string    `json:"page_path"`
	PageViews      int       `json:"page_views"`
	UniqueVisitors int       `json:"unique_visitors"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CountByKey is one row of a ranked count
type CountByKey struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// AnalyticsSummary aggregates tracking data over a window of days
type AnalyticsSummary struct {
	Since          string       `json:"since"`
	TotalPageViews int          `json:"total_page_views"`
	Pages          []CountByKey `json:"pages"`
	Articles       []CountByKey `json:"articles"`
}
