package models

import (
	"time"
)

// Category is the section of the site an article belongs to
type Category string

const (
	CategoryAbout    Category = "about"
	CategoryProjects Category = "projects"
	CategoryMedia    Category = "media"
	CategoryContact  Category = "contact"
)

// DefaultCategory is applied when an article is saved without a category
const DefaultCategory = CategoryAbout

// Categories lists the fixed category set in display order
var Categories = []Category{CategoryAbout, CategoryProjects, CategoryMedia, CategoryContact}

// ValidCategories defines allowed article categories
var ValidCategories = map[Category]bool{
	CategoryAbout:    true,
	CategoryProjects: true,
	CategoryMedia:    true,
	CategoryContact:  true,
}

// Article represents an article in the system
type Article struct {
	ID                     string    `json:"id"`
	Title                  string    `json:"title"`
	Slug                   string    `json:"slug"`
	Content                *string   `json:"content"`
	Excerpt                *string   `json:"excerpt"`
	FeaturedImageURL       *string   `json:"featured_image_url"`
	Category               Category  `json:"category"`
	Published              bool      `json:"published"`
	AuthorID               string    `json:"author_id"`
	LastModifiedBy         string    `json:"last_modified_by"`
	LastModifiedByUsername string    `json:"last_modified_by_username"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// ArticleInput is the editable part of an article as submitted by the editor.
// An empty Slug on create means the slug was not set manually and is derived from Title.
type ArticleInput struct {
	Title            string   `json:"title"`
	Slug             string   `json:"slug"`
	Content          *string  `json:"content"`
	Excerpt          *string  `json:"excerpt"`
	FeaturedImageURL *string  `json:"featured_image_url"`
	Category         Category `json:"category"`
	Published        bool     `json:"published"`
}

// ChangeType classifies an article history entry
type ChangeType string

const (
	ChangeCreated     ChangeType = "created"
	ChangeUpdated     ChangeType = "updated"
	ChangePublished   ChangeType = "published"
	ChangeUnpublished ChangeType = "unpublished"
)

// ArticleHistoryEntry is an immutable snapshot of an article taken after a write
type ArticleHistoryEntry struct {
	ID                string     `json:"id"`
	ArticleID         string     `json:"article_id"`
	Title             string     `json:"title"`
	Slug              string     `json:"slug"`
	Content           *string    `json:"content"`
	Excerpt           *string    `json:"excerpt"`
	FeaturedImageURL  *string    `json:"featured_image_url"`
	Published         bool       `json:"published"`
	Category          Category   `json:"category"`
	ChangedByUserID   string     `json:"changed_by_user_id"`
	ChangedByUsername string     `json:"changed_by_username"`
	ChangeType        ChangeType `json:"change_type"`
	ChangedAt         time.Time  `json:"changed_at"`
}

// ArticleStats summarises the article table for the admin dashboard
type ArticleStats struct {
	Total      int              `json:"total"`
	Published  int              `json:"published"`
	Drafts     int              `json:"drafts"`
	ByCategory map[Category]int `json:"by_category"`
}
