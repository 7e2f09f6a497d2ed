package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/store"
)

// ArticleFilter narrows article listings
type ArticleFilter struct {
	Category      models.Category
	PublishedOnly bool
	Limit         int
}

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Article, error)
	List(ctx context.Context, filter ArticleFilter) ([]*models.Article, error)
	StreamAll(ctx context.Context, callback func(*models.Article) error) error
}

// HistoryRepository defines the interface for the append-only article history
type HistoryRepository interface {
	Append(ctx context.Context, entry *models.ArticleHistoryEntry) error
	ListByArticle(ctx context.Context, articleID string, limit int) ([]*models.ArticleHistoryEntry, error)
}

// UserRepository defines the interface for admin user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.AdminUser) error
	GetByID(ctx context.Context, id string) (*models.AdminUser, error)
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	SetPasswordHash(ctx context.Context, id, hash string) error
}

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	ListPublished(ctx context.Context) ([]*models.Project, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Project, error)
}

// TeamRepository defines the interface for team member data operations
type TeamRepository interface {
	Create(ctx context.Context, member *models.TeamMember) error
	ListPublished(ctx context.Context) ([]*models.TeamMember, error)
}

// SubscriberRepository defines the interface for newsletter subscriptions
type SubscriberRepository interface {
	Create(ctx context.Context, sub *models.Subscriber) error
	Count(ctx context.Context) (int, error)
	StreamAll(ctx context.Context, callback func(*models.Subscriber) error) error
}

// AnalyticsRepository defines the interface for page and article view tracking
type AnalyticsRepository interface {
	RecordArticleView(ctx context.Context, view *models.ArticleView) error
	GetDaily(ctx context.Context, date, path string) (*models.SiteAnalytics, error)
	CreateDaily(ctx context.Context, row *models.SiteAnalytics) error
	IncrementPageViews(ctx context.Context, id string, at time.Time) (*models.SiteAnalytics, error)
	ListDailySince(ctx context.Context, date string) ([]*models.SiteAnalytics, error)
	ListArticleViewsSince(ctx context.Context, since time.Time) ([]*models.ArticleView, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article    ArticleRepository
	History    HistoryRepository
	User       UserRepository
	Project    ProjectRepository
	Team       TeamRepository
	Subscriber SubscriberRepository
	Analytics  AnalyticsRepository

	// Store is kept for the change feed
	Store store.Store
}

// New creates all repositories on top of the given store
func New(s store.Store) *Repositories {
	return &Repositories{
		Article:    NewArticleRepo(s),
		History:    NewHistoryRepo(s),
		User:       NewUserRepo(s),
		Project:    NewProjectRepo(s),
		Team:       NewTeamRepo(s),
		Subscriber: NewSubscriberRepo(s),
		Analytics:  NewAnalyticsRepo(s),
		Store:      s,
	}
}

// validID reports whether id can name a row. Every id is a UUID; anything else
// cannot match and would be rejected by PostgreSQL's uuid columns.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func newID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func nowIfZero(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

// first runs q with a limit of one and returns the match, if any
func first(ctx context.Context, s store.Store, table string, q store.Query) (store.Record, error) {
	q.Limit = 1
	rows, err := s.Select(ctx, table, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
