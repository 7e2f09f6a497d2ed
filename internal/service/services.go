package service

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/association-site-api/internal/config"
	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/repository"
	"github.com/association-site-api/internal/session"
	"github.com/association-site-api/internal/store"
)

// ArticleService defines the article lifecycle operations
type ArticleService interface {
	// Save creates the article when existing is nil and updates it otherwise,
	// then appends one history entry. It returns the article id.
	Save(ctx context.Context, input models.ArticleInput, existing *models.Article, actor models.Identity) (string, error)
	Delete(ctx context.Context, id string, actor models.Identity) error
	Get(ctx context.Context, id string) (*models.Article, error)
	List(ctx context.Context, category models.Category) ([]*models.Article, error)
	Stats(ctx context.Context) (*models.ArticleStats, error)
}

// HistoryService defines read access to article history
type HistoryService interface {
	List(ctx context.Context, articleID string, limit int) ([]*models.ArticleHistoryEntry, error)
}

// AuthService defines the session/identity gate
type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (models.Identity, error)
	IssueSession(id models.Identity) (string, error)
	ResolveSession(token string) (models.Identity, error)
	SessionTTL() time.Duration
}

// ContentService defines the public read surface
type ContentService interface {
	PublishedArticles(ctx context.Context, category models.Category, limit int) ([]*models.Article, error)
	ArticleBySlug(ctx context.Context, slug string) (*models.Article, error)
	Projects(ctx context.Context) ([]*models.ProjectSummary, error)
	ProjectBySlug(ctx context.Context, slug string) (*models.Project, error)
	Team(ctx context.Context) ([]*models.TeamMember, error)
}

// NewsletterService defines newsletter capture
type NewsletterService interface {
	Subscribe(ctx context.Context, email, ip, userAgent string) (*models.Subscriber, error)
}

// AnalyticsService defines page view tracking and reporting
type AnalyticsService interface {
	Track(ctx context.Context, pv models.PageView) error
	Summary(ctx context.Context, days int) (*models.AnalyticsSummary, error)
}

// ExportService defines the interface for export operations
type ExportService interface {
	StreamSubscribers(ctx context.Context, w http.ResponseWriter, format string) error
	StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error
	GetCount(ctx context.Context, resource string) (int, error)
}

// ChangeFeed is the subscribe side of the store
type ChangeFeed interface {
	Subscribe(table string, fn func(store.Change)) (cancel func())
}

// Services holds all service interfaces
type Services struct {
	Article    ArticleService
	History    HistoryService
	Auth       AuthService
	Content    ContentService
	Newsletter NewsletterService
	Analytics  AnalyticsService
	Export     ExportService
	Changes    ChangeFeed
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	sessions := session.NewManager(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.TTL)

	return &Services{
		Article:    newArticleService(repos, log),
		History:    newHistoryService(repos.History, cfg.Content, log),
		Auth:       newAuthService(repos.User, sessions, log),
		Content:    newContentService(repos, cfg.Content, log),
		Newsletter: newNewsletterService(repos.Subscriber, log),
		Analytics:  newAnalyticsService(repos.Analytics, cfg.Content, log),
		Export:     newExportService(repos, log),
		Changes:    repos.Store,
	}
}
