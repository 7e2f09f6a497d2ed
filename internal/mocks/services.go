package mocks

import (
	"context"
	"net/http"
	"time"

	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/service"
)

// MockArticleService is a mock implementation of ArticleService
type MockArticleService struct {
	Articles map[string]*models.Article
	SaveFunc func(ctx context.Context, input models.ArticleInput, existing *models.Article, actor models.Identity) (string, error)
	DeleteFn func(ctx context.Context, id string, actor models.Identity) error
	ListErr  error
	Stat     *models.ArticleStats

	Saved   []models.ArticleInput
	Actors  []models.Identity
	Deleted []string
}

// Verify interface compliance
var _ service.ArticleService = (*MockArticleService)(nil)

func NewMockArticleService() *MockArticleService {
	return &MockArticleService{
		Articles: make(map[string]*models.Article),
		Stat:     &models.ArticleStats{ByCategory: map[models.Category]int{}},
	}
}

func (m *MockArticleService) Save(ctx context.Context, input models.ArticleInput, existing *models.Article, actor models.Identity) (string, error) {
	m.Saved = append(m.Saved, input)
	m.Actors = append(m.Actors, actor)
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, input, existing, actor)
	}
	if existing != nil {
		return existing.ID, nil
	}
	return "new-article-id", nil
}

func (m *MockArticleService) Delete(ctx context.Context, id string, actor models.Identity) error {
	m.Deleted = append(m.Deleted, id)
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id, actor)
	}
	return nil
}

func (m *MockArticleService) Get(ctx context.Context, id string) (*models.Article, error) {
	a, ok := m.Articles[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return a, nil
}

func (m *MockArticleService) List(ctx context.Context, category models.Category) ([]*models.Article, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]*models.Article, 0, len(m.Articles))
	for _, a := range m.Articles {
		if category == "" || a.Category == category {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockArticleService) Stats(ctx context.Context) (*models.ArticleStats, error) {
	return m.Stat, nil
}

// MockHistoryService is a mock implementation of HistoryService
type MockHistoryService struct {
	Entries   map[string][]*models.ArticleHistoryEntry
	LastLimit int
}

var _ service.HistoryService = (*MockHistoryService)(nil)

func NewMockHistoryService() *MockHistoryService {
	return &MockHistoryService{Entries: make(map[string][]*models.ArticleHistoryEntry)}
}

func (m *MockHistoryService) List(ctx context.Context, articleID string, limit int) ([]*models.ArticleHistoryEntry, error) {
	m.LastLimit = limit
	entries := m.Entries[articleID]
	if entries == nil {
		return []*models.ArticleHistoryEntry{}, nil
	}
	return entries, nil
}

// MockAuthService is a mock implementation of AuthService.
// Tokens are "token-<user id>" and resolve against Users.
type MockAuthService struct {
	Users     map[string]models.Identity
	Passwords map[string]string
	TTL       time.Duration
}

var _ service.AuthService = (*MockAuthService)(nil)

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{
		Users:     make(map[string]models.Identity),
		Passwords: make(map[string]string),
		TTL:       time.Hour,
	}
}

// AddUser registers a user that can log in with password
func (m *MockAuthService) AddUser(id models.Identity, password string) {
	m.Users[id.ID] = id
	m.Passwords[id.Username] = password
}

// TokenFor returns the token IssueSession would hand out for id
func (m *MockAuthService) TokenFor(id models.Identity) string {
	return "token-" + id.ID
}

func (m *MockAuthService) Authenticate(ctx context.Context, username, password string) (models.Identity, error) {
	for _, id := range m.Users {
		if id.Username == username && m.Passwords[username] == password {
			return id, nil
		}
	}
	return models.Identity{}, models.ErrAuthentication
}

func (m *MockAuthService) IssueSession(id models.Identity) (string, error) {
	return m.TokenFor(id), nil
}

func (m *MockAuthService) ResolveSession(token string) (models.Identity, error) {
	for _, id := range m.Users {
		if token == m.TokenFor(id) {
			return id, nil
		}
	}
	return models.Identity{}, models.ErrUnauthenticated
}

func (m *MockAuthService) SessionTTL() time.Duration {
	return m.TTL
}

// MockContentService is a mock implementation of ContentService
type MockContentService struct {
	Articles []*models.Article
	ProjectList []*models.ProjectSummary
	Members     []*models.TeamMember
	Err         error

	LastCategory models.Category
	LastLimit    int
}

var _ service.ContentService = (*MockContentService)(nil)

func NewMockContentService() *MockContentService {
	return &MockContentService{}
}

func (m *MockContentService) PublishedArticles(ctx context.Context, category models.Category, limit int) ([]*models.Article, error) {
	m.LastCategory = category
	m.LastLimit = limit
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Articles, nil
}

func (m *MockContentService) ArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	for _, a := range m.Articles {
		if a.Slug == slug {
			return a, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *MockContentService) Projects(ctx context.Context) ([]*models.ProjectSummary, error) {
	return m.ProjectList, m.Err
}

func (m *MockContentService) ProjectBySlug(ctx context.Context, slug string) (*models.Project, error) {
	for _, p := range m.ProjectList {
		if p.Slug == slug {
			return &p.Project, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *MockContentService) Team(ctx context.Context) ([]*models.TeamMember, error) {
	return m.Members, m.Err
}

// MockNewsletterService is a mock implementation of NewsletterService
type MockNewsletterService struct {
	SubscribeFunc func(ctx context.Context, email, ip, userAgent string) (*models.Subscriber, error)
	Subscribed    []models.Subscriber
}

var _ service.NewsletterService = (*MockNewsletterService)(nil)

func NewMockNewsletterService() *MockNewsletterService {
	return &MockNewsletterService{}
}

func (m *MockNewsletterService) Subscribe(ctx context.Context, email, ip, userAgent string) (*models.Subscriber, error) {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, email, ip, userAgent)
	}
	sub := models.Subscriber{ID: "sub-1", Email: email, IPAddress: ip, UserAgent: userAgent}
	m.Subscribed = append(m.Subscribed, sub)
	return &sub, nil
}

// MockAnalyticsService is a mock implementation of AnalyticsService
type MockAnalyticsService struct {
	Tracked  []models.PageView
	TrackErr error
	Result   *models.AnalyticsSummary
	LastDays int
}

var _ service.AnalyticsService = (*MockAnalyticsService)(nil)

func NewMockAnalyticsService() *MockAnalyticsService {
	return &MockAnalyticsService{Result: &models.AnalyticsSummary{}}
}

func (m *MockAnalyticsService) Track(ctx context.Context, pv models.PageView) error {
	if m.TrackErr != nil {
		return m.TrackErr
	}
	m.Tracked = append(m.Tracked, pv)
	return nil
}

func (m *MockAnalyticsService) Summary(ctx context.Context, days int) (*models.AnalyticsSummary, error) {
	m.LastDays = days
	return m.Result, nil
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamSubscribersFunc func(ctx context.Context, w http.ResponseWriter, format string) error
	StreamArticlesFunc    func(ctx context.Context, w http.ResponseWriter, format string) error
	Counts                map[string]int
}

var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{
		Counts: map[string]int{
			service.ResourceSubscribers: 0,
			service.ResourceArticles:    0,
		},
	}
}

func (m *MockExportService) StreamSubscribers(ctx context.Context, w http.ResponseWriter, format string) error {
	if m.StreamSubscribersFunc != nil {
		return m.StreamSubscribersFunc(ctx, w, format)
	}
	return nil
}

func (m *MockExportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error {
	if m.StreamArticlesFunc != nil {
		return m.StreamArticlesFunc(ctx, w, format)
	}
	return nil
}

func (m *MockExportService) GetCount(ctx context.Context, resource string) (int, error) {
	return m.Counts[resource], nil
}
