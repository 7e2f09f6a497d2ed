package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/association-site-api/internal/api"
	"github.com/association-site-api/internal/config"
	"github.com/association-site-api/internal/mocks"
	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/service"
	"github.com/association-site-api/internal/store"
)

var admin = models.Identity{ID: "3f0c8a52-7d4e-4b1a-9c6f-2e8d5b7a1c90", Username: "admin"}

type testServer struct {
	router     *gin.Engine
	articles   *mocks.MockArticleService
	history    *mocks.MockHistoryService
	auth       *mocks.MockAuthService
	content    *mocks.MockContentService
	newsletter *mocks.MockNewsletterService
	analytics  *mocks.MockAnalyticsService
	export     *mocks.MockExportService
	changes    *store.Broker
}

func setupTestRouter() *testServer {
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		articles:   mocks.NewMockArticleService(),
		history:    mocks.NewMockHistoryService(),
		auth:       mocks.NewMockAuthService(),
		content:    mocks.NewMockContentService(),
		newsletter: mocks.NewMockNewsletterService(),
		analytics:  mocks.NewMockAnalyticsService(),
		export:     mocks.NewMockExportService(),
		changes:    store.NewBroker(),
	}
	ts.auth.AddUser(admin, "secret-password")

	services := &service.Services{
		Article:    ts.articles,
		History:    ts.history,
		Auth:       ts.auth,
		Content:    ts.content,
		Newsletter: ts.newsletter,
		Analytics:  ts.analytics,
		Export:     ts.export,
		Changes:    ts.changes,
	}

	cfg := &config.Config{
		Server:  config.ServerConfig{Port: "8080"},
		Session: config.SessionConfig{CookieName: "admin-session"},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"https://forening.example.org"}},
	}

	ts.router = api.NewRouter(services, cfg, zerolog.Nop())
	return ts
}

func (ts *testServer) do(method, url string, body interface{}, authed bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.AddCookie(&http.Cookie{Name: "admin-session", Value: ts.auth.TokenFor(admin)})
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
	}
	return response
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestRouter()

	w := ts.do("GET", "/health", nil, false)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	response := decode(t, w)
	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "association-site-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestRouter()
	ts.export.Counts[service.ResourceSubscribers] = 42
	ts.export.Counts[service.ResourceArticles] = 7

	w := ts.do("GET", "/metrics", nil, false)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	db := decode(t, w)["database"].(map[string]interface{})
	if db["subscribers"].(float64) != 42 {
		t.Errorf("Expected 42 subscribers, got %v", db["subscribers"])
	}
	if db["articles"].(float64) != 7 {
		t.Errorf("Expected 7 articles, got %v", db["articles"])
	}
}

func TestRequestID(t *testing.T) {
	ts := setupTestRouter()

	w := ts.do("GET", "/health", nil, false)
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("Expected a generated X-Request-Id")
	}

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-Id", "caller-id")
	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-Id"); got != "caller-id" {
		t.Errorf("Expected caller request id to be echoed, got %q", got)
	}
}

func TestLogin(t *testing.T) {
	ts := setupTestRouter()

	t.Run("success sets session cookie", func(t *testing.T) {
		w := ts.do("POST", "/api/auth/login", map[string]string{"username": "admin", "password": "secret-password"}, false)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var cookie *http.Cookie
		for _, c := range w.Result().Cookies() {
			if c.Name == "admin-session" {
				cookie = c
			}
		}
		if cookie == nil {
			t.Fatal("Expected admin-session cookie")
		}
		if cookie.Value != ts.auth.TokenFor(admin) {
			t.Errorf("Unexpected cookie value %q", cookie.Value)
		}
		if !cookie.HttpOnly {
			t.Error("Expected HttpOnly cookie")
		}
		if cookie.SameSite != http.SameSiteLaxMode {
			t.Errorf("Expected SameSite=Lax, got %v", cookie.SameSite)
		}
		if cookie.MaxAge != int(time.Hour.Seconds()) {
			t.Errorf("Expected MaxAge 3600, got %d", cookie.MaxAge)
		}

		user := decode(t, w)["user"].(map[string]interface{})
		if user["username"] != "admin" {
			t.Errorf("Expected username admin, got %v", user["username"])
		}
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		wrong := ts.do("POST", "/api/auth/login", map[string]string{"username": "admin", "password": "wrongpassword"}, false)
		unknown := ts.do("POST", "/api/auth/login", map[string]string{"username": "nonexistent", "password": "x"}, false)

		if wrong.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
			t.Fatalf("Expected 401 for both, got %d and %d", wrong.Code, unknown.Code)
		}
		if wrong.Body.String() != unknown.Body.String() {
			t.Errorf("Responses differ: %s vs %s", wrong.Body.String(), unknown.Body.String())
		}
		if len(wrong.Result().Cookies()) != 0 {
			t.Error("Failed login must not set a cookie")
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		w := ts.do("POST", "/api/auth/login", map[string]string{"username": ""}, false)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestLogoutClearsCookie(t *testing.T) {
	ts := setupTestRouter()

	w := ts.do("POST", "/api/auth/logout", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "admin-session" || cookies[0].MaxAge >= 0 {
		t.Errorf("Expected expired admin-session cookie, got %+v", cookies)
	}
}

func TestSessionGate(t *testing.T) {
	ts := setupTestRouter()

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no session", func(r *http.Request) {}, http.StatusUnauthorized},
		{"garbage cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "admin-session", Value: "{\"id\":\"forged\"}"})
		}, http.StatusUnauthorized},
		{"valid cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "admin-session", Value: ts.auth.TokenFor(admin)})
		}, http.StatusOK},
		{"valid bearer token", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+ts.auth.TokenFor(admin))
		}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/auth/me", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			ts.router.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, w.Code)
			}
		})
	}

	w := ts.do("GET", "/api/admin/articles", nil, false)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected admin routes to require a session, got %d", w.Code)
	}
}

func TestCreateArticle(t *testing.T) {
	ts := setupTestRouter()

	w := ts.do("POST", "/api/admin/articles", models.ArticleInput{Title: "Årsmøte 2024", Published: true}, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if decode(t, w)["id"] != "new-article-id" {
		t.Errorf("Unexpected body %s", w.Body.String())
	}

	if len(ts.articles.Actors) != 1 || ts.articles.Actors[0] != admin {
		t.Errorf("Expected the session identity to be passed as actor, got %+v", ts.articles.Actors)
	}
}

func TestUpdateArticle(t *testing.T) {
	ts := setupTestRouter()
	existing := &models.Article{ID: "a1", Title: "Old", Slug: "old", Category: models.CategoryAbout}
	ts.articles.Articles["a1"] = existing

	var gotExisting *models.Article
	ts.articles.SaveFunc = func(ctx context.Context, input models.ArticleInput, e *models.Article, actor models.Identity) (string, error) {
		gotExisting = e
		return e.ID, nil
	}

	w := ts.do("PUT", "/api/admin/articles/a1", models.ArticleInput{Title: "New", Slug: "old"}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotExisting != existing {
		t.Error("Expected the stored article to be passed as existing")
	}

	w = ts.do("PUT", "/api/admin/articles/missing", models.ArticleInput{Title: "New", Slug: "new"}, true)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestArticleErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", models.NewValidationError("title", "title is required"), http.StatusBadRequest, "title is required"},
		{"conflict", fmt.Errorf("save: %w", models.ErrConflict), http.StatusConflict, "already exists"},
		{"persistence", fmt.Errorf("save: %w: %w", models.ErrPersistence, errors.New("connection refused")), http.StatusInternalServerError, "please try again"},
		{"unauthenticated", models.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestRouter()
			ts.articles.SaveFunc = func(ctx context.Context, input models.ArticleInput, e *models.Article, actor models.Identity) (string, error) {
				return "", tt.err
			}

			w := ts.do("POST", "/api/admin/articles", models.ArticleInput{Title: "x"}, true)
			if w.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.body) {
				t.Errorf("Expected %q in body, got %s", tt.body, w.Body.String())
			}
			if strings.Contains(w.Body.String(), "connection refused") {
				t.Error("Internal error details leaked to the client")
			}
		})
	}
}

func TestDeleteArticle(t *testing.T) {
	ts := setupTestRouter()

	w := ts.do("DELETE", "/api/admin/articles/a1", nil, true)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if len(ts.articles.Deleted) != 1 || ts.articles.Deleted[0] != "a1" {
		t.Errorf("Expected a1 to be deleted, got %v", ts.articles.Deleted)
	}
}

func TestArticleHistory(t *testing.T) {
	ts := setupTestRouter()
	ts.history.Entries["a1"] = []*models.ArticleHistoryEntry{
		{ID: "h2", ArticleID: "a1", ChangeType: models.ChangePublished},
		{ID: "h1", ArticleID: "a1", ChangeType: models.ChangeCreated},
	}

	w := ts.do("GET", "/api/admin/articles/a1/history?limit=5", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ts.history.LastLimit != 5 {
		t.Errorf("Expected limit 5 to be passed through, got %d", ts.history.LastLimit)
	}
	history := decode(t, w)["history"].([]interface{})
	if len(history) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(history))
	}

	w = ts.do("GET", "/api/admin/articles/unknown/history", nil, true)
	if got := decode(t, w)["history"].([]interface{}); len(got) != 0 {
		t.Errorf("Expected empty history, got %v", got)
	}

	w = ts.do("GET", "/api/admin/articles/a1/history?limit=abc", nil, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for bad limit, got %d", w.Code)
	}
}

func TestPublicArticles(t *testing.T) {
	ts := setupTestRouter()
	ts.content.Articles = []*models.Article{{ID: "a1", Title: "Hello", Slug: "hello", Published: true}}

	w := ts.do("GET", "/api/articles?category=media&limit=3", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ts.content.LastCategory != models.CategoryMedia || ts.content.LastLimit != 3 {
		t.Errorf("Filters not passed through: %q %d", ts.content.LastCategory, ts.content.LastLimit)
	}

	w = ts.do("GET", "/api/articles/hello", nil, false)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	w = ts.do("GET", "/api/articles/missing", nil, false)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestPublicProjects(t *testing.T) {
	ts := setupTestRouter()
	ts.content.ProjectList = []*models.ProjectSummary{
		{Project: models.Project{ID: "p1", Title: "Skolebygg", Slug: "skolebygg", Published: true}, Summary: "Vi bygger...", IsTruncated: true},
		{Project: models.Project{ID: "p2", Title: "Brønn", Slug: "bronn", Published: true}, Summary: "Rent vann"},
	}

	w := ts.do("GET", "/api/projects", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	projects := decode(t, w)["projects"].([]interface{})
	if len(projects) != 2 {
		t.Fatalf("Expected 2 projects, got %d", len(projects))
	}
	first := projects[0].(map[string]interface{})
	if first["slug"] != "skolebygg" || first["summary"] != "Vi bygger..." || first["is_truncated"] != true {
		t.Errorf("Unexpected project summary: %v", first)
	}

	w = ts.do("GET", "/api/projects/bronn", nil, false)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if got := decode(t, w)["title"]; got != "Brønn" {
		t.Errorf("Expected project 'Brønn', got %v", got)
	}

	w = ts.do("GET", "/api/projects/missing", nil, false)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	ts.content.Err = fmt.Errorf("select projects: %w", models.ErrPersistence)
	w = ts.do("GET", "/api/projects", nil, false)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}

func TestPublicTeam(t *testing.T) {
	ts := setupTestRouter()
	role := "Leder"
	ts.content.Members = []*models.TeamMember{
		{ID: "m1", Name: "Kari", Role: &role, OrderIndex: 1, Published: true},
		{ID: "m2", Name: "Ola", OrderIndex: 2, Published: true},
	}

	w := ts.do("GET", "/api/team", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	members := decode(t, w)["members"].([]interface{})
	if len(members) != 2 {
		t.Fatalf("Expected 2 members, got %d", len(members))
	}
	if got := members[0].(map[string]interface{}); got["name"] != "Kari" || got["role"] != "Leder" {
		t.Errorf("Unexpected first member: %v", got)
	}
}

func TestNewsletterSubscribe(t *testing.T) {
	ts := setupTestRouter()

	req := httptest.NewRequest("POST", "/api/newsletter/subscribe", strings.NewReader(`{"email":"reader@example.org"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("User-Agent", "test-agent")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	sub := ts.newsletter.Subscribed[0]
	if sub.IPAddress != "203.0.113.7" || sub.UserAgent != "test-agent" {
		t.Errorf("Unexpected client details %+v", sub)
	}

	ts.newsletter.SubscribeFunc = func(ctx context.Context, email, ip, userAgent string) (*models.Subscriber, error) {
		return nil, fmt.Errorf("subscribe: %w", models.ErrConflict)
	}
	w = ts.do("POST", "/api/newsletter/subscribe", map[string]string{"email": "reader@example.org"}, false)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
}

func TestTrack(t *testing.T) {
	ts := setupTestRouter()

	req := httptest.NewRequest("POST", "/api/analytics/track", strings.NewReader(`{"path":"/articles/hello"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "header-agent")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ts.analytics.Tracked[0].UserAgent != "header-agent" {
		t.Errorf("Expected user agent from header, got %q", ts.analytics.Tracked[0].UserAgent)
	}
}

func TestExportStream_ValidationErrors(t *testing.T) {
	ts := setupTestRouter()

	tests := []struct {
		name           string
		url            string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "missing resource",
			url:            "/api/admin/exports",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "resource parameter is required",
		},
		{
			name:           "invalid resource",
			url:            "/api/admin/exports?resource=users",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "resource must be one of",
		},
		{
			name:           "invalid format",
			url:            "/api/admin/exports?resource=subscribers&format=xml",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "format must be one of",
		},
		{
			name:           "csv not supported for articles",
			url:            "/api/admin/exports?resource=articles&format=csv",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "CSV format only supported for subscribers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do("GET", tt.url, nil, true)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedError != "" && !bytes.Contains(w.Body.Bytes(), []byte(tt.expectedError)) {
				t.Errorf("Expected error '%s' in response, got: %s", tt.expectedError, w.Body.String())
			}
		})
	}
}

func TestExportStream(t *testing.T) {
	ts := setupTestRouter()

	var gotFormat string
	ts.export.StreamSubscribersFunc = func(ctx context.Context, w http.ResponseWriter, format string) error {
		gotFormat = format
		w.Write([]byte("{\"email\":\"a@example.org\"}\n"))
		return nil
	}

	w := ts.do("GET", "/api/admin/exports?resource=subscribers", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if gotFormat != service.FormatNDJSON {
		t.Errorf("Expected ndjson default, got %q", gotFormat)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := setupTestRouter()

	req := httptest.NewRequest("OPTIONS", "/api/admin/articles", nil)
	req.Header.Set("Origin", "https://forening.example.org")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204 for OPTIONS, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://forening.example.org" {
		t.Errorf("Expected allowed origin to be echoed, got '%s'", got)
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("Expected Access-Control-Allow-Methods header")
	}

	req = httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no CORS header for foreign origin, got '%s'", got)
	}
}

func TestEventsStream(t *testing.T) {
	ts := setupTestRouter()
	srv := httptest.NewServer(ts.router)
	defer srv.Close()

	req, _ := http.NewRequest("GET", srv.URL+"/api/admin/events?table=articles", nil)
	req.AddCookie(&http.Cookie{Name: "admin-session", Value: ts.auth.TokenFor(admin)})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("Expected text/event-stream, got %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var event, data string
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("stream ended: %v", err)
			}
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event:"):
				event = strings.TrimPrefix(line, "event:")
			case strings.HasPrefix(line, "data:"):
				data = strings.TrimPrefix(line, "data:")
			case line == "" && event != "":
				return event, data
			}
		}
	}

	if event, _ := readEvent(); event != "ready" {
		t.Fatalf("Expected ready event, got %q", event)
	}
	if ts.changes.Len() != 1 {
		t.Fatalf("Expected one subscription, got %d", ts.changes.Len())
	}

	ts.changes.Publish(store.Change{Table: store.TableProjects, Op: store.OpInsert, ID: "p1"})
	ts.changes.Publish(store.Change{Table: store.TableArticles, Op: store.OpUpdate, ID: "a1"})

	event, data := readEvent()
	if event != "change" {
		t.Fatalf("Expected change event, got %q", event)
	}
	var change store.Change
	if err := json.Unmarshal([]byte(data), &change); err != nil {
		t.Fatalf("invalid change payload %q: %v", data, err)
	}
	if change.Table != store.TableArticles || change.ID != "a1" || change.Op != store.OpUpdate {
		t.Errorf("Unexpected change %+v", change)
	}
}

func TestEventsStream_UnknownTable(t *testing.T) {
	ts := setupTestRouter()

	w := ts.do("GET", "/api/admin/events?table=admin_users", nil, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}
