package service

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/association-site-api/internal/config"
	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/repository"
	"github.com/association-site-api/internal/store/memstore"
)

var testContent = config.ContentConfig{
	HistoryDefaultLimit: 10,
	HistoryMaxLimit:     100,
	ProjectSummaryWords: 50,
	AnalyticsDays:       30,
}

var (
	editor   = models.Identity{ID: "0b8f5a36-5d0c-4c8e-9a43-9d1f3c6c7a01", Username: "editor"}
	reviewer = models.Identity{ID: "7c2d4e1f-3b6a-4f8e-8d2c-1a5b9e0f4c02", Username: "reviewer"}
)

// stepClock returns a clock that advances one second per call
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := current
		current = current.Add(time.Second)
		return t
	}
}

type testEnv struct {
	store   *memstore.Store
	repos   *repository.Repositories
	logs    *bytes.Buffer
	article *articleService
	history *historyService
}

func newTestEnv(t testing.TB) *testEnv {
	t.Helper()

	s := memstore.New()
	repos := repository.New(s)
	logs := &bytes.Buffer{}
	log := zerolog.New(logs)

	articles := newArticleService(repos, log)
	articles.now = stepClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))

	return &testEnv{
		store:   s,
		repos:   repos,
		logs:    logs,
		article: articles,
		history: newHistoryService(repos.History, testContent, zerolog.Nop()),
	}
}

func strPtr(s string) *string { return &s }
