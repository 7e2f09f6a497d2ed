//go:build integration

package sqlstore_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/association-site-api/internal/config"
	"github.com/association-site-api/internal/database"
	"github.com/association-site-api/internal/store"
)

const migrationsPath = "../../../migrations"

var (
	once     sync.Once
	sharedDB config.DatabaseConfig
	initErr  error
)

// setupPostgres starts one PostgreSQL container for the whole run, applies
// the migrations and returns a store connected to it with the change listener on.
func setupPostgres(t *testing.T) store.Store {
	t.Helper()

	once.Do(func() {
		sharedDB, initErr = startContainer()
	})
	if initErr != nil {
		t.Fatalf("failed to set up postgres: %v", initErr)
	}

	log := zerolog.Nop()
	cfg := sharedDB
	db, err := database.New(&cfg, log)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(migrationsPath))

	s, err := database.NewStore(&cfg, db, log)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
		db.Close()
	})
	return s
}

func startContainer() (config.DatabaseConfig, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return config.DatabaseConfig{}, fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return config.DatabaseConfig{}, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return config.DatabaseConfig{}, fmt.Errorf("get mapped port: %w", err)
	}

	return config.DatabaseConfig{
		Driver:        config.DriverPostgres,
		Host:          host,
		Port:          port.Port(),
		User:          "testuser",
		Password:      "testpass",
		Name:          "testdb",
		SSLMode:       "disable",
		MaxOpenConns:  5,
		MaxIdleConns:  2,
		MaxLifetime:   time.Minute,
		NotifyChannel: "content_changes",
	}, nil
}

func articleRecord(slug string) store.Record {
	now := time.Now().UTC()
	return store.Record{
		"id":         uuid.NewString(),
		"title":      "Title " + slug,
		"slug":       slug,
		"category":   "about",
		"published":  false,
		"created_at": now,
		"updated_at": now,
	}
}

func TestPostgres_CRUD(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()
	slug := "crud-" + uuid.NewString()[:8]

	rec, err := s.Insert(ctx, store.TableArticles, articleRecord(slug))
	require.NoError(t, err)

	rows, err := s.Select(ctx, store.TableArticles, store.Query{Eq: map[string]any{"slug": slug}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, rec.ID(), rows[0].ID())
	assert.False(t, rows[0].Bool("published"))

	updated, err := s.Update(ctx, store.TableArticles, rec.ID(), store.Record{"published": true})
	require.NoError(t, err)
	assert.True(t, updated.Bool("published"))

	_, err = s.Update(ctx, store.TableArticles, uuid.NewString(), store.Record{"published": true})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Delete(ctx, store.TableArticles, rec.ID()))
	rows, err = s.Select(ctx, store.TableArticles, store.Query{Eq: map[string]any{"id": rec.ID()}})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestPostgres_UniqueViolationIsConflict(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()
	slug := "dup-" + uuid.NewString()[:8]

	_, err := s.Insert(ctx, store.TableArticles, articleRecord(slug))
	require.NoError(t, err)
	_, err = s.Insert(ctx, store.TableArticles, articleRecord(slug))
	assert.ErrorIs(t, err, store.ErrConflict)

	day := store.Record{"date": "2024-06-01", "page_path": "/" + uuid.NewString(), "page_views": 1, "unique_visitors": 1}
	_, err = s.Insert(ctx, store.TableSiteAnalytics, day)
	require.NoError(t, err)
	again := day.Clone()
	delete(again, "id")
	_, err = s.Insert(ctx, store.TableSiteAnalytics, again)
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestPostgres_ChangeFeedFromTriggers(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	changes := make(chan store.Change, 8)
	cancel := s.Subscribe(store.TableArticles, func(ch store.Change) { changes <- ch })
	defer cancel()

	rec, err := s.Insert(ctx, store.TableArticles, articleRecord("feed-"+uuid.NewString()[:8]))
	require.NoError(t, err)

	select {
	case ch := <-changes:
		assert.Equal(t, store.TableArticles, ch.Table)
		assert.Equal(t, store.OpInsert, ch.Op)
		assert.Equal(t, rec.ID(), ch.ID)
	case <-time.After(10 * time.Second):
		t.Fatal("no notification received")
	}
}
