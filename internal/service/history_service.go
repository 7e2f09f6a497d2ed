package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/association-site-api/internal/config"
	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/repository"
)

// historyService is the concrete implementation of HistoryService
type historyService struct {
	history      repository.HistoryRepository
	defaultLimit int
	maxLimit     int
	log          zerolog.Logger
}

// newHistoryService creates a new HistoryService
func newHistoryService(history repository.HistoryRepository, cfg config.ContentConfig, log zerolog.Logger) *historyService {
	return &historyService{
		history:      history,
		defaultLimit: cfg.HistoryDefaultLimit,
		maxLimit:     cfg.HistoryMaxLimit,
		log:          log.With().Str("service", "history").Logger(),
	}
}

// List returns the newest entries for an article. An unknown article yields
// an empty slice.
func (s *historyService) List(ctx context.Context, articleID string, limit int) ([]*models.ArticleHistoryEntry, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	entries, err := s.history.ListByArticle(ctx, articleID, limit)
	if err != nil {
		return nil, storeError("list history", err)
	}
	if entries == nil {
		entries = []*models.ArticleHistoryEntry{}
	}
	return entries, nil
}
