package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/repository"
	"github.com/association-site-api/internal/validation"
)

const unknownValue = "unknown"

// newsletterService is the concrete implementation of NewsletterService
type newsletterService struct {
	subscribers repository.SubscriberRepository
	log         zerolog.Logger
}

// newNewsletterService creates a new NewsletterService
func newNewsletterService(subscribers repository.SubscriberRepository, log zerolog.Logger) *newsletterService {
	return &newsletterService{
		subscribers: subscribers,
		log:         log.With().Str("service", "newsletter").Logger(),
	}
}

// Subscribe registers an address. Duplicates return models.ErrConflict.
func (s *newsletterService) Subscribe(ctx context.Context, email, ip, userAgent string) (*models.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if errs := validation.ValidateEmail(email); len(errs) > 0 {
		return nil, models.NewValidationErrors(errs)
	}

	sub := &models.Subscriber{
		Email:     email,
		IPAddress: orUnknown(ip),
		UserAgent: orUnknown(userAgent),
	}
	if err := s.subscribers.Create(ctx, sub); err != nil {
		return nil, storeError("subscribe", err)
	}

	s.log.Info().Str("subscriber_id", sub.ID).Msg("Newsletter subscription added")
	return sub, nil
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return unknownValue
	}
	return s
}
