package repository

import (
	"context"

	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/store"
)

// subscriberRepo is the concrete implementation of SubscriberRepository
type subscriberRepo struct {
	s store.Store
}

// NewSubscriberRepo creates a new newsletter subscriber repository
func NewSubscriberRepo(s store.Store) SubscriberRepository {
	return &subscriberRepo{s: s}
}

// Create inserts a subscription. A duplicate email yields store.ErrConflict.
func (r *subscriberRepo) Create(ctx context.Context, sub *models.Subscriber) error {
	sub.ID = newID(sub.ID)
	sub.CreatedAt = nowIfZero(sub.CreatedAt)

	_, err := r.s.Insert(ctx, store.TableSubscribers, store.Record{
		"id":         sub.ID,
		"email":      sub.Email,
		"ip_address": sub.IPAddress,
		"user_agent": sub.UserAgent,
		"created_at": sub.CreatedAt,
	})
	return err
}

// Count returns the number of subscribers
func (r *subscriberRepo) Count(ctx context.Context) (int, error) {
	rows, err := r.s.Select(ctx, store.TableSubscribers, store.Query{})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// StreamAll streams subscribers oldest first
func (r *subscriberRepo) StreamAll(ctx context.Context, callback func(*models.Subscriber) error) error {
	rows, err := r.s.Select(ctx, store.TableSubscribers, store.Query{OrderBy: []store.Order{store.Asc("created_at")}})
	if err != nil {
		return err
	}
	for _, rec := range rows {
		sub := &models.Subscriber{
			ID:        rec.ID(),
			Email:     rec.String("email"),
			IPAddress: rec.String("ip_address"),
			UserAgent: rec.String("user_agent"),
			CreatedAt: rec.Time("created_at"),
		}
		if err := callback(sub); err != nil {
			return err
		}
	}
	return nil
}
