package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/repository"
	"github.com/association-site-api/internal/store"
	"github.com/association-site-api/internal/store/memstore"
)

func TestSubscribe(t *testing.T) {
	s := memstore.New()
	repos := repository.New(s)
	newsletter := newNewsletterService(repos.Subscriber, zerolog.Nop())
	ctx := context.Background()

	t.Run("normalizes the address", func(t *testing.T) {
		sub, err := newsletter.Subscribe(ctx, "  Reader@Example.ORG ", "203.0.113.7", "Mozilla/5.0")
		require.NoError(t, err)
		assert.Equal(t, "reader@example.org", sub.Email)
		assert.Equal(t, "203.0.113.7", sub.IPAddress)
		assert.NotEmpty(t, sub.ID)
	})

	t.Run("missing client details stored as unknown", func(t *testing.T) {
		sub, err := newsletter.Subscribe(ctx, "anon@example.org", "", "  ")
		require.NoError(t, err)
		assert.Equal(t, "unknown", sub.IPAddress)
		assert.Equal(t, "unknown", sub.UserAgent)
	})

	t.Run("duplicate is a conflict", func(t *testing.T) {
		_, err := newsletter.Subscribe(ctx, "READER@example.org", "", "")
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("invalid address", func(t *testing.T) {
		for _, email := range []string{"", "not-an-email", "a@b"} {
			_, err := newsletter.Subscribe(ctx, email, "", "")
			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr), "email %q", email)
			assert.Equal(t, "email", verr.Errors[0].Field)
		}
	})

	count, err := repos.Subscriber.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	t.Run("store failure", func(t *testing.T) {
		s.FailWrites(store.TableSubscribers, errors.New("disk full"))
		_, err := newsletter.Subscribe(ctx, "late@example.org", "", "")
		assert.ErrorIs(t, err, models.ErrPersistence)
	})
}
