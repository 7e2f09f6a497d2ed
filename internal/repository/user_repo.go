package repository

import (
	"context"

	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/store"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	s store.Store
}

// NewUserRepo creates a new admin user repository
func NewUserRepo(s store.Store) UserRepository {
	return &userRepo{s: s}
}

// Create inserts a new admin user
func (r *userRepo) Create(ctx context.Context, user *models.AdminUser) error {
	user.ID = newID(user.ID)
	user.CreatedAt = nowIfZero(user.CreatedAt)

	_, err := r.s.Insert(ctx, store.TableAdminUsers, store.Record{
		"id":            user.ID,
		"username":      user.Username,
		"password_hash": user.PasswordHash,
		"full_name":     store.Nullable(user.FullName),
		"created_at":    user.CreatedAt,
	})
	return err
}

// GetByID retrieves an admin user by ID
func (r *userRepo) GetByID(ctx context.Context, id string) (*models.AdminUser, error) {
	if !validID(id) {
		return nil, nil
	}
	rec, err := first(ctx, r.s, store.TableAdminUsers, store.Query{Eq: map[string]any{"id": id}})
	if err != nil || rec == nil {
		return nil, err
	}
	return userFromRecord(rec), nil
}

// GetByUsername retrieves an admin user by username
func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	rec, err := first(ctx, r.s, store.TableAdminUsers, store.Query{Eq: map[string]any{"username": username}})
	if err != nil || rec == nil {
		return nil, err
	}
	return userFromRecord(rec), nil
}

// SetPasswordHash replaces the stored bcrypt hash
func (r *userRepo) SetPasswordHash(ctx context.Context, id, hash string) error {
	if !validID(id) {
		return store.ErrNotFound
	}
	_, err := r.s.Update(ctx, store.TableAdminUsers, id, store.Record{"password_hash": hash})
	return err
}

func userFromRecord(rec store.Record) *models.AdminUser {
	return &models.AdminUser{
		ID:           rec.ID(),
		Username:     rec.String("username"),
		PasswordHash: rec.String("password_hash"),
		FullName:     rec.StringPtr("full_name"),
		CreatedAt:    rec.Time("created_at"),
	}
}
