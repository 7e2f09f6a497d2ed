package repository

import (
	"context"

	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/store"
)

// projectRepo is the concrete implementation of ProjectRepository
type projectRepo struct {
	s store.Store
}

// NewProjectRepo creates a new project repository
func NewProjectRepo(s store.Store) ProjectRepository {
	return &projectRepo{s: s}
}

// Create inserts a new project
func (r *projectRepo) Create(ctx context.Context, p *models.Project) error {
	p.ID = newID(p.ID)
	p.CreatedAt = nowIfZero(p.CreatedAt)
	p.UpdatedAt = nowIfZero(p.UpdatedAt)

	_, err := r.s.Insert(ctx, store.TableProjects, store.Record{
		"id":          p.ID,
		"title":       p.Title,
		"slug":        p.Slug,
		"description": store.Nullable(p.Description),
		"content":     store.Nullable(p.Content),
		"image_url":   store.Nullable(p.ImageURL),
		"order_index": p.OrderIndex,
		"published":   p.Published,
		"created_at":  p.CreatedAt,
		"updated_at":  p.UpdatedAt,
	})
	return err
}

// ListPublished returns published projects in display order
func (r *projectRepo) ListPublished(ctx context.Context) ([]*models.Project, error) {
	rows, err := r.s.Select(ctx, store.TableProjects, store.Query{
		Eq:      map[string]any{"published": true},
		OrderBy: []store.Order{store.Asc("order_index")},
	})
	if err != nil {
		return nil, err
	}

	projects := make([]*models.Project, 0, len(rows))
	for _, rec := range rows {
		projects = append(projects, projectFromRecord(rec))
	}
	return projects, nil
}

// GetPublishedBySlug retrieves a published project by slug
func (r *projectRepo) GetPublishedBySlug(ctx context.Context, slug string) (*models.Project, error) {
	rec, err := first(ctx, r.s, store.TableProjects, store.Query{
		Eq: map[string]any{"slug": slug, "published": true},
	})
	if err != nil || rec == nil {
		return nil, err
	}
	return projectFromRecord(rec), nil
}

func projectFromRecord(rec store.Record) *models.Project {
	return &models.Project{
		ID:          rec.ID(),
		Title:       rec.String("title"),
		Slug:        rec.String("slug"),
		Description: rec.StringPtr("description"),
		Content:     rec.StringPtr("content"),
		ImageURL:    rec.StringPtr("image_url"),
		OrderIndex:  rec.Int("order_index"),
		Published:   rec.Bool("published"),
		CreatedAt:   rec.Time("created_at"),
		UpdatedAt:   rec.Time("updated_at"),
	}
}

// teamRepo is the concrete implementation of TeamRepository
type teamRepo struct {
	s store.Store
}

// NewTeamRepo creates a new team member repository
func NewTeamRepo(s store.Store) TeamRepository {
	return &teamRepo{s: s}
}

// Create inserts a new team member
func (r *teamRepo) Create(ctx context.Context, m *models.TeamMember) error {
	m.ID = newID(m.ID)
	m.CreatedAt = nowIfZero(m.CreatedAt)

	_, err := r.s.Insert(ctx, store.TableTeamMembers, store.Record{
		"id":          m.ID,
		"name":        m.Name,
		"role":        store.Nullable(m.Role),
		"bio":         store.Nullable(m.Bio),
		"image_url":   store.Nullable(m.ImageURL),
		"order_index": m.OrderIndex,
		"published":   m.Published,
		"created_at":  m.CreatedAt,
	})
	return err
}

// ListPublished returns published team members in display order
func (r *teamRepo) ListPublished(ctx context.Context) ([]*models.TeamMember, error) {
	rows, err := r.s.Select(ctx, store.TableTeamMembers, store.Query{
		Eq:      map[string]any{"published": true},
		OrderBy: []store.Order{store.Asc("order_index")},
	})
	if err != nil {
		return nil, err
	}

	members := make([]*models.TeamMember, 0, len(rows))
	for _, rec := range rows {
		members = append(members, &models.TeamMember{
			ID:         rec.ID(),
			Name:       rec.String("name"),
			Role:       rec.StringPtr("role"),
			Bio:        rec.StringPtr("bio"),
			ImageURL:   rec.StringPtr("image_url"),
			OrderIndex: rec.Int("order_index"),
			Published:  rec.Bool("published"),
			CreatedAt:  rec.Time("created_at"),
		})
	}
	return members, nil
}
