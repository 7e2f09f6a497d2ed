package repository

import (
	"context"

	"github.com/association-site-api/internal/models"
	"github.com/association-site-api/internal/store"
)

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	s store.Store
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(s store.Store) ArticleRepository {
	return &articleRepo{s: s}
}

// Create inserts a new article and fills in its ID
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	article.ID = newID(article.ID)
	article.CreatedAt = nowIfZero(article.CreatedAt)
	article.UpdatedAt = nowIfZero(article.UpdatedAt)

	rec := articleRecord(article)
	rec["id"] = article.ID
	rec["author_id"] = nullableID(article.AuthorID)
	rec["created_at"] = article.CreatedAt

	_, err := r.s.Insert(ctx, store.TableArticles, rec)
	return err
}

// Update overwrites the editable fields of an existing article.
// author_id and created_at are never changed.
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	if !validID(article.ID) {
		return store.ErrNotFound
	}
	article.UpdatedAt = nowIfZero(article.UpdatedAt)

	rec, err := r.s.Update(ctx, store.TableArticles, article.ID, articleRecord(article))
	if err != nil {
		return err
	}
	*article = *articleFromRecord(rec)
	return nil
}

// Delete removes an article. Missing ids are ignored.
func (r *articleRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	return r.s.Delete(ctx, store.TableArticles, id)
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	if !validID(id) {
		return nil, nil
	}
	rec, err := first(ctx, r.s, store.TableArticles, store.Query{Eq: map[string]any{"id": id}})
	if err != nil || rec == nil {
		return nil, err
	}
	return articleFromRecord(rec), nil
}

// GetBySlug retrieves an article by slug
func (r *articleRepo) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Article, error) {
	eq := map[string]any{"slug": slug}
	if publishedOnly {
		eq["published"] = true
	}
	rec, err := first(ctx, r.s, store.TableArticles, store.Query{Eq: eq})
	if err != nil || rec == nil {
		return nil, err
	}
	return articleFromRecord(rec), nil
}

// List returns articles newest first
func (r *articleRepo) List(ctx context.Context, filter ArticleFilter) ([]*models.Article, error) {
	eq := map[string]any{}
	if filter.Category != "" {
		eq["category"] = string(filter.Category)
	}
	if filter.PublishedOnly {
		eq["published"] = true
	}

	rows, err := r.s.Select(ctx, store.TableArticles, store.Query{
		Eq:      eq,
		OrderBy: []store.Order{store.Desc("created_at")},
		Limit:   filter.Limit,
	})
	if err != nil {
		return nil, err
	}

	articles := make([]*models.Article, 0, len(rows))
	for _, rec := range rows {
		articles = append(articles, articleFromRecord(rec))
	}
	return articles, nil
}

// StreamAll streams all articles for export, oldest first
func (r *articleRepo) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	rows, err := r.s.Select(ctx, store.TableArticles, store.Query{OrderBy: []store.Order{store.Asc("created_at")}})
	if err != nil {
		return err
	}
	for _, rec := range rows {
		if err := callback(articleFromRecord(rec)); err != nil {
			return err
		}
	}
	return nil
}

// articleRecord holds the columns written on every save
func articleRecord(a *models.Article) store.Record {
	return store.Record{
		"title":                     a.Title,
		"slug":                      a.Slug,
		"content":                   store.Nullable(a.Content),
		"excerpt":                   store.Nullable(a.Excerpt),
		"featured_image_url":        store.Nullable(a.FeaturedImageURL),
		"category":                  string(a.Category),
		"published":                 a.Published,
		"last_modified_by":          nullableID(a.LastModifiedBy),
		"last_modified_by_username": a.LastModifiedByUsername,
		"updated_at":                a.UpdatedAt,
	}
}

func articleFromRecord(rec store.Record) *models.Article {
	return &models.Article{
		ID:                     rec.ID(),
		Title:                  rec.String("title"),
		Slug:                   rec.String("slug"),
		Content:                rec.StringPtr("content"),
		Excerpt:                rec.StringPtr("excerpt"),
		FeaturedImageURL:       rec.StringPtr("featured_image_url"),
		Category:               models.Category(rec.String("category")),
		Published:              rec.Bool("published"),
		AuthorID:               rec.String("author_id"),
		LastModifiedBy:         rec.String("last_modified_by"),
		LastModifiedByUsername: rec.String("last_modified_by_username"),
		CreatedAt:              rec.Time("created_at"),
		UpdatedAt:              rec.Time("updated_at"),
	}
}

// nullableID stores an empty user reference as NULL
func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}
