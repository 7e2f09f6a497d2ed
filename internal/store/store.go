// Package store defines the generic tabular Store Adapter used by the
// repositories, plus the change feed fan-out shared by its implementations.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Table names used by the application
const (
	TableArticles       = "articles"
	TableArticleHistory = "article_history"
	TableAdminUsers     = "admin_users"
	TableProjects       = "projects"
	TableTeamMembers    = "team_members"
	TableSubscribers    = "newsletter_subscribers"
	TableArticleViews   = "article_views"
	TableSiteAnalytics  = "site_analytics"
)

var (
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("store: unique constraint violation")
	// ErrNotFound is returned by Update when no row has the given id.
	ErrNotFound = errors.New("store: record not found")
	// ErrInvalidIdentifier is returned for table or column names that are not plain identifiers.
	ErrInvalidIdentifier = errors.New("store: invalid identifier")
)

// Order is one ORDER BY term
type Order struct {
	Column string
	Desc   bool
}

// Asc orders by column ascending
func Asc(column string) Order { return Order{Column: column} }

// Desc orders by column descending
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// Query selects rows of a single table.
// Eq and Gte conditions are ANDed; Limit <= 0 means no limit.
type Query struct {
	Eq      map[string]any
	Gte     map[string]any
	OrderBy []Order
	Limit   int
}

// Op is the kind of write reported on the change feed
type Op string

const (
	OpInsert Op = "INSERT"
	OpUpdate Op = "UPDATE"
	OpDelete Op = "DELETE"
)

// Change is a single notification on the change feed.
// Record is the post-write row when the backend has it at hand; it is nil for
// deletes and for notifications relayed from another process.
type Change struct {
	Table  string `json:"table"`
	Op     Op     `json:"op"`
	ID     string `json:"id"`
	Record Record `json:"record,omitempty"`
}

// Store is the persistence boundary. Implementations must be safe for
// concurrent use; no operation retries on failure.
type Store interface {
	// Insert writes rec and returns the persisted record. A missing "id" is generated.
	Insert(ctx context.Context, table string, rec Record) (Record, error)
	// Update applies patch to the row with the given id and returns the full row.
	Update(ctx context.Context, table, id string, patch Record) (Record, error)
	// Increment atomically adds delta to an integer column of the row with the
	// given id, applies patch in the same write and returns the full row.
	Increment(ctx context.Context, table, id, column string, delta int, patch Record) (Record, error)
	// Delete removes the row with the given id. Deleting a missing row is not an error.
	Delete(ctx context.Context, table, id string) error
	// Select returns the rows matching q.
	Select(ctx context.Context, table string, q Query) ([]Record, error)
	// Subscribe registers fn for changes to table ("" for every table).
	// The returned function removes the subscription.
	Subscribe(table string, fn func(Change)) (cancel func())
	// Close releases resources held by the store, not the underlying database.
	Close() error
}

var identifierRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// CheckIdentifiers reports ErrInvalidIdentifier for the first name that is not
// a plain lower-case SQL identifier.
func CheckIdentifiers(names ...string) error {
	for _, n := range names {
		if !identifierRegex.MatchString(n) {
			return fmt.Errorf("%w: %q", ErrInvalidIdentifier, n)
		}
	}
	return nil
}

// CheckQuery validates every identifier referenced by a query.
func CheckQuery(table string, q Query) error {
	if err := CheckIdentifiers(table); err != nil {
		return err
	}
	for col := range q.Eq {
		if err := CheckIdentifiers(col); err != nil {
			return err
		}
	}
	for col := range q.Gte {
		if err := CheckIdentifiers(col); err != nil {
			return err
		}
	}
	for _, o := range q.OrderBy {
		if err := CheckIdentifiers(o.Column); err != nil {
			return err
		}
	}
	return nil
}
