// Package memstore is an in-process implementation of store.Store used for
// development runs and tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/association-site-api/internal/store"
)

// DefaultUnique mirrors the unique constraints of the SQL schema. An entry
// naming several comma-separated columns is a composite constraint.
var DefaultUnique = map[string][]string{
	store.TableArticles:      {"slug"},
	store.TableAdminUsers:    {"username"},
	store.TableProjects:      {"slug"},
	store.TableSubscribers:   {"email"},
	store.TableSiteAnalytics: {"date,page_path"},
}

type row struct {
	rec store.Record
	seq int64
}

// Store keeps every table in memory behind a single RWMutex.
type Store struct {
	mu     sync.RWMutex
	tables map[string]map[string]row
	unique map[string][]string
	seq    int64
	broker *store.Broker
	failOn map[string]error
}

// New creates an empty store enforcing DefaultUnique.
func New() *Store {
	return NewWithUnique(DefaultUnique)
}

// NewWithUnique creates an empty store with the given unique columns per table.
func NewWithUnique(unique map[string][]string) *Store {
	return &Store{
		tables: make(map[string]map[string]row),
		unique: unique,
		broker: store.NewBroker(),
		failOn: make(map[string]error),
	}
}

// FailWrites makes every subsequent write to table return err; nil clears it.
// Used to simulate persistence outages.
func (s *Store) FailWrites(table string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failOn, table)
		return
	}
	s.failOn[table] = err
}

func (s *Store) Insert(ctx context.Context, table string, rec store.Record) (store.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := store.CheckIdentifiers(table); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if err := s.failOn[table]; err != nil {
		s.mu.Unlock()
		return nil, err
	}

	out := rec.Clone()
	id := out.ID()
	if id == "" {
		id = uuid.NewString()
		out["id"] = id
	}

	rows := s.table(table)
	if _, exists := rows[id]; exists {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s.id", store.ErrConflict, table)
	}
	if err := s.checkUnique(table, id, out); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	s.seq++
	rows[id] = row{rec: out, seq: s.seq}
	s.mu.Unlock()

	s.broker.Publish(store.Change{Table: table, Op: store.OpInsert, ID: id, Record: out.Clone()})
	return out.Clone(), nil
}

func (s *Store) Update(ctx context.Context, table, id string, patch store.Record) (store.Record, error) {
	return s.update(ctx, table, id, func(merged store.Record) {
		for k, v := range patch {
			if k == "id" {
				continue
			}
			merged[k] = v
		}
	})
}

func (s *Store) Increment(ctx context.Context, table, id, column string, delta int, patch store.Record) (store.Record, error) {
	if err := store.CheckIdentifiers(column); err != nil {
		return nil, err
	}
	return s.update(ctx, table, id, func(merged store.Record) {
		for k, v := range patch {
			if k == "id" || k == column {
				continue
			}
			merged[k] = v
		}
		merged[column] = merged.Int(column) + delta
	})
}

// update applies mutate to a copy of the row under the write lock
func (s *Store) update(ctx context.Context, table, id string, mutate func(store.Record)) (store.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := store.CheckIdentifiers(table); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if err := s.failOn[table]; err != nil {
		s.mu.Unlock()
		return nil, err
	}

	rows := s.table(table)
	current, ok := rows[id]
	if !ok {
		s.mu.Unlock()
		return nil, store.ErrNotFound
	}

	merged := current.rec.Clone()
	mutate(merged)
	if err := s.checkUnique(table, id, merged); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	rows[id] = row{rec: merged, seq: current.seq}
	s.mu.Unlock()

	s.broker.Publish(store.Change{Table: table, Op: store.OpUpdate, ID: id, Record: merged.Clone()})
	return merged.Clone(), nil
}

func (s *Store) Delete(ctx context.Context, table, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := store.CheckIdentifiers(table); err != nil {
		return err
	}

	s.mu.Lock()
	if err := s.failOn[table]; err != nil {
		s.mu.Unlock()
		return err
	}
	rows := s.table(table)
	_, existed := rows[id]
	delete(rows, id)
	s.mu.Unlock()

	if existed {
		s.broker.Publish(store.Change{Table: table, Op: store.OpDelete, ID: id})
	}
	return nil
}

func (s *Store) Select(ctx context.Context, table string, q store.Query) ([]store.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := store.CheckQuery(table, q); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := make([]row, 0)
	for _, r := range s.tables[table] {
		if matches(r.rec, q) {
			matched = append(matched, r)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		for _, o := range q.OrderBy {
			c := compare(a.rec[o.Column], b.rec[o.Column])
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		// insertion order breaks ties, following the direction of the first term
		if len(q.OrderBy) > 0 && q.OrderBy[0].Desc {
			return a.seq > b.seq
		}
		return a.seq < b.seq
	})

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	out := make([]store.Record, len(matched))
	for i, r := range matched {
		out[i] = r.rec.Clone()
	}
	return out, nil
}

func (s *Store) Subscribe(table string, fn func(store.Change)) func() {
	return s.broker.Subscribe(table, fn)
}

func (s *Store) Close() error { return nil }

// Len returns the number of rows in table
func (s *Store) Len(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables[table])
}

// table must be called with mu held for writing
func (s *Store) table(name string) map[string]row {
	rows, ok := s.tables[name]
	if !ok {
		rows = make(map[string]row)
		s.tables[name] = rows
	}
	return rows
}

func (s *Store) checkUnique(table, id string, rec store.Record) error {
	for _, constraint := range s.unique[table] {
		cols := strings.Split(constraint, ",")
		if !hasAll(rec, cols) {
			continue
		}
		for otherID, other := range s.tables[table] {
			if otherID == id {
				continue
			}
			if sameValues(other.rec, rec, cols) {
				return fmt.Errorf("%w: %s(%s)", store.ErrConflict, table, constraint)
			}
		}
	}
	return nil
}

// hasAll reports whether every column is set; NULLs never collide.
func hasAll(rec store.Record, cols []string) bool {
	for _, col := range cols {
		if v, ok := rec[col]; !ok || v == nil {
			return false
		}
	}
	return true
}

func sameValues(a, b store.Record, cols []string) bool {
	for _, col := range cols {
		if compare(a[col], b[col]) != 0 {
			return false
		}
	}
	return true
}

func matches(rec store.Record, q store.Query) bool {
	for col, want := range q.Eq {
		if compare(rec[col], want) != 0 {
			return false
		}
	}
	for col, min := range q.Gte {
		v, ok := rec[col]
		if !ok || v == nil || compare(v, min) < 0 {
			return false
		}
	}
	return true
}

// compare orders scalar column values. NULL sorts first; values of
// different kinds fall back to their string form.
func compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	}

	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
