// Package sqlstore implements store.Store on database/sql for PostgreSQL
// (lib/pq) and SQLite (mattn/go-sqlite3), building statements with squirrel.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/association-site-api/internal/store"
)

// Dialects understood by the store
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// Store is a store.Store backed by a *sql.DB
type Store struct {
	db      *sql.DB
	dialect string
	sb      squirrel.StatementBuilderType
	broker  *store.Broker
	log     zerolog.Logger

	// listener relays trigger notifications; when nil, writes made through
	// this Store are published locally instead.
	listener *pq.Listener
	done     chan struct{}
}

// Option configures a Store
type Option func(*Store) error

// WithListener subscribes to a PostgreSQL NOTIFY channel fed by the content
// triggers, so that writes from any process reach subscribers.
func WithListener(dsn, channel string) Option {
	return func(s *Store) error {
		if s.dialect != DialectPostgres {
			return fmt.Errorf("sqlstore: change listener requires %s, got %s", DialectPostgres, s.dialect)
		}
		l := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
			if err != nil {
				s.log.Warn().Err(err).Int("event", int(ev)).Msg("Change listener event")
			}
		})
		if err := l.Listen(channel); err != nil {
			l.Close()
			return fmt.Errorf("sqlstore: listen %s: %w", channel, err)
		}
		s.listener = l
		go s.forward(channel)
		return nil
	}
}

// New creates a Store for the given dialect
func New(db *sql.DB, dialect string, log zerolog.Logger, opts ...Option) (*Store, error) {
	var format squirrel.PlaceholderFormat
	switch dialect {
	case DialectPostgres:
		format = squirrel.Dollar
	case DialectSQLite:
		format = squirrel.Question
	default:
		return nil, fmt.Errorf("sqlstore: unsupported dialect %q", dialect)
	}

	s := &Store{
		db:      db,
		dialect: dialect,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(format),
		broker:  store.NewBroker(),
		log:     log.With().Str("component", "sqlstore").Str("dialect", dialect).Logger(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Insert(ctx context.Context, table string, rec store.Record) (store.Record, error) {
	if err := store.CheckIdentifiers(table); err != nil {
		return nil, err
	}
	out := rec.Clone()
	if out.ID() == "" {
		out["id"] = uuid.NewString()
	}
	if err := store.CheckIdentifiers(columns(out)...); err != nil {
		return nil, err
	}

	query, args, err := s.sb.Insert(table).SetMap(out).ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlstore: build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, mapError(err)
	}

	s.publish(store.Change{Table: table, Op: store.OpInsert, ID: out.ID(), Record: out.Clone()})
	return out, nil
}

func (s *Store) Update(ctx context.Context, table, id string, patch store.Record) (store.Record, error) {
	if err := store.CheckIdentifiers(table); err != nil {
		return nil, err
	}
	set := patch.Clone()
	delete(set, "id")
	if err := store.CheckIdentifiers(columns(set)...); err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return s.reload(ctx, table, id)
	}
	return s.exec(ctx, table, id, s.sb.Update(table).SetMap(set))
}

func (s *Store) Increment(ctx context.Context, table, id, column string, delta int, patch store.Record) (store.Record, error) {
	if err := store.CheckIdentifiers(table, column); err != nil {
		return nil, err
	}
	set := patch.Clone()
	delete(set, "id")
	delete(set, column)
	if err := store.CheckIdentifiers(columns(set)...); err != nil {
		return nil, err
	}

	b := s.sb.Update(table).Set(column, squirrel.Expr(column+" + ?", delta))
	if len(set) > 0 {
		b = b.SetMap(set)
	}
	return s.exec(ctx, table, id, b)
}

// exec runs an UPDATE restricted to id, then publishes and returns the row
func (s *Store) exec(ctx context.Context, table, id string, b squirrel.UpdateBuilder) (store.Record, error) {
	query, args, err := b.Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlstore: build update: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, store.ErrNotFound
	}
	return s.reload(ctx, table, id)
}

func (s *Store) reload(ctx context.Context, table, id string) (store.Record, error) {
	rows, err := s.Select(ctx, table, store.Query{Eq: map[string]any{"id": id}, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}

	s.publish(store.Change{Table: table, Op: store.OpUpdate, ID: id, Record: rows[0].Clone()})
	return rows[0], nil
}

func (s *Store) Delete(ctx context.Context, table, id string) error {
	if err := store.CheckIdentifiers(table); err != nil {
		return err
	}
	query, args, err := s.sb.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("sqlstore: build delete: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.publish(store.Change{Table: table, Op: store.OpDelete, ID: id})
	}
	return nil
}

func (s *Store) Select(ctx context.Context, table string, q store.Query) ([]store.Record, error) {
	if err := store.CheckQuery(table, q); err != nil {
		return nil, err
	}

	sel := s.sb.Select("*").From(table)
	if len(q.Eq) > 0 {
		sel = sel.Where(squirrel.Eq(q.Eq))
	}
	if len(q.Gte) > 0 {
		sel = sel.Where(squirrel.GtOrEq(q.Gte))
	}
	for _, o := range q.OrderBy {
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		sel = sel.OrderBy(o.Column + dir)
	}
	if q.Limit > 0 {
		sel = sel.Limit(uint64(q.Limit))
	}

	query, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlstore: build select: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *Store) Subscribe(table string, fn func(store.Change)) func() {
	return s.broker.Subscribe(table, fn)
}

// Close stops the change listener. The *sql.DB stays open.
func (s *Store) Close() error {
	select {
	case <-s.done:
		return nil
	default:
		close(s.done)
	}
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

func (s *Store) publish(c store.Change) {
	if s.listener != nil {
		return
	}
	s.broker.Publish(c)
}

func (s *Store) forward(channel string) {
	s.log.Info().Str("channel", channel).Msg("Change listener started")
	for {
		select {
		case <-s.done:
			return
		case n, ok := <-s.listener.Notify:
			if !ok {
				return
			}
			// nil after a reconnect; notifications may have been missed
			if n == nil {
				s.log.Warn().Msg("Change listener reconnected")
				continue
			}
			var c store.Change
			if err := json.Unmarshal([]byte(n.Extra), &c); err != nil {
				s.log.Error().Err(err).Str("payload", n.Extra).Msg("Invalid change payload")
				continue
			}
			s.broker.Publish(c)
		case <-time.After(90 * time.Second):
			go func() {
				if err := s.listener.Ping(); err != nil {
					s.log.Warn().Err(err).Msg("Change listener ping failed")
				}
			}()
		}
	}
}

func scanRecords(rows *sql.Rows) ([]store.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([]store.Record, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		rec := make(store.Record, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				rec[col] = string(b)
				continue
			}
			rec[col] = values[i]
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func columns(rec store.Record) []string {
	cols := make([]string, 0, len(rec))
	for k := range rec {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// mapError translates unique violations of either driver into store.ErrConflict.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", store.ErrConflict, pqErr.Constraint)
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) &&
		(liteErr.ExtendedCode == sqlite3.ErrConstraintUnique || liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return fmt.Errorf("%w: %s", store.ErrConflict, liteErr.Error())
	}
	return err
}
