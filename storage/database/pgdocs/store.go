// Package pgdocs stores documents as JSONB rows of a single Postgres table.
package pgdocs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core"
)

// notifyChannel is the channel the documents trigger publishes changes on.
const notifyChannel = "docstore_changes"

const (
	getQuery    = `SELECT id, data, created_at, updated_at FROM documents WHERE collection = $1 AND id = $2`
	createQuery = `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb) ON CONFLICT DO NOTHING`
	setQuery    = `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)
ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
	mergeQuery = `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)
ON CONFLICT (collection, id) DO UPDATE SET data = documents.data || EXCLUDED.data, updated_at = now()`
	updateQuery = `UPDATE documents SET data = data || $3::jsonb, updated_at = now() WHERE collection = $1 AND id = $2`
	deleteQuery = `DELETE FROM documents WHERE collection = $1 AND id = $2`
)

type row struct {
	ID        string         `db:"id"`
	Data      types.JSONText `db:"data"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r row) document() (core.Document, error) {
	data := make(map[string]interface{})
	if err := r.Data.Unmarshal(&data); err != nil {
		return core.Document{}, errors.Wrap(err, "decoding document "+r.ID)
	}
	return core.Document{ID: r.ID, Data: data, CreateTime: r.CreatedAt, UpdateTime: r.UpdatedAt}, nil
}

// Store is a core.DocStore on Postgres. Concurrent writes to a document follow last-write-wins.
type Store struct {
	db     *sqlx.DB
	dsn    string
	logger core.Logger
	hub    *core.ChangeHub

	listenOnce sync.Once
	listener   *pq.Listener
	listenErr  error
}

var _ core.DocStore = (*Store)(nil)

// NewStore returns a Store on db. dsn is used to open the LISTEN connection that feeds Watch.
func NewStore(db *sqlx.DB, dsn string, logger core.Logger) *Store {
	return &Store{
		db:     db,
		dsn:    dsn,
		logger: logger,
		hub:    core.NewChangeHub(),
	}
}

func (s *Store) Get(ctx context.Context, collection, id string) (core.Document, error) {
	var r row
	if err := s.db.GetContext(ctx, &r, getQuery, collection, id); err != nil {
		if err == sql.ErrNoRows {
			return core.Document{}, core.ErrDocNotFound
		}
		return core.Document{}, errors.Wrap(err, "selecting document")
	}
	return r.document()
}

func (s *Store) Query(ctx context.Context, q core.Query) ([]core.Document, error) {
	query, args, err := buildQuery(q)
	if err != nil {
		return nil, err
	}

	var rows []row
	if err = s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "selecting documents")
	}
	docs := make([]core.Document, 0, len(rows))
	for _, r := range rows {
		doc, err := r.document()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// buildQuery renders q as SQL. Field names are always bound as parameters.
func buildQuery(q core.Query) (string, []interface{}, error) {
	var b strings.Builder
	args := []interface{}{q.Collection}
	b.WriteString("SELECT id, data, created_at, updated_at FROM documents WHERE collection = $1")

	if len(q.Where) > 0 {
		filter := make(map[string]interface{}, len(q.Where))
		for _, f := range q.Where {
			filter[f.Field] = f.Value
		}
		raw, err := json.Marshal(filter)
		if err != nil {
			return "", nil, errors.Wrap(err, "encoding filter")
		}
		args = append(args, string(raw))
		fmt.Fprintf(&b, " AND data @> $%d::jsonb", len(args))
	}

	orderBy := make([]string, 0, len(q.OrderBy)+1)
	for _, ord := range q.OrderBy {
		args = append(args, ord.Field)
		fmt.Fprintf(&b, " AND data -> $%d::text IS NOT NULL", len(args))
		direction := "DESC"
		if ord.Ascending {
			direction = "ASC"
		}
		orderBy = append(orderBy, fmt.Sprintf("data -> $%d::text %s", len(args), direction))
	}
	orderBy = append(orderBy, "id ASC")
	b.WriteString(" ORDER BY " + strings.Join(orderBy, ", "))

	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	return b.String(), args, nil
}

// encode returns data as JSON text; the driver would send []byte as bytea.
func encode(data interface{}) (string, error) {
	m, err := core.ToMap(data)
	if err != nil {
		return "", errors.Wrap(err, "encoding document")
	}
	raw, err := json.Marshal(m)
	return string(raw), errors.Wrap(err, "encoding document")
}

func (s *Store) Create(ctx context.Context, collection, id string, data interface{}) (string, error) {
	raw, err := encode(data)
	if err != nil {
		return "", err
	}
	if id == "" {
		id = uuid.NewString()
	}

	res, err := s.db.ExecContext(ctx, createQuery, collection, id, raw)
	if err != nil {
		return "", errors.Wrap(err, "inserting document")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", errors.Wrap(err, "inserting document")
	}
	if n == 0 {
		return "", core.ErrDocExists
	}
	return id, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, data interface{}, merge bool) error {
	raw, err := encode(data)
	if err != nil {
		return err
	}
	query := setQuery
	if merge {
		query = mergeQuery
	}
	_, err = s.db.ExecContext(ctx, query, collection, id, raw)
	return errors.Wrap(err, "upserting document")
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	raw, err := encode(fields)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, updateQuery, collection, id, raw)
	if err != nil {
		return errors.Wrap(err, "updating document")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "updating document")
	}
	if n == 0 {
		return core.ErrDocNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.db.ExecContext(ctx, deleteQuery, collection, id)
	return errors.Wrap(err, "deleting document")
}

// Watch starts the shared LISTEN connection on first use.
func (s *Store) Watch(ctx context.Context, collection string) (<-chan core.Change, error) {
	if err := s.listen(); err != nil {
		return nil, err
	}
	return s.hub.Subscribe(ctx, collection), nil
}

func (s *Store) listen() error {
	s.listenOnce.Do(func() {
		l := pq.NewListener(s.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
			if err != nil {
				s.logger.Error(fmt.Sprintf("docstore listener event %d", ev), err)
			}
		})
		if err := l.Listen(notifyChannel); err != nil {
			_ = l.Close()
			s.listenErr = errors.Wrap(err, "listening to "+notifyChannel)
			return
		}
		s.listener = l
		go s.dispatch(l)
	})
	return s.listenErr
}

func (s *Store) dispatch(l *pq.Listener) {
	for n := range l.Notify {
		if n == nil { // reconnected: notifications may have been lost
			s.hub.Broadcast()
			continue
		}
		var c core.Change
		if err := json.Unmarshal([]byte(n.Extra), &c); err != nil {
			s.logger.Warn("decoding docstore notification", err, n.Extra)
			continue
		}
		s.hub.Publish(c)
	}
}

func (s *Store) Close() error {
	s.hub.Close()
	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.logger.Warn("closing docstore listener", err)
		}
	}
	return s.db.Close()
}
