package inmemdb

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osisproject0-hub/smaktal/core"
)

type record struct {
	data       map[string]interface{}
	createTime time.Time
	updateTime time.Time
}

// Store is a core.DocStore kept in memory. Writes are serialized; the last write wins.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]*record
	hub         *core.ChangeHub
}

var _ core.DocStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		collections: make(map[string]map[string]*record),
		hub:         core.NewChangeHub(),
	}
}

func (s *Store) Get(_ context.Context, collection, id string) (core.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.collections[collection][id]
	if !ok {
		return core.Document{}, core.ErrDocNotFound
	}
	return rec.document(id), nil
}

func (s *Store) Query(_ context.Context, q core.Query) ([]core.Document, error) {
	s.mu.RLock()
	docs := make([]core.Document, 0, len(s.collections[q.Collection]))
	for id, rec := range s.collections[q.Collection] {
		if rec.matches(q) {
			docs = append(docs, rec.document(id))
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(docs, func(i, j int) bool {
		for _, ord := range q.OrderBy {
			c := compare(docs[i].Data[ord.Field], docs[j].Data[ord.Field])
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return docs[i].ID < docs[j].ID
	})

	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	return docs, nil
}

func (s *Store) Create(_ context.Context, collection, id string, data interface{}) (string, error) {
	m, err := core.ToMap(data)
	if err != nil {
		return "", err
	}
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	coll := s.collection(collection)
	if _, ok := coll[id]; ok {
		s.mu.Unlock()
		return "", core.ErrDocExists
	}
	now := time.Now().UTC()
	coll[id] = &record{data: m, createTime: now, updateTime: now}
	s.mu.Unlock()

	s.hub.Publish(core.Change{Collection: collection, ID: id, Op: core.OpCreate})
	return id, nil
}

func (s *Store) Set(_ context.Context, collection, id string, data interface{}, merge bool) error {
	m, err := core.ToMap(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	coll := s.collection(collection)
	now := time.Now().UTC()
	op := core.OpUpdate
	rec, ok := coll[id]
	switch {
	case !ok:
		op = core.OpCreate
		coll[id] = &record{data: m, createTime: now, updateTime: now}
	case merge:
		for k, v := range m {
			rec.data[k] = v
		}
		rec.updateTime = now
	default:
		rec.data = m
		rec.updateTime = now
	}
	s.mu.Unlock()

	s.hub.Publish(core.Change{Collection: collection, ID: id, Op: op})
	return nil
}

func (s *Store) Update(_ context.Context, collection, id string, fields map[string]interface{}) error {
	m, err := core.ToMap(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	rec, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return core.ErrDocNotFound
	}
	for k, v := range m {
		rec.data[k] = v
	}
	rec.updateTime = time.Now().UTC()
	s.mu.Unlock()

	s.hub.Publish(core.Change{Collection: collection, ID: id, Op: core.OpUpdate})
	return nil
}

func (s *Store) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	_, ok := s.collections[collection][id]
	delete(s.collections[collection], id)
	s.mu.Unlock()

	if ok {
		s.hub.Publish(core.Change{Collection: collection, ID: id, Op: core.OpDelete})
	}
	return nil
}

func (s *Store) Watch(ctx context.Context, collection string) (<-chan core.Change, error) {
	return s.hub.Subscribe(ctx, collection), nil
}

func (s *Store) Close() error {
	s.hub.Close()
	return nil
}

// Reset drops every document. Used between tests.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = make(map[string]map[string]*record)
}

// collection must be called with s.mu held for writing.
func (s *Store) collection(name string) map[string]*record {
	coll, ok := s.collections[name]
	if !ok {
		coll = make(map[string]*record)
		s.collections[name] = coll
	}
	return coll
}

func (r *record) document(id string) core.Document {
	data := make(map[string]interface{}, len(r.data))
	for k, v := range r.data {
		data[k] = v
	}
	return core.Document{ID: id, Data: data, CreateTime: r.createTime, UpdateTime: r.updateTime}
}

func (r *record) matches(q core.Query) bool {
	for _, f := range q.Where {
		v, ok := r.data[f.Field]
		if !ok || !equal(v, f.Value) {
			return false
		}
	}
	for _, ord := range q.OrderBy {
		if _, ok := r.data[ord.Field]; !ok {
			return false
		}
	}
	return true
}

// equal compares a stored value with a filter value, after giving the latter the stored representation.
func equal(stored, want interface{}) bool {
	norm, err := core.ToMap(map[string]interface{}{"v": want})
	if err != nil {
		return false
	}
	return reflect.DeepEqual(stored, norm["v"])
}

// compare orders null < bool < number < string, then by value within a kind.
func compare(a, b interface{}) int {
	ka, kb := kind(a), kind(b)
	if ka != kb {
		if ka < kb {
			return -1
		}
		return 1
	}
	switch va := a.(type) {
	case bool:
		vb := b.(bool)
		switch {
		case va == vb:
			return 0
		case !va:
			return -1
		default:
			return 1
		}
	case float64:
		vb := b.(float64)
		switch {
		case va < vb:
			return -1
		case va > vb:
			return 1
		}
	case string:
		vb := b.(string)
		switch {
		case va < vb:
			return -1
		case va > vb:
			return 1
		}
	}
	return 0
}

func kind(v interface{}) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case float64:
		return 2
	case string:
		return 3
	default:
		return 4
	}
}
