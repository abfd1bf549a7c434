// Package docrepos implements the domain repositories on a core.DocStore.
package docrepos

import (
	"context"
	"path"

	"github.com/pkg/errors"

	"github.com/osisproject0-hub/smaktal/core"
)

// collection paths
const (
	usersPath              = "users"
	profilesPath           = "profile"
	moodCheckInsPath       = "moodCheckIns"
	housesPath             = "houses"
	announcementsPath      = "announcements"
	resourcesPath          = "resources"
	learningTopicsPath     = "learningTopics"
	quizResultsPath        = "quizResults"
	skillTreesPath         = "skillTrees"
	tiersPath              = "tiers"
	coursesPath            = "courses"
	assignmentsPath        = "assignments"
	counselingRequestsPath = "counselingRequests"
)

// subPath is the path of a collection nested under a document.
func subPath(parent, id, name string) string {
	return path.Join(parent, id, name)
}

// collection is a typed view over the documents of one collection path.
// notFound and exists replace the store's generic errors.
type collection[T any] struct {
	store    core.DocStore
	path     string
	notFound error
	exists   error
}

func newCollection[T any](store core.DocStore, path string, notFound error) collection[T] {
	return collection[T]{store: store, path: path, notFound: notFound, exists: core.ErrDocExists}
}

func (c collection[T]) mapErr(err error) error {
	switch errors.Cause(err) {
	case core.ErrDocNotFound:
		if c.notFound != nil {
			return c.notFound
		}
	case core.ErrDocExists:
		return c.exists
	}
	return err
}

func (c collection[T]) decode(doc core.Document) (T, error) {
	var v T
	err := doc.DataTo(&v)
	return v, errors.Wrapf(err, "decoding %s/%s", c.path, doc.ID)
}

func (c collection[T]) get(ctx context.Context, id string) (T, error) {
	if id == "" {
		var zero T
		return zero, c.mapErr(core.ErrDocNotFound)
	}
	doc, err := c.store.Get(ctx, c.path, id)
	if err != nil {
		var zero T
		return zero, c.mapErr(err)
	}
	return c.decode(doc)
}

func (c collection[T]) query(ctx context.Context, where []core.Filter, orderBy []core.Ordering, limit int) ([]T, error) {
	docs, err := c.store.Query(ctx, core.Query{Collection: c.path, Where: where, OrderBy: orderBy, Limit: limit})
	if err != nil {
		return nil, errors.Wrapf(err, "querying %s", c.path)
	}
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := c.decode(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

// create stores v without its "id" field and returns the ID it was stored under.
func (c collection[T]) create(ctx context.Context, id string, v T) (string, error) {
	data, err := withoutID(v)
	if err != nil {
		return "", err
	}
	id, err = c.store.Create(ctx, c.path, id, data)
	return id, c.mapErr(err)
}

func (c collection[T]) set(ctx context.Context, id string, v T) error {
	data, err := withoutID(v)
	if err != nil {
		return err
	}
	return errors.Wrapf(c.store.Set(ctx, c.path, id, data, false), "writing %s/%s", c.path, id)
}

func (c collection[T]) update(ctx context.Context, id string, fields map[string]interface{}) error {
	return c.mapErr(c.store.Update(ctx, c.path, id, fields))
}

func (c collection[T]) delete(ctx context.Context, id string) error {
	return errors.Wrapf(c.store.Delete(ctx, c.path, id), "deleting %s/%s", c.path, id)
}

func withoutID(v interface{}) (map[string]interface{}, error) {
	data, err := core.ToMap(v)
	if err != nil {
		return nil, errors.Wrap(err, "encoding document")
	}
	delete(data, "id")
	return data, nil
}

func orderBy(field string, ascending bool) []core.Ordering {
	return []core.Ordering{{Field: field, Ascending: ascending}}
}

func where(field string, value interface{}) []core.Filter {
	return []core.Filter{{Field: field, Value: value}}
}
