package core

import (
	"context"

	"github.com/pkg/errors"
)

// Snapshot is one result of a live subscription. A snapshot carrying Err is the last one.
type Snapshot struct {
	Docs []Document
	Err  error
}

// SubscribeQuery emits the current result of q, then a fresh result after every change to its collection.
// The channel is closed when ctx is done, the store stops watching, or a read fails.
func SubscribeQuery(ctx context.Context, store DocStore, q Query) (<-chan Snapshot, error) {
	return subscribe(ctx, store, q.Collection, func(ctx context.Context) ([]Document, error) {
		return store.Query(ctx, q)
	})
}

// SubscribeDocument is SubscribeQuery for a single document. A missing document yields an empty snapshot.
func SubscribeDocument(ctx context.Context, store DocStore, collection, id string) (<-chan Snapshot, error) {
	return subscribe(ctx, store, collection, func(ctx context.Context) ([]Document, error) {
		doc, err := store.Get(ctx, collection, id)
		if err != nil {
			if errors.Cause(err) == ErrDocNotFound {
				return []Document{}, nil
			}
			return nil, err
		}
		return []Document{doc}, nil
	})
}

func subscribe(
	ctx context.Context,
	store DocStore,
	collection string,
	read func(context.Context) ([]Document, error),
) (<-chan Snapshot, error) {
	// watch before the first read so no change can slip in between
	changes, err := store.Watch(ctx, collection)
	if err != nil {
		return nil, errors.Wrap(err, "watching "+collection)
	}

	out := make(chan Snapshot)
	go func() {
		defer close(out)

		emit := func() bool {
			docs, err := read(ctx)
			if ctx.Err() != nil {
				return false
			}
			select {
			case out <- Snapshot{Docs: docs, Err: err}:
			case <-ctx.Done():
				return false
			}
			return err == nil
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok || !emit() {
					return
				}
			}
		}
	}()
	return out, nil
}
