package core

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrDocNotFound = NewNotFoundError("document")
	ErrDocExists   = errors.New("document already exists")
)

type (
	// Document is a schemaless record stored under a collection path.
	Document struct {
		ID         string
		Data       map[string]interface{}
		CreateTime time.Time
		UpdateTime time.Time
	}

	// Filter is an equality predicate on a top-level field.
	Filter struct {
		Field string
		Value interface{}
	}

	Ordering struct {
		Field     string
		Ascending bool
	}

	// Query selects documents of one collection. Documents missing an ordered field are left out.
	Query struct {
		Collection string
		Where      []Filter
		OrderBy    []Ordering
		Limit      int
	}

	ChangeOp string

	// Change notifies that a document of Collection was written.
	Change struct {
		Collection string   `json:"collection"`
		ID         string   `json:"id"`
		Op         ChangeOp `json:"op"`
	}

	// DocStore is the document database the app persists to.
	DocStore interface {
		Get(ctx context.Context, collection, id string) (Document, error)
		Query(ctx context.Context, q Query) ([]Document, error)
		// Create writes a new document and fails with ErrDocExists if id is taken. An empty id is generated.
		Create(ctx context.Context, collection, id string, data interface{}) (string, error)
		// Set writes the whole document, or only the given top-level fields when merge is true.
		Set(ctx context.Context, collection, id string, data interface{}, merge bool) error
		// Update merges top-level fields into an existing document.
		Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
		Delete(ctx context.Context, collection, id string) error
		// Watch streams changes to collection until ctx is done.
		Watch(ctx context.Context, collection string) (<-chan Change, error)
		Close() error
	}
)

const (
	OpCreate ChangeOp = "insert"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
)

func (ord Ordering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// DataTo decodes the document into v. The document ID is exposed as the "id" field.
func (d Document) DataTo(v interface{}) error {
	data := make(map[string]interface{}, len(d.Data)+1)
	for k, val := range d.Data {
		data[k] = val
	}
	data["id"] = d.ID
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// ToMap converts a struct (or map) into the generic form documents are stored in.
func ToMap(v interface{}) (map[string]interface{}, error) {
	if m, ok := v.(map[string]interface{}); ok {
		return normalize(m)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := make(map[string]interface{})
	if err = json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// normalize round-trips m through JSON so values compare the same way whatever their Go type was.
func normalize(m map[string]interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	out := make(map[string]interface{}, len(m))
	if err = json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
