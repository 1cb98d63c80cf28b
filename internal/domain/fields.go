package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrNotObject is returned when a JSON value expected to be an object is not.
var ErrNotObject = errors.New("not a JSON object")

// Fields is an insertion-ordered JSON object whose values are kept verbatim.
// The zero value is an empty object ready to use.
type Fields struct {
	m *orderedmap.OrderedMap[string, json.RawMessage]
}

// NewFields returns an empty Fields.
func NewFields() *Fields {
	return &Fields{m: orderedmap.New[string, json.RawMessage]()}
}

func (f *Fields) init() {
	if f.m == nil {
		f.m = orderedmap.New[string, json.RawMessage]()
	}
}

// Set stores a raw JSON value. An existing key keeps its position.
func (f *Fields) Set(key string, value json.RawMessage) {
	f.init()
	f.m.Set(key, value)
}

// SetString stores a string value.
func (f *Fields) SetString(key, value string) {
	data, _ := json.Marshal(value) //nolint:errcheck // strings always marshal
	f.Set(key, data)
}

// Get returns the raw JSON value stored under key.
func (f *Fields) Get(key string) (json.RawMessage, bool) {
	if f == nil || f.m == nil {
		return nil, false
	}
	return f.m.Get(key)
}

// Len returns the number of keys.
func (f *Fields) Len() int {
	if f == nil || f.m == nil {
		return 0
	}
	return f.m.Len()
}

// Keys returns the keys in insertion order.
func (f *Fields) Keys() []string {
	if f == nil || f.m == nil {
		return nil
	}
	keys := make([]string, 0, f.m.Len())
	for pair := f.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Merge copies every field of other into f. Values from other overwrite
// existing keys in place; new keys are appended. A nil other is a no-op.
func (f *Fields) Merge(other *Fields) {
	if other == nil || other.m == nil {
		return
	}
	f.init()
	for pair := other.m.Oldest(); pair != nil; pair = pair.Next() {
		f.m.Set(pair.Key, pair.Value)
	}
}

// MarshalJSON encodes the fields as an object in insertion order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	if f == nil || f.m == nil || f.m.Len() == 0 {
		return []byte("{}"), nil
	}
	return f.m.MarshalJSON()
}

// UnmarshalJSON decodes an object, keeping its key order. A JSON null decodes
// to an empty object; any other non-object value returns ErrNotObject.
func (f *Fields) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	f.m = orderedmap.New[string, json.RawMessage]()
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("decode fields: %w", ErrNotObject)
	}
	if err := f.m.UnmarshalJSON(trimmed); err != nil {
		return fmt.Errorf("decode fields: %w", err)
	}
	return nil
}
