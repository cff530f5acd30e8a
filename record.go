package basilisk

import (
	"encoding/json"

	"github.com/google/uuid"
)

// A Record is one instance of a model: the current values of its fields,
// bound to the model's schema. Records are not safe for concurrent use.
type Record struct {
	model  *Model
	values map[string]any
}

// New constructs a record from the given values. Fields absent from values
// take their declared default; keys that match no field are silently
// dropped.
func (m *Model) New(values map[string]any) *Record {
	vals := make(map[string]any, len(m.order))
	for _, name := range m.order {
		if v, ok := values[name]; ok {
			vals[name] = v
		} else {
			vals[name] = m.fields[name].DefaultValue()
		}
	}
	return &Record{model: m, values: vals}
}

// Model returns the schema this record is bound to.
func (r *Record) Model() *Model {
	return r.model
}

// Value returns the current value of the named field.
func (r *Record) Value(name string) any {
	return r.values[name]
}

// SetValue assigns the named field. Names outside the schema are ignored.
func (r *Record) SetValue(name string, v any) {
	if _, ok := r.model.fields[name]; ok {
		r.values[name] = v
	}
}

// ID returns the record's primary key value as text, or "" when it is not
// set yet.
func (r *Record) ID() string {
	v := r.values[r.model.keyField]
	if v == nil {
		return ""
	}
	return toText(v)
}

// SetID assigns the record's primary key.
func (r *Record) SetID(id string) {
	r.values[r.model.keyField] = id
}

// Key returns the store key this record persists under.
func (r *Record) Key() string {
	return r.model.Key(r.ID())
}

// Serialize produces the store-ready mapping: each value runs through its
// field's serializer, or passes unchanged if the field declares none.
func (r *Record) Serialize() (map[string]any, error) {
	out := make(map[string]any, len(r.model.order))
	for _, name := range r.model.order {
		v, err := r.model.fields[name].encodeValue(r.values[name])
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// SerializeJSON encodes the serialized mapping as a single JSON blob.
func (r *Record) SerializeJSON() ([]byte, error) {
	body, err := r.Serialize()
	if err != nil {
		return nil, err
	}
	return json.Marshal(body)
}

// Plain returns the current values with no serialization applied, optionally
// filtered to the given field names.
func (r *Record) Plain(names ...string) map[string]any {
	out := make(map[string]any, len(r.model.order))
	if len(names) == 0 {
		for _, name := range r.model.order {
			out[name] = r.values[name]
		}
		return out
	}
	for _, name := range names {
		if _, ok := r.model.fields[name]; ok {
			out[name] = r.values[name]
		}
	}
	return out
}

// Save persists the record's current state. An empty primary key is assigned
// a fresh random unique id when createID is true, and fails with a
// MissingKeyError otherwise. Returns the record for chaining.
func (r *Record) Save(createID bool) (*Record, error) {
	if r.ID() == "" {
		if !createID {
			return nil, &MissingKeyError{Model: r.model.name, Field: r.model.keyField}
		}
		r.SetID(uuid.NewString())
	}
	if err := r.model.store.save(r); err != nil {
		return nil, err
	}
	return r, nil
}
