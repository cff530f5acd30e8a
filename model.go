package basilisk

import (
	"encoding/json"
	"strings"
)

// A Model is the resolved schema of one record type: its fields, its primary
// key, and the namespace connection it is bound to. A Model is resolved and
// registered once, at definition time, and is immutable afterwards.
type Model struct {
	name     string
	fields   map[string]*Field
	order    []string
	keyField string
	reg      *Registry
	store    store
}

type modelDef struct {
	bases []*Model
}

// ModelOption customizes a model definition.
type ModelOption func(*modelDef)

// Extends merges the base model's fields into the new model. Bases apply in
// the order given, least derived first: a later declaration of the same
// field name, including the model's own, overrides an earlier one. Field
// schemas are shared by reference, not copied.
func Extends(base *Model) ModelOption {
	return func(def *modelDef) { def.bases = append(def.bases, base) }
}

// Define resolves and registers a key-value-backed model in the namespace;
// each record persists as one hash. Defining a name that is already
// registered in the namespace returns the existing model untouched, so
// re-evaluating a definition cannot create a second live connection.
func Define(namespace, name string, fields []*Field, opts ...ModelOption) (*Model, error) {
	return define(namespace, name, fields, opts, func(reg *Registry) (store, error) {
		kv, err := reg.requireKV()
		if err != nil {
			return nil, err
		}
		return hashStore{kv: kv, log: reg.log}, nil
	})
}

// MustDefine is Define, panicking on error. Intended for package-level model
// declarations.
func MustDefine(namespace, name string, fields []*Field, opts ...ModelOption) *Model {
	return must(Define(namespace, name, fields, opts...))
}

// DefineDocument resolves and registers a document-backed model in the
// namespace; each record persists as one indexed document.
func DefineDocument(namespace, name string, fields []*Field, opts ...ModelOption) (*Model, error) {
	return define(namespace, name, fields, opts, func(reg *Registry) (store, error) {
		docs, err := reg.requireDocs()
		if err != nil {
			return nil, err
		}
		return documentStore{docs: docs, index: reg.index, log: reg.log}, nil
	})
}

// MustDefineDocument is DefineDocument, panicking on error.
func MustDefineDocument(namespace, name string, fields []*Field, opts ...ModelOption) *Model {
	return must(DefineDocument(namespace, name, fields, opts...))
}

func define(namespace, name string, fields []*Field, opts []ModelOption, bind func(*Registry) (store, error)) (*Model, error) {
	reg, err := Namespace(namespace)
	if err != nil {
		return nil, err
	}
	if existing := reg.Lookup(name); existing != nil {
		return existing, nil
	}

	var def modelDef
	for _, opt := range opts {
		opt(&def)
	}
	merged, order := mergeFields(def.bases, fields)
	keyField, err := primaryField(name, merged, order)
	if err != nil {
		return nil, err
	}
	st, err := bind(reg)
	if err != nil {
		return nil, err
	}

	m := &Model{
		name:     name,
		fields:   merged,
		order:    order,
		keyField: keyField,
		reg:      reg,
		store:    st,
	}
	if !reg.Register(name, m) {
		return reg.Lookup(name), nil
	}
	return m, nil
}

// mergeFields resolves the field map across an ordered lineage of schemas:
// base fields first, the model's own last, later declarations replacing
// earlier ones of the same name. Order is the order of first declaration.
func mergeFields(bases []*Model, own []*Field) (map[string]*Field, []string) {
	fields := make(map[string]*Field)
	var order []string
	add := func(f *Field) {
		if _, seen := fields[f.name]; !seen {
			order = append(order, f.name)
		}
		fields[f.name] = f
	}
	for _, base := range bases {
		for _, name := range base.order {
			add(base.fields[name])
		}
	}
	for _, f := range own {
		add(f)
	}
	return fields, order
}

func primaryField(model string, fields map[string]*Field, order []string) (string, error) {
	var keys []string
	for _, name := range order {
		if fields[name].primary {
			keys = append(keys, name)
		}
	}
	switch len(keys) {
	case 0:
		return "", schemaErrf(model, "no primary key field")
	case 1:
		return keys[0], nil
	default:
		return "", schemaErrf(model, "multiple primary key fields: %s", strings.Join(keys, ", "))
	}
}

// Name returns the model's registered name.
func (m *Model) Name() string {
	return m.name
}

// Namespace returns the namespace the model is bound to.
func (m *Model) Namespace() string {
	return m.reg.namespace
}

// Registry returns the connection registry the model is bound to.
func (m *Model) Registry() *Registry {
	return m.reg
}

// KeyField returns the name of the model's primary key field.
func (m *Model) KeyField() string {
	return m.keyField
}

// Fields returns the model's resolved fields in declaration order.
func (m *Model) Fields() []*Field {
	out := make([]*Field, len(m.order))
	for i, name := range m.order {
		out[i] = m.fields[name]
	}
	return out
}

// Field returns the field with the given name, or nil.
func (m *Model) Field(name string) *Field {
	return m.fields[name]
}

// Key returns the store key a record with the given id persists under. Keys
// are deterministic and collision-free across models in a namespace.
func (m *Model) Key(id string) string {
	return m.store.key(m, id)
}

// Hydrate converts raw store values into a constructor-ready value map: each
// raw value runs through its field's coercion, and raw keys with no matching
// field are dropped.
func (m *Model) Hydrate(raw map[string]any) (map[string]any, error) {
	values := make(map[string]any, len(raw))
	for name, rawValue := range raw {
		f := m.fields[name]
		if f == nil {
			continue
		}
		v, err := f.decodeValue(rawValue)
		if err != nil {
			return nil, err
		}
		values[name] = v
	}
	return values, nil
}

// HydrateJSON decodes a single JSON blob and hydrates the resulting mapping.
func (m *Model) HydrateJSON(blob []byte) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, err
	}
	return m.Hydrate(raw)
}

// Get fetches the record with the given id. A missing key yields a
// NotFoundError; it is never turned into a default instance.
func (m *Model) Get(id string) (*Record, error) {
	return m.store.get(m, id)
}
