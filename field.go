package basilisk

import "encoding/json"

// A Field describes one attribute of a model: its name, its default value,
// whether it is the primary key, and optional conversion functions between
// the stored and the typed representation of its values. Fields are immutable
// once declared and are shared by reference when one model schema extends
// another; on a name collision the most-derived declaration wins.
type Field struct {
	name    string
	primary bool
	def     func() any
	decode  func(any) (any, error)
	encode  func(any) (any, error)
}

// FieldOption customizes a field declaration.
type FieldOption func(*Field)

// Key marks the field as the model's primary key. A resolved model schema
// must contain exactly one key field.
func Key() FieldOption {
	return func(f *Field) { f.primary = true }
}

// Default sets the value used when an instance is constructed without this
// field.
func Default(v any) FieldOption {
	return func(f *Field) { f.def = func() any { return v } }
}

// Decode sets the coercion applied to raw stored values during hydration.
func Decode(fn func(raw any) (any, error)) FieldOption {
	return func(f *Field) { f.decode = fn }
}

// Encode sets the serialization applied to the field's value when writing to
// the store.
func Encode(fn func(v any) (any, error)) FieldOption {
	return func(f *Field) { f.encode = fn }
}

// NewField declares a plain field: values pass to and from the store
// unchanged.
func NewField(name string, opts ...FieldOption) *Field {
	f := &Field{name: name}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// IntField declares a field whose stored form is decoded into an int64.
func IntField(name string, opts ...FieldOption) *Field {
	return NewField(name, append([]FieldOption{Decode(func(raw any) (any, error) {
		return toInt64(raw)
	})}, opts...)...)
}

// FloatField declares a field whose stored form is decoded into a float64.
func FloatField(name string, opts ...FieldOption) *Field {
	return NewField(name, append([]FieldOption{Decode(func(raw any) (any, error) {
		return toFloat64(raw)
	})}, opts...)...)
}

// TextField declares a field whose stored form is decoded into a string.
func TextField(name string, opts ...FieldOption) *Field {
	return NewField(name, append([]FieldOption{Decode(func(raw any) (any, error) {
		return toText(raw), nil
	})}, opts...)...)
}

// JSONField declares a field stored as a single JSON blob. Values decode
// into the generic JSON types (map[string]any, []any, float64, ...), and the
// default is a fresh empty object per instance. Structured values coming
// from a document backend pass through undecoded.
func JSONField(name string, opts ...FieldOption) *Field {
	f := NewField(name,
		Encode(func(v any) (any, error) {
			blob, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			return string(blob), nil
		}),
		Decode(func(raw any) (any, error) {
			switch data := raw.(type) {
			case string:
				var v any
				err := json.Unmarshal([]byte(data), &v)
				return v, err
			case []byte:
				var v any
				err := json.Unmarshal(data, &v)
				return v, err
			default:
				return raw, nil
			}
		}),
	)
	f.def = func() any { return map[string]any{} }
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the field's name.
func (f *Field) Name() string {
	return f.name
}

// Primary reports whether the field is its model's primary key.
func (f *Field) Primary() bool {
	return f.primary
}

// DefaultValue returns the value an instance gets when constructed without
// this field.
func (f *Field) DefaultValue() any {
	if f.def == nil {
		return nil
	}
	return f.def()
}

func (f *Field) decodeValue(raw any) (any, error) {
	if f.decode == nil {
		return raw, nil
	}
	return f.decode(raw)
}

func (f *Field) encodeValue(v any) (any, error) {
	if f.encode == nil {
		return v, nil
	}
	return f.encode(v)
}
