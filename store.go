package basilisk

import (
	"errors"

	"github.com/rs/zerolog"
)

// store dispatches record persistence between the two backend flavors. Both
// expose the same capability set: save a record, fetch by id, compute the
// storage key.
type store interface {
	save(r *Record) error
	get(m *Model, id string) (*Record, error)
	key(m *Model, id string) string
}

// hashStore persists each record as one hash in the key-value backend.
type hashStore struct {
	kv  KV
	log zerolog.Logger
}

func (s hashStore) key(m *Model, id string) string {
	return m.Namespace() + "." + m.name + "." + id
}

func (s hashStore) save(r *Record) error {
	body, err := r.Serialize()
	if err != nil {
		return err
	}
	fields := make(map[string]string, len(body))
	for name, v := range body {
		fields[name] = stringifyValue(v)
	}
	key := s.key(r.model, r.ID())
	s.log.Debug().Str("key", key).Int("fields", len(fields)).Msg("save record hash")
	return s.kv.HSet(key, fields)
}

func (s hashStore) get(m *Model, id string) (*Record, error) {
	key := s.key(m, id)
	raw, err := s.kv.HGetAll(key)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, &NotFoundError{Model: m.name, Key: key}
	}
	rawAny := make(map[string]any, len(raw))
	for name, v := range raw {
		rawAny[name] = v
	}
	values, err := m.Hydrate(rawAny)
	if err != nil {
		return nil, err
	}
	return m.New(values), nil
}

// documentStore persists each record as one document in the document
// backend, typed by the model name.
type documentStore struct {
	docs  DocStore
	index string
	log   zerolog.Logger
}

func (s documentStore) key(m *Model, id string) string {
	return s.index + "/" + m.name + "/" + id
}

func (s documentStore) save(r *Record) error {
	body, err := r.Serialize()
	if err != nil {
		return err
	}
	s.log.Debug().Str("key", s.key(r.model, r.ID())).Msg("index record document")
	return s.docs.Index(s.index, r.model.name, r.ID(), body)
}

func (s documentStore) get(m *Model, id string) (*Record, error) {
	body, err := s.docs.Get(s.index, m.name, id)
	if errors.Is(err, ErrNoDocument) {
		return nil, &NotFoundError{Model: m.name, Key: s.key(m, id)}
	}
	if err != nil {
		return nil, err
	}
	values, err := m.Hydrate(body)
	if err != nil {
		return nil, err
	}
	return m.New(values), nil
}
