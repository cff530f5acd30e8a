package basilisk

import "github.com/rs/zerolog"

// Hash proxies one remote hash collection. Reads go straight to the store;
// Set and Delete queue in a changelist until Save flushes them, so reads do
// not see pending local edits. A Hash is not safe for concurrent use.
type Hash struct {
	kv      KV
	log     zerolog.Logger
	name    string
	changes changelist[string]
}

// NewHash returns a proxy for the hash stored under name in the given
// namespace.
func NewHash(namespace, name string) (*Hash, error) {
	reg, err := Namespace(namespace)
	if err != nil {
		return nil, err
	}
	kv, err := reg.requireKV()
	if err != nil {
		return nil, err
	}
	return &Hash{kv: kv, log: reg.log, name: name, changes: newChangelist[string]()}, nil
}

// Key returns the store key this hash lives under.
func (h *Hash) Key() string {
	return h.name
}

// Get fetches the given fields immediately, bypassing the changelist.
// Absent fields are missing from the result.
func (h *Hash) Get(fields ...string) (map[string]string, error) {
	return h.kv.HMGet(h.Key(), fields...)
}

// Value fetches a single field immediately; ok is false when it is absent.
func (h *Hash) Value(field string) (value string, ok bool, err error) {
	vals, err := h.kv.HMGet(h.Key(), field)
	if err != nil {
		return "", false, err
	}
	value, ok = vals[field]
	return value, ok, nil
}

// Set queues an assignment; it reaches the store on Save.
func (h *Hash) Set(field, value string) {
	h.changes.set(field, value)
}

// Delete queues a field removal; it reaches the store on Save.
func (h *Hash) Delete(field string) {
	h.changes.delete(field)
}

// Keys returns the field names currently in the store.
func (h *Hash) Keys() ([]string, error) {
	return h.kv.HKeys(h.Key())
}

// Items returns every field and value currently in the store.
func (h *Hash) Items() (map[string]string, error) {
	return h.kv.HGetAll(h.Key())
}

// Contains reports whether the field currently exists in the store.
func (h *Hash) Contains(field string) (bool, error) {
	return h.kv.HExists(h.Key(), field)
}

// Len returns the store-side field count.
func (h *Hash) Len() (int64, error) {
	return h.kv.HLen(h.Key())
}

// Clear deletes the whole hash from the store immediately. Pending local
// changes stay queued.
func (h *Hash) Clear() error {
	return h.kv.Del(h.Key())
}

// Save flushes the changelist: the last queued operation per field wins, and
// the survivors go out as at most one batched delete followed by at most one
// batched set. The changelist is cleared only once both batches succeed, so
// a failed flush can be retried whole.
func (h *Hash) Save() error {
	if h.changes.empty() {
		return nil
	}
	set, del := h.changes.resolve()
	h.log.Debug().Str("key", h.Key()).Int("set", len(set)).Int("del", len(del)).Msg("flush hash")
	if len(del) > 0 {
		if err := h.kv.HDel(h.Key(), del...); err != nil {
			return err
		}
	}
	if len(set) > 0 {
		if err := h.kv.HSet(h.Key(), set); err != nil {
			return err
		}
	}
	h.changes.clear()
	return nil
}
