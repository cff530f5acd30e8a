package basilisk

import (
	"fmt"
	"sync"
)

// MemoryKV is a transient, mutex-guarded implementation of the KV capability
// surface. It backs the test suite and single-process deployments that need
// no external store; semantics mirror the remote commands the interface is
// named after, including sorted-set ordering by score and then member.
type MemoryKV struct {
	mu     sync.RWMutex
	hashes map[string]map[string]string
	zsets  map[string]map[string]float64
	lists  map[string][]string
}

// NewMemoryKV returns an empty in-memory KV backend.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		hashes: make(map[string]map[string]string),
		zsets:  make(map[string]map[string]float64),
		lists:  make(map[string][]string),
	}
}

func (kv *MemoryKV) HSet(key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	h := kv.hashes[key]
	if h == nil {
		h = make(map[string]string, len(fields))
		kv.hashes[key] = h
	}
	for field, value := range fields {
		h[field] = value
	}
	return nil
}

func (kv *MemoryKV) HDel(key string, fields ...string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	h := kv.hashes[key]
	for _, field := range fields {
		delete(h, field)
	}
	if len(h) == 0 {
		delete(kv.hashes, key)
	}
	return nil
}

func (kv *MemoryKV) HGetAll(key string) (map[string]string, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	out := make(map[string]string, len(kv.hashes[key]))
	for field, value := range kv.hashes[key] {
		out[field] = value
	}
	return out, nil
}

func (kv *MemoryKV) HMGet(key string, fields ...string) (map[string]string, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	h := kv.hashes[key]
	out := make(map[string]string, len(fields))
	for _, field := range fields {
		if value, ok := h[field]; ok {
			out[field] = value
		}
	}
	return out, nil
}

func (kv *MemoryKV) HExists(key, field string) (bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	_, ok := kv.hashes[key][field]
	return ok, nil
}

func (kv *MemoryKV) HLen(key string) (int64, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	return int64(len(kv.hashes[key])), nil
}

func (kv *MemoryKV) HKeys(key string) ([]string, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	out := make([]string, 0, len(kv.hashes[key]))
	for field := range kv.hashes[key] {
		out = append(out, field)
	}
	return out, nil
}

func (kv *MemoryKV) ZAdd(key string, members map[string]float64) error {
	if len(members) == 0 {
		return nil
	}
	kv.mu.Lock()
	defer kv.mu.Unlock()
	set := kv.zsets[key]
	if set == nil {
		set = make(map[string]float64, len(members))
		kv.zsets[key] = set
	}
	for member, score := range members {
		set[member] = score
	}
	return nil
}

func (kv *MemoryKV) ZRem(key string, members ...string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	set := kv.zsets[key]
	for _, member := range members {
		delete(set, member)
	}
	if len(set) == 0 {
		delete(kv.zsets, key)
	}
	return nil
}

func (kv *MemoryKV) ZRangeByScore(key string, min, max float64, offset, count int64) ([]string, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	members := membersInRange(sortedMembers(kv.zsets[key]), min, max)
	return pageMembers(members, offset, count), nil
}

func (kv *MemoryKV) ZCount(key string, min, max float64) (int64, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	return int64(len(membersInRange(sortedMembers(kv.zsets[key]), min, max))), nil
}

func (kv *MemoryKV) ZRemRangeByScore(key string, min, max float64) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	set := kv.zsets[key]
	for member, score := range set {
		if score >= min && score <= max {
			delete(set, member)
		}
	}
	if len(set) == 0 {
		delete(kv.zsets, key)
	}
	return nil
}

func (kv *MemoryKV) ZCard(key string) (int64, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	return int64(len(kv.zsets[key])), nil
}

func (kv *MemoryKV) ZFirst(key string) (Member, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	members := sortedMembers(kv.zsets[key])
	if len(members) == 0 {
		return Member{}, false, nil
	}
	return members[0], true, nil
}

func (kv *MemoryKV) ZLast(key string) (Member, bool, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	members := sortedMembers(kv.zsets[key])
	if len(members) == 0 {
		return Member{}, false, nil
	}
	return members[len(members)-1], true, nil
}

func (kv *MemoryKV) LRange(key string, start, stop int64) ([]string, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	list := kv.lists[key]
	from, to, ok := normalizeListRange(int64(len(list)), start, stop)
	if !ok {
		return nil, nil
	}
	out := make([]string, to-from)
	copy(out, list[from:to])
	return out, nil
}

func (kv *MemoryKV) LPush(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.lists[key] = append([]string{value}, kv.lists[key]...)
	return nil
}

func (kv *MemoryKV) RPush(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.lists[key] = append(kv.lists[key], value)
	return nil
}

func (kv *MemoryKV) LPop(key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	list := kv.lists[key]
	if len(list) == 0 {
		return "", false, nil
	}
	value := list[0]
	kv.setList(key, list[1:])
	return value, true, nil
}

func (kv *MemoryKV) RPop(key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	list := kv.lists[key]
	if len(list) == 0 {
		return "", false, nil
	}
	value := list[len(list)-1]
	kv.setList(key, list[:len(list)-1])
	return value, true, nil
}

func (kv *MemoryKV) LSet(key string, index int64, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	list := kv.lists[key]
	if index < 0 {
		index += int64(len(list))
	}
	if index < 0 || index >= int64(len(list)) {
		return fmt.Errorf("basilisk: list %s: index %d out of range", key, index)
	}
	list[index] = value
	return nil
}

func (kv *MemoryKV) LRem(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	list := kv.lists[key]
	kept := list[:0]
	for _, v := range list {
		if v != value {
			kept = append(kept, v)
		}
	}
	kv.setList(key, kept)
	return nil
}

func (kv *MemoryKV) LLen(key string) (int64, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	return int64(len(kv.lists[key])), nil
}

func (kv *MemoryKV) Del(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.hashes, key)
	delete(kv.zsets, key)
	delete(kv.lists, key)
	return nil
}

// setList keeps the empty-collection-means-no-key invariant the remote
// store has.
func (kv *MemoryKV) setList(key string, list []string) {
	if len(list) == 0 {
		delete(kv.lists, key)
	} else {
		kv.lists[key] = list
	}
}

// MemoryDocStore is a transient implementation of the document capability
// surface.
type MemoryDocStore struct {
	mu   sync.RWMutex
	docs map[string]map[string]any
}

// NewMemoryDocStore returns an empty in-memory document backend.
func NewMemoryDocStore() *MemoryDocStore {
	return &MemoryDocStore{docs: make(map[string]map[string]any)}
}

func docKey(index, docType, id string) string {
	return index + "/" + docType + "/" + id
}

func (ds *MemoryDocStore) Index(index, docType, id string, body map[string]any) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	stored := make(map[string]any, len(body))
	for k, v := range body {
		stored[k] = v
	}
	ds.docs[docKey(index, docType, id)] = stored
	return nil
}

func (ds *MemoryDocStore) Get(index, docType, id string) (map[string]any, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	stored, ok := ds.docs[docKey(index, docType, id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoDocument, docKey(index, docType, id))
	}
	out := make(map[string]any, len(stored))
	for k, v := range stored {
		out[k] = v
	}
	return out, nil
}
