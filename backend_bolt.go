package basilisk

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

// Bucket layout: hashes and sorted sets live in one nested bucket per
// collection key under their root bucket; lists and documents are stored
// whole, as one msgpack value per key.
var (
	boltHashesBucket = []byte("hashes")
	boltZSetsBucket  = []byte("zsets")
	boltListsBucket  = []byte("lists")
	boltDocsBucket   = []byte("docs")
)

// BoltKV implements the KV capability surface on a Bolt database, giving
// models and proxies a persistent embedded backend. Every operation runs in
// its own Bolt transaction; concurrency safety comes from Bolt's
// single-writer locking.
type BoltKV struct {
	bdb *bbolt.DB
}

// NewBoltKV returns a KV backend stored in the given Bolt database. The
// caller keeps ownership of the database handle.
func NewBoltKV(bdb *bbolt.DB) *BoltKV {
	return &BoltKV{bdb: bdb}
}

func (kv *BoltKV) HSet(key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return kv.bdb.Update(func(tx *bbolt.Tx) error {
		b, err := createNestedBucket(tx, boltHashesBucket, key)
		if err != nil {
			return err
		}
		for field, value := range fields {
			if err := b.Put([]byte(field), []byte(value)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (kv *BoltKV) HDel(key string, fields ...string) error {
	return kv.bdb.Update(func(tx *bbolt.Tx) error {
		b := nestedBucket(tx, boltHashesBucket, key)
		if b == nil {
			return nil
		}
		for _, field := range fields {
			if err := b.Delete([]byte(field)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (kv *BoltKV) HGetAll(key string) (map[string]string, error) {
	out := make(map[string]string)
	err := kv.bdb.View(func(tx *bbolt.Tx) error {
		b := nestedBucket(tx, boltHashesBucket, key)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			out[string(k)] = string(v)
			return nil
		})
	})
	return out, err
}

func (kv *BoltKV) HMGet(key string, fields ...string) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	err := kv.bdb.View(func(tx *bbolt.Tx) error {
		b := nestedBucket(tx, boltHashesBucket, key)
		if b == nil {
			return nil
		}
		for _, field := range fields {
			if v := b.Get([]byte(field)); v != nil {
				out[field] = string(v)
			}
		}
		return nil
	})
	return out, err
}

func (kv *BoltKV) HExists(key, field string) (bool, error) {
	var ok bool
	err := kv.bdb.View(func(tx *bbolt.Tx) error {
		b := nestedBucket(tx, boltHashesBucket, key)
		ok = b != nil && b.Get([]byte(field)) != nil
		return nil
	})
	return ok, err
}

func (kv *BoltKV) HLen(key string) (int64, error) {
	var n int64
	err := kv.bdb.View(func(tx *bbolt.Tx) error {
		if b := nestedBucket(tx, boltHashesBucket, key); b != nil {
			n = int64(b.Stats().KeyN)
		}
		return nil
	})
	return n, err
}

func (kv *BoltKV) HKeys(key string) ([]string, error) {
	var out []string
	err := kv.bdb.View(func(tx *bbolt.Tx) error {
		b := nestedBucket(tx, boltHashesBucket, key)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			out = append(out, string(k))
			return nil
		})
	})
	return out, err
}

func (kv *BoltKV) ZAdd(key string, members map[string]float64) error {
	if len(members) == 0 {
		return nil
	}
	return kv.bdb.Update(func(tx *bbolt.Tx) error {
		b, err := createNestedBucket(tx, boltZSetsBucket, key)
		if err != nil {
			return err
		}
		for member, score := range members {
			raw, err := msgpack.Marshal(score)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(member), raw); err != nil {
				return err
			}
		}
		return nil
	})
}

func (kv *BoltKV) ZRem(key string, members ...string) error {
	return kv.bdb.Update(func(tx *bbolt.Tx) error {
		b := nestedBucket(tx, boltZSetsBucket, key)
		if b == nil {
			return nil
		}
		for _, member := range members {
			if err := b.Delete([]byte(member)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (kv *BoltKV) ZRangeByScore(key string, min, max float64, offset, count int64) ([]string, error) {
	set, err := kv.readZSet(key)
	if err != nil {
		return nil, err
	}
	return pageMembers(membersInRange(sortedMembers(set), min, max), offset, count), nil
}

func (kv *BoltKV) ZCount(key string, min, max float64) (int64, error) {
	set, err := kv.readZSet(key)
	if err != nil {
		return 0, err
	}
	return int64(len(membersInRange(sortedMembers(set), min, max))), nil
}

func (kv *BoltKV) ZRemRangeByScore(key string, min, max float64) error {
	set, err := kv.readZSet(key)
	if err != nil {
		return err
	}
	var doomed []string
	for member, score := range set {
		if score >= min && score <= max {
			doomed = append(doomed, member)
		}
	}
	if len(doomed) == 0 {
		return nil
	}
	return kv.ZRem(key, doomed...)
}

func (kv *BoltKV) ZCard(key string) (int64, error) {
	var n int64
	err := kv.bdb.View(func(tx *bbolt.Tx) error {
		if b := nestedBucket(tx, boltZSetsBucket, key); b != nil {
			n = int64(b.Stats().KeyN)
		}
		return nil
	})
	return n, err
}

func (kv *BoltKV) ZFirst(key string) (Member, bool, error) {
	set, err := kv.readZSet(key)
	if err != nil || len(set) == 0 {
		return Member{}, false, err
	}
	return sortedMembers(set)[0], true, nil
}

func (kv *BoltKV) ZLast(key string) (Member, bool, error) {
	set, err := kv.readZSet(key)
	if err != nil || len(set) == 0 {
		return Member{}, false, err
	}
	members := sortedMembers(set)
	return members[len(members)-1], true, nil
}

func (kv *BoltKV) LRange(key string, start, stop int64) ([]string, error) {
	list, err := kv.readList(key)
	if err != nil {
		return nil, err
	}
	from, to, ok := normalizeListRange(int64(len(list)), start, stop)
	if !ok {
		return nil, nil
	}
	return list[from:to], nil
}

func (kv *BoltKV) LPush(key, value string) error {
	return kv.updateList(key, func(list []string) ([]string, error) {
		return append([]string{value}, list...), nil
	})
}

func (kv *BoltKV) RPush(key, value string) error {
	return kv.updateList(key, func(list []string) ([]string, error) {
		return append(list, value), nil
	})
}

func (kv *BoltKV) LPop(key string) (string, bool, error) {
	var value string
	var ok bool
	err := kv.updateList(key, func(list []string) ([]string, error) {
		if len(list) == 0 {
			return list, nil
		}
		value, ok = list[0], true
		return list[1:], nil
	})
	return value, ok, err
}

func (kv *BoltKV) RPop(key string) (string, bool, error) {
	var value string
	var ok bool
	err := kv.updateList(key, func(list []string) ([]string, error) {
		if len(list) == 0 {
			return list, nil
		}
		value, ok = list[len(list)-1], true
		return list[:len(list)-1], nil
	})
	return value, ok, err
}

func (kv *BoltKV) LSet(key string, index int64, value string) error {
	return kv.updateList(key, func(list []string) ([]string, error) {
		if index < 0 {
			index += int64(len(list))
		}
		if index < 0 || index >= int64(len(list)) {
			return nil, fmt.Errorf("basilisk: list %s: index %d out of range", key, index)
		}
		list[index] = value
		return list, nil
	})
}

func (kv *BoltKV) LRem(key, value string) error {
	return kv.updateList(key, func(list []string) ([]string, error) {
		kept := list[:0]
		for _, v := range list {
			if v != value {
				kept = append(kept, v)
			}
		}
		return kept, nil
	})
}

func (kv *BoltKV) LLen(key string) (int64, error) {
	list, err := kv.readList(key)
	return int64(len(list)), err
}

func (kv *BoltKV) Del(key string) error {
	return kv.bdb.Update(func(tx *bbolt.Tx) error {
		for _, root := range [][]byte{boltHashesBucket, boltZSetsBucket} {
			rb := tx.Bucket(root)
			if rb == nil || rb.Bucket([]byte(key)) == nil {
				continue
			}
			if err := rb.DeleteBucket([]byte(key)); err != nil {
				return err
			}
		}
		if rb := tx.Bucket(boltListsBucket); rb != nil {
			if err := rb.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (kv *BoltKV) readZSet(key string) (map[string]float64, error) {
	set := make(map[string]float64)
	err := kv.bdb.View(func(tx *bbolt.Tx) error {
		b := nestedBucket(tx, boltZSetsBucket, key)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var score float64
			if err := msgpack.Unmarshal(v, &score); err != nil {
				return err
			}
			set[string(k)] = score
			return nil
		})
	})
	return set, err
}

func (kv *BoltKV) readList(key string) ([]string, error) {
	var list []string
	err := kv.bdb.View(func(tx *bbolt.Tx) error {
		rb := tx.Bucket(boltListsBucket)
		if rb == nil {
			return nil
		}
		raw := rb.Get([]byte(key))
		if raw == nil {
			return nil
		}
		return msgpack.Unmarshal(raw, &list)
	})
	return list, err
}

func (kv *BoltKV) updateList(key string, fn func([]string) ([]string, error)) error {
	return kv.bdb.Update(func(tx *bbolt.Tx) error {
		rb, err := tx.CreateBucketIfNotExists(boltListsBucket)
		if err != nil {
			return err
		}
		var list []string
		if raw := rb.Get([]byte(key)); raw != nil {
			if err := msgpack.Unmarshal(raw, &list); err != nil {
				return err
			}
		}
		list, err = fn(list)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			return rb.Delete([]byte(key))
		}
		raw, err := msgpack.Marshal(list)
		if err != nil {
			return err
		}
		return rb.Put([]byte(key), raw)
	})
}

func nestedBucket(tx *bbolt.Tx, root []byte, key string) *bbolt.Bucket {
	rb := tx.Bucket(root)
	if rb == nil {
		return nil
	}
	return rb.Bucket([]byte(key))
}

func createNestedBucket(tx *bbolt.Tx, root []byte, key string) (*bbolt.Bucket, error) {
	rb, err := tx.CreateBucketIfNotExists(root)
	if err != nil {
		return nil, err
	}
	return rb.CreateBucketIfNotExists([]byte(key))
}

// BoltDocStore implements the document capability surface on a Bolt
// database. Documents are msgpack-encoded under one nested bucket per
// {index, doc type} pair.
type BoltDocStore struct {
	bdb *bbolt.DB
}

// NewBoltDocStore returns a document backend stored in the given Bolt
// database.
func NewBoltDocStore(bdb *bbolt.DB) *BoltDocStore {
	return &BoltDocStore{bdb: bdb}
}

func (ds *BoltDocStore) Index(index, docType, id string, body map[string]any) error {
	raw, err := msgpack.Marshal(body)
	if err != nil {
		return err
	}
	return ds.bdb.Update(func(tx *bbolt.Tx) error {
		b, err := createNestedBucket(tx, boltDocsBucket, index+"/"+docType)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), raw)
	})
}

func (ds *BoltDocStore) Get(index, docType, id string) (map[string]any, error) {
	var body map[string]any
	err := ds.bdb.View(func(tx *bbolt.Tx) error {
		b := nestedBucket(tx, boltDocsBucket, index+"/"+docType)
		if b == nil {
			return fmt.Errorf("%w: %s", ErrNoDocument, docKey(index, docType, id))
		}
		raw := b.Get([]byte(id))
		if raw == nil {
			return fmt.Errorf("%w: %s", ErrNoDocument, docKey(index, docType, id))
		}
		return msgpack.Unmarshal(raw, &body)
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
