package basilisk

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
)

var nsSeq atomic.Int64

// freshNamespace configures a brand-new namespace backed by transient
// in-memory stores and returns its name. Registries live for the whole
// process, so every test gets its own namespace.
func freshNamespace(t *testing.T) string {
	t.Helper()
	ns := fmt.Sprintf("test.%d", nsSeq.Add(1))
	Configure(ns, Config{
		OpenKV:   func() (KV, error) { return NewMemoryKV(), nil },
		OpenDocs: func() (DocStore, error) { return NewMemoryDocStore(), nil },
	})
	return ns
}

// freshKVNamespace configures a new namespace on the given KV client.
func freshKVNamespace(t *testing.T, kv KV) string {
	t.Helper()
	ns := fmt.Sprintf("test.%d", nsSeq.Add(1))
	Configure(ns, Config{OpenKV: func() (KV, error) { return kv, nil }})
	return ns
}

func openTestBolt(t *testing.T) *bbolt.DB {
	t.Helper()
	bdb, err := bbolt.Open(filepath.Join(t.TempDir(), "basilisk.db"), 0o600, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bdb.Close() })
	return bdb
}

// countingKV wraps a KV and counts batched write calls, so tests can assert
// how many round trips a flush produced.
type countingKV struct {
	KV
	hsets, hdels int
	zadds, zrems int
	lastHSet     map[string]string
	lastZAdd     map[string]float64
}

func (c *countingKV) HSet(key string, fields map[string]string) error {
	c.hsets++
	c.lastHSet = fields
	return c.KV.HSet(key, fields)
}

func (c *countingKV) HDel(key string, fields ...string) error {
	c.hdels++
	return c.KV.HDel(key, fields...)
}

func (c *countingKV) ZAdd(key string, members map[string]float64) error {
	c.zadds++
	c.lastZAdd = members
	return c.KV.ZAdd(key, members)
}

func (c *countingKV) ZRem(key string, members ...string) error {
	c.zrems++
	return c.KV.ZRem(key, members...)
}

var errBackendDown = errors.New("backend down")

// flakyKV fails batched hash writes on demand, to exercise flush retry
// semantics.
type flakyKV struct {
	KV
	failHSet bool
}

func (f *flakyKV) HSet(key string, fields map[string]string) error {
	if f.failHSet {
		return errBackendDown
	}
	return f.KV.HSet(key, fields)
}
