package basilisk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The same conformance suite runs against every KV implementation: proxies
// and models must behave identically on top of any of them.

func TestMemoryKVConformance(t *testing.T) {
	runKVConformance(t, func(t *testing.T) KV { return NewMemoryKV() })
}

func TestBoltKVConformance(t *testing.T) {
	runKVConformance(t, func(t *testing.T) KV { return NewBoltKV(openTestBolt(t)) })
}

func runKVConformance(t *testing.T, open func(t *testing.T) KV) {
	t.Run("hashes", func(t *testing.T) {
		kv := open(t)
		require.NoError(t, kv.HSet("h", map[string]string{"a": "1", "b": "2"}))
		require.NoError(t, kv.HSet("h", map[string]string{"b": "22", "c": "3"}))

		all, err := kv.HGetAll("h")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"a": "1", "b": "22", "c": "3"}, all)

		some, err := kv.HMGet("h", "a", "missing")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"a": "1"}, some)

		ok, err := kv.HExists("h", "a")
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = kv.HExists("h", "zz")
		require.NoError(t, err)
		assert.False(t, ok)

		n, err := kv.HLen("h")
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		keys, err := kv.HKeys("h")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "b", "c"}, keys)

		require.NoError(t, kv.HDel("h", "a", "missing"))
		n, err = kv.HLen("h")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		all, err = kv.HGetAll("absent")
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("sorted sets", func(t *testing.T) {
		kv := open(t)
		require.NoError(t, kv.ZAdd("z", map[string]float64{"a": 3, "b": 1, "c": 2, "d": 2}))

		// Ordered by score, ties by member.
		members, err := kv.ZRangeByScore("z", math.Inf(-1), math.Inf(1), 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c", "d", "a"}, members)

		members, err = kv.ZRangeByScore("z", 2, 3, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"d"}, members)

		n, err := kv.ZCount("z", 2, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		first, ok, err := kv.ZFirst("z")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, Member{Value: "b", Score: 1}, first)

		last, ok, err := kv.ZLast("z")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, Member{Value: "a", Score: 3}, last)

		// Re-scoring moves a member.
		require.NoError(t, kv.ZAdd("z", map[string]float64{"a": 0}))
		first, _, err = kv.ZFirst("z")
		require.NoError(t, err)
		assert.Equal(t, Member{Value: "a", Score: 0}, first)

		require.NoError(t, kv.ZRem("z", "d", "missing"))
		n, err = kv.ZCard("z")
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		require.NoError(t, kv.ZRemRangeByScore("z", 0, 1))
		members, err = kv.ZRangeByScore("z", math.Inf(-1), math.Inf(1), 0, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"c"}, members)

		_, ok, err = kv.ZFirst("absent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("lists", func(t *testing.T) {
		kv := open(t)
		require.NoError(t, kv.RPush("l", "b"))
		require.NoError(t, kv.RPush("l", "c"))
		require.NoError(t, kv.LPush("l", "a"))

		all, err := kv.LRange("l", 0, -1)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, all)

		part, err := kv.LRange("l", 1, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, part)

		part, err = kv.LRange("l", -2, -1)
		require.NoError(t, err)
		assert.Equal(t, []string{"b", "c"}, part)

		part, err = kv.LRange("l", 5, 9)
		require.NoError(t, err)
		assert.Empty(t, part)

		require.NoError(t, kv.LSet("l", 1, "B"))
		v, ok, err := kv.LPop("l")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "a", v)

		v, ok, err = kv.RPop("l")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "c", v)

		n, err := kv.LLen("l")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		require.NoError(t, kv.RPush("l", "B"))
		require.NoError(t, kv.LRem("l", "B"))
		n, err = kv.LLen("l")
		require.NoError(t, err)
		assert.Zero(t, n)

		_, ok, err = kv.LPop("absent")
		require.NoError(t, err)
		assert.False(t, ok)

		assert.Error(t, kv.LSet("absent", 0, "x"))
	})

	t.Run("delete key", func(t *testing.T) {
		kv := open(t)
		require.NoError(t, kv.HSet("k", map[string]string{"a": "1"}))
		require.NoError(t, kv.ZAdd("k", map[string]float64{"m": 1}))
		require.NoError(t, kv.RPush("k", "v"))

		require.NoError(t, kv.Del("k"))

		hn, err := kv.HLen("k")
		require.NoError(t, err)
		assert.Zero(t, hn)
		zn, err := kv.ZCard("k")
		require.NoError(t, err)
		assert.Zero(t, zn)
		ln, err := kv.LLen("k")
		require.NoError(t, err)
		assert.Zero(t, ln)

		require.NoError(t, kv.Del("never-existed"))
	})
}

func TestMemoryDocStoreConformance(t *testing.T) {
	runDocConformance(t, func(t *testing.T) DocStore { return NewMemoryDocStore() })
}

func TestBoltDocStoreConformance(t *testing.T) {
	runDocConformance(t, func(t *testing.T) DocStore { return NewBoltDocStore(openTestBolt(t)) })
}

func runDocConformance(t *testing.T, open func(t *testing.T) DocStore) {
	t.Run("round trip", func(t *testing.T) {
		ds := open(t)
		body := map[string]any{"title": "hello", "lang": "en"}
		require.NoError(t, ds.Index("idx", "Article", "1", body))

		got, err := ds.Get("idx", "Article", "1")
		require.NoError(t, err)
		assert.Equal(t, "hello", got["title"])
		assert.Equal(t, "en", got["lang"])
	})

	t.Run("overwrite", func(t *testing.T) {
		ds := open(t)
		require.NoError(t, ds.Index("idx", "Article", "1", map[string]any{"title": "a"}))
		require.NoError(t, ds.Index("idx", "Article", "1", map[string]any{"title": "b"}))

		got, err := ds.Get("idx", "Article", "1")
		require.NoError(t, err)
		assert.Equal(t, "b", got["title"])
	})

	t.Run("not found", func(t *testing.T) {
		ds := open(t)
		_, err := ds.Get("idx", "Article", "missing")
		assert.ErrorIs(t, err, ErrNoDocument)

		require.NoError(t, ds.Index("idx", "Article", "1", map[string]any{"title": "a"}))
		_, err = ds.Get("idx", "Other", "1")
		assert.ErrorIs(t, err, ErrNoDocument)
	})

	t.Run("doc types are distinct", func(t *testing.T) {
		ds := open(t)
		require.NoError(t, ds.Index("idx", "Article", "1", map[string]any{"kind": "article"}))
		require.NoError(t, ds.Index("idx", "User", "1", map[string]any{"kind": "user"}))

		got, err := ds.Get("idx", "User", "1")
		require.NoError(t, err)
		assert.Equal(t, "user", got["kind"])
	})
}
