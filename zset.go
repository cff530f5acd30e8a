package basilisk

import (
	"math"

	"github.com/rs/zerolog"
)

// SortedSet proxies one remote sorted set, whose members are ordered by a
// numeric score. SetScore and Delete queue in a changelist until Save
// flushes them; everything else is an immediate store call. A SortedSet is
// not safe for concurrent use.
type SortedSet struct {
	kv      KV
	log     zerolog.Logger
	name    string
	changes changelist[float64]
}

// NewSortedSet returns a proxy for the sorted set stored under name in the
// given namespace.
func NewSortedSet(namespace, name string) (*SortedSet, error) {
	reg, err := Namespace(namespace)
	if err != nil {
		return nil, err
	}
	kv, err := reg.requireKV()
	if err != nil {
		return nil, err
	}
	return &SortedSet{kv: kv, log: reg.log, name: name, changes: newChangelist[float64]()}, nil
}

// Key returns the store key this sorted set lives under.
func (z *SortedSet) Key() string {
	return z.name
}

// SetScore queues adding the member with the given score, or re-scoring it
// if present; it reaches the store on Save.
func (z *SortedSet) SetScore(member string, score float64) {
	z.changes.set(member, score)
}

// Delete queues a member removal; it reaches the store on Save.
func (z *SortedSet) Delete(member string) {
	z.changes.delete(member)
}

// Save flushes the changelist with the same last-write-wins batching as
// Hash.Save: at most one batched remove followed by at most one batched add.
// The changelist survives a failed flush for whole retry.
func (z *SortedSet) Save() error {
	if z.changes.empty() {
		return nil
	}
	set, del := z.changes.resolve()
	z.log.Debug().Str("key", z.Key()).Int("set", len(set)).Int("del", len(del)).Msg("flush sorted set")
	if len(del) > 0 {
		if err := z.kv.ZRem(z.Key(), del...); err != nil {
			return err
		}
	}
	if len(set) > 0 {
		if err := z.kv.ZAdd(z.Key(), set); err != nil {
			return err
		}
	}
	z.changes.clear()
	return nil
}

// Len returns the store-side member count.
func (z *SortedSet) Len() (int64, error) {
	return z.kv.ZCard(z.Key())
}

// Clear deletes the whole sorted set from the store immediately.
func (z *SortedSet) Clear() error {
	return z.kv.Del(z.Key())
}

// Lowest returns the member with the lowest score. An empty set yields the
// zero Member.
func (z *SortedSet) Lowest() (Member, error) {
	m, _, err := z.kv.ZFirst(z.Key())
	return m, err
}

// Highest returns the member with the highest score. An empty set yields
// the zero Member.
func (z *SortedSet) Highest() (Member, error) {
	m, _, err := z.kv.ZLast(z.Key())
	return m, err
}

// Range returns a lazy view over the members whose score falls within
// [min, max]. The view always reads live store state: edits queued by
// SetScore or Delete are invisible to it until Save.
func (z *SortedSet) Range(min, max float64) *ScoreRange {
	return &ScoreRange{kv: z.kv, key: z.Key(), min: min, max: max}
}

// RangeAll returns a lazy view over the entire set.
func (z *SortedSet) RangeAll() *ScoreRange {
	return z.Range(math.Inf(-1), math.Inf(1))
}

// Score returns a lazy view over the members with exactly the given score.
func (z *SortedSet) Score(score float64) *ScoreRange {
	return z.Range(score, score)
}

// DeleteRange immediately removes every member whose score falls within
// [min, max]. Unlike Delete, it does not go through the changelist.
func (z *SortedSet) DeleteRange(min, max float64) error {
	return z.kv.ZRemRangeByScore(z.Key(), min, max)
}

// DeleteScore immediately removes every member with exactly the given score.
func (z *SortedSet) DeleteScore(score float64) error {
	return z.DeleteRange(score, score)
}

// ScoreRange is a read-only view over the members of a sorted set whose
// score falls within [min, max]. It holds no data: every accessor translates
// into a range-by-score or range-cardinality query against the live store.
type ScoreRange struct {
	kv       KV
	key      string
	min, max float64
}

// Len returns the number of members in the range.
func (r *ScoreRange) Len() (int64, error) {
	return r.kv.ZCount(r.key, r.min, r.max)
}

// At returns the member at position i within the range; ok is false when
// the position is past the end.
func (r *ScoreRange) At(i int64) (member string, ok bool, err error) {
	members, err := r.kv.ZRangeByScore(r.key, r.min, r.max, i, 1)
	if err != nil || len(members) == 0 {
		return "", false, err
	}
	return members[0], true, nil
}

// Slice returns the members from position start up to but excluding stop.
// Pass End as stop to take everything from start on.
func (r *ScoreRange) Slice(start, stop int64) ([]string, error) {
	if start < 0 {
		start = 0
	}
	if stop == End {
		n, err := r.Len()
		if err != nil {
			return nil, err
		}
		if n <= start {
			return nil, nil
		}
		return r.kv.ZRangeByScore(r.key, r.min, r.max, start, n-start)
	}
	if stop <= start {
		return nil, nil
	}
	return r.kv.ZRangeByScore(r.key, r.min, r.max, start, stop-start)
}

// All returns every member in the range, lowest score first.
func (r *ScoreRange) All() ([]string, error) {
	return r.Slice(0, End)
}
