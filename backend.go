package basilisk

import "sort"

// Member is a sorted-set element paired with its score.
type Member struct {
	Value string
	Score float64
}

// KV is the capability surface basilisk requires of a key-value backend.
// Method names follow the corresponding store commands; a backend wrapping a
// remote client only needs to forward them. Implementations must be safe for
// concurrent use so that one client can be shared across a namespace.
type KV interface {
	// Hashes.
	HSet(key string, fields map[string]string) error
	HDel(key string, fields ...string) error
	HGetAll(key string) (map[string]string, error)
	// HMGet returns the requested fields that exist; absent fields are
	// simply missing from the result.
	HMGet(key string, fields ...string) (map[string]string, error)
	HExists(key, field string) (bool, error)
	HLen(key string) (int64, error)
	HKeys(key string) ([]string, error)

	// Sorted sets, ordered by score and then lexically by member.
	ZAdd(key string, members map[string]float64) error
	ZRem(key string, members ...string) error
	ZRangeByScore(key string, min, max float64, offset, count int64) ([]string, error)
	ZCount(key string, min, max float64) (int64, error)
	ZRemRangeByScore(key string, min, max float64) error
	ZCard(key string) (int64, error)
	ZFirst(key string) (Member, bool, error)
	ZLast(key string) (Member, bool, error)

	// Lists. LRange uses inclusive bounds with negative indices counting
	// from the tail, matching the store command it forwards to.
	LRange(key string, start, stop int64) ([]string, error)
	LPush(key, value string) error
	RPush(key, value string) error
	LPop(key string) (string, bool, error)
	RPop(key string) (string, bool, error)
	LSet(key string, index int64, value string) error
	LRem(key, value string) error
	LLen(key string) (int64, error)

	// Del removes the whole collection stored under key.
	Del(key string) error
}

// DocStore is the capability surface basilisk requires of a document backend.
type DocStore interface {
	Index(index, docType, id string, body map[string]any) error
	// Get returns an error matching ErrNoDocument when the document does
	// not exist.
	Get(index, docType, id string) (map[string]any, error)
}

// End marks an open right bound in Range and Slice calls.
const End int64 = -1

// Helpers shared by the in-memory and Bolt backends, which both keep sorted
// sets as unordered member→score maps and sort on read.

func sortedMembers(set map[string]float64) []Member {
	members := make([]Member, 0, len(set))
	for value, score := range set {
		members = append(members, Member{Value: value, Score: score})
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Score != members[j].Score {
			return members[i].Score < members[j].Score
		}
		return members[i].Value < members[j].Value
	})
	return members
}

func membersInRange(members []Member, min, max float64) []Member {
	var out []Member
	for _, m := range members {
		if m.Score >= min && m.Score <= max {
			out = append(out, m)
		}
	}
	return out
}

func pageMembers(members []Member, offset, count int64) []string {
	if offset < 0 {
		offset = 0
	}
	if offset >= int64(len(members)) || count <= 0 {
		return nil
	}
	end := offset + count
	if end > int64(len(members)) {
		end = int64(len(members))
	}
	out := make([]string, 0, end-offset)
	for _, m := range members[offset:end] {
		out = append(out, m.Value)
	}
	return out
}

// normalizeListRange maps inclusive start/stop bounds with tail-relative
// negative indices onto a [from, to) slice of a list of length n.
func normalizeListRange(n, start, stop int64) (from, to int64, ok bool) {
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if n == 0 || start > stop || start >= n || stop < 0 {
		return 0, 0, false
	}
	return start, stop + 1, true
}
