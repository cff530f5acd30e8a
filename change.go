package basilisk

// A changelist is the ordered log of pending local mutations held by a
// buffered proxy: per key, every queued set and delete in order. Only the
// last operation per key survives a flush, so any number of local edits
// collapses into at most one batched delete plus one batched set.
type changelist[T any] struct {
	ops map[string][]changeOp[T]
}

type changeOp[T any] struct {
	value T
	del   bool
}

func newChangelist[T any]() changelist[T] {
	return changelist[T]{ops: make(map[string][]changeOp[T])}
}

func (cl *changelist[T]) set(key string, value T) {
	cl.ops[key] = append(cl.ops[key], changeOp[T]{value: value})
}

func (cl *changelist[T]) delete(key string) {
	cl.ops[key] = append(cl.ops[key], changeOp[T]{del: true})
}

func (cl *changelist[T]) empty() bool {
	return len(cl.ops) == 0
}

// resolve collapses the log to its last operation per key, partitioning the
// surviving keys into a batched set and a batched delete. The log itself is
// left intact; callers clear it only after the flush succeeds.
func (cl *changelist[T]) resolve() (set map[string]T, del []string) {
	set = make(map[string]T)
	for key, ops := range cl.ops {
		last := ops[len(ops)-1]
		if last.del {
			del = append(del, key)
		} else {
			set[key] = last.value
		}
	}
	return set, del
}

func (cl *changelist[T]) clear() {
	cl.ops = make(map[string][]changeOp[T])
}
