package basilisk

// List proxies one remote list. Unlike Hash and SortedSet there is no
// changelist: every operation takes effect in the store immediately. A List
// is not safe for concurrent use.
type List struct {
	kv   KV
	name string
}

// NewList returns a proxy for the list stored under name in the given
// namespace.
func NewList(namespace, name string) (*List, error) {
	reg, err := Namespace(namespace)
	if err != nil {
		return nil, err
	}
	kv, err := reg.requireKV()
	if err != nil {
		return nil, err
	}
	return &List{kv: kv, name: name}, nil
}

// Key returns the store key this list lives under.
func (l *List) Key() string {
	return l.name
}

// Append adds the value at the end of the list.
func (l *List) Append(value string) error {
	return l.kv.RPush(l.Key(), value)
}

// Prepend adds the value at the beginning of the list.
func (l *List) Prepend(value string) error {
	return l.kv.LPush(l.Key(), value)
}

// Pop removes and returns the last element; ok is false when the list is
// empty.
func (l *List) Pop() (value string, ok bool, err error) {
	return l.kv.RPop(l.Key())
}

// PopFront removes and returns the first element; ok is false when the list
// is empty.
func (l *List) PopFront() (value string, ok bool, err error) {
	return l.kv.LPop(l.Key())
}

// Remove deletes all occurrences of the value from the list.
func (l *List) Remove(value string) error {
	return l.kv.LRem(l.Key(), value)
}

// At returns the element at index i; ok is false when the index is out of
// range.
func (l *List) At(i int64) (value string, ok bool, err error) {
	values, err := l.kv.LRange(l.Key(), i, i)
	if err != nil || len(values) == 0 {
		return "", false, err
	}
	return values[0], true, nil
}

// SetAt assigns the element at index i. Assigning out of range is an error
// from the backend.
func (l *List) SetAt(i int64, value string) error {
	return l.kv.LSet(l.Key(), i, value)
}

// Range returns the elements from index start up to but excluding stop.
// Pass End as stop to take everything from start on.
func (l *List) Range(start, stop int64) ([]string, error) {
	if stop == End {
		return l.kv.LRange(l.Key(), start, -1)
	}
	if stop <= start {
		return nil, nil
	}
	return l.kv.LRange(l.Key(), start, stop-1)
}

// All returns every element in order.
func (l *List) All() ([]string, error) {
	return l.Range(0, End)
}

// Len returns the store-side length.
func (l *List) Len() (int64, error) {
	return l.kv.LLen(l.Key())
}

// Clear deletes the whole list from the store.
func (l *List) Clear() error {
	return l.kv.Del(l.Key())
}
