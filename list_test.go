package basilisk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQueue(t *testing.T, ns string, values ...string) *List {
	t.Helper()
	l, err := NewList(ns, "queue")
	require.NoError(t, err)
	for _, v := range values {
		require.NoError(t, l.Append(v))
	}
	return l
}

func TestListAppendPrependPop(t *testing.T) {
	ns := freshNamespace(t)
	l := testQueue(t, ns, "1", "2", "3", "4", "5")
	require.NoError(t, l.Prepend("0"))

	n, err := l.Len()
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	v, ok, err := l.Pop()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "5", v)

	v, ok, err = l.PopFront()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0", v)

	n, err = l.Len()
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestListPopEmpty(t *testing.T) {
	ns := freshNamespace(t)
	l := testQueue(t, ns)

	_, ok, err := l.Pop()
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = l.PopFront()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListRangeIsHalfOpen(t *testing.T) {
	ns := freshNamespace(t)
	l := testQueue(t, ns, "a", "b", "c", "d")

	values, err := l.Range(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, values)

	values, err = l.Range(2, 2)
	require.NoError(t, err)
	assert.Empty(t, values)

	values, err = l.Range(1, End)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "d"}, values)

	values, err = l.All()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, values)
}

func TestListAtAndSetAt(t *testing.T) {
	ns := freshNamespace(t)
	l := testQueue(t, ns, "a", "b", "c")

	v, ok, err := l.At(1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok, err = l.At(9)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.SetAt(1, "B"))
	values, err := l.All()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "B", "c"}, values)

	assert.Error(t, l.SetAt(9, "x"))
}

func TestListRemoveDeletesAllOccurrences(t *testing.T) {
	ns := freshNamespace(t)
	l := testQueue(t, ns, "x", "a", "x", "b", "x")

	require.NoError(t, l.Remove("x"))
	values, err := l.All()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, values)
}

func TestListClear(t *testing.T) {
	ns := freshNamespace(t)
	l := testQueue(t, ns, "a", "b")

	require.NoError(t, l.Clear())
	n, err := l.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
}
