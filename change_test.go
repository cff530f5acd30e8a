package basilisk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangelistLastWriteWins(t *testing.T) {
	cl := newChangelist[string]()
	cl.set("a", "1")
	cl.set("a", "2")
	cl.set("b", "x")

	set, del := cl.resolve()
	assert.Equal(t, map[string]string{"a": "2", "b": "x"}, set)
	assert.Empty(t, del)
}

func TestChangelistSetThenDelete(t *testing.T) {
	cl := newChangelist[string]()
	cl.set("a", "1")
	cl.delete("a")

	set, del := cl.resolve()
	assert.Empty(t, set)
	assert.Equal(t, []string{"a"}, del)
}

func TestChangelistDeleteThenSet(t *testing.T) {
	cl := newChangelist[float64]()
	cl.delete("a")
	cl.set("a", 5)

	set, del := cl.resolve()
	assert.Equal(t, map[string]float64{"a": 5}, set)
	assert.Empty(t, del)
}

func TestChangelistResolveLeavesLogIntact(t *testing.T) {
	cl := newChangelist[string]()
	cl.set("a", "1")

	cl.resolve()
	assert.False(t, cl.empty())

	cl.clear()
	assert.True(t, cl.empty())
}
