package adorable

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryCache(t *testing.T) {
	c := NewEntryCache()

	_, ok := c.Get("a.html")
	assert.False(t, ok, "unscanned path")

	c.Set("a.html", []string{"p(4)", "m(2)"})
	c.Set("b.html", []string{})
	c.Set("c.html", []string{"m(2)", "c(red)"})

	atoms, ok := c.Get("b.html")
	require.True(t, ok, "scanned path without atoms")
	assert.Empty(t, atoms)

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"a.html", "b.html", "c.html"}, c.Paths())
	assert.Equal(t, []string{"p(4)", "m(2)", "c(red)"}, c.Atoms())

	// Overwrites keep the original position.
	c.Set("a.html", []string{"w(10)"})
	assert.Equal(t, []string{"a.html", "b.html", "c.html"}, c.Paths())
	assert.Equal(t, []string{"w(10)", "m(2)", "c(red)"}, c.Atoms())
}

func TestEntryCache_Replace(t *testing.T) {
	c := NewEntryCache()
	c.Set("old.html", []string{"flex"})

	c.Replace([]Entry{
		{Path: "b.html", Atoms: []string{"p(1)"}},
		{Path: "a.html", Atoms: []string{"p(2)"}},
	})

	_, ok := c.Get("old.html")
	assert.False(t, ok)
	assert.Equal(t, []string{"b.html", "a.html"}, c.Paths())
	assert.Equal(t, []string{"p(1)", "p(2)"}, c.Atoms())
}

func TestEntryCache_CopiesInput(t *testing.T) {
	c := NewEntryCache()
	atoms := []string{"p(4)"}
	c.Set("a.html", atoms)
	atoms[0] = "changed"

	got, _ := c.Get("a.html")
	assert.Equal(t, []string{"p(4)"}, got)
}

func TestEntryCache_Concurrent(t *testing.T) {
	c := NewEntryCache()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Set(fmt.Sprintf("f%d.html", i), []string{fmt.Sprintf("z(%d)", i)})
			_ = c.Atoms()
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, c.Len())
	assert.Len(t, c.Atoms(), 20)
}
