package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarnings(t *testing.T) {
	var w *Warnings
	w.Add("ignored")
	assert.Equal(t, []string{}, w.List())
	assert.Zero(t, w.Len())

	w = &Warnings{}
	w.Add("a")
	w.Add("b")
	list := w.List()
	list[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, w.List())
	assert.Equal(t, 2, w.Len())
}
