package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/Jerry-Shen0527/rznode/internal/typed"
)

func TestMemory_GetSetDelete(t *testing.T) {
	reg := typed.NewRegistry()
	number := reg.Register("number", cty.Number)

	m := NewMemory()
	_, ok := m.Get("x")
	assert.False(t, ok)

	m.Set("x", typed.New(number, cty.NumberIntVal(5)))
	v, ok := m.Get("x")
	require.True(t, ok)
	assert.Equal(t, int64(5), mustInt(v))

	m.Delete("x")
	_, ok = m.Get("x")
	assert.False(t, ok)
}

func TestMemory_Names(t *testing.T) {
	reg := typed.NewRegistry()
	number := reg.Register("number", cty.Number)

	m := NewMemory()
	m.Set("a", typed.New(number, cty.NumberIntVal(1)))
	m.Set("b", typed.New(number, cty.NumberIntVal(2)))

	names := m.Names()
	assert.Len(t, names, 2)
	assert.Contains(t, names, "a")
	assert.Contains(t, names, "b")

	m.Delete("a")
	assert.Equal(t, []string{"b"}, m.Names())
}

func mustInt(a typed.Any) int64 {
	i, _ := a.Value().AsBigFloat().Int64()
	return i
}
