package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordKeepsInsertionOrder(t *testing.T) {
	r := NewRecord()
	r.Set("uid", "0")
	r.Set("fn", "John")
	r.Set("tel", "1")
	r.Set("fn", "Johnny")

	assert.Equal(t, []string{"uid", "fn", "tel"}, r.Keys())
	assert.Equal(t, "Johnny", r.Get("fn"))
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, "0", r.UID())
}

func TestRecordLookup(t *testing.T) {
	r := NewRecord()
	r.Set("match", "")

	v, ok := r.Lookup("match")
	assert.True(t, ok)
	assert.Empty(t, v)
	assert.True(t, r.Has("match"))

	_, ok = r.Lookup("email")
	assert.False(t, ok)
	assert.Empty(t, r.Get("email"))
}

func TestRecordCloneIsIndependent(t *testing.T) {
	r := NewRecord()
	r.Set("fn", "John")

	c := r.Clone()
	c.Set("fn", "Jane")
	c.Set("tel", "123")

	assert.Equal(t, "John", r.Get("fn"))
	assert.False(t, r.Has("tel"))
	assert.Equal(t, []string{"fn", "tel"}, c.Keys())
}

func TestKeysReturnsCopy(t *testing.T) {
	r := NewRecord()
	r.Set("a", "1")
	keys := r.Keys()
	keys[0] = "z"
	assert.Equal(t, []string{"a"}, r.Keys())
}
