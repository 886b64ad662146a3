package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldOrder(t *testing.T) {
	records := []*Record{
		record("uid", "0", "fn", "A", "match", "", "certainty", ""),
		record("uid", "1", "tel", "1", "fn", "B", "match", "0"),
		record("email", "x", "uid", "2", "note", "n"),
	}

	assert.Equal(t, []string{"uid", "fn", "tel", "email", "note"}, FieldOrder(records))
}

func TestFieldOrderEmpty(t *testing.T) {
	assert.Empty(t, FieldOrder(nil))
	assert.Empty(t, FieldOrder([]*Record{record("match", "", "certainty", "")}))
}
