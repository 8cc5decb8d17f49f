package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewShareID_Format(t *testing.T) {
	id, err := NewShareID()
	assert.NoError(t, err)
	assert.Len(t, id, ShareIDLength)

	for _, r := range id {
		assert.Contains(t, "0123456789abcdef", string(r))
	}
}

func TestNewShareID_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := NewShareID()
		assert.NoError(t, err)
		assert.False(t, seen[id], "generated duplicate share id %s", id)
		seen[id] = true
	}
}
