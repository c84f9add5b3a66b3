package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIDsArePositiveAndUnique(t *testing.T) {
	g := Default()
	seen := make(map[int64]struct{}, 1000)
	for range 1000 {
		id := g.NextID()
		assert.Positive(t, id)
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
	assert.Same(t, g, Default())
}
