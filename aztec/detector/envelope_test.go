package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyEnvelopeContainsNothing(t *testing.T) {
	e := NewEnvelope()
	assert.False(t, e.Contains(0, 0))
	assert.False(t, e.Contains(-1, -1))
	assert.False(t, e.Contains(1000, 1000))
}

func TestEnvelopeSinglePoint(t *testing.T) {
	e := NewEnvelope()
	e.Expand(3, 7)
	assert.True(t, e.Contains(3, 7))
	assert.False(t, e.Contains(2, 7))
	assert.False(t, e.Contains(4, 7))
	assert.False(t, e.Contains(3, 6))
	assert.False(t, e.Contains(3, 8))
}

func TestEnvelopeExpand(t *testing.T) {
	e := NewEnvelope()
	e.Expand(5, 5)
	e.Expand(2, 9)
	e.Expand(7, 1)

	assert.Equal(t, 2, e.MinX)
	assert.Equal(t, 1, e.MinY)
	assert.Equal(t, 7, e.MaxX)
	assert.Equal(t, 9, e.MaxY)

	assert.True(t, e.Contains(2, 1))
	assert.True(t, e.Contains(7, 9))
	assert.True(t, e.Contains(5, 5))
	assert.False(t, e.Contains(8, 5))
	assert.False(t, e.Contains(5, 0))
}

func TestEnvelopeString(t *testing.T) {
	e := NewEnvelope()
	e.Expand(1, 2)
	e.Expand(3, 4)
	assert.Equal(t, "[(1 2), (3 4)]", e.String())
}
