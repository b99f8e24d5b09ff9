package detector

import (
	"fmt"
	"math"
)

// Envelope is the axis-aligned bounding rectangle of a subset of a bit
// matrix. A freshly created envelope is empty and contains no point.
type Envelope struct {
	MinX, MinY int
	MaxX, MaxY int
}

// NewEnvelope returns an empty envelope.
func NewEnvelope() Envelope {
	return Envelope{MinX: math.MaxInt32, MinY: math.MaxInt32}
}

// Expand grows the envelope to include the given pixel.
func (e *Envelope) Expand(x, y int) {
	if x < e.MinX {
		e.MinX = x
	}
	if y < e.MinY {
		e.MinY = y
	}
	if x > e.MaxX {
		e.MaxX = x
	}
	if y > e.MaxY {
		e.MaxY = y
	}
}

// Contains reports whether the given pixel lies within the envelope.
func (e Envelope) Contains(x, y int) bool {
	return e.MinX <= x && x <= e.MaxX && e.MinY <= y && y <= e.MaxY
}

// String implements fmt.Stringer.
func (e Envelope) String() string {
	return fmt.Sprintf("[(%d %d), (%d %d)]", e.MinX, e.MinY, e.MaxX, e.MaxY)
}
