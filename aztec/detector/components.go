package detector

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/hwellmann/zxing/bitutil"
)

// Component is a maximal 4-connected set of same-coloured pixels in a bit
// matrix. Each component carries a unique positive label.
type Component struct {
	Label     int
	NumPixels int
	Envelope  Envelope
	Black     bool
}

// String implements fmt.Stringer.
func (c *Component) String() string {
	colour := "W"
	if c.Black {
		colour = "B"
	}
	return fmt.Sprintf("%d -> %s %d %s", c.Label, colour, c.NumPixels, c.Envelope)
}

// ComponentFinder partitions a bit matrix into its 4-connected components
// using two-pass union-find labelling. Two pixels carry the same label if
// and only if they have the same colour and are connected by a path of
// horizontally or vertically adjacent pixels of that colour.
//
// FindComponents must be called before Components or Label.
type ComponentFinder struct {
	matrix *bitutil.BitMatrix
	width  int
	height int

	labels  []int32
	parent  []int32
	counts  []int32
	current int32

	components map[int]*Component
}

// NewComponentFinder creates a finder for the given bit matrix.
func NewComponentFinder(matrix *bitutil.BitMatrix) *ComponentFinder {
	w := matrix.Width()
	h := matrix.Height()
	return &ComponentFinder{
		matrix:     matrix,
		width:      w,
		height:     h,
		labels:     make([]int32, w*h),
		parent:     make([]int32, w*h+1),
		components: make(map[int]*Component),
	}
}

// BitMatrix returns the underlying bit matrix.
func (f *ComponentFinder) BitMatrix() *bitutil.BitMatrix {
	return f.matrix
}

// Components returns the map from labels to components.
func (f *ComponentFinder) Components() map[int]*Component {
	return f.components
}

// Label returns the component label of pixel (x, y).
func (f *ComponentFinder) Label(x, y int) int {
	return int(f.labels[y*f.width+x])
}

// FindComponents labels every pixel of the matrix. The first pass assigns
// provisional labels and records label equivalences; the second pass
// resolves each pixel to its root label and collects the per-component
// pixel counts and envelopes.
func (f *ComponentFinder) FindComponents() {
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			f.labelPixel(x, y, f.matrix.Get(x, y))
		}
	}

	f.counts = make([]int32, f.current+1)
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			label := f.resolve(x, y)
			f.expandComponent(x, y, label)
		}
	}
	slog.Debug("connected components labelled", "components", len(f.components))
}

// labelPixel assigns a label to the given pixel. If no same-coloured
// neighbour is labelled yet, a fresh label is allocated; otherwise the
// pixel takes the smallest neighbour label and all other neighbour labels
// are unioned with it.
func (f *ComponentFinder) labelPixel(x, y int, bit bool) {
	var neighbours [4]int32
	n := 0
	min := int32(math.MaxInt32)

	check := func(i, j int) {
		if i < 0 || j < 0 || i >= f.width || j >= f.height {
			return
		}
		if f.matrix.Get(i, j) != bit {
			return
		}
		label := f.labels[j*f.width+i]
		if label == 0 {
			return
		}
		neighbours[n] = label
		n++
		if label < min {
			min = label
		}
	}

	check(x-1, y)
	check(x+1, y)
	check(x, y-1)
	check(x, y+1)

	if n == 0 {
		f.current++
		f.labels[y*f.width+x] = f.current
		return
	}

	f.labels[y*f.width+x] = min
	for i := 0; i < n; i++ {
		if neighbours[i] != min {
			f.union(neighbours[i], min)
		}
	}
}

// union merges the equivalence classes of the two labels by linking their
// chain roots, keeping the smaller root as parent.
func (f *ComponentFinder) union(a, b int32) {
	ra := f.root(a)
	rb := f.root(b)
	if ra == rb {
		return
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	f.parent[rb] = ra
}

// root follows the parent chain of the given label. Roots have parent 0.
func (f *ComponentFinder) root(label int32) int32 {
	for f.parent[label] != 0 {
		label = f.parent[label]
	}
	return label
}

// resolve replaces the provisional label of pixel (x, y) by its root,
// compressing the parent chain on the way, and counts the pixel.
func (f *ComponentFinder) resolve(x, y int) int32 {
	label := f.labels[y*f.width+x]
	root := label
	for f.parent[root] != 0 {
		root = f.parent[root]
	}
	for f.parent[label] != 0 {
		next := f.parent[label]
		f.parent[label] = root
		label = next
	}
	f.labels[y*f.width+x] = root
	f.counts[root]++
	return root
}

// expandComponent grows the envelope of the component with the given label
// to include pixel (x, y), creating the component record on first sight.
func (f *ComponentFinder) expandComponent(x, y int, label int32) {
	c := f.components[int(label)]
	if c == nil {
		c = &Component{
			Label:    int(label),
			Envelope: NewEnvelope(),
			Black:    f.matrix.Get(x, y),
		}
		f.components[int(label)] = c
	}
	c.Envelope.Expand(x, y)
	c.NumPixels = int(f.counts[label])
}
