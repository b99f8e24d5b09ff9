// Package detector locates an Aztec code in a binary image based on the
// connected components of its bit matrix.
//
// The bull's eye is detected by its topological properties: it is a group
// of concentric rings with alternating colour around a black centre, so any
// ray emanating from a point in the centre module must intersect the same
// sequence of connected components, whatever its direction. The detector
// walks the black components in ascending order of pixel count and tests
// the four rays in east, west, south and north direction against this
// criterion.
//
// The fifth ring surrounding the centre (the third ring for compact codes)
// is the outermost white square of the finder pattern. A quadrilateral
// finder determines its four corners, which define a perspective transform
// mapping the distorted code to a resampled matrix where each module is
// moduleSize units wide. The resampled matrix yields the orientation marks
// and the mode message encoded around the bull's eye.
//
// For compact codes the transform is applied directly to produce the
// normalized matrix with one bit per module. For full-range codes,
// projection errors accumulate with the distance from the centre, so the
// transform is readjusted using the reference grid lines: the actual module
// positions on the central grid lines are located at a distance of 16
// modules from the centre and the transform is recomputed from them. The
// process repeats for every larger reference distance (32, 48, ...)
// before the matrix is normalized.
package detector

import (
	"log/slog"
	"math"
	"sort"

	"github.com/hwellmann/zxing"
	"github.com/hwellmann/zxing/bitutil"
	"github.com/hwellmann/zxing/reedsolomon"
	"github.com/hwellmann/zxing/transform"
)

// moduleSize is the width of one module in the resampled coordinate space.
const moduleSize = 6

// rotation re-maps the north/east/south/west reference point indices for
// each of the four possible symbol orientations.
var rotation = [4][4]int{
	{0, 1, 3, 2},
	{1, 2, 0, 3},
	{2, 3, 1, 0},
	{3, 0, 2, 1},
}

// Result is the outcome of a successful detection: the normalized bit
// matrix with one bit per module, the image-space corners of the symbol in
// NW, NE, SW, SE order, and the structural parameters read from the mode
// message.
type Result struct {
	Bits         *bitutil.BitMatrix
	Points       []zxing.ResultPoint
	Compact      bool
	NumDataWords int
	NumLayers    int
}

// Detector finds and rectifies one Aztec code in a bit matrix. A detector
// handles a single image; it is not reusable and not safe for concurrent
// use. The expected call order is Detect, ComputeTransform, Result.
type Detector struct {
	finder *ComponentFinder
	matrix *bitutil.BitMatrix
	env    Envelope

	whiteSquare      *Component
	whiteSquareLabel int
	compact          bool

	inverse *transform.PerspectiveTransform

	numLayers         int
	numDataWords      int
	matrixSize        int
	numReferenceLines int
	topLineIndex      int

	q            Quadrilateral
	outerCorners [8]float64
}

// New creates a detector working on the components found by the given
// finder. FindComponents must have been called on the finder.
func New(finder *ComponentFinder) *Detector {
	matrix := finder.BitMatrix()
	return &Detector{
		finder: finder,
		matrix: matrix,
		env: Envelope{
			MinX: 0,
			MinY: 0,
			MaxX: matrix.Width() - 1,
			MaxY: matrix.Height() - 1,
		},
	}
}

// Detect searches for the bull's eye, trying the black components in
// ascending order of pixel count. The first component satisfying the
// topological criteria wins. Returns zxing.ErrNotFound if no component
// qualifies.
func (d *Detector) Detect() error {
	components := make([]*Component, 0, len(d.finder.Components()))
	for _, c := range d.finder.Components() {
		components = append(components, c)
	}
	sort.Slice(components, func(i, j int) bool {
		return components[i].NumPixels < components[j].NumPixels
	})

	for _, component := range components {
		if d.isBlackCentre(component) {
			slog.Debug("bull's eye found",
				"centre", component.Label,
				"whiteSquare", d.whiteSquareLabel,
				"compact", d.compact)
			return nil
		}
	}
	return zxing.ErrNotFound
}

// isBlackCentre checks whether the given component satisfies the
// topological criteria of the black module at the centre of the bull's
// eye, and captures the outer white square if it does.
func (d *Detector) isBlackCentre(component *Component) bool {
	if !component.Black {
		return false
	}

	env := component.Envelope
	x := (env.MinX + env.MaxX) / 2
	y := (env.MinY + env.MaxY) / 2

	east := d.findRings(x, y, 1, 0)
	west := d.findRings(x, y, -1, 0)

	numRings := commonRings(east, west)
	if numRings < 4 {
		return false
	}

	if numRings > 6 {
		numRings = 6
	}
	if !distinct(east, numRings) {
		return false
	}

	south := d.findRings(x, y, 0, 1)
	if n := commonRings(east, south); n < numRings {
		numRings = n
	}
	if numRings < 4 {
		return false
	}

	north := d.findRings(x, y, 0, -1)
	if n := commonRings(east, north); n < numRings {
		numRings = n
	}
	if numRings < 4 {
		return false
	}

	d.compact = numRings < 6
	offset := 4
	if d.compact {
		offset = 2
	}
	d.whiteSquareLabel = east[offset]
	d.whiteSquare = d.finder.Components()[d.whiteSquareLabel]
	return true
}

// findRings collects the labels of the connected components intersecting
// the ray from (x0, y0) with direction (dx, dy), recording each label once
// per change.
func (d *Detector) findRings(x0, y0, dx, dy int) []int {
	var rings []int
	currentLabel := d.finder.Label(x0, y0)

	x := x0 + dx
	y := y0 + dy
	for d.env.Contains(x, y) {
		label := d.finder.Label(x, y)
		if label != currentLabel {
			rings = append(rings, label)
			currentLabel = label
		}
		x += dx
		y += dy
	}
	return rings
}

// commonRings returns the largest j such that left[i] == right[i] for all
// i < j.
func commonRings(left, right []int) int {
	c := 0
	for c < len(left) && c < len(right) && left[c] == right[c] {
		c++
	}
	return c
}

// distinct reports whether the first n labels are pairwise distinct.
func distinct(rings []int, n int) bool {
	seen := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		seen[rings[i]] = true
	}
	return len(seen) == n
}

// ComputeTransform computes the inverse perspective transform mapping the
// resampled square matrix to the original image: it locates the corners of
// the outer white square, builds the initial transform, decodes the mode
// message and refines the transform along the reference grid lines of
// full-range codes. Returns zxing.ErrNotFound if the mode message or the
// reference lines cannot be found.
func (d *Detector) ComputeTransform() error {
	if d.whiteSquare == nil {
		return zxing.ErrNotFound
	}
	d.q = NewQuadrilateralFinder(d.finder).Find(d.whiteSquareLabel)
	d.computeInitialTransform()
	if err := d.decodeModeMessage(); err != nil {
		return err
	}
	for i := 1; i <= d.numReferenceLines; i++ {
		if err := d.optimizeTransform(16 * i); err != nil {
			return err
		}
	}

	s := 0.5 * moduleSize * float64(d.matrixSize)
	corners := [8]float64{-s, -s, s, -s, -s, s, s, s}
	d.inverse.TransformPoints(corners[:])
	d.outerCorners = corners
	return nil
}

// computeInitialTransform builds the transform mapping the ideal corners
// of the outermost white square of the bull's eye to the corners found in
// the image.
func (d *Detector) computeInitialTransform() {
	s := float64(11 * moduleSize / 2)
	if d.compact {
		s = float64(7 * moduleSize / 2)
	}
	d.inverse = transform.QuadrilateralToQuadrilateral(
		-s, -s, s, -s, -s, s, s, s,
		float64(d.q.NWX), float64(d.q.NWY),
		float64(d.q.NEX), float64(d.q.NEY),
		float64(d.q.SWX), float64(d.q.SWY),
		float64(d.q.SEX), float64(d.q.SEY))
}

// decodeModeMessage samples the four mode lines surrounding the bull's
// eye, determines the symbol orientation from the corner marks, corrects
// the parameter bits with Reed-Solomon over GF(16) and extracts the number
// of layers and data words.
func (d *Detector) decodeModeMessage() error {
	r := 7
	if d.compact {
		r = 5
	}
	q := float64(r * moduleSize)
	corners := [8]float64{-q, -q, q, -q, q, q, -q, q}
	directions := [8]float64{moduleSize, 0, 0, moduleSize, -moduleSize, 0, 0, -moduleSize}

	line := make([]float64, 2*2*r)
	var values [4]int
	for i := 0; i < 4; i++ {
		x := corners[2*i]
		y := corners[2*i+1]
		dx := directions[2*i]
		dy := directions[2*i+1]
		for j := 0; j < 2*r; j++ {
			line[2*j] = x
			line[2*j+1] = y
			x += dx
			y += dy
		}
		d.inverse.TransformPoints(line)

		value := 0
		pos := 2*r - 1
		for j := 0; j < 2*r; j++ {
			tx := iround(line[2*j])
			ty := iround(line[2*j+1])
			if !d.env.Contains(tx, ty) {
				return zxing.ErrNotFound
			}
			if d.matrix.Get(tx, ty) {
				value |= 1 << pos
			}
			pos--
		}
		values[i] = value
	}

	topLineIndex, err := d.findTopLine(values)
	if err != nil {
		return err
	}
	d.topLineIndex = topLineIndex

	var parameterData uint64
	for i := 0; i < 4; i++ {
		side := values[(d.topLineIndex+i)%4]
		if d.compact {
			// Each side of the form ..XXXXXXX. where Xs are parameter data.
			parameterData <<= 7
			parameterData += uint64((side >> 1) & 0x7F)
		} else {
			// Each side of the form ..XXXXX.XXXXX. where Xs are parameter data.
			parameterData <<= 10
			parameterData += uint64(((side >> 2) & (0x1F << 5)) + ((side >> 1) & 0x1F))
		}
	}

	data, err := correctParameterData(parameterData, d.compact)
	if err != nil {
		return err
	}

	if d.compact {
		// 8 bits: 2 bits layers and 6 bits data words.
		d.numLayers = (data >> 6) + 1
		d.numDataWords = (data & 0x3F) + 1
		d.matrixSize = 11 + 4*d.numLayers
		d.numReferenceLines = 0
	} else {
		// 16 bits: 5 bits layers and 11 bits data words.
		d.numLayers = (data >> 11) + 1
		d.numDataWords = (data & 0x7FF) + 1
		// Net matrix width, not counting reference grid lines.
		baseMatrixSize := 14 + 4*d.numLayers
		d.numReferenceLines = (baseMatrixSize/2 - 1) / 15
		d.matrixSize = baseMatrixSize + 1 + 2*d.numReferenceLines
	}
	slog.Debug("mode message decoded",
		"layers", d.numLayers,
		"dataWords", d.numDataWords,
		"matrixSize", d.matrixSize)
	return nil
}

// findTopLine evaluates the orientation marks in the corners of the four
// mode lines to find the index of the line that should be on top. The
// left-most corner of the top line belongs to this line, the right-most
// corner belongs to the next line, and so on.
func (d *Detector) findTopLine(values [4]int) (int, error) {
	for index, value := range values {
		var bits int
		if d.compact {
			bits = (value&(3<<8))>>7 | (value & 1)
		} else {
			bits = (value&(3<<12))>>11 | (value & 1)
		}
		if bits == 7 {
			return (index + 3) % 4, nil
		}
	}
	return 0, zxing.ErrNotFound
}

// correctParameterData splits the parameter bits into 4-bit codewords and
// corrects them with Reed-Solomon over GF(16), returning the data bits as
// an integer.
func correctParameterData(parameterData uint64, compact bool) (int, error) {
	numCodewords := 10
	numDataCodewords := 4
	if compact {
		numCodewords = 7
		numDataCodewords = 2
	}

	words := make([]int, numCodewords)
	for i := numCodewords - 1; i >= 0; i-- {
		words[i] = int(parameterData & 0xF)
		parameterData >>= 4
	}

	if _, err := reedsolomon.NewDecoder(reedsolomon.Param).Decode(words, numCodewords-numDataCodewords); err != nil {
		return 0, zxing.ErrNotFound
	}

	result := 0
	for i := 0; i < numDataCodewords; i++ {
		result = result<<4 + words[i]
	}
	return result, nil
}

// sampleChanges walks the line t * (dx, dy) through the resampled space
// and collects the values of t at which the image colour changes.
func (d *Detector) sampleChanges(dx, dy float64) []int {
	var changes []int
	point := make([]float64, 2)
	currentBit := true
	for t := 0; t < d.matrixSize*(moduleSize/2+1); t++ {
		point[0] = float64(t) * dx
		point[1] = float64(t) * dy
		d.inverse.TransformPoints(point)
		tx := iround(point[0])
		ty := iround(point[1])
		if !d.env.Contains(tx, ty) {
			continue
		}
		if bit := d.matrix.Get(tx, ty); bit != currentBit {
			currentBit = bit
			changes = append(changes, t)
		}
	}
	return changes
}

// optimizeTransform refines the inverse transform by locating the actual
// reference grid modules at the given distance (in modules) along the four
// cardinal directions and recomputing the transform from their positions.
func (d *Detector) optimizeTransform(distance int) error {
	// Coordinates of four points on the reference grid lines, located to
	// the north, east, south and west, forming a diamond.
	var news [8]float64
	directions := [4][2]float64{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	for i, v := range directions {
		px, py, err := d.findReferencePoint(v[0], v[1], distance)
		if err != nil {
			return err
		}
		news[2*i] = px
		news[2*i+1] = py
	}

	// Transform back to image coordinates.
	d.inverse.TransformPoints(news[:])

	// Compute a new transform mapping the ideal coordinates in the default
	// orientation to the actual coordinates. rot permutes the point indices
	// according to the position of the orientation marks.
	rot := func(i int) int {
		return 2*rotation[d.topLineIndex][i/2] + i%2
	}
	q := float64(distance * moduleSize)
	d.inverse = transform.QuadrilateralToQuadrilateral(
		0, -q, q, 0, -q, 0, 0, q,
		news[rot(0)], news[rot(1)], news[rot(2)], news[rot(3)],
		news[rot(4)], news[rot(5)], news[rot(6)], news[rot(7)])

	// The rotation is now baked into the transform; refinements at larger
	// distances must not re-apply it.
	d.topLineIndex = 0
	return nil
}

// findReferencePoint locates the reference grid module at the given
// distance (in modules) in the direction v = (dx, dy). The line through
// the centre is sampled at steps smaller than the module size, counting
// colour changes; the two changes bracketing the module give its centre
// along v, and a perpendicular walk in both directions centres it across
// the grid line.
func (d *Detector) findReferencePoint(dx, dy float64, distance int) (float64, float64, error) {
	changes := d.sampleChanges(dx, dy)
	if len(changes) < distance+1 {
		return 0, 0, zxing.ErrNotFound
	}

	t1 := changes[distance-1]
	t2 := changes[distance]

	// t1*v and t2*v are points on two opposite sides of the found module;
	// the intermediate point approximates its centre along v.
	t := float64((t1 + t2) / 2)
	x0 := t * dx
	y0 := t * dy

	// Walk the orthogonal vector v1 = (-dy, dx) in both directions until
	// the colour changes to white.
	dx1 := -dy
	dy1 := dx
	point := make([]float64, 2)
	walk := func(step int) (float64, error) {
		for s := step; ; s += step {
			point[0] = x0 + float64(s)*dx1
			point[1] = y0 + float64(s)*dy1
			d.inverse.TransformPoints(point)
			tx := iround(point[0])
			ty := iround(point[1])
			if !d.env.Contains(tx, ty) {
				return 0, zxing.ErrNotFound
			}
			if !d.matrix.Get(tx, ty) {
				return float64(s), nil
			}
		}
	}

	u1, err := walk(1)
	if err != nil {
		return 0, 0, err
	}
	u2, err := walk(-1)
	if err != nil {
		return 0, 0, err
	}

	// The intermediate point approximates the centre of the module.
	u := (u1 + u2) / 2
	return x0 + u*dx1, y0 + u*dy1, nil
}

// NormalizeMatrix resamples the code into a matrix where each module is
// cellWidth pixels wide, surrounded by a white border of borderWidth
// pixels.
func (d *Detector) NormalizeMatrix(cellWidth, borderWidth int) *bitutil.BitMatrix {
	width := d.matrixSize*cellWidth + 2*borderWidth
	normalized := bitutil.NewBitMatrix(width)
	m := d.matrixSize / 2
	point := make([]float64, 2)

	y := borderWidth
	for j := -m; j <= m; j++ {
		x := borderWidth
		for i := -m; i <= m; i++ {
			point[0] = float64(moduleSize * i)
			point[1] = float64(moduleSize * j)
			d.inverse.TransformPoints(point)
			tx := iround(point[0])
			ty := iround(point[1])
			if d.env.Contains(tx, ty) && d.matrix.Get(tx, ty) {
				for dx := 0; dx < cellWidth; dx++ {
					for dy := 0; dy < cellWidth; dy++ {
						normalized.Set(x+dx, y+dy)
					}
				}
			}
			x += cellWidth
		}
		y += cellWidth
	}
	return normalized
}

// Result normalizes the matrix to one bit per module and returns it along
// with the outer corner points and the mode message parameters.
func (d *Detector) Result() *Result {
	bits := d.NormalizeMatrix(1, 0)
	points := make([]zxing.ResultPoint, 4)
	for i := 0; i < 4; i++ {
		points[i] = zxing.ResultPoint{X: d.outerCorners[2*i], Y: d.outerCorners[2*i+1]}
	}
	return &Result{
		Bits:         bits,
		Points:       points,
		Compact:      d.compact,
		NumDataWords: d.numDataWords,
		NumLayers:    d.numLayers,
	}
}

// Compact reports whether the detected code is a compact Aztec code.
func (d *Detector) Compact() bool { return d.compact }

// NumLayers returns the number of layers read from the mode message.
func (d *Detector) NumLayers() int { return d.numLayers }

// NumDataWords returns the number of data words read from the mode message.
func (d *Detector) NumDataWords() int { return d.numDataWords }

// MatrixSize returns the width of the code in modules, including any
// reference grid lines.
func (d *Detector) MatrixSize() int { return d.matrixSize }

// WhiteSquare returns the component of the outermost white square ring of
// the bull's eye, or nil before a successful Detect.
func (d *Detector) WhiteSquare() *Component { return d.whiteSquare }

// iround rounds to the nearest integer, ties to even.
func iround(f float64) int {
	return int(math.RoundToEven(f))
}
