package detector

// Quadrilateral holds the four extreme corner pixels of a component, in
// image coordinates. The corners are the pixels of the component furthest
// in each of the four diagonal directions.
type Quadrilateral struct {
	NWX, NWY int
	NEX, NEY int
	SWX, SWY int
	SEX, SEY int
}

// QuadrilateralFinder locates the extreme corners of a labelled component
// by sweeping diagonals across the component's envelope. For a component
// forming the boundary of a square-like ring, the four corners returned
// are the corners of that square.
type QuadrilateralFinder struct {
	finder *ComponentFinder
	env    Envelope
	dim    int
}

// NewQuadrilateralFinder creates a finder on top of the given component
// finder.
func NewQuadrilateralFinder(finder *ComponentFinder) *QuadrilateralFinder {
	return &QuadrilateralFinder{finder: finder}
}

// Find returns the corner quadrilateral of the component with the given
// label.
func (qf *QuadrilateralFinder) Find(label int) Quadrilateral {
	component := qf.finder.Components()[label]
	qf.env = component.Envelope
	envWidth := qf.env.MaxX - qf.env.MinX
	envHeight := qf.env.MaxY - qf.env.MinY
	qf.dim = envWidth
	if envHeight > qf.dim {
		qf.dim = envHeight
	}

	var q Quadrilateral
	q.NWX, q.NWY = qf.topLeft(label)
	q.NEX, q.NEY = qf.topRight(label)
	q.SWX, q.SWY = qf.bottomLeft(label)
	q.SEX, q.SEY = qf.bottomRight(label)
	return q
}

func (qf *QuadrilateralFinder) topLeft(label int) (int, int) {
	for j := qf.env.MinY; j < qf.env.MinY+qf.dim; j++ {
		y := j
		for x := qf.env.MinX; x < qf.env.MinX+qf.dim && y >= qf.env.MinY; x, y = x+1, y-1 {
			if qf.env.Contains(x, y) && qf.finder.Label(x, y) == label {
				return x, y
			}
		}
	}
	return qf.env.MinX, qf.env.MinY
}

func (qf *QuadrilateralFinder) topRight(label int) (int, int) {
	for j := qf.env.MinY; j < qf.env.MinY+qf.dim; j++ {
		y := j
		for x := qf.env.MinX + qf.dim; x >= qf.env.MinX && y >= qf.env.MinY; x, y = x-1, y-1 {
			if qf.env.Contains(x, y) && qf.finder.Label(x, y) == label {
				return x, y
			}
		}
	}
	return qf.env.MaxX, qf.env.MinY
}

func (qf *QuadrilateralFinder) bottomLeft(label int) (int, int) {
	for j := qf.env.MinY + qf.dim; j >= qf.env.MinY; j-- {
		y := j
		for x := qf.env.MinX; x < qf.env.MinX+qf.dim && y <= qf.env.MinY+qf.dim; x, y = x+1, y+1 {
			if qf.env.Contains(x, y) && qf.finder.Label(x, y) == label {
				return x, y
			}
		}
	}
	return qf.env.MinX, qf.env.MaxY
}

func (qf *QuadrilateralFinder) bottomRight(label int) (int, int) {
	for j := qf.env.MinY + qf.dim; j >= qf.env.MinY; j-- {
		y := j
		for x := qf.env.MinX + qf.dim; x >= qf.env.MinX && y <= qf.env.MinY+qf.dim; x, y = x-1, y+1 {
			if qf.env.Contains(x, y) && qf.finder.Label(x, y) == label {
				return x, y
			}
		}
	}
	return qf.env.MaxX, qf.env.MaxY
}
