package bitutil

import "testing"

func TestBitMatrixSetGet(t *testing.T) {
	m := NewBitMatrixWithSize(33, 5)
	if m.Width() != 33 || m.Height() != 5 {
		t.Fatalf("dimensions = %dx%d, want 33x5", m.Width(), m.Height())
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 33; x++ {
			if y*x%3 == 0 {
				m.Set(x, y)
			}
		}
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 33; x++ {
			want := y*x%3 == 0
			if m.Get(x, y) != want {
				t.Errorf("Get(%d, %d) = %v, want %v", x, y, m.Get(x, y), want)
			}
		}
	}
}

func TestBitMatrixUnsetFlip(t *testing.T) {
	m := NewBitMatrix(4)
	m.Set(2, 1)
	m.Unset(2, 1)
	if m.Get(2, 1) {
		t.Error("bit still set after Unset")
	}
	m.Flip(2, 1)
	if !m.Get(2, 1) {
		t.Error("bit unset after Flip")
	}
	m.Flip(2, 1)
	if m.Get(2, 1) {
		t.Error("bit set after second Flip")
	}
}

func TestBitMatrixSetRegion(t *testing.T) {
	m := NewBitMatrix(8)
	m.SetRegion(2, 3, 4, 2)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := x >= 2 && x < 6 && y >= 3 && y < 5
			if m.Get(x, y) != want {
				t.Errorf("Get(%d, %d) = %v, want %v", x, y, m.Get(x, y), want)
			}
		}
	}
}

func TestParseStringMatrix(t *testing.T) {
	m := ParseStringMatrix("X.X\n.X.\nX.X\n", "X", ".")
	if m.Width() != 3 || m.Height() != 3 {
		t.Fatalf("dimensions = %dx%d, want 3x3", m.Width(), m.Height())
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			want := (x+y)%2 == 0
			if m.Get(x, y) != want {
				t.Errorf("Get(%d, %d) = %v, want %v", x, y, m.Get(x, y), want)
			}
		}
	}
}

func TestBitMatrixCloneEquals(t *testing.T) {
	m := NewBitMatrixWithSize(70, 3)
	m.Set(69, 2)
	m.Set(0, 0)
	c := m.Clone()
	if !m.Equals(c) {
		t.Error("clone does not equal original")
	}
	c.Flip(1, 1)
	if m.Equals(c) {
		t.Error("matrices equal after flip")
	}
}
