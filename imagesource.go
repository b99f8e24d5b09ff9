package zxing

import (
	"image"
	"image/color"
)

// ImageLuminanceSource is a LuminanceSource that wraps an image.Image,
// converting each pixel to greyscale luminance on construction.
type ImageLuminanceSource struct {
	luminances []byte
	width      int
	height     int
}

// NewImageLuminanceSource creates a LuminanceSource from an image.Image.
// Luminance is computed as (306*R + 601*G + 117*B + 0x200) >> 10 on 8-bit
// components. Fully transparent pixels are treated as white.
func NewImageLuminanceSource(img image.Image) *ImageLuminanceSource {
	if gray, ok := img.(*image.Gray); ok {
		return newGraySource(gray)
	}

	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	luminances := make([]byte, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if a == 0 {
				luminances[y*w+x] = 0xFF
				continue
			}
			r8 := r >> 8
			g8 := g >> 8
			b8 := b >> 8
			luminances[y*w+x] = byte((306*r8 + 601*g8 + 117*b8 + 0x200) >> 10)
		}
	}

	return &ImageLuminanceSource{luminances: luminances, width: w, height: h}
}

// newGraySource copies pixel data from a greyscale image directly.
func newGraySource(img *image.Gray) *ImageLuminanceSource {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	luminances := make([]byte, w*h)
	for y := 0; y < h; y++ {
		srcOff := (bounds.Min.Y+y-img.Rect.Min.Y)*img.Stride + (bounds.Min.X - img.Rect.Min.X)
		copy(luminances[y*w:(y+1)*w], img.Pix[srcOff:srcOff+w])
	}
	return &ImageLuminanceSource{luminances: luminances, width: w, height: h}
}

// Row returns a row of luminance data.
func (s *ImageLuminanceSource) Row(y int, row []byte) []byte {
	if y < 0 || y >= s.height {
		return nil
	}
	if row == nil || len(row) < s.width {
		row = make([]byte, s.width)
	}
	offset := y * s.width
	copy(row, s.luminances[offset:offset+s.width])
	return row
}

// Matrix returns the entire luminance matrix.
func (s *ImageLuminanceSource) Matrix() []byte {
	result := make([]byte, len(s.luminances))
	copy(result, s.luminances)
	return result
}

// Width returns the width of the image.
func (s *ImageLuminanceSource) Width() int { return s.width }

// Height returns the height of the image.
func (s *ImageLuminanceSource) Height() int { return s.height }

// BitMatrixToImage renders a bit matrix as a greyscale image with black
// modules drawn as black pixels.
func BitMatrixToImage(matrix interface {
	Width() int
	Height() int
	Get(x, y int) bool
}) *image.Gray {
	w := matrix.Width()
	h := matrix.Height()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if matrix.Get(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}
