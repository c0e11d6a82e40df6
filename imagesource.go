package upcscan

import (
	"fmt"
	"image"
	"image/color"
)

// ImageLuminanceSource wraps a Go image.Image, converting each pixel to greyscale
// luminance upon construction.
type ImageLuminanceSource struct {
	luminances []byte
	width      int
	height     int
}

// NewImageLuminanceSource creates a luminance source from a Go image.Image.
// Luminance is (306*R + 601*G + 117*B + 0x200) >> 10 on 8-bit components.
func NewImageLuminanceSource(img image.Image) *ImageLuminanceSource {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	luminances := make([]byte, w*h)

	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < h; y++ {
			off := g.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(luminances[y*w:], g.Pix[off:off+w])
		}
		return &ImageLuminanceSource{luminances: luminances, width: w, height: h}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if a == 0 {
				// Transparent pixels read as paper.
				luminances[y*w+x] = 0xFF
				continue
			}
			r8, g8, b8 := r>>8, g>>8, b>>8
			luminances[y*w+x] = byte((306*r8 + 601*g8 + 117*b8 + 0x200) >> 10)
		}
	}
	return &ImageLuminanceSource{luminances: luminances, width: w, height: h}
}

// Width returns the width of the image.
func (s *ImageLuminanceSource) Width() int { return s.width }

// Height returns the height of the image.
func (s *ImageLuminanceSource) Height() int { return s.height }

// Row returns a copy of the luminance values of row y.
func (s *ImageLuminanceSource) Row(y int) ([]byte, error) {
	if y < 0 || y >= s.height {
		return nil, fmt.Errorf("row %d out of range [0, %d)", y, s.height)
	}
	row := make([]byte, s.width)
	copy(row, s.luminances[y*s.width:(y+1)*s.width])
	return row, nil
}

// Column returns a copy of the luminance values of column x, top to bottom.
func (s *ImageLuminanceSource) Column(x int) ([]byte, error) {
	if x < 0 || x >= s.width {
		return nil, fmt.Errorf("column %d out of range [0, %d)", x, s.width)
	}
	col := make([]byte, s.height)
	for y := 0; y < s.height; y++ {
		col[y] = s.luminances[y*s.width+x]
	}
	return col, nil
}

// Threshold maps luminance values to a scan line: values at or below threshold
// are bars (1), brighter values are spaces (0).
func Threshold(luminances []byte, threshold uint8) ScanLine {
	line := make(ScanLine, len(luminances))
	for i, l := range luminances {
		if l <= threshold {
			line[i] = 1
		}
	}
	return line
}

// RowFromImage extracts row y of img as a scan line using a fixed threshold.
func RowFromImage(img image.Image, y int, threshold uint8) (ScanLine, error) {
	row, err := NewImageLuminanceSource(img).Row(y)
	if err != nil {
		return nil, err
	}
	return Threshold(row, threshold), nil
}

// ColumnFromImage extracts column x of img as a scan line, for barcodes whose
// bars run horizontally.
func ColumnFromImage(img image.Image, x int, threshold uint8) (ScanLine, error) {
	col, err := NewImageLuminanceSource(img).Column(x)
	if err != nil {
		return nil, err
	}
	return Threshold(col, threshold), nil
}

// ScanLineImage renders a scan line as a greyscale image of the given height,
// bars black and spaces white.
func ScanLineImage(line ScanLine, height int) *image.Gray {
	if height < 1 {
		height = 1
	}
	img := image.NewGray(image.Rect(0, 0, len(line), height))
	for x, v := range line {
		c := color.Gray{Y: 255}
		if v == 1 {
			c = color.Gray{Y: 0}
		}
		for y := 0; y < height; y++ {
			img.SetGray(x, y, c)
		}
	}
	return img
}
