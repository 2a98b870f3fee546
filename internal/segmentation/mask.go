// Package segmentation turns raw model output into the flood mask, overlay and
// metrics returned to callers, and runs the per-request pipeline.
package segmentation

import (
	"fmt"
	"image"
)

// Threshold separates flood from background in a prediction mask.
const Threshold float32 = 0.5

// Mask is a square single-channel prediction in row-major order.
type Mask struct {
	Size   int
	Values []float32
}

// NewMask squeezes a batched single-channel model output into a size×size mask.
func NewMask(output []float32, size int) (*Mask, error) {
	if len(output) != size*size {
		return nil, fmt.Errorf("model output has %d values, expected %d for a %dx%d mask",
			len(output), size*size, size, size)
	}
	return &Mask{Size: size, Values: output}, nil
}

// Flooded reports whether the pixel at index i is above the threshold.
func (m *Mask) Flooded(i int) bool {
	return m.Values[i] > Threshold
}

// Binary returns the mask as 0/1 values.
func (m *Mask) Binary() []float32 {
	out := make([]float32, len(m.Values))
	for i := range m.Values {
		if m.Flooded(i) {
			out[i] = 1
		}
	}
	return out
}

// Image renders the binary mask as 8-bit grayscale, 255 for flood.
func (m *Mask) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Size, m.Size))
	for i := range m.Values {
		if m.Flooded(i) {
			img.Pix[i] = 255
		}
	}
	return img
}
