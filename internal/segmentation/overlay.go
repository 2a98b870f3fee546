package segmentation

import (
	"image"
	"image/color"
)

// FloodColor highlights flooded pixels in the overlay.
var FloodColor = color.RGBA{R: 255, A: 255}

// OverlayAlpha is the weight of the highlight layer.
const OverlayAlpha = 0.4

// Overlay blends highlight into base wherever the mask is flooded. Every pixel
// is weighted: out = base*(1-alpha) + layer*alpha, where the layer is highlight
// on flooded pixels and black elsewhere, truncated to 8 bits.
func Overlay(base image.Image, mask *Mask, highlight color.RGBA, alpha float64) *image.RGBA {
	bounds := base.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, mask.Size, mask.Size))
	keep := 1 - alpha

	for y := 0; y < mask.Size; y++ {
		for x := 0; x < mask.Size; x++ {
			r, g, b, _ := base.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			var layer color.RGBA
			if mask.Flooded(y*mask.Size + x) {
				layer = highlight
			}
			out.SetRGBA(x, y, color.RGBA{
				R: blend(uint8(r>>8), layer.R, keep, alpha),
				G: blend(uint8(g>>8), layer.G, keep, alpha),
				B: blend(uint8(b>>8), layer.B, keep, alpha),
				A: 255,
			})
		}
	}
	return out
}

func blend(base, layer uint8, keep, alpha float64) uint8 {
	return uint8(float64(base)*keep + float64(layer)*alpha)
}
