package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// Layout is the memory order of the model input tensor.
type Layout string

const (
	NHWC Layout = "nhwc"
	NCHW Layout = "nchw"
)

const channels = 3

// ParseLayout validates a layout name.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(s); l {
	case NHWC, NCHW:
		return l, nil
	default:
		return "", fmt.Errorf("unknown tensor layout %q", s)
	}
}

// InputShape is the batched RGB input shape for a square image of the given size.
func (l Layout) InputShape(size int) []int64 {
	s := int64(size)
	if l == NCHW {
		return []int64{1, channels, s, s}
	}
	return []int64{1, s, s, channels}
}

// OutputShape is the batched single-channel mask shape.
func (l Layout) OutputShape(size int) []int64 {
	s := int64(size)
	if l == NCHW {
		return []int64{1, 1, s, s}
	}
	return []int64{1, s, s, 1}
}

// ToRGB forces img to opaque 8-bit RGB. Alpha is discarded rather than
// composited, so colour values are taken unpremultiplied.
func ToRGB(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return dst
}

// Resize scales img to size×size without preserving aspect ratio.
func Resize(img image.Image, size int) image.Image {
	return resize.Resize(uint(size), uint(size), img, resize.Bicubic)
}

// Tensor converts an RGB image to float32 values in [0,1] laid out with a
// leading batch axis.
func Tensor(img image.Image, layout Layout) []float32 {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	plane := width * height
	data := make([]float32, channels*plane)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			rgb := [channels]float32{
				float32(r>>8) / 255.0,
				float32(g>>8) / 255.0,
				float32(b>>8) / 255.0,
			}

			pixelIndex := y*width + x
			for ch, v := range rgb {
				if layout == NCHW {
					data[ch*plane+pixelIndex] = v
				} else {
					data[pixelIndex*channels+ch] = v
				}
			}
		}
	}
	return data
}

// Normalize runs the full preprocessing chain and returns both the resized RGB
// image and its tensor.
func Normalize(img image.Image, size int, layout Layout) (image.Image, []float32) {
	resized := Resize(ToRGB(img), size)
	return resized, Tensor(resized, layout)
}
