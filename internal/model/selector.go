package model

// Selector names one of the two interchangeable segmentation models.
type Selector string

const (
	UNet      Selector = "unet"
	MobileNet Selector = "unet_mobilenet"
)

// Selectors lists every known selector in display order.
var Selectors = []Selector{UNet, MobileNet}

// ParseSelector reports whether s is a known model token.
func ParseSelector(s string) (Selector, bool) {
	switch sel := Selector(s); sel {
	case UNet, MobileNet:
		return sel, true
	default:
		return "", false
	}
}

// DisplayName is the human readable model name used in messages.
func (s Selector) DisplayName() string {
	switch s {
	case UNet:
		return "U-Net"
	case MobileNet:
		return "U-Net + MobileNet"
	default:
		return string(s)
	}
}
