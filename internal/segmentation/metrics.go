package segmentation

import (
	"fmt"

	"github.com/Brownie44l1/floodseg-api/internal/model"
)

const epsilon = 1e-7

// placeholderTruth stands in for a labelled reference mask. Because it is not
// binary, pixel accuracy against it is always zero.
const placeholderTruth float32 = 0.3

// PlaceholderReference returns a reference mask of n pixels filled with the
// placeholder value.
func PlaceholderReference(n int) []float32 {
	ref := make([]float32, n)
	for i := range ref {
		ref[i] = placeholderTruth
	}
	return ref
}

// Evaluate scores pred against truth after binarising pred at threshold.
// truth is used as given, including non-binary values.
func Evaluate(truth, pred []float32, threshold float32) (model.Metrics, error) {
	if len(truth) != len(pred) {
		return model.Metrics{}, fmt.Errorf("reference has %d pixels, prediction has %d", len(truth), len(pred))
	}
	if len(pred) == 0 {
		return model.Metrics{}, fmt.Errorf("empty prediction")
	}

	var intersection, sumTrue, sumPred float64
	matches := 0
	for i, t := range truth {
		var p float32
		if pred[i] > threshold {
			p = 1
		}
		intersection += float64(t * p)
		sumTrue += float64(t)
		sumPred += float64(p)
		if p == t {
			matches++
		}
	}
	union := sumTrue + sumPred - intersection

	return model.Metrics{
		IoU:           (intersection + epsilon) / (union + epsilon),
		Dice:          (2*intersection + epsilon) / (sumTrue + sumPred + epsilon),
		PixelAccuracy: float64(matches) / float64(len(pred)),
	}, nil
}
