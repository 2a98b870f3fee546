package segmentation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateAllOnesAgainstPlaceholder(t *testing.T) {
	const n = 256 * 256
	pred := make([]float32, n)
	for i := range pred {
		pred[i] = 1
	}

	m, err := Evaluate(PlaceholderReference(n), pred, Threshold)
	require.NoError(t, err)

	truth := float64(placeholderTruth)
	intersection := truth * n
	union := truth*n + n - intersection
	assert.InDelta(t, (intersection+epsilon)/(union+epsilon), m.IoU, 1e-6)
	assert.InDelta(t, (2*intersection+epsilon)/(truth*n+n+epsilon), m.Dice, 1e-6)
	assert.InDelta(t, 0.3, m.IoU, 1e-6)
	assert.InDelta(t, 0.6/1.3, m.Dice, 1e-6)
	assert.Zero(t, m.PixelAccuracy)
}

func TestEvaluateAllZeros(t *testing.T) {
	pred := make([]float32, 100)

	m, err := Evaluate(PlaceholderReference(100), pred, Threshold)
	require.NoError(t, err)
	assert.InDelta(t, epsilon/(30+epsilon), m.IoU, 1e-12)
	assert.Zero(t, m.PixelAccuracy)
}

func TestEvaluateBinaryReference(t *testing.T) {
	truth := []float32{1, 1, 0, 0}
	pred := []float32{0.9, 0.2, 0.7, 0.1}

	m, err := Evaluate(truth, pred, Threshold)
	require.NoError(t, err)
	// intersection 1, union 3, sums 2+2
	assert.InDelta(t, 1.0/3.0, m.IoU, 1e-6)
	assert.InDelta(t, 0.5, m.Dice, 1e-6)
	assert.InDelta(t, 0.5, m.PixelAccuracy, 1e-12)

	perfect, err := Evaluate(truth, []float32{1, 1, 0, 0}, Threshold)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, perfect.IoU, 1e-9)
	assert.InDelta(t, 1.0, perfect.Dice, 1e-9)
	assert.Equal(t, 1.0, perfect.PixelAccuracy)
}

func TestEvaluateThresholdIsStrict(t *testing.T) {
	m, err := Evaluate([]float32{1}, []float32{0.5}, Threshold)
	require.NoError(t, err)
	assert.Zero(t, m.PixelAccuracy)
}

func TestEvaluateScoresStayInUnitRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(500)
		pred := make([]float32, n)
		truth := make([]float32, n)
		for i := range pred {
			pred[i] = rng.Float32()
			if trial%2 == 0 {
				truth[i] = float32(rng.Intn(2))
			} else {
				truth[i] = rng.Float32()
			}
		}

		m, err := Evaluate(truth, pred, Threshold)
		require.NoError(t, err)
		for _, v := range []float64{m.IoU, m.Dice, m.PixelAccuracy} {
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestEvaluateRejectsMismatchedLengths(t *testing.T) {
	_, err := Evaluate([]float32{1, 0}, []float32{1}, Threshold)
	assert.Error(t, err)
	_, err = Evaluate(nil, nil, Threshold)
	assert.Error(t, err)
}
