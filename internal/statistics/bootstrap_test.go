package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinaryAccuracyCI(t *testing.T) {
	ci := BinaryAccuracyCI(97, 100, 0.95, 42)

	assert.InDelta(t, 0.97, ci.Mean, 1e-9)
	assert.Equal(t, DefaultBootstrapIterations, ci.NumBootstraps)
	assert.Equal(t, 0.95, ci.ConfidenceLevel)

	assert.LessOrEqual(t, ci.Lower, ci.Mean)
	assert.GreaterOrEqual(t, ci.Upper, ci.Mean)
	assert.GreaterOrEqual(t, ci.Lower, 0.0)
	assert.LessOrEqual(t, ci.Upper, 1.0)
	// A 100-row sample at 97% accuracy should not have a degenerate interval.
	assert.Less(t, ci.Lower, ci.Upper)
}

func TestBinaryAccuracyCI_Deterministic(t *testing.T) {
	a := BinaryAccuracyCI(80, 100, 0.95, 7)
	b := BinaryAccuracyCI(80, 100, 0.95, 7)
	assert.Equal(t, a, b)
}

func TestBinaryAccuracyCI_AllCorrect(t *testing.T) {
	ci := BinaryAccuracyCI(50, 50, 0.95, 42)

	assert.InDelta(t, 1.0, ci.Mean, 1e-9)
	assert.InDelta(t, 1.0, ci.Upper, 1e-9)
	assert.LessOrEqual(t, ci.Lower, ci.Upper)
}

func TestBinaryAccuracyCI_TooFewRows(t *testing.T) {
	tests := []struct {
		name     string
		correct  int
		total    int
		wantMean float64
	}{
		{name: "zero rows", correct: 0, total: 0, wantMean: 0.0},
		{name: "one correct row", correct: 1, total: 1, wantMean: 1.0},
		{name: "one wrong row", correct: 0, total: 1, wantMean: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ci := BinaryAccuracyCI(tt.correct, tt.total, 0.95, 42)
			assert.Equal(t, tt.wantMean, ci.Mean)
			assert.Equal(t, ci.Lower, ci.Upper)
			assert.Equal(t, 0, ci.NumBootstraps)
		})
	}
}
