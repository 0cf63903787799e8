// Package statistics provides resampling statistics over per-row
// correctness outcomes.
package statistics

import (
	"math"
	"math/rand"
	"sort"
)

// ConfidenceInterval holds the result of a bootstrap confidence interval
// computation.
type ConfidenceInterval struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	Mean            float64 `json:"mean"`
	ConfidenceLevel float64 `json:"confidence_level"`
	NumBootstraps   int     `json:"num_bootstraps"`
}

// DefaultBootstrapIterations is the number of bootstrap resamples.
const DefaultBootstrapIterations = 10000

// BinaryAccuracyCI computes a bootstrap confidence interval for the
// accuracy of a dataset with correct successes out of total rows, using the
// percentile method. confidenceLevel should be in (0, 1), e.g. 0.95. The
// seed makes successive runs reproducible; a negative seed uses a
// non-deterministic source. Returns a degenerate interval when total < 2.
func BinaryAccuracyCI(correct, total int, confidenceLevel float64, seed int64) ConfidenceInterval {
	if total < 2 {
		m := 0.0
		if total == 1 {
			m = float64(correct)
		}
		return ConfidenceInterval{
			Lower:           m,
			Upper:           m,
			Mean:            m,
			ConfidenceLevel: confidenceLevel,
			NumBootstraps:   0,
		}
	}

	var rng *rand.Rand
	if seed >= 0 {
		rng = rand.New(rand.NewSource(seed))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	outcomes := make([]float64, total)
	for i := 0; i < correct; i++ {
		outcomes[i] = 1.0
	}
	m := mean(outcomes)
	iters := DefaultBootstrapIterations

	// Bootstrap: resample with replacement, compute mean of each resample.
	bootMeans := make([]float64, iters)
	sample := make([]float64, total)
	for i := 0; i < iters; i++ {
		for j := 0; j < total; j++ {
			sample[j] = outcomes[rng.Intn(total)]
		}
		bootMeans[i] = mean(sample)
	}

	sort.Float64s(bootMeans)

	// Percentile method.
	alpha := 1.0 - confidenceLevel
	loIdx := int(math.Floor(alpha / 2.0 * float64(iters)))
	hiIdx := int(math.Floor((1.0 - alpha/2.0) * float64(iters)))
	if hiIdx >= iters {
		hiIdx = iters - 1
	}

	return ConfidenceInterval{
		Lower:           bootMeans[loIdx],
		Upper:           bootMeans[hiIdx],
		Mean:            m,
		ConfidenceLevel: confidenceLevel,
		NumBootstraps:   iters,
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
