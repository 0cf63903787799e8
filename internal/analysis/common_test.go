package analysis

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evalforge/crossfail/internal/faults"
	"github.com/evalforge/crossfail/internal/modelresult"
)

// buildResult constructs a 100-row ModelResult where exactly the given ids
// are misidentified.
func buildResult(t *testing.T, name string, missed ...string) *modelresult.ModelResult {
	t.Helper()

	missedSet := make(map[string]bool, len(missed))
	for _, id := range missed {
		missedSet[id] = true
	}

	csv := "image_id,correct\n"
	for i := 1; i <= 100; i++ {
		id := fmt.Sprintf("%d", i)
		correct := "true"
		if missedSet[id] {
			correct = "false"
		}
		csv += id + "," + correct + "\n"
	}

	path := filepath.Join(t.TempDir(), name+".csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	r, err := modelresult.Build(name, path, modelresult.Options{})
	require.NoError(t, err)
	return r
}

func TestCommonFailures(t *testing.T) {
	a := buildResult(t, "model-a", "7", "12", "40")
	b := buildResult(t, "model-b", "12", "40", "55", "61")

	accA, err := a.Accuracy()
	require.NoError(t, err)
	assert.InDelta(t, 0.97, accA, 1e-9)

	accB, err := b.Accuracy()
	require.NoError(t, err)
	assert.InDelta(t, 0.96, accB, 1e-9)

	ids, count, err := CommonFailures([]*modelresult.ModelResult{a, b})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.ElementsMatch(t, []string{"12", "40"}, ids)
}

func TestCommonFailures_SingleModel(t *testing.T) {
	a := buildResult(t, "model-a", "7", "12", "40")

	ids, count, err := CommonFailures([]*modelresult.ModelResult{a})
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, a.MisidentifiedIDs(), ids)
}

func TestCommonFailures_OrderIndependent(t *testing.T) {
	a := buildResult(t, "model-a", "7", "12", "40")
	b := buildResult(t, "model-b", "12", "40", "55")
	c := buildResult(t, "model-c", "12", "61")

	forward, _, err := CommonFailures([]*modelresult.ModelResult{a, b, c})
	require.NoError(t, err)

	backward, _, err := CommonFailures([]*modelresult.ModelResult{c, b, a})
	require.NoError(t, err)

	assert.ElementsMatch(t, forward, backward)
	assert.Equal(t, []string{"12"}, forward)
}

func TestCommonFailures_MonotonicNonIncreasing(t *testing.T) {
	models := []*modelresult.ModelResult{
		buildResult(t, "model-a", "1", "2", "3", "4", "5"),
		buildResult(t, "model-b", "2", "3", "4", "5"),
		buildResult(t, "model-c", "3", "4"),
		buildResult(t, "model-d", "4", "99"),
	}

	prev := -1
	for n := 1; n <= len(models); n++ {
		_, count, err := CommonFailures(models[:n])
		require.NoError(t, err)
		if prev >= 0 {
			assert.LessOrEqual(t, count, prev, "intersection grew when model %d was appended", n)
		}
		prev = count
	}
	assert.Equal(t, 1, prev)
}

func TestCommonFailures_Disjoint(t *testing.T) {
	a := buildResult(t, "model-a", "1", "2")
	b := buildResult(t, "model-b", "3", "4")

	ids, count, err := CommonFailures([]*modelresult.ModelResult{a, b})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, ids)
}

func TestCommonFailures_EmptyInput(t *testing.T) {
	_, _, err := CommonFailures(nil)
	require.Error(t, err)

	var inv *faults.InvariantViolation
	assert.True(t, errors.As(err, &inv))
}

func TestCommonFailures_DoesNotMutateResults(t *testing.T) {
	a := buildResult(t, "model-a", "1", "2", "3")
	b := buildResult(t, "model-b", "2")

	_, _, err := CommonFailures([]*modelresult.ModelResult{a, b})
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "3"}, a.MisidentifiedIDs())
	assert.Equal(t, []string{"2"}, b.MisidentifiedIDs())
}
