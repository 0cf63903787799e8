// Package analysis compares failure sets across model results.
package analysis

import (
	"github.com/evalforge/crossfail/internal/faults"
	"github.com/evalforge/crossfail/internal/modelresult"
)

// CommonFailures returns the row identifiers misidentified by every model
// in results, sorted, together with their count. The result is a function
// of the collection and is recomputed per call, never cached on a model.
//
// The computation is order-independent and monotonic: appending a model can
// only shrink or preserve the intersection. With a single model the result
// equals that model's own misidentified set. An empty collection is
// rejected with an InvariantViolation, since the intersection over zero
// sets is undefined.
func CommonFailures(results []*modelresult.ModelResult) ([]string, int, error) {
	if len(results) == 0 {
		return nil, 0, &faults.InvariantViolation{
			Reason: "common failures require at least one model result",
		}
	}

	// MisidentifiedIDs is sorted, so filtering the first model's set in
	// place keeps the output sorted without a second pass.
	common := results[0].MisidentifiedIDs()

	for _, r := range results[1:] {
		set := make(map[string]struct{}, r.NumberMisidentified())
		for _, id := range r.MisidentifiedIDs() {
			set[id] = struct{}{}
		}

		kept := common[:0]
		for _, id := range common {
			if _, ok := set[id]; ok {
				kept = append(kept, id)
			}
		}
		common = kept

		if len(common) == 0 {
			break
		}
	}

	return common, len(common), nil
}
