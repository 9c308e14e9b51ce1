package prop

import (
	"strings"

	"github.com/porism/porism/internal/facts"
)

// DefaultConclusion proves the definition's result segments pairwise
// equal: for every pair already connected in the ledger it records a
// common-notion-1 conclusion fact, and the statement chains the segment
// names. Authored packs without a custom hook get this behavior.
func DefaultConclusion(d *Def, sc Scope) ([]facts.Fact, string) {
	keys := make([]facts.DistanceKey, 0, len(d.ResultSegments))
	names := make([]string, 0, len(d.ResultSegments))
	for _, segID := range d.ResultSegments {
		seg, ok := sc.State.SegmentByID(sc.Resolve(segID))
		if !ok {
			return nil, ""
		}
		keys = append(keys, facts.Distance(seg.FromID, seg.ToID))
		names = append(names, sc.State.LabelOf(seg.FromID)+sc.State.LabelOf(seg.ToID))
	}

	var out []facts.Fact
	proved := true
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if !sc.Store.QueryEquality(keys[i], keys[j]) {
				proved = false
				continue
			}
			out = append(out, sc.Store.AddFact(
				keys[i], keys[j],
				facts.CommonNotion{Number: 1},
				names[i]+" = "+names[j],
				facts.AtConclusion,
			)...)
		}
	}
	if !proved || len(keys) == 0 {
		return out, ""
	}
	return out, strings.Join(names, " = ")
}
