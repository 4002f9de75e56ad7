package ranking

import (
	"sort"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/domain"
)

// Rank orders groups by descending size. Equal sizes keep their incoming
// order, which for grouping.Group output is first-seen fingerprint order.
// The input slice is not modified.
func Rank(groups []domain.FailureGroup) []domain.FailureGroup {
	out := append([]domain.FailureGroup(nil), groups...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Size() > out[j].Size()
	})
	return out
}

// Window keeps the first topN groups; topN <= 0 keeps everything.
func Window(ranked []domain.FailureGroup, topN int) []domain.FailureGroup {
	if topN <= 0 || topN >= len(ranked) {
		return ranked
	}
	return ranked[:topN]
}
