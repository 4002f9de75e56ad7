package grouping

import (
	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/domain"
)

// Fingerprinter is satisfied by *fingerprint.Generator.
type Fingerprinter interface {
	Generate(r domain.FailureRecord) domain.Fingerprint
}

// Group partitions records by fingerprint. Groups come back in first-seen
// fingerprint order and records keep their input order inside each group.
func Group(records []domain.FailureRecord, fp Fingerprinter) []domain.FailureGroup {
	index := make(map[domain.Fingerprint]int)
	groups := make([]domain.FailureGroup, 0)

	for _, rec := range records {
		key := fp.Generate(rec)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, domain.FailureGroup{Fingerprint: key})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}
	return groups
}

// Total is the number of records across groups.
func Total(groups []domain.FailureGroup) int {
	n := 0
	for _, g := range groups {
		n += g.Size()
	}
	return n
}
