package report

import (
	"sort"
	"strconv"
	"time"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/domain"
)

const (
	unknownTest = "Unknown test"
	noMessage   = "(No message)"
	noTrace     = "(No trace)"
)

// Build assembles the report for ranked (already windowed) groups.
// total is the record count before windowing and drives the percentages.
func Build(ranked []domain.FailureGroup, total int, now time.Time) *domain.Report {
	r := &domain.Report{
		Metadata: domain.Metadata{
			GenerationDate: now,
			TotalFailures:  total,
			UniqueGroups:   len(ranked),
		},
		Groups: make([]domain.GroupSummary, 0, len(ranked)),
	}

	for i, g := range ranked {
		r.Groups = append(r.Groups, summarize(i+1, g, total))
	}
	return r
}

func summarize(id int, g domain.FailureGroup, total int) domain.GroupSummary {
	s := domain.GroupSummary{
		ID:               id,
		Title:            g.Fingerprint.MessageKey,
		FailureCount:     g.Size(),
		Percentage:       Percentage(g.Size(), total),
		StatusCounts:     statusCounts(g.Records),
		FingerprintWhat:  g.Fingerprint.MessageKey,
		FingerprintWhere: g.Fingerprint.CodeLocationKey,
		Epics:            labelSet(g.Records, domain.LabelEpic),
		Features:         labelSet(g.Records, domain.LabelFeature),
	}
	if len(g.Records) > 0 {
		s.Example = example(g.Records[0])
	}
	return s
}

// Percentage is count/total*100 rounded to two decimals; 0 when total is 0.
// Rounding works on the exact binary value and sends exact ties to even, so
// 1/800 gives 0.12, not 0.13.
func Percentage(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(count) / float64(total) * 100
	r, err := strconv.ParseFloat(strconv.FormatFloat(p, 'f', 2, 64), 64)
	if err != nil {
		return p
	}
	return r
}

// statusCounts always reports failed and broken, plus any other status seen.
func statusCounts(records []domain.FailureRecord) map[string]int {
	out := map[string]int{
		string(domain.StatusFailed): 0,
		string(domain.StatusBroken): 0,
	}
	for _, rec := range records {
		out[string(domain.NormalizeStatus(rec.Status))]++
	}
	return out
}

func labelSet(records []domain.FailureRecord, name string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, rec := range records {
		for _, v := range rec.LabelValues(name) {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func example(rec domain.FailureRecord) domain.Example {
	ex := domain.Example{
		TestName: rec.FullName,
		Message:  rec.Message,
		Trace:    rec.Trace,
	}
	if ex.TestName == "" {
		ex.TestName = rec.Name
	}
	if ex.TestName == "" {
		ex.TestName = unknownTest
	}
	if ex.Message == "" {
		ex.Message = noMessage
	}
	if ex.Trace == "" {
		ex.Trace = noTrace
	}
	return ex
}
