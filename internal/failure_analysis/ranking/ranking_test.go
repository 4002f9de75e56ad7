package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/go-failure-analyzer/internal/failure_analysis/domain"
)

func group(key string, size int) domain.FailureGroup {
	g := domain.FailureGroup{Fingerprint: domain.Fingerprint{MessageKey: key}}
	for i := 0; i < size; i++ {
		g.Records = append(g.Records, domain.FailureRecord{Name: key})
	}
	return g
}

func keys(groups []domain.FailureGroup) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Fingerprint.MessageKey)
	}
	return out
}

func TestRankDescendingBySize(t *testing.T) {
	in := []domain.FailureGroup{group("a", 2), group("b", 10), group("c", 5), group("d", 8)}

	ranked := Rank(in)
	assert.Equal(t, []string{"b", "d", "c", "a"}, keys(ranked))
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Size(), ranked[i].Size())
	}
	// input untouched
	assert.Equal(t, []string{"a", "b", "c", "d"}, keys(in))
}

func TestRankTieBreakIsFirstSeen(t *testing.T) {
	in := []domain.FailureGroup{group("x", 3), group("y", 5), group("z", 3), group("w", 5)}
	assert.Equal(t, []string{"y", "w", "x", "z"}, keys(Rank(in)))
}

func TestWindow(t *testing.T) {
	ranked := Rank([]domain.FailureGroup{group("a", 10), group("b", 8), group("c", 5), group("d", 2)})

	cases := []struct {
		name string
		topN int
		want []string
	}{
		{"zero keeps all", 0, []string{"a", "b", "c", "d"}},
		{"negative keeps all", -3, []string{"a", "b", "c", "d"}},
		{"truncates", 2, []string{"a", "b"}},
		{"one", 1, []string{"a"}},
		{"larger than count", 9, []string{"a", "b", "c", "d"}},
		{"exact count", 4, []string{"a", "b", "c", "d"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Window(ranked, tc.topN)
			require.Len(t, got, len(tc.want))
			assert.Equal(t, tc.want, keys(got))
		})
	}
}

func TestWindowEmpty(t *testing.T) {
	assert.Empty(t, Window(nil, 3))
	assert.Empty(t, Rank(nil))
}
