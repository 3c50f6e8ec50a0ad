package metric

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palasimi/ipa-cluster/internal/compiler"
	"github.com/palasimi/ipa-cluster/internal/ir"
)

func seg(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

func TestDistanceUnit(t *testing.T) {
	tests := []struct {
		s, t string
		want float64
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "a b c", 3},
		{"k a t", "k a t", 0},
		{"k a t", "k o t", 1},
		{"k i t e n", "s i t i ŋ", 3},
		{"a b", "b a", 2},
		{"tʃ a", "t ʃ a", 2},
	}

	for _, tt := range tests {
		t.Run(tt.s+"|"+tt.t, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(seg(tt.s), seg(tt.t), Unit))
			assert.Equal(t, tt.want, Distance(seg(tt.t), seg(tt.s), Unit), "symmetric")
		})
	}
}

func TestDistanceNilCostIsUnit(t *testing.T) {
	assert.Equal(t, 1.0, Distance(seg("a"), seg("b"), nil))
}

func TestDistanceDoesNotCostEqualSegments(t *testing.T) {
	calls := 0
	cost := func(a, b ir.Site) float64 {
		calls++
		return 1
	}
	assert.Equal(t, 0.0, Distance(seg("a b c"), seg("a b c"), cost))
	assert.Equal(t, 0, calls)
}

func TestDistanceGapSites(t *testing.T) {
	var deletions []ir.Site
	cost := func(a, b ir.Site) float64 {
		if b.Gap {
			deletions = append(deletions, b)
		}
		return 1
	}

	Distance(seg("a h"), seg("a"), cost)
	require.NotEmpty(t, deletions)
	for _, gap := range deletions {
		assert.Equal(t, ir.Wildcard, gap.Segment())
		assert.LessOrEqual(t, gap.Index, 1)
	}
}

func TestFromQuerier(t *testing.T) {
	q, err := compiler.Compile("o ~ u\nen de. | b ~ p / _ #\na h ~ a")
	require.NoError(t, err)

	free := FromQuerier(q, "en", "de")
	assert.Equal(t, 0.0, Distance(seg("k o t"), seg("k u t"), free))
	assert.Equal(t, 0.0, Distance(seg("a b"), seg("a p"), free))
	assert.Equal(t, 1.0, Distance(seg("b a"), seg("p a"), free), "not word-final")
	assert.Equal(t, 0.0, Distance(seg("a h"), seg("a"), free), "licensed deletion")
	assert.Equal(t, 1.0, Distance(seg("o h"), seg("o"), free))

	reversed := FromQuerier(q, "de", "en")
	assert.Equal(t, 1.0, Distance(seg("a b"), seg("a p"), reversed))
	assert.Equal(t, 0.0, Distance(seg("a p"), seg("a b"), reversed))
}

func TestFromQuerierDefaultsToWildcard(t *testing.T) {
	q, err := compiler.Compile("o ~ u")
	require.NoError(t, err)
	assert.Equal(t, 0.0, Distance(seg("o"), seg("u"), FromQuerier(q, "", "")))
}
