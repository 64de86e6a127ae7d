package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/tfsite/pkg/site"
)

func TestParseHits(t *testing.T) {
	raw := []byte(`# pwmscan v1.4 MA0001
100	111	+	8.25	0.91	ACGTACGTACGT
205	216	-	6.10	0.80	TTGGCCAATTGG
`)

	hits, err := ParseHits(raw, "MA0001", "gene-1")
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, 100, hits[0].Start)
	assert.Equal(t, 111, hits[0].End)
	assert.Equal(t, site.StrandPlus, hits[0].Strand)
	assert.Equal(t, 8.25, hits[0].Score)
	assert.Equal(t, 0.91, hits[0].RelScore)
	assert.Equal(t, "ACGTACGTACGT", hits[0].Sequence)
	assert.Equal(t, "MA0001", hits[0].PatternID)
	assert.Equal(t, "gene-1", hits[0].OwnerID)

	assert.Equal(t, site.StrandMinus, hits[1].Strand)
}

func TestParseHitsEmptyOutput(t *testing.T) {
	hits, err := ParseHits([]byte("# no hits above threshold\n"), "MA0001", "gene-1")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestParseHitsMalformed(t *testing.T) {
	cases := []string{
		"100\t111\t+\t8.25\t0.91",                 // missing sequence
		"abc\t111\t+\t8.25\t0.91\tACGT",           // bad start
		"100\t111\t*\t8.25\t0.91\tACGT",           // bad strand
		"100\t111\t+\tx\t0.91\tACGT",              // bad score
		"120\t111\t+\t8.25\t0.91\tACGT",           // start > end
		"100\t111\t+\t8.25\t0.91\tACG",            // sequence/span mismatch
	}

	for _, line := range cases {
		_, err := ParseHits([]byte(line+"\n"), "MA0001", "gene-1")
		assert.Error(t, err, "line %q should not parse", line)
	}
}
