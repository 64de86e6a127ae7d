package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProximalPairsAdjacentWithinBound(t *testing.T) {
	anchors := []Site{mkSite(t, 100, 110, 5, "X")}
	partners := []Site{mkSite(t, 111, 115, 4, "Y")}

	pairs := ProximalPairs(anchors, partners, ProximityOptions{MaxDistance: 5})

	require.Len(t, pairs, 1)
	assert.Equal(t, 0, pairs[0].Distance)
	assert.Equal(t, "X", pairs[0].Anchor.PatternID)
	assert.Equal(t, "Y", pairs[0].Partner.PatternID)
}

func TestProximalPairsBeyondBound(t *testing.T) {
	anchors := []Site{mkSite(t, 100, 110, 5, "X")}
	partners := []Site{mkSite(t, 200, 210, 4, "Y")}

	pairs := ProximalPairs(anchors, partners, ProximityOptions{MaxDistance: 5})

	assert.Empty(t, pairs)
}

func TestProximalPairsPartnerOnEitherSide(t *testing.T) {
	anchors := []Site{mkSite(t, 100, 110, 5, "X")}
	partners := []Site{
		mkSite(t, 90, 95, 4, "Y"),
		mkSite(t, 114, 120, 4, "Y"),
	}

	pairs := ProximalPairs(anchors, partners, ProximityOptions{MaxDistance: 5})

	require.Len(t, pairs, 2)
	assert.Equal(t, 4, pairs[0].Distance)
	assert.Equal(t, 3, pairs[1].Distance)
}

func TestProximalPairsOverlapNeverPaired(t *testing.T) {
	anchors := []Site{mkSite(t, 100, 110, 5, "X")}
	partners := []Site{mkSite(t, 105, 115, 4, "Y")}

	pairs := ProximalPairs(anchors, partners, ProximityOptions{MaxDistance: 100})

	assert.Empty(t, pairs)
}

func TestProximalPairsSamePatternCountedOnce(t *testing.T) {
	// Both sets are the same population: only downstream partners count, so
	// the pair shows up once instead of once per direction.
	population := []Site{
		mkSite(t, 100, 110, 5, "X"),
		mkSite(t, 115, 120, 4, "X"),
	}

	pairs := ProximalPairs(population, population, ProximityOptions{MaxDistance: 10})

	require.Len(t, pairs, 1)
	assert.Equal(t, 100, pairs[0].Anchor.Start)
	assert.Equal(t, 115, pairs[0].Partner.Start)
	assert.Greater(t, pairs[0].Partner.Start, pairs[0].Anchor.End)
}

func TestProximalPairsPartnerReusedPerAnchor(t *testing.T) {
	anchors := []Site{
		mkSite(t, 100, 110, 5, "X"),
		mkSite(t, 130, 140, 5, "X"),
	}
	partners := []Site{mkSite(t, 118, 122, 4, "Y")}

	pairs := ProximalPairs(anchors, partners, ProximityOptions{MaxDistance: 10})

	require.Len(t, pairs, 2)
}

func TestProximalPairsDistanceBound(t *testing.T) {
	anchors := []Site{
		mkSite(t, 100, 110, 5, "X"),
		mkSite(t, 300, 320, 5, "X"),
	}
	partners := []Site{
		mkSite(t, 112, 118, 4, "Y"),
		mkSite(t, 150, 160, 4, "Y"),
		mkSite(t, 290, 295, 4, "Y"),
	}

	pairs := ProximalPairs(anchors, partners, ProximityOptions{MaxDistance: 40})

	require.NotEmpty(t, pairs)
	for _, p := range pairs {
		assert.GreaterOrEqual(t, p.Distance, 0)
		assert.LessOrEqual(t, p.Distance, 40)
		assert.False(t, p.Anchor.Overlaps(p.Partner))
	}
}

func TestProximalPairsEmptyInputs(t *testing.T) {
	assert.Empty(t, ProximalPairs(nil, []Site{mkSite(t, 1, 5, 1, "Y")}, ProximityOptions{MaxDistance: 10}))
	assert.Empty(t, ProximalPairs([]Site{mkSite(t, 1, 5, 1, "X")}, nil, ProximityOptions{MaxDistance: 10}))
}
