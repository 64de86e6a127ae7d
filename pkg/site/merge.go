package site

import "sort"

// DefaultGapTolerance is the adjacency allowance of the cluster merge: two
// member hits merge when they overlap or sit within this many bp of each
// other.
const DefaultGapTolerance = 1

// MergeOptions controls MergeCluster. The zero value selects the canonical
// behavior (1-bp adjacency tolerance).
type MergeOptions struct {
	GapTolerance int
}

func (o MergeOptions) gap() int {
	if o.GapTolerance <= 0 {
		return DefaultGapTolerance
	}
	return o.GapTolerance
}

// MergeCluster consolidates the hits of one structural cluster into
// non-overlapping cluster intervals. The caller pre-groups the input: every
// site passed in belongs to clusterID, whatever motif originally produced it.
//
// The merge predicate is positional overlap or adjacency within the gap
// tolerance (next.Start <= current.End + gap). Minus-strand members are
// reverse-complemented onto the plus strand first, since orientation has no
// meaning for a cluster interval. Scores of a merged interval are the maxima
// over its members, and its sequence is spliced so that each position is
// contributed exactly once. Input values are never mutated; every emitted
// site is a new value carrying clusterID as its PatternID.
func MergeCluster(sites []Site, clusterID string, opts MergeOptions) []Site {
	if len(sites) == 0 {
		return nil
	}

	gap := opts.gap()

	normalized := make([]Site, len(sites))
	for i, s := range sites {
		if s.Strand == StrandMinus {
			s.Sequence = reverseComplement(s.Sequence)
			s.Strand = StrandPlus
		}
		s.PatternID = clusterID
		normalized[i] = s
	}

	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].Start < normalized[j].Start
	})

	out := make([]Site, 0, len(normalized))
	current := normalized[0]

	for _, next := range normalized[1:] {
		if next.Start > current.End+gap {
			out = append(out, current)
			current = next
			continue
		}

		// Merge next into a fresh value extending current.
		merged := current
		if next.End > current.End {
			merged.Sequence = spliceSequence(current, next)
			merged.End = next.End
		}
		if next.Score > merged.Score {
			merged.Score = next.Score
		}
		if next.RelScore > merged.RelScore {
			merged.RelScore = next.RelScore
		}
		current = merged
	}

	return append(out, current)
}

// spliceSequence appends to cur.Sequence the part of next.Sequence that lies
// beyond cur.End. The overlap already covered by cur is skipped
// (cur.End - next.Start + 1 bases); any uncovered gap between the two, which
// only occurs with a tolerance above 1, is padded with N.
func spliceSequence(cur, next Site) string {
	if cur.Sequence == "" || next.Sequence == "" {
		return ""
	}

	covered := cur.End - next.Start + 1
	if covered >= len(next.Sequence) {
		return cur.Sequence
	}
	if covered < 0 {
		pad := make([]byte, -covered)
		for i := range pad {
			pad[i] = 'N'
		}
		return cur.Sequence + string(pad) + next.Sequence
	}
	return cur.Sequence + next.Sequence[covered:]
}
