package site

// ProximityOptions controls ProximalPairs. MaxDistance is inclusive and in
// bp; a MaxDistance of 0 accepts only directly abutting sites.
type ProximityOptions struct {
	MaxDistance int
}

// ProximalPairs finds every anchor/partner combination within MaxDistance bp
// of each other. Both inputs must already be filtered or merged and belong to
// the same gene or sequence frame.
//
// Overlapping sites are never paired: they are conflated, not proximal. When
// anchor and partner share a PatternID the two sets describe one population,
// so only pairs with Partner.Start > Anchor.End are emitted, which stops each
// combination from being counted in both directions. A partner near several
// anchor occurrences shows up in one pair per anchor; each occurrence is an
// independent combinatorial event.
func ProximalPairs(anchors, partners []Site, opts ProximityOptions) []SitePair {
	var pairs []SitePair

	for _, a := range anchors {
		for _, b := range partners {
			if a.PatternID == b.PatternID && b.Start <= a.End {
				continue
			}
			if a.Overlaps(b) {
				continue
			}

			distance := max(b.Start, a.Start) - min(b.End, a.End) - 1
			if distance > opts.MaxDistance {
				continue
			}

			pairs = append(pairs, SitePair{Anchor: a, Partner: b, Distance: distance})
		}
	}

	return pairs
}
