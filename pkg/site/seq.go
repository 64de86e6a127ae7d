package site

// reverseComplement handles the IUPAC nucleotide alphabet; unknown characters
// pass through unchanged so a merged sequence never shrinks.
func reverseComplement(seq string) string {
	comp := map[byte]byte{
		'A': 'T', 'T': 'A', 'G': 'C', 'C': 'G',
		'a': 't', 't': 'a', 'g': 'c', 'c': 'g',
		'N': 'N', 'n': 'n',
		'R': 'Y', 'Y': 'R', 'r': 'y', 'y': 'r',
		'S': 'S', 'W': 'W', 's': 's', 'w': 'w',
		'K': 'M', 'M': 'K', 'k': 'm', 'm': 'k',
		'B': 'V', 'V': 'B', 'b': 'v', 'v': 'b',
		'D': 'H', 'H': 'D', 'd': 'h', 'h': 'd',
	}

	out := make([]byte, len(seq))
	for i := 0; i < len(seq); i++ {
		b := seq[len(seq)-1-i]
		if c, ok := comp[b]; ok {
			out[i] = c
		} else {
			out[i] = b
		}
	}
	return string(out)
}
