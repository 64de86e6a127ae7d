// Client for the external PWM scanner executable. The scanner receives one
// gene sequence on stdin plus a matrix file and threshold, and prints one
// scored hit per line. Everything positional downstream (filtering, merging,
// conservation) works on the Site values parsed here.

package scanner

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path"
	"strconv"
	"strings"

	"github.com/yumyai/tfsite/internal/util"
	"github.com/yumyai/tfsite/pkg/site"
)

// Scanner runs the configured scanner binary against a matrix directory
// holding one <pattern_id>.pfm per TF model.
type Scanner struct {
	Bin       string
	MatrixDir string
}

func NewScanner(bin, matrixDir string) (*Scanner, error) {
	if bin == "" {
		bin = "pwmscan"
	}
	if !util.DirExists(matrixDir) {
		return nil, fmt.Errorf("matrix directory does not exist: %s", matrixDir)
	}
	return &Scanner{Bin: bin, MatrixDir: matrixDir}, nil
}

// Scan scores one gene sequence against one pattern and returns the raw hits
// above threshold, in scanner output order. The hit coordinates are 1-based
// on the supplied sequence. A scanner failure or malformed output is a
// configuration-class error: the caller skips the gene and keeps the batch
// going.
func (s *Scanner) Scan(ctx context.Context, ownerID, sequence, patternID string, threshold float64) ([]site.Site, error) {

	matrix := path.Join(s.MatrixDir, patternID+".pfm")

	// pwmscan -m MA0001.pfm -t 0.75 -
	args := []string{"-m", matrix, "-t", strconv.FormatFloat(threshold, 'f', -1, 64), "-"}
	cmd := exec.CommandContext(ctx, s.Bin, args...)
	cmd.Stdin = strings.NewReader(sequence)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s on %s/%s failed: %w", s.Bin, ownerID, patternID, err)
	}

	hits, err := ParseHits(output, patternID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("parse %s output for %s/%s: %w", s.Bin, ownerID, patternID, err)
	}

	return hits, nil
}

// ParseHits reads the scanner's tab-separated output: one hit per line as
// start, end, strand, score, rel_score, sequence. Blank lines and #-comments
// are skipped.
func ParseHits(raw []byte, patternID, ownerID string) ([]site.Site, error) {
	var hits []site.Site

	sc := bufio.NewScanner(bytes.NewReader(raw))
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 6 {
			return nil, fmt.Errorf("line %d: want 6 fields, got %d", lineno, len(fields))
		}

		start, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad start %q", lineno, fields[0])
		}
		end, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad end %q", lineno, fields[1])
		}
		strand, err := parseStrand(fields[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		score, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad score %q", lineno, fields[3])
		}
		relScore, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad rel_score %q", lineno, fields[4])
		}

		hit, err := site.NewSite(start, end, strand, score, relScore, fields[5], patternID, ownerID)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		hits = append(hits, hit)
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}
	return hits, nil
}

func parseStrand(field string) (int, error) {
	switch field {
	case "+", "+1", "1":
		return site.StrandPlus, nil
	case "-", "-1":
		return site.StrandMinus, nil
	default:
		return 0, fmt.Errorf("bad strand %q", field)
	}
}
