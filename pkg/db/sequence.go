package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"strings"
)

// Defining possible error
var ErrNoSequence = errors.New("sequence store does not exist")

// SequenceDB is the folder which hosts sequences/tfsite_genes.fna.gz (plus
// its faidx index), one record per gene, in the same frame the scanner hits
// and the stored coordinates use.
type SequenceDB struct {
	Dir string
}

func NewSequenceDB(dir string) (*SequenceDB, error) {
	required := []string{
		dir,
		path.Join(dir, "sequences"),
		path.Join(dir, "sequences", "tfsite_genes.fna.gz"),
	}

	var errs error

	for _, p := range required {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			errs = fmt.Errorf("%w: %s", ErrNoSequence, p)
		}
	}

	if errs != nil {
		return nil, errs
	}
	return &SequenceDB{Dir: dir}, nil
}

func (seqdb *SequenceDB) geneFasta() string {
	return path.Join(seqdb.Dir, "sequences", "tfsite_genes.fna.gz")
}

// GeneSequence fetches the full sequence of one gene record as a bare string,
// no FASTA header and no line breaks.
func (seqdb *SequenceDB) GeneSequence(ctx context.Context, geneID string) (string, error) {

	// samtools faidx tfsite_genes.fna.gz "geneID"
	args := []string{"faidx", seqdb.geneFasta(), geneID}
	cmd := exec.CommandContext(ctx, "samtools", args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: gene %s not found", err, geneID)
	}

	return FlattenFasta(output), nil
}

// RegionSequence fetches a subsequence of a gene record, 1-based inclusive.
func (seqdb *SequenceDB) RegionSequence(ctx context.Context, geneID string, start, end int) (string, error) {

	name := fmt.Sprintf("%s:%d-%d", geneID, start, end)
	args := []string{"faidx", seqdb.geneFasta(), name}
	cmd := exec.CommandContext(ctx, "samtools", args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: region %s not found", err, name)
	}

	return FlattenFasta(output), nil
}

// FlattenFasta drops header lines and folds the sequence lines together.
func FlattenFasta(raw []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(raw, []byte("\n")) {
		if len(line) == 0 || line[0] == '>' {
			continue
		}
		sb.Write(bytes.TrimSpace(line))
	}

	return sb.String()
}
