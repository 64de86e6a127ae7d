package model

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// BatchResult pairs each requested gene with its analysis or its failure.
// Failures are configuration-class only; an empty analysis is a success.
// Failure reasons are kept as plain strings so they survive JSON encoding.
type BatchResult struct {
	Analyses []*GeneAnalysis   `json:"analyses"`
	Failed   map[string]string `json:"failed,omitempty"`
}

// AnalyzeBatch runs AnalyzeGene over the genes on a fixed pool of workers.
// Genes are independent, so the pool shares nothing but the read-only deps.
// A failing gene is logged and recorded in Failed without stopping the rest;
// cancelling the context abandons the genes not yet picked up and returns
// ctx.Err().
func AnalyzeBatch(ctx context.Context, deps *Deps, geneIDs []string, opts AnalysisOptions, workers int) (*BatchResult, error) {
	if workers < 1 {
		workers = 1
	}

	log := deps.logger()

	type outcome struct {
		idx      int
		geneID   string
		analysis *GeneAnalysis
		err      error
	}

	jobs := make(chan int, workers*2)
	results := make(chan outcome, workers*2)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-jobs:
					if !ok {
						return
					}
					geneID := geneIDs[idx]
					analysis, err := AnalyzeGene(ctx, deps, geneID, opts)
					select {
					case results <- outcome{idx: idx, geneID: geneID, analysis: analysis, err: err}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range geneIDs {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	byIdx := make([]*GeneAnalysis, len(geneIDs))
	failed := make(map[string]string)

	for out := range results {
		if out.err != nil {
			log.Error("gene analysis failed, skipping",
				zap.String("gene_id", out.geneID),
				zap.Error(out.err))
			failed[out.geneID] = out.err.Error()
			continue
		}
		byIdx[out.idx] = out.analysis
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	analyses := make([]*GeneAnalysis, 0, len(geneIDs))
	for _, a := range byIdx {
		if a != nil {
			analyses = append(analyses, a)
		}
	}

	return &BatchResult{Analyses: analyses, Failed: failed}, nil
}
