// Package evaluation scores batches of prediction/reference chain pairs and
// aggregates the results into a report.
package evaluation

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/githubz0r/ss-pred/internal/label"
	"github.com/githubz0r/ss-pred/internal/parser"
	"github.com/githubz0r/ss-pred/internal/score"
)

// Pair is one reference/prediction chain pair to score.
type Pair struct {
	ID   string
	Ref  label.Sequence
	Pred label.Sequence
}

// ChainResult holds the scores for a single chain.
type ChainResult struct {
	ID     string  `json:"id"`
	Length int     `json:"length"`
	Q3     float64 `json:"q3"`
	SOV    float64 `json:"sov"`
	Error  string  `json:"error,omitempty"`
}

// Report aggregates per-chain results. Means are arithmetic over the
// successfully scored chains only.
type Report struct {
	RunID     string        `json:"run_id"`
	Chains    []ChainResult `json:"chains"`
	MeanQ3    float64       `json:"mean_q3"`
	MeanSOV   float64       `json:"mean_sov"`
	Evaluated int           `json:"evaluated"`
	Failed    int           `json:"failed"`
}

// Evaluator scores chain pairs concurrently.
type Evaluator struct {
	workers int
	logger  *slog.Logger
}

// New creates an evaluator that scores up to workers chains at a time.
func New(workers int, logger *slog.Logger) (*Evaluator, error) {
	if workers < 1 {
		return nil, fmt.Errorf("worker count must be positive, got %d", workers)
	}
	return &Evaluator{workers: workers, logger: logger}, nil
}

type scoreTask struct {
	idx     int
	pair    Pair
	results []ChainResult
	wg      *sync.WaitGroup
}

// Evaluate scores every pair and returns the aggregated report. Per-chain
// failures (length mismatch, empty chains) are recorded in the report
// without aborting the run; results keep the input order.
func (e *Evaluator) Evaluate(pairs []Pair) (*Report, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("no chain pairs to evaluate")
	}

	results := make([]ChainResult, len(pairs))
	var wg sync.WaitGroup

	pool, err := ants.NewPoolWithFunc(e.workers, func(args any) {
		task := args.(*scoreTask)
		defer task.wg.Done()
		task.results[task.idx] = scoreChain(task.pair)
	})
	if err != nil {
		return nil, fmt.Errorf("create scoring pool: %w", err)
	}
	defer pool.Release()

	for i, p := range pairs {
		wg.Add(1)
		if err := pool.Invoke(&scoreTask{idx: i, pair: p, results: results, wg: &wg}); err != nil {
			wg.Done()
			results[i] = ChainResult{ID: p.ID, Error: err.Error()}
		}
	}
	wg.Wait()

	report := &Report{
		RunID:  uuid.NewString(),
		Chains: results,
	}
	for _, r := range results {
		if r.Error != "" {
			report.Failed++
			e.logger.Warn("chain not scored", "chain", r.ID, "error", r.Error)
			continue
		}
		report.Evaluated++
		report.MeanQ3 += r.Q3
		report.MeanSOV += r.SOV
	}
	if report.Evaluated > 0 {
		report.MeanQ3 /= float64(report.Evaluated)
		report.MeanSOV /= float64(report.Evaluated)
	}

	e.logger.Debug("evaluation finished",
		"runID", report.RunID,
		"evaluated", report.Evaluated,
		"failed", report.Failed,
	)
	return report, nil
}

func scoreChain(p Pair) ChainResult {
	result := ChainResult{ID: p.ID, Length: len(p.Ref)}

	q3, err := score.Q3(p.Ref, p.Pred)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	sov, err := score.SOV(p.Ref, p.Pred)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Q3 = q3
	result.SOV = sov
	return result
}

// Match pairs reference and prediction chains by ID, preserving the
// reference file order. Every reference chain must have a prediction.
func Match(refs, preds []parser.Chain) ([]Pair, error) {
	byID := make(map[string]label.Sequence, len(preds))
	for _, p := range preds {
		byID[p.ID] = p.Labels
	}

	pairs := make([]Pair, 0, len(refs))
	for _, r := range refs {
		pred, ok := byID[r.ID]
		if !ok {
			return nil, fmt.Errorf("no prediction for chain %s", r.ID)
		}
		pairs = append(pairs, Pair{ID: r.ID, Ref: r.Labels, Pred: pred})
	}
	return pairs, nil
}
