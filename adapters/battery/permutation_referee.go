package battery

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"zebu/adapters/stats/measures"
	"zebu/domain/association"
	"zebu/domain/contingency"
	"zebu/domain/core"
	"zebu/internal"
	"zebu/internal/analysis"
	"zebu/internal/probability"
	"zebu/ports"
)

// batchSize is the number of permutations drawn from one RNG stream.
// Streams are keyed by batch, not by worker, so p-values do not depend on
// the worker count.
const batchSize = 64

// PermutationReferee estimates p-values by shuffling every column except
// the first and recomputing the local measure on each shuffle
type PermutationReferee struct {
	rngPort ports.RNGPort
	workers int
	logger  *internal.Logger
}

// NewPermutationReferee creates a permutation referee. workers <= 0 uses
// one worker per CPU.
func NewPermutationReferee(rngPort ports.RNGPort, workers int) *PermutationReferee {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &PermutationReferee{
		rngPort: rngPort,
		workers: workers,
		logger:  internal.DefaultLogger.WithComponent("PermutationReferee"),
	}
}

// batchOutcome is the private reduction state of one batch
type batchOutcome struct {
	exceed []int
	global []float64
}

// Assess runs opts.Permutations shuffles of result.Data.
func (pr *PermutationReferee) Assess(ctx context.Context, result *association.Result, opts ports.SignificanceOptions) (*association.Result, error) {
	if result == nil {
		return nil, core.NewParameterError("result", "is nil")
	}
	if opts.Permutations < 1 {
		return nil, core.NewParameterError("permutations", fmt.Sprintf("must be at least 1, got %d", opts.Permutations))
	}
	method, err := analysis.ParseAdjustMethod(opts.PAdjust)
	if err != nil {
		return nil, err
	}
	formula, err := measures.Lookup(result.Measure)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrUnsupportedMeasure, err)
	}
	if err := formula.CheckArity(len(result.Variables)); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrUnsupportedMeasure, err)
	}
	ds := result.Data
	if ds == nil || ds.Rows() == 0 {
		return nil, fmt.Errorf("%w: result carries no data to resample", core.ErrInsufficientData)
	}
	if !sameShape(ds.Shape(), result.Local.Shape()) {
		return nil, fmt.Errorf("%w: data does not match the result's arrays", core.ErrInvalidParameter)
	}

	start := time.Now()
	nb := opts.Permutations
	batches := (nb + batchSize - 1) / batchSize
	outcomes := make([]batchOutcome, batches)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pr.workers)
	for b := 0; b < batches; b++ {
		b := b
		first := b * batchSize
		count := min(batchSize, nb-first)
		g.Go(func() error {
			out, err := pr.runBatch(gctx, result, formula, b, count, opts.Seed)
			if err != nil {
				return err
			}
			outcomes[b] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// reduction
	exceed := make([]int, result.Local.Len())
	nullGlobal := make([]float64, 0, nb)
	for _, out := range outcomes {
		for i, c := range out.exceed {
			exceed[i] += c
		}
		nullGlobal = append(nullGlobal, out.global...)
	}

	raw := make([]float64, len(exceed))
	for i, c := range exceed {
		raw[i] = float64(c) / float64(nb)
	}
	adjusted, err := analysis.AdjustPValues(raw, method)
	if err != nil {
		return nil, err
	}
	localP, err := contingency.FromData(result.Local.Shape(), adjusted)
	if err != nil {
		return nil, err
	}

	observed := math.Abs(result.Global)
	globalExceed := 0
	for _, v := range nullGlobal {
		if math.Abs(v) > observed {
			globalExceed++
		}
	}
	globalP := float64(globalExceed) / float64(nb)

	summary, err := summarizeNull(nullGlobal)
	if err != nil {
		return nil, err
	}

	pr.logger.Info("%s: %d permutations over %d rows in %s (global p=%.4g)",
		result.Measure, nb, ds.Rows(), time.Since(start).Round(time.Millisecond), globalP)

	out := *result
	out.Attach(&association.Significance{
		State:        association.SignificancePermutation,
		Permutations: nb,
		Seed:         opts.Seed,
		PAdjust:      string(method),
		LocalP:       localP,
		GlobalP:      globalP,
		NullGlobal:   summary,
		ComputedAt:   time.Now().UTC(),
	})
	return &out, nil
}

// runBatch draws count permutations from the stream of batch b. Shuffling
// preserves every marginal, so the expected and bound arrays of the result
// are reused read-only.
func (pr *PermutationReferee) runBatch(ctx context.Context, result *association.Result, formula measures.Formula, b, count int, seed int64) (batchOutcome, error) {
	rng, err := pr.rngPort.Stream(ctx, "permutation", string(result.Measure), b, seed)
	if err != nil {
		return batchOutcome{}, err
	}

	ds := result.Data
	codes := make([][]int, len(ds.Codes))
	for v, col := range ds.Codes {
		codes[v] = append([]int(nil), col...)
	}

	observed := contingency.New(result.Local.Shape()...)
	local := contingency.New(result.Local.Shape()...)
	in := measures.Inputs{
		N:              result.SampleSize,
		Observed:       observed,
		Expected:       result.Expected,
		TheoreticalMax: result.TheoreticalMax,
		TheoreticalMin: result.TheoreticalMin,
	}

	reference := result.Local.Data()
	out := batchOutcome{
		exceed: make([]int, len(reference)),
		global: make([]float64, 0, count),
	}
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return batchOutcome{}, err
		}
		// the first column stays in place
		for v := 1; v < len(codes); v++ {
			col := codes[v]
			rng.Shuffle(len(col), func(a, c int) { col[a], col[c] = col[c], col[a] })
		}
		probability.Tabulate(observed, codes)
		if err := formula.LocalInto(local, in); err != nil {
			return batchOutcome{}, err
		}
		global, err := formula.Global(local, observed)
		if err != nil {
			return batchOutcome{}, err
		}
		for c, v := range local.Data() {
			if math.Abs(v) > math.Abs(reference[c]) {
				out.exceed[c]++
			}
		}
		out.global = append(out.global, global)
	}
	pr.logger.Trace("batch %d: %d permutations", b, count)
	return out, nil
}

func summarizeNull(values []float64) (*association.NullSummary, error) {
	data := stats.Float64Data(values)
	mean, err := stats.Mean(data)
	if err != nil {
		return nil, err
	}
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return nil, err
	}
	lo, err := stats.Min(data)
	if err != nil {
		return nil, err
	}
	hi, err := stats.Max(data)
	if err != nil {
		return nil, err
	}
	return &association.NullSummary{
		Mean:         mean,
		StdDev:       stdDev,
		Min:          lo,
		Max:          hi,
		Percentile95: percentile(data, 95, hi),
		Percentile99: percentile(data, 99, hi),
	}, nil
}

// percentile falls back to the maximum when the sample is too small for
// the requested rank.
func percentile(data stats.Float64Data, p, fallback float64) float64 {
	v, err := stats.Percentile(data, p)
	if err != nil {
		return fallback
	}
	return v
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
