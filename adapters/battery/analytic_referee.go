package battery

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"zebu/domain/association"
	"zebu/domain/contingency"
	"zebu/domain/core"
	"zebu/internal"
	"zebu/internal/analysis"
	"zebu/ports"
)

// AnalyticReferee assesses chi-squared residuals of a two-variable table
// with the normal approximation. The global value is referred to a
// chi-squared distribution with (K1-1)(K2-1) degrees of freedom.
type AnalyticReferee struct {
	logger *internal.Logger
}

// NewAnalyticReferee creates an analytic referee
func NewAnalyticReferee() *AnalyticReferee {
	return &AnalyticReferee{logger: internal.DefaultLogger.WithComponent("AnalyticReferee")}
}

// Assess computes p = 2(1 - Phi(|r|)) for every residual r.
func (ar *AnalyticReferee) Assess(ctx context.Context, result *association.Result, opts ports.SignificanceOptions) (*association.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, core.NewParameterError("result", "is nil")
	}
	method, err := analysis.ParseAdjustMethod(opts.PAdjust)
	if err != nil {
		return nil, err
	}
	if result.Measure != association.MeasureChiSq {
		return nil, fmt.Errorf("%w: analytic test requires %s residuals, got %s",
			core.ErrUnsupportedMeasure, association.MeasureChiSq, result.Measure)
	}
	if m := len(result.Variables); m != 2 {
		return nil, core.NewArityError("analytic test", "exactly 2", m)
	}

	residuals := result.Local.Data()
	raw := make([]float64, len(residuals))
	for i, r := range residuals {
		raw[i] = math.Min(1, 2*distuv.UnitNormal.Survival(math.Abs(r)))
	}
	adjusted, err := analysis.AdjustPValues(raw, method)
	if err != nil {
		return nil, err
	}
	localP, err := contingency.FromData(result.Local.Shape(), adjusted)
	if err != nil {
		return nil, err
	}

	df := 1.0
	for _, v := range result.Variables {
		df *= float64(v.Cardinality() - 1)
	}
	globalP := distuv.ChiSquared{K: df}.Survival(result.Global)

	ar.logger.Debug("chi-squared %.4g on %.0f df, p=%.4g", result.Global, df, globalP)

	out := *result
	out.Attach(&association.Significance{
		State:      association.SignificanceAnalytic,
		PAdjust:    string(method),
		LocalP:     localP,
		GlobalP:    globalP,
		ComputedAt: time.Now().UTC(),
	})
	return &out, nil
}
