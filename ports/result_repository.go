package ports

import (
	"context"
	"strings"

	"zebu/domain/association"
	"zebu/domain/core"
)

// ResultRepository persists association results between estimation and
// significance steps
type ResultRepository interface {
	Save(ctx context.Context, result *association.Result) error
	Get(ctx context.Context, id core.ID) (*association.Result, error)
	List(ctx context.Context, limit int) ([]ResultSummary, error)
	Delete(ctx context.Context, id core.ID) error
}

// ResultSummary is the listing view of a stored result
type ResultSummary struct {
	ID           core.ID                       `json:"id" db:"id"`
	Measure      association.Measure           `json:"measure" db:"measure"`
	Variables    string                        `json:"variables" db:"variables"`
	SampleSize   int                           `json:"sample_size" db:"sample_size"`
	Global       float64                       `json:"global" db:"global_value"`
	Significance association.SignificanceState `json:"significance" db:"significance"`
}

// NewResultSummary builds the listing view of a result
func NewResultSummary(result *association.Result) ResultSummary {
	return ResultSummary{
		ID:           result.ID,
		Measure:      result.Measure,
		Variables:    strings.Join(result.VariableNames(), ","),
		SampleSize:   result.SampleSize,
		Global:       result.Global,
		Significance: result.State(),
	}
}
