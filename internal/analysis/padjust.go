package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"zebu/domain/core"
)

// AdjustMethod names a multiple-comparison p-value adjustment.
type AdjustMethod string

const (
	AdjustNone       AdjustMethod = "none"
	AdjustBonferroni AdjustMethod = "bonferroni"
	AdjustHolm       AdjustMethod = "holm"
	AdjustHochberg   AdjustMethod = "hochberg"
	AdjustHommel     AdjustMethod = "hommel"
	AdjustBH         AdjustMethod = "BH" // Benjamini-Hochberg false discovery rate
	AdjustBY         AdjustMethod = "BY" // Benjamini-Yekutieli
)

// ParseAdjustMethod accepts method names case-insensitively; "fdr" is an
// alias of BH.
func ParseAdjustMethod(s string) (AdjustMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return AdjustNone, nil
	case "bonferroni":
		return AdjustBonferroni, nil
	case "holm":
		return AdjustHolm, nil
	case "hochberg":
		return AdjustHochberg, nil
	case "hommel":
		return AdjustHommel, nil
	case "bh", "fdr":
		return AdjustBH, nil
	case "by":
		return AdjustBY, nil
	}
	return "", core.NewParameterError("p_adjust", fmt.Sprintf("unknown method %q", s))
}

// AdjustPValues returns adjusted p-values in the input order. The family is
// the whole slice.
func AdjustPValues(p []float64, method AdjustMethod) ([]float64, error) {
	n := len(p)
	out := append([]float64(nil), p...)
	if n <= 1 || method == AdjustNone {
		if _, err := ParseAdjustMethod(string(method)); err != nil {
			return nil, err
		}
		return out, nil
	}

	switch method {
	case AdjustBonferroni:
		for i, v := range p {
			out[i] = math.Min(1, float64(n)*v)
		}
		return out, nil
	case AdjustHolm:
		return holm(p), nil
	case AdjustHochberg:
		return stepUp(p, func(rank int) float64 { return float64(n - rank + 1) }), nil
	case AdjustHommel:
		if n == 2 {
			return stepUp(p, func(rank int) float64 { return float64(n - rank + 1) }), nil
		}
		return hommel(p), nil
	case AdjustBH:
		return stepUp(p, func(rank int) float64 { return float64(n) / float64(rank) }), nil
	case AdjustBY:
		q := 0.0
		for i := 1; i <= n; i++ {
			q += 1 / float64(i)
		}
		return stepUp(p, func(rank int) float64 { return q * float64(n) / float64(rank) }), nil
	}
	return nil, core.NewParameterError("p_adjust", fmt.Sprintf("unknown method %q", method))
}

// ascending returns the indices of p sorted by increasing p-value.
func ascending(p []float64) []int {
	order := make([]int, len(p))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return p[order[a]] < p[order[b]] })
	return order
}

// stepUp walks from the largest p-value down, multiplying the p-value of
// 1-based rank r by factor(r) and taking the running minimum.
func stepUp(p []float64, factor func(rank int) float64) []float64 {
	order := ascending(p)
	out := make([]float64, len(p))
	running := math.Inf(1)
	for k := len(order) - 1; k >= 0; k-- {
		i := order[k]
		running = math.Min(running, factor(k+1)*p[i])
		out[i] = math.Min(1, running)
	}
	return out
}

// holm walks from the smallest p-value up, taking the running maximum of
// (n - r + 1) p.
func holm(p []float64) []float64 {
	n := len(p)
	order := ascending(p)
	out := make([]float64, n)
	running := 0.0
	for k, i := range order {
		running = math.Max(running, float64(n-k)*p[i])
		out[i] = math.Min(1, running)
	}
	return out
}

// hommel implements Hommel's closed testing adjustment for n > 2.
func hommel(p []float64) []float64 {
	n := len(p)
	order := ascending(p)
	sorted := make([]float64, n)
	for k, i := range order {
		sorted[k] = p[i]
	}

	start := math.Inf(1)
	for k, v := range sorted {
		start = math.Min(start, float64(n)*v/float64(k+1))
	}
	q := make([]float64, n)
	pa := make([]float64, n)
	for k := range q {
		q[k] = start
		pa[k] = start
	}

	for m := n - 1; m >= 2; m-- {
		fm := float64(m)
		// the last m-1 sorted values
		q1 := math.Inf(1)
		for j := 0; j < m-1; j++ {
			q1 = math.Min(q1, fm*sorted[n-m+1+j]/float64(j+2))
		}
		for k := 0; k <= n-m; k++ {
			q[k] = math.Min(fm*sorted[k], q1)
		}
		for k := n - m + 1; k < n; k++ {
			q[k] = q[n-m]
		}
		for k := range pa {
			pa[k] = math.Max(pa[k], q[k])
		}
	}

	out := make([]float64, n)
	for k, i := range order {
		out[i] = math.Min(1, math.Max(pa[k], sorted[k]))
	}
	return out
}
