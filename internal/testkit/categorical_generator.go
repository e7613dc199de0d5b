package testkit

import (
	"fmt"
	"math/rand"
	"strconv"
)

// CategoricalGeneratorConfig configures the synthetic data generators
type CategoricalGeneratorConfig struct {
	Rows int   `json:"rows"`
	Seed int64 `json:"seed"`
}

// DefaultCategoricalConfig returns sensible defaults for data generation
func DefaultCategoricalConfig() CategoricalGeneratorConfig {
	return CategoricalGeneratorConfig{
		Rows: 1000,
		Seed: 42,
	}
}

// CategoricalDataGenerator generates labelled rows with known structure
type CategoricalDataGenerator struct {
	config CategoricalGeneratorConfig
	rng    *rand.Rand
}

// NewCategoricalDataGenerator creates a new generator
func NewCategoricalDataGenerator(config CategoricalGeneratorConfig) *CategoricalDataGenerator {
	return &CategoricalDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Shopping generates orders with channel, region and returned columns.
// Returns depend strongly on channel (web orders come back more often);
// region is independent of both.
func (g *CategoricalDataGenerator) Shopping() ([]string, [][]string) {
	names := []string{"channel", "region", "returned"}
	channels := []string{"app", "store", "web"}
	regions := []string{"east", "north", "south", "west"}
	returnRate := map[string]float64{"app": 0.10, "store": 0.05, "web": 0.40}

	rows := make([][]string, g.config.Rows)
	for i := range rows {
		channel := channels[g.rng.Intn(len(channels))]
		region := regions[g.rng.Intn(len(regions))]
		returned := "no"
		if g.rng.Float64() < returnRate[channel] {
			returned = "yes"
		}
		rows[i] = []string{channel, region, returned}
	}
	return names, rows
}

// Independent draws each column uniformly and independently.
func (g *CategoricalDataGenerator) Independent(cardinalities ...int) ([]string, [][]string) {
	names := make([]string, len(cardinalities))
	for v := range cardinalities {
		names[v] = fmt.Sprintf("v%d", v+1)
	}
	rows := make([][]string, g.config.Rows)
	for i := range rows {
		row := make([]string, len(cardinalities))
		for v, k := range cardinalities {
			row[v] = "c" + strconv.Itoa(g.rng.Intn(k))
		}
		rows[i] = row
	}
	return names, rows
}

// ExactlyIndependent builds rows whose joint counts are the product of the
// given per-variable weights, so observed equals expected in every cell.
func ExactlyIndependent(weights ...[]int) ([]string, [][]string) {
	names := make([]string, len(weights))
	for v := range weights {
		names[v] = fmt.Sprintf("v%d", v+1)
	}

	var rows [][]string
	idx := make([]int, len(weights))
	for {
		count := 1
		row := make([]string, len(weights))
		for v, c := range idx {
			count *= weights[v][c]
			row[v] = "c" + strconv.Itoa(c)
		}
		for i := 0; i < count; i++ {
			rows = append(rows, row)
		}

		v := len(idx) - 1
		for v >= 0 {
			idx[v]++
			if idx[v] < len(weights[v]) {
				break
			}
			idx[v] = 0
			v--
		}
		if v < 0 {
			return names, rows
		}
	}
}

// FromCounts expands a two-way table of counts into rows labelled
// "a<i>" and "b<j>".
func FromCounts(counts [][]int) ([]string, [][]string) {
	var rows [][]string
	for i, row := range counts {
		for j, n := range row {
			for k := 0; k < n; k++ {
				rows = append(rows, []string{"a" + strconv.Itoa(i), "b" + strconv.Itoa(j)})
			}
		}
	}
	return []string{"A", "B"}, rows
}
