package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"zebu/adapters/battery"
	"zebu/adapters/excel"
	"zebu/adapters/report"
	"zebu/adapters/rng"
	"zebu/adapters/stats/engine"
	"zebu/app"
	"zebu/domain/association"
	"zebu/internal"
	"zebu/internal/config"
	"zebu/internal/dataset"
	"zebu/ports"

	"github.com/spf13/cobra"
)

// localOptions are the flags of the local command
type localOptions struct {
	file         string
	vars         []string
	measure      string
	breaks       int
	binMethod    string
	permutations int
	pAdjust      string
	seed         int64
	analytic     bool
	format       string
	output       string
}

func newLocalCmd() *cobra.Command {
	opts := localOptions{}

	cmd := &cobra.Command{
		Use:   "local",
		Short: "Estimate local association between categorical columns of a file",
		Long: `Estimate local and global association between two or more columns of a
CSV or XLSX file. Numeric columns with more distinct values than --breaks
are binned first.

Example: zebu local --file orders.csv --vars channel,returned --measure chisq --permutations 1000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			internal.DefaultLogger.SetLevel(internal.ParseLogLevel(cfg.LogLevel))
			if !cmd.Flags().Changed("breaks") {
				opts.breaks = cfg.Analysis.DefaultBreaks
			}
			if !cmd.Flags().Changed("p-adjust") {
				opts.pAdjust = cfg.Analysis.PAdjust
			}
			if !cmd.Flags().Changed("seed") {
				opts.seed = cfg.Analysis.Seed
			}

			out := cmd.OutOrStdout()
			if opts.output != "" {
				f, err := os.Create(opts.output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", opts.output, err)
				}
				defer f.Close()
				out = f
			}
			return runLocal(cmd.Context(), cfg, opts, out)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "CSV or XLSX input file")
	cmd.Flags().StringSliceVarP(&opts.vars, "vars", "v", nil, "Columns to relate (at least two)")
	cmd.Flags().StringVarP(&opts.measure, "measure", "m", string(association.MeasureChiSq), "Local measure: d, z, pmi, npmi, npmi2, chisq")
	cmd.Flags().IntVar(&opts.breaks, "breaks", 4, "Number of bins for numeric columns")
	cmd.Flags().StringVar(&opts.binMethod, "bin-method", string(dataset.BinEqualWidth), "Binning method: width or quantile")
	cmd.Flags().IntVar(&opts.permutations, "permutations", 0, "Run a permutation test with this many permutations")
	cmd.Flags().StringVar(&opts.pAdjust, "p-adjust", "BH", "Multiple comparison adjustment")
	cmd.Flags().Int64Var(&opts.seed, "seed", 42, "Random seed for the permutation test")
	cmd.Flags().BoolVar(&opts.analytic, "analytic", false, "Run the analytic test (chisq, two variables)")
	cmd.Flags().StringVar(&opts.format, "format", string(report.FormatText), "Output format: text, csv, markdown or html")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write to a file instead of stdout")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("vars")

	return cmd
}

func runLocal(ctx context.Context, cfg *config.Config, opts localOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := internal.DefaultLogger.WithComponent("cli")

	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.analytic && opts.permutations > 0 {
		return fmt.Errorf("choose either --analytic or --permutations")
	}

	table, err := excel.NewDataReader(opts.file).ReadTable()
	if err != nil {
		return err
	}
	binOrder := make(map[int][]string)
	for v, name := range opts.vars {
		col, err := table.Column(name)
		if err != nil {
			return err
		}
		if !dataset.IsContinuous(col, opts.breaks) {
			continue
		}
		binned, order, err := dataset.DiscretizeWithLabels(col, dataset.BinOptions{Breaks: opts.breaks, Method: dataset.BinMethod(opts.binMethod)})
		if err != nil {
			return fmt.Errorf("binning %s: %w", name, err)
		}
		if err := table.Replace(name, binned); err != nil {
			return err
		}
		binOrder[v] = order
		logger.Info("binned numeric column %s into %d intervals", name, len(order))
	}
	rows, err := table.Select(opts.vars)
	if err != nil {
		return err
	}
	var categories [][]string
	if len(binOrder) > 0 {
		categories = observedCategories(len(opts.vars), rows, binOrder)
	}

	service := app.NewAssociationService(
		engine.NewStatsEngine(engine.Options{MaxCells: cfg.Analysis.MaxCells}),
		battery.NewPermutationReferee(rng.NewAdapter(), cfg.Analysis.Workers),
		battery.NewAnalyticReferee(),
		nil,
		app.Defaults{Permutations: cfg.Analysis.Permutations, Seed: cfg.Analysis.Seed, PAdjust: cfg.Analysis.PAdjust},
	)

	result, err := service.Estimate(ctx, app.EstimateRequest{Variables: opts.vars, Rows: rows, Categories: categories, Measure: opts.measure})
	if err != nil {
		return err
	}

	sig := ports.SignificanceOptions{Permutations: opts.permutations, Seed: opts.seed, SeedSet: true, PAdjust: opts.pAdjust}
	switch {
	case opts.permutations > 0:
		result, err = service.SignificancePermutation(ctx, result, sig)
	case opts.analytic:
		result, err = service.SignificanceAnalytic(ctx, result, sig)
	}
	if err != nil {
		return err
	}

	return report.Write(out, result, format)
}

// observedCategories lists the labels seen in complete rows for every
// variable. Binned variables follow their interval order, the others are
// sorted.
func observedCategories(nvars int, rows [][]string, binOrder map[int][]string) [][]string {
	seen := make([]map[string]struct{}, nvars)
	for v := range seen {
		seen[v] = make(map[string]struct{})
	}
	for _, row := range rows {
		complete := true
		for _, label := range row {
			if label == "" {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		for v, label := range row {
			seen[v][label] = struct{}{}
		}
	}

	categories := make([][]string, len(seen))
	for v, labels := range seen {
		if order, ok := binOrder[v]; ok {
			for _, label := range order {
				if _, ok := labels[label]; ok {
					categories[v] = append(categories[v], label)
				}
			}
			continue
		}
		for label := range labels {
			categories[v] = append(categories[v], label)
		}
		sort.Strings(categories[v])
	}
	return categories
}
