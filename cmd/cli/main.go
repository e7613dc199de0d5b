package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"zebu/adapters/postgres"
	"zebu/adapters/stats/measures"
	"zebu/app"
	"zebu/domain/association"
	"zebu/domain/core"
	"zebu/internal/config"
	"zebu/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "zebu",
		Short:         "Local and global association measures for categorical variables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newLocalCmd(),
		newMeasuresCmd(),
		newMigrateCmd(),
		newDeleteCmd(),
	)
	return rootCmd
}

func newMeasuresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "measures",
		Short: "List the available local association measures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MEASURE\tVARIABLES\tGLOBAL\tDESCRIPTION")
			for _, m := range association.Measures {
				f, err := measures.Lookup(m)
				if err != nil {
					return err
				}
				arity := "2+"
				if f.BivariateOnly {
					arity = "2"
				}
				global := "weighted sum"
				if f.SumOfSquares {
					global = "sum of squares"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m, arity, global, f.Description)
			}
			return tw.Flush()
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the result store schema in DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			db, err := postgres.Open(ctx, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a stored result from DATABASE_URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseID(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.Database.Enabled() {
				return errors.ConfigInvalid("DATABASE_URL is required to delete stored results")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			db, err := postgres.Open(ctx, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			service := app.NewAssociationService(nil, nil, nil, postgres.NewResultRepository(db), app.Defaults{})
			if err := service.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return nil
		},
	}
}
