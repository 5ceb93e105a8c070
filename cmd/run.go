package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abarbosa-dev/vinexport/internal/pipeline"
	"github.com/abarbosa-dev/vinexport/internal/writer"
)

var (
	runFrom    int
	runTo      int
	runDensity float64
	runOutDir  string
	runXLSX    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process a year range and write CSV artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		from, to := cfg.Pipeline.StartYear, cfg.Pipeline.EndYear
		if cmd.Flags().Changed("from") {
			from = runFrom
		}
		if cmd.Flags().Changed("to") {
			to = runTo
		}
		density := cfg.Pipeline.DensityKgPerL
		if cmd.Flags().Changed("density") {
			density = runDensity
		}
		outDir := cfg.Output.Dir
		if cmd.Flags().Changed("out") {
			outDir = runOutDir
		}
		xlsxOut := cfg.Output.XLSX || runXLSX

		st, err := initStore()
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.CreateRun(ctx, from, to)
		if err != nil {
			return err
		}

		agg := buildAggregator(density)
		results, err := agg.Run(ctx, from, to)
		if err != nil {
			if failErr := st.FailRun(ctx, run.ID, err.Error()); failErr != nil {
				zap.L().Error("failed to record run failure", zap.Error(failErr))
			}
			return eris.Wrapf(err, "run %s", run.ID)
		}

		for _, yt := range results {
			if err := st.AddYear(ctx, run.ID, yt.Year, yt.Label, len(yt.Rows)); err != nil {
				return err
			}
		}

		w := writer.New(outDir)
		if _, err := w.WriteYearly(results); err != nil {
			return err
		}

		unified := pipeline.Unify(results)
		unifiedPath, err := w.WriteUnified(unified)
		if err != nil {
			return err
		}
		if xlsxOut {
			if _, err := w.WriteUnifiedXLSX(unified); err != nil {
				return err
			}
		}

		meta := pipeline.Summarize(results)
		if err := st.CompleteRun(ctx, run.ID, meta, len(unified)); err != nil {
			return err
		}

		zap.L().Info("run complete",
			zap.String("run_id", run.ID),
			zap.Int("years", meta.YearCount),
			zap.Int("rows", len(unified)),
			zap.String("unified", unifiedPath),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	},
}

func init() {
	runCmd.Flags().IntVar(&runFrom, "from", 0, "first year to process (default from config)")
	runCmd.Flags().IntVar(&runTo, "to", 0, "last year to process (default from config)")
	runCmd.Flags().Float64Var(&runDensity, "density", 0, "wine density in kg/L for liter conversion")
	runCmd.Flags().StringVar(&runOutDir, "out", "", "output directory for CSV artifacts")
	runCmd.Flags().BoolVar(&runXLSX, "xlsx", false, "also write the unified dataset as XLSX")
	rootCmd.AddCommand(runCmd)
}
