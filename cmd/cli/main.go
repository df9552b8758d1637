package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"chocobox/adapters/excel"
	"chocobox/adapters/rng"
	"chocobox/adapters/sampler"
	"chocobox/app"
	"chocobox/domain/derangement"
	"chocobox/internal"
	"chocobox/internal/diagnostics"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "chocobox",
		Short:        "Simulate the chocolate box (derangement) problem",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newSimulateCmd(),
		newAuditCmd(),
	)
	return rootCmd
}

func newSimulateCmd() *cobra.Command {
	var chocolates, iterations int
	var seed uint64
	var format, out string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Drop and replace a box of chocolates and track the derangement ratio",
		Long: `Run M drop-and-replace trials for a box of N chocolates and report how the
fraction of trials where every chocolate landed in a wrong slot approaches 1/e.

Example: chocobox simulate --chocolates 50 --iterations 20000 --seed 42 --format table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), cmd.OutOrStdout(), chocolates, iterations, seed, format, out)
		},
	}

	cmd.Flags().IntVar(&chocolates, "chocolates", 100, "Number of chocolates in the box")
	cmd.Flags().IntVar(&iterations, "iterations", 100, "Number of drop-and-replace trials")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (0 picks a fresh one)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json|csv|xlsx")
	cmd.Flags().StringVar(&out, "out", "", "Write output to file instead of stdout (required for xlsx)")

	return cmd
}

func runSimulate(ctx context.Context, stdout io.Writer, chocolates, iterations int, seed uint64, format, out string) error {
	if format == string(excel.FormatXLSX) && out == "" {
		return fmt.Errorf("--out is required for xlsx output")
	}

	svc := app.NewConvergenceService(rng.NewAdapter(), internal.DefaultLogger)
	run, err := svc.ComputeConvergenceSeries(ctx, app.SeriesRequest{
		Chocolates: chocolates,
		Iterations: iterations,
		Seed:       seed,
	})
	if err != nil {
		return err
	}

	w := stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "table":
		return writeTable(w, run)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	default:
		exportFormat, err := excel.ParseFormat(format)
		if err != nil {
			return err
		}
		if err := excel.NewSeriesWriter(exportFormat).Write(w, run); err != nil {
			return err
		}
		if out != "" {
			fmt.Fprintf(stdout, "📁 Wrote %d rows to %s\n", run.Series.Len(), out)
		}
		return nil
	}
}

func writeTable(w io.Writer, run *app.Run) error {
	fmt.Fprintf(w, "\n🍫 CHOCOLATE BOX RESULTS\n")
	fmt.Fprintf(w, "Run: %s\n", run.RunID)
	fmt.Fprintf(w, "Seed: %d\n", run.Seed)
	fmt.Fprintf(w, "Chocolates: %d\n", run.Series.ItemCount)
	fmt.Fprintf(w, "Iterations: %d\n", run.Series.TrialCount)
	fmt.Fprintf(w, "Derangements: %d\n", run.Summary.Derangements)
	fmt.Fprintf(w, "Final ratio: %.6f (1/e = %.6f, |error| = %.6f)\n",
		run.Summary.FinalRatio, run.Summary.Reference, run.Summary.AbsoluteError)
	fmt.Fprintf(w, "Last %d iterations: mean %.6f, std dev %.6f\n\n",
		run.Summary.TailWindow, run.Summary.TailMean, run.Summary.TailStdDev)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITERATION\tRATIO\t1/E")
	for _, row := range checkpoints(run.Series.Rows) {
		fmt.Fprintf(tw, "%d\t%.6f\t%.6f\n", row.Iteration, row.Ratio, row.Reference)
	}
	return tw.Flush()
}

// checkpoints picks about ten evenly spaced rows, always ending with the last one
func checkpoints(rows []derangement.Row) []derangement.Row {
	if len(rows) == 0 {
		return nil
	}
	step := max(len(rows)/10, 1)

	var picked []derangement.Row
	for i := step - 1; i < len(rows); i += step {
		picked = append(picked, rows[i])
	}
	if last := rows[len(rows)-1]; picked[len(picked)-1].Iteration != last.Iteration {
		picked = append(picked, last)
	}
	return picked
}

func newAuditCmd() *cobra.Command {
	var items, samples int
	var seed uint64
	var alpha float64

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check that the permutation sampler is uniform",
		Long: `Draw many permutations of a small box and run a chi-square goodness-of-fit
test over all n! orderings.

Example: chocobox audit --items 4 --samples 120000 --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd.Context(), cmd.OutOrStdout(), items, samples, seed, alpha)
		},
	}

	cmd.Flags().IntVar(&items, "items", 3, fmt.Sprintf("Box size, 1..%d", diagnostics.MaxAuditItems))
	cmd.Flags().IntVar(&samples, "samples", 60000, "Number of permutations to draw")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (0 picks a fresh one)")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.01, "Significance level")

	return cmd
}

func runAudit(ctx context.Context, w io.Writer, items, samples int, seed uint64, alpha float64) error {
	src, usedSeed, err := rng.NewAdapter().Stream(ctx, "", seed)
	if err != nil {
		return err
	}

	report, err := diagnostics.AuditUniformity(sampler.NewPermutationSampler(src), items, samples)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n🔬 UNIFORMITY AUDIT\n")
	fmt.Fprintf(w, "Seed: %d\n", usedSeed)
	fmt.Fprintf(w, "Items: %d (%d orderings)\n", report.Items, report.Orderings)
	fmt.Fprintf(w, "Samples: %d\n", report.Samples)
	fmt.Fprintf(w, "Counts: min %d, max %d, expected %.1f\n",
		report.MinCount, report.MaxCount, float64(report.Samples)/float64(report.Orderings))
	fmt.Fprintf(w, "Chi-square: %.4f (df=%d), p=%.4f\n", report.ChiSquare, report.DegreesOfFreedom, report.PValue)

	if !report.Uniform(alpha) {
		return fmt.Errorf("sampler failed uniformity at alpha=%g (p=%.6f)", alpha, report.PValue)
	}
	fmt.Fprintf(w, "✅ Uniform at alpha=%g\n", alpha)
	return nil
}
