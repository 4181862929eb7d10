package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davetashner/scouteval/internal/config"
	scoutlog "github.com/davetashner/scouteval/internal/log"
	"github.com/davetashner/scouteval/internal/sink"
	"github.com/davetashner/scouteval/internal/synth"
)

// Generate command flags.
var (
	genModel           string
	genBatches         int
	genTuplesPerBatch  int
	genQueriesPerTuple int
	genWorkers         int
	genOutput          string
	genFormat          string
	genRetryDelay      string
)

// generateCmd runs the synthetic query pipeline.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic scouting queries",
	Long: `Generate synthetic user queries for the scouting assistant.

The model is first asked, in parallel batches, for (country, player skills,
scenario) tuples. Exact duplicates are dropped and each unique tuple is then
expanded into several realistic queries on a bounded worker pool. Query ids
(SYN001, SYN002, ...) follow completion order.

Exit codes: 0 all calls succeeded, 2 some batches or tuples failed,
3 nothing was generated.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genModel, "model", "", "model name (default from config, $MODEL_NAME, or "+config.DefaultModel+")")
	f.IntVar(&genBatches, "batches", synth.DefaultBatches, "number of parallel tuple batches")
	f.IntVar(&genTuplesPerBatch, "tuples-per-batch", synth.DefaultTuplesPerBatch, "tuples requested per batch")
	f.IntVar(&genQueriesPerTuple, "queries-per-tuple", synth.DefaultQueriesPerTuple, "queries generated per unique tuple")
	f.IntVarP(&genWorkers, "workers", "w", synth.DefaultWorkers, "maximum concurrent query-generation calls")
	f.StringVarP(&genOutput, "output", "o", config.DefaultGenerateOutput, "output file")
	f.StringVarP(&genFormat, "format", "f", "", "output format: csv, jsonl, xlsx (default: from extension)")
	f.StringVar(&genRetryDelay, "retry-delay", "", "pause before retrying a failed call, e.g. 500ms (default 1s)")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	stringFlag(cmd, "model", genModel, &cfg.Model)
	g := &cfg.Generate
	intFlag(cmd, "batches", genBatches, &g.Batches)
	intFlag(cmd, "tuples-per-batch", genTuplesPerBatch, &g.TuplesPerBatch)
	intFlag(cmd, "queries-per-tuple", genQueriesPerTuple, &g.QueriesPerTuple)
	intFlag(cmd, "workers", genWorkers, &g.Workers)
	stringFlag(cmd, "output", genOutput, &g.Output)
	stringFlag(cmd, "format", genFormat, &g.Format)
	stringFlag(cmd, "retry-delay", genRetryDelay, &g.RetryDelay)
	if g.Output == "" {
		g.Output = config.DefaultGenerateOutput
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if _, err := sink.FormatForPath(g.Format, g.Output); err != nil {
		return exitError(ExitInvalidArgs, "scouteval: %v", err)
	}

	provider, err := providerFor(cfg)
	if err != nil {
		return err
	}

	logger, runID := scoutlog.ForRun()
	opts := synthOptions(cfg)
	opts.Logger = logger

	report, err := synth.New(provider, opts).Run(cmd.Context())
	if errors.Is(err, synth.ErrNoTuples) {
		return exitError(ExitTotalFailure, "scouteval: no tuples generated (%d of %d batches failed)",
			report.Tuples.Failed, report.Tuples.Batches)
	}
	if err != nil {
		return exitError(ExitTotalFailure, "scouteval: generation failed (%v)", err)
	}

	queries := report.Queries()
	if err := sink.WriteQueries(g.Output, g.Format, queries); err != nil {
		return exitError(ExitTotalFailure, "scouteval: failed to save queries (%v)", err)
	}

	printGenerateSummary(cmd.OutOrStdout(), report, g.Output, runID)
	slog.Debug("generate finished", "run", runID, "duration", report.Duration)

	switch {
	case len(queries) == 0:
		return exitError(ExitTotalFailure, "scouteval: no queries generated (%d tuples failed)", report.FanOut.Failed)
	case report.Tuples.Failed > 0 || report.FanOut.Failed > 0:
		return exitError(ExitPartialFailure, "")
	}
	return nil
}

// printGenerateSummary writes a colored run summary to w.
func printGenerateSummary(w io.Writer, r *synth.Report, path, runID string) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	dim := color.New(color.Faint)

	countColor := func(n int) *color.Color {
		if n > 0 {
			return red
		}
		return green
	}

	_, _ = bold.Fprintln(w, "Synthetic query generation")
	_, _ = fmt.Fprintf(w, "  tuples:  %s unique from %d raw (%s of %d batches failed)\n",
		green.Sprint(len(r.Tuples.Tuples)), r.Tuples.Raw,
		countColor(r.Tuples.Failed).Sprint(r.Tuples.Failed), r.Tuples.Batches)
	_, _ = fmt.Fprintf(w, "  queries: %s (%s tuples failed)\n",
		green.Sprint(r.Summary.Total), countColor(r.FanOut.Failed).Sprint(r.FanOut.Failed))
	if r.Summary.Total > 0 {
		_, _ = fmt.Fprintf(w, "  words:   mean %.1f, median %.1f, max %.0f\n",
			r.Summary.MeanWords, r.Summary.MedianWords, r.Summary.MaxWords)
		_, _ = fmt.Fprintln(w, "  per scenario:")
		for _, k := range sortedKeys(r.Summary.PerScenario) {
			_, _ = fmt.Fprintf(w, "    %-40s %d\n", k, r.Summary.PerScenario[k])
		}
		_, _ = fmt.Fprintf(w, "  saved to %s\n", path)
	}
	_, _ = dim.Fprintf(w, "  run %s in %s\n", runID, r.Duration.Round(1_000_000))
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
