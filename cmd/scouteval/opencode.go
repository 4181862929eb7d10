package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davetashner/scouteval/internal/chat"
	"github.com/davetashner/scouteval/internal/config"
	scoutlog "github.com/davetashner/scouteval/internal/log"
	"github.com/davetashner/scouteval/internal/opencoding"
	"github.com/davetashner/scouteval/internal/sink"
)

// Opencode command flags.
var (
	ocModel          string
	ocInput          string
	ocOutput         string
	ocFormat         string
	ocWorkers        int
	ocWhere          string
	ocIncludeDropped bool
)

// opencodeCmd replays generated queries through the scouting assistant.
var opencodeCmd = &cobra.Command{
	Use:   "opencode",
	Short: "Run generated queries through the assistant for open coding",
	Long: `Read a generated-query table, send every kept row to the scouting
assistant, and save each reply next to its query for manual open coding.

Rows can be narrowed with a CEL expression over id, query, country, skills,
scenario and keep:

  scouteval opencode --where 'country == "Spain" && query.contains("messi")'

A failed reply is recorded as "Error: <message>" and does not stop the run.`,
	Args: cobra.NoArgs,
	RunE: runOpencode,
}

func init() {
	f := opencodeCmd.Flags()
	f.StringVar(&ocModel, "model", "", "model name (default from config, $MODEL_NAME, or "+config.DefaultModel+")")
	f.StringVarP(&ocInput, "input", "i", config.DefaultGenerateOutput, "generated-query table (csv or xlsx)")
	f.StringVarP(&ocOutput, "output", "o", config.DefaultOpenCodingOutput, "output file")
	f.StringVarP(&ocFormat, "format", "f", "", "output format: csv, jsonl, xlsx (default: from extension)")
	f.IntVarP(&ocWorkers, "workers", "w", opencoding.DefaultWorkers, "maximum concurrent assistant calls")
	f.StringVar(&ocWhere, "where", "", "CEL expression selecting rows to label")
	f.BoolVar(&ocIncludeDropped, "include-dropped", false, "also label rows marked not realistic")
}

func runOpencode(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	stringFlag(cmd, "model", ocModel, &cfg.Model)
	o := &cfg.OpenCoding
	stringFlag(cmd, "input", ocInput, &o.Input)
	stringFlag(cmd, "output", ocOutput, &o.Output)
	stringFlag(cmd, "format", ocFormat, &o.Format)
	intFlag(cmd, "workers", ocWorkers, &o.Workers)
	stringFlag(cmd, "where", ocWhere, &o.Where)
	if cmd.Flags().Changed("include-dropped") {
		o.IncludeDropped = ocIncludeDropped
	}
	if o.Input == "" {
		o.Input = config.DefaultGenerateOutput
	}
	if o.Output == "" {
		o.Output = config.DefaultOpenCodingOutput
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	if _, err := sink.FormatForPath(o.Format, o.Output); err != nil {
		return exitError(ExitInvalidArgs, "scouteval: %v", err)
	}

	rows, err := sink.ReadQueries(o.Input)
	if errors.Is(err, fs.ErrNotExist) {
		return exitError(ExitInvalidArgs, "scouteval: input file %s not found; run 'scouteval generate' first", o.Input)
	}
	if err != nil {
		return exitError(ExitInvalidArgs, "scouteval: cannot read %s (%v)", o.Input, err)
	}

	var filter *opencoding.Filter
	if o.Where != "" {
		if filter, err = opencoding.NewFilter(o.Where); err != nil {
			return exitError(ExitInvalidArgs, "scouteval: --where: %v", err)
		}
	}
	selected, err := opencoding.Select(rows, filter, o.IncludeDropped)
	if err != nil {
		return exitError(ExitInvalidArgs, "scouteval: %v", err)
	}
	if len(selected) == 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "scouteval: no rows selected from %s (%d rows read)\n", o.Input, len(rows))
		return nil
	}

	provider, err := providerFor(cfg)
	if err != nil {
		return err
	}

	logger, runID := scoutlog.ForRun()
	logger.Info("open coding", "input", o.Input, "rows", len(selected), "of", len(rows))
	agent := chat.New(provider, chat.WithModel(cfg.ResolvedModel()))
	results := opencoding.NewLabeler(agent, o.Workers, logger).Label(cmd.Context(), selected)

	if err := opencoding.WriteResults(o.Output, o.Format, results); err != nil {
		return exitError(ExitTotalFailure, "scouteval: failed to save results (%v)", err)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	w := cmd.OutOrStdout()
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	_, _ = bold.Fprintln(w, "Open coding")
	_, _ = fmt.Fprintf(w, "  rows:   %s labeled, %s failed (%d read, %d selected)\n",
		green.Sprint(len(results)-failed), red.Sprint(failed), len(rows), len(selected))
	_, _ = fmt.Fprintf(w, "  saved to %s (run %s)\n", o.Output, runID)

	switch {
	case failed == len(results):
		return exitError(ExitTotalFailure, "scouteval: every assistant call failed")
	case failed > 0:
		return exitError(ExitPartialFailure, "")
	}
	return nil
}
