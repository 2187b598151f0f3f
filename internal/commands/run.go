package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ghostledger/ghostledger/internal/importer"
	"github.com/ghostledger/ghostledger/internal/pipeline"
	"github.com/ghostledger/ghostledger/internal/report"
	"github.com/ghostledger/ghostledger/internal/runlog"
)

type runOptions struct {
	repoDir  string
	strategy string
	formats  []string
	strict   bool
	archive  bool
	verbose  bool
}

func newRunCommand() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Parse every export, reconcile and write the reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := absRepo(opts.repoDir)
			if err != nil {
				return err
			}
			return runRun(cmd.Context(), root, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.repoDir, "repo", ".", "workspace directory")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "reconciliation strategy: bank-led or sales-led (default from config)")
	cmd.Flags().StringSliceVar(&opts.formats, "format", nil, "output formats: json, csv, xlsx (default from config)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "report numeric fields that had to be coerced")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "move parsed exports to import/processed")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "print every reconciliation line")

	return cmd
}

func runRun(ctx context.Context, root string, opts runOptions, stdout, stderr io.Writer) error {
	ws, err := pipeline.Open(root)
	if err != nil {
		return err
	}
	log, err := newLogger(ws.Config.Logging, stderr)
	if err != nil {
		return err
	}

	rep, err := ws.Execute(ctx, pipeline.Options{Strategy: opts.strategy, Strict: opts.strict, Log: log})
	if err != nil {
		return err
	}

	formats := opts.formats
	if len(formats) == 0 {
		formats = ws.Config.Output.Formats
	}
	paths, err := report.Write(ws.OutputDir(), rep, formats)
	if err != nil {
		return err
	}

	report.WriteSummary(stdout, rep, opts.verbose)
	fmt.Fprintln(stdout)
	for _, p := range paths {
		fmt.Fprintf(stdout, "wrote %s\n", p)
	}

	var entries []runlog.Entry
	for _, s := range rep.Sources {
		entries = append(entries, logEntry(rep.RunID, "run", "parse", s.File,
			fmt.Sprintf("%s: %d records", s.Kind, s.Records)))
	}
	sum := rep.Reconciliation.Summary
	entries = append(entries, logEntry(rep.RunID, "run", "reconcile", rep.Reconciliation.Strategy,
		fmt.Sprintf("%d lines, %d matched, %d partial, %d unmatched", sum.Lines, sum.Matched, sum.Partial, sum.Unmatched)))
	for _, p := range paths {
		entries = append(entries, logEntry(rep.RunID, "run", "write", filepath.Base(p), p))
	}

	if opts.archive {
		archived, err := archive(root, rep)
		if err != nil {
			return err
		}
		for _, name := range archived {
			entries = append(entries, logEntry(rep.RunID, "run", "archive", name, "moved to import/processed"))
		}
	}
	appendRunLog(root, entries, log)

	if n := len(rep.Violations); n > 0 {
		return fmt.Errorf("%d consistency checks failed", n)
	}
	return nil
}

// archive moves the exports a run read from import/ to import/processed/.
// Files pinned elsewhere in the config are left alone.
func archive(root string, rep *report.Report) ([]string, error) {
	files, err := importer.Scan(root)
	if err != nil {
		return nil, err
	}
	read := make(map[string]bool, len(rep.Sources))
	for _, s := range rep.Sources {
		read[s.File] = true
	}

	var moved []string
	for _, f := range files {
		if f.Kind == "" || !read[f.Name] {
			continue
		}
		if err := importer.MarkProcessed(root, f.Name); err != nil {
			return moved, err
		}
		moved = append(moved, f.Name)
	}
	return moved, nil
}
