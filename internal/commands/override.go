package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ghostledger/ghostledger/internal/classify"
	"github.com/ghostledger/ghostledger/internal/gitops"
	"github.com/ghostledger/ghostledger/internal/id"
	"github.com/ghostledger/ghostledger/internal/logging"
	"github.com/ghostledger/ghostledger/internal/pipeline"
	"github.com/ghostledger/ghostledger/internal/runlog"
)

func newOverrideCommand() *cobra.Command {
	var (
		repoDir string
		remove  bool
	)

	cmd := &cobra.Command{
		Use:   "override <record-id> [category]",
		Short: "Set or remove the category of one bank line",
		Long: `Set or remove the category of one bank line.

The record ID is the one shown by "ghostledger classify". The category must
exist in categories/categories.csv. With --delete the override is removed
and the line falls back to the automatic classification.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if remove {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := absRepo(repoDir)
			if err != nil {
				return err
			}
			category := ""
			if len(args) > 1 {
				category = args[1]
			}
			return runOverride(root, args[0], category, remove, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "workspace directory")
	cmd.Flags().BoolVar(&remove, "delete", false, "remove the override instead of setting one")

	return cmd
}

func runOverride(root, recordID, category string, remove bool, out io.Writer) error {
	if _, _, err := id.ParseRecord(recordID); err != nil {
		return err
	}

	ws, err := pipeline.Open(root)
	if err != nil {
		return err
	}

	var entry runlog.Entry
	if remove {
		if _, ok := ws.Overrides.Get(recordID); !ok {
			return fmt.Errorf("no override for %s", recordID)
		}
		ws.Overrides.Delete(recordID)
		entry = logEntry("", "override", "delete", recordID, "")
	} else {
		if !ws.Categories.Exists(category) {
			if c, ok := ws.Categories.Match(category); ok {
				return fmt.Errorf("unknown category %q (did you mean %q?)", category, c.Name)
			}
			return fmt.Errorf("unknown category %q", category)
		}
		ws.Overrides.Set(recordID, category)
		entry = logEntry("", "override", "set", recordID, category)
	}

	if err := ws.Overrides.Save(classify.OverridesPath(root)); err != nil {
		return err
	}

	appendRunLog(root, []runlog.Entry{entry}, logging.Discard())

	if gitops.IsRepo(root) {
		rel, err := filepath.Rel(root, classify.OverridesPath(root))
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("override: %s %s %s", entry.Action, recordID, category)
		if _, err := gitops.Commit(root, strings.TrimSpace(msg), gitops.DefaultAuthor, rel); err != nil {
			return err
		}
	}

	if remove {
		fmt.Fprintf(out, "Removed override for %s\n", recordID)
	} else {
		fmt.Fprintf(out, "%s -> %s\n", recordID, category)
	}
	return nil
}
