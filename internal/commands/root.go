package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ghostledger/ghostledger/internal/buildinfo"
	"github.com/ghostledger/ghostledger/internal/config"
	"github.com/ghostledger/ghostledger/internal/logging"
	"github.com/ghostledger/ghostledger/internal/runlog"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ghostledger",
		Short:   "Reconcile restaurant POS sales against the bank",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newReconcileCommand())
	rootCmd.AddCommand(newClassifyCommand())
	rootCmd.AddCommand(newOverrideCommand())

	return rootCmd
}

func absRepo(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}

func newLogger(cfg config.LoggingConfig, w io.Writer) (*logrus.Logger, error) {
	return logging.New(cfg.Level, cfg.Format, w)
}

// appendRunLog records entries, warning instead of failing.
func appendRunLog(root string, entries []runlog.Entry, log logrus.FieldLogger) {
	if err := runlog.Append(root, entries); err != nil {
		log.WithError(err).Warn("failed to write run log")
	}
}

func logEntry(runID, command, action, subject, details string) runlog.Entry {
	return runlog.Entry{
		Timestamp: time.Now(),
		RunID:     runID,
		Command:   command,
		Action:    action,
		Subject:   subject,
		Details:   details,
	}
}
