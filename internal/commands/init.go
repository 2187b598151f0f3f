package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ghostledger/ghostledger/internal/categories"
	"github.com/ghostledger/ghostledger/internal/classify"
	"github.com/ghostledger/ghostledger/internal/config"
	"github.com/ghostledger/ghostledger/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var (
		name   string
		useGit bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ghostledger workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := absRepo(dir)
			if err != nil {
				return err
			}

			if err := runInit(absDir, name); err != nil {
				return err
			}
			if !useGit {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized ghostledger workspace at %s\n", absDir)
				return nil
			}

			if err := gitops.Init(absDir); err != nil {
				return err
			}
			hash, err := gitops.Commit(absDir, "init: Initialize "+name, gitops.DefaultAuthor)
			if err != nil {
				return fmt.Errorf("initial commit: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized ghostledger workspace at %s (%s)\n", absDir, hash)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	cmd.Flags().BoolVar(&useGit, "git", false, "initialize a git repository and commit the workspace")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runInit(dir, name string) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	// Create directory structure.
	dirs := []string{
		"categories",
		"rules",
		"logs",
		"exports",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write ghostledger.yaml.
	cfg := config.Default(name)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the category vocabulary.
	if err := categories.NewService(categories.Default()).Save(dir); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}

	// Write the keyword rules and an empty override file.
	if err := classify.SaveRules(classify.RulesPath(dir), classify.DefaultRules()); err != nil {
		return err
	}
	if err := classify.NewOverrides().Save(classify.OverridesPath(dir)); err != nil {
		return err
	}

	// Write .gitignore.
	gitignore := "exports/\nlogs/\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	return nil
}
