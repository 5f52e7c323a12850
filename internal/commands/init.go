package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tech-hub161/samity/internal/config"
	"github.com/tech-hub161/samity/internal/gitops"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var name string
	var backend string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new samity data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.dir
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runInit(cmd, absDir, name, backend, useGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "group name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&backend, "backend", "file", "storage backend: file or sqlite")
	cmd.Flags().BoolVar(&useGit, "git", false, "version the data directory with git")

	return cmd
}

func runInit(cmd *cobra.Command, dir, name, backend string, useGit bool) error {
	for _, d := range []string{"", "logs", "exports"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default(name)
	switch backend {
	case "file":
	case "sqlite":
		cfg.Storage.Backend = "sqlite"
		cfg.Storage.Path = "samity.db"
	default:
		return fmt.Errorf("unknown backend %q", backend)
	}
	cfg.Git.AutoCommit = useGit

	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	gitignore := "exports/\n*.csv.tmp\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if useGit {
		if !gitops.IsRepo(dir) {
			if err := gitops.Init(dir); err != nil {
				return err
			}
		}
		if err := gitops.SetIdentity(dir, cfg.Git.AuthorName, cfg.Git.AuthorEmail); err != nil {
			return err
		}
		hash, err := gitops.CommitAll(dir, "init: "+name, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s at %s (%s)\n", name, dir, hash)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s at %s\n", name, dir)
	return nil
}
