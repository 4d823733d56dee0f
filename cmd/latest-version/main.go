package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/latest-version-resolver/pkg/config"
	"github.com/latest-version-resolver/pkg/gate"
	"github.com/latest-version-resolver/pkg/logging"
	"github.com/latest-version-resolver/pkg/reporter"
	"github.com/latest-version-resolver/pkg/resolver"
	"github.com/latest-version-resolver/pkg/vcs"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	errNoVersion       = errors.New("no version could be determined")
	errConstraintUnmet = errors.New("resolved version does not satisfy constraint")
)

func main() {
	cmd := newRootCmd(os.Stdout)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, errNoVersion) || errors.Is(err, errConstraintUnmet) || errors.Is(err, gate.ErrInvalidVersion) {
		return 1
	}
	return 2
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "latest-version",
		Short:         "Resolve the latest valid version tag of a GitHub repository",
		Long:          `Looks up the latest release of a repository and falls back to its tags, printing the highest vMAJOR.MINOR[.PATCH...] tag. Intended for gating release workflows in CI.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, stdout)
		},
	}

	rootCmd.Flags().String("repo", "", "GitHub repo (owner/repo) to inspect (default: config file, then $GITHUB_REPOSITORY)")
	rootCmd.Flags().String("github-token", os.Getenv("GITHUB_TOKEN"), "GitHub token for API access")
	rootCmd.Flags().String("api-url", "", "GitHub API base URL for GitHub Enterprise (default: config file, then $GITHUB_API_URL)")
	rootCmd.Flags().Int("per-page", 100, "Number of tags to inspect (1-100, single page)")
	rootCmd.Flags().String("output", "text", "Output format: text | json | github")
	rootCmd.Flags().String("github-output", os.Getenv("GITHUB_OUTPUT"), "File to append step outputs to")
	rootCmd.Flags().String("require", "", "Fail unless the version satisfies this constraint, e.g. \">= 1.2\"")
	rootCmd.Flags().String("config", config.DefaultPath, "Path to config file")
	rootCmd.Flags().String("log-level", "info", "Log level: debug | info | warn | error")
	rootCmd.Flags().String("log-format", "text", "Log format: text | json")
	rootCmd.Flags().String("log-output", "stderr", "Log destination: stderr | stdout | file path")

	return rootCmd
}

func run(cmd *cobra.Command, stdout io.Writer) error {
	cfg := config.Default()
	cfgPath, _ := cmd.Flags().GetString("config")
	loaded, err := config.Load(cfgPath)
	switch {
	case err == nil:
		cfg = loaded
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config"):
		// no config file in the working directory
	default:
		return err
	}
	cfg = config.MergeFlags(cfg, cmd.Flags())
	cfg = config.ApplyEnv(cfg, os.Getenv)

	if err := logging.Configure(cfg.LogFormat, cfg.LogLevel, cfg.LogOutput); err != nil {
		return err
	}
	ctx := logging.With(cmd.Context(), logging.Default())

	if err := cfg.Validate(); err != nil {
		return err
	}

	ref, err := vcs.ParseRepositoryRef(cfg.Repository)
	if err != nil {
		return err
	}

	ghClient, err := vcs.NewClient(cfg.Token, cfg.BaseURL)
	if err != nil {
		return err
	}

	r := resolver.New(vcs.NewGitHubClient(ghClient), resolver.WithPerPage(cfg.PerPage))
	result := r.Resolve(ctx, ref)

	if err := reporter.New(cfg.Output).Report(stdout, result); err != nil {
		return err
	}
	if cfg.GitHubOutput != "" {
		if err := reporter.AppendGitHubOutput(cfg.GitHubOutput, result); err != nil {
			return err
		}
	}

	if result.Version == "" {
		return fmt.Errorf("%w for %s: %s", errNoVersion, ref, result.Reason)
	}

	ok, err := gate.Check(result.Version, cfg.Constraint)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s does not satisfy %q", errConstraintUnmet, result.Version, cfg.Constraint)
	}
	return nil
}
