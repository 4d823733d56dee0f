package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/latest-version-resolver/pkg/config"
	"github.com/m-mizutani/gt"
	"github.com/spf13/pflag"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("repo", "", "")
	flags.String("github-token", "", "")
	flags.String("api-url", "", "")
	flags.Int("per-page", 100, "")
	flags.String("output", "text", "")
	flags.String("github-output", "", "")
	flags.String("require", "", "")
	flags.String("log-level", "info", "")
	flags.String("log-format", "text", "")
	flags.String("log-output", "stderr", "")
	gt.NoError(t, flags.Parse(args))
	return flags
}

func TestLoad(t *testing.T) {
	t.Run("yaml overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.yml")
		gt.NoError(t, os.WriteFile(path, []byte(`
repository: octo/widget
per_page: 50
output: json
require: ">= 1.0"
`), 0o600))

		cfg, err := config.Load(path)
		gt.NoError(t, err)
		gt.V(t, cfg.Repository).Equal("octo/widget")
		gt.V(t, cfg.PerPage).Equal(50)
		gt.V(t, cfg.Output).Equal("json")
		gt.V(t, cfg.Constraint).Equal(">= 1.0")
		gt.V(t, cfg.LogLevel).Equal("info")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yml"))
		gt.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.yml")
		gt.NoError(t, os.WriteFile(path, []byte("per_page: [1"), 0o600))
		_, err := config.Load(path)
		gt.Error(t, err)
	})
}

func TestMergeFlags(t *testing.T) {
	t.Run("explicit flags win", func(t *testing.T) {
		cfg := config.Default()
		cfg.PerPage = 20
		cfg.Output = "json"

		flags := newFlags(t, "--repo", "octo/widget", "--per-page", "10", "--github-token", "secret")
		cfg = config.MergeFlags(cfg, flags)

		gt.V(t, cfg.Repository).Equal("octo/widget")
		gt.V(t, cfg.PerPage).Equal(10)
		gt.V(t, cfg.Token).Equal("secret")
		gt.V(t, cfg.Output).Equal("json")
	})

	t.Run("flag defaults do not clobber file values", func(t *testing.T) {
		cfg := config.Default()
		cfg.Output = "github"
		cfg.LogLevel = "debug"

		cfg = config.MergeFlags(cfg, newFlags(t))
		gt.V(t, cfg.Output).Equal("github")
		gt.V(t, cfg.LogLevel).Equal("debug")
		gt.V(t, cfg.PerPage).Equal(100)
		gt.V(t, cfg.LogOutput).Equal("stderr")
	})

	t.Run("log output flag", func(t *testing.T) {
		cfg := config.MergeFlags(config.Default(), newFlags(t, "--log-output", "/tmp/resolver.log"))
		gt.V(t, cfg.LogOutput).Equal("/tmp/resolver.log")
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"GITHUB_REPOSITORY": "me/fork",
		"GITHUB_API_URL":    "https://ghe.example.com/api/v3",
	}
	getenv := func(key string) string { return env[key] }

	t.Run("file value beats environment", func(t *testing.T) {
		cfg := config.Default()
		cfg.Repository = "octo/widget"

		cfg = config.ApplyEnv(config.MergeFlags(cfg, newFlags(t)), getenv)
		gt.V(t, cfg.Repository).Equal("octo/widget")
		gt.V(t, cfg.BaseURL).Equal("https://ghe.example.com/api/v3")
	})

	t.Run("flag beats file and environment", func(t *testing.T) {
		cfg := config.Default()
		cfg.Repository = "octo/widget"

		cfg = config.ApplyEnv(config.MergeFlags(cfg, newFlags(t, "--repo", "other/project")), getenv)
		gt.V(t, cfg.Repository).Equal("other/project")
	})

	t.Run("environment fills empty fields", func(t *testing.T) {
		cfg := config.ApplyEnv(config.MergeFlags(config.Default(), newFlags(t)), getenv)
		gt.V(t, cfg.Repository).Equal("me/fork")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg := config.Default()
		cfg.Repository = "octo/widget"
		return cfg
	}

	gt.NoError(t, valid().Validate())

	testCases := map[string]func(*config.Config){
		"missing repository": func(c *config.Config) { c.Repository = "" },
		"per page too small": func(c *config.Config) { c.PerPage = 0 },
		"per page too large": func(c *config.Config) { c.PerPage = 101 },
		"unknown output":     func(c *config.Config) { c.Output = "sarif" },
	}
	for name, mutate := range testCases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			err := cfg.Validate()
			gt.Error(t, err)
			gt.True(t, errors.Is(err, config.ErrInvalidConfig))
		})
	}
}
