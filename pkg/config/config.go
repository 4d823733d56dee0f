package config

import (
	"errors"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const DefaultPath = ".latest-version.yml"

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Repository   string `yaml:"repository"`
	BaseURL      string `yaml:"api_url"`
	PerPage      int    `yaml:"per_page"`
	Output       string `yaml:"output"`
	Constraint   string `yaml:"require"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
	LogOutput    string `yaml:"log_output"`
	Token        string `yaml:"-"`
	GitHubOutput string `yaml:"-"`
}

func Default() *Config {
	return &Config{
		PerPage:   100,
		Output:    "text",
		LogLevel:  "info",
		LogFormat: "text",
		LogOutput: "stderr",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}
	return cfg, nil
}

// MergeFlags overrides cfg with flag values. Non-empty string flags always
// win; per-page only when set explicitly.
func MergeFlags(cfg *Config, flags *pflag.FlagSet) *Config {
	if v, err := flags.GetString("repo"); err == nil && v != "" {
		cfg.Repository = v
	}
	if v, err := flags.GetString("github-token"); err == nil && v != "" {
		cfg.Token = v
	}
	if v, err := flags.GetString("api-url"); err == nil && v != "" {
		cfg.BaseURL = v
	}
	if v, err := flags.GetInt("per-page"); err == nil && flags.Changed("per-page") {
		cfg.PerPage = v
	}
	if v, err := flags.GetString("output"); err == nil && flags.Changed("output") {
		cfg.Output = v
	}
	if v, err := flags.GetString("github-output"); err == nil && v != "" {
		cfg.GitHubOutput = v
	}
	if v, err := flags.GetString("require"); err == nil && v != "" {
		cfg.Constraint = v
	}
	if v, err := flags.GetString("log-level"); err == nil && flags.Changed("log-level") {
		cfg.LogLevel = v
	}
	if v, err := flags.GetString("log-format"); err == nil && flags.Changed("log-format") {
		cfg.LogFormat = v
	}
	if v, err := flags.GetString("log-output"); err == nil && flags.Changed("log-output") {
		cfg.LogOutput = v
	}
	return cfg
}

// ApplyEnv fills fields still empty after the file and flags were applied,
// so precedence is flag > file > environment. GitHub Actions always sets
// GITHUB_REPOSITORY to the workflow's own repository.
func ApplyEnv(cfg *Config, getenv func(string) string) *Config {
	if cfg.Repository == "" {
		cfg.Repository = getenv("GITHUB_REPOSITORY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = getenv("GITHUB_API_URL")
	}
	return cfg
}

var outputFormats = map[string]bool{
	"text":   true,
	"json":   true,
	"github": true,
}

func (c *Config) Validate() error {
	if c.Repository == "" {
		return goerr.Wrap(ErrInvalidConfig, "repository is required (--repo or GITHUB_REPOSITORY)")
	}
	if c.PerPage < 1 || c.PerPage > 100 {
		return goerr.Wrap(ErrInvalidConfig, "per_page must be between 1 and 100", goerr.V("per_page", c.PerPage))
	}
	if !outputFormats[c.Output] {
		return goerr.Wrap(ErrInvalidConfig, "output must be text, json or github", goerr.V("output", c.Output))
	}
	return nil
}
