// Package config resolves engine settings from the config file,
// environment variables and CLI flags, in ascending precedence. Every
// resolved value records where it came from so `docprov config` can show
// the user why a setting has the value it has.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

// ResolvedValue is a setting plus its provenance: the winning layer and
// the concrete origin (file path, env var name, or flag).
type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

// Int parses the value as an integer, returning def when unset or
// unparseable.
func (v ResolvedValue) Int(def int) int {
	s := strings.TrimSpace(v.Value)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// ResolveOptions carries the CLI-level overrides into resolution.
type ResolveOptions struct {
	ConfigPath string
	CLIEmbed   string
	CLIDomains string
	CLIWorkers int
	CLIMaxCtx  int
}

// ResolvedConfig is the full resolved settings set.
type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	Embed         ResolvedValue `json:"embed"`
	EmbedEndpoint ResolvedValue `json:"embed_endpoint"`
	EmbedAPIKey   ResolvedValue `json:"embed_api_key"`

	Domains         ResolvedValue `json:"domains"`
	MaxContextChars ResolvedValue `json:"max_context_chars"`
	Workers         ResolvedValue `json:"workers"`
}

type fileConfig struct {
	Embed struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		Endpoint string `yaml:"endpoint"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"embed"`
	Domains         string `yaml:"domains"`
	MaxContextChars int    `yaml:"max_context_chars"`
	Workers         int    `yaml:"workers"`
}

// DefaultConfigPath is ~/.docprov/config.yaml.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".docprov", "config.yaml")
}

// ResolveConfig loads the config file (missing file is not an error) and
// layers env vars and CLI flags on top.
func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		if env := strings.TrimSpace(os.Getenv("DOCPROV_CONFIG")); env != "" {
			path = expandUserPath(env)
		} else {
			path = DefaultConfigPath()
		}
	}

	out := ResolvedConfig{ConfigPath: path}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}
	if cfg != nil {
		apply(&out.Embed, embedFlag(cfg.Embed.Provider, cfg.Embed.Model), SourceConfig, path)
		apply(&out.EmbedEndpoint, cfg.Embed.Endpoint, SourceConfig, path)
		apply(&out.EmbedAPIKey, cfg.Embed.APIKey, SourceConfig, path)
		apply(&out.Domains, cfg.Domains, SourceConfig, path)
		if cfg.MaxContextChars > 0 {
			apply(&out.MaxContextChars, strconv.Itoa(cfg.MaxContextChars), SourceConfig, path)
		}
		if cfg.Workers > 0 {
			apply(&out.Workers, strconv.Itoa(cfg.Workers), SourceConfig, path)
		}
	}

	applyEnv(&out.Embed, "DOCPROV_EMBED")
	applyEnv(&out.EmbedEndpoint, "DOCPROV_EMBED_ENDPOINT")
	applyEnv(&out.EmbedAPIKey, "DOCPROV_EMBED_API_KEY")
	applyEnv(&out.Domains, "DOCPROV_DOMAINS")
	applyEnv(&out.MaxContextChars, "DOCPROV_MAX_CONTEXT_CHARS")
	applyEnv(&out.Workers, "DOCPROV_WORKERS")

	apply(&out.Embed, opts.CLIEmbed, SourceCLI, "--embed")
	apply(&out.Domains, opts.CLIDomains, SourceCLI, "--domains")
	if opts.CLIWorkers > 0 {
		apply(&out.Workers, strconv.Itoa(opts.CLIWorkers), SourceCLI, "--workers")
	}
	if opts.CLIMaxCtx > 0 {
		apply(&out.MaxContextChars, strconv.Itoa(opts.CLIMaxCtx), SourceCLI, "--max-context")
	}

	if out.Domains.Value != "" {
		out.Domains.Value = expandUserPath(out.Domains.Value)
	}

	return out, nil
}

// embedFlag composes the file's provider/model fields into the
// "provider/model" form the embed flag parser expects. A provider that
// already carries a slash is passed through unchanged.
func embedFlag(provider, model string) string {
	provider = strings.TrimSpace(provider)
	model = strings.TrimSpace(model)
	if provider == "" {
		return ""
	}
	if model == "" || strings.Contains(provider, "/") {
		return provider
	}
	return provider + "/" + model
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
