package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/docprov/docprov/internal/attrib"
	"github.com/docprov/docprov/internal/config"
	"github.com/docprov/docprov/internal/domain"
	"github.com/docprov/docprov/internal/embed"
	"github.com/docprov/docprov/internal/export"
	"github.com/docprov/docprov/internal/ingest"
	"github.com/docprov/docprov/internal/sentence"
)

// engineSetup carries the flags shared by every command that builds an
// engine: config file, embedding provider, domain-table override.
type engineSetup struct {
	configPath  string
	embedFlag   string
	domainsPath string
	workers     int
	maxCtx      int
}

func runAttribute(args []string) error {
	var (
		setup     engineSetup
		docPath   string
		pairsPath string
		format    string
		outPath   string
		fieldsCSV string
	)

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--doc" && i+1 < len(args):
			i++
			docPath = args[i]
		case args[i] == "--pairs" && i+1 < len(args):
			i++
			pairsPath = args[i]
		case args[i] == "--format" && i+1 < len(args):
			i++
			format = args[i]
		case args[i] == "--out" && i+1 < len(args):
			i++
			outPath = args[i]
		case args[i] == "--fields" && i+1 < len(args):
			i++
			fieldsCSV = args[i]
		case args[i] == "--workers" && i+1 < len(args):
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid --workers value %q", args[i])
			}
			setup.workers = n
		case args[i] == "--max-context" && i+1 < len(args):
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 1 {
				return fmt.Errorf("invalid --max-context value %q", args[i])
			}
			setup.maxCtx = n
		case args[i] == "--embed" && i+1 < len(args):
			i++
			setup.embedFlag = args[i]
		case args[i] == "--domains" && i+1 < len(args):
			i++
			setup.domainsPath = args[i]
		case args[i] == "--config" && i+1 < len(args):
			i++
			setup.configPath = args[i]
		case strings.HasPrefix(args[i], "-"):
			return fmt.Errorf("unknown flag: %s", args[i])
		default:
			return fmt.Errorf("unexpected argument: %s", args[i])
		}
	}

	if docPath == "" || pairsPath == "" {
		return fmt.Errorf("usage: docprov attribute --doc <file> --pairs <file> [--format json|csv|xlsx]")
	}

	outFormat, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	text, err := ingest.LoadDocument(docPath)
	if err != nil {
		return fmt.Errorf("loading document: %w", err)
	}
	pairs, err := ingest.LoadPairs(pairsPath)
	if err != nil {
		return fmt.Errorf("loading pairs: %w", err)
	}
	if len(pairs) == 0 {
		return fmt.Errorf("no pairs found in %s", pairsPath)
	}

	engine, _, resolved, err := buildEngine(setup)
	if err != nil {
		return err
	}

	opts := attrib.AttributeOptions{Workers: resolved.Workers.Int(0)}
	if fieldsCSV != "" {
		for _, f := range strings.Split(fieldsCSV, ",") {
			if f = strings.TrimSpace(f); f != "" {
				opts.FieldFilter = append(opts.FieldFilter, f)
			}
		}
	}

	results := engine.AttributeAll(context.Background(), sentence.Index(text), pairs, opts)

	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		w = f
	}
	if err := export.Write(w, outFormat, results); err != nil {
		return err
	}

	s := attrib.Summarize(results)
	fmt.Fprintf(os.Stderr, "%d/%d fields attributed (%.1f%% coverage, %d recovered)\n",
		s.FieldsWithContext, s.TotalFields, s.CoveragePct, s.Recovered)
	return nil
}

func runDomains(args []string) error {
	setup, err := parseEngineFlags(args)
	if err != nil {
		return err
	}
	_, table, _, err := buildEngine(setup)
	if err != nil {
		return err
	}

	out := struct {
		Domains      map[string][]string `yaml:"domains"`
		AntiPatterns map[string][]string `yaml:"anti_patterns"`
	}{
		Domains:      map[string][]string{},
		AntiPatterns: map[string][]string{},
	}
	for _, name := range table.Domains() {
		out.Domains[name] = table.Keywords(name)
		if ap := table.AntiPatterns(name); len(ap) > 0 {
			out.AntiPatterns[name] = ap
		}
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runConfig(args []string) error {
	setup, err := parseEngineFlags(args)
	if err != nil {
		return err
	}
	resolved, err := config.ResolveConfig(config.ResolveOptions{
		ConfigPath: setup.configPath,
		CLIEmbed:   setup.embedFlag,
		CLIDomains: setup.domainsPath,
	})
	if err != nil {
		return err
	}

	fmt.Printf("config file: %s\n\n", resolved.ConfigPath)
	printValue := func(name string, v config.ResolvedValue) {
		if v.Value == "" {
			fmt.Printf("  %-18s (unset)\n", name)
			return
		}
		value := v.Value
		if name == "embed_api_key" {
			value = "****"
		}
		fmt.Printf("  %-18s %-40s [%s: %s]\n", name, value, v.Source, v.From)
	}
	printValue("embed", resolved.Embed)
	printValue("embed_endpoint", resolved.EmbedEndpoint)
	printValue("embed_api_key", resolved.EmbedAPIKey)
	printValue("domains", resolved.Domains)
	printValue("max_context_chars", resolved.MaxContextChars)
	printValue("workers", resolved.Workers)
	return nil
}

// parseEngineFlags handles the engine-setup flags for commands that take
// nothing else.
func parseEngineFlags(args []string) (engineSetup, error) {
	var setup engineSetup
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--embed" && i+1 < len(args):
			i++
			setup.embedFlag = args[i]
		case args[i] == "--domains" && i+1 < len(args):
			i++
			setup.domainsPath = args[i]
		case args[i] == "--config" && i+1 < len(args):
			i++
			setup.configPath = args[i]
		case strings.HasPrefix(args[i], "-"):
			return setup, fmt.Errorf("unknown flag: %s", args[i])
		default:
			return setup, fmt.Errorf("unexpected argument: %s", args[i])
		}
	}
	return setup, nil
}

// buildEngine resolves configuration and assembles the attribution
// engine, the effective domain table and the resolved config.
func buildEngine(setup engineSetup) (*attrib.Engine, *domain.Table, config.ResolvedConfig, error) {
	resolved, err := config.ResolveConfig(config.ResolveOptions{
		ConfigPath: setup.configPath,
		CLIEmbed:   setup.embedFlag,
		CLIDomains: setup.domainsPath,
		CLIWorkers: setup.workers,
		CLIMaxCtx:  setup.maxCtx,
	})
	if err != nil {
		return nil, nil, resolved, err
	}

	table := domain.Builtin()
	if resolved.Domains.Value != "" {
		table, err = domain.LoadFile(resolved.Domains.Value)
		if err != nil {
			return nil, nil, resolved, fmt.Errorf("loading domain table: %w", err)
		}
	}

	var embedder embed.Embedder
	if resolved.Embed.Value != "" {
		cfg, err := embed.ParseFlag(resolved.Embed.Value)
		if err != nil {
			return nil, nil, resolved, err
		}
		if resolved.EmbedEndpoint.Value != "" {
			cfg.Endpoint = resolved.EmbedEndpoint.Value
		}
		if resolved.EmbedAPIKey.Value != "" {
			cfg.APIKey = resolved.EmbedAPIKey.Value
		}
		if err := cfg.Validate(); err != nil {
			return nil, nil, resolved, fmt.Errorf("embedding config: %w", err)
		}
		client, err := embed.NewClient(cfg)
		if err != nil {
			return nil, nil, resolved, err
		}
		embedder = client
	}

	engine := attrib.New(attrib.Config{
		Table:           table,
		Embedder:        embedder,
		MaxContextChars: resolved.MaxContextChars.Int(0),
	})
	return engine, table, resolved, nil
}
