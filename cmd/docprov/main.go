package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/docprov/docprov/internal/mcp"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	switch os.Args[1] {
	case "attribute":
		if err := runAttribute(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "domains":
		if err := runDomains(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "config":
		if err := runConfig(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := runMCP(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version", "--version", "-v":
		fmt.Printf("docprov %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runMCP(args []string) error {
	setup, err := parseEngineFlags(args)
	if err != nil {
		return err
	}
	engine, table, _, err := buildEngine(setup)
	if err != nil {
		return err
	}

	srv := mcp.NewServer(mcp.ServerConfig{
		Engine:  engine,
		Table:   table,
		Version: version,
	})
	fmt.Fprintln(os.Stderr, "docprov MCP server listening on stdio")
	return server.ServeStdio(srv)
}

func printUsage() {
	fmt.Printf(`docprov %s — attribute extracted values to their source sentences

Usage:
  docprov <command> [arguments]

Commands:
  attribute   Attribute field/value pairs against a document
  domains     Print the effective semantic domain tables
  config      Show resolved configuration and where each value came from
  mcp         Serve the engine as an MCP server over stdio
  version     Print version

Attribute Flags:
  --doc <file>         Document text file (required)
  --pairs <file>       Extracted pairs, .json/.csv/.tsv (required)
  --format <fmt>       Output format: json (default), csv, xlsx
  --out <file>         Write output to a file instead of stdout
  --fields <a,b>       Only attribute fields matching these keywords
  --workers <n>        Worker pool width for batch attribution
  --max-context <n>    Context length budget in characters
  --embed <prov/model> Enable embedding-assisted scoring
  --domains <file>     YAML domain-table override
  --config <file>      Config file path (default ~/.docprov/config.yaml)

Environment:
  DOCPROV_CONFIG, DOCPROV_EMBED, DOCPROV_EMBED_ENDPOINT,
  DOCPROV_EMBED_API_KEY, DOCPROV_DOMAINS
`, version)
}
