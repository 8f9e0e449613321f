// Package mcp provides a Model Context Protocol server for docprov.
//
// It exposes the attribution engine as MCP tools over stdio, so agent
// hosts can ask which document sentences support an extracted value and
// how confident the engine is. All tools are read-only.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/docprov/docprov/internal/attrib"
	"github.com/docprov/docprov/internal/classify"
	"github.com/docprov/docprov/internal/domain"
	"github.com/docprov/docprov/internal/ingest"
	"github.com/docprov/docprov/internal/sentence"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Engine  *attrib.Engine
	Table   *domain.Table // nil selects the builtin table
	Version string
}

// NewServer creates a configured MCP server with the docprov tools.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}
	engine := cfg.Engine
	if engine == nil {
		engine = attrib.New(attrib.Config{Table: cfg.Table})
	}
	table := cfg.Table
	if table == nil {
		table = domain.Builtin()
	}

	s := server.NewMCPServer(
		"docprov",
		ver,
		server.WithToolCapabilities(false),
	)

	registerAttributeTool(s, engine)
	registerClassifyTool(s)
	registerDomainsTool(s, table)

	return s
}

func registerAttributeTool(s *server.MCPServer, engine *attrib.Engine) {
	tool := mcp.NewTool("docprov_attribute",
		mcp.WithDescription("Attribute extracted field/value pairs to the document sentences that support them. Returns per-field verbatim context with a calibrated confidence, plus a coverage summary."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("document",
			mcp.Required(),
			mcp.Description("Full document text to attribute against"),
		),
		mcp.WithString("pairs",
			mcp.Required(),
			mcp.Description(`Extracted pairs as JSON: either an array of {"field","value","source","page"} objects or a flat {"Field": "value"} object`),
		),
		mcp.WithString("fields",
			mcp.Description("Comma-separated field-name keywords; only matching fields are attributed (fast mode)"),
		),
		mcp.WithNumber("workers",
			mcp.Description("Worker pool width for batch attribution (default: 4)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		document, err := req.RequireString("document")
		if err != nil {
			return mcp.NewToolResultError("document is required"), nil
		}

		pairsJSON, err := req.RequireString("pairs")
		if err != nil {
			return mcp.NewToolResultError("pairs is required"), nil
		}
		pairs, err := ingest.ParsePairsJSON([]byte(pairsJSON))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid pairs: %v", err)), nil
		}
		if len(pairs) == 0 {
			return mcp.NewToolResultError("pairs is empty"), nil
		}

		opts := attrib.AttributeOptions{}
		if fields, err := req.RequireString("fields"); err == nil && fields != "" {
			for _, f := range strings.Split(fields, ",") {
				if f = strings.TrimSpace(f); f != "" {
					opts.FieldFilter = append(opts.FieldFilter, f)
				}
			}
		}
		if workers, err := req.RequireFloat("workers"); err == nil && int(workers) > 0 {
			opts.Workers = int(workers)
		}

		results := engine.AttributeAll(ctx, sentence.Index(document), pairs, opts)

		payload := struct {
			Results []attrib.ContextResult `json:"results"`
			Summary attrib.Summary         `json:"summary"`
		}{Results: results, Summary: attrib.Summarize(results)}

		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerClassifyTool(s *server.MCPServer) {
	tool := mcp.NewTool("docprov_classify",
		mcp.WithDescription("Classify an extracted value's shape (numeric, code-like, short-text, long-text) and report the attribution threshold that shape gets."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("value",
			mcp.Required(),
			mcp.Description("The extracted value to classify"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		value, err := req.RequireString("value")
		if err != nil {
			return mcp.NewToolResultError("value is required"), nil
		}

		shape := classify.Shape(value)
		payload := struct {
			Value       string  `json:"value"`
			Shape       string  `json:"shape"`
			Threshold   float64 `json:"threshold"`
			FuzzyCutoff float64 `json:"fuzzy_cutoff"`
		}{
			Value:       value,
			Shape:       shape.String(),
			Threshold:   classify.Threshold(shape),
			FuzzyCutoff: classify.FuzzyCutoff(shape),
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerDomainsTool(s *server.MCPServer, table *domain.Table) {
	tool := mcp.NewTool("docprov_domains",
		mcp.WithDescription("List the effective semantic domains with their keywords and anti-pattern phrases."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		type entry struct {
			Keywords     []string `json:"keywords"`
			AntiPatterns []string `json:"anti_patterns,omitempty"`
		}
		out := map[string]entry{}
		for _, name := range table.Domains() {
			out[name] = entry{
				Keywords:     table.Keywords(name),
				AntiPatterns: table.AntiPatterns(name),
			}
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}
