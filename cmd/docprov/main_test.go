package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docprov/docprov/internal/attrib"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DOCPROV_CONFIG", "DOCPROV_EMBED", "DOCPROV_EMBED_ENDPOINT",
		"DOCPROV_EMBED_API_KEY", "DOCPROV_DOMAINS",
		"DOCPROV_MAX_CONTEXT_CHARS", "DOCPROV_WORKERS",
	} {
		t.Setenv(key, "")
	}
}

func TestParseEngineFlags(t *testing.T) {
	setup, err := parseEngineFlags([]string{"--embed", "ollama/nomic-embed-text", "--config", "/tmp/c.yaml"})
	if err != nil {
		t.Fatalf("parseEngineFlags: %v", err)
	}
	if setup.embedFlag != "ollama/nomic-embed-text" || setup.configPath != "/tmp/c.yaml" {
		t.Fatalf("unexpected setup: %+v", setup)
	}

	if _, err := parseEngineFlags([]string{"--bogus"}); err == nil {
		t.Fatal("unknown flag should fail")
	}
	if _, err := parseEngineFlags([]string{"stray"}); err == nil {
		t.Fatal("stray argument should fail")
	}
}

func TestRunAttributeRequiresInputs(t *testing.T) {
	clearEnv(t)
	if err := runAttribute(nil); err == nil {
		t.Fatal("missing --doc/--pairs should fail")
	}
	if err := runAttribute([]string{"--doc", "only.txt"}); err == nil {
		t.Fatal("missing --pairs should fail")
	}
	if err := runAttribute([]string{"--workers", "zero"}); err == nil {
		t.Fatal("non-numeric --workers should fail")
	}
}

func TestRunAttributeEndToEnd(t *testing.T) {
	clearEnv(t)
	tmp := t.TempDir()

	docPath := filepath.Join(tmp, "doc.txt")
	doc := "Lokesh Kumar was born in Jaipur in 1989, making him 35 years old. His blood group is O+."
	if err := os.WriteFile(docPath, []byte(doc), 0o600); err != nil {
		t.Fatalf("write doc: %v", err)
	}

	pairsPath := filepath.Join(tmp, "pairs.json")
	pairs := `[{"field": "Age", "value": "35"}, {"field": "Blood_Group", "value": "O+"}]`
	if err := os.WriteFile(pairsPath, []byte(pairs), 0o600); err != nil {
		t.Fatalf("write pairs: %v", err)
	}

	outPath := filepath.Join(tmp, "out.json")
	err := runAttribute([]string{
		"--doc", docPath,
		"--pairs", pairsPath,
		"--out", outPath,
		"--config", filepath.Join(tmp, "no-config.yaml"),
	})
	if err != nil {
		t.Fatalf("runAttribute: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var payload struct {
		Results []attrib.ContextResult `json:"results"`
		Summary attrib.Summary         `json:"summary"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(payload.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(payload.Results))
	}
	if !strings.Contains(payload.Results[0].Context, "35 years old") {
		t.Fatalf("Age attribution missing: %+v", payload.Results[0])
	}
	if payload.Summary.FieldsWithContext != 2 {
		t.Fatalf("unexpected summary: %+v", payload.Summary)
	}
}

func TestBuildEngineRejectsBadEmbedFlag(t *testing.T) {
	clearEnv(t)
	_, _, _, err := buildEngine(engineSetup{
		configPath: filepath.Join(t.TempDir(), "no-config.yaml"),
		embedFlag:  "noslash",
	})
	if err == nil {
		t.Fatal("malformed embed flag should fail")
	}
}
