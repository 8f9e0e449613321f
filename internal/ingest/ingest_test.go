package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadPairsJSONArray(t *testing.T) {
	path := writeFile(t, "pairs.json", `[
  {"field": "Age", "value": "35", "source": "profile.txt", "page": "1"},
  {"field": "Blood_Group", "value": "O+"}
]`)
	pairs, err := LoadPairs(path)
	if err != nil {
		t.Fatalf("LoadPairs: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].Field != "Age" || pairs[0].Source != "profile.txt" || pairs[0].Page != "1" {
		t.Fatalf("metadata lost: %+v", pairs[0])
	}
	if pairs[1].Field != "Blood_Group" || pairs[1].Value != "O+" {
		t.Fatalf("unexpected second pair: %+v", pairs[1])
	}
}

func TestLoadPairsJSONObject(t *testing.T) {
	path := writeFile(t, "pairs.json", `{"Blood_Group": "O+", "Age": "35"}`)
	pairs, err := LoadPairs(path)
	if err != nil {
		t.Fatalf("LoadPairs: %v", err)
	}
	// Object keys sort for deterministic order.
	if len(pairs) != 2 || pairs[0].Field != "Age" || pairs[1].Field != "Blood_Group" {
		t.Fatalf("expected sorted pairs, got %+v", pairs)
	}
}

func TestLoadPairsCSV(t *testing.T) {
	path := writeFile(t, "pairs.csv", "field,value,source\nAge,35,profile.txt\nBlood_Group,O+,\n,skipped,\n")
	pairs, err := LoadPairs(path)
	if err != nil {
		t.Fatalf("LoadPairs: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("blank field rows should be skipped, got %+v", pairs)
	}
	if pairs[0].Source != "profile.txt" {
		t.Fatalf("source column lost: %+v", pairs[0])
	}
}

func TestLoadPairsCSVMissingColumns(t *testing.T) {
	path := writeFile(t, "pairs.csv", "name,amount\nAge,35\n")
	if _, err := LoadPairs(path); err == nil {
		t.Fatal("csv without field/value header should fail")
	}
}

func TestLoadPairsUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "pairs.xml", "<pairs/>")
	if _, err := LoadPairs(path); err == nil {
		t.Fatal("unsupported extension should fail")
	}
}

func TestLoadPairsJSONMalformed(t *testing.T) {
	path := writeFile(t, "pairs.json", `[{"field": `)
	if _, err := LoadPairs(path); err == nil {
		t.Fatal("malformed json should fail")
	}
}

func TestLoadDocumentNormalizesLineEndings(t *testing.T) {
	path := writeFile(t, "doc.txt", "First sentence here.\r\nSecond sentence here.")
	text, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if text != "First sentence here.\nSecond sentence here." {
		t.Fatalf("line endings not normalized: %q", text)
	}
}

func TestLoadDocumentRejectsBinary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.bin")
	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x80}, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadDocument(path); err == nil {
		t.Fatal("invalid utf-8 should be rejected")
	}
}
