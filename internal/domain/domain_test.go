package domain

import (
	"reflect"
	"testing"
)

func TestDomainsForField(t *testing.T) {
	tbl := Builtin()
	cases := []struct {
		field string
		want  []string
	}{
		{"Age", []string{"age"}},
		{"Blood_Group", []string{"medical"}},
		{"Revenue", []string{"financial"}},
		{"Citizenship", []string{"identity"}},
		{"Technical_Expertise", []string{"technical"}},
		{"Unrelated_Widget", nil},
	}
	for _, tc := range cases {
		got := tbl.DomainsForField(tc.field)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("DomainsForField(%q) = %v, want %v", tc.field, got, tc.want)
		}
	}
}

func TestDetectDomainsSingle(t *testing.T) {
	tbl := Builtin()
	got := tbl.DetectDomains("His O+ blood group is noted in his medical records.")
	if !reflect.DeepEqual(got, []string{"medical"}) {
		t.Fatalf("DetectDomains = %v, want [medical]", got)
	}
}

func TestDetectDomainsMulti(t *testing.T) {
	tbl := Builtin()
	got := tbl.DetectDomains("Born in Jaipur and has O+ blood group.")
	if len(got) < 2 {
		t.Fatalf("expected multi-domain detection, got %v", got)
	}
	want := map[string]bool{"age": true, "medical": true}
	for _, d := range got {
		if !want[d] {
			t.Fatalf("unexpected domain %q in %v", d, got)
		}
	}
}

func TestHasAntiPattern(t *testing.T) {
	tbl := Builtin()

	phrase, ok := tbl.HasAntiPattern("The company's age in the market is 15 years.", []string{"age"})
	if !ok || phrase != "company's age" {
		t.Fatalf("expected company's age anti-pattern, got %q ok=%v", phrase, ok)
	}

	if _, ok := tbl.HasAntiPattern("John is 40 years old.", []string{"age"}); ok {
		t.Fatal("plain age sentence must not trip an anti-pattern")
	}

	// Anti-patterns only apply to the field's own domains.
	if _, ok := tbl.HasAntiPattern("Blood money transactions are prohibited.", []string{"financial"}); ok {
		t.Fatal("medical anti-pattern must not fire for financial domains")
	}
	if _, ok := tbl.HasAntiPattern("Blood money transactions are prohibited.", []string{"medical"}); !ok {
		t.Fatal("expected blood money anti-pattern for the medical domain")
	}
}

func TestFieldWords(t *testing.T) {
	got := FieldWords("Blood_Group")
	if !reflect.DeepEqual(got, []string{"blood", "group"}) {
		t.Fatalf("FieldWords = %v", got)
	}
	if got := FieldWords("ID"); got != nil {
		t.Fatalf("short words should be dropped, got %v", got)
	}
}

func TestTokenizeKeepsCodes(t *testing.T) {
	got := Tokenize("His O+ blood group, recorded 2024.")
	want := []string{"his", "o+", "blood", "group", "recorded", "2024"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
}

func TestMergeOverride(t *testing.T) {
	override := []byte(`
domains:
  medical: [haemoglobin]
  legal: [statute, court, filing]
anti_patterns:
  legal: ["court of public opinion"]
`)
	tbl, err := Merge(override)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	found := false
	for _, kw := range tbl.Keywords("medical") {
		if kw == "haemoglobin" {
			found = true
		}
	}
	if !found {
		t.Fatal("override keyword not merged into medical domain")
	}
	if tbl.Keywords("legal") == nil {
		t.Fatal("new legal domain not added")
	}
	if got := tbl.AntiPatterns("legal"); len(got) != 1 {
		t.Fatalf("legal anti-patterns = %v", got)
	}
	// Builtin entries survive the merge.
	if tbl.Keywords("financial") == nil {
		t.Fatal("builtin financial domain lost in merge")
	}
}

func TestMergeRemovesEmptyDomain(t *testing.T) {
	tbl, err := Merge([]byte("domains:\n  education: []\n"))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if tbl.Keywords("education") != nil {
		t.Fatal("empty override should remove the domain")
	}
}

func TestMergeMalformedYAML(t *testing.T) {
	if _, err := Merge([]byte("domains: [not a map")); err == nil {
		t.Fatal("expected parse error")
	}
}
