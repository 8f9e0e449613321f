package ingest

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// LoadDocument reads the document text, normalizing line endings. Binary
// content is rejected early rather than producing garbage sentences.
func LoadDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !utf8.ValidString(text) {
		return "", fmt.Errorf("document %s is not valid UTF-8 text", path)
	}
	return text, nil
}
