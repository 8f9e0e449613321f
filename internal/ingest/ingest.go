// Package ingest loads attribution inputs from disk: the document text
// and the extracted field/value pairs. Pair files are auto-detected by
// extension (JSON, CSV, TSV).
package ingest
