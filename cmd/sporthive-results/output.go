package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Sternrassler/sporthive-results/pkg/results"
)

// writeRecords creates path, including missing parent directories, and
// writes records in format.
func writeRecords(path, format string, records []results.AthleteRecord, withSplits bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := encodeRecords(f, format, records, withSplits); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}

func encodeRecords(w io.Writer, format string, records []results.AthleteRecord, withSplits bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case "csv":
		return results.ToTable(records, withSplits).WriteCSV(w)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
