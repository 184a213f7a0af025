package csvutil

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// ProcessorOptions configures CSV processing behavior.
type ProcessorOptions struct {
	// AllowMissing treats a missing or zero-length file as a table with no rows.
	AllowMissing bool
}

// Row is one CSV record addressed by header column name.
type Row struct {
	// Line is the 1-based line number of the record in the file.
	Line   int
	header map[string]int
	values []string
}

// Get returns the value in the named column, or "" if the column is absent.
func (r Row) Get(column string) string {
	i, ok := r.header[column]
	if !ok || i >= len(r.values) {
		return ""
	}
	return r.values[i]
}

// ProcessCSV reads a CSV file with a header row and parses each record into
// type T. The parser receives records keyed by header name, so column order
// in the file does not matter.
func ProcessCSV[T any](filename string, parser func(Row) (T, error), opts ProcessorOptions) ([]T, error) {
	csvFile, err := os.Open(filename)
	if err != nil {
		if opts.AllowMissing && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = csvFile.Close() }()

	fi, err := csvFile.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat CSV file: %w", err)
	}
	if fi.Size() == 0 {
		if opts.AllowMissing {
			return nil, nil
		}
		return nil, fmt.Errorf("CSV file %s is empty", filename)
	}

	reader := csv.NewReader(csvFile)
	reader.FieldsPerRecord = -1

	headerRecord, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	header := make(map[string]int, len(headerRecord))
	for i, name := range headerRecord {
		header[name] = i
	}

	var items []T

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		line, _ := reader.FieldPos(0)
		item, err := parser(Row{Line: line, header: header, values: record})
		if err != nil {
			return nil, fmt.Errorf("invalid record at %s:%d: %w", filename, line, err)
		}

		items = append(items, item)
	}

	return items, nil
}

// WriteCSV replaces filename with a header row followed by records. Lines end
// in CRLF.
func WriteCSV(filename string, header []string, records [][]string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}

	writer := csv.NewWriter(f)
	writer.UseCRLF = true

	if err := writer.Write(header); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := writer.WriteAll(records); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write records: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close CSV file: %w", err)
	}
	return nil
}
