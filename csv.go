package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"timelane/layout"
)

// columnIndex locates the configured columns in a header row. Column names
// are matched case-insensitively.
type columnIndex struct {
	names []string // lower-cased header, by position
	id    int
	name  int
	start int
	end   int
}

func newColumnIndex(header []string, cfg Config) (columnIndex, error) {
	idx := columnIndex{names: make([]string, len(header)), id: -1, name: -1, start: -1, end: -1}
	byName := make(map[string]int, len(header))
	for i, col := range header {
		n := strings.ToLower(strings.TrimSpace(col))
		idx.names[i] = n
		if _, dup := byName[n]; !dup {
			byName[n] = i
		}
	}

	lookup := func(col string) int {
		if i, ok := byName[strings.ToLower(strings.TrimSpace(col))]; ok {
			return i
		}
		return -1
	}
	idx.id = lookup(cfg.Columns.ID)
	idx.name = lookup(cfg.Columns.Name)
	idx.start = lookup(cfg.Columns.Start)
	idx.end = lookup(cfg.Columns.End)

	if idx.start < 0 {
		return columnIndex{}, fmt.Errorf("start column '%s' not found. Available columns: %v", cfg.Columns.Start, header)
	}
	if idx.end < 0 {
		return columnIndex{}, fmt.Errorf("end column '%s' not found. Available columns: %v", cfg.Columns.End, header)
	}
	return idx, nil
}

// item converts one record into an item. Columns other than id, name, start
// and end become extension fields keyed by their lower-cased header. A row
// without an ID column value gets a random one.
func (c columnIndex) item(record []string, formats []string) (layout.Item, error) {
	cell := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	it := layout.Item{
		ID:   cell(c.id),
		Name: cell(c.name),
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}

	// Blank dates are left zero; validation reports them as missing.
	if s := cell(c.start); s != "" {
		t, err := parseTimestamp(s, formats)
		if err != nil {
			return layout.Item{}, fmt.Errorf("item %s: start: %w", it.ID, err)
		}
		it.Start = t
	}
	if s := cell(c.end); s != "" {
		t, err := parseTimestamp(s, formats)
		if err != nil {
			return layout.Item{}, fmt.Errorf("item %s: end: %w", it.ID, err)
		}
		it.End = t
	}

	for i, n := range c.names {
		if i == c.id || i == c.name || i == c.start || i == c.end || n == "" {
			continue
		}
		if _, seen := it.Fields[n]; seen {
			continue
		}
		if it.Fields == nil {
			it.Fields = make(map[string]any)
		}
		it.Fields[n] = cell(i)
	}

	return it, nil
}

// parseTimestamp tries each layout in order and returns the first match.
func parseTimestamp(s string, formats []string) (time.Time, error) {
	t, _, err := parseTimestampLayout(s, formats)
	return t, err
}

// parseTimestampLayout is parseTimestamp that also returns the matching layout.
func parseTimestampLayout(s string, formats []string) (time.Time, string, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, format := range formats {
		var t time.Time
		t, err = time.Parse(format, s)
		if err == nil {
			return t, format, nil
		}
	}
	if err == nil {
		err = errors.New("no timestamp formats configured")
	}
	return time.Time{}, "", fmt.Errorf("unable to parse timestamp '%s': %w", s, err)
}

// hasClock reports whether a time layout carries an hour field.
func hasClock(format string) bool {
	return strings.Contains(format, "15") || strings.Contains(format, "3:04")
}

// parseCSV reads timeline items from a CSV file whose first row is a header.
func parseCSV(filename string, cfg Config) ([]layout.Item, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer file.Close()

	return readCSV(file, cfg)
}

func readCSV(r io.Reader, cfg Config) ([]layout.Item, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}
	idx, err := newColumnIndex(header, cfg)
	if err != nil {
		return nil, err
	}

	var items []layout.Item
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		it, err := idx.item(record, cfg.Columns.TimestampFormats)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("error parsing CSV row %d: %w", line, err)
		}
		items = append(items, it)
	}

	return items, nil
}
