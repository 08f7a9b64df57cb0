package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	_ "modernc.org/sqlite"

	"timelane/layout"
)

var (
	errInvalidTable     = errors.New("invalid table name")
	errDatabaseNotFound = errors.New("database not found")
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// itemStore reads timeline items from a SQLite database.
type itemStore struct {
	*sql.DB
}

// openStore opens the SQLite database at dataSourceName.
func openStore(ctx context.Context, dataSourceName string) (*itemStore, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// :memory: databases exist per connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &itemStore{db}, nil
}

// openReadOnly opens an existing database file without creating it or
// allowing writes.
func openReadOnly(ctx context.Context, path string) (*itemStore, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errDatabaseNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat database: %w", err)
	}
	return openStore(ctx, "file:"+path+"?mode=ro")
}

// LoadItems reads every row of table. Columns are mapped the same way as
// CSV headers: the configured id/name/start/end columns fill the item and
// the rest become extension fields. NULL cells read as empty.
func (s *itemStore) LoadItems(ctx context.Context, table string, cfg Config) ([]layout.Item, error) {
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", errInvalidTable, table)
	}

	rows, err := s.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	idx, err := newColumnIndex(cols, cfg)
	if err != nil {
		return nil, err
	}

	cells := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range cells {
		dest[i] = &cells[i]
	}

	var items []layout.Item
	for n := 1; rows.Next(); n++ {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", n, err)
		}
		record := make([]string, len(cells))
		for i, c := range cells {
			record[i] = c.String
		}

		it, err := idx.item(record, cfg.Columns.TimestampFormats)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}

	return items, nil
}
