// Package sqlite appends extracted records to a SQLite table using the pure-Go
// modernc.org/sqlite driver.
//
// The table is created on the first write with one TEXT column per record key.
// Keys seen later are added as new columns. Nested values such as _metadata
// are stored as JSON text.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// ErrInvalidIdentifier is returned for table or column names that cannot be
// used unquoted in SQL.
var ErrInvalidIdentifier = errors.New("sqlite: invalid identifier")

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DefaultTable is used when Open is given an empty table name.
const DefaultTable = "jobs"

// Sink writes one row per record.
type Sink struct {
	db    *sql.DB
	table string

	mu      sync.Mutex
	columns map[string]bool
}

// Open opens (or creates) the database at path.
func Open(ctx context.Context, path, table string) (*Sink, error) {
	if table == "" {
		table = DefaultTable
	}
	if err := validIdentifier(table); err != nil {
		return nil, err
	}

	db, err := openDB(ctx, path)
	if err != nil {
		return nil, err
	}

	s := &Sink{db: db, table: table, columns: map[string]bool{}}
	if err := s.loadColumns(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	return db, nil
}

// Table returns the table name.
func (s *Sink) Table() string {
	return s.table
}

// Write inserts record, creating the table or adding columns as needed.
func (s *Sink) Write(ctx context.Context, record map[string]any) error {
	if len(record) == 0 {
		return nil
	}

	keys := make([]string, 0, len(record))
	for k := range record {
		if err := validIdentifier(k); err != nil {
			return err
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureColumns(ctx, keys); err != nil {
		return err
	}

	args := make([]any, len(keys))
	for i, k := range keys {
		v, err := columnValue(record[k])
		if err != nil {
			return fmt.Errorf("sqlite: column %s: %w", k, err)
		}
		args[i] = v
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(keys)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", s.table, strings.Join(keys, ", "), placeholders) // #nosec G201 -- identifiers are validated
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("sqlite: insert into %s: %w", s.table, err)
	}
	return nil
}

// Query runs query against the sink's database.
func (s *Sink) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	return queryRows(ctx, s.db, query, args...)
}

// Close closes the database.
func (s *Sink) Close() error {
	return s.db.Close()
}

// ensureColumns creates the table on first use and adds unknown columns.
func (s *Sink) ensureColumns(ctx context.Context, keys []string) error {
	if len(s.columns) == 0 {
		defs := make([]string, len(keys))
		for i, k := range keys {
			defs[i] = k + " TEXT"
		}
		stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", s.table, strings.Join(defs, ", ")) // #nosec G201 -- identifiers are validated
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: create table %s: %w", s.table, err)
		}
		for _, k := range keys {
			s.columns[k] = true
		}
		return nil
	}

	for _, k := range keys {
		if s.columns[k] {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", s.table, k) // #nosec G201 -- identifiers are validated
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: add column %s: %w", k, err)
		}
		s.columns[k] = true
	}
	return nil
}

// loadColumns reads the columns of an existing table.
func (s *Sink) loadColumns(ctx context.Context) error {
	rows, err := queryRows(ctx, s.db, fmt.Sprintf("PRAGMA table_info(%s)", s.table))
	if err != nil {
		return err
	}
	for _, row := range rows {
		if name, ok := row["name"].(string); ok {
			s.columns[name] = true
		}
	}
	return nil
}

// columnValue renders a record value as TEXT. nil becomes NULL.
func columnValue(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return val, nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(val), nil
	case json.Number:
		return val.String(), nil
	case fmt.Stringer:
		return val.String(), nil
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	}
}

// Query opens the database at path, runs query and returns every row as a
// map from column name to value. TEXT values come back as strings.
func Query(ctx context.Context, path, query string, args ...any) ([]map[string]any, error) {
	db, err := openDB(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	return queryRows(ctx, db, query, args...)
}

func queryRows(ctx context.Context, db *sql.DB, query string, args ...any) ([]map[string]any, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlite: columns: %w", err)
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: rows: %w", err)
	}
	return out, nil
}

func validIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}
