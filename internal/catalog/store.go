// Package catalog keeps the external tables declared with CREATE EXTERNAL TABLE
// in a SQLite database.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/format"
	"github.com/leapstack-labs/sqlfront/pkg/parser"

	// pure Go sqlite driver, registered as "sqlite".
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory catalog.
const MemoryPath = ":memory:"

var (
	// ErrTableExists is returned when registering a name that is already taken.
	ErrTableExists = errors.New("table already exists")
	// ErrTableNotFound is returned when a table is not registered.
	ErrTableNotFound = errors.New("table not found")
)

// Store is a SQLite-backed table catalog.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens the catalog at path and applies pending migrations.
// Use MemoryPath for an in-memory catalog.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	// A single connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping catalog database: %w", err)
	}

	s := New(db, logger)
	s.path = path
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	version, err := s.Version(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Debug("catalog opened", "path", path, "schema_version", version)

	return s, nil
}

// New wraps an existing connection without running migrations.
func New(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{db: db, logger: logger}
}

// Path returns the path the catalog was opened with.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Register stores a table definition with its columns in one transaction.
func (s *Store) Register(ctx context.Context, stmt *ast.CreateTable) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if stmt == nil || stmt.Name == "" {
		return fmt.Errorf("table definition has no name")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM external_tables WHERE name = ?)`, stmt.Name,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check table %s: %w", stmt.Name, err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrTableExists, stmt.Name)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO external_tables (name, definition) VALUES (?, ?)`,
		stmt.Name, format.SQL(stmt),
	); err != nil {
		return fmt.Errorf("failed to insert table %s: %w", stmt.Name, err)
	}

	for i, col := range stmt.Columns {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO external_columns (table_name, position, name, data_type, allow_null) VALUES (?, ?, ?, ?, ?)`,
			stmt.Name, i, col.Name, format.DataType(col.Type), col.AllowNull,
		); err != nil {
			return fmt.Errorf("failed to insert column %s: %w", col.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit table %s: %w", stmt.Name, err)
	}

	s.logger.Debug("registered table", "table", stmt.Name, "columns", len(stmt.Columns))
	return nil
}

// Get loads a table definition by name.
func (s *Store) Get(ctx context.Context, name string) (*ast.CreateTable, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	var found string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM external_tables WHERE name = ?`, name,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get table %s: %w", name, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, data_type, allow_null FROM external_columns WHERE table_name = ? ORDER BY position`, name,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	stmt := &ast.CreateTable{Name: found}
	for rows.Next() {
		var (
			colName   string
			dataType  string
			allowNull bool
		)
		if err := rows.Scan(&colName, &dataType, &allowNull); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		dt, err := parser.ParseDataType(dataType)
		if err != nil {
			return nil, fmt.Errorf("column %s.%s has invalid type %q: %w", name, colName, dataType, err)
		}
		stmt.Columns = append(stmt.Columns, &ast.ColumnDef{
			Name:      colName,
			Type:      dt,
			AllowNull: allowNull,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read columns for %s: %w", name, err)
	}

	return stmt, nil
}

// List returns registered table names in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM external_tables ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return names, nil
}

// Drop removes a table and its columns.
func (s *Store) Drop(ctx context.Context, name string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM external_tables WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}

	s.logger.Debug("dropped table", "table", name)
	return nil
}
