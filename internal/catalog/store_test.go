package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/sqlfront/internal/testutil"
	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ukCities = "CREATE EXTERNAL TABLE uk_cities (" +
	"name VARCHAR(100) NOT NULL, " +
	"lat DOUBLE NOT NULL, " +
	"lng DOUBLE NOT NULL)"

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), MemoryPath, testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mustCreate(t *testing.T, sql string) *ast.CreateTable {
	t.Helper()
	node, err := parser.ParseSQL(sql)
	require.NoError(t, err)
	stmt, ok := node.(*ast.CreateTable)
	require.True(t, ok, "expected *ast.CreateTable, got %T", node)
	return stmt
}

func TestStore_OpenClose(t *testing.T) {
	store, err := Open(context.Background(), MemoryPath, nil)
	require.NoError(t, err)
	assert.Equal(t, MemoryPath, store.Path())
	assert.NoError(t, store.Close())
}

func TestStore_Migrate(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	version, err := store.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// Re-running is a no-op.
	require.NoError(t, store.Migrate(ctx))

	for _, table := range []string{"external_tables", "external_columns"} {
		rows, err := store.db.QueryContext(ctx, "SELECT 1 FROM "+table+" LIMIT 1")
		require.NoError(t, err, "table %s does not exist", table)
		_ = rows.Close()
	}
}

func TestStore_RegisterGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	stmt := mustCreate(t, ukCities)

	require.NoError(t, store.Register(ctx, stmt))

	got, err := store.Get(ctx, "uk_cities")
	require.NoError(t, err)
	assert.Equal(t, stmt, got)
	assert.Equal(t, ast.Varchar{Length: 100}, got.Column("name").Type)
}

func TestStore_RegisterPreservesNullability(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	stmt := &ast.CreateTable{
		Name: "t",
		Columns: []*ast.ColumnDef{
			{Name: "a", Type: ast.Double{}, AllowNull: false},
			{Name: "b", Type: ast.Varchar{Length: 3}, AllowNull: true},
		},
	}
	require.NoError(t, store.Register(ctx, stmt))

	got, err := store.Get(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, stmt, got)
}

func TestStore_RegisterErrors(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Register(ctx, mustCreate(t, ukCities)))

	err := store.Register(ctx, mustCreate(t, "CREATE EXTERNAL TABLE uk_cities (a DOUBLE)"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTableExists)
	assert.Contains(t, err.Error(), "uk_cities")

	// The failed registration leaves the original columns in place.
	got, err := store.Get(ctx, "uk_cities")
	require.NoError(t, err)
	assert.Len(t, got.Columns, 3)

	assert.Error(t, store.Register(ctx, nil))
	assert.Error(t, store.Register(ctx, &ast.CreateTable{}))
}

func TestStore_GetNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestStore_List(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	for _, sql := range []string{
		"CREATE EXTERNAL TABLE zeta (a DOUBLE)",
		"CREATE EXTERNAL TABLE alpha (a DOUBLE)",
		"CREATE EXTERNAL TABLE mid (a DOUBLE)",
	} {
		require.NoError(t, store.Register(ctx, mustCreate(t, sql)))
	}

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestStore_Drop(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Register(ctx, mustCreate(t, ukCities)))
	require.NoError(t, store.Drop(ctx, "uk_cities"))

	_, err := store.Get(ctx, "uk_cities")
	assert.ErrorIs(t, err, ErrTableNotFound)

	var columns int
	require.NoError(t, store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM external_columns").Scan(&columns))
	assert.Zero(t, columns, "columns are removed with their table")

	assert.ErrorIs(t, store.Drop(ctx, "uk_cities"), ErrTableNotFound)

	// The name can be registered again after a drop.
	assert.NoError(t, store.Register(ctx, mustCreate(t, ukCities)))
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	store, err := Open(ctx, path, testutil.NewTestLogger(t))
	require.NoError(t, err)
	require.NoError(t, store.Register(ctx, mustCreate(t, ukCities)))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path, testutil.NewTestLogger(t))
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get(ctx, "uk_cities")
	require.NoError(t, err)
	assert.Equal(t, mustCreate(t, ukCities), got)
}

func TestStore_LogsRegistration(t *testing.T) {
	logger, logs := testutil.NewCaptureLogger()
	store, err := Open(context.Background(), MemoryPath, logger)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Register(context.Background(), mustCreate(t, ukCities)))

	out := logs.String()
	assert.Contains(t, out, "catalog opened")
	assert.Contains(t, out, "schema_version=1")
	assert.Contains(t, out, "registered table")
	assert.Contains(t, out, "table=uk_cities")
	assert.Contains(t, out, "columns=3")
}

func TestRelations(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			name: "single relation",
			sql:  "SELECT id FROM customer WHERE id = 1",
			want: []string{"customer"},
		},
		{
			name: "no from clause",
			sql:  "SELECT 1",
			want: []string{},
		},
		{
			name: "nested select",
			sql:  "SELECT a FROM SELECT b FROM orders",
			want: []string{"orders"},
		},
		{
			name: "function relation is ignored",
			sql:  "SELECT a FROM read_csv(x)",
			want: []string{},
		},
		{
			name: "create table has no relations",
			sql:  ukCities,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := parser.ParseSQL(tt.sql)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Relations(node))
		})
	}
}

func TestStore_Resolve(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Register(ctx, mustCreate(t, "CREATE EXTERNAL TABLE customer (id DOUBLE)")))

	node, err := parser.ParseSQL("SELECT id FROM customer")
	require.NoError(t, err)
	res, err := store.Resolve(ctx, node)
	require.NoError(t, err)
	require.Len(t, res.Found, 1)
	assert.Equal(t, "customer", res.Found[0].Name)
	assert.Empty(t, res.Missing)

	node, err = parser.ParseSQL("SELECT id FROM orders")
	require.NoError(t, err)
	res, err = store.Resolve(ctx, node)
	require.NoError(t, err)
	assert.Empty(t, res.Found)
	assert.Equal(t, []string{"orders"}, res.Missing)
}
