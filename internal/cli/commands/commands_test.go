package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlfront/internal/catalog"
	"github.com/leapstack-labs/sqlfront/internal/cli/config"
	clitest "github.com/leapstack-labs/sqlfront/internal/cli/testutil"
	"github.com/leapstack-labs/sqlfront/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs cmd with cfg and a test logger on its context.
func execute(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	ctx := config.WithConfig(context.Background(), cfg)
	ctx = config.WithLogger(ctx, testutil.NewTestLogger(t))
	err := cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func testConfig(t *testing.T, mode string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.OutputFormat = mode
	cfg.CatalogPath = filepath.Join(t.TempDir(), "catalog", "catalog.db")
	return cfg
}

func TestTokensCommand_JSON(t *testing.T) {
	out, _, err := execute(t, NewTokensCommand(), testConfig(t, "json"), "SELECT a FROM t WHERE a <= 10;")
	require.NoError(t, err)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 8)
	assert.Equal(t, map[string]string{"#": "0", "Type": "SELECT", "Literal": "SELECT"}, rows[0])
	assert.Equal(t, map[string]string{"#": "1", "Type": "IDENT", "Literal": "a"}, rows[1])
	assert.Equal(t, "<=", rows[6]["Type"])
	assert.Equal(t, map[string]string{"#": "7", "Type": "NUMBER", "Literal": "10"}, rows[7])
}

func TestTokensCommand_Markdown(t *testing.T) {
	out, _, err := execute(t, NewTokensCommand(), testConfig(t, "auto"), "SELECT sqrt(x)")
	require.NoError(t, err)

	clitest.AssertNoANSI(t, out)
	clitest.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "| Type")
	assert.Contains(t, out, "sqrt")
}

func TestTokensCommand_Stdin(t *testing.T) {
	cmd := NewTokensCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader("SELECT 1;\n"))
	cmd.SetArgs(nil)
	require.NoError(t, cmd.ExecuteContext(config.WithConfig(context.Background(), testConfig(t, "json"))))

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	assert.Len(t, rows, 2)
}

func TestTokensCommand_InputFile(t *testing.T) {
	path := clitest.WriteSQLFile(t, "q.sql", "SELECT a\nFROM t\n")

	out, _, err := execute(t, NewTokensCommand(), testConfig(t, "json"), "--input", path)
	require.NoError(t, err)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Len(t, rows, 4)
}

func TestTokensCommand_Errors(t *testing.T) {
	_, _, err := execute(t, NewTokensCommand(), testConfig(t, "json"))
	assert.ErrorIs(t, err, errNoInput)

	_, _, err = execute(t, NewTokensCommand(), testConfig(t, "json"), "SELECT #")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lexer error")

	_, _, err = execute(t, NewTokensCommand(), testConfig(t, "json"), "--input", filepath.Join(t.TempDir(), "missing.sql"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestParseCommand_Text(t *testing.T) {
	out, _, err := execute(t, NewParseCommand(), testConfig(t, "text"), "SELECT a FROM t WHERE a > 1 LIMIT 5")
	require.NoError(t, err)

	expected := `Select
  projection: Identifier a
  relation: Identifier t
  selection: BinaryExpr >
    left: Identifier a
    right: LiteralInt 1
  limit: LiteralInt 5
`
	assert.Equal(t, expected, out)
}

func TestParseCommand_Structured(t *testing.T) {
	out, _, err := execute(t, NewParseCommand(), testConfig(t, "json"), "SELECT f(a, 1)")
	require.NoError(t, err)

	var tree TreeNode
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	assert.Equal(t, "Select", tree.Kind)
	require.Len(t, tree.Children, 1)
	fn := tree.Children[0]
	assert.Equal(t, "Function", fn.Kind)
	assert.Equal(t, "projection", fn.Field)
	assert.Equal(t, "f", fn.Value)
	require.Len(t, fn.Children, 2)
	assert.Equal(t, "arg", fn.Children[1].Field)

	out, _, err = execute(t, NewParseCommand(), testConfig(t, "yaml"), "CREATE EXTERNAL TABLE t (a DOUBLE)")
	require.NoError(t, err)
	assert.Contains(t, out, "kind: CreateTable")
	assert.Contains(t, out, "type: DOUBLE")
	assert.Contains(t, out, "nullable: true")
}

func TestParseCommand_Markdown(t *testing.T) {
	out, _, err := execute(t, NewParseCommand(), testConfig(t, "markdown"), "SELECT a")
	require.NoError(t, err)

	clitest.AssertValidMarkdown(t, out)
	assert.Equal(t, "```\nSelect\n  projection: Identifier a\n```\n", out)
}

func TestParseCommand_Files(t *testing.T) {
	a := clitest.WriteSQLFile(t, "a.sql", "SELECT a FROM t;\n")
	b := clitest.WriteSQLFile(t, "b.sql", "CREATE EXTERNAL TABLE t (a DOUBLE)")
	c := clitest.WriteSQLFile(t, "c.sql", "SELECT 1")

	out, _, err := execute(t, NewParseCommand(), testConfig(t, "json"), "-f", a, "-f", b, "--file", c)
	require.NoError(t, err)

	var results []ParseResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 3)
	assert.Equal(t, a, results[0].Source)
	assert.Equal(t, "Select", results[0].AST.Kind)
	assert.Equal(t, b, results[1].Source)
	assert.Equal(t, "CreateTable", results[1].AST.Kind)
	assert.Equal(t, c, results[2].Source)

	out, _, err = execute(t, NewParseCommand(), testConfig(t, "markdown"), "-f", a, "-f", c)
	require.NoError(t, err)
	clitest.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "## "+a)
	assert.Less(t, strings.Index(out, a), strings.Index(out, c))
}

func TestParseCommand_FileErrors(t *testing.T) {
	good := clitest.WriteSQLFile(t, "good.sql", "SELECT 1")
	bad := clitest.WriteSQLFile(t, "bad.sql", "SELECT FROM")

	_, _, err := execute(t, NewParseCommand(), testConfig(t, "json"), "-f", good, "-f", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
	assert.Contains(t, err.Error(), "no prefix parser for keyword FROM")

	_, _, err = execute(t, NewParseCommand(), testConfig(t, "json"), "-f", good, "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--file cannot be combined")
}

func TestFmtCommand(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		args     []string
		expected string
	}{
		{
			name:     "pretty",
			mode:     "text",
			args:     []string{"SELECT a,b FROM t WHERE a>1"},
			expected: "SELECT\n  a,\n  b\nFROM t\nWHERE\n  a > 1\n",
		},
		{
			name:     "compact",
			mode:     "text",
			args:     []string{"--compact", "SELECT a,b FROM t WHERE a>1;"},
			expected: "SELECT a, b FROM t WHERE a > 1\n",
		},
		{
			name:     "markdown",
			mode:     "markdown",
			args:     []string{"--compact", "SELECT 1"},
			expected: "```sql\nSELECT 1\n```\n",
		},
		{
			name:     "json",
			mode:     "json",
			args:     []string{"SELECT a FROM t LIMIT ALL"},
			expected: "{\n  \"sql\": \"SELECT a FROM t\"\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, NewFmtCommand(), testConfig(t, tt.mode), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestExecCommand(t *testing.T) {
	cfg := testConfig(t, "json")

	out, _, err := execute(t, NewExecCommand(), cfg, "CREATE EXTERNAL TABLE users (id DOUBLE, name VARCHAR(64));")
	require.NoError(t, err)
	assert.JSONEq(t, `{"registered": "users", "columns": 2}`, out)

	_, _, err = execute(t, NewExecCommand(), cfg, "CREATE EXTERNAL TABLE users (id DOUBLE)")
	assert.ErrorIs(t, err, catalog.ErrTableExists)

	out, errOut, err := execute(t, NewExecCommand(), cfg, "SELECT id FROM users")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"Relation": "users", "Registered": "yes", "Columns": "id, name"}]`, out)
	assert.Empty(t, errOut)

	out, errOut, err = execute(t, NewExecCommand(), cfg, "SELECT id FROM orders")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"Relation": "orders", "Registered": "no", "Columns": ""}]`, out)
	assert.Contains(t, errOut, "relation orders is not registered")

	out, _, err = execute(t, NewExecCommand(), cfg, "SELECT 1")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestExecCommand_Text(t *testing.T) {
	cfg := testConfig(t, "text")

	out, _, err := execute(t, NewExecCommand(), cfg, "CREATE EXTERNAL TABLE t (a DOUBLE)")
	require.NoError(t, err)
	assert.Equal(t, "Registered external table t (1 columns)\n", out)

	out, _, err = execute(t, NewExecCommand(), cfg, "SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, "(no relations referenced)\n", out)

	out, _, err = execute(t, NewExecCommand(), cfg, "SELECT a FROM t")
	require.NoError(t, err)
	clitest.AssertNoANSI(t, out)
	assert.Contains(t, out, "RELATION")
	assert.Contains(t, out, "(1 rows)")
}

func TestExecCommand_Errors(t *testing.T) {
	cfg := testConfig(t, "json")

	_, _, err := execute(t, NewExecCommand(), cfg, "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected a SELECT or CREATE EXTERNAL TABLE statement")

	_, _, err = execute(t, NewExecCommand(), cfg, "CREATE TABLE t (a DOUBLE)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected token after CREATE")
}

func TestTablesCommand(t *testing.T) {
	cfg := testConfig(t, "json")

	out, _, err := execute(t, NewTablesCommand(), cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)

	for _, q := range []string{
		"CREATE EXTERNAL TABLE b (x DOUBLE)",
		"CREATE EXTERNAL TABLE a (id DOUBLE, name VARCHAR(10))",
	} {
		_, _, err := execute(t, NewExecCommand(), cfg, q)
		require.NoError(t, err)
	}

	out, _, err = execute(t, NewTablesCommand(), cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `["a", "b"]`, out)

	out, _, err = execute(t, NewTablesCommand(), cfg, "a")
	require.NoError(t, err)
	var info TableInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "a", info.Name)
	assert.Equal(t, []ColumnInfo{
		{Name: "id", Type: "DOUBLE", Nullable: true},
		{Name: "name", Type: "VARCHAR(10)", Nullable: true},
	}, info.Columns)
	assert.Equal(t, "CREATE EXTERNAL TABLE a (id DOUBLE, name VARCHAR(10))", info.Definition)

	_, _, err = execute(t, NewTablesCommand(), cfg, "missing")
	assert.ErrorIs(t, err, catalog.ErrTableNotFound)

	out, _, err = execute(t, NewTablesCommand(), cfg, "drop", "b")
	require.NoError(t, err)
	assert.JSONEq(t, `{"dropped": "b"}`, out)

	_, _, err = execute(t, NewTablesCommand(), cfg, "drop", "b")
	assert.ErrorIs(t, err, catalog.ErrTableNotFound)

	out, _, err = execute(t, NewTablesCommand(), cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `["a"]`, out)
}

func TestTablesCommand_Text(t *testing.T) {
	cfg := testConfig(t, "text")

	out, _, err := execute(t, NewTablesCommand(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "No external tables registered.\n", out)

	_, _, err = execute(t, NewExecCommand(), cfg, "CREATE EXTERNAL TABLE cities (name VARCHAR(100), lat DOUBLE)")
	require.NoError(t, err)

	out, _, err = execute(t, NewTablesCommand(), cfg, "cities")
	require.NoError(t, err)
	clitest.AssertNoANSI(t, out)
	assert.True(t, strings.HasPrefix(out, "cities\n"))
	assert.Contains(t, out, "VARCHAR(100)")
	assert.Contains(t, out, "(2 rows)")
	assert.Contains(t, out, "CREATE EXTERNAL TABLE cities (name VARCHAR(100), lat DOUBLE)")
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewTokensCommand(), "tokens [SQL]", []string{"input"}},
		{NewParseCommand(), "parse [SQL]", []string{"input", "file"}},
		{NewFmtCommand(), "fmt [SQL]", []string{"input", "compact"}},
		{NewExecCommand(), "exec [SQL]", []string{"input"}},
		{NewTablesCommand(), "tables [name]", nil},
		{NewREPLCommand(), "repl", nil},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short)
			assert.NotEmpty(t, tt.cmd.Long)
			for _, name := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(name), "missing flag %s", name)
			}
		})
	}
}

func TestOpenCatalog_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "catalog.db")

	store, err := openCatalog(context.Background(), path, testutil.NewTestLogger(t))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	assert.FileExists(t, path)

	mem, err := openCatalog(context.Background(), catalog.MemoryPath, testutil.NewTestLogger(t))
	require.NoError(t, err)
	assert.NoError(t, mem.Close())
}

func TestTrimStatement(t *testing.T) {
	assert.Equal(t, "SELECT 1", trimStatement("  SELECT 1 ;\n"))
	assert.Equal(t, "SELECT 1", trimStatement("SELECT 1"))
	assert.Equal(t, "", trimStatement(" ; "))
}
