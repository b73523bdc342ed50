package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/sqlfront/internal/catalog"
	"github.com/leapstack-labs/sqlfront/internal/cli/output"
	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/spf13/cobra"
)

// ExecOptions holds options for the exec command.
type ExecOptions struct {
	Input string
}

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	opts := &ExecOptions{}

	cmd := &cobra.Command{
		Use:   "exec [SQL]",
		Short: "Apply a statement to the catalog",
		Long: `Parse a statement and apply it to the table catalog.

CREATE EXTERNAL TABLE registers the table and its columns. SELECT is checked
against the catalog: every relation it reads from is listed together with
whether it is registered. Nothing is executed against data.`,
		Example: `  sqlfront exec "CREATE EXTERNAL TABLE users (id DOUBLE, name VARCHAR(64))"
  sqlfront exec "SELECT id FROM users WHERE id > 10"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runExec(cmd *cobra.Command, args []string, opts *ExecOptions) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()

	query, err := readSQL(cmd, args, opts.Input)
	if err != nil {
		return err
	}
	stmt, err := parseStatement(query)
	if err != nil {
		return err
	}

	store, err := cmdCtx.OpenCatalog(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return executeStatement(ctx, cmdCtx.Renderer, store, stmt)
}

// executeStatement applies stmt to store and reports the outcome.
func executeStatement(ctx context.Context, r *output.Renderer, store *catalog.Store, stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.CreateTable:
		if err := store.Register(ctx, s); err != nil {
			return err
		}
		if ok, err := r.Data(map[string]any{"registered": s.Name, "columns": len(s.Columns)}); ok {
			return err
		}
		r.Success(fmt.Sprintf("Registered external table %s (%d columns)", s.Name, len(s.Columns)))
		return nil
	case *ast.Select:
		res, err := store.Resolve(ctx, s)
		if err != nil {
			return err
		}
		return renderResolution(r, res)
	default:
		return fmt.Errorf("unsupported statement %T", stmt)
	}
}

// renderResolution prints one row per relation, sorted by name.
func renderResolution(r *output.Renderer, res *catalog.Resolution) error {
	rows := make([][]string, 0, len(res.Found)+len(res.Missing))
	for _, t := range res.Found {
		names := make([]string, 0, len(t.Columns))
		for _, col := range t.Columns {
			names = append(names, col.Name)
		}
		rows = append(rows, []string{t.Name, "yes", strings.Join(names, ", ")})
	}
	for _, name := range res.Missing {
		rows = append(rows, []string{name, "no", ""})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })

	if len(rows) == 0 && r.EffectiveMode() != output.ModeJSON && r.EffectiveMode() != output.ModeYAML {
		r.Muted("(no relations referenced)")
		return nil
	}
	if err := r.Table([]string{"Relation", "Registered", "Columns"}, rows); err != nil {
		return err
	}
	for _, name := range res.Missing {
		r.Warning(fmt.Sprintf("relation %s is not registered", name))
	}
	return nil
}
