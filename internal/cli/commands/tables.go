package commands

import (
	"context"
	"strconv"

	"github.com/leapstack-labs/sqlfront/internal/catalog"
	"github.com/leapstack-labs/sqlfront/internal/cli/output"
	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/format"
	"github.com/spf13/cobra"
)

// TableInfo is the structured view of a registered table.
type TableInfo struct {
	Name       string       `json:"name" yaml:"name"`
	Columns    []ColumnInfo `json:"columns" yaml:"columns"`
	Definition string       `json:"definition" yaml:"definition"`
}

// ColumnInfo describes one column of a registered table.
type ColumnInfo struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Nullable bool   `json:"nullable" yaml:"nullable"`
}

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables [name]",
		Short: "List registered external tables",
		Long: `List the external tables in the catalog, or show the columns of one table.

Tables are registered with "sqlfront exec" or the REPL.`,
		Example: `  sqlfront tables
  sqlfront tables users -o json
  sqlfront tables drop users`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTables(cmd, args)
		},
	}

	cmd.AddCommand(newTablesDropCommand())

	return cmd
}

func newTablesDropCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "drop <name>",
		Short: "Remove a table from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			store, err := cmdCtx.OpenCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Drop(cmd.Context(), args[0]); err != nil {
				return err
			}
			if ok, err := cmdCtx.Renderer.Data(map[string]string{"dropped": args[0]}); ok {
				return err
			}
			cmdCtx.Renderer.Success("Dropped external table " + args[0])
			return nil
		},
	}
}

func runTables(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()

	store, err := cmdCtx.OpenCatalog(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if len(args) == 1 {
		return showTable(ctx, cmdCtx.Renderer, store, args[0])
	}
	return listTables(ctx, cmdCtx.Renderer, store)
}

func listTables(ctx context.Context, r *output.Renderer, store *catalog.Store) error {
	names, err := store.List(ctx)
	if err != nil {
		return err
	}
	if names == nil {
		names = []string{}
	}

	if ok, err := r.Data(names); ok {
		return err
	}
	if len(names) == 0 {
		r.Muted("No external tables registered.")
		return nil
	}

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		t, err := store.Get(ctx, name)
		if err != nil {
			return err
		}
		rows = append(rows, []string{name, strconv.Itoa(len(t.Columns))})
	}
	return r.Table([]string{"Table", "Columns"}, rows)
}

func showTable(ctx context.Context, r *output.Renderer, store *catalog.Store, name string) error {
	t, err := store.Get(ctx, name)
	if err != nil {
		return err
	}

	if ok, err := r.Data(newTableInfo(t)); ok {
		return err
	}

	r.Header(1, t.Name)
	rows := make([][]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		rows = append(rows, []string{col.Name, format.DataType(col.Type), strconv.FormatBool(col.AllowNull)})
	}
	if err := r.Table([]string{"Column", "Type", "Nullable"}, rows); err != nil {
		return err
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatCodeBlock("sql", format.SQL(t)))
		return nil
	}
	r.Muted(format.SQL(t))
	return nil
}

func newTableInfo(t *ast.CreateTable) TableInfo {
	info := TableInfo{
		Name:       t.Name,
		Columns:    make([]ColumnInfo, 0, len(t.Columns)),
		Definition: format.SQL(t),
	}
	for _, col := range t.Columns {
		info.Columns = append(info.Columns, ColumnInfo{
			Name:     col.Name,
			Type:     format.DataType(col.Type),
			Nullable: col.AllowNull,
		})
	}
	return info
}
