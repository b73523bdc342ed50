package commands

import (
	"strings"

	"github.com/leapstack-labs/sqlfront/internal/cli/output"
	"github.com/leapstack-labs/sqlfront/pkg/format"
	"github.com/leapstack-labs/sqlfront/pkg/parser"
	"github.com/spf13/cobra"
)

// FmtOptions holds options for the fmt command.
type FmtOptions struct {
	Input   string
	Compact bool
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	opts := &FmtOptions{}

	cmd := &cobra.Command{
		Use:   "fmt [SQL]",
		Short: "Print SQL in canonical form",
		Long: `Parse a SQL statement and print it back in canonical form.

Keywords are upper case and clauses start on their own line. With --compact the
statement is printed on a single line.`,
		Example: `  sqlfront fmt "SELECT a,b FROM t WHERE a>1"
  sqlfront fmt --compact -i query.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().BoolVar(&opts.Compact, "compact", false, "Print on a single line")

	return cmd
}

func runFmt(cmd *cobra.Command, args []string, opts *FmtOptions) error {
	cmdCtx := NewCommandContext(cmd)

	query, err := readSQL(cmd, args, opts.Input)
	if err != nil {
		return err
	}
	node, err := parser.ParseSQL(trimStatement(query))
	if err != nil {
		return err
	}

	text := format.Format(node)
	if opts.Compact {
		text = format.SQL(node)
	}

	r := cmdCtx.Renderer
	if ok, err := r.Data(map[string]string{"sql": format.SQL(node)}); ok {
		return err
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatCodeBlock("sql", text))
		return nil
	}
	r.Println(strings.TrimSuffix(text, "\n"))
	return nil
}
