package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/leapstack-labs/sqlfront/internal/cli/output"
	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/leapstack-labs/sqlfront/pkg/parser"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Input string
	Files []string
}

// ParseResult is the AST of one parsed source.
type ParseResult struct {
	Source string    `json:"source" yaml:"source"`
	AST    *TreeNode `json:"ast" yaml:"ast"`
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [SQL]",
		Short: "Parse SQL and print its syntax tree",
		Long: `Parse a SQL statement and print the resulting syntax tree.

Text output is an indented tree. JSON and YAML output are structured documents
suitable for tooling. Several files can be given with --file; they are parsed
concurrently and printed in the order given.`,
		Example: `  # Parse a query
  sqlfront parse "SELECT a, b FROM t WHERE a > 1 LIMIT 5"

  # Parse several files as YAML
  sqlfront parse -f orders.sql -f users.sql -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().StringSliceVarP(&opts.Files, "file", "f", nil, "SQL file to parse (repeatable)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	cmdCtx := NewCommandContext(cmd)

	if len(opts.Files) > 0 {
		if len(args) > 0 || opts.Input != "" {
			return errors.New("--file cannot be combined with SQL arguments or --input")
		}
		results, err := parseFiles(cmd, opts.Files)
		if err != nil {
			return err
		}
		cmdCtx.Logger.Debug("parsed files", "count", len(results))
		return renderParseResults(cmdCtx.Renderer, results)
	}

	query, err := readSQL(cmd, args, opts.Input)
	if err != nil {
		return err
	}
	node, err := parser.ParseSQL(trimStatement(query))
	if err != nil {
		return err
	}
	return renderTree(cmdCtx.Renderer, BuildTree(node))
}

// parseFiles parses each file concurrently. Results keep the order of paths
// and the first error is returned.
func parseFiles(cmd *cobra.Command, paths []string) ([]ParseResult, error) {
	results := make([]ParseResult, len(paths))

	g, ctx := errgroup.WithContext(cmd.Context())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			node, err := parser.ParseSQL(trimStatement(string(content)))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = ParseResult{Source: path, AST: BuildTree(node)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func renderTree(r *output.Renderer, tree *TreeNode) error {
	if ok, err := r.Data(tree); ok {
		return err
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatCodeBlock("", tree.String()))
		return nil
	}
	r.Printf("%s", tree)
	return nil
}

func renderParseResults(r *output.Renderer, results []ParseResult) error {
	if ok, err := r.Data(results); ok {
		return err
	}
	for i, res := range results {
		if i > 0 {
			r.Println()
		}
		r.Header(2, res.Source)
		if err := renderTree(r, res.AST); err != nil {
			return err
		}
	}
	return nil
}

// parseStatement parses query into a statement, rejecting bare expressions.
func parseStatement(query string) (ast.Stmt, error) {
	node, err := parser.ParseSQL(trimStatement(query))
	if err != nil {
		return nil, err
	}
	stmt, ok := node.(ast.Stmt)
	if !ok {
		return nil, fmt.Errorf("expected a SELECT or CREATE EXTERNAL TABLE statement, got %T", node)
	}
	return stmt, nil
}
