package commands

import (
	"strconv"

	"github.com/leapstack-labs/sqlfront/internal/cli/output"
	"github.com/leapstack-labs/sqlfront/pkg/parser"
	"github.com/leapstack-labs/sqlfront/pkg/token"
	"github.com/spf13/cobra"
)

// TokensOptions holds options for the tokens command.
type TokensOptions struct {
	Input string
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	opts := &TokensOptions{}

	cmd := &cobra.Command{
		Use:   "tokens [SQL]",
		Short: "Print the token stream of a statement",
		Long: `Tokenize a SQL statement and print the resulting tokens.

Whitespace is dropped. Keywords are matched on their exact upper-case spelling,
so "select" is an identifier while "SELECT" is a keyword.`,
		Example: `  # Tokenize a query
  sqlfront tokens "SELECT a FROM t WHERE a <= 10"

  # Read from a file, emit JSON
  sqlfront tokens -i query.sql -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runTokens(cmd *cobra.Command, args []string, opts *TokensOptions) error {
	cmdCtx := NewCommandContext(cmd)

	query, err := readSQL(cmd, args, opts.Input)
	if err != nil {
		return err
	}

	tokens, err := parser.Tokenize(trimStatement(query))
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("tokenized", "tokens", len(tokens))

	return renderTokens(cmdCtx.Renderer, tokens)
}

// renderTokens prints tokens as a table of position, type and literal.
func renderTokens(r *output.Renderer, tokens []token.Token) error {
	rows := make([][]string, 0, len(tokens))
	for i, tok := range tokens {
		rows = append(rows, []string{strconv.Itoa(i), tok.Type.String(), tok.Literal})
	}
	return r.Table([]string{"#", "Type", "Literal"}, rows)
}
