package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/sqlfront/internal/catalog"
	"github.com/leapstack-labs/sqlfront/internal/cli/output"
	"github.com/leapstack-labs/sqlfront/pkg/parser"
	"github.com/leapstack-labs/sqlfront/pkg/token"
	"github.com/spf13/cobra"
)

const (
	replPrompt     = "sqlfront> "
	replContPrompt = "    ...> "
)

// lineReader is the part of *readline.Instance the REPL loop uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// replSession is the state shared by one REPL run.
type replSession struct {
	renderer *output.Renderer
	store    *catalog.Store
	out      io.Writer
	errOut   io.Writer
}

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive SQL shell",
		Long: `Start an interactive shell backed by the table catalog.

Statements end with a semicolon and may span several lines. CREATE EXTERNAL
TABLE registers a table; SELECT reports the relations it reads from. Type .help
for the list of dot-commands.`,
		RunE: runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()

	store, err := cmdCtx.OpenCatalog(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	historyFile := cmdCtx.Cfg.HistoryFile
	if historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(historyFile), 0750); err != nil {
			cmdCtx.Logger.Warn("history disabled", "path", historyFile, "error", err)
			historyFile = ""
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newREPLCompleter(ctx, store),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	s := &replSession{
		renderer: cmdCtx.Renderer,
		store:    store,
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
	}

	_, _ = fmt.Fprintf(s.out, "sqlfront REPL (catalog: %s)\n", store.Path())
	_, _ = fmt.Fprintln(s.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(s.out)

	return s.loop(ctx, rl)
}

// loop reads lines until EOF or .quit. Statements accumulate until a line
// ends with a semicolon; errors are printed and the loop continues.
func (s *replSession) loop(ctx context.Context, rl lineReader) error {
	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if buf.Len() == 0 && strings.HasPrefix(line, ".") {
			if quit := s.dotCommand(ctx, line); quit {
				return nil
			}
			continue
		}

		buf.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			buf.WriteString(" ")
			rl.SetPrompt(replContPrompt)
			continue
		}
		rl.SetPrompt(replPrompt)

		query := buf.String()
		buf.Reset()
		if err := s.execute(ctx, query); err != nil {
			s.errorf(err)
		}
		_, _ = fmt.Fprintln(s.out)
	}
}

func (s *replSession) execute(ctx context.Context, query string) error {
	stmt, err := parseStatement(query)
	if err != nil {
		return err
	}
	return executeStatement(ctx, s.renderer, s.store, stmt)
}

// dotCommand runs a dot-command and reports whether the REPL should exit.
func (s *replSession) dotCommand(ctx context.Context, line string) bool {
	command, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(command) {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".tables":
		if err := listTables(ctx, s.renderer, s.store); err != nil {
			s.errorf(err)
		}

	case ".schema":
		if rest == "" {
			_, _ = fmt.Fprintln(s.errOut, "Usage: .schema <table>")
			return false
		}
		if err := showTable(ctx, s.renderer, s.store, rest); err != nil {
			s.errorf(err)
		}

	case ".tokens":
		if rest == "" {
			_, _ = fmt.Fprintln(s.errOut, "Usage: .tokens <sql>")
			return false
		}
		tokens, err := parser.Tokenize(trimStatement(rest))
		if err != nil {
			s.errorf(err)
			return false
		}
		if err := renderTokens(s.renderer, tokens); err != nil {
			s.errorf(err)
		}

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func (s *replSession) errorf(err error) {
	_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .tables         List registered external tables
  .schema <name>  Show the columns of a table
  .tokens <sql>   Print the tokens of a statement
  .quit / .exit   Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for keywords and table names
`
	_, _ = fmt.Fprintln(w, help)
}

// newREPLCompleter completes keywords, registered table names and dot-commands.
func newREPLCompleter(ctx context.Context, store *catalog.Store) *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, kw := range token.Keywords() {
		items = append(items, readline.PcItem(kw))
	}

	// Completion is best effort.
	if names, err := store.List(ctx); err == nil {
		tables := make([]readline.PrefixCompleterInterface, 0, len(names))
		for _, name := range names {
			items = append(items, readline.PcItem(name))
			tables = append(tables, readline.PcItem(name))
		}
		items = append(items, readline.PcItem(".schema", tables...))
	} else {
		items = append(items, readline.PcItem(".schema"))
	}

	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".tokens"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)

	return readline.NewPrefixCompleter(items...)
}
