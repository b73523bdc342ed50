package commands

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/sqlfront/internal/cli/output"
	"github.com/leapstack-labs/sqlfront/pkg/ast"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// watchDebounce is how long the watcher waits for writes to settle.
const watchDebounce = 100 * time.Millisecond

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch bool
}

// CheckResult is the outcome of parsing one file.
type CheckResult struct {
	File      string `json:"file" yaml:"file"`
	OK        bool   `json:"ok" yaml:"ok"`
	Statement string `json:"statement,omitempty" yaml:"statement,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Check that SQL files parse",
		Long: `Parse every .sql file under the given files and directories and report
the ones that fail. Directories are searched recursively.

With --watch the files are checked again whenever they are written, until
interrupted.`,
		Example: `  sqlfront check queries/
  sqlfront check --watch queries/ schema.sql`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check files when they change")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()

	files, err := collectSQLFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .sql files found")
	}

	results, err := checkFiles(ctx, files)
	if err != nil {
		return err
	}
	if err := renderCheckResults(cmdCtx.Renderer, results); err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if !res.OK {
			failed++
		}
	}
	cmdCtx.Logger.Debug("checked files", "files", len(results), "failed", failed)

	if !opts.Watch {
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed to parse", failed, len(results))
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cmdCtx.Renderer.Muted("Watching for changes (Ctrl+C to stop)")
	return watchSQL(ctx, args, watchDebounce, cmdCtx.Logger, func(results []CheckResult) {
		if err := renderCheckResults(cmdCtx.Renderer, results); err != nil {
			cmdCtx.Logger.Error("failed to render results", "error", err)
		}
	})
}

// collectSQLFiles expands directories into the .sql files below them.
// Explicit file arguments are kept whatever their extension.
func collectSQLFiles(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, p := range paths {
		p = filepath.Clean(p)
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == ".sql" {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// checkFiles parses files concurrently. A file that fails to parse is a
// result, not an error; only cancellation stops the run.
func checkFiles(ctx context.Context, files []string) ([]CheckResult, error) {
	results := make([]CheckResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = checkFile(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func checkFile(path string) CheckResult {
	res := CheckResult{File: path}
	content, err := os.ReadFile(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	stmt, err := parseStatement(string(content))
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.OK = true
	res.Statement = statementKind(stmt)
	return res
}

func statementKind(stmt ast.Stmt) string {
	switch stmt.(type) {
	case *ast.Select:
		return "SELECT"
	case *ast.CreateTable:
		return "CREATE EXTERNAL TABLE"
	default:
		return ""
	}
}

func renderCheckResults(r *output.Renderer, results []CheckResult) error {
	if ok, err := r.Data(results); ok {
		return err
	}

	rows := make([][]string, 0, len(results))
	for _, res := range results {
		status := "ok"
		detail := res.Statement
		if !res.OK {
			status = "error"
			detail = res.Error
		}
		rows = append(rows, []string{res.File, status, detail})
	}
	return r.Table([]string{"File", "Status", "Detail"}, rows)
}

// watchSQL re-checks .sql files under paths each time they are written or
// created, calling onChange with the results in file order. Writes are
// batched until they settle for debounce. It returns when ctx is done.
func watchSQL(ctx context.Context, paths []string, debounce time.Duration, logger *slog.Logger, onChange func([]CheckResult)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	dirs := make(map[string]bool)  // watched recursively
	files := make(map[string]bool) // watched individually
	for _, p := range paths {
		p = filepath.Clean(p)
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		if info.IsDir() {
			if err := watchDirRecursive(watcher, p, dirs); err != nil {
				return fmt.Errorf("failed to watch %s: %w", p, err)
			}
			continue
		}
		files[p] = true
		if err := watcher.Add(filepath.Dir(p)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name := filepath.Clean(event.Name)
			if event.Op&fsnotify.Create != 0 && dirs[filepath.Dir(name)] {
				if info, err := os.Stat(name); err == nil && info.IsDir() {
					if err := watchDirRecursive(watcher, name, dirs); err != nil {
						logger.Warn("failed to watch new directory", "path", name, "error", err)
					}
					continue
				}
			}
			watched := files[name] || (dirs[filepath.Dir(name)] && filepath.Ext(name) == ".sql")
			if !watched {
				continue
			}
			pending[name] = true
			timer.Reset(debounce)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			clear(pending)
			if len(changed) == 0 {
				continue
			}
			sort.Strings(changed)

			logger.Debug("files changed, re-checking", "files", changed)
			results := make([]CheckResult, 0, len(changed))
			for _, name := range changed {
				results = append(results, checkFile(name))
			}
			onChange(results)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string, dirs map[string]bool) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs[filepath.Clean(path)] = true
			return watcher.Add(path)
		}
		return nil
	})
}
