// Package commands implements the sqlfront subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/sqlfront/internal/catalog"
	"github.com/leapstack-labs/sqlfront/internal/cli/config"
	"github.com/leapstack-labs/sqlfront/internal/cli/output"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the config and logger the
// root command stored on cmd's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// OpenCatalog opens the catalog configured for this command.
// The caller must close the returned store.
func (c *CommandContext) OpenCatalog(ctx context.Context) (*catalog.Store, error) {
	return openCatalog(ctx, c.Cfg.CatalogPath, c.Logger)
}

// openCatalog ensures the catalog directory exists and opens the store.
func openCatalog(ctx context.Context, path string, logger *slog.Logger) (*catalog.Store, error) {
	if path != catalog.MemoryPath {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, fmt.Errorf("failed to create catalog directory: %w", err)
			}
		}
	}
	return catalog.Open(ctx, path, logger)
}
