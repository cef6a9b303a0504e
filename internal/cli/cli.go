package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graft/pkg/asset"
	"github.com/matzehuels/graft/pkg/buildinfo"
	"github.com/matzehuels/graft/pkg/cache"
	"github.com/matzehuels/graft/pkg/errors"
	pkgio "github.com/matzehuels/graft/pkg/io"
	"github.com/matzehuels/graft/pkg/transplant"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "graft"

	// defaultBatchWorkers is the default number of recipients processed at once.
	defaultBatchWorkers = 4

	// renderCacheTTL bounds how long a cached SVG render is reused.
	renderCacheTTL = 7 * 24 * time.Hour
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Graft moves actors between object packages",
		Long: `Graft copies an actor and everything it owns from one object package into
another, rewriting every export, import and name reference into the
recipient's tables.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.transplantCommand())
	root.AddCommand(c.actorsCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Engine Factory
// =============================================================================

// newEngine creates a transplant engine that logs through the CLI logger.
func (c *CLI) newEngine() *transplant.Engine {
	return transplant.New(c.Logger)
}

// newCache returns the on-disk render cache, or a NullCache when caching is
// disabled or no cache directory is usable.
func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("render cache disabled", "err", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("render cache disabled", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	c.Logger.Debug("render cache", "dir", fc.Dir())
	return fc
}

// cacheDir returns the cache directory using XDG standard (~/.cache/graft/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Loading Helpers
// =============================================================================

// loadPackage validates path and reads the package document at it.
func (c *CLI) loadPackage(ctx context.Context, path string) (*asset.Package, error) {
	if err := errors.ValidateDocumentPath(path); err != nil {
		return nil, err
	}
	p, err := pkgio.ImportJSON(ctx, path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded package", "path", path, "version", p.Version,
		"exports", len(p.Exports), "imports", len(p.Imports), "names", len(p.Names))
	return p, nil
}

// savePackage validates path and writes p to it.
func (c *CLI) savePackage(ctx context.Context, p *asset.Package, path string) error {
	if err := errors.ValidateDocumentPath(path); err != nil {
		return err
	}
	return pkgio.ExportJSON(ctx, p, path)
}

// resolveActor turns a command-line selector into an export reference. A
// selector that parses as an integer is a zero-based export index; anything
// else is matched against the display names of the level's actors.
func resolveActor(p *asset.Package, selector string) (asset.Reference, error) {
	if i, err := strconv.Atoi(selector); err == nil {
		if err := errors.ValidateActorIndex(i, len(p.Exports)); err != nil {
			return asset.Null(), err
		}
		return asset.ExportRef(i), nil
	}

	if err := errors.ValidateObjectName(selector); err != nil {
		return asset.Null(), err
	}
	for _, a := range asset.DescribeActors(p) {
		if a.Name == selector {
			return a.Ref, nil
		}
	}
	return asset.Null(), errors.New(errors.ErrCodeActorNotFound, "no actor named %q", selector)
}

// resolveActors resolves every selector, failing on the first miss.
func resolveActors(p *asset.Package, selectors []string) ([]asset.Reference, error) {
	refs := make([]asset.Reference, 0, len(selectors))
	for _, s := range selectors {
		r, err := resolveActor(p, s)
		if err != nil {
			return nil, fmt.Errorf("actor %q: %w", s, err)
		}
		refs = append(refs, r)
	}
	return refs, nil
}
