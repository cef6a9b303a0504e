package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graft/pkg/cache"
	"github.com/matzehuels/graft/pkg/errors"
	"github.com/matzehuels/graft/pkg/graph"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output    string   // .dot or .svg path (DOT on stdout if empty)
	highlight []string // actors whose subtrees are filled
	imports   bool     // draw imports
	detailed  bool     // add class and kind to labels
	noCache   bool     // always re-render
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph [document.json]",
		Short: "Draw a package's ownership hierarchy",
		Long: `Draw a package's ownership hierarchy.

Each export is drawn as a node with an edge from its outer. The output
format follows the extension of --output: .dot writes Graphviz source, .svg
renders it in-process. Without --output the DOT source goes to stdout.

Examples:
  graft graph level.json -o level.svg --highlight Cube
  graft graph level.json --imports | dot -Tpng > level.png`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (.dot or .svg)")
	cmd.Flags().StringSliceVar(&opts.highlight, "highlight", nil, "actor whose subtree to highlight (repeatable)")
	cmd.Flags().BoolVar(&opts.imports, "imports", false, "draw imports and class edges")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show class and kind in labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the SVG render cache")
	_ = cmd.RegisterFlagCompletionFunc("highlight", completeActorsFromArg)

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, path string, opts graphOpts) error {
	p, err := c.loadPackage(ctx, path)
	if err != nil {
		return err
	}
	highlight, err := resolveActors(p, opts.highlight)
	if err != nil {
		return err
	}

	dot := graph.ToDOT(p, graph.Options{
		Imports:   opts.imports,
		Detailed:  opts.detailed,
		Highlight: highlight,
	})

	if opts.output == "" {
		fmt.Print(dot)
		return nil
	}

	var data []byte
	switch ext := strings.ToLower(filepath.Ext(opts.output)); ext {
	case ".dot", ".gv":
		data = []byte(dot)
	case ".svg":
		data, err = c.renderSVG(ctx, dot, c.newCache(opts.noCache))
		if err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported graph format %q (want .dot or .svg)", ext)
	}

	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Drew %d exports", len(p.Exports))
	printFile(opts.output)
	return nil
}

// renderSVG renders dot, reusing a cached render of identical source.
func (c *CLI) renderSVG(ctx context.Context, dot string, rc cache.Cache) ([]byte, error) {
	defer rc.Close()
	key := cache.RenderKey("svg", dot)
	if data, ok, err := rc.Get(ctx, key); err == nil && ok {
		c.Logger.Debug("render cache hit", "key", key)
		return data, nil
	}

	spinner := newSpinnerWithContext(ctx, "Rendering SVG...")
	spinner.Start()
	data, err := graph.RenderSVG(ctx, dot)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return nil, err
	}
	spinner.Stop()

	if err := rc.Set(ctx, key, data, renderCacheTTL); err != nil {
		c.Logger.Warn("render cache write failed", "err", err)
	}
	return data, nil
}
