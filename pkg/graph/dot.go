package graph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graft/pkg/asset"
)

// Options configures ownership diagram generation.
type Options struct {
	// Imports adds a node per import, an edge along each import's outer
	// chain and a dotted edge from every export to its class.
	Imports bool
	// Detailed adds the class and kind to export labels.
	Detailed bool
	// Highlight marks the subtree under each listed export.
	Highlight []asset.Reference
}

// ToDOT converts the ownership hierarchy of p to Graphviz DOT format. Each
// export is a node with an edge from its outer. The level export is drawn as
// a folder. The result can be rendered with [RenderSVG].
func ToDOT(p *asset.Package, opts Options) string {
	marked := make(map[int]bool)
	for _, r := range opts.Highlight {
		if r.IsExport() {
			for _, i := range asset.Subtree(p, r.Index()) {
				marked[i] = true
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for i := range p.Exports {
		e := &p.Exports[i]
		attrs := exportAttrs(p, e, opts.Detailed, marked[i])
		fmt.Fprintf(&buf, "  %q [%s];\n", exportID(i), strings.Join(attrs, ", "))
	}
	if opts.Imports {
		for i := range p.Imports {
			label := p.DisplayName(p.Imports[i].ObjectName)
			if k, err := p.ImportKey(&p.Imports[i]); err == nil {
				label = k.ObjectName + "\n" + k.ClassName
			}
			fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n", importID(i), label)
		}
	}

	buf.WriteString("\n")
	for i := range p.Exports {
		if from, ok := nodeID(p, p.Exports[i].Outer, opts.Imports); ok {
			fmt.Fprintf(&buf, "  %q -> %q;\n", from, exportID(i))
		}
	}
	if opts.Imports {
		for i := range p.Imports {
			if from, ok := nodeID(p, p.Imports[i].Outer, true); ok {
				fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", from, importID(i))
			}
		}
		for i := range p.Exports {
			if to, ok := nodeID(p, p.Exports[i].Class, true); ok {
				fmt.Fprintf(&buf, "  %q -> %q [style=dotted, arrowhead=empty];\n", exportID(i), to)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func exportID(i int) string { return "e" + strconv.Itoa(i) }
func importID(i int) string { return "i" + strconv.Itoa(i) }

// nodeID returns the node for r, or false when r is null, dangling, or an
// import that is not drawn.
func nodeID(p *asset.Package, r asset.Reference, imports bool) (string, bool) {
	if _, ok := p.GetExport(r); ok {
		return exportID(r.Index()), true
	}
	if _, ok := p.GetImport(r); ok && imports {
		return importID(r.Index()), true
	}
	return "", false
}

func exportAttrs(p *asset.Package, e *asset.Export, detailed, marked bool) []string {
	label := p.DisplayName(e.ObjectName)
	if detailed {
		label += "\n" + p.ObjectName(e.Class)
		if e.Kind != asset.ExportNormal {
			label += "\n(" + e.Kind.String() + ")"
		}
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if e.IsLevel() {
		attrs = append(attrs, "shape=folder")
	}
	if marked {
		attrs = append(attrs, "fillcolor=\"#fde68a\"", "penwidth=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales from its
// viewBox instead of Graphviz's point-based width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
