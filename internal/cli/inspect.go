package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graft/pkg/asset"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	names   bool // print the name table
	imports bool // print the import table
	exports bool // print the export table
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [document.json]",
		Short: "Show a package's tables",
		Long: `Show a package's tables.

Without flags, prints a summary and the export table. References are shown
as export[i] or import[i] with zero-based positions, followed by the name
of the object they select.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.names && !opts.imports && !opts.exports {
				opts.exports = true
			}
			return c.runInspect(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.names, "names", false, "print the name table")
	cmd.Flags().BoolVar(&opts.imports, "imports", false, "print the import table")
	cmd.Flags().BoolVar(&opts.exports, "exports", false, "print the export table")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, path string, opts inspectOpts) error {
	p, err := c.loadPackage(ctx, path)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(path))
	printKeyValue("version", p.Version)
	printKeyValue("names", strconv.Itoa(len(p.Names)))
	printKeyValue("imports", strconv.Itoa(len(p.Imports)))
	printKeyValue("exports", strconv.Itoa(len(p.Exports)))
	level := "none"
	if li, ok := p.LevelIndex(); ok {
		level = fmt.Sprintf("%s (%d actors)", asset.ExportRef(li), len(asset.Actors(p)))
	}
	printKeyValue("level", level)
	fmt.Println()

	if opts.names {
		fmt.Println(nameTable(p))
	}
	if opts.imports {
		fmt.Println(importTable(p))
	}
	if opts.exports {
		fmt.Println(exportTable(p))
	}
	return nil
}

// describeRef formats r with the name of the object it selects.
func describeRef(p *asset.Package, r asset.Reference) string {
	if r.IsNull() {
		return "-"
	}
	return r.String() + " " + p.ObjectName(r)
}

func describeRefs(p *asset.Package, refs []asset.Reference) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = describeRef(p, r)
	}
	return strings.Join(parts, ", ")
}

func nameTable(p *asset.Package) string {
	rows := make([][]string, len(p.Names))
	for i, n := range p.Names {
		rows[i] = []string{strconv.Itoa(i), n}
	}
	return renderTable([]string{"#", "Name"}, rows)
}

func importTable(p *asset.Package) string {
	rows := make([][]string, len(p.Imports))
	for i := range p.Imports {
		imp := &p.Imports[i]
		key, err := p.ImportKey(imp)
		if err != nil {
			rows[i] = []string{strconv.Itoa(i), "?", "?", p.DisplayName(imp.ObjectName), describeRef(p, imp.Outer)}
			continue
		}
		rows[i] = []string{strconv.Itoa(i), key.ClassPackage, key.ClassName, p.DisplayName(imp.ObjectName), describeRef(p, imp.Outer)}
	}
	return renderTable([]string{"#", "Class Package", "Class", "Object", "Outer"}, rows)
}

func exportTable(p *asset.Package) string {
	rows := make([][]string, len(p.Exports))
	for i := range p.Exports {
		e := &p.Exports[i]
		rows[i] = []string{
			strconv.Itoa(i),
			p.DisplayName(e.ObjectName),
			e.Kind.String(),
			describeRef(p, e.Class),
			describeRef(p, e.Outer),
			strconv.Itoa(len(e.Properties)),
			describeRefs(p, e.BeforeCreate),
		}
	}
	return renderTable([]string{"#", "Object", "Kind", "Class", "Outer", "Props", "Before Create"}, rows)
}
