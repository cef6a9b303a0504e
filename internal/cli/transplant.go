package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graft/pkg/asset"
	"github.com/matzehuels/graft/pkg/errors"
)

// transplantOpts holds the command-line flags for the transplant command.
type transplantOpts struct {
	donor     string   // donor document path
	recipient string   // recipient document path
	actors    []string // actor selectors (export index or name)
	output    string   // output path (recipient path if empty)
	pick      bool     // choose actors interactively
	dryRun    bool     // transplant in memory only
}

// transplantCommand creates the transplant command.
func (c *CLI) transplantCommand() *cobra.Command {
	var opts transplantOpts

	cmd := &cobra.Command{
		Use:   "transplant",
		Short: "Copy actors from a donor package into a recipient",
		Long: `Copy actors from a donor package into a recipient.

Each actor is copied together with every export it owns. References are
rewritten into the recipient's tables: imports are reused when the recipient
already has one with the same class package, class name and object name,
and the actor is renamed when its name is taken.

Actors are selected by zero-based export index or by name, or picked
interactively with --pick. Actors are applied in order; if any fails,
nothing is written.

Examples:
  graft transplant --donor a.json --recipient b.json --actor Cube
  graft transplant --donor a.json --recipient b.json --actor 4 --actor Lamp -o c.json
  graft transplant --donor a.json --recipient b.json --pick`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTransplant(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.donor, "donor", "d", "", "donor package document")
	cmd.Flags().StringVarP(&opts.recipient, "recipient", "r", "", "recipient package document")
	cmd.Flags().StringSliceVarP(&opts.actors, "actor", "a", nil, "actor to transplant (export index or name, repeatable)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output document (overwrites recipient if empty)")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "pick actors interactively")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report what would change without writing")
	_ = cmd.MarkFlagRequired("donor")
	_ = cmd.MarkFlagRequired("recipient")
	cmd.MarkFlagsMutuallyExclusive("actor", "pick")
	_ = cmd.RegisterFlagCompletionFunc("actor", completeActorsFromFlag("donor"))
	for _, f := range []string{"donor", "recipient", "output"} {
		_ = cmd.RegisterFlagCompletionFunc(f, completeDocuments)
	}

	return cmd
}

// runTransplant loads both documents, applies every selected actor and
// writes the recipient.
func (c *CLI) runTransplant(ctx context.Context, opts transplantOpts) error {
	donor, err := c.loadPackage(ctx, opts.donor)
	if err != nil {
		return fmt.Errorf("load donor: %w", err)
	}
	recipient, err := c.loadPackage(ctx, opts.recipient)
	if err != nil {
		return fmt.Errorf("load recipient: %w", err)
	}

	refs, err := c.selectActors(donor, opts)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		printInfo("No actors selected")
		return nil
	}

	prog := newProgress(c.Logger)
	engine := c.newEngine()
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return err
		}
		from := donor.ObjectName(ref)
		res, err := engine.Transplant(ctx, recipient, donor, ref)
		if err != nil {
			printError("Transplant of %s failed", from)
			return fmt.Errorf("transplant %s: %w", from, err)
		}

		printSuccess("Transplanted %s as %s", from, StyleHighlight.Render(res.Name))
		if res.Renamed {
			printDetail("renamed: %s was taken", from)
		}
		if !res.Parented {
			printWarning("Recipient has no level; %s is not contained anywhere", res.Name)
		}
		if res.RefsDropped > 0 {
			printWarning("%d reference(s) to donor objects outside %s were cleared", res.RefsDropped, from)
		}
		printStats(
			stat{res.Exports, "exports"},
			stat{res.ImportsAdded, "imports added"},
			stat{res.ImportsReused, "imports reused"},
			stat{res.NamesAdded, "names added"},
		)
	}

	if opts.dryRun {
		printInfo("Dry run: nothing written")
		return nil
	}

	out := opts.output
	if out == "" {
		out = opts.recipient
	}
	if err := c.savePackage(ctx, recipient, out); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	printFile(out)
	prog.done(fmt.Sprintf("Transplanted %d actor(s)", len(refs)))
	printNextStep("Check the result", "graft validate "+out)
	return nil
}

// selectActors resolves --actor selectors or runs the picker.
func (c *CLI) selectActors(donor *asset.Package, opts transplantOpts) ([]asset.Reference, error) {
	if opts.pick {
		actors := asset.DescribeActors(donor)
		if len(actors) == 0 {
			return nil, errors.New(errors.ErrCodeActorNotFound, "donor has no actors to pick from")
		}
		chosen, err := pickActors(actors)
		if err != nil {
			return nil, err
		}
		refs := make([]asset.Reference, len(chosen))
		for i, a := range chosen {
			refs[i] = a.Ref
		}
		return refs, nil
	}

	if len(opts.actors) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no actors given (use --actor or --pick)")
	}
	return resolveActors(donor, opts.actors)
}
