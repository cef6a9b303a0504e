package cli

import (
	"context"
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graft/pkg/asset"
	"github.com/matzehuels/graft/pkg/errors"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [document.json...]",
		Short: "Check that every reference and name in a package resolves",
		Long: `Check that every reference and name in a package resolves.

Every problem in a document is reported, not just the first. The command
fails if any document is invalid.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args)
		},
	}
}

func (c *CLI) runValidate(ctx context.Context, paths []string) error {
	failed := 0
	for _, path := range paths {
		p, err := c.loadPackage(ctx, path)
		if err == nil {
			printSuccess("%s", path)
			printStats(stat{len(p.Exports), "exports"}, stat{len(p.Imports), "imports"}, stat{len(asset.Actors(p)), "actors"})
			continue
		}

		failed++
		var verr *asset.ValidationError
		if !stderrors.As(err, &verr) {
			printError("%s: %s", path, errors.UserMessage(err))
			continue
		}
		printError("%s: %d problems", path, len(verr.Problems))
		for _, prob := range verr.Problems {
			printDetail("%s", prob)
		}
	}

	if failed > 0 {
		return errors.New(errors.ErrCodeInvalidReference, "%d of %d documents invalid", failed, len(paths))
	}
	return nil
}
