package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graft/pkg/asset"
)

// actorsCommand creates the actors command.
func (c *CLI) actorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "actors [document.json]",
		Short: "List the actors held by a package's level",
		Long: `List the actors held by a package's level.

The Export column is the zero-based export index accepted by
'graft transplant --actor'. Owned counts the exports each actor
transitively owns.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDocuments,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runActors(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runActors(ctx context.Context, path string) error {
	p, err := c.loadPackage(ctx, path)
	if err != nil {
		return err
	}

	actors := asset.DescribeActors(p)
	if len(actors) == 0 {
		if _, ok := p.LevelIndex(); !ok {
			printWarning("%s has no level export", path)
		} else {
			printInfo("Level holds no actors")
		}
		return nil
	}

	fmt.Println(actorTable(actors))
	printDetail("%d actors", len(actors))
	return nil
}

// actorTable renders actors as a table.
func actorTable(actors []asset.ActorInfo) string {
	rows := make([][]string, len(actors))
	for i, a := range actors {
		rows[i] = []string{strconv.Itoa(a.Ref.Index()), a.Name, a.Class, strconv.Itoa(a.Children)}
	}
	return renderTable([]string{"Export", "Actor", "Class", "Owned"}, rows)
}
