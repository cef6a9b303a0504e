package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/graft/pkg/asset"
	"github.com/matzehuels/graft/pkg/errors"
	"github.com/matzehuels/graft/pkg/transplant"
)

// batchOpts holds the command-line flags for the batch command.
type batchOpts struct {
	workers int  // overrides the plan's worker count when > 0
	dryRun  bool // transplant in memory only
}

// batchCommand creates the batch command.
func (c *CLI) batchCommand() *cobra.Command {
	var opts batchOpts

	cmd := &cobra.Command{
		Use:   "batch [plan.toml]",
		Short: "Run a plan of transplant jobs",
		Long: `Run a plan of transplant jobs.

The plan is a TOML file with one [[job]] table per donor/recipient pair:

  workers = 4

  [[job]]
  donor = "props.json"
  recipient = "level.json"
  actors = ["Cube", "Lamp"]
  output = "level_out.json"   # optional, defaults to recipient

Documents are loaded once each. Jobs that share a recipient, or that read
a document another job writes, run in plan order; unrelated recipients are
processed concurrently. A recipient is
written only if all of its jobs succeed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "recipients processed at once (overrides plan)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report what would change without writing")

	return cmd
}

// batchJob ties an engine job back to its plan entry.
type batchJob struct {
	plan  int // zero-based plan job index
	actor string
}

func (c *CLI) runBatch(ctx context.Context, path string, opts batchOpts) error {
	pl, err := loadPlan(path)
	if err != nil {
		return err
	}
	if opts.workers > 0 {
		pl.Workers = opts.workers
	}
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	docs, err := c.loadDocuments(ctx, pl)
	if err != nil {
		return err
	}

	var (
		jobs []transplant.Job
		meta []batchJob
	)
	for i, pj := range pl.Jobs {
		donor, recipient := docs[pj.Donor], docs[pj.Recipient]
		refs, err := resolveActors(donor, pj.Actors)
		if err != nil {
			return fmt.Errorf("job %d: %w", i+1, err)
		}
		for k, ref := range refs {
			jobs = append(jobs, transplant.Job{Recipient: recipient, Donor: donor, Root: ref})
			meta = append(meta, batchJob{plan: i, actor: pj.Actors[k]})
		}
	}
	logger.Debug("running batch", "plan", path, "jobs", len(jobs), "workers", pl.Workers)

	recipients := countRecipients(pl)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Running %d transplant(s) on %d recipient(s)...", len(jobs), recipients))
	spinner.Start()
	results, err := c.newEngine().Batch(ctx, jobs, pl.Workers)
	if err != nil {
		spinner.StopWithError("Batch cancelled")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Ran %d transplant(s) on %d recipient(s)", len(jobs), recipients))

	failedRecipients := make(map[string]bool)
	for i, r := range results {
		pj := pl.Jobs[meta[i].plan]
		if r.Err != nil {
			failedRecipients[pj.Recipient] = true
			printError("%s → %s: %s", meta[i].actor, pj.Recipient, errors.UserMessage(r.Err))
			logger.Debug("job failed", "job", meta[i].plan+1, "actor", meta[i].actor, "err", r.Err)
			continue
		}
		printSuccess("%s → %s as %s", meta[i].actor, pj.Recipient, StyleHighlight.Render(r.Result.Name))
		if n := r.Result.RefsDropped; n > 0 {
			printDetail("%d reference(s) to donor objects outside the actor cleared", n)
		}
	}

	written := make(map[string]bool)
	for _, pj := range pl.Jobs {
		if written[pj.Recipient] {
			continue
		}
		written[pj.Recipient] = true
		if failedRecipients[pj.Recipient] {
			printWarning("%s not written: a job failed", pj.Recipient)
			continue
		}
		if opts.dryRun {
			continue
		}
		if err := c.savePackage(ctx, docs[pj.Recipient], pj.Output); err != nil {
			return fmt.Errorf("write %s: %w", pj.Output, err)
		}
		printFile(pj.Output)
	}

	if n := len(failedRecipients); n > 0 {
		return errors.New(errors.ErrCodeInvalidPlan, "%d recipient(s) had failed jobs", n)
	}
	if opts.dryRun {
		printInfo("Dry run: nothing written")
	}
	prog.done(fmt.Sprintf("Batch %s finished", path))
	return nil
}

// loadDocuments reads every distinct document the plan names, concurrently.
func (c *CLI) loadDocuments(ctx context.Context, pl *plan) (map[string]*asset.Package, error) {
	var paths []string
	seen := make(map[string]bool)
	for _, pj := range pl.Jobs {
		for _, p := range []string{pj.Donor, pj.Recipient} {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}

	var mu sync.Mutex
	docs := make(map[string]*asset.Package, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pl.Workers)
	for _, path := range paths {
		g.Go(func() error {
			p, err := c.loadPackage(gctx, path)
			if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}
			mu.Lock()
			docs[path] = p
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func countRecipients(pl *plan) int {
	seen := make(map[string]bool)
	for _, pj := range pl.Jobs {
		seen[pj.Recipient] = true
	}
	return len(seen)
}
