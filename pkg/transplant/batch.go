package transplant

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/graft/pkg/asset"
)

// Job is one transplant request in a [Engine.Batch] call.
type Job struct {
	Recipient *asset.Package
	Donor     *asset.Package
	Root      asset.Reference
}

// JobResult pairs a job's outcome with its position in the input.
type JobResult struct {
	Job    int
	Result *Result
	Err    error
}

// Batch runs jobs with at most limit groups in flight (limit <= 0 means no
// limit). Jobs whose packages are connected, through a shared recipient or
// because one job's recipient is another job's donor, form a group and run
// one after another in input order on the same goroutine. Independent
// groups run concurrently. A package that is only ever a donor may be
// shared by any number of groups, since transplants only read donors.
//
// A failed job does not stop the others; its error is reported in its
// JobResult and its recipient is left as the previous job left it. Batch
// itself returns an error only when ctx is cancelled, in which case jobs
// not yet started report ctx.Err().
func (e *Engine) Batch(ctx context.Context, jobs []Job, limit int) ([]JobResult, error) {
	results := make([]JobResult, len(jobs))
	for i := range results {
		results[i].Job = i
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for _, idxs := range groupJobs(jobs) {
		g.Go(func() error {
			for _, i := range idxs {
				if err := gctx.Err(); err != nil {
					results[i].Err = err
					continue
				}
				j := jobs[i]
				results[i].Result, results[i].Err = e.Transplant(gctx, j.Recipient, j.Donor, j.Root)
			}
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// groupJobs partitions job indices so that no package written by one group
// is touched by another. Recipients are always joined with their donors;
// a donor that is never a recipient stays read-only and is not joined,
// which keeps fan-out from one shared donor parallel. Groups are ordered by
// their first job and list jobs in input order.
func groupJobs(jobs []Job) [][]int {
	written := make(map[*asset.Package]bool, len(jobs))
	for _, j := range jobs {
		written[j.Recipient] = true
	}

	parent := make(map[*asset.Package]*asset.Package)
	var find func(p *asset.Package) *asset.Package
	find = func(p *asset.Package) *asset.Package {
		q, ok := parent[p]
		if !ok {
			parent[p] = p
			return p
		}
		if q != p {
			q = find(q)
			parent[p] = q
		}
		return q
	}
	for _, j := range jobs {
		r := find(j.Recipient)
		if written[j.Donor] {
			if d := find(j.Donor); d != r {
				parent[d] = r
			}
		}
	}

	var groups [][]int
	slot := make(map[*asset.Package]int)
	for i, j := range jobs {
		root := find(j.Recipient)
		k, ok := slot[root]
		if !ok {
			k = len(groups)
			slot[root] = k
			groups = append(groups, nil)
		}
		groups[k] = append(groups[k], i)
	}
	return groups
}
