package transplant

import (
	"context"

	"github.com/matzehuels/graft/pkg/asset"
	"github.com/matzehuels/graft/pkg/errors"
	"github.com/matzehuels/graft/pkg/observability"
)

// importResolver maps donor import references into a recipient's import
// space. The recipient's existing imports and the imports queued during
// this call form one logical table: index holds both, keyed by content.
//
// A queued import at queue position q will land at recipient position
// base+q, so its reference is known before anything is appended.
type importResolver struct {
	ctx   context.Context
	donor *asset.Package
	base  int

	index  map[asset.ImportKey]asset.Reference
	queue  []asset.Import
	reused map[int]bool
}

func newImportResolver(ctx context.Context, recipient, donor *asset.Package) *importResolver {
	r := &importResolver{
		ctx:    ctx,
		donor:  donor,
		base:   len(recipient.Imports),
		index:  make(map[asset.ImportKey]asset.Reference, len(recipient.Imports)),
		reused: make(map[int]bool),
	}
	for i := range recipient.Imports {
		k, err := recipient.ImportKey(&recipient.Imports[i])
		if err != nil {
			continue
		}
		// First match wins, as with a positional scan.
		if _, ok := r.index[k]; !ok {
			r.index[k] = asset.ImportRef(i)
		}
	}
	return r
}

// resolve returns the recipient reference for the donor import ref,
// queueing a copy of the donor import when no content-equal entry exists.
// The queued copy still carries donor-space names and outer.
func (r *importResolver) resolve(ref asset.Reference) (asset.Reference, error) {
	imp, ok := r.donor.GetImport(ref)
	if !ok {
		return asset.Null(), errors.New(errors.ErrCodeDanglingImport,
			"%s has no entry in donor import table (%d imports)", ref, len(r.donor.Imports))
	}
	key, err := r.donor.ImportKey(imp)
	if err != nil {
		return asset.Null(), errors.Wrap(errors.ErrCodeDanglingImport, err, "%s has unresolvable names", ref)
	}

	if existing, ok := r.index[key]; ok {
		if existing.Index() < r.base {
			r.reused[existing.Index()] = true
		}
		return existing, nil
	}

	next := asset.ImportRef(r.base + len(r.queue))
	r.queue = append(r.queue, *imp)
	r.index[key] = next
	observability.Transplant().OnImportQueued(r.ctx, key.String())
	return next, nil
}

// close resolves the outer of every queued import, queueing parents as
// needed. The queue grows while it is walked; each entry is visited once and
// every append adds a key not seen before, so the loop ends after at most
// one pass over the distinct imports reachable in the donor.
func (r *importResolver) close() error {
	for i := 0; i < len(r.queue); i++ {
		outer := r.queue[i].Outer
		switch {
		case outer.IsNull():
			continue
		case outer.IsExport():
			return errors.New(errors.ErrCodeDanglingImport,
				"queued import %d has export outer %s", i, outer)
		}
		resolved, err := r.resolve(outer)
		if err != nil {
			return err
		}
		r.queue[i].Outer = resolved
	}
	return nil
}
