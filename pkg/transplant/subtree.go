package transplant

import (
	"slices"

	"github.com/matzehuels/graft/pkg/asset"
	"github.com/matzehuels/graft/pkg/errors"
)

// collected is a donor subtree rewritten into recipient export space.
type collected struct {
	exports []asset.Export
	// dropped counts references to donor exports outside the subtree that
	// were nulled. The root's outer and before-create entries are not
	// counted; the engine re-parents the root.
	dropped int
}

// collect copies the subtree rooted at donor export root, root first, and
// rewrites export references for a recipient that currently holds base
// exports. References between moved exports follow them to their new
// positions. A class or template naming a donor export outside the subtree
// fails with INVALID_REFERENCE; any other reference to such an export
// becomes null and is counted. Import references are left for the import
// pass.
func collect(donor *asset.Package, root, base int) (*collected, error) {
	order := asset.Subtree(donor, root)
	moved := make(map[int]int, len(order))
	for i, idx := range order {
		moved[idx] = base + i
	}

	out := &collected{exports: make([]asset.Export, len(order))}
	for i, idx := range order {
		ex := donor.Exports[idx].Clone()

		for _, slot := range []struct {
			name string
			ref  asset.Reference
		}{{"class", ex.Class}, {"template", ex.Template}} {
			if !slot.ref.IsExport() {
				continue
			}
			if _, ok := moved[slot.ref.Index()]; !ok {
				return nil, errors.New(errors.ErrCodeInvalidReference,
					"export %d %s is %s, which is not part of the transplanted actor", idx, slot.name, slot.ref)
			}
		}

		var walkErr error
		remap := func(count bool) func(*asset.Reference) {
			return func(r *asset.Reference) {
				if walkErr != nil || !r.IsExport() {
					return
				}
				if r.Index() < 0 || r.Index() >= len(donor.Exports) {
					walkErr = errors.New(errors.ErrCodeInvalidReference,
						"export %d holds %s beyond donor export table (%d exports)", idx, *r, len(donor.Exports))
					return
				}
				if to, ok := moved[r.Index()]; ok {
					*r = asset.ExportRef(to)
					return
				}
				*r = asset.Null()
				if count {
					out.dropped++
				}
			}
		}
		if i == 0 {
			ex.WalkOwnership(remap(false))
			ex.WalkReferences(remap(true))
			for j := range ex.Contained {
				remap(true)(&ex.Contained[j])
			}
		} else {
			ex.WalkAll(remap(true))
		}
		if walkErr != nil {
			return nil, walkErr
		}
		dropNull(&ex.BeforeCreate)
		dropNull(&ex.BeforeSerialize)
		dropNull(&ex.Contained)
		out.exports[i] = ex
	}
	return out, nil
}

// dropNull removes null entries from a dependency list.
func dropNull(refs *[]asset.Reference) {
	if *refs != nil {
		*refs = slices.DeleteFunc(*refs, asset.Reference.IsNull)
	}
}
