package transplant

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graft/pkg/asset"
	"github.com/matzehuels/graft/pkg/errors"
	"github.com/matzehuels/graft/pkg/observability"
)

// Engine copies actor subtrees between packages.
//
// An Engine holds no per-call state, so one Engine may serve many
// goroutines as long as no two of them transplant into the same recipient
// at once. Donors are only read.
type Engine struct {
	Logger *log.Logger
}

// New creates an engine. A nil logger discards everything, so library
// callers see no output unless they pass one.
func New(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{Logger: logger}
}

// Transplant copies the subtree rooted at root from donor into recipient
// using a default engine.
func Transplant(recipient, donor *asset.Package, root asset.Reference) (*Result, error) {
	return New(nil).Transplant(context.Background(), recipient, donor, root)
}

// Result describes a committed transplant.
type Result struct {
	// Root addresses the transplanted root in the recipient.
	Root asset.Reference
	// Name is the root's display name in the recipient after renaming.
	Name string
	// Renamed is true when the donor name collided and a suffix was bumped.
	Renamed bool
	// Parented is false when the recipient had no level export.
	Parented bool

	Exports       int // exports appended
	ImportsAdded  int // imports appended
	ImportsReused int // distinct pre-existing recipient imports referenced
	NamesAdded    int // strings interned into the recipient name table
	RefsDropped   int // references to non-moved donor exports set to null
}

// Transplant copies the export root and everything it transitively owns
// from donor into recipient.
//
// All work happens on copies; recipient is mutated only after every
// reference has been resolved. On error recipient is unchanged. Errors carry
// codes from package errors: MISSING_ROOT, INVALID_ROOT, DANGLING_IMPORT or
// INVALID_REFERENCE. The latter includes a moved export whose class or
// template is a donor export left behind. Other references to such exports
// are nulled and counted in [Result.RefsDropped].
//
// ctx is passed to observability hooks. The call does not block and is not
// cancellable.
func (e *Engine) Transplant(ctx context.Context, recipient, donor *asset.Package, root asset.Reference) (*Result, error) {
	start := time.Now()
	label := root.String()
	if ex, ok := donor.GetExport(root); ok {
		label = donor.DisplayName(ex.ObjectName)
	}

	hooks := observability.Transplant()
	hooks.OnTransplantStart(ctx, label)

	st, err := e.stage(ctx, recipient, donor, root)
	if err != nil {
		e.Logger.Debug("transplant aborted", "actor", label, "err", err)
		hooks.OnTransplantComplete(ctx, label, 0, 0, time.Since(start), err)
		return nil, err
	}
	res := st.commit(recipient)
	if res.RefsDropped > 0 {
		e.Logger.Warn("nulled references to donor exports outside the actor",
			"actor", res.Name, "count", res.RefsDropped)
	}

	e.Logger.Debug("transplanted actor",
		"actor", res.Name,
		"root", res.Root,
		"exports", res.Exports,
		"imports_added", res.ImportsAdded,
		"imports_reused", res.ImportsReused,
		"names_added", res.NamesAdded,
		"refs_dropped", res.RefsDropped)
	hooks.OnTransplantComplete(ctx, label, res.Exports, res.ImportsAdded, time.Since(start), nil)
	return res, nil
}

// staged holds everything a transplant appends, fully rewritten into the
// recipient's index space.
type staged struct {
	exports []asset.Export
	imports []asset.Import
	names   []string

	level    int
	hasLevel bool
	root     asset.Reference
	name     string
	renamed  bool
	reused   int
	dropped  int
}

func (e *Engine) stage(ctx context.Context, recipient, donor *asset.Package, root asset.Reference) (*staged, error) {
	if !root.IsExport() {
		return nil, errors.New(errors.ErrCodeInvalidRoot, "actor root must be an export, got %s", root)
	}
	if _, ok := donor.GetExport(root); !ok {
		return nil, errors.New(errors.ErrCodeMissingRoot, "%s not in donor (%d exports)", root, len(donor.Exports))
	}
	if donor.Exports[root.Index()].IsLevel() {
		return nil, errors.New(errors.ErrCodeInvalidRoot, "%s is a level export", root)
	}

	// Collect the subtree and move export references into recipient space.
	sub, err := collect(donor, root.Index(), len(recipient.Exports))
	if err != nil {
		return nil, err
	}
	st := &staged{exports: sub.exports, dropped: sub.dropped, root: asset.ExportRef(len(recipient.Exports))}

	// Give the root a name the recipient does not already use.
	names := newNameStage(recipient)
	rootExport := &st.exports[0]
	donorName, ok := donor.NameString(rootExport.ObjectName)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidReference, "root name index %d outside donor name table", rootExport.ObjectName.Index)
	}
	st.name = uniqueName(donorName, names.has)
	st.renamed = st.name != donorName
	rootExport.ObjectName.Index = names.intern(st.name)
	if st.renamed {
		rootExport.ObjectName.Number = 0
	}

	// Re-parent under the recipient's level.
	if li, ok := recipient.LevelIndex(); ok {
		levelRef := asset.ExportRef(li)
		rootExport.Outer = levelRef
		rootExport.BeforeCreate = []asset.Reference{levelRef}
		st.level, st.hasLevel = li, true
	} else {
		e.Logger.Warn("recipient has no level export; appending actor without a container", "actor", st.name)
	}

	// Resolve import references against the recipient and the queue.
	imports := newImportResolver(ctx, recipient, donor)
	for i := range st.exports {
		var walkErr error
		visit := func(r *asset.Reference) {
			if walkErr != nil || !r.IsImport() {
				return
			}
			resolved, err := imports.resolve(*r)
			if err != nil {
				walkErr = err
				return
			}
			*r = resolved
		}
		st.exports[i].WalkOwnership(visit)
		st.exports[i].WalkReferences(visit)
		if walkErr != nil {
			return nil, walkErr
		}
	}

	// Close the queue over import outer chains.
	if err := imports.close(); err != nil {
		return nil, err
	}

	// Remap name-table references into the recipient's table.
	for i := range st.exports {
		ex := &st.exports[i]
		var walkErr error
		visit := func(n *asset.Name) {
			if walkErr == nil {
				walkErr = names.translate(donor, n)
			}
		}
		if i == 0 {
			// The root's object name is already in recipient space.
			asset.WalkPropertyNames(ex.Properties, visit)
		} else {
			ex.WalkNames(visit)
		}
		if walkErr != nil {
			return nil, walkErr
		}
	}
	for i := range imports.queue {
		imp := &imports.queue[i]
		for _, n := range []*asset.Name{&imp.ClassPackage, &imp.ClassName, &imp.ObjectName} {
			if err := names.translate(donor, n); err != nil {
				return nil, err
			}
		}
	}

	st.imports = imports.queue
	st.names = names.added
	st.reused = len(imports.reused)
	return st, nil
}

// commit appends the staged tables. It cannot fail.
func (st *staged) commit(recipient *asset.Package) *Result {
	recipient.Names = append(recipient.Names, st.names...)
	recipient.Exports = append(recipient.Exports, st.exports...)
	recipient.Imports = append(recipient.Imports, st.imports...)

	if st.hasLevel {
		level := &recipient.Exports[st.level]
		level.Contained = append(level.Contained, st.root)
		level.BeforeSerialize = append(level.BeforeSerialize, st.root)
	}

	return &Result{
		Root:          st.root,
		Name:          recipient.DisplayName(recipient.Exports[st.root.Index()].ObjectName),
		Renamed:       st.renamed,
		Parented:      st.hasLevel,
		Exports:       len(st.exports),
		ImportsAdded:  len(st.imports),
		ImportsReused: st.reused,
		NamesAdded:    len(st.names),
		RefsDropped:   st.dropped,
	}
}
