package asset

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownExport is returned when a reference selects an export slot
	// that does not exist.
	ErrUnknownExport = errors.New("unknown export")

	// ErrUnknownImport is returned when a reference selects an import slot
	// that does not exist.
	ErrUnknownImport = errors.New("unknown import")

	// ErrUnknownName is returned when a [Name] indexes past the name table.
	ErrUnknownName = errors.New("unknown name")

	// ErrMisplacedContained is returned by [Package.Validate] when a
	// non-level export carries a contained-object list.
	ErrMisplacedContained = errors.New("contained list on non-level export")
)

// Name is an interned string: an index into the owning package's name table
// plus a disambiguating number. A Name is only meaningful together with the
// package whose table it indexes.
type Name struct {
	Index  int32
	Number int32
}

// ExportKind distinguishes the export variants the engine cares about.
type ExportKind uint8

const (
	// ExportNormal is an object serialized as a tagged property list.
	ExportNormal ExportKind = iota
	// ExportLevel is the container export that lists the actors it holds.
	ExportLevel
	// ExportRaw is an export whose payload is opaque. It carries no properties.
	ExportRaw
)

// String returns a lowercase label for the kind.
func (k ExportKind) String() string {
	switch k {
	case ExportLevel:
		return "level"
	case ExportRaw:
		return "raw"
	default:
		return "normal"
	}
}

// Export is an object defined in the package.
type Export struct {
	ObjectName Name
	Kind       ExportKind

	Outer    Reference // owning container
	Class    Reference
	Template Reference

	// BeforeCreate lists objects that must exist before this one is constructed.
	BeforeCreate []Reference
	// BeforeSerialize lists objects that must exist before this one is serialized.
	BeforeSerialize []Reference

	// Properties is nil for raw exports.
	Properties []Property

	// Contained lists the actors held by a level export. Always nil for
	// other kinds.
	Contained []Reference
}

// IsLevel reports whether the export is the level container.
func (e *Export) IsLevel() bool { return e.Kind == ExportLevel }

// Clone returns a deep copy of the export.
func (e *Export) Clone() Export {
	out := *e
	out.BeforeCreate = slices.Clone(e.BeforeCreate)
	out.BeforeSerialize = slices.Clone(e.BeforeSerialize)
	out.Contained = slices.Clone(e.Contained)
	out.Properties = cloneProperties(e.Properties)
	return out
}

// Import is an object defined in another package, identified by the triple
// (class package, class name, object name) plus its own owning container.
type Import struct {
	ClassPackage Name
	ClassName    Name
	ObjectName   Name
	Outer        Reference
}

// ImportKey is the resolved content triple of an import. Two imports with
// equal keys denote the same external object regardless of table position.
type ImportKey struct {
	ClassPackage string
	ClassName    string
	ObjectName   string
}

// String formats the key as "ClassPackage.ClassName'ObjectName'".
func (k ImportKey) String() string {
	return fmt.Sprintf("%s.%s'%s'", k.ClassPackage, k.ClassName, k.ObjectName)
}

// Package is one serialized unit: exports, imports and the name table they
// share. Package is not safe for concurrent mutation.
type Package struct {
	// Version is the engine version label the package was written with.
	Version string

	Names   []string
	Imports []Import
	Exports []Export
}

// NameString returns the string n interns, or false if n.Index is out of range.
func (p *Package) NameString(n Name) (string, bool) {
	if n.Index < 0 || int(n.Index) >= len(p.Names) {
		return "", false
	}
	return p.Names[n.Index], true
}

// DisplayName formats n the way the engine shows object names: the
// interned string, followed by "_<Number-1>" when Number is positive.
func (p *Package) DisplayName(n Name) string {
	s, ok := p.NameString(n)
	if !ok {
		return fmt.Sprintf("<name %d>", n.Index)
	}
	if n.Number > 0 {
		return fmt.Sprintf("%s_%d", s, n.Number-1)
	}
	return s
}

// SearchName returns the table index of s.
func (p *Package) SearchName(s string) (int32, bool) {
	i := slices.Index(p.Names, s)
	if i < 0 {
		return 0, false
	}
	return int32(i), true
}

// AddName interns s, reusing an existing entry when present.
func (p *Package) AddName(s string) Name {
	if i, ok := p.SearchName(s); ok {
		return Name{Index: i}
	}
	p.Names = append(p.Names, s)
	return Name{Index: int32(len(p.Names) - 1)}
}

// GetImport returns the import r selects. It returns false for null and
// export references and for out-of-range import references.
func (p *Package) GetImport(r Reference) (*Import, bool) {
	if !r.IsImport() || !inRange(r.Index(), len(p.Imports)) {
		return nil, false
	}
	return &p.Imports[r.Index()], true
}

// GetExport returns the export r selects.
func (p *Package) GetExport(r Reference) (*Export, bool) {
	if !r.IsExport() || !inRange(r.Index(), len(p.Exports)) {
		return nil, false
	}
	return &p.Exports[r.Index()], true
}

func inRange(i, n int) bool { return i >= 0 && i < n }

// ImportKey resolves the content triple of imp against this package's name
// table. It fails with [ErrUnknownName] when any of the three names is out
// of range.
func (p *Package) ImportKey(imp *Import) (ImportKey, error) {
	cp, ok1 := p.NameString(imp.ClassPackage)
	cn, ok2 := p.NameString(imp.ClassName)
	on, ok3 := p.NameString(imp.ObjectName)
	if !ok1 || !ok2 || !ok3 {
		return ImportKey{}, ErrUnknownName
	}
	return ImportKey{ClassPackage: cp, ClassName: cn, ObjectName: on}, nil
}

// FindImportByContent returns the position of the first import whose triple
// equals (classPackage, className, objectName).
func (p *Package) FindImportByContent(classPackage, className, objectName string) (int, bool) {
	want := ImportKey{ClassPackage: classPackage, ClassName: className, ObjectName: objectName}
	for i := range p.Imports {
		k, err := p.ImportKey(&p.Imports[i])
		if err == nil && k == want {
			return i, true
		}
	}
	return 0, false
}

// LevelIndex returns the position of the first level export.
func (p *Package) LevelIndex() (int, bool) {
	for i := range p.Exports {
		if p.Exports[i].IsLevel() {
			return i, true
		}
	}
	return 0, false
}

// ObjectName returns the display name of the object r selects, resolving
// imports and exports alike. Null yields "None".
func (p *Package) ObjectName(r Reference) string {
	switch {
	case r.IsNull():
		return "None"
	case r.IsExport():
		if e, ok := p.GetExport(r); ok {
			return p.DisplayName(e.ObjectName)
		}
	case r.IsImport():
		if imp, ok := p.GetImport(r); ok {
			return p.DisplayName(imp.ObjectName)
		}
	}
	return "<" + r.String() + ">"
}

// Clone returns a deep copy of the package.
func (p *Package) Clone() *Package {
	out := &Package{
		Version: p.Version,
		Names:   slices.Clone(p.Names),
		Imports: slices.Clone(p.Imports),
		Exports: make([]Export, len(p.Exports)),
	}
	for i := range p.Exports {
		out.Exports[i] = p.Exports[i].Clone()
	}
	return out
}
