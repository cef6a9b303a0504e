package asset

import "fmt"

// RefKind identifies which table a [Reference] points into.
type RefKind uint8

const (
	// RefNull is the zero reference. It points at nothing.
	RefNull RefKind = iota
	// RefExport points into the package's export table.
	RefExport
	// RefImport points into the package's import table.
	RefImport
)

// String returns a short lowercase label for the kind.
func (k RefKind) String() string {
	switch k {
	case RefExport:
		return "export"
	case RefImport:
		return "import"
	default:
		return "null"
	}
}

// Reference addresses an export, an import, or nothing.
//
// On disk a reference is a single signed integer: zero is null, a positive
// value n selects export n-1 and a negative value n selects import -n-1.
// Reference keeps the table explicit so callers never do sign arithmetic;
// conversion to and from the signed form happens only in [FromRaw] and
// [Reference.Raw], which serializers call at the edge.
//
// The zero value is the null reference.
type Reference struct {
	kind  RefKind
	index int
}

// Null returns the null reference.
func Null() Reference { return Reference{} }

// ExportRef returns a reference to the export at zero-based position i.
func ExportRef(i int) Reference { return Reference{kind: RefExport, index: i} }

// ImportRef returns a reference to the import at zero-based position i.
func ImportRef(i int) Reference { return Reference{kind: RefImport, index: i} }

// FromRaw decodes the signed on-disk form. The arithmetic is done in int so
// that math.MinInt32 maps to import[2147483647].
func FromRaw(raw int32) Reference {
	switch {
	case raw > 0:
		return ExportRef(int(raw) - 1)
	case raw < 0:
		return ImportRef(-int(raw) - 1)
	default:
		return Null()
	}
}

// Raw encodes the reference in its signed on-disk form.
func (r Reference) Raw() int32 {
	switch r.kind {
	case RefExport:
		return int32(r.index + 1)
	case RefImport:
		return -int32(r.index + 1)
	default:
		return 0
	}
}

// Kind reports which table the reference points into.
func (r Reference) Kind() RefKind { return r.kind }

// Index returns the zero-based table position. It is meaningless for null.
func (r Reference) Index() int { return r.index }

func (r Reference) IsNull() bool   { return r.kind == RefNull }
func (r Reference) IsExport() bool { return r.kind == RefExport }
func (r Reference) IsImport() bool { return r.kind == RefImport }

// String formats the reference as e.g. "export[3]" or "import[0]".
func (r Reference) String() string {
	if r.kind == RefNull {
		return "null"
	}
	return fmt.Sprintf("%s[%d]", r.kind, r.index)
}
