// Package asset models an engine object package: its exports, imports and
// name table, and the references that tie them together.
//
// # References
//
// Objects point at each other through [Reference] values. On disk a
// reference is one signed integer whose sign selects the table (positive for
// exports, negative for imports, zero for null). Inside this module a
// Reference is a small tagged value built with [ExportRef], [ImportRef] or
// [Null]; [FromRaw] and [Reference.Raw] convert at serialization edges.
//
//	r := asset.FromRaw(-1)   // import[0]
//	r.IsImport()             // true
//	asset.ExportRef(0).Raw() // 1
//
// # Walking
//
// [Export.WalkReferences] visits every reference slot a transplant must
// rewrite outside the ownership data: the class, the template, the
// before-serialization dependencies and every reference nested in the
// property tree. [Export.WalkOwnership] covers the outer and the
// before-construction dependencies, and [Export.WalkNames] covers
// name-table references. Walkers never consult the tables; resolution is the
// caller's job.
//
// # Properties
//
// [Property] is a closed set of variants. Container variants
// ([StructProperty], [ArrayProperty], [SetProperty], [MapProperty]) nest
// further properties to arbitrary depth and are walked recursively.
//
// # Integrity
//
// [Package.Validate] checks that every reference and name resolves and
// returns all violations at once as a [*ValidationError].
package asset
