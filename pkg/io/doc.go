// Package io reads and writes package documents, the JSON rendition of an
// [asset.Package]: engine version, name table, import table and export
// table. An external extractor produces them from the binary package
// format. Output is indented with one field per line and re-reads to an
// identical package.
//
// # References
//
// References are stored in their raw signed form: 0 is null, a positive n
// selects export n-1 and a negative n selects import -n-1. Conversion to
// [asset.Reference] happens only in this package.
//
// # Names
//
// Every name field is an object {"index": i, "number": n} indexing the
// document's "names" array. "number" is omitted when zero.
//
// # Properties
//
// Each property is an object tagged by "type" (e.g. "ObjectProperty",
// "StructProperty"). Scalar payloads live in "value"; container variants
// nest further property objects in "value" and, for sets and maps,
// "removed". Type names not listed in [asset] are rejected.
//
//	{"type": "ObjectProperty", "name": {"index": 7}, "value": -3}
//	{"type": "StructProperty", "name": {"index": 8}, "struct_type": {"index": 9},
//	 "value": [{"type": "FloatProperty", "name": {"index": 10}, "value": 1.5}]}
//
// # Reading and writing
//
// [ImportJSON] and [ReadJSON] reject documents whose references or names do
// not resolve; the error wraps an [*asset.ValidationError] listing every
// problem. [ExportJSON] replaces its target atomically; [WriteJSON] takes
// any io.Writer. None of them may race with a goroutine mutating the
// package.
package io
