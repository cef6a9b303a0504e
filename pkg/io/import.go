package io

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/graft/pkg/asset"
	"github.com/matzehuels/graft/pkg/errors"
	"github.com/matzehuels/graft/pkg/observability"
)

// ReadJSON decodes a package document from r.
//
// The input must be a JSON object with "names", "imports" and "exports"
// arrays:
//
//	{
//	  "version": "5.1",
//	  "names": ["PersistentLevel", "/Script/Engine", "Class", "PointLight", "Lamp"],
//	  "imports": [{"class_package": {"index": 1}, "class_name": {"index": 2},
//	               "object_name": {"index": 3}, "outer": 0}],
//	  "exports": [{"object_name": {"index": 0}, "kind": "level",
//	               "outer": 0, "class": 0, "template": 0, "contained": [2]},
//	              {"object_name": {"index": 4}, "outer": 1, "class": -1,
//	               "template": 0, "before_create": [1]}]
//	}
//
// ReadJSON returns an error if:
//   - The JSON is malformed (INVALID_FORMAT)
//   - The version label is not one of [asset.Versions] (INVALID_VERSION)
//   - An export kind or property type is unknown (INVALID_FORMAT)
//   - A reference or name does not resolve (INVALID_REFERENCE); the error
//     wraps an [*asset.ValidationError] listing every problem
//
// The returned package is independent of r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*asset.Package, error) {
	p, err := decode(r)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidReference, err, "package does not resolve")
	}
	return p, nil
}

func decode(r io.Reader) (*asset.Package, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}
	if !asset.KnownVersion(doc.Version) {
		return nil, errors.New(errors.ErrCodeInvalidVersion, "unknown engine version %q", doc.Version)
	}

	p := &asset.Package{
		Version: doc.Version,
		Names:   doc.Names,
		Imports: make([]asset.Import, len(doc.Imports)),
		Exports: make([]asset.Export, len(doc.Exports)),
	}
	if p.Version == "" {
		p.Version = asset.VersionUnknown
	}

	for i, imp := range doc.Imports {
		p.Imports[i] = asset.Import{
			ClassPackage: fromName(imp.ClassPackage),
			ClassName:    fromName(imp.ClassName),
			ObjectName:   fromName(imp.ObjectName),
			Outer:        asset.FromRaw(imp.Outer),
		}
	}

	for i := range doc.Exports {
		e := &doc.Exports[i]
		kind, ok := kindFromString[e.Kind]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "export %d: unknown kind %q", i, e.Kind)
		}
		props, err := decodeProperties(e.Properties)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "export %d", i)
		}
		p.Exports[i] = asset.Export{
			ObjectName:      fromName(e.ObjectName),
			Kind:            kind,
			Outer:           asset.FromRaw(e.Outer),
			Class:           asset.FromRaw(e.Class),
			Template:        asset.FromRaw(e.Template),
			BeforeCreate:    fromRaw(e.BeforeCreate),
			BeforeSerialize: fromRaw(e.BeforeSerialize),
			Properties:      props,
			Contained:       fromRaw(e.Contained),
		}
	}
	return p, nil
}

// ImportJSON reads the package document at path.
//
// ImportJSON returns FILE_NOT_FOUND when path does not exist and otherwise
// the same errors as [ReadJSON]. The read is reported to the registered
// [observability.IOHooks].
func ImportJSON(ctx context.Context, path string) (*asset.Package, error) {
	start := time.Now()
	p, err := importJSON(path)

	var exports, imports int
	if p != nil {
		exports, imports = len(p.Exports), len(p.Imports)
	}
	observability.IO().OnRead(ctx, path, exports, imports, time.Since(start), err)
	return p, err
}

func importJSON(path string) (*asset.Package, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	p, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
