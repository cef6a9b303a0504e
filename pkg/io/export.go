package io

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/graft/pkg/asset"
	"github.com/matzehuels/graft/pkg/errors"
	"github.com/matzehuels/graft/pkg/observability"
)

// WriteJSON encodes p as an indented package document and writes it to w.
// The output can be read back with [ReadJSON]. An empty version is written
// as [asset.VersionUnknown].
func WriteJSON(p *asset.Package, w io.Writer) error {
	doc, err := encode(p)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func encode(p *asset.Package) (*document, error) {
	doc := &document{
		Version: p.Version,
		Names:   p.Names,
		Imports: make([]importJS, len(p.Imports)),
		Exports: make([]exportJS, len(p.Exports)),
	}
	if doc.Version == "" {
		doc.Version = asset.VersionUnknown
	}
	if doc.Names == nil {
		doc.Names = []string{}
	}

	for i, imp := range p.Imports {
		doc.Imports[i] = importJS{
			ClassPackage: toName(imp.ClassPackage),
			ClassName:    toName(imp.ClassName),
			ObjectName:   toName(imp.ObjectName),
			Outer:        imp.Outer.Raw(),
		}
	}

	for i := range p.Exports {
		e := &p.Exports[i]
		props, err := encodeProperties(e.Properties)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "export %d", i)
		}
		doc.Exports[i] = exportJS{
			ObjectName:      toName(e.ObjectName),
			Kind:            kindToString[e.Kind],
			Outer:           e.Outer.Raw(),
			Class:           e.Class.Raw(),
			Template:        e.Template.Raw(),
			BeforeCreate:    toRaw(e.BeforeCreate),
			BeforeSerialize: toRaw(e.BeforeSerialize),
			Properties:      props,
			Contained:       toRaw(e.Contained),
		}
	}
	return doc, nil
}

// ExportJSON writes p to path. The document is written to a temporary file
// in the same directory and renamed into place, so a failed write leaves any
// existing file intact. The write is reported to the registered
// [observability.IOHooks].
func ExportJSON(ctx context.Context, p *asset.Package, path string) error {
	start := time.Now()
	size, err := exportJSON(p, path)
	observability.IO().OnWrite(ctx, path, size, time.Since(start), err)
	return err
}

func exportJSON(p *asset.Package, path string) (int, error) {
	var buf bytes.Buffer
	if err := WriteJSON(p, &buf); err != nil {
		return 0, err
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	tmp := f.Name()
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		os.Remove(tmp)
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("rename %s: %w", path, err)
	}
	return buf.Len(), nil
}
