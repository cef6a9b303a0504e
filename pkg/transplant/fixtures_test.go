package transplant

import (
	"testing"

	"github.com/matzehuels/graft/pkg/asset"
)

// builder grows a package table by table for tests.
type builder struct {
	p *asset.Package
}

func newBuilder() *builder {
	return &builder{p: &asset.Package{Version: "5.1"}}
}

func (b *builder) name(s string) asset.Name { return b.p.AddName(s) }

func (b *builder) imp(classPackage, className, objectName string, outer asset.Reference) asset.Reference {
	b.p.Imports = append(b.p.Imports, asset.Import{
		ClassPackage: b.name(classPackage),
		ClassName:    b.name(className),
		ObjectName:   b.name(objectName),
		Outer:        outer,
	})
	return asset.ImportRef(len(b.p.Imports) - 1)
}

func (b *builder) export(e asset.Export, objectName string) asset.Reference {
	e.ObjectName = b.name(objectName)
	b.p.Exports = append(b.p.Exports, e)
	return asset.ExportRef(len(b.p.Exports) - 1)
}

func (b *builder) level() asset.Reference {
	return b.export(asset.Export{Kind: asset.ExportLevel}, "PersistentLevel")
}

func (b *builder) objectProp(name string, ref asset.Reference) *asset.ObjectProperty {
	return &asset.ObjectProperty{PropertyTag: asset.PropertyTag{Name: b.name(name)}, Value: ref}
}

// importKeys resolves every import of p for assertions.
func importKeys(t *testing.T, p *asset.Package) []asset.ImportKey {
	t.Helper()
	keys := make([]asset.ImportKey, len(p.Imports))
	for i := range p.Imports {
		k, err := p.ImportKey(&p.Imports[i])
		if err != nil {
			t.Fatalf("import %d: %v", i, err)
		}
		keys[i] = k
	}
	return keys
}

func mustValidate(t *testing.T, p *asset.Package) {
	t.Helper()
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}
