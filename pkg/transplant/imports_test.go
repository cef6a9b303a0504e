package transplant

import (
	"context"
	"testing"

	"github.com/matzehuels/graft/pkg/asset"
	"github.com/matzehuels/graft/pkg/errors"
	"github.com/matzehuels/graft/pkg/observability"
)

type queuedHooks struct {
	observability.NoopTransplantHooks
	keys []string
}

func (h *queuedHooks) OnImportQueued(_ context.Context, key string) {
	h.keys = append(h.keys, key)
}

func TestImportResolver(t *testing.T) {
	recipient := newBuilder()
	existing := recipient.imp("/Script/Engine", "Class", "Actor", asset.Null())

	donor := newBuilder()
	pkg := donor.imp("/Script/CoreUObject", "Package", "/Script/Engine", asset.Null())
	actor := donor.imp("/Script/Engine", "Class", "Actor", pkg)
	light := donor.imp("/Script/Engine", "Class", "Light", pkg)

	hooks := &queuedHooks{}
	observability.SetTransplantHooks(hooks)
	t.Cleanup(observability.Reset)

	r := newImportResolver(context.Background(), recipient.p, donor.p)

	got, err := r.resolve(actor)
	if err != nil || got != existing {
		t.Fatalf("resolve(actor) = %s, %v; want %s", got, err, existing)
	}
	got, err = r.resolve(light)
	if err != nil || got != asset.ImportRef(1) {
		t.Fatalf("resolve(light) = %s, %v; want import[1]", got, err)
	}
	// A second request for the same content returns the queued slot.
	if again, _ := r.resolve(light); again != got {
		t.Errorf("resolve(light) again = %s, want %s", again, got)
	}

	if err := r.close(); err != nil {
		t.Fatalf("close() error = %v", err)
	}
	if len(r.queue) != 2 {
		t.Fatalf("queue = %d entries, want 2 (Light and its package)", len(r.queue))
	}
	if r.queue[0].Outer != asset.ImportRef(2) {
		t.Errorf("Light outer = %s, want import[2]", r.queue[0].Outer)
	}
	if !r.queue[1].Outer.IsNull() {
		t.Errorf("package outer = %s, want null", r.queue[1].Outer)
	}
	if len(r.reused) != 1 {
		t.Errorf("reused = %d, want 1", len(r.reused))
	}

	want := []string{"/Script/Engine.Class'Light'", "/Script/CoreUObject.Package'/Script/Engine'"}
	if len(hooks.keys) != len(want) {
		t.Fatalf("queued hooks = %v, want %v", hooks.keys, want)
	}
	for i := range want {
		if hooks.keys[i] != want[i] {
			t.Errorf("hook %d = %q, want %q", i, hooks.keys[i], want[i])
		}
	}
}

func TestImportResolverErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(b *builder) asset.Reference
	}{
		{
			name:  "missing slot",
			setup: func(b *builder) asset.Reference { return asset.ImportRef(3) },
		},
		{
			name: "unresolvable names",
			setup: func(b *builder) asset.Reference {
				b.p.Imports = append(b.p.Imports, asset.Import{ObjectName: asset.Name{Index: 99}})
				return asset.ImportRef(len(b.p.Imports) - 1)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			donor := newBuilder()
			ref := tt.setup(donor)
			r := newImportResolver(context.Background(), &asset.Package{}, donor.p)
			_, err := r.resolve(ref)
			if !errors.Is(err, errors.ErrCodeDanglingImport) {
				t.Errorf("resolve() error = %v, want DANGLING_IMPORT", err)
			}
		})
	}
}

func TestImportResolverRejectsExportOuter(t *testing.T) {
	donor := newBuilder()
	donor.level()
	ref := donor.imp("/Game", "Blueprint", "BP_Door", asset.ExportRef(0))

	r := newImportResolver(context.Background(), &asset.Package{}, donor.p)
	if _, err := r.resolve(ref); err != nil {
		t.Fatalf("resolve() error = %v", err)
	}
	if err := r.close(); !errors.Is(err, errors.ErrCodeDanglingImport) {
		t.Errorf("close() error = %v, want DANGLING_IMPORT", err)
	}
}
