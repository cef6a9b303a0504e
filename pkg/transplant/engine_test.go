package transplant

import (
	"bytes"
	"context"
	"math"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graft/pkg/asset"
	"github.com/matzehuels/graft/pkg/errors"
)

func TestTransplantSingleActor(t *testing.T) {
	donor := newBuilder()
	foo := donor.imp("/Script/Engine", "Class", "Foo", asset.Null())
	root := donor.export(asset.Export{Class: foo}, "RootActor")

	recipient := newBuilder()
	level := recipient.level()

	res, err := Transplant(recipient.p, donor.p, root)
	if err != nil {
		t.Fatalf("Transplant() error = %v", err)
	}

	p := recipient.p
	if len(p.Exports) != 2 {
		t.Fatalf("exports = %d, want 2", len(p.Exports))
	}
	moved := p.Exports[1]
	if moved.Outer != level || moved.Outer.Raw() != 1 {
		t.Errorf("outer = %s (raw %d), want %s (raw 1)", moved.Outer, moved.Outer.Raw(), level)
	}
	if !slices.Equal(moved.BeforeCreate, []asset.Reference{level}) {
		t.Errorf("BeforeCreate = %v, want [%s]", moved.BeforeCreate, level)
	}
	if moved.Class != asset.ImportRef(0) {
		t.Errorf("class = %s, want import[0]", moved.Class)
	}

	keys := importKeys(t, p)
	want := []asset.ImportKey{{ClassPackage: "/Script/Engine", ClassName: "Class", ObjectName: "Foo"}}
	if !slices.Equal(keys, want) {
		t.Errorf("imports = %v, want %v", keys, want)
	}

	lv := p.Exports[0]
	if len(lv.Contained) != 1 || lv.Contained[0].Raw() != 2 {
		t.Errorf("Contained = %v, want [export[1]]", lv.Contained)
	}
	if !slices.Equal(lv.BeforeSerialize, []asset.Reference{asset.ExportRef(1)}) {
		t.Errorf("level BeforeSerialize = %v", lv.BeforeSerialize)
	}

	if res.Root != asset.ExportRef(1) {
		t.Errorf("Result.Root = %s, want export[1]", res.Root)
	}
	if res.Name != "RootActor" || res.Renamed {
		t.Errorf("Result name = %q renamed=%v, want RootActor unrenamed", res.Name, res.Renamed)
	}
	if !res.Parented {
		t.Error("Result.Parented = false, want true")
	}
	if res.Exports != 1 || res.ImportsAdded != 1 || res.ImportsReused != 0 {
		t.Errorf("Result counts = %+v", res)
	}
	mustValidate(t, p)
}

func TestTransplantReusesExistingImport(t *testing.T) {
	recipient := newBuilder()
	recipient.level()
	engine := recipient.imp("/Script/CoreUObject", "Package", "/Script/Engine", asset.Null())
	sma := recipient.imp("/Script/Engine", "Class", "StaticMeshActor", engine)
	importsBefore := len(recipient.p.Imports)

	donor := newBuilder()
	donor.level()
	// Different table order from the recipient.
	mesh := donor.imp("/Script/Engine", "StaticMesh", "SM_Rock", asset.Null())
	dEngine := donor.imp("/Script/CoreUObject", "Package", "/Script/Engine", asset.Null())
	dSma := donor.imp("/Script/Engine", "Class", "StaticMeshActor", dEngine)
	root := donor.export(asset.Export{
		Outer:      asset.ExportRef(0),
		Class:      dSma,
		Properties: []asset.Property{donor.objectProp("StaticMesh", mesh)},
	}, "Rock")

	res, err := Transplant(recipient.p, donor.p, root)
	if err != nil {
		t.Fatalf("Transplant() error = %v", err)
	}

	p := recipient.p
	moved := p.Exports[res.Root.Index()]
	if moved.Class != sma {
		t.Errorf("class = %s, want pre-existing %s", moved.Class, sma)
	}
	if len(p.Imports) != importsBefore+1 {
		t.Fatalf("imports = %d, want %d (only SM_Rock added)", len(p.Imports), importsBefore+1)
	}
	prop := moved.Properties[0].(*asset.ObjectProperty)
	if prop.Value != asset.ImportRef(importsBefore) {
		t.Errorf("StaticMesh = %s, want import[%d]", prop.Value, importsBefore)
	}
	if res.ImportsAdded != 1 || res.ImportsReused != 1 {
		t.Errorf("ImportsAdded=%d ImportsReused=%d, want 1 and 1", res.ImportsAdded, res.ImportsReused)
	}
	mustValidate(t, p)
}

func TestTransplantDeduplicatesWithinCall(t *testing.T) {
	donor := newBuilder()
	donor.level()
	// Two donor slots with the same content.
	matA := donor.imp("/Game/Materials", "Material", "M_Stone", asset.Null())
	matB := donor.imp("/Game/Materials", "Material", "M_Stone", asset.Null())
	root := donor.export(asset.Export{
		Outer:      asset.ExportRef(0),
		Properties: []asset.Property{donor.objectProp("Material", matA)},
	}, "Wall")
	donor.export(asset.Export{
		Outer:      root,
		Properties: []asset.Property{donor.objectProp("OverrideMaterial", matB)},
	}, "WallMesh")

	recipient := newBuilder()
	recipient.level()

	res, err := Transplant(recipient.p, donor.p, root)
	if err != nil {
		t.Fatalf("Transplant() error = %v", err)
	}

	p := recipient.p
	if len(p.Imports) != 1 {
		t.Fatalf("imports = %d, want 1", len(p.Imports))
	}
	if res.Exports != 2 {
		t.Fatalf("Result.Exports = %d, want 2", res.Exports)
	}
	a := p.Exports[1].Properties[0].(*asset.ObjectProperty).Value
	b := p.Exports[2].Properties[0].(*asset.ObjectProperty).Value
	if a != asset.ImportRef(0) || b != asset.ImportRef(0) {
		t.Errorf("material refs = %s, %s, want both import[0]", a, b)
	}
	if p.Exports[2].Outer != res.Root {
		t.Errorf("child outer = %s, want %s", p.Exports[2].Outer, res.Root)
	}
	mustValidate(t, p)
}

func TestTransplantClosesImportChain(t *testing.T) {
	const depth = 5

	donor := newBuilder()
	donor.level()
	// Innermost first: chain[i] is owned by chain[i-1].
	outer := asset.Null()
	var chain []asset.Reference
	for i := range depth {
		outer = donor.imp("/Script/CoreUObject", "Object", "Link"+string(rune('A'+i)), outer)
		chain = append(chain, outer)
	}
	leaf := chain[depth-1]
	root := donor.export(asset.Export{Outer: asset.ExportRef(0), Class: leaf}, "Chained")

	recipient := newBuilder()
	recipient.level()

	res, err := Transplant(recipient.p, donor.p, root)
	if err != nil {
		t.Fatalf("Transplant() error = %v", err)
	}
	p := recipient.p
	if len(p.Imports) != depth || res.ImportsAdded != depth {
		t.Fatalf("imports = %d (ImportsAdded %d), want %d", len(p.Imports), res.ImportsAdded, depth)
	}

	// Follow the chain from the class back to the top.
	ref := p.Exports[res.Root.Index()].Class
	for i := depth - 1; i >= 0; i-- {
		imp, ok := p.GetImport(ref)
		if !ok {
			t.Fatalf("link %d: %s does not resolve", i, ref)
		}
		k, _ := p.ImportKey(imp)
		if want := "Link" + string(rune('A'+i)); k.ObjectName != want {
			t.Errorf("link %d = %q, want %q", i, k.ObjectName, want)
		}
		ref = imp.Outer
	}
	if !ref.IsNull() {
		t.Errorf("top of chain has outer %s, want null", ref)
	}
	mustValidate(t, p)
}

func TestTransplantRenamesCollidingRoot(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		donor    string
		want     string
		renamed  bool
	}{
		{"free name kept", nil, "Cube", "Cube", false},
		{"collision gets suffix", []string{"Cube"}, "Cube", "Cube1", true},
		{"suffix skips taken", []string{"Cube", "Cube1", "Cube2"}, "Cube", "Cube3", true},
		{"numbered name bumped", []string{"Cube4"}, "Cube4", "Cube5", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipient := newBuilder()
			recipient.level()
			for _, s := range tt.existing {
				recipient.name(s)
			}
			before := slices.Clone(recipient.p.Names)

			donor := newBuilder()
			donor.level()
			root := donor.export(asset.Export{Outer: asset.ExportRef(0)}, tt.donor)

			res, err := Transplant(recipient.p, donor.p, root)
			if err != nil {
				t.Fatalf("Transplant() error = %v", err)
			}
			if res.Name != tt.want || res.Renamed != tt.renamed {
				t.Errorf("name = %q renamed=%v, want %q renamed=%v", res.Name, res.Renamed, tt.want, tt.renamed)
			}
			if tt.renamed && slices.Contains(before, res.Name) {
				t.Errorf("new name %q was already in the recipient", res.Name)
			}
			got, _ := recipient.p.NameString(recipient.p.Exports[res.Root.Index()].ObjectName)
			if got != tt.want {
				t.Errorf("stored name = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransplantRenamedRootDropsNumber(t *testing.T) {
	recipient := newBuilder()
	recipient.level()
	recipient.name("Lamp")

	donor := newBuilder()
	donor.level()
	root := donor.export(asset.Export{Outer: asset.ExportRef(0)}, "Lamp")
	donor.p.Exports[root.Index()].ObjectName.Number = 3

	res, err := Transplant(recipient.p, donor.p, root)
	if err != nil {
		t.Fatalf("Transplant() error = %v", err)
	}
	if n := recipient.p.Exports[res.Root.Index()].ObjectName.Number; n != 0 {
		t.Errorf("Number = %d, want 0", n)
	}
	if res.Name != "Lamp1" {
		t.Errorf("Name = %q, want Lamp1", res.Name)
	}
}

func TestTransplantContainerBookkeeping(t *testing.T) {
	recipient := newBuilder()
	level := recipient.level()
	existing := recipient.export(asset.Export{Outer: level}, "Floor")
	lv := &recipient.p.Exports[level.Index()]
	lv.Contained = []asset.Reference{existing}
	lv.BeforeSerialize = []asset.Reference{existing}

	donor := newBuilder()
	donor.level()
	root := donor.export(asset.Export{Outer: asset.ExportRef(0)}, "Chair")

	for i := 1; i <= 3; i++ {
		res, err := Transplant(recipient.p, donor.p, root)
		if err != nil {
			t.Fatalf("transplant %d: %v", i, err)
		}
		lv := recipient.p.Exports[level.Index()]
		if len(lv.Contained) != 1+i || len(lv.BeforeSerialize) != 1+i {
			t.Fatalf("after %d: Contained=%d BeforeSerialize=%d, want %d", i, len(lv.Contained), len(lv.BeforeSerialize), 1+i)
		}
		if lv.Contained[i] != res.Root || lv.BeforeSerialize[i] != res.Root {
			t.Errorf("after %d: last entries %s/%s, want %s", i, lv.Contained[i], lv.BeforeSerialize[i], res.Root)
		}
	}

	got := make([]string, 0)
	for _, a := range asset.DescribeActors(recipient.p) {
		got = append(got, a.Name)
	}
	want := []string{"Floor", "Chair", "Chair1", "Chair2"}
	if !slices.Equal(got, want) {
		t.Errorf("actors = %v, want %v", got, want)
	}
	mustValidate(t, recipient.p)
}

func TestTransplantWithoutLevel(t *testing.T) {
	recipient := newBuilder()
	recipient.name("Orphans")

	donor := newBuilder()
	donor.level()
	root := donor.export(asset.Export{
		Outer:        asset.ExportRef(0),
		BeforeCreate: []asset.Reference{asset.ExportRef(0)},
	}, "Tree")

	res, err := Transplant(recipient.p, donor.p, root)
	if err != nil {
		t.Fatalf("Transplant() error = %v", err)
	}
	if res.Parented {
		t.Error("Parented = true, want false")
	}
	moved := recipient.p.Exports[res.Root.Index()]
	if !moved.Outer.IsNull() {
		t.Errorf("outer = %s, want null", moved.Outer)
	}
	if len(moved.BeforeCreate) != 0 {
		t.Errorf("BeforeCreate = %v, want empty", moved.BeforeCreate)
	}
	mustValidate(t, recipient.p)
}

func TestTransplantMovesSubtree(t *testing.T) {
	donor := newBuilder()
	donor.level()
	sibling := donor.export(asset.Export{Outer: asset.ExportRef(0)}, "Sibling")
	root := donor.export(asset.Export{Outer: asset.ExportRef(0)}, "Car")
	body := donor.export(asset.Export{Outer: root, BeforeCreate: []asset.Reference{root}}, "Body")
	donor.export(asset.Export{
		Outer: body,
		Properties: []asset.Property{
			donor.objectProp("Attach", root),
			donor.objectProp("Neighbour", sibling),
		},
	}, "Wheel")
	donor.p.Exports[root.Index()].Properties = []asset.Property{donor.objectProp("RootComponent", body)}

	recipient := newBuilder()
	recipient.level()
	recipient.export(asset.Export{Outer: asset.ExportRef(0)}, "Ground")

	res, err := Transplant(recipient.p, donor.p, root)
	if err != nil {
		t.Fatalf("Transplant() error = %v", err)
	}
	if res.Exports != 3 {
		t.Fatalf("Result.Exports = %d, want 3", res.Exports)
	}

	p := recipient.p
	car, bodyRef, wheelRef := asset.ExportRef(2), asset.ExportRef(3), asset.ExportRef(4)
	if res.Root != car {
		t.Errorf("Root = %s, want %s", res.Root, car)
	}
	if got := p.Exports[2].Properties[0].(*asset.ObjectProperty).Value; got != bodyRef {
		t.Errorf("RootComponent = %s, want %s", got, bodyRef)
	}
	if p.Exports[3].Outer != car || !slices.Equal(p.Exports[3].BeforeCreate, []asset.Reference{car}) {
		t.Errorf("body ownership = %s %v", p.Exports[3].Outer, p.Exports[3].BeforeCreate)
	}
	w := p.Exports[wheelRef.Index()]
	if w.Outer != bodyRef {
		t.Errorf("wheel outer = %s, want %s", w.Outer, bodyRef)
	}
	if got := w.Properties[0].(*asset.ObjectProperty).Value; got != car {
		t.Errorf("Attach = %s, want %s", got, car)
	}
	if got := w.Properties[1].(*asset.ObjectProperty).Value; !got.IsNull() {
		t.Errorf("Neighbour = %s, want null", got)
	}
	if res.RefsDropped != 1 {
		t.Errorf("Result.RefsDropped = %d, want 1 (Neighbour only)", res.RefsDropped)
	}
	mustValidate(t, p)
}

func TestTransplantLeavesDonorUntouched(t *testing.T) {
	donor := newBuilder()
	donor.level()
	mat := donor.imp("/Game", "Material", "M_Glass", asset.Null())
	root := donor.export(asset.Export{
		Outer:      asset.ExportRef(0),
		Properties: []asset.Property{donor.objectProp("Material", mat)},
	}, "Window")
	snapshot := donor.p.Clone()

	recipient := newBuilder()
	recipient.level()
	if _, err := Transplant(recipient.p, donor.p, root); err != nil {
		t.Fatalf("Transplant() error = %v", err)
	}
	if !reflect.DeepEqual(donor.p, snapshot) {
		t.Error("donor was modified")
	}
}

func TestTransplantErrorsLeaveRecipientUnchanged(t *testing.T) {
	donorWith := func(mutate func(b *builder) asset.Reference) (*asset.Package, asset.Reference) {
		b := newBuilder()
		b.level()
		return b.p, mutate(b)
	}

	tests := []struct {
		name  string
		setup func(b *builder) asset.Reference
		code  errors.Code
	}{
		{
			name:  "missing root",
			setup: func(b *builder) asset.Reference { return asset.ExportRef(42) },
			code:  errors.ErrCodeMissingRoot,
		},
		{
			name:  "null root",
			setup: func(b *builder) asset.Reference { return asset.Null() },
			code:  errors.ErrCodeInvalidRoot,
		},
		{
			name: "import root",
			setup: func(b *builder) asset.Reference {
				return b.imp("/Script/Engine", "Class", "Actor", asset.Null())
			},
			code: errors.ErrCodeInvalidRoot,
		},
		{
			name:  "level root",
			setup: func(b *builder) asset.Reference { return asset.ExportRef(0) },
			code:  errors.ErrCodeInvalidRoot,
		},
		{
			name: "dangling class import",
			setup: func(b *builder) asset.Reference {
				return b.export(asset.Export{Outer: asset.ExportRef(0), Class: asset.ImportRef(7)}, "Ghost")
			},
			code: errors.ErrCodeDanglingImport,
		},
		{
			name: "dangling import nested in struct",
			setup: func(b *builder) asset.Reference {
				nested := &asset.StructProperty{
					PropertyTag: asset.PropertyTag{Name: b.name("Settings")},
					StructType:  b.name("Vector"),
					Value:       []asset.Property{b.objectProp("Target", asset.ImportRef(3))},
				}
				return b.export(asset.Export{Outer: asset.ExportRef(0), Properties: []asset.Property{nested}}, "Ghost")
			},
			code: errors.ErrCodeDanglingImport,
		},
		{
			name: "dangling import outer",
			setup: func(b *builder) asset.Reference {
				cls := b.imp("/Script/Engine", "Class", "Heater", asset.ImportRef(9))
				return b.export(asset.Export{Outer: asset.ExportRef(0), Class: cls}, "Ghost")
			},
			code: errors.ErrCodeDanglingImport,
		},
		{
			name: "most negative raw class",
			setup: func(b *builder) asset.Reference {
				return b.export(asset.Export{Outer: asset.ExportRef(0), Class: asset.FromRaw(math.MinInt32)}, "Ghost")
			},
			code: errors.ErrCodeDanglingImport,
		},
		{
			name: "negative import index",
			setup: func(b *builder) asset.Reference {
				return b.export(asset.Export{Outer: asset.ExportRef(0), Template: asset.ImportRef(-5)}, "Ghost")
			},
			code: errors.ErrCodeDanglingImport,
		},
		{
			name: "class left behind in donor",
			setup: func(b *builder) asset.Reference {
				bp := b.export(asset.Export{Outer: asset.ExportRef(0)}, "Lamp_C")
				return b.export(asset.Export{Outer: asset.ExportRef(0), Class: bp}, "Lamp")
			},
			code: errors.ErrCodeInvalidReference,
		},
		{
			name: "template left behind in donor",
			setup: func(b *builder) asset.Reference {
				arch := b.export(asset.Export{Outer: asset.ExportRef(0)}, "Default__Lamp_C")
				return b.export(asset.Export{Outer: asset.ExportRef(0), Template: arch}, "Lamp")
			},
			code: errors.ErrCodeInvalidReference,
		},
		{
			name: "export ref beyond table",
			setup: func(b *builder) asset.Reference {
				return b.export(asset.Export{
					Outer:      asset.ExportRef(0),
					Properties: []asset.Property{b.objectProp("Target", asset.ExportRef(99))},
				}, "Ghost")
			},
			code: errors.ErrCodeInvalidReference,
		},
		{
			name: "name beyond table",
			setup: func(b *builder) asset.Reference {
				ref := b.export(asset.Export{Outer: asset.ExportRef(0)}, "Ghost")
				b.p.Exports[ref.Index()].Properties = []asset.Property{
					&asset.IntProperty{PropertyTag: asset.PropertyTag{Name: asset.Name{Index: 500}}},
				}
				return ref
			},
			code: errors.ErrCodeInvalidReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipient := newBuilder()
			recipient.level()
			recipient.imp("/Script/Engine", "Class", "Light", asset.Null())
			before := recipient.p.Clone()

			donor, root := donorWith(tt.setup)
			res, err := New(nil).Transplant(context.Background(), recipient.p, donor, root)
			if err == nil {
				t.Fatalf("Transplant() = %+v, want error", res)
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s (err: %v)", errors.GetCode(err), tt.code, err)
			}
			if !reflect.DeepEqual(recipient.p, before) {
				t.Error("recipient was modified by a failed transplant")
			}
		})
	}
}

func TestTransplantPreservesExistingEntries(t *testing.T) {
	recipient := newBuilder()
	level := recipient.level()
	cls := recipient.imp("/Script/Engine", "Class", "PointLight", asset.Null())
	recipient.export(asset.Export{Outer: level, Class: cls}, "Light")
	before := recipient.p.Clone()

	donor := newBuilder()
	donor.level()
	dcls := donor.imp("/Script/Engine", "Class", "SpotLight", asset.Null())
	root := donor.export(asset.Export{Outer: asset.ExportRef(0), Class: dcls}, "Light")

	if _, err := Transplant(recipient.p, donor.p, root); err != nil {
		t.Fatalf("Transplant() error = %v", err)
	}

	p := recipient.p
	if !slices.Equal(p.Names[:len(before.Names)], before.Names) {
		t.Error("existing names changed")
	}
	if !reflect.DeepEqual(p.Imports[:len(before.Imports)], before.Imports) {
		t.Error("existing imports changed")
	}
	// Only the level's two dependency lists may grow.
	for i := 1; i < len(before.Exports); i++ {
		if !reflect.DeepEqual(p.Exports[i], before.Exports[i]) {
			t.Errorf("export %d changed", i)
		}
	}
	mustValidate(t, p)
}

func TestEngineLogging(t *testing.T) {
	if New(nil).Logger == log.Default() {
		t.Error("New(nil) should not log to the default logger")
	}

	donor := newBuilder()
	donor.level()
	sibling := donor.export(asset.Export{Outer: asset.ExportRef(0)}, "Sibling")
	root := donor.export(asset.Export{
		Outer:           asset.ExportRef(0),
		BeforeSerialize: []asset.Reference{sibling},
		Properties:      []asset.Property{donor.objectProp("Target", sibling)},
	}, "Turret")
	recipient := newBuilder()
	recipient.level()

	var buf bytes.Buffer
	res, err := New(log.New(&buf)).Transplant(context.Background(), recipient.p, donor.p, root)
	if err != nil {
		t.Fatalf("Transplant() error = %v", err)
	}
	if res.RefsDropped != 2 {
		t.Errorf("Result.RefsDropped = %d, want 2", res.RefsDropped)
	}
	if got := recipient.p.Exports[res.Root.Index()].BeforeSerialize; len(got) != 0 {
		t.Errorf("BeforeSerialize = %v, want the sibling entry removed", got)
	}
	if out := buf.String(); !strings.Contains(out, "WARN") || !strings.Contains(out, "count=2") {
		t.Errorf("log output %q missing dropped-reference warning", out)
	}
}
