package asset

import (
	"slices"
	"testing"
)

func tag(i int32) PropertyTag { return PropertyTag{Name: Name{Index: i}} }

// nestedExport holds one reference of every reachable kind; the raw value of
// each reference is unique so visits can be counted.
func nestedExport() *Export {
	enumValue := Name{Index: 14}
	return &Export{
		ObjectName:      Name{Index: 1},
		Outer:           ExportRef(90),
		Class:           ImportRef(0),
		Template:        ImportRef(1),
		BeforeCreate:    []Reference{ExportRef(91)},
		BeforeSerialize: []Reference{ImportRef(2), ExportRef(3)},
		Contained:       []Reference{ExportRef(92)},
		Properties: []Property{
			&ObjectProperty{PropertyTag: tag(2), Value: ExportRef(4)},
			&InterfaceProperty{PropertyTag: tag(3), Value: ImportRef(5)},
			&DelegateProperty{PropertyTag: tag(4), Value: Delegate{Object: ExportRef(6), Function: Name{Index: 15}}},
			&MulticastDelegateProperty{PropertyTag: tag(5), Value: []Delegate{{Object: ExportRef(7), Function: Name{Index: 16}}}},
			&StructProperty{PropertyTag: tag(6), StructType: Name{Index: 17}, Value: []Property{
				&ArrayProperty{PropertyTag: tag(7), ElementType: Name{Index: 18}, Value: []Property{
					&ObjectProperty{PropertyTag: tag(8), Value: ImportRef(8)},
				}},
			}},
			&SetProperty{PropertyTag: tag(9), ElementType: Name{Index: 19},
				Value:   []Property{&ObjectProperty{PropertyTag: tag(10), Value: ExportRef(9)}},
				Removed: []Property{&ObjectProperty{PropertyTag: tag(10), Value: ExportRef(10)}},
			},
			&MapProperty{PropertyTag: tag(11), KeyType: Name{Index: 20}, ValueType: Name{Index: 21},
				Value: []MapEntry{{
					Key:   &NameProperty{PropertyTag: tag(12), Value: Name{Index: 22}},
					Value: &ObjectProperty{PropertyTag: tag(12), Value: ImportRef(11)},
				}},
				Removed: []Property{&ObjectProperty{PropertyTag: tag(12), Value: ExportRef(12)}},
			},
			&ByteProperty{PropertyTag: tag(13), EnumType: Name{Index: 23}, EnumValue: &enumValue},
			&IntProperty{PropertyTag: tag(24), Value: 3},
		},
	}
}

func collectRefs(walk func(func(*Reference))) []Reference {
	var out []Reference
	walk(func(r *Reference) { out = append(out, *r) })
	return out
}

func TestWalkReferences(t *testing.T) {
	e := nestedExport()
	got := collectRefs(e.WalkReferences)

	want := []Reference{
		ImportRef(0), ImportRef(1), ImportRef(2), ExportRef(3),
		ExportRef(4), ImportRef(5), ExportRef(6), ExportRef(7), ImportRef(8),
		ExportRef(9), ExportRef(10), ImportRef(11), ExportRef(12),
	}
	if !slices.Equal(got, want) {
		t.Errorf("WalkReferences visited\n  %v\nwant\n  %v", got, want)
	}

	for _, skipped := range []Reference{ExportRef(90), ExportRef(91), ExportRef(92)} {
		if slices.Contains(got, skipped) {
			t.Errorf("WalkReferences visited %v, which belongs to ownership or Contained", skipped)
		}
	}
}

func TestWalkOwnership(t *testing.T) {
	got := collectRefs(nestedExport().WalkOwnership)
	if want := []Reference{ExportRef(90), ExportRef(91)}; !slices.Equal(got, want) {
		t.Errorf("WalkOwnership visited %v, want %v", got, want)
	}
}

func TestWalkAllCoversEverySlot(t *testing.T) {
	e := nestedExport()
	got := collectRefs(e.WalkAll)
	if len(got) != 16 {
		t.Errorf("WalkAll visited %d slots, want 16", len(got))
	}
	if got[len(got)-1] != ExportRef(92) {
		t.Errorf("WalkAll should end with Contained, got %v", got[len(got)-1])
	}
}

func TestWalkReferencesRewritesInPlace(t *testing.T) {
	e := nestedExport()
	e.WalkReferences(func(r *Reference) {
		if r.IsImport() {
			*r = ImportRef(r.Index() + 100)
		}
	})

	if e.Class != ImportRef(100) {
		t.Errorf("Class = %v", e.Class)
	}
	inner := e.Properties[4].(*StructProperty).Value[0].(*ArrayProperty).Value[0].(*ObjectProperty)
	if inner.Value != ImportRef(108) {
		t.Errorf("nested object = %v, want import[108]", inner.Value)
	}
	entry := e.Properties[6].(*MapProperty).Value[0].Value.(*ObjectProperty)
	if entry.Value != ImportRef(111) {
		t.Errorf("map value = %v, want import[111]", entry.Value)
	}
	if e.Outer != ExportRef(90) {
		t.Errorf("Outer changed to %v", e.Outer)
	}
}

func TestWalkNames(t *testing.T) {
	var got []int32
	nestedExport().WalkNames(func(n *Name) { got = append(got, n.Index) })

	seen := make(map[int32]bool)
	for _, i := range got {
		seen[i] = true
	}
	// Object name, every tag, and every type, enum, function and map key name.
	for i := int32(1); i <= 24; i++ {
		if !seen[i] {
			t.Errorf("WalkNames did not visit name %d", i)
		}
	}
}

func TestExportCloneIsDeep(t *testing.T) {
	e := nestedExport()
	c := e.Clone()

	c.BeforeSerialize[0] = Null()
	c.Properties[0].(*ObjectProperty).Value = Null()
	*c.Properties[7].(*ByteProperty).EnumValue = Name{Index: 99}
	c.Properties[3].(*MulticastDelegateProperty).Value[0].Object = Null()

	if e.BeforeSerialize[0] != ImportRef(2) {
		t.Error("Clone shares BeforeSerialize")
	}
	if e.Properties[0].(*ObjectProperty).Value != ExportRef(4) {
		t.Error("Clone shares properties")
	}
	if e.Properties[7].(*ByteProperty).EnumValue.Index != 14 {
		t.Error("Clone shares ByteProperty.EnumValue")
	}
	if e.Properties[3].(*MulticastDelegateProperty).Value[0].Object != ExportRef(7) {
		t.Error("Clone shares delegate list")
	}
}
