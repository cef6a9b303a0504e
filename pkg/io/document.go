package io

import (
	"encoding/json"

	"github.com/matzehuels/graft/pkg/asset"
)

// document is the on-disk shape of a package. References are stored in
// their raw signed form.
type document struct {
	Version string     `json:"version,omitempty"`
	Names   []string   `json:"names"`
	Imports []importJS `json:"imports"`
	Exports []exportJS `json:"exports"`
}

type name struct {
	Index  int32 `json:"index"`
	Number int32 `json:"number,omitempty"`
}

type importJS struct {
	ClassPackage name  `json:"class_package"`
	ClassName    name  `json:"class_name"`
	ObjectName   name  `json:"object_name"`
	Outer        int32 `json:"outer"`
}

type exportJS struct {
	ObjectName      name       `json:"object_name"`
	Kind            string     `json:"kind,omitempty"`
	Outer           int32      `json:"outer"`
	Class           int32      `json:"class"`
	Template        int32      `json:"template"`
	BeforeCreate    []int32    `json:"before_create,omitempty"`
	BeforeSerialize []int32    `json:"before_serialize,omitempty"`
	Properties      []property `json:"properties,omitempty"`
	Contained       []int32    `json:"contained,omitempty"`
}

// property is the union of every property variant. Type selects which of
// the optional fields are meaningful; Value holds the variant's payload.
type property struct {
	Type       string `json:"type"`
	Name       name   `json:"name"`
	ArrayIndex int32  `json:"array_index,omitempty"`

	Value json.RawMessage `json:"value,omitempty"`

	EnumType    *name `json:"enum_type,omitempty"`
	EnumValue   *name `json:"enum_value,omitempty"`
	StructType  *name `json:"struct_type,omitempty"`
	ElementType *name `json:"element_type,omitempty"`
	KeyType     *name `json:"key_type,omitempty"`
	ValueType   *name `json:"value_type,omitempty"`

	Namespace    string `json:"namespace,omitempty"`
	Key          string `json:"key,omitempty"`
	SourceString string `json:"source_string,omitempty"`
	SubPath      string `json:"sub_path,omitempty"`

	Removed []property `json:"removed,omitempty"`
}

type delegateJS struct {
	Object   int32 `json:"object"`
	Function name  `json:"function"`
}

type mapEntryJS struct {
	Key   property `json:"key"`
	Value property `json:"value"`
}

var kindToString = map[asset.ExportKind]string{
	asset.ExportLevel: "level",
	asset.ExportRaw:   "raw",
}

var kindFromString = map[string]asset.ExportKind{
	"":       asset.ExportNormal,
	"normal": asset.ExportNormal,
	"level":  asset.ExportLevel,
	"raw":    asset.ExportRaw,
}

func toName(n asset.Name) name     { return name{Index: n.Index, Number: n.Number} }
func fromName(n name) asset.Name   { return asset.Name{Index: n.Index, Number: n.Number} }
func toNamePtr(n asset.Name) *name { v := toName(n); return &v }

func fromNamePtr(n *name) asset.Name {
	if n == nil {
		return asset.Name{}
	}
	return fromName(*n)
}

func toRaw(refs []asset.Reference) []int32 {
	if len(refs) == 0 {
		return nil
	}
	out := make([]int32, len(refs))
	for i, r := range refs {
		out[i] = r.Raw()
	}
	return out
}

func fromRaw(raw []int32) []asset.Reference {
	if len(raw) == 0 {
		return nil
	}
	out := make([]asset.Reference, len(raw))
	for i, r := range raw {
		out[i] = asset.FromRaw(r)
	}
	return out
}
