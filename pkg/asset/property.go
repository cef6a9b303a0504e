package asset

import "slices"

// PropertyTag is the header every tagged property carries.
type PropertyTag struct {
	Name       Name
	ArrayIndex int32
}

// Tag returns the header. It lets callers reach the shared fields without a
// type switch.
func (t *PropertyTag) Tag() *PropertyTag { return t }

// Property is one tagged value of a normal export.
//
// The set of variants is closed: the interface has unexported methods so
// only this package can add one, and every variant implements reference and
// name traversal itself. A variant that nests references or names must
// report all of them, otherwise a transplant leaves them pointing into the
// donor's tables.
type Property interface {
	Tag() *PropertyTag
	// Type returns the serialized type name, e.g. "ObjectProperty".
	Type() string

	walkRefs(fn func(*Reference))
	walkNames(fn func(*Name))
	clone() Property
}

// Property type names as they appear in serialized data.
const (
	TypeBool              = "BoolProperty"
	TypeInt               = "IntProperty"
	TypeInt64             = "Int64Property"
	TypeFloat             = "FloatProperty"
	TypeDouble            = "DoubleProperty"
	TypeStr               = "StrProperty"
	TypeName              = "NameProperty"
	TypeEnum              = "EnumProperty"
	TypeByte              = "ByteProperty"
	TypeText              = "TextProperty"
	TypeObject            = "ObjectProperty"
	TypeSoftObject        = "SoftObjectProperty"
	TypeInterface         = "InterfaceProperty"
	TypeDelegate          = "DelegateProperty"
	TypeMulticastDelegate = "MulticastDelegateProperty"
	TypeStruct            = "StructProperty"
	TypeArray             = "ArrayProperty"
	TypeSet               = "SetProperty"
	TypeMap               = "MapProperty"
)

// =============================================================================
// Scalars
// =============================================================================

type BoolProperty struct {
	PropertyTag
	Value bool
}

type IntProperty struct {
	PropertyTag
	Value int32
}

type Int64Property struct {
	PropertyTag
	Value int64
}

type FloatProperty struct {
	PropertyTag
	Value float32
}

type DoubleProperty struct {
	PropertyTag
	Value float64
}

type StrProperty struct {
	PropertyTag
	Value string
}

// TextProperty is a localized string. It holds no references.
type TextProperty struct {
	PropertyTag
	Namespace    string
	Key          string
	SourceString string
}

func (p *BoolProperty) Type() string   { return TypeBool }
func (p *IntProperty) Type() string    { return TypeInt }
func (p *Int64Property) Type() string  { return TypeInt64 }
func (p *FloatProperty) Type() string  { return TypeFloat }
func (p *DoubleProperty) Type() string { return TypeDouble }
func (p *StrProperty) Type() string    { return TypeStr }
func (p *TextProperty) Type() string   { return TypeText }

func (p *BoolProperty) walkRefs(func(*Reference))   {}
func (p *IntProperty) walkRefs(func(*Reference))    {}
func (p *Int64Property) walkRefs(func(*Reference))  {}
func (p *FloatProperty) walkRefs(func(*Reference))  {}
func (p *DoubleProperty) walkRefs(func(*Reference)) {}
func (p *StrProperty) walkRefs(func(*Reference))    {}
func (p *TextProperty) walkRefs(func(*Reference))   {}

func (p *BoolProperty) walkNames(fn func(*Name))   { fn(&p.Name) }
func (p *IntProperty) walkNames(fn func(*Name))    { fn(&p.Name) }
func (p *Int64Property) walkNames(fn func(*Name))  { fn(&p.Name) }
func (p *FloatProperty) walkNames(fn func(*Name))  { fn(&p.Name) }
func (p *DoubleProperty) walkNames(fn func(*Name)) { fn(&p.Name) }
func (p *StrProperty) walkNames(fn func(*Name))    { fn(&p.Name) }
func (p *TextProperty) walkNames(fn func(*Name))   { fn(&p.Name) }

func (p *BoolProperty) clone() Property   { c := *p; return &c }
func (p *IntProperty) clone() Property    { c := *p; return &c }
func (p *Int64Property) clone() Property  { c := *p; return &c }
func (p *FloatProperty) clone() Property  { c := *p; return &c }
func (p *DoubleProperty) clone() Property { c := *p; return &c }
func (p *StrProperty) clone() Property    { c := *p; return &c }
func (p *TextProperty) clone() Property   { c := *p; return &c }

// =============================================================================
// Name-valued
// =============================================================================

type NameProperty struct {
	PropertyTag
	Value Name
}

func (p *NameProperty) Type() string              { return TypeName }
func (p *NameProperty) walkRefs(func(*Reference)) {}
func (p *NameProperty) walkNames(fn func(*Name))  { fn(&p.Name); fn(&p.Value) }
func (p *NameProperty) clone() Property           { c := *p; return &c }

type EnumProperty struct {
	PropertyTag
	EnumType Name
	Value    Name
}

func (p *EnumProperty) Type() string              { return TypeEnum }
func (p *EnumProperty) walkRefs(func(*Reference)) {}
func (p *EnumProperty) walkNames(fn func(*Name)) {
	fn(&p.Name)
	fn(&p.EnumType)
	fn(&p.Value)
}
func (p *EnumProperty) clone() Property { c := *p; return &c }

// ByteProperty is either a raw byte or, when EnumValue is set, an enum
// entry stored by name.
type ByteProperty struct {
	PropertyTag
	EnumType  Name
	EnumValue *Name
	Value     uint8
}

func (p *ByteProperty) Type() string              { return TypeByte }
func (p *ByteProperty) walkRefs(func(*Reference)) {}
func (p *ByteProperty) walkNames(fn func(*Name)) {
	fn(&p.Name)
	fn(&p.EnumType)
	if p.EnumValue != nil {
		fn(p.EnumValue)
	}
}
func (p *ByteProperty) clone() Property {
	c := *p
	if p.EnumValue != nil {
		v := *p.EnumValue
		c.EnumValue = &v
	}
	return &c
}

// SoftObjectProperty references an asset by path rather than by table slot.
// The path package lives in the name table.
type SoftObjectProperty struct {
	PropertyTag
	AssetPath Name
	SubPath   string
}

func (p *SoftObjectProperty) Type() string              { return TypeSoftObject }
func (p *SoftObjectProperty) walkRefs(func(*Reference)) {}
func (p *SoftObjectProperty) walkNames(fn func(*Name))  { fn(&p.Name); fn(&p.AssetPath) }
func (p *SoftObjectProperty) clone() Property           { c := *p; return &c }

// =============================================================================
// Reference-valued
// =============================================================================

type ObjectProperty struct {
	PropertyTag
	Value Reference
}

func (p *ObjectProperty) Type() string                 { return TypeObject }
func (p *ObjectProperty) walkRefs(fn func(*Reference)) { fn(&p.Value) }
func (p *ObjectProperty) walkNames(fn func(*Name))     { fn(&p.Name) }
func (p *ObjectProperty) clone() Property              { c := *p; return &c }

type InterfaceProperty struct {
	PropertyTag
	Value Reference
}

func (p *InterfaceProperty) Type() string                 { return TypeInterface }
func (p *InterfaceProperty) walkRefs(fn func(*Reference)) { fn(&p.Value) }
func (p *InterfaceProperty) walkNames(fn func(*Name))     { fn(&p.Name) }
func (p *InterfaceProperty) clone() Property              { c := *p; return &c }

// Delegate binds a function name to an object.
type Delegate struct {
	Object   Reference
	Function Name
}

type DelegateProperty struct {
	PropertyTag
	Value Delegate
}

func (p *DelegateProperty) Type() string                 { return TypeDelegate }
func (p *DelegateProperty) walkRefs(fn func(*Reference)) { fn(&p.Value.Object) }
func (p *DelegateProperty) walkNames(fn func(*Name))     { fn(&p.Name); fn(&p.Value.Function) }
func (p *DelegateProperty) clone() Property              { c := *p; return &c }

type MulticastDelegateProperty struct {
	PropertyTag
	Value []Delegate
}

func (p *MulticastDelegateProperty) Type() string { return TypeMulticastDelegate }
func (p *MulticastDelegateProperty) walkRefs(fn func(*Reference)) {
	for i := range p.Value {
		fn(&p.Value[i].Object)
	}
}
func (p *MulticastDelegateProperty) walkNames(fn func(*Name)) {
	fn(&p.Name)
	for i := range p.Value {
		fn(&p.Value[i].Function)
	}
}
func (p *MulticastDelegateProperty) clone() Property {
	c := *p
	c.Value = slices.Clone(p.Value)
	return &c
}

// =============================================================================
// Containers
// =============================================================================

// StructProperty nests a property list under a struct type name.
type StructProperty struct {
	PropertyTag
	StructType Name
	Value      []Property
}

func (p *StructProperty) Type() string                 { return TypeStruct }
func (p *StructProperty) walkRefs(fn func(*Reference)) { walkRefs(p.Value, fn) }
func (p *StructProperty) walkNames(fn func(*Name)) {
	fn(&p.Name)
	fn(&p.StructType)
	walkNames(p.Value, fn)
}
func (p *StructProperty) clone() Property {
	c := *p
	c.Value = cloneProperties(p.Value)
	return &c
}

type ArrayProperty struct {
	PropertyTag
	ElementType Name
	Value       []Property
}

func (p *ArrayProperty) Type() string                 { return TypeArray }
func (p *ArrayProperty) walkRefs(fn func(*Reference)) { walkRefs(p.Value, fn) }
func (p *ArrayProperty) walkNames(fn func(*Name)) {
	fn(&p.Name)
	fn(&p.ElementType)
	walkNames(p.Value, fn)
}
func (p *ArrayProperty) clone() Property {
	c := *p
	c.Value = cloneProperties(p.Value)
	return &c
}

// SetProperty carries the elements present plus the elements removed
// relative to the class default.
type SetProperty struct {
	PropertyTag
	ElementType Name
	Value       []Property
	Removed     []Property
}

func (p *SetProperty) Type() string { return TypeSet }
func (p *SetProperty) walkRefs(fn func(*Reference)) {
	walkRefs(p.Value, fn)
	walkRefs(p.Removed, fn)
}
func (p *SetProperty) walkNames(fn func(*Name)) {
	fn(&p.Name)
	fn(&p.ElementType)
	walkNames(p.Value, fn)
	walkNames(p.Removed, fn)
}
func (p *SetProperty) clone() Property {
	c := *p
	c.Value = cloneProperties(p.Value)
	c.Removed = cloneProperties(p.Removed)
	return &c
}

// MapEntry is one key/value pair of a [MapProperty].
type MapEntry struct {
	Key   Property
	Value Property
}

type MapProperty struct {
	PropertyTag
	KeyType   Name
	ValueType Name
	Value     []MapEntry
	Removed   []Property
}

func (p *MapProperty) Type() string { return TypeMap }
func (p *MapProperty) walkRefs(fn func(*Reference)) {
	for _, e := range p.Value {
		e.Key.walkRefs(fn)
		e.Value.walkRefs(fn)
	}
	walkRefs(p.Removed, fn)
}
func (p *MapProperty) walkNames(fn func(*Name)) {
	fn(&p.Name)
	fn(&p.KeyType)
	fn(&p.ValueType)
	for _, e := range p.Value {
		e.Key.walkNames(fn)
		e.Value.walkNames(fn)
	}
	walkNames(p.Removed, fn)
}
func (p *MapProperty) clone() Property {
	c := *p
	c.Value = make([]MapEntry, len(p.Value))
	for i, e := range p.Value {
		c.Value[i] = MapEntry{Key: e.Key.clone(), Value: e.Value.clone()}
	}
	c.Removed = cloneProperties(p.Removed)
	return &c
}

func cloneProperties(props []Property) []Property {
	if props == nil {
		return nil
	}
	out := make([]Property, len(props))
	for i, p := range props {
		out[i] = p.clone()
	}
	return out
}
