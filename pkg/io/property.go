package io

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/graft/pkg/asset"
)

func encodeProperties(props []asset.Property) ([]property, error) {
	if props == nil {
		return nil, nil
	}
	out := make([]property, len(props))
	for i, p := range props {
		enc, err := encodeProperty(p)
		if err != nil {
			return nil, fmt.Errorf("property %d: %w", i, err)
		}
		out[i] = enc
	}
	return out, nil
}

func encodeProperty(p asset.Property) (property, error) {
	tag := p.Tag()
	out := property{Type: p.Type(), Name: toName(tag.Name), ArrayIndex: tag.ArrayIndex}

	var value any
	switch v := p.(type) {
	case *asset.BoolProperty:
		value = v.Value
	case *asset.IntProperty:
		value = v.Value
	case *asset.Int64Property:
		value = v.Value
	case *asset.FloatProperty:
		value = v.Value
	case *asset.DoubleProperty:
		value = v.Value
	case *asset.StrProperty:
		value = v.Value
	case *asset.TextProperty:
		out.Namespace, out.Key, out.SourceString = v.Namespace, v.Key, v.SourceString
	case *asset.NameProperty:
		value = toName(v.Value)
	case *asset.EnumProperty:
		out.EnumType = toNamePtr(v.EnumType)
		value = toName(v.Value)
	case *asset.ByteProperty:
		out.EnumType = toNamePtr(v.EnumType)
		if v.EnumValue != nil {
			out.EnumValue = toNamePtr(*v.EnumValue)
		} else {
			value = v.Value
		}
	case *asset.SoftObjectProperty:
		value = toName(v.AssetPath)
		out.SubPath = v.SubPath
	case *asset.ObjectProperty:
		value = v.Value.Raw()
	case *asset.InterfaceProperty:
		value = v.Value.Raw()
	case *asset.DelegateProperty:
		value = delegateJS{Object: v.Value.Object.Raw(), Function: toName(v.Value.Function)}
	case *asset.MulticastDelegateProperty:
		ds := make([]delegateJS, len(v.Value))
		for i, d := range v.Value {
			ds[i] = delegateJS{Object: d.Object.Raw(), Function: toName(d.Function)}
		}
		value = ds
	case *asset.StructProperty:
		out.StructType = toNamePtr(v.StructType)
		inner, err := encodeProperties(v.Value)
		if err != nil {
			return property{}, err
		}
		value = inner
	case *asset.ArrayProperty:
		out.ElementType = toNamePtr(v.ElementType)
		inner, err := encodeProperties(v.Value)
		if err != nil {
			return property{}, err
		}
		value = inner
	case *asset.SetProperty:
		out.ElementType = toNamePtr(v.ElementType)
		inner, err := encodeProperties(v.Value)
		if err != nil {
			return property{}, err
		}
		removed, err := encodeProperties(v.Removed)
		if err != nil {
			return property{}, err
		}
		value, out.Removed = inner, removed
	case *asset.MapProperty:
		out.KeyType = toNamePtr(v.KeyType)
		out.ValueType = toNamePtr(v.ValueType)
		entries := make([]mapEntryJS, len(v.Value))
		for i, e := range v.Value {
			k, err := encodeProperty(e.Key)
			if err != nil {
				return property{}, fmt.Errorf("map key %d: %w", i, err)
			}
			val, err := encodeProperty(e.Value)
			if err != nil {
				return property{}, fmt.Errorf("map value %d: %w", i, err)
			}
			entries[i] = mapEntryJS{Key: k, Value: val}
		}
		removed, err := encodeProperties(v.Removed)
		if err != nil {
			return property{}, err
		}
		value, out.Removed = entries, removed
	default:
		return property{}, fmt.Errorf("unsupported property type %s", p.Type())
	}

	if value != nil {
		raw, err := json.Marshal(value)
		if err != nil {
			return property{}, err
		}
		out.Value = raw
	}
	return out, nil
}

func decodeProperties(in []property) ([]asset.Property, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]asset.Property, len(in))
	for i := range in {
		p, err := decodeProperty(&in[i])
		if err != nil {
			return nil, fmt.Errorf("property %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

func decodeProperty(in *property) (asset.Property, error) {
	tag := asset.PropertyTag{Name: fromName(in.Name), ArrayIndex: in.ArrayIndex}

	// unmarshal leaves v at its zero value when the payload is absent.
	unmarshal := func(v any) error {
		if len(in.Value) == 0 {
			return nil
		}
		if err := json.Unmarshal(in.Value, v); err != nil {
			return fmt.Errorf("%s value: %w", in.Type, err)
		}
		return nil
	}
	ref := func() (asset.Reference, error) {
		var raw int32
		err := unmarshal(&raw)
		return asset.FromRaw(raw), err
	}

	switch in.Type {
	case asset.TypeBool:
		p := &asset.BoolProperty{PropertyTag: tag}
		return p, unmarshal(&p.Value)
	case asset.TypeInt:
		p := &asset.IntProperty{PropertyTag: tag}
		return p, unmarshal(&p.Value)
	case asset.TypeInt64:
		p := &asset.Int64Property{PropertyTag: tag}
		return p, unmarshal(&p.Value)
	case asset.TypeFloat:
		p := &asset.FloatProperty{PropertyTag: tag}
		return p, unmarshal(&p.Value)
	case asset.TypeDouble:
		p := &asset.DoubleProperty{PropertyTag: tag}
		return p, unmarshal(&p.Value)
	case asset.TypeStr:
		p := &asset.StrProperty{PropertyTag: tag}
		return p, unmarshal(&p.Value)
	case asset.TypeText:
		return &asset.TextProperty{
			PropertyTag:  tag,
			Namespace:    in.Namespace,
			Key:          in.Key,
			SourceString: in.SourceString,
		}, nil
	case asset.TypeName:
		var n name
		err := unmarshal(&n)
		return &asset.NameProperty{PropertyTag: tag, Value: fromName(n)}, err
	case asset.TypeEnum:
		var n name
		err := unmarshal(&n)
		return &asset.EnumProperty{PropertyTag: tag, EnumType: fromNamePtr(in.EnumType), Value: fromName(n)}, err
	case asset.TypeByte:
		p := &asset.ByteProperty{PropertyTag: tag, EnumType: fromNamePtr(in.EnumType)}
		if in.EnumValue != nil {
			v := fromName(*in.EnumValue)
			p.EnumValue = &v
			return p, nil
		}
		return p, unmarshal(&p.Value)
	case asset.TypeSoftObject:
		var n name
		err := unmarshal(&n)
		return &asset.SoftObjectProperty{PropertyTag: tag, AssetPath: fromName(n), SubPath: in.SubPath}, err
	case asset.TypeObject:
		r, err := ref()
		return &asset.ObjectProperty{PropertyTag: tag, Value: r}, err
	case asset.TypeInterface:
		r, err := ref()
		return &asset.InterfaceProperty{PropertyTag: tag, Value: r}, err
	case asset.TypeDelegate:
		var d delegateJS
		err := unmarshal(&d)
		return &asset.DelegateProperty{
			PropertyTag: tag,
			Value:       asset.Delegate{Object: asset.FromRaw(d.Object), Function: fromName(d.Function)},
		}, err
	case asset.TypeMulticastDelegate:
		var ds []delegateJS
		if err := unmarshal(&ds); err != nil {
			return nil, err
		}
		p := &asset.MulticastDelegateProperty{PropertyTag: tag}
		for _, d := range ds {
			p.Value = append(p.Value, asset.Delegate{Object: asset.FromRaw(d.Object), Function: fromName(d.Function)})
		}
		return p, nil
	case asset.TypeStruct:
		inner, err := decodeNested(unmarshal)
		if err != nil {
			return nil, err
		}
		return &asset.StructProperty{PropertyTag: tag, StructType: fromNamePtr(in.StructType), Value: inner}, nil
	case asset.TypeArray:
		inner, err := decodeNested(unmarshal)
		if err != nil {
			return nil, err
		}
		return &asset.ArrayProperty{PropertyTag: tag, ElementType: fromNamePtr(in.ElementType), Value: inner}, nil
	case asset.TypeSet:
		inner, err := decodeNested(unmarshal)
		if err != nil {
			return nil, err
		}
		removed, err := decodeProperties(in.Removed)
		if err != nil {
			return nil, fmt.Errorf("removed: %w", err)
		}
		return &asset.SetProperty{PropertyTag: tag, ElementType: fromNamePtr(in.ElementType), Value: inner, Removed: removed}, nil
	case asset.TypeMap:
		var entries []mapEntryJS
		if err := unmarshal(&entries); err != nil {
			return nil, err
		}
		p := &asset.MapProperty{PropertyTag: tag, KeyType: fromNamePtr(in.KeyType), ValueType: fromNamePtr(in.ValueType)}
		for i := range entries {
			k, err := decodeProperty(&entries[i].Key)
			if err != nil {
				return nil, fmt.Errorf("map key %d: %w", i, err)
			}
			v, err := decodeProperty(&entries[i].Value)
			if err != nil {
				return nil, fmt.Errorf("map value %d: %w", i, err)
			}
			p.Value = append(p.Value, asset.MapEntry{Key: k, Value: v})
		}
		removed, err := decodeProperties(in.Removed)
		if err != nil {
			return nil, fmt.Errorf("removed: %w", err)
		}
		p.Removed = removed
		return p, nil
	default:
		return nil, fmt.Errorf("unknown property type %q", in.Type)
	}
}

func decodeNested(unmarshal func(any) error) ([]asset.Property, error) {
	var inner []property
	if err := unmarshal(&inner); err != nil {
		return nil, err
	}
	return decodeProperties(inner)
}
