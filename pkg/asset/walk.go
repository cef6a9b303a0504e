package asset

// WalkReferences calls fn once for every cross-table reference slot the
// export holds outside its ownership data: Class, Template, each entry of
// BeforeSerialize and, recursively, every reference nested in Properties.
// fn may rewrite the slot in place.
//
// Outer and BeforeCreate are not visited (see [Export.WalkOwnership]), and
// neither is a level's Contained list, which callers maintain directly.
// The walk does no table lookups.
func (e *Export) WalkReferences(fn func(*Reference)) {
	fn(&e.Class)
	fn(&e.Template)
	for i := range e.BeforeSerialize {
		fn(&e.BeforeSerialize[i])
	}
	walkRefs(e.Properties, fn)
}

// WalkOwnership calls fn on Outer and on each entry of BeforeCreate.
func (e *Export) WalkOwnership(fn func(*Reference)) {
	fn(&e.Outer)
	for i := range e.BeforeCreate {
		fn(&e.BeforeCreate[i])
	}
}

// WalkAll visits every reference slot of the export: ownership slots first,
// then those of [Export.WalkReferences], then Contained.
func (e *Export) WalkAll(fn func(*Reference)) {
	e.WalkOwnership(fn)
	e.WalkReferences(fn)
	for i := range e.Contained {
		fn(&e.Contained[i])
	}
}

// WalkNames calls fn on the export's object name and on every name-table
// reference inside its properties.
func (e *Export) WalkNames(fn func(*Name)) {
	fn(&e.ObjectName)
	walkNames(e.Properties, fn)
}

// WalkPropertyReferences visits every reference nested in props.
func WalkPropertyReferences(props []Property, fn func(*Reference)) { walkRefs(props, fn) }

// WalkPropertyNames visits every name nested in props.
func WalkPropertyNames(props []Property, fn func(*Name)) { walkNames(props, fn) }

func walkRefs(props []Property, fn func(*Reference)) {
	for _, p := range props {
		p.walkRefs(fn)
	}
}

func walkNames(props []Property, fn func(*Name)) {
	for _, p := range props {
		p.walkNames(fn)
	}
}
