package asset

import (
	"fmt"
	"strings"
)

// Problem is a single integrity violation found by [Package.Validate].
type Problem struct {
	Where string // e.g. "export[2]" or "import[0].outer"
	Err   error
}

func (p Problem) String() string { return p.Where + ": " + p.Err.Error() }

// ValidationError reports every violation found in one pass.
type ValidationError struct {
	Problems []Problem
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid package: " + e.Problems[0].String()
	}
	lines := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		lines[i] = p.String()
	}
	return fmt.Sprintf("invalid package: %d problems:\n  %s", len(e.Problems), strings.Join(lines, "\n  "))
}

// Validate checks that every reference resolves to an existing slot or is
// null, that every name indexes the name table, and that only level exports
// hold a contained list. It returns nil or a *ValidationError.
func (p *Package) Validate() error {
	var problems []Problem
	add := func(where string, err error) {
		problems = append(problems, Problem{Where: where, Err: err})
	}

	checkRef := func(where string, r Reference) {
		switch {
		case r.IsExport() && !inRange(r.Index(), len(p.Exports)):
			add(where, fmt.Errorf("%w: %s", ErrUnknownExport, r))
		case r.IsImport() && !inRange(r.Index(), len(p.Imports)):
			add(where, fmt.Errorf("%w: %s", ErrUnknownImport, r))
		}
	}
	checkName := func(where string, n Name) {
		if _, ok := p.NameString(n); !ok {
			add(where, fmt.Errorf("%w: index %d", ErrUnknownName, n.Index))
		}
	}

	for i := range p.Imports {
		imp := &p.Imports[i]
		where := fmt.Sprintf("import[%d]", i)
		checkRef(where+".outer", imp.Outer)
		checkName(where+".class_package", imp.ClassPackage)
		checkName(where+".class_name", imp.ClassName)
		checkName(where+".object_name", imp.ObjectName)
	}

	for i := range p.Exports {
		e := &p.Exports[i]
		where := fmt.Sprintf("export[%d]", i)
		e.WalkAll(func(r *Reference) { checkRef(where, *r) })
		e.WalkNames(func(n *Name) { checkName(where, *n) })
		if !e.IsLevel() && len(e.Contained) > 0 {
			add(where, ErrMisplacedContained)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
