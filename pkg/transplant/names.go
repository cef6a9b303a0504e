package transplant

import (
	"strconv"
	"strings"

	"github.com/matzehuels/graft/pkg/asset"
	"github.com/matzehuels/graft/pkg/errors"
)

// nameStage interns strings against a recipient's name table without
// touching it. New strings are collected in added and appended on commit,
// so their indices continue the recipient's table.
type nameStage struct {
	index map[string]int32
	size  int32 // recipient table length at stage time
	next  int32
	added []string
}

func newNameStage(recipient *asset.Package) *nameStage {
	s := &nameStage{
		index: make(map[string]int32, len(recipient.Names)),
		size:  int32(len(recipient.Names)),
		next:  int32(len(recipient.Names)),
	}
	for i, n := range recipient.Names {
		if _, ok := s.index[n]; !ok {
			s.index[n] = int32(i)
		}
	}
	return s
}

// has reports whether str is in the recipient's pre-transplant table.
func (s *nameStage) has(str string) bool {
	i, ok := s.index[str]
	return ok && i < s.size
}

func (s *nameStage) intern(str string) int32 {
	if i, ok := s.index[str]; ok {
		return i
	}
	i := s.next
	s.index[str] = i
	s.added = append(s.added, str)
	s.next++
	return i
}

// translate rewrites n from the donor's table into the staged recipient
// table, keeping its number.
func (s *nameStage) translate(donor *asset.Package, n *asset.Name) error {
	str, ok := donor.NameString(*n)
	if !ok {
		return errors.New(errors.ErrCodeInvalidReference, "name index %d outside donor name table (%d entries)", n.Index, len(donor.Names))
	}
	n.Index = s.intern(str)
	return nil
}

// uniqueName returns name unchanged when taken reports it free. Otherwise
// trailing digits are split off as a counter (1 when there are none) and
// the counter is bumped until base+counter is free.
func uniqueName(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}
	base := strings.TrimRightFunc(name, func(r rune) bool { return r >= '0' && r <= '9' })
	id := 1
	if base != name {
		n, err := strconv.Atoi(name[len(base):])
		if err != nil {
			base = name
		} else {
			id = n
		}
	}
	for taken(base + strconv.Itoa(id)) {
		id++
	}
	return base + strconv.Itoa(id)
}
