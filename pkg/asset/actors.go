package asset

// ActorInfo summarizes one actor held by a level.
type ActorInfo struct {
	Ref      Reference
	Name     string
	Class    string
	Children int // exports transitively owned by the actor
}

// Actors returns the references held by the first level export's contained
// list, skipping entries that do not resolve to an export. A package
// without a level has no actors.
func Actors(p *Package) []Reference {
	li, ok := p.LevelIndex()
	if !ok {
		return nil
	}
	var out []Reference
	for _, r := range p.Exports[li].Contained {
		if _, ok := p.GetExport(r); ok {
			out = append(out, r)
		}
	}
	return out
}

// DescribeActors resolves name, class and subtree size for every actor.
func DescribeActors(p *Package) []ActorInfo {
	refs := Actors(p)
	out := make([]ActorInfo, 0, len(refs))
	for _, r := range refs {
		e, _ := p.GetExport(r)
		out = append(out, ActorInfo{
			Ref:      r,
			Name:     p.DisplayName(e.ObjectName),
			Class:    p.ObjectName(e.Class),
			Children: len(Subtree(p, r.Index())) - 1,
		})
	}
	return out
}

// Subtree returns root followed by every export whose outer chain reaches
// root, in breadth-first order with siblings in table order. Positions are
// zero-based export indices. Outer cycles are tolerated: each export is
// listed at most once.
func Subtree(p *Package, root int) []int {
	if root < 0 || root >= len(p.Exports) {
		return nil
	}
	children := make(map[int][]int)
	for i := range p.Exports {
		if o := p.Exports[i].Outer; o.IsExport() && i != root {
			children[o.Index()] = append(children[o.Index()], i)
		}
	}

	seen := map[int]bool{root: true}
	order := []int{root}
	for i := 0; i < len(order); i++ {
		for _, c := range children[order[i]] {
			if !seen[c] {
				seen[c] = true
				order = append(order, c)
			}
		}
	}
	return order
}
