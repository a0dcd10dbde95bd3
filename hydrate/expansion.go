package hydrate

import "slices"

// expansion is the active recursion path for one body. Values are never
// modified, push returns extended copy, so sibling tokens never see each
// other's expansions. nil is the top-level body.
type expansion struct {
	parent *expansion
	id     string
	depth  int
}

func (e *expansion) push(id string) *expansion {
	return &expansion{parent: e, id: id, depth: e.level() + 1}
}

func (e *expansion) level() int {
	if e == nil {
		return 0
	}
	return e.depth
}

func (e *expansion) contains(id string) bool {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.id == id {
			return true
		}
	}
	return false
}

// path returns identifiers being expanded, outermost first.
func (e *expansion) path() []string {
	if e == nil {
		return nil
	}
	ids := make([]string, 0, e.depth)
	for cur := e; cur != nil; cur = cur.parent {
		ids = append(ids, cur.id)
	}
	slices.Reverse(ids)
	return ids
}
