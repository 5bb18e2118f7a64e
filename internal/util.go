package internal

// NoParent marks the root of an Arena tree.
const NoParent int32 = -1

// Arena stores a tree of search nodes. Nodes never move and are never
// mutated once added; a parent is an index into the same arena.
type Arena[T any] struct {
	values  []T
	parents []int32
}

// Add appends a node and returns its index.
func (a *Arena[T]) Add(value T, parent int32) int32 {
	a.values = append(a.values, value)
	a.parents = append(a.parents, parent)
	return int32(len(a.values) - 1)
}

func (a *Arena[T]) Get(i int32) T        { return a.values[i] }
func (a *Arena[T]) Parent(i int32) int32 { return a.parents[i] }
func (a *Arena[T]) Len() int             { return len(a.values) }

// ReconstructPath walks parents from leaf back to the root and returns the
// values in chronological order. The root is not part of the path.
func (a *Arena[T]) ReconstructPath(leaf int32) []T {
	path := []T{}
	for current := leaf; current >= 0 && a.parents[current] != NoParent; current = a.parents[current] {
		path = append(path, a.values[current])
	}
	// reverse path
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
