package maze

import "math/bits"

// MaxTargets is the largest number of targets a maze may hold.
const MaxTargets = 256

const targetWords = MaxTargets / 64

// TargetSet is an immutable set of target indexes (see Maze.Targets).
// It is comparable, so it can be part of a map key.
type TargetSet struct {
	w [targetWords]uint64
}

// Has reports whether target i is in the set.
func (s TargetSet) Has(i int) bool {
	if i < 0 || i >= MaxTargets {
		return false
	}
	return s.w[i>>6]&(1<<(uint(i)&63)) != 0
}

// With returns a copy of s that contains target i.
func (s TargetSet) With(i int) TargetSet {
	if i >= 0 && i < MaxTargets {
		s.w[i>>6] |= 1 << (uint(i) & 63)
	}
	return s
}

// Without returns a copy of s that does not contain target i.
func (s TargetSet) Without(i int) TargetSet {
	if i >= 0 && i < MaxTargets {
		s.w[i>>6] &^= 1 << (uint(i) & 63)
	}
	return s
}

// Union returns s ∪ o.
func (s TargetSet) Union(o TargetSet) TargetSet {
	for k := range s.w {
		s.w[k] |= o.w[k]
	}
	return s
}

// Minus returns s \ o.
func (s TargetSet) Minus(o TargetSet) TargetSet {
	for k := range s.w {
		s.w[k] &^= o.w[k]
	}
	return s
}

// Len returns the number of targets in the set.
func (s TargetSet) Len() int {
	n := 0
	for _, w := range s.w {
		n += bits.OnesCount64(w)
	}
	return n
}

// Empty reports whether the set holds no target.
func (s TargetSet) Empty() bool {
	return s == TargetSet{}
}

// Each calls fn for every index in ascending order.
func (s TargetSet) Each(fn func(i int)) {
	for k, w := range s.w {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			fn(k<<6 | b)
			w &= w - 1
		}
	}
}

// Indexes returns the indexes in ascending order.
func (s TargetSet) Indexes() []int {
	out := make([]int, 0, s.Len())
	s.Each(func(i int) { out = append(out, i) })
	return out
}

// Positions resolves the set against the targets of m.
func (s TargetSet) Positions(m *Maze) []Position {
	out := make([]Position, 0, s.Len())
	s.Each(func(i int) {
		if i < len(m.targets) {
			out = append(out, m.targets[i])
		}
	})
	return out
}
