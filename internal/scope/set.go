package scope

// Set is a set of names that remembers first-insertion order, so results
// derived from it are deterministic.
type Set struct {
	names []string
	index map[string]struct{}
}

// NewSet returns a set holding names.
func NewSet(names ...string) *Set {
	s := &Set{index: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name; re-adding keeps the original position.
func (s *Set) Add(name string) {
	if _, ok := s.index[name]; ok {
		return
	}
	s.index[name] = struct{}{}
	s.names = append(s.names, name)
}

func (s *Set) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns the members in insertion order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Intersect returns the members of s also in other, in s's order.
func (s *Set) Intersect(other *Set) *Set {
	out := NewSet()
	for _, n := range s.Names() {
		if other.Has(n) {
			out.Add(n)
		}
	}
	return out
}

// Difference returns the members of s not in other, in s's order.
func (s *Set) Difference(other *Set) *Set {
	out := NewSet()
	for _, n := range s.Names() {
		if !other.Has(n) {
			out.Add(n)
		}
	}
	return out
}
