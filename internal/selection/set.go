package selection

// orderedSet is a string set that iterates in insertion order.
type orderedSet struct {
	index map[string]int
	items []string
}

func newOrderedSet() orderedSet {
	return orderedSet{index: make(map[string]int)}
}

func (s *orderedSet) has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func (s *orderedSet) add(id string) bool {
	if s.has(id) {
		return false
	}
	s.index[id] = len(s.items)
	s.items = append(s.items, id)
	return true
}

func (s *orderedSet) remove(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	copy(s.items[i:], s.items[i+1:])
	s.items = s.items[:len(s.items)-1]
	delete(s.index, id)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j]] = j
	}
	return true
}

func (s *orderedSet) len() int {
	return len(s.items)
}

func (s *orderedSet) list() []string {
	return append([]string(nil), s.items...)
}
