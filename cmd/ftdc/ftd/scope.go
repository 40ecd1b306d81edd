package ftd

import "sort"

// LocalScope holds the per-instantiation variables of a single compile. Keys
// are fully qualified local names such as "doc#count@0,1".
type LocalScope struct {
	things map[string]Thing
}

func NewLocalScope() *LocalScope {
	return &LocalScope{things: make(map[string]Thing)}
}

func (s *LocalScope) Get(key string) (Thing, bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.things[key]
	return t, ok
}

func (s *LocalScope) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

func (s *LocalScope) set(key string, t Thing) {
	s.things[key] = t
}

// setIfAbsent keeps an existing entry, so re-visiting an instantiation never
// resets its state.
func (s *LocalScope) setIfAbsent(key string, t Thing) {
	if _, ok := s.things[key]; !ok {
		s.things[key] = t
	}
}

func (s *LocalScope) Len() int {
	if s == nil {
		return 0
	}
	return len(s.things)
}

// Keys returns every key in sorted order.
func (s *LocalScope) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.things))
	for k := range s.things {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
