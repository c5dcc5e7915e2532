package samup

// tagStack holds open constructs, innermost last. At most one block
// construct (paragraph, heading, footnote definition) is open at a time;
// inline constructs nest above it.
type tagStack struct {
	tags []tag
}

func (s *tagStack) push(t tag) {
	s.tags = append(s.tags, t)
}

func (s *tagStack) pop() (tag, bool) {
	if len(s.tags) == 0 {
		return tag{}, false
	}
	t := s.tags[len(s.tags)-1]
	s.tags = s.tags[:len(s.tags)-1]
	return t, true
}

// peek returns the innermost open construct, or nil when none is open.
// The pointer stays valid until the next push or pop.
func (s *tagStack) peek() *tag {
	if len(s.tags) == 0 {
		return nil
	}
	return &s.tags[len(s.tags)-1]
}

func (s *tagStack) empty() bool { return len(s.tags) == 0 }

func (s *tagStack) depth() int { return len(s.tags) }

func (s *tagStack) reset() { s.tags = s.tags[:0] }
