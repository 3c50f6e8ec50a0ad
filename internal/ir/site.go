package ir

// Site is a compared position in a word.
//
// A non-gap site denotes Word[Index]. A gap site denotes an empty slot
// immediately before Word[Index] (Index may equal len(Word)); this is how a
// deletion or insertion is represented, without sign tricks on the index.
type Site struct {
	Word  []string
	Index int
	Gap   bool
}

// SiteAt returns the site for Word[index]. An out-of-range index yields a
// gap clamped to the word.
func SiteAt(word []string, index int) Site {
	if index < 0 {
		return Site{Word: word, Index: 0, Gap: true}
	}
	if index >= len(word) {
		return Site{Word: word, Index: len(word), Gap: true}
	}
	return Site{Word: word, Index: index}
}

// GapAt returns the empty slot before word[index].
func GapAt(word []string, index int) Site {
	if index < 0 {
		index = 0
	}
	if index > len(word) {
		index = len(word)
	}
	return Site{Word: word, Index: index, Gap: true}
}

// Segment returns the compared segment, or Wildcard for a gap.
func (s Site) Segment() string {
	if s.Gap {
		return Wildcard
	}
	return s.Word[s.Index]
}

// Before returns the segments preceding the site, nearest first,
// terminated by a Boundary.
func (s Site) Before() []string {
	out := make([]string, 0, s.Index+1)
	for i := s.Index - 1; i >= 0; i-- {
		out = append(out, s.Word[i])
	}
	return append(out, Boundary)
}

// After returns the segments following the site, nearest first,
// terminated by a Boundary.
func (s Site) After() []string {
	start := s.Index + 1
	if s.Gap {
		start = s.Index
	}
	out := make([]string, 0, len(s.Word)-start+1)
	out = append(out, s.Word[start:]...)
	return append(out, Boundary)
}
