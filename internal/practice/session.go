package practice

import "fmt"

// DefaultPageSize is the multi-view page size.
const DefaultPageSize = 25

// Session holds all transient view state for one loaded practice file:
// the single-view cursor, the multi-view page, per-view reveal flags and
// the presentation mode. It is not safe for concurrent use; a session
// belongs to one viewer.
type Session struct {
	doc    ContentDocument
	single []StructuredItem
	multi  []FlatItem

	currentIndex int
	singleView   bool
	showAnswer   bool
	revealed     map[int]bool
	page         int
	pageSize     int

	hintApplied bool
}

func NewSession(doc ContentDocument) *Session {
	single, multi := Normalize(doc)
	return &Session{
		doc:        doc,
		single:     single,
		multi:      multi,
		singleView: true,
		revealed:   map[int]bool{},
		page:       1,
		pageSize:   DefaultPageSize,
	}
}

func (s *Session) Document() ContentDocument { return s.doc }
func (s *Session) Items() []StructuredItem   { return s.single }
func (s *Session) FlatItems() []FlatItem     { return s.multi }
func (s *Session) Len() int                  { return len(s.single) }
func (s *Session) Index() int                { return s.currentIndex }
func (s *Session) IsSingleView() bool        { return s.singleView }
func (s *Session) AnswerShown() bool         { return s.showAnswer }

// Current returns the item under the cursor, or false when the sequence
// is empty. Callers must treat "no current item" as distinct from
// "still loading".
func (s *Session) Current() (StructuredItem, bool) {
	if len(s.single) == 0 {
		return StructuredItem{}, false
	}
	return s.single[s.currentIndex], true
}

func (s *Session) setIndex(i int) {
	if i == s.currentIndex {
		return
	}
	s.currentIndex = i
	// entering a new question always hides its answer
	s.showAnswer = false
}

func (s *Session) Next() {
	if s.currentIndex < len(s.single)-1 {
		s.setIndex(s.currentIndex + 1)
	}
}

func (s *Session) Previous() {
	if s.currentIndex > 0 {
		s.setIndex(s.currentIndex - 1)
	}
}

// JumpTo accepts a 1-based human-entered question number. Out-of-range
// input is a recoverable validation failure: the error carries the reason
// and no state changes. On success the view is forced into single mode.
func (s *Session) JumpTo(target int) error {
	if len(s.single) == 0 || target < 1 || target > len(s.single) {
		return fmt.Errorf("question number must be between 1 and %d", len(s.single))
	}
	s.setIndex(target - 1)
	s.singleView = true
	return nil
}

// ApplyStartHint honors an external "start at index N" value once, on the
// first call after normalization, if it falls strictly inside the sequence.
func (s *Session) ApplyStartHint(n int) {
	if s.hintApplied {
		return
	}
	s.hintApplied = true
	if n > 0 && n < len(s.single) {
		s.setIndex(n)
	}
}

// ToggleAnswer flips the single-view reveal flag.
func (s *Session) ToggleAnswer() { s.showAnswer = !s.showAnswer }

// ToggleReveal flips the multi-view reveal flag for one flat index.
func (s *Session) ToggleReveal(flatIndex int) {
	s.revealed[flatIndex] = !s.revealed[flatIndex]
}

func (s *Session) IsRevealed(flatIndex int) bool { return s.revealed[flatIndex] }

func (s *Session) RevealedCount() int {
	n := 0
	for _, v := range s.revealed {
		if v {
			n++
		}
	}
	return n
}

// SetSingleView switches presentation mode, clearing per-view reveal
// state and resetting the multi-view page. The cursor position is kept
// across toggles.
func (s *Session) SetSingleView(single bool) {
	if s.singleView == single {
		return
	}
	s.singleView = single
	s.showAnswer = false
	s.revealed = map[int]bool{}
	s.page = 1
}

func (s *Session) ToggleView() { s.SetSingleView(!s.singleView) }

func (s *Session) Page() int     { return s.page }
func (s *Session) PageSize() int { return s.pageSize }

func (s *Session) PageCount() int {
	if len(s.multi) == 0 {
		return 0
	}
	return (len(s.multi) + s.pageSize - 1) / s.pageSize
}

// VisiblePage slices the multi-view sequence for the active page.
func (s *Session) VisiblePage() []FlatItem {
	start := (s.page - 1) * s.pageSize
	if start >= len(s.multi) {
		return []FlatItem{}
	}
	end := start + s.pageSize
	if end > len(s.multi) {
		end = len(s.multi)
	}
	return s.multi[start:end]
}

func (s *Session) NextPage() {
	if s.page < s.PageCount() {
		s.page++
	}
}

func (s *Session) PreviousPage() {
	if s.page > 1 {
		s.page--
	}
}
