package binding

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/mgmeyers/unipdf/v3/common"
)

// scan is the per-page state of the engine.
type scan struct {
	page *PageItems
	log  common.Logger
	seq  int

	// lastHit holds the annotations matched by the most recently tested
	// item, curLine every annotation matched since the last line flush.
	// Both are indexes into page.Annotations, kept in annotation order.
	lastHit []int
	curLine []bool
}

var _ Sink = (*scan)(nil)

func newScan(page *PageItems, log common.Logger) *scan {
	return &scan{
		page:    page,
		log:     log,
		curLine: make([]bool, len(page.Annotations)),
	}
}

func (s *scan) LineBoundary(line r2.Rect) {
	s.seq++

	for _, a := range s.page.Annotations {
		a.Start().Observe(line, s.seq)
	}

	for _, o := range s.page.Outlines {
		o.Pending().Observe(line, s.seq)
	}
}

func (s *scan) ContainerBegin(kind ContainerKind) {}

// ContainerEnd captures the end of the final line of a text box, even if
// no newline follows it.
func (s *scan) ContainerEnd(kind ContainerKind, region r2.Rect) {
	if kind != TextBox {
		return
	}

	s.test(region)
	s.flushLine()
}

func (s *scan) Character(box r2.Rect, text string) {
	if !finiteRect(box) {
		s.log.Debug("page %d: skipping character %q with malformed box", s.page.Index+1, text)
		return
	}

	for _, i := range s.test(box) {
		a := s.page.Annotations[i]
		a.Capture(text)
		a.Start().Fix(s.seq)
	}
}

// Whitespace has no position of its own. Line breaks go to everything
// matched on the current line; other spacing only to the annotations that
// covered the character just before it.
func (s *scan) Whitespace(text string) {
	if text == "\n" {
		s.flushLine()
		return
	}

	for _, i := range s.lastHit {
		s.page.Annotations[i].Capture(text)
	}
}

func (s *scan) test(item r2.Rect) []int {
	var hits []int

	for i, a := range s.page.Annotations {
		if a.Boxes.Empty() {
			continue
		}

		if a.Boxes.Hit(item) {
			hits = append(hits, i)
			s.curLine[i] = true
		}
	}

	s.lastHit = hits
	return hits
}

func (s *scan) flushLine() {
	for i, on := range s.curLine {
		if on {
			s.page.Annotations[i].Capture("\n")
			s.curLine[i] = false
		}
	}
}

func (s *scan) finish() {
	for _, a := range s.page.Annotations {
		a.Resolve()
	}

	for _, o := range s.page.Outlines {
		o.Resolve()
	}
}

func finiteRect(r r2.Rect) bool {
	for _, v := range []float64{r.X.Lo, r.X.Hi, r.Y.Lo, r.Y.Hi} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}
