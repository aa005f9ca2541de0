// Package position provides the reading-order key shared by annotations
// and outline entries.
//
// A key is built in two phases. While a page is being rendered it lives as
// a Pending value whose line sequence number can still change; once the
// page is done, Freeze turns it into a Pos, which is the only form that can
// be compared.
package position

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// Pos is a resolved position. Within a page, Seq counts the text lines seen
// before the item; X and Y break ties between items on the same line.
type Pos struct {
	Page int
	Seq  int
	X    float64
	Y    float64

	frozen bool
}

// Resolved reports whether p came out of Freeze.
func (p Pos) Resolved() bool {
	return p.frozen
}

// Compare orders by page, then line sequence, then top-to-bottom, then
// left-to-right. The coordinate tiebreak is a heuristic: items on the same
// line are only ordered by where their regions start.
func (p Pos) Compare(o Pos) int {
	if !p.frozen || !o.frozen {
		panic("position: comparing unresolved position")
	}

	switch {
	case p.Page != o.Page:
		return cmpInt(p.Page, o.Page)
	case p.Seq != o.Seq:
		return cmpInt(p.Seq, o.Seq)
	case p.Y != o.Y:
		// higher y is nearer the top of the page
		return -cmpFloat(p.Y, o.Y)
	default:
		return cmpFloat(p.X, o.X)
	}
}

func (p Pos) Less(o Pos) bool {
	return p.Compare(o) < 0
}

func (p Pos) String() string {
	return fmt.Sprintf("p%d/%d(%.1f,%.1f)", p.Page+1, p.Seq, p.X, p.Y)
}

// Pending is the mutable form of a position.
type Pending struct {
	page int
	at   r2.Point

	fixed    bool
	fixedSeq int

	nearestSeq  int
	nearestDist float64
}

func NewPending(page int, at r2.Point) *Pending {
	return &Pending{
		page:        page,
		at:          at,
		nearestDist: math.Inf(1),
	}
}

func (p *Pending) Page() int {
	return p.page
}

func (p *Pending) Fixed() bool {
	return p.fixed
}

// Fix pins the sequence number in effect at first contact. Later calls are
// ignored.
func (p *Pending) Fix(seq int) {
	if p.fixed {
		return
	}

	p.fixed = true
	p.fixedSeq = seq
}

// Observe records a text line. If the anchor is closer to it than to any
// line seen before, the line's sequence number becomes the candidate.
func (p *Pending) Observe(line r2.Rect, seq int) {
	if line.IsEmpty() || !line.IsValid() {
		return
	}

	d := distance(p.at, line)
	if d < p.nearestDist {
		p.nearestDist = d
		p.nearestSeq = seq
	}
}

func (p *Pending) Freeze() Pos {
	seq := p.nearestSeq
	if p.fixed {
		seq = p.fixedSeq
	}

	return Pos{
		Page:   p.page,
		Seq:    seq,
		X:      p.at.X,
		Y:      p.at.Y,
		frozen: true,
	}
}

func distance(pt r2.Point, r r2.Rect) float64 {
	if r.ContainsPoint(pt) {
		return 0
	}

	c := r.ClampPoint(pt)
	return pt.Sub(c).Norm()
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}

	return 1
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
