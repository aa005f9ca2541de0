package annots

import (
	"fmt"
	"sort"

	"github.com/golang/geo/r2"

	"github.com/mgmeyers/pdfannots/position"
)

// PageRef addresses a page either by index or by the object number of its
// page dictionary. Outlines use both forms.
type PageRef struct {
	Index   int
	ObjID   int64
	ByObjID bool
}

func PageIndex(i int) PageRef {
	return PageRef{Index: i}
}

func PageObject(id int64) PageRef {
	return PageRef{ObjID: id, ByObjID: true}
}

func (r PageRef) String() string {
	if r.ByObjID {
		return fmt.Sprintf("obj %d", r.ObjID)
	}

	return fmt.Sprintf("page %d", r.Index+1)
}

// Outline is a bookmark entry.
type Outline struct {
	Title string
	Ref   PageRef
	// X and Y are the /XYZ target; nil when the destination leaves them
	// unchanged.
	X *float64
	Y *float64

	page    int
	pending *position.Pending
	pos     position.Pos
}

func NewOutline(title string, ref PageRef, x, y *float64) *Outline {
	return &Outline{Title: title, Ref: ref, X: x, Y: y}
}

// Attach binds the outline to the page it points at. top is used when the
// destination has no y coordinate.
func (o *Outline) Attach(page int, top float64) {
	pt := r2.Point{X: 0, Y: top}

	if o.X != nil {
		pt.X = *o.X
	}

	if o.Y != nil {
		pt.Y = *o.Y
	}

	o.page = page
	o.pending = position.NewPending(page, pt)
}

func (o *Outline) Attached() bool {
	return o.pending != nil
}

func (o *Outline) Page() int {
	return o.page
}

func (o *Outline) Pending() *position.Pending {
	return o.pending
}

func (o *Outline) Resolve() {
	o.pos = o.pending.Freeze()
}

func (o *Outline) Pos() position.Pos {
	return o.pos
}

func SortAnnotations(as []*Annotation) {
	sort.SliceStable(as, func(i, j int) bool {
		return as[i].Pos().Less(as[j].Pos())
	})
}

func SortOutlines(outs []*Outline) {
	sort.SliceStable(outs, func(i, j int) bool {
		return outs[i].Pos().Less(outs[j].Pos())
	})
}
