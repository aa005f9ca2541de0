// Package annots holds the annotation and outline records that flow from
// the PDF layer through text binding to the printers.
package annots

import (
	"strings"
	"time"

	"github.com/golang/geo/r2"

	"github.com/mgmeyers/pdfannots/geom"
	"github.com/mgmeyers/pdfannots/position"
)

type Subtype string

const (
	Text      Subtype = "Text"
	Highlight Subtype = "Highlight"
	Squiggly  Subtype = "Squiggly"
	StrikeOut Subtype = "StrikeOut"
	Underline Subtype = "Underline"
)

var supported = map[string]Subtype{
	string(Text):      Text,
	string(Highlight): Highlight,
	string(Squiggly):  Squiggly,
	string(StrikeOut): StrikeOut,
	string(Underline): Underline,
}

// ParseSubtype maps a PDF /Subtype name onto one of the supported kinds.
func ParseSubtype(name string) (Subtype, bool) {
	s, ok := supported[name]
	return s, ok
}

// Markup reports whether the subtype marks up text rather than pinning a
// note to a point.
func (s Subtype) Markup() bool {
	return s != Text
}

// Annotation is one supported annotation on a page. Its captured text and
// start position are filled in while the page is rendered.
type Annotation struct {
	ID            string
	Subtype       Subtype
	Author        string
	Created       *time.Time
	Contents      string
	Color         string
	ColorCategory string
	Page          int
	Boxes         geom.Boxes
	Anchor        r2.Point

	text  strings.Builder
	start *position.Pending
	pos   position.Pos
}

func NewAnnotation(page int, subtype Subtype, boxes geom.Boxes, anchor r2.Point) *Annotation {
	return &Annotation{
		Subtype: subtype,
		Page:    page,
		Boxes:   boxes,
		Anchor:  anchor,
		start:   position.NewPending(page, anchor),
	}
}

// Capture appends text covered by the annotation.
func (a *Annotation) Capture(s string) {
	a.text.WriteString(s)
}

// Text is everything captured so far, unnormalised.
func (a *Annotation) Text() string {
	return a.text.String()
}

func (a *Annotation) HasText() bool {
	return a.text.Len() > 0
}

// Start exposes the pending position while the page is rendered.
func (a *Annotation) Start() *position.Pending {
	return a.start
}

// Resolve freezes the start position.
func (a *Annotation) Resolve() {
	a.pos = a.start.Freeze()
}

func (a *Annotation) Pos() position.Pos {
	return a.pos
}
