// Package binding attaches rendered page text to the annotations covering
// it and numbers text lines so annotations and outlines can be put in
// reading order.
//
// A layout engine pushes primitives into a Sink in rendering order:
//
//	LineBoundary  a new text line starts
//	ContainerBegin/End  nested boxes; the end of a TextBox flushes the line
//	Character     a glyph with its own box
//	Whitespace    inferred spacing without a box ("\n" ends a line)
//
// Line boundaries are the only thing that advances the sequence counter,
// so the order of calls matters.
package binding

import (
	"github.com/golang/geo/r2"
	"github.com/mgmeyers/unipdf/v3/common"

	"github.com/mgmeyers/pdfannots/annots"
)

type ContainerKind int

const (
	Page ContainerKind = iota
	TextBox
	Figure
)

func (k ContainerKind) String() string {
	switch k {
	case Page:
		return "page"
	case TextBox:
		return "textbox"
	case Figure:
		return "figure"
	}

	return "unknown"
}

type Sink interface {
	// LineBoundary starts a text line. line may be empty when the layout
	// engine does not know the line's extent.
	LineBoundary(line r2.Rect)
	ContainerBegin(kind ContainerKind)
	ContainerEnd(kind ContainerKind, region r2.Rect)
	Character(box r2.Rect, text string)
	Whitespace(text string)
}

// Stream renders one page into a Sink.
type Stream interface {
	Render(sink Sink) error
}

// StreamFunc adapts a function to Stream.
type StreamFunc func(sink Sink) error

func (f StreamFunc) Render(sink Sink) error {
	return f(sink)
}

// PageItems are the annotations and resolved outlines of one page.
type PageItems struct {
	Index       int
	Annotations []*annots.Annotation
	Outlines    []*annots.Outline
}

type Options struct {
	Logger common.Logger
}

// Engine is stateless between pages; each call to Scan gets its own scan
// context.
type Engine struct {
	log common.Logger
}

func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = common.Log
	}

	return &Engine{log: log}
}

// Scan renders the page through stream, capturing text into the page's
// annotations, and then freezes every annotation and outline position.
func (e *Engine) Scan(page *PageItems, stream Stream) error {
	sc := newScan(page, e.log)

	if err := stream.Render(sc); err != nil {
		return err
	}

	sc.finish()

	e.log.Debug("page %d: %d lines, %d annotations, %d outlines",
		page.Index+1, sc.seq, len(page.Annotations), len(page.Outlines))

	return nil
}
