package pdfutils

import (
	"strings"

	"github.com/golang/geo/r2"
	"github.com/mgmeyers/unipdf/v3/extractor"

	"github.com/mgmeyers/pdfannots/binding"
)

const DefaultLineMargin = 0.5

// LayoutParams tunes how marks are grouped into lines and text boxes.
type LayoutParams struct {
	// LineMargin is the vertical gap between two lines, relative to the
	// height of the upper line, above which a new text box starts.
	LineMargin float64
}

func (p LayoutParams) lineMargin() float64 {
	if p.LineMargin <= 0 {
		return DefaultLineMargin
	}

	return p.LineMargin
}

// Mark is a positioned piece of page text. Meta marks are spacing inserted
// by the text extractor and have no box of their own.
type Mark struct {
	Text string
	Box  r2.Rect
	Meta bool
}

func MarksFromText(marks []extractor.TextMark) []Mark {
	out := make([]Mark, 0, len(marks))

	for _, mark := range marks {
		m := Mark{Text: mark.Text, Meta: mark.Meta}
		if !mark.Meta {
			m.Box = GetMarkRect(mark)
		}

		out = append(out, m)
	}

	return out
}

type textLine struct {
	marks []Mark
	box   r2.Rect
	// breakAfter is set when the extractor ended the line with a blank
	// line.
	breakAfter bool
}

// splitLines cuts marks at meta marks carrying a newline.
func splitLines(marks []Mark) []*textLine {
	lines := []*textLine{}
	cur := &textLine{box: r2.EmptyRect()}

	for _, m := range marks {
		if m.Meta && strings.Contains(m.Text, "\n") {
			cur.breakAfter = strings.Count(m.Text, "\n") > 1
			lines = append(lines, cur)
			cur = &textLine{box: r2.EmptyRect()}
			continue
		}

		cur.marks = append(cur.marks, m)
		if !m.Meta {
			cur.box = unionRect(cur.box, m.Box)
		}
	}

	lines = append(lines, cur)

	kept := lines[:0]
	for _, l := range lines {
		if len(l.marks) > 0 {
			kept = append(kept, l)
			continue
		}

		// an empty line between two others still separates paragraphs
		if len(kept) > 0 {
			kept[len(kept)-1].breakAfter = true
		}
	}

	return kept
}

// RenderMarks pushes marks into sink as a page of text boxes made of lines.
func RenderMarks(marks []Mark, params LayoutParams, sink binding.Sink) {
	lines := splitLines(marks)
	margin := params.lineMargin()

	sink.ContainerBegin(binding.Page)
	pageBox := r2.EmptyRect()
	boxOpen := false
	box := r2.EmptyRect()

	var prev *textLine

	for _, l := range lines {
		if boxOpen && startsTextBox(prev, l, margin) {
			sink.ContainerEnd(binding.TextBox, box)
			boxOpen = false
		}

		if !boxOpen {
			sink.ContainerBegin(binding.TextBox)
			boxOpen = true
			box = r2.EmptyRect()
		}

		sink.LineBoundary(l.box)

		for _, m := range l.marks {
			if m.Meta {
				sink.Whitespace(m.Text)
				continue
			}

			sink.Character(m.Box, m.Text)
		}

		sink.Whitespace("\n")

		box = unionRect(box, l.box)
		pageBox = unionRect(pageBox, l.box)
		prev = l
	}

	if boxOpen {
		sink.ContainerEnd(binding.TextBox, box)
	}

	sink.ContainerEnd(binding.Page, pageBox)
}

func startsTextBox(prev, cur *textLine, margin float64) bool {
	if prev == nil {
		return true
	}

	if prev.breakAfter {
		return true
	}

	if prev.box.IsEmpty() || cur.box.IsEmpty() {
		return false
	}

	// back up the page: next column
	if cur.box.Y.Lo > prev.box.Y.Hi {
		return true
	}

	gap := prev.box.Y.Lo - cur.box.Y.Hi
	height := prev.box.Y.Hi - prev.box.Y.Lo

	return gap > margin*height
}
