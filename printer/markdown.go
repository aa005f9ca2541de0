package printer

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/mgmeyers/pdfannots/annots"
	"github.com/mgmeyers/pdfannots/document"
)

const (
	SectionHighlights = "highlights"
	SectionComments   = "comments"
	SectionNits       = "nits"
)

var AllSections = []string{SectionHighlights, SectionComments, SectionNits}

var sectionTitles = map[string]string{
	SectionHighlights: "Highlights",
	SectionComments:   "Detailed comments",
	SectionNits:       "Nits",
}

// maxCondensed is the longest quote, in runes, printed on the item line.
const maxCondensed = 250

type Markdown struct {
	// Sections limits and orders the sections printed when grouping.
	Sections []string
	// Condense prints short quotes inline instead of as a block quote.
	Condense bool
	// Group splits annotations into highlights, comments and nits.
	Group         bool
	PrintFilename bool
	// Wrap is the output width in columns, 0 for no wrapping.
	Wrap int
}

func (p Markdown) Print(w io.Writer, filename string, res *document.Result) error {
	if len(res.Annotations) == 0 {
		return nil
	}

	b := &strings.Builder{}

	if p.PrintFilename {
		fmt.Fprintf(b, "# File: %s\n\n", filename)
	}

	if p.Group {
		p.printGrouped(b, res)
	} else {
		for _, a := range res.Annotations {
			b.WriteString(p.format(a, res.Outlines))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (p Markdown) printGrouped(b *strings.Builder, res *document.Result) {
	groups := map[string][]*annots.Annotation{}
	for _, a := range res.Annotations {
		s := sectionOf(a)
		groups[s] = append(groups[s], a)
	}

	sections := p.Sections
	if len(sections) == 0 {
		sections = AllSections
	}

	for _, s := range sections {
		items := []string{}
		for _, a := range groups[s] {
			if item := p.format(a, res.Outlines); item != "" {
				items = append(items, item)
			}
		}

		if len(items) == 0 {
			continue
		}

		fmt.Fprintf(b, "## %s\n\n", sectionTitles[s])
		for _, item := range items {
			b.WriteString(item)
		}
	}
}

func sectionOf(a *annots.Annotation) string {
	switch a.Subtype {
	case annots.StrikeOut, annots.Squiggly:
		return SectionNits
	}

	if a.Contents != "" || !a.HasText() {
		return SectionComments
	}

	return SectionHighlights
}

// format renders one list item followed by a blank line. Annotations with
// neither text nor a comment render as "".
func (p Markdown) format(a *annots.Annotation, outlines []*annots.Outline) string {
	text := annots.CleanupText(a.Text())
	comment := a.Contents

	if text == "" && comment == "" {
		return ""
	}

	head := fmt.Sprintf("Page %d", a.Page+1)
	if o := nearestOutline(outlines, a); o != nil && o.Title != "" {
		head += fmt.Sprintf(" (%s)", o.Title)
	}
	head += ":"

	inline := text != "" && p.Condense && utf8.RuneCountInString(text) <= maxCondensed
	if inline {
		head += ` "` + text + `"`
		text = ""
	}

	if comment != "" && text == "" && !strings.Contains(comment, "\n") {
		if inline {
			head += " -- " + comment
		} else {
			head += " " + comment
		}
		comment = ""
	}

	b := &strings.Builder{}
	b.WriteString(p.wrap(head, "* ", "  "))

	if text != "" {
		b.WriteString("\n")
		b.WriteString(p.wrap(text, "  > ", "  > "))
	}

	if comment != "" {
		b.WriteString("\n")
		for _, line := range strings.Split(comment, "\n") {
			b.WriteString(p.wrap(line, "  ", "  "))
		}
	}

	b.WriteString("\n")

	return b.String()
}

// wrap breaks s at spaces so that no line is wider than p.Wrap columns,
// unless a single word is. first prefixes the first line, rest the others.
func (p Markdown) wrap(s, first, rest string) string {
	if p.Wrap <= 0 {
		return strings.TrimRight(first+s, " ") + "\n"
	}

	b := &strings.Builder{}
	line := first
	width := runewidth.StringWidth(first)
	empty := true

	for _, word := range strings.Fields(s) {
		w := runewidth.StringWidth(word)

		if !empty && width+1+w > p.Wrap {
			b.WriteString(line + "\n")
			line = rest
			width = runewidth.StringWidth(rest)
			empty = true
		}

		if !empty {
			line += " "
			width++
		}

		line += word
		width += w
		empty = false
	}

	b.WriteString(strings.TrimRight(line, " ") + "\n")

	return b.String()
}
