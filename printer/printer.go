// Package printer renders extracted annotations for people and programs.
package printer

import (
	"io"
	"sort"
	"time"

	"github.com/mgmeyers/pdfannots/annots"
	"github.com/mgmeyers/pdfannots/document"
)

type Printer interface {
	// Print writes the annotations of one file. Implementations may write
	// nothing for a file without annotations.
	Print(w io.Writer, filename string, res *document.Result) error
}

// typeNames are the annotation kinds as they appear in the output.
var typeNames = map[annots.Subtype]string{
	annots.Highlight: "highlight",
	annots.StrikeOut: "strike",
	annots.Underline: "underline",
	annots.Squiggly:  "squiggly",
	annots.Text:      "text",
}

func typeName(s annots.Subtype) string {
	if n, ok := typeNames[s]; ok {
		return n
	}

	return string(s)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(time.RFC3339)
}

// nearestOutline returns the last outline at or before a, nil if there is
// none. outlines must be in reading order.
func nearestOutline(outlines []*annots.Outline, a *annots.Annotation) *annots.Outline {
	i := sort.Search(len(outlines), func(i int) bool {
		return a.Pos().Less(outlines[i].Pos())
	})

	if i == 0 {
		return nil
	}

	return outlines[i-1]
}
