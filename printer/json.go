package printer

import (
	"encoding/json"
	"io"
	"math"

	"github.com/mgmeyers/pdfannots/annots"
	"github.com/mgmeyers/pdfannots/document"
)

type Annotation struct {
	AnnotatedText string  `json:"annotatedText,omitempty"`
	Author        string  `json:"author,omitempty"`
	Color         string  `json:"color,omitempty"`
	ColorCategory string  `json:"colorCategory,omitempty"`
	Comment       string  `json:"comment,omitempty"`
	Date          string  `json:"date,omitempty"`
	ID            string  `json:"id"`
	Outline       string  `json:"outline,omitempty"`
	Page          int     `json:"page"`
	Type          string  `json:"type"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
}

type Outline struct {
	Title string  `json:"title"`
	Page  int     `json:"page"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type File struct {
	File        string        `json:"file"`
	Annotations []*Annotation `json:"annotations"`
	Outlines    []*Outline    `json:"outlines"`
}

// JSON writes one object per file on its own line.
type JSON struct {
	Indent bool
}

func (p JSON) Print(w io.Writer, filename string, res *document.Result) error {
	out := &File{
		File:        filename,
		Annotations: []*Annotation{},
		Outlines:    []*Outline{},
	}

	for _, a := range res.Annotations {
		out.Annotations = append(out.Annotations, toJSONAnnotation(a, nearestOutline(res.Outlines, a)))
	}

	for _, o := range res.Outlines {
		pos := o.Pos()
		out.Outlines = append(out.Outlines, &Outline{
			Title: o.Title,
			Page:  pos.Page + 1,
			X:     round(pos.X),
			Y:     round(pos.Y),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if p.Indent {
		enc.SetIndent("", "  ")
	}

	return enc.Encode(out)
}

func toJSONAnnotation(a *annots.Annotation, o *annots.Outline) *Annotation {
	out := &Annotation{
		AnnotatedText: annots.CleanupText(a.Text()),
		Author:        a.Author,
		Color:         a.Color,
		ColorCategory: a.ColorCategory,
		Comment:       a.Contents,
		Date:          formatDate(a.Created),
		ID:            a.ID,
		Page:          a.Page + 1,
		Type:          typeName(a.Subtype),
		X:             round(a.Anchor.X),
		Y:             round(a.Anchor.Y),
	}

	if o != nil {
		out.Outline = o.Title
	}

	return out
}

func round(f float64) float64 {
	return math.Round(f*100) / 100
}
