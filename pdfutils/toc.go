package pdfutils

import (
	"github.com/gen2brain/go-fitz"
	"github.com/mgmeyers/unipdf/v3/common"

	"github.com/mgmeyers/pdfannots/annots"
	"github.com/mgmeyers/pdfannots/document"
)

// GetToCOutlines reads bookmarks through MuPDF. MuPDF measures Top from the
// top edge of the page, so pageTop converts it back to PDF space.
func GetToCOutlines(path string, pageTop func(int) (float64, error), log common.Logger) ([]*annots.Outline, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}

	defer doc.Close()

	toc, err := doc.ToC()
	if err != nil {
		return nil, err
	}

	return outlinesFromToC(toc, pageTop, log)
}

func outlinesFromToC(toc []fitz.Outline, pageTop func(int) (float64, error), log common.Logger) ([]*annots.Outline, error) {
	if len(toc) == 0 {
		return nil, document.ErrNoOutlines
	}

	out := []*annots.Outline{}

	for _, entry := range toc {
		title := annots.CleanupContents(entry.Title)

		if entry.Page < 0 {
			log.Warning("outline %q has no page target (%s)", title, entry.URI)
			continue
		}

		top, err := pageTop(entry.Page)
		if err != nil {
			log.Warning("outline %q: %v", title, err)
			continue
		}

		x := 0.0
		y := top - entry.Top

		out = append(out, annots.NewOutline(title, annots.PageIndex(entry.Page), &x, &y))
	}

	return out, nil
}
