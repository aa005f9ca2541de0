package pdfutils

import (
	"github.com/golang/geo/r2"
	"github.com/mgmeyers/unipdf/v3/extractor"
	"github.com/mgmeyers/unipdf/v3/model"
)

func GetMarkRect(mark extractor.TextMark) r2.Rect {
	return rectFromPdf(mark.BBox)
}

func rectFromPdf(r model.PdfRectangle) r2.Rect {
	return r2.RectFromPoints(
		r2.Point{
			X: r.Llx,
			Y: r.Lly,
		},
		r2.Point{
			X: r.Urx,
			Y: r.Ury,
		},
	)
}

// unionRect grows bound to cover r, ignoring invalid or empty rects.
func unionRect(bound r2.Rect, r r2.Rect) r2.Rect {
	if !r.IsValid() || r.IsEmpty() {
		return bound
	}

	if bound.IsEmpty() {
		return r
	}

	return bound.Union(r)
}
