package annots

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"github.com/mgmeyers/pdfannots/geom"
)

var ErrUnsupported = errors.New("unsupported annotation")

// Record is an annotation dictionary as read from the PDF, before any
// filtering. Nil slices and empty strings mean the key was absent.
type Record struct {
	Subtype      string
	Contents     *string
	QuadPoints   []float64
	Rect         []float64
	Author       string
	CreationDate string
	ModDate      string
	M            string
	Color        []float64

	// Err is set when the entry in /Annots could not be dereferenced.
	Err error
}

// DateString returns the first timestamp present. Some writers only set
// /ModDate, poppler-based ones use /M.
func (r Record) DateString() string {
	for _, s := range []string{r.CreationDate, r.ModDate, r.M} {
		if s != "" {
			return s
		}
	}

	return ""
}

// Build turns a record into an Annotation on the given page. It fails with
// ErrUnsupported for subtypes outside the supported set. Regions that are
// malformed are dropped and returned as warnings.
func Build(rec Record, page int, overlap float64) (*Annotation, []error, error) {
	if rec.Err != nil {
		return nil, nil, rec.Err
	}

	subtype, ok := ParseSubtype(rec.Subtype)
	if !ok {
		return nil, nil, fmt.Errorf("%w: subtype %q", ErrUnsupported, rec.Subtype)
	}

	var regions []geom.Region
	var warnings []error

	if subtype.Markup() {
		if rec.QuadPoints != nil {
			regions, warnings = geom.FromQuadPoints(rec.QuadPoints)
		} else if rec.Rect != nil {
			r, err := geom.FromRect(rec.Rect)
			if err != nil {
				warnings = append(warnings, err)
			} else {
				regions = append(regions, r)
			}
		}
	}

	boxes := geom.NewBoxes(overlap, regions...)

	anchor, ok := boxes.Anchor()
	if !ok {
		anchor = rectAnchor(rec.Rect)
	}

	a := NewAnnotation(page, subtype, boxes, anchor)
	a.Author = RemoveNul(rec.Author)
	a.Created = ParseDate(rec.DateString())
	a.Color = ColorToHex(rec.Color)
	a.ColorCategory = ColorToCategory(rec.Color)

	if rec.Contents != nil {
		a.Contents = CleanupContents(*rec.Contents)
	}

	return a, warnings, nil
}

// rectAnchor assumes left-to-right, top-to-bottom text.
func rectAnchor(rect []float64) r2.Point {
	if len(rect) != 4 {
		return r2.Point{}
	}

	for _, v := range rect {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return r2.Point{}
		}
	}

	return r2.Point{
		X: math.Min(rect[0], rect[2]),
		Y: math.Max(rect[1], rect[3]),
	}
}
