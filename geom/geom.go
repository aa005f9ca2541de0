// Package geom holds the annotation regions used to hit-test text.
// All coordinates are PDF page space with y increasing upward.
package geom

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

// DefaultOverlap is the share of a character's box that has to lie inside
// a region for the character to count as covered.
const DefaultOverlap = 0.5

const epsilon = 1e-9

var ErrMalformed = errors.New("malformed geometry")

// Region is a single area of an annotation.
type Region interface {
	Hit(item r2.Rect, overlap float64) bool
	Bound() r2.Rect
}

type Rect struct {
	r r2.Rect
}

func NewRect(x0, y0, x1, y1 float64) (Rect, error) {
	if !finite(x0, y0, x1, y1) {
		return Rect{}, fmt.Errorf("%w: rect [%g %g %g %g]", ErrMalformed, x0, y0, x1, y1)
	}

	return Rect{
		r: r2.RectFromPoints(r2.Point{X: x0, Y: y0}, r2.Point{X: x1, Y: y1}),
	}, nil
}

func (r Rect) Bound() r2.Rect {
	return r.r
}

func (r Rect) Hit(item r2.Rect, overlap float64) bool {
	return IsWithinOverlapThresh(r.r, item, overlap)
}

// Quad is a quadrilateral as found in /QuadPoints.
type Quad [4]r2.Point

func NewQuad(pts [4]r2.Point) (Quad, error) {
	for _, p := range pts {
		if !finite(p.X, p.Y) {
			return Quad{}, fmt.Errorf("%w: quad %v", ErrMalformed, pts)
		}
	}

	return Quad(pts), nil
}

func (q Quad) Bound() r2.Rect {
	return r2.RectFromPoints(q[0], q[1], q[2], q[3])
}

// Hit reduces axis-aligned quads to their bounding rect. Rotated quads
// are tested on the item's centre.
func (q Quad) Hit(item r2.Rect, overlap float64) bool {
	if q.area() < epsilon {
		return false
	}

	if q.axisAligned() {
		return IsWithinOverlapThresh(q.Bound(), item, overlap)
	}

	if !item.IsValid() || getArea(item) < epsilon {
		return false
	}

	return q.contains(item.Center())
}

func (q Quad) area() float64 {
	hull := q.ordered()
	sum := 0.0

	for i := range hull {
		a, b := hull[i], hull[(i+1)%len(hull)]
		sum += a.Cross(b)
	}

	return math.Abs(sum) / 2
}

func (q Quad) axisAligned() bool {
	b := q.Bound()

	for _, p := range q {
		onX := math.Abs(p.X-b.X.Lo) < epsilon || math.Abs(p.X-b.X.Hi) < epsilon
		onY := math.Abs(p.Y-b.Y.Lo) < epsilon || math.Abs(p.Y-b.Y.Hi) < epsilon

		if !onX || !onY {
			return false
		}
	}

	return true
}

// ordered returns the corners in perimeter order. Viewers disagree on the
// corner order inside /QuadPoints, so sort by angle around the centroid.
func (q Quad) ordered() [4]r2.Point {
	c := r2.Point{}
	for _, p := range q {
		c = c.Add(p)
	}
	c = c.Mul(0.25)

	pts := [4]r2.Point(q)
	sort.Slice(pts[:], func(i, j int) bool {
		a, b := pts[i].Sub(c), pts[j].Sub(c)
		return math.Atan2(a.Y, a.X) < math.Atan2(b.Y, b.X)
	})

	return pts
}

func (q Quad) contains(p r2.Point) bool {
	hull := q.ordered()
	sign := 0.0

	for i := range hull {
		a, b := hull[i], hull[(i+1)%len(hull)]
		c := b.Sub(a).Cross(p.Sub(a))

		if math.Abs(c) < epsilon {
			continue
		}

		if sign == 0 {
			sign = c
			continue
		}

		if (c > 0) != (sign > 0) {
			return false
		}
	}

	return true
}

func IsWithinOverlapThresh(annot r2.Rect, mark r2.Rect, overlap float64) bool {
	if !annot.IsValid() || !mark.IsValid() {
		return false
	}

	markSize := getArea(mark)
	if markSize < epsilon {
		return false
	}

	if !annot.Intersects(mark) {
		return false
	}

	intersect := getArea(annot.Intersection(mark))

	return intersect/markSize >= overlap
}

func getArea(r r2.Rect) float64 {
	if r.IsEmpty() {
		return 0
	}

	s := r.Size()
	return s.X * s.Y
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}
