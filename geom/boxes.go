package geom

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// Boxes is the ordered set of regions covered by one annotation. It is not
// modified after construction.
type Boxes struct {
	regions []Region
	overlap float64
}

func NewBoxes(overlap float64, regions ...Region) Boxes {
	if overlap <= 0 || overlap > 1 {
		overlap = DefaultOverlap
	}

	rs := make([]Region, len(regions))
	copy(rs, regions)

	return Boxes{regions: rs, overlap: overlap}
}

func (b Boxes) Len() int {
	return len(b.regions)
}

func (b Boxes) Empty() bool {
	return len(b.regions) == 0
}

func (b Boxes) Regions() []Region {
	rs := make([]Region, len(b.regions))
	copy(rs, b.regions)
	return rs
}

// Hit reports whether any region covers the item.
func (b Boxes) Hit(item r2.Rect) bool {
	for _, r := range b.regions {
		if r.Hit(item, b.overlap) {
			return true
		}
	}

	return false
}

func (b Boxes) Bound() r2.Rect {
	bound := r2.EmptyRect()

	for _, r := range b.regions {
		bound = bound.Union(r.Bound())
	}

	return bound
}

// Anchor is the top-left corner of the first region, where left-to-right
// top-to-bottom text starts.
func (b Boxes) Anchor() (r2.Point, bool) {
	if len(b.regions) == 0 {
		return r2.Point{}, false
	}

	r := b.regions[0].Bound()
	return r2.Point{X: r.X.Lo, Y: r.Y.Hi}, true
}

// FromQuadPoints builds one Quad per group of eight coordinates. Malformed
// quads are skipped and reported through the returned error slice.
func FromQuadPoints(coords []float64) ([]Region, []error) {
	if len(coords)%8 != 0 {
		return nil, []error{fmt.Errorf("%w: %d quadpoint coordinates", ErrMalformed, len(coords))}
	}

	coordHolder := []float64{}
	ptHolder := []r2.Point{}
	regions := []Region{}
	errs := []error{}

	for _, coord := range coords {
		coordHolder = append(coordHolder, coord)

		if len(coordHolder) == 2 {
			pt := r2.Point{X: coordHolder[0], Y: coordHolder[1]}
			ptHolder = append(ptHolder, pt)

			coordHolder = []float64{}

			if len(ptHolder) == 4 {
				q, err := NewQuad([4]r2.Point{ptHolder[0], ptHolder[1], ptHolder[2], ptHolder[3]})
				if err != nil {
					errs = append(errs, err)
				} else {
					regions = append(regions, q)
				}

				ptHolder = []r2.Point{}
			}
		}
	}

	return regions, errs
}

// FromRect builds a Rect from a PDF rectangle array [x0 y0 x1 y1].
func FromRect(coords []float64) (Region, error) {
	if len(coords) != 4 {
		return nil, fmt.Errorf("%w: rect with %d coordinates", ErrMalformed, len(coords))
	}

	return NewRect(coords[0], coords[1], coords[2], coords[3])
}
