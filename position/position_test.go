package position

import (
	"sort"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(y0, y1 float64) r2.Rect {
	return r2.RectFromPoints(r2.Point{X: 0, Y: y0}, r2.Point{X: 500, Y: y1})
}

func TestFixWins(t *testing.T) {
	p := NewPending(0, r2.Point{X: 10, Y: 700})
	p.Observe(line(690, 710), 1)
	p.Fix(3)
	p.Fix(4)
	p.Observe(line(695, 705), 5)

	pos := p.Freeze()
	assert.Equal(t, 3, pos.Seq)
	assert.True(t, pos.Resolved())
}

func TestNearestLine(t *testing.T) {
	p := NewPending(2, r2.Point{X: 10, Y: 650})
	p.Observe(line(700, 710), 1)
	p.Observe(line(640, 655), 2)
	p.Observe(line(600, 610), 3)
	p.Observe(r2.EmptyRect(), 4)

	pos := p.Freeze()
	assert.Equal(t, 2, pos.Page)
	assert.Equal(t, 2, pos.Seq)
}

func TestNoLines(t *testing.T) {
	pos := NewPending(1, r2.Point{X: 1, Y: 2}).Freeze()
	assert.Equal(t, 0, pos.Seq)
	assert.Equal(t, 1.0, pos.X)
	assert.Equal(t, 2.0, pos.Y)
}

func freeze(page, seq int, x, y float64) Pos {
	p := NewPending(page, r2.Point{X: x, Y: y})
	p.Fix(seq)
	return p.Freeze()
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Pos
		want int
	}{
		{"page", freeze(0, 9, 0, 0), freeze(1, 0, 0, 0), -1},
		{"seq", freeze(1, 2, 0, 0), freeze(1, 1, 0, 0), 1},
		{"top first", freeze(1, 2, 50, 700), freeze(1, 2, 10, 600), -1},
		{"left first", freeze(1, 2, 10, 700), freeze(1, 2, 50, 700), -1},
		{"equal", freeze(1, 2, 10, 700), freeze(1, 2, 10, 700), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Compare(tc.b))
			assert.Equal(t, -tc.want, tc.b.Compare(tc.a))
		})
	}
}

func TestCompareUnresolvedPanics(t *testing.T) {
	assert.Panics(t, func() {
		Pos{}.Compare(freeze(0, 0, 0, 0))
	})
}

func TestTotalOrder(t *testing.T) {
	ps := []Pos{
		freeze(1, 0, 5, 5),
		freeze(0, 3, 5, 5),
		freeze(0, 1, 9, 100),
		freeze(0, 1, 2, 100),
		freeze(0, 1, 2, 200),
	}

	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Less(ps[j]) })

	for i := 1; i < len(ps); i++ {
		require.LessOrEqual(t, ps[i-1].Compare(ps[i]), 0)
	}

	assert.Equal(t, 200.0, ps[0].Y)
	assert.Equal(t, 2.0, ps[1].X)
	assert.Equal(t, 9.0, ps[2].X)
	assert.Equal(t, 3, ps[3].Seq)
	assert.Equal(t, 1, ps[4].Page)
}
