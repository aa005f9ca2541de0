package annots

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgmeyers/pdfannots/geom"
)

func strp(s string) *string { return &s }

func TestParseSubtype(t *testing.T) {
	for _, name := range []string{"Text", "Highlight", "Squiggly", "StrikeOut", "Underline"} {
		s, ok := ParseSubtype(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, string(s))
	}

	for _, name := range []string{"FreeText", "Square", "Link", "", "highlight"} {
		_, ok := ParseSubtype(name)
		assert.False(t, ok, name)
	}
}

func TestBuildUnsupported(t *testing.T) {
	a, _, err := Build(Record{Subtype: "FreeText", Rect: []float64{0, 0, 10, 10}}, 0, geom.DefaultOverlap)

	assert.Nil(t, a)
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestBuildRecordError(t *testing.T) {
	boom := errors.New("dangling reference")
	_, _, err := Build(Record{Subtype: "Highlight", Err: boom}, 0, geom.DefaultOverlap)

	assert.ErrorIs(t, err, boom)
}

func TestBuildHighlight(t *testing.T) {
	rec := Record{
		Subtype:    "Highlight",
		Contents:   strp("  a “note”\r\nhere "),
		QuadPoints: []float64{10, 720, 200, 720, 10, 700, 200, 700, 10, 700, 100, 700, 10, 680, 100, 680},
		Rect:       []float64{0, 0, 300, 800},
		Author:     "ann\x00",
		ModDate:    "D:20220102030405Z",
		M:          "D:19990101",
		Color:      []float64{1, 1, 0},
	}

	a, warnings, err := Build(rec, 3, geom.DefaultOverlap)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, Highlight, a.Subtype)
	assert.Equal(t, 3, a.Page)
	assert.Equal(t, 2, a.Boxes.Len())
	assert.Equal(t, r2.Point{X: 10, Y: 720}, a.Anchor)
	assert.Equal(t, "a \"note\"\nhere", a.Contents)
	assert.Equal(t, "ann", a.Author)
	assert.Equal(t, "#ffff00", a.Color)
	assert.Equal(t, "Yellow", a.ColorCategory)
	require.NotNil(t, a.Created)
	assert.Equal(t, 2022, a.Created.Year())
	assert.False(t, a.HasText())
}

func TestBuildRectFallback(t *testing.T) {
	a, _, err := Build(Record{Subtype: "Underline", Rect: []float64{50, 10, 5, 30}}, 0, geom.DefaultOverlap)
	require.NoError(t, err)

	assert.Equal(t, 1, a.Boxes.Len())
	assert.Equal(t, r2.Point{X: 5, Y: 30}, a.Anchor)
}

func TestBuildStickyNoteHasNoBoxes(t *testing.T) {
	a, _, err := Build(Record{Subtype: "Text", Rect: []float64{100, 500, 120, 520}}, 0, geom.DefaultOverlap)
	require.NoError(t, err)

	assert.True(t, a.Boxes.Empty())
	assert.Equal(t, r2.Point{X: 100, Y: 520}, a.Anchor)
}

func TestBuildMalformedGeometry(t *testing.T) {
	rec := Record{
		Subtype:    "Highlight",
		QuadPoints: []float64{math.NaN(), 720, 200, 720, 10, 700, 200, 700},
	}

	a, warnings, err := Build(rec, 0, geom.DefaultOverlap)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.True(t, errors.Is(warnings[0], geom.ErrMalformed))
	assert.True(t, a.Boxes.Empty())
}

func TestDateString(t *testing.T) {
	assert.Equal(t, "c", Record{CreationDate: "c", ModDate: "m", M: "x"}.DateString())
	assert.Equal(t, "m", Record{ModDate: "m", M: "x"}.DateString())
	assert.Equal(t, "x", Record{M: "x"}.DateString())
	assert.Equal(t, "", Record{}.DateString())
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"D:20210314152600+01'00'", time.Date(2021, 3, 14, 15, 26, 0, 0, time.FixedZone("", 3600))},
		{"D:20210314152600Z00'00'", time.Date(2021, 3, 14, 15, 26, 0, 0, time.UTC)},
		{"D:20210314152600Z", time.Date(2021, 3, 14, 15, 26, 0, 0, time.UTC)},
		{"D:20210314152600-05'30", time.Date(2021, 3, 14, 15, 26, 0, 0, time.FixedZone("", -(5*3600+30*60)))},
		{"D:20210314152600", time.Date(2021, 3, 14, 15, 26, 0, 0, time.UTC)},
		{"D:20210314", time.Date(2021, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"2021", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got := ParseDate(tc.in)
			require.NotNil(t, got)
			assert.True(t, tc.want.Equal(*got), "got %v", got)
		})
	}

	assert.Nil(t, ParseDate(""))
	assert.Nil(t, ParseDate("yesterday"))
}

func TestCleanupText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Hi!\n", "Hi!"},
		{"AB\nCD", "AB CD"},
		{"hyphen-\nated words", "hyphenated words"},
		{"the ﬁrst “quote”", `the first "quote"`},
		{"  many   spaces\t\tand\n\nlines ", "many spaces and lines"},
		{"ok�", "ok"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, CleanupText(tc.in), tc.in)
	}
}

func TestColors(t *testing.T) {
	tests := []struct {
		c        []float64
		hex, cat string
	}{
		{[]float64{1, 0, 0}, "#ff0000", "Red"},
		{[]float64{0, 0, 1}, "#0000ff", "Blue"},
		{[]float64{0.5}, "#808080", "Gray"},
		{[]float64{0, 0, 0, 1}, "#000000", "Black"},
		{[]float64{0, 1, 1, 0}, "#ff0000", "Red"},
		{nil, "", ""},
		{[]float64{1, 2}, "", ""},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.hex, ColorToHex(tc.c), "%v", tc.c)
		assert.Equal(t, tc.cat, ColorToCategory(tc.c), "%v", tc.c)
	}
}

func TestIDs(t *testing.T) {
	ids := IDs{}

	assert.Equal(t, "Highlight-p1x10y20", ids.Next(0, 10.4, 20.9, "Highlight"))
	assert.Equal(t, "Highlight-p1x10y20-1", ids.Next(0, 10, 20, "Highlight"))
	assert.Equal(t, "Highlight-p1x10y20-2", ids.Next(0, 10, 20, "Highlight"))
	assert.Equal(t, "Text-p2x10y20", ids.Next(1, 10, 20, "Text"))
}

func TestOutlineAttach(t *testing.T) {
	x := 72.0
	o := NewOutline("Intro", PageObject(12), &x, nil)

	assert.False(t, o.Attached())
	assert.Equal(t, "obj 12", o.Ref.String())

	o.Attach(4, 792)
	require.True(t, o.Attached())
	o.Resolve()

	pos := o.Pos()
	assert.Equal(t, 4, pos.Page)
	assert.Equal(t, 72.0, pos.X)
	assert.Equal(t, 792.0, pos.Y)
	assert.Equal(t, "page 3", PageIndex(2).String())
}
