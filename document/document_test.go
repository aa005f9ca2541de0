package document

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/geo/r2"
	"github.com/google/go-cmp/cmp"
	"github.com/mgmeyers/unipdf/v3/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgmeyers/pdfannots/annots"
	"github.com/mgmeyers/pdfannots/binding"
	"github.com/mgmeyers/pdfannots/logging"
)

type fakePage struct {
	id      int64
	records []annots.Record
	render  func(binding.Sink)
	err     error
}

func (p *fakePage) ObjectID() int64 { return p.id }
func (p *fakePage) Top() float64    { return 800 }

func (p *fakePage) Annotations() ([]annots.Record, error) {
	return p.records, p.err
}

func (p *fakePage) Render(s binding.Sink) error {
	if p.render != nil {
		p.render(s)
	}
	return nil
}

type fakeSource struct {
	pages      []*fakePage
	outlines   []*annots.Outline
	outlineErr error
	pageErr    error
}

func (s *fakeSource) NumPages() int { return len(s.pages) }

func (s *fakeSource) Outlines() ([]*annots.Outline, error) {
	return s.outlines, s.outlineErr
}

func (s *fakeSource) Page(i int) (Page, error) {
	if s.pageErr != nil {
		return nil, s.pageErr
	}
	return s.pages[i], nil
}

func rect(x0, y0, x1, y1 float64) r2.Rect {
	return r2.RectFromPoints(r2.Point{X: x0, Y: y0}, r2.Point{X: x1, Y: y1})
}

// twoLines renders "ab" at y=700 and "cd" at y=600, 10 units per glyph.
func twoLines(s binding.Sink) {
	s.ContainerBegin(binding.TextBox)
	s.LineBoundary(rect(0, 700, 20, 710))
	s.Character(rect(0, 700, 10, 710), "a")
	s.Character(rect(10, 700, 20, 710), "b")
	s.Whitespace("\n")
	s.LineBoundary(rect(0, 600, 20, 610))
	s.Character(rect(0, 600, 10, 610), "c")
	s.Character(rect(10, 600, 20, 610), "d")
	s.Whitespace("\n")
	s.ContainerEnd(binding.TextBox, rect(0, 600, 20, 710))
}

func quad(x0, y0, x1, y1 float64) []float64 {
	return []float64{x0, y1, x1, y1, x0, y0, x1, y0}
}

func testLogger() (common.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return logging.New(common.LogLevelDebug, buf), buf
}

func fp(f float64) *float64 { return &f }

func TestProcess(t *testing.T) {
	log, logs := testLogger()

	src := &fakeSource{
		pages: []*fakePage{
			{
				id: 10,
				records: []annots.Record{
					{Subtype: "Underline", QuadPoints: quad(0, 600, 20, 610)},
					{Subtype: "Highlight", QuadPoints: quad(0, 700, 20, 710)},
					{Subtype: "FreeText", Rect: []float64{0, 0, 10, 10}},
					{Subtype: "Text", Rect: []float64{300, 650, 320, 670}, Contents: strp("note")},
				},
				render: twoLines,
			},
			{
				id:      11,
				records: []annots.Record{{Subtype: "Highlight", Err: errors.New("bad ref")}},
			},
		},
		outlines: []*annots.Outline{
			annots.NewOutline("Second", annots.PageObject(11), nil, nil),
			annots.NewOutline("Lower", annots.PageIndex(0), fp(0), fp(605)),
			annots.NewOutline("Upper", annots.PageObject(10), fp(0), fp(705)),
			annots.NewOutline("Nowhere", annots.PageIndex(7), nil, nil),
		},
	}

	progress := &bytes.Buffer{}
	res, err := Process(context.Background(), src, Options{Logger: log, Progress: progress, Name: "doc.pdf"})
	require.NoError(t, err)

	var got []string
	for _, a := range res.Annotations {
		got = append(got, string(a.Subtype)+":"+a.Text())
	}

	want := []string{"Highlight:ab\n", "Text:", "Underline:cd\n"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("annotations (-want +got):\n%s", diff)
	}

	var titles []string
	for _, o := range res.Outlines {
		titles = append(titles, o.Title)
	}
	assert.Equal(t, []string{"Upper", "Lower", "Second"}, titles)

	assert.Equal(t, "Highlight-p1x0y710", res.Annotations[0].ID)
	assert.Equal(t, "note", res.Annotations[1].Contents)
	assert.Equal(t, 1, res.Outlines[2].Pos().Page)
	assert.Equal(t, 800.0, res.Outlines[2].Pos().Y)

	assert.Equal(t, "doc.pdf 1 2\n", progress.String())
	assert.Contains(t, logs.String(), `unsupported annotation: subtype "FreeText"`)
	assert.Contains(t, logs.String(), "bad ref")
	assert.Contains(t, logs.String(), `outline "Nowhere" refers to page 8, which was not found`)
}

func TestStrictDangling(t *testing.T) {
	log, _ := testLogger()

	src := &fakeSource{
		pages:    []*fakePage{{id: 1}},
		outlines: []*annots.Outline{annots.NewOutline("Gone", annots.PageObject(99), nil, nil)},
	}

	_, err := Process(context.Background(), src, Options{Logger: log, Strict: true})
	assert.ErrorIs(t, err, ErrPendingOutlines)

	src.outlines[0] = annots.NewOutline("Gone", annots.PageObject(99), nil, nil)
	res, err := Process(context.Background(), src, Options{Logger: log})
	require.NoError(t, err)
	assert.Empty(t, res.Outlines)
}

func TestDanglingOutlinesWarned(t *testing.T) {
	log, logs := testLogger()

	src := &fakeSource{
		pages: []*fakePage{{id: 1}},
		outlines: []*annots.Outline{
			annots.NewOutline("Kept", annots.PageObject(1), nil, nil),
			annots.NewOutline("By index", annots.PageIndex(3), nil, nil),
			annots.NewOutline("By object", annots.PageObject(99), nil, nil),
		},
	}

	res, err := Process(context.Background(), src, Options{Logger: log})
	require.NoError(t, err)

	require.Len(t, res.Outlines, 1)
	assert.Equal(t, "Kept", res.Outlines[0].Title)
	assert.Contains(t, logs.String(), `[WARNING] outline "By index" refers to page 4, which was not found`)
	assert.Contains(t, logs.String(), `[WARNING] outline "By object" refers to obj 99, which was not found`)

	src.outlines = []*annots.Outline{
		annots.NewOutline("By index", annots.PageIndex(3), nil, nil),
		annots.NewOutline("By object", annots.PageObject(99), nil, nil),
	}

	_, err = Process(context.Background(), src, Options{Logger: log, Strict: true})
	require.ErrorIs(t, err, ErrPendingOutlines)
	assert.Contains(t, err.Error(), "2 entries point at missing pages")
}

func TestNoOutlines(t *testing.T) {
	log, logs := testLogger()

	src := &fakeSource{pages: []*fakePage{{}}, outlineErr: ErrNoOutlines}
	res, err := Process(context.Background(), src, Options{Logger: log})
	require.NoError(t, err)

	assert.Empty(t, res.Outlines)
	assert.Contains(t, logs.String(), "doesn't include outlines")
	assert.NotContains(t, logs.String(), "WARNING")
}

func TestOutlineFailureIsNotFatal(t *testing.T) {
	log, logs := testLogger()

	src := &fakeSource{pages: []*fakePage{{}}, outlineErr: errors.New("loop")}
	_, err := Process(context.Background(), src, Options{Logger: log})
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "failed to retrieve outlines: loop")
}

func TestPageErrorIsFatal(t *testing.T) {
	boom := errors.New("corrupt page tree")
	src := &fakeSource{pages: []*fakePage{{}}, pageErr: boom}

	_, err := Process(context.Background(), src, Options{})
	assert.ErrorIs(t, err, boom)
}

func TestAnnotationListErrorIsFatal(t *testing.T) {
	boom := errors.New("bad /Annots")
	src := &fakeSource{pages: []*fakePage{{err: boom}}}

	_, err := Process(context.Background(), src, Options{})
	assert.ErrorIs(t, err, boom)
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Process(ctx, &fakeSource{pages: []*fakePage{{}}}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIgnoreBefore(t *testing.T) {
	src := &fakeSource{
		pages: []*fakePage{{
			records: []annots.Record{
				{Subtype: "Text", Rect: []float64{0, 0, 1, 1}, M: "D:20200101000000Z"},
				{Subtype: "Text", Rect: []float64{0, 0, 1, 1}, M: "D:20230101000000Z"},
				{Subtype: "Text", Rect: []float64{0, 0, 1, 1}},
			},
		}},
	}

	cutoff := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	res, err := Process(context.Background(), src, Options{IgnoreBefore: cutoff})
	require.NoError(t, err)

	require.Len(t, res.Annotations, 2)
	assert.Equal(t, 2023, res.Annotations[0].Created.Year())
	assert.Nil(t, res.Annotations[1].Created)
}

func strp(s string) *string { return &s }
