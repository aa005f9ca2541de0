// Package document drives annotation extraction for a whole PDF: it
// resolves outline entries to pages, renders every page through the
// binding engine and collects the results in reading order.
package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mgmeyers/unipdf/v3/common"

	"github.com/mgmeyers/pdfannots/annots"
	"github.com/mgmeyers/pdfannots/binding"
	"github.com/mgmeyers/pdfannots/geom"
)

var (
	// ErrNoOutlines is returned by Source.Outlines for documents without
	// bookmarks.
	ErrNoOutlines = errors.New("document has no outlines")

	// ErrPendingOutlines means outline entries were left unresolved after
	// every page was processed.
	ErrPendingOutlines = errors.New("unresolved outline entries")
)

// Source is a parsed PDF.
type Source interface {
	NumPages() int
	Outlines() ([]*annots.Outline, error)
	Page(index int) (Page, error)
}

// Page is one page of a Source. Rendering it pushes the page's layout
// primitives into a binding.Sink.
type Page interface {
	binding.Stream

	// ObjectID is the object number of the page dictionary, 0 if unknown.
	ObjectID() int64
	// Top is the y coordinate of the top edge of the page.
	Top() float64
	Annotations() ([]annots.Record, error)
}

type Options struct {
	Logger common.Logger
	// Overlap is the share of a character box an annotation region must
	// cover, defaults to geom.DefaultOverlap.
	Overlap float64
	// IgnoreBefore drops annotations created earlier than this time.
	IgnoreBefore time.Time
	// Progress receives the document name and page numbers as pages are
	// processed.
	Progress io.Writer
	Name     string
	// Strict turns outline entries pointing at missing pages into an
	// error instead of a warning.
	Strict bool
}

type Result struct {
	Annotations []*annots.Annotation
	Outlines    []*annots.Outline
}

type processor struct {
	src    Source
	opts   Options
	log    common.Logger
	engine *binding.Engine
	ids    annots.IDs

	byPage map[int][]*annots.Outline
	byObj  map[int64][]*annots.Outline
}

// Process extracts the annotations and outlines of src. Problems with
// single annotations or outline entries are logged and skipped; errors
// from the source itself are returned.
func Process(ctx context.Context, src Source, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = common.Log
	}

	if opts.Overlap == 0 {
		opts.Overlap = geom.DefaultOverlap
	}

	p := &processor{
		src:    src,
		opts:   opts,
		log:    log,
		engine: binding.New(binding.Options{Logger: log}),
		ids:    annots.IDs{},
		byPage: map[int][]*annots.Outline{},
		byObj:  map[int64][]*annots.Outline{},
	}

	return p.run(ctx)
}

func (p *processor) run(ctx context.Context) (*Result, error) {
	p.progress(p.opts.Name)
	p.collectOutlines()

	res := &Result{}

	for i := 0; i < p.src.NumPages(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p.progress(fmt.Sprintf(" %d", i+1))

		items, err := p.processPage(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}

		res.Annotations = append(res.Annotations, items.Annotations...)
		res.Outlines = append(res.Outlines, items.Outlines...)
	}

	p.progress("\n")

	// entries still pending point at pages that do not exist; the warning
	// logged for each is the only trace they leave unless Strict is set
	if err := p.dropDangling(); err != nil {
		return nil, err
	}

	return res, nil
}

// collectOutlines buckets outline entries by how they address their page.
// They are attached when that page is reached.
func (p *processor) collectOutlines() {
	outlines, err := p.src.Outlines()

	if errors.Is(err, ErrNoOutlines) {
		p.log.Info("document doesn't include outlines (\"bookmarks\")")
		return
	}

	if err != nil {
		p.log.Warning("failed to retrieve outlines: %v", err)
		return
	}

	for _, o := range outlines {
		if o.Ref.ByObjID {
			p.byObj[o.Ref.ObjID] = append(p.byObj[o.Ref.ObjID], o)
		} else {
			p.byPage[o.Ref.Index] = append(p.byPage[o.Ref.Index], o)
		}
	}
}

func (p *processor) processPage(index int) (*binding.PageItems, error) {
	page, err := p.src.Page(index)
	if err != nil {
		return nil, err
	}

	items := &binding.PageItems{Index: index}

	var outlines []*annots.Outline
	if id := page.ObjectID(); id != 0 {
		outlines = append(outlines, p.byObj[id]...)
		delete(p.byObj, id)
	}
	outlines = append(outlines, p.byPage[index]...)
	delete(p.byPage, index)

	for _, o := range outlines {
		o.Attach(index, page.Top())
		items.Outlines = append(items.Outlines, o)
	}

	records, err := page.Annotations()
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if a := p.buildAnnotation(index, rec); a != nil {
			items.Annotations = append(items.Annotations, a)
		}
	}

	if err := p.engine.Scan(items, page); err != nil {
		return nil, err
	}

	annots.SortAnnotations(items.Annotations)
	annots.SortOutlines(items.Outlines)

	return items, nil
}

func (p *processor) buildAnnotation(index int, rec annots.Record) *annots.Annotation {
	a, warnings, err := annots.Build(rec, index, p.opts.Overlap)
	if err != nil {
		p.log.Warning("page %d: skipping annotation: %v", index+1, err)
		return nil
	}

	for _, w := range warnings {
		p.log.Warning("page %d: %s annotation: dropping region: %v", index+1, a.Subtype, w)
	}

	if !p.opts.IgnoreBefore.IsZero() && a.Created != nil && a.Created.Before(p.opts.IgnoreBefore) {
		p.log.Debug("page %d: ignoring %s annotation from %s", index+1, a.Subtype, a.Created)
		return nil
	}

	a.ID = p.ids.Next(index, a.Anchor.X, a.Anchor.Y, string(a.Subtype))

	return a
}

// dropDangling removes outline entries whose page never showed up.
func (p *processor) dropDangling() error {
	var dangling []*annots.Outline

	pages := make([]int, 0, len(p.byPage))
	for k := range p.byPage {
		pages = append(pages, k)
	}
	sort.Ints(pages)

	for _, k := range pages {
		dangling = append(dangling, p.byPage[k]...)
		delete(p.byPage, k)
	}

	objs := make([]int64, 0, len(p.byObj))
	for k := range p.byObj {
		objs = append(objs, k)
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i] < objs[j] })

	for _, k := range objs {
		dangling = append(dangling, p.byObj[k]...)
		delete(p.byObj, k)
	}

	for _, o := range dangling {
		p.log.Warning("outline %q refers to %s, which was not found", o.Title, o.Ref)
	}

	if p.opts.Strict && len(dangling) > 0 {
		return fmt.Errorf("%w: %d entries point at missing pages", ErrPendingOutlines, len(dangling))
	}

	return nil
}

func (p *processor) progress(msg string) {
	if p.opts.Progress == nil || msg == "" {
		return
	}

	io.WriteString(p.opts.Progress, msg)
}
