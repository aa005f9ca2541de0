package pdfutils

import (
	"fmt"
	"io"
	"os"

	"github.com/mgmeyers/unipdf/v3/common"
	"github.com/mgmeyers/unipdf/v3/extractor"
	"github.com/mgmeyers/unipdf/v3/model"

	"github.com/mgmeyers/pdfannots/annots"
	"github.com/mgmeyers/pdfannots/binding"
	"github.com/mgmeyers/pdfannots/document"
)

const (
	OutlineSourcePDF   = "pdf"
	OutlineSourceMuPDF = "mupdf"
)

type Options struct {
	Logger common.Logger
	Layout LayoutParams
	// OutlineSource selects where bookmarks are read from: the PDF outline
	// tree (default) or MuPDF's table of contents.
	OutlineSource string
}

// Document is a PDF opened with unipdf. It implements document.Source.
type Document struct {
	path     string
	file     *os.File
	reader   *model.PdfReader
	numPages int
	opts     Options
	log      common.Logger
}

var _ document.Source = (*Document)(nil)

func Open(path string, opts Options) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	d, err := newDocument(f, opts)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	d.path = path
	d.file = f

	return d, nil
}

func newDocument(rs io.ReadSeeker, opts Options) (*Document, error) {
	log := opts.Logger
	if log == nil {
		log = common.Log
	}

	reader, err := model.NewPdfReader(rs)
	if err != nil {
		return nil, err
	}

	encrypted, err := reader.IsEncrypted()
	if err != nil {
		return nil, err
	}

	if encrypted {
		ok, err := reader.Decrypt([]byte(""))
		if err != nil {
			return nil, err
		}

		if !ok {
			return nil, fmt.Errorf("document is encrypted with a password")
		}
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return nil, err
	}

	return &Document{
		reader:   reader,
		numPages: numPages,
		opts:     opts,
		log:      log,
	}, nil
}

func (d *Document) Close() error {
	if d.file == nil {
		return nil
	}

	return d.file.Close()
}

func (d *Document) NumPages() int {
	return d.numPages
}

func (d *Document) Outlines() ([]*annots.Outline, error) {
	if d.opts.OutlineSource == OutlineSourceMuPDF {
		if d.path == "" {
			return nil, fmt.Errorf("mupdf outlines need a file path")
		}

		return GetToCOutlines(d.path, d.pageTop, d.log)
	}

	return GetOutlines(d.reader, d.log)
}

func (d *Document) Page(index int) (document.Page, error) {
	p, err := d.reader.GetPage(index + 1)
	if err != nil {
		return nil, err
	}

	pg, err := newPage(p, d.opts.Layout)
	if err != nil {
		return nil, err
	}

	return pg, nil
}

func (d *Document) pageTop(index int) (float64, error) {
	p, err := d.reader.GetPage(index + 1)
	if err != nil {
		return 0, err
	}

	return mediaTop(p)
}

type page struct {
	page   *model.PdfPage
	layout LayoutParams
	top    float64
	id     int64
}

func newPage(p *model.PdfPage, layout LayoutParams) (*page, error) {
	top, err := mediaTop(p)
	if err != nil {
		return nil, err
	}

	id, _ := objectNumber(p.GetContainingPdfObject())

	return &page{page: p, layout: layout, top: top, id: id}, nil
}

func mediaTop(p *model.PdfPage) (float64, error) {
	box, err := p.GetMediaBox()
	if err != nil {
		return 0, err
	}

	return box.Ury, nil
}

func (p *page) ObjectID() int64 {
	return p.id
}

func (p *page) Top() float64 {
	return p.top
}

func (p *page) Annotations() ([]annots.Record, error) {
	return GetAnnotationRecords(p.page)
}

func (p *page) Render(sink binding.Sink) error {
	ext, err := extractor.New(p.page)
	if err != nil {
		return err
	}

	txt, _, _, err := ext.ExtractPageText()
	if err != nil {
		return err
	}

	RenderMarks(MarksFromText(txt.Marks().Elements()), p.layout, sink)

	return nil
}
