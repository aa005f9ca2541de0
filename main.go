package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/mgmeyers/unipdf/v3/common"
	"golang.org/x/sync/errgroup"

	"github.com/mgmeyers/pdfannots/document"
	"github.com/mgmeyers/pdfannots/geom"
	"github.com/mgmeyers/pdfannots/logging"
	"github.com/mgmeyers/pdfannots/pdfutils"
	"github.com/mgmeyers/pdfannots/printer"
)

var args struct {
	Config kong.ConfigFlag `help:"Load options from a JSON file"`

	Output string `short:"o" type:"path" help:"Output file (default is stdout)"`
	Format string `short:"f" enum:"md,json" default:"md" help:"Output format. Supports md and json"`

	Progress bool   `short:"p" help:"Emit progress information to stderr"`
	LogLevel string `enum:"error,warning,notice,info,debug,trace" default:"warning" help:"Log level for messages on stderr"`
	Jobs     int    `short:"j" default:"4" help:"Number of files processed in parallel"`
	Strict   bool   `help:"Fail when an outline entry points at a page that does not exist"`

	Sections      []string `short:"s" enum:"highlights,comments,nits" default:"highlights,comments,nits" help:"Sections to emit"`
	NoCondense    bool     `help:"Emit annotations as a blockquote regardless of length"`
	NoGroup       bool     `help:"Emit annotations in order, don't group into sections"`
	PrintFilename bool     `help:"Print the filename when it has annotations"`
	Wrap          int      `short:"w" help:"Wrap text at this many output columns"`
	Indent        bool     `help:"Indent json output"`

	IgnoreBefore time.Time `short:"b" help:"Ignore annotations added before this date. Must be ISO 8601 formatted"`

	Overlap       float64 `default:"0.5" help:"Share of a character's box an annotation must cover to capture it"`
	LineMargin    float64 `default:"0.5" help:"Vertical gap between lines, relative to line height, that starts a new text box"`
	OutlineSource string  `enum:"pdf,mupdf" default:"pdf" help:"Where to read outlines from"`

	Input []string `arg:"" name:"input" help:"Paths to input PDFs" type:"existingfile"`
}

var logLevels = map[string]common.LogLevel{
	"error":   common.LogLevelError,
	"warning": common.LogLevelWarning,
	"notice":  common.LogLevelNotice,
	"info":    common.LogLevelInfo,
	"debug":   common.LogLevelDebug,
	"trace":   common.LogLevelTrace,
}

func endIfErr(e error) {
	if e != nil {
		eLog := log.New(os.Stderr, "", 0)
		eLog.Fatalln(e)
	}
}

func main() {
	kong.Parse(&args,
		kong.Name("pdfannots"),
		kong.Description("Extracts annotations from PDF files in reading order."),
		kong.Configuration(kong.JSON),
		kong.UsageOnError(),
	)

	common.SetLogger(logging.New(logLevels[args.LogLevel], os.Stderr))

	var out io.Writer = os.Stdout

	if args.Output != "" {
		f, err := os.Create(args.Output)
		endIfErr(err)

		defer f.Close()
		out = f
	}

	jobs := args.Jobs
	if jobs < 1 || args.Progress {
		jobs = 1
	}

	results := make([]*document.Result, len(args.Input))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(jobs)

	for i, path := range args.Input {
		i, path := i, path

		g.Go(func() error {
			res, err := processFile(ctx, path)
			if err != nil {
				return err
			}

			results[i] = res
			return nil
		})
	}

	endIfErr(g.Wait())

	p := newPrinter()

	for i, res := range results {
		endIfErr(p.Print(out, args.Input[i], res))
	}
}

func newPrinter() printer.Printer {
	if args.Format == "json" {
		return printer.JSON{Indent: args.Indent}
	}

	return printer.Markdown{
		Sections:      args.Sections,
		Condense:      !args.NoCondense,
		Group:         !args.NoGroup,
		PrintFilename: args.PrintFilename,
		Wrap:          args.Wrap,
	}
}

func processFile(ctx context.Context, path string) (*document.Result, error) {
	doc, err := pdfutils.Open(path, pdfutils.Options{
		Layout:        pdfutils.LayoutParams{LineMargin: args.LineMargin},
		OutlineSource: args.OutlineSource,
	})
	if err != nil {
		return nil, err
	}

	defer doc.Close()

	opts := document.Options{
		Overlap:      args.Overlap,
		IgnoreBefore: args.IgnoreBefore,
		Name:         path,
		Strict:       args.Strict,
	}

	if opts.Overlap <= 0 || opts.Overlap > 1 {
		opts.Overlap = geom.DefaultOverlap
	}

	if args.Progress {
		opts.Progress = os.Stderr
	}

	res, err := document.Process(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return res, nil
}
