package pdfutils

import (
	"errors"
	"fmt"

	"github.com/mgmeyers/unipdf/v3/common"
	"github.com/mgmeyers/unipdf/v3/core"
	"github.com/mgmeyers/unipdf/v3/model"

	"github.com/mgmeyers/pdfannots/annots"
	"github.com/mgmeyers/pdfannots/document"
)

const maxNameTreeDepth = 32

var errUnsupportedDest = errors.New("unsupported destination")

// outlineWalker flattens the outline tree of a reader and resolves each
// entry's destination to a page reference and target point.
type outlineWalker struct {
	catalog *core.PdfObjectDictionary
	log     common.Logger
	seen    map[*model.PdfOutlineItem]bool
	out     []*annots.Outline
}

// GetOutlines walks the document outline in tree order. Entries whose
// destination cannot be resolved are logged and skipped.
func GetOutlines(reader *model.PdfReader, log common.Logger) ([]*annots.Outline, error) {
	root := reader.GetOutlineTree()
	if root == nil || root.First == nil {
		return nil, document.ErrNoOutlines
	}

	w := &outlineWalker{
		log:  log,
		seen: map[*model.PdfOutlineItem]bool{},
	}

	if trailer, err := reader.GetTrailer(); err == nil && trailer != nil {
		w.catalog, _ = core.GetDict(trailer.Get("Root"))
	}

	if err := w.walk(root.First); err != nil {
		return nil, err
	}

	return w.out, nil
}

func (w *outlineWalker) walk(node *model.PdfOutlineTreeNode) error {
	for node != nil {
		item, ok := node.GetContext().(*model.PdfOutlineItem)
		if !ok {
			return nil
		}

		if w.seen[item] {
			return errors.New("outline tree contains a loop")
		}
		w.seen[item] = true

		w.visit(item)

		if err := w.walk(item.First); err != nil {
			return err
		}

		node = item.Next
	}

	return nil
}

func (w *outlineWalker) visit(item *model.PdfOutlineItem) {
	title := ""
	if item.Title != nil {
		title = annots.CleanupContents(item.Title.Decoded())
	}

	dest := item.Dest
	if dest == nil {
		dest = w.gotoTarget(item.A)
	}

	if dest == nil {
		return
	}

	o, err := w.resolve(title, dest)
	if err != nil {
		w.log.Warning("outline %q: %v", title, err)
		return
	}

	w.out = append(w.out, o)
}

// gotoTarget returns /D of a GoTo action, nil for any other action.
func (w *outlineWalker) gotoTarget(action core.PdfObject) core.PdfObject {
	dict, ok := core.GetDict(action)
	if !ok {
		return nil
	}

	if s, _ := getDictName(dict, "S"); s != "GoTo" {
		return nil
	}

	return dict.Get("D")
}

// resolve handles destinations of the form [page /XYZ left top zoom],
// given directly or by name.
func (w *outlineWalker) resolve(title string, dest core.PdfObject) (*annots.Outline, error) {
	dest = w.lookupNamed(core.TraceToDirectObject(dest))

	if dict, ok := dest.(*core.PdfObjectDictionary); ok {
		dest = core.TraceToDirectObject(dict.Get("D"))
	}

	arr, ok := dest.(*core.PdfObjectArray)
	if !ok || arr.Len() < 2 {
		return nil, fmt.Errorf("%w: %v", errUnsupportedDest, dest)
	}

	mode, ok := core.GetName(arr.Get(1))
	if !ok || string(*mode) != "XYZ" {
		return nil, fmt.Errorf("%w: display mode %v", errUnsupportedDest, arr.Get(1))
	}

	ref, err := pageRef(arr.Get(0))
	if err != nil {
		return nil, err
	}

	var x, y *float64
	if arr.Len() > 2 {
		x = getNumber(arr.Get(2))
	}
	if arr.Len() > 3 {
		y = getNumber(arr.Get(3))
	}

	return annots.NewOutline(title, ref, x, y), nil
}

func pageRef(obj core.PdfObject) (annots.PageRef, error) {
	if id, ok := objectNumber(obj); ok {
		return annots.PageObject(id), nil
	}

	if i, ok := obj.(*core.PdfObjectInteger); ok {
		return annots.PageIndex(int(*i)), nil
	}

	return annots.PageRef{}, fmt.Errorf("unsupported pageref in outline: %v", obj)
}

// lookupNamed maps a named destination onto its value, checking the
// catalog's /Dests dictionary and the /Names /Dests name tree. Anything
// that is not a name or string is returned unchanged.
func (w *outlineWalker) lookupNamed(dest core.PdfObject) core.PdfObject {
	var key string

	switch t := dest.(type) {
	case *core.PdfObjectName:
		key = string(*t)
	case *core.PdfObjectString:
		key = t.Str()
	default:
		return dest
	}

	if w.catalog == nil {
		return dest
	}

	if dests, ok := core.GetDict(w.catalog.Get("Dests")); ok {
		if v := dests.Get(core.PdfObjectName(key)); v != nil {
			return core.TraceToDirectObject(v)
		}
	}

	if names, ok := core.GetDict(w.catalog.Get("Names")); ok {
		if tree, ok := core.GetDict(names.Get("Dests")); ok {
			if v := lookupNameTree(tree, key, 0); v != nil {
				return core.TraceToDirectObject(v)
			}
		}
	}

	w.log.Debug("named destination %q not found", key)
	return dest
}

func lookupNameTree(node *core.PdfObjectDictionary, key string, depth int) core.PdfObject {
	if depth > maxNameTreeDepth {
		return nil
	}

	if names, ok := core.GetArray(node.Get("Names")); ok {
		elems := names.Elements()

		for i := 0; i+1 < len(elems); i += 2 {
			if k, ok := core.GetString(elems[i]); ok && k.Str() == key {
				return elems[i+1]
			}
		}
	}

	kids, ok := core.GetArray(node.Get("Kids"))
	if !ok {
		return nil
	}

	for _, kid := range kids.Elements() {
		kidDict, ok := core.GetDict(kid)
		if !ok {
			continue
		}

		if !inLimits(kidDict, key) {
			continue
		}

		if v := lookupNameTree(kidDict, key, depth+1); v != nil {
			return v
		}
	}

	return nil
}

func inLimits(node *core.PdfObjectDictionary, key string) bool {
	limits, ok := core.GetArray(node.Get("Limits"))
	if !ok || limits.Len() != 2 {
		return true
	}

	lo, ok1 := core.GetString(limits.Get(0))
	hi, ok2 := core.GetString(limits.Get(1))
	if !ok1 || !ok2 {
		return true
	}

	return lo.Str() <= key && key <= hi.Str()
}
