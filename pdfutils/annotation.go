package pdfutils

import (
	"fmt"

	"github.com/mgmeyers/unipdf/v3/core"
	"github.com/mgmeyers/unipdf/v3/model"

	"github.com/mgmeyers/pdfannots/annots"
)

// GetAnnotationRecords reads the raw annotation dictionaries of a page.
// Every entry yields a record; entries that cannot be read carry Err.
func GetAnnotationRecords(page *model.PdfPage) ([]annots.Record, error) {
	return recordsFromAnnots(page.Annots)
}

// recordsFromAnnots walks an /Annots array itself rather than through
// PdfPage.GetAnnotations, which fails the whole page on one bad entry.
func recordsFromAnnots(obj core.PdfObject) ([]annots.Record, error) {
	if obj == nil {
		return nil, nil
	}

	arr, ok := core.GetArray(obj)
	if !ok {
		return nil, fmt.Errorf("annots not an array: %v", obj)
	}

	records := make([]annots.Record, 0, arr.Len())

	for i, elem := range arr.Elements() {
		resolved := core.ResolveReference(elem)

		if _, isNull := resolved.(*core.PdfObjectNull); isNull || resolved == nil {
			if _, isRef := elem.(*core.PdfObjectReference); isRef {
				records = append(records, annots.Record{Err: fmt.Errorf("annotation %d: reference %v does not resolve", i, elem)})
			}
			continue
		}

		dict, ok := core.GetDict(resolved)
		if !ok {
			records = append(records, annots.Record{Err: fmt.Errorf("annotation %d: not a dictionary: %v", i, resolved)})
			continue
		}

		records = append(records, RecordFromDict(dict))
	}

	return records, nil
}

func RecordFromDict(dict *core.PdfObjectDictionary) annots.Record {
	rec := annots.Record{
		QuadPoints:   getDictFloats(dict, "QuadPoints"),
		Rect:         getDictFloats(dict, "Rect"),
		Author:       getDictString(dict, "T"),
		CreationDate: getDictString(dict, "CreationDate"),
		ModDate:      getDictString(dict, "ModDate"),
		M:            getDictString(dict, "M"),
		Color:        getDictFloats(dict, "C"),
	}

	rec.Subtype, _ = getDictName(dict, "Subtype")

	if contents, ok := decodeString(dict.Get("Contents")); ok {
		rec.Contents = &contents
	}

	return rec
}
