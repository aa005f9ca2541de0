package pdfutils

import (
	"github.com/mgmeyers/unipdf/v3/core"
)

func getDictString(dict *core.PdfObjectDictionary, key string) string {
	s, _ := decodeString(dict.Get(core.PdfObjectName(key)))
	return s
}

func decodeString(obj core.PdfObject) (string, bool) {
	str, ok := core.GetString(obj)
	if !ok {
		return "", false
	}

	return str.Decoded(), true
}

func getDictName(dict *core.PdfObjectDictionary, key string) (string, bool) {
	name, ok := core.GetName(dict.Get(core.PdfObjectName(key)))
	if !ok {
		return "", false
	}

	return string(*name), true
}

func getDictFloats(dict *core.PdfObjectDictionary, key string) []float64 {
	arr, ok := core.GetArray(dict.Get(core.PdfObjectName(key)))
	if !ok {
		return nil
	}

	vals, err := arr.ToFloat64Array()
	if err != nil {
		return nil
	}

	return vals
}

// getNumber returns nil for null and anything that is not a number, as
// used by /XYZ destinations for "leave unchanged".
func getNumber(obj core.PdfObject) *float64 {
	obj = core.TraceToDirectObject(obj)

	switch t := obj.(type) {
	case *core.PdfObjectInteger:
		v := float64(*t)
		return &v
	case *core.PdfObjectFloat:
		v := float64(*t)
		return &v
	}

	return nil
}

// objectNumber returns the object number behind a reference or an already
// resolved indirect object.
func objectNumber(obj core.PdfObject) (int64, bool) {
	switch t := obj.(type) {
	case *core.PdfObjectReference:
		return t.ObjectNumber, true
	case *core.PdfIndirectObject:
		return t.ObjectNumber, true
	}

	return 0, false
}
