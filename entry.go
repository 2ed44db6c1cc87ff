package uio

import (
	"fmt"
	"strings"

	"github.com/scigolib/uio/internal/descriptor"
	"github.com/scigolib/uio/internal/record"
)

// charCutset is what gets trimmed from the right of character elements.
const charCutset = " \t\n\r\v\f\x00"

// Entry is one named, typed field of a uio file. It is immutable after
// construction and holds only the byte offset of its payload record;
// every Data call re-reads from the shared source.
type Entry struct {
	file   *File
	pos    int64
	kind   string
	name   string
	params map[string]string
	elem   descriptor.ElemType
	shape  []int
}

// Name returns the entry's name.
func (e *Entry) Name() string {
	return e.name
}

// Kind returns the descriptor kind (real, integer, character, complex
// or label).
func (e *Entry) Kind() string {
	return e.kind
}

// Params returns the descriptor's parameter map, including passthrough
// keys the reader does not interpret. Callers must not modify it.
func (e *Entry) Params() map[string]string {
	return e.params
}

// Position returns the byte offset of the payload record.
func (e *Entry) Position() int64 {
	return e.pos
}

// Shape returns the array extents in row-major order, or nil for a
// scalar entry. Callers must not modify it.
func (e *Entry) Shape() []int {
	return e.shape
}

// IsScalar reports whether the entry has no d parameter.
func (e *Entry) IsScalar() bool {
	return e.shape == nil
}

// String renders the entry like its descriptor, quoting values that
// contain spaces.
func (e *Entry) String() string {
	parts := []string{e.kind, e.name}
	for _, key := range []string{"b", "d", "u"} {
		if v, ok := e.params[key]; ok {
			if strings.Contains(v, " ") {
				v = "'" + v + "'"
			}
			parts = append(parts, key+"="+v)
		}
	}
	return "<" + strings.Join(parts, " ") + ">"
}

// Size returns the expected element count from the shape product, or 1
// for scalars. The actual count comes from the payload record length;
// callers reconcile the two.
func (e *Entry) Size() int {
	n := 1
	for _, extent := range e.shape {
		n *= extent
	}
	return n
}

// Data reads the payload record and returns its decoded value:
//
//   - real:      float64, or []float64 for arrays
//   - integer:   int64, or []int64
//   - complex:   complex128, or []complex128
//   - character: a right-trimmed string for scalars, a slice of
//     right-trimmed strings for 1-D entries, and a flat slice of raw
//     fixed-width strings for higher ranks (use Shape for the extents)
//
// Arrays are flat in row-major order with respect to Shape. The element
// count comes from the record length; callers reconcile it against the
// shape. Every call seeks and reads again — nothing is cached.
func (e *Entry) Data() (any, error) {
	if err := e.file.ensureOpen(); err != nil {
		return nil, err
	}
	if e.elem.Class == descriptor.ClassNone {
		return nil, fmt.Errorf("entry %q carries no payload record", e.name)
	}

	r := record.NewReader(e.file.src, e.pos)
	switch e.elem.Class {
	case descriptor.ClassReal:
		vals, err := r.ReadFloats(e.elem.Width)
		return scalarOrSlice(e, vals, err)

	case descriptor.ClassInteger:
		vals, err := r.ReadInts(e.elem.Width)
		return scalarOrSlice(e, vals, err)

	case descriptor.ClassComplex:
		vals, err := r.ReadComplexes(e.elem.Width)
		return scalarOrSlice(e, vals, err)

	case descriptor.ClassCharacter:
		raw, err := r.ReadChars(e.elem.Width)
		if err != nil {
			return nil, err
		}
		switch {
		case e.shape == nil:
			if len(raw) == 0 {
				return nil, fmt.Errorf("%w: empty payload for scalar entry %q",
					ErrTruncated, e.name)
			}
			return strings.TrimRight(raw[0], charCutset), nil
		case len(e.shape) == 1:
			trimmed := make([]string, len(raw))
			for i, s := range raw {
				trimmed[i] = strings.TrimRight(s, charCutset)
			}
			return trimmed, nil
		default:
			// Character blocks stay fixed-width and untrimmed.
			return raw, nil
		}

	default:
		return nil, fmt.Errorf("entry %q has unknown element class", e.name)
	}
}

// scalarOrSlice returns the single element for scalar entries and the
// flat slice otherwise.
func scalarOrSlice[T any](e *Entry, vals []T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	if e.shape == nil {
		if len(vals) == 0 {
			return nil, fmt.Errorf("%w: empty payload for scalar entry %q",
				ErrTruncated, e.name)
		}
		return vals[0], nil
	}
	return vals, nil
}

// Floats reads the payload as a flat []float64. Integer entries are
// converted for convenience; other kinds are an error.
func (e *Entry) Floats() ([]float64, error) {
	if err := e.file.ensureOpen(); err != nil {
		return nil, err
	}
	r := record.NewReader(e.file.src, e.pos)
	switch e.elem.Class {
	case descriptor.ClassReal:
		return r.ReadFloats(e.elem.Width)
	case descriptor.ClassInteger:
		ints, err := r.ReadInts(e.elem.Width)
		if err != nil {
			return nil, err
		}
		vals := make([]float64, len(ints))
		for i, v := range ints {
			vals[i] = float64(v)
		}
		return vals, nil
	default:
		return nil, fmt.Errorf("entry %q is not numeric", e.name)
	}
}

// Ints reads the payload of an integer entry as a flat []int64.
func (e *Entry) Ints() ([]int64, error) {
	if err := e.file.ensureOpen(); err != nil {
		return nil, err
	}
	if e.elem.Class != descriptor.ClassInteger {
		return nil, fmt.Errorf("entry %q is not an integer entry", e.name)
	}
	return record.NewReader(e.file.src, e.pos).ReadInts(e.elem.Width)
}

// Complexes reads the payload of a complex entry as a flat []complex128.
func (e *Entry) Complexes() ([]complex128, error) {
	if err := e.file.ensureOpen(); err != nil {
		return nil, err
	}
	if e.elem.Class != descriptor.ClassComplex {
		return nil, fmt.Errorf("entry %q is not a complex entry", e.name)
	}
	return record.NewReader(e.file.src, e.pos).ReadComplexes(e.elem.Width)
}

// Strings reads the payload of a character entry as a flat []string,
// right-trimmed for scalar and 1-D entries and raw fixed-width for
// higher ranks, matching Data.
func (e *Entry) Strings() ([]string, error) {
	if err := e.file.ensureOpen(); err != nil {
		return nil, err
	}
	if e.elem.Class != descriptor.ClassCharacter {
		return nil, fmt.Errorf("entry %q is not a character entry", e.name)
	}
	raw, err := record.NewReader(e.file.src, e.pos).ReadChars(e.elem.Width)
	if err != nil {
		return nil, err
	}
	if len(e.shape) > 1 {
		return raw, nil
	}
	trimmed := make([]string, len(raw))
	for i, s := range raw {
		trimmed[i] = strings.TrimRight(s, charCutset)
	}
	return trimmed, nil
}
