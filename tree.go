package uio

import (
	"errors"
	"fmt"

	"github.com/scigolib/uio/internal/descriptor"
	"github.com/scigolib/uio/internal/record"
)

// readEntry reads one descriptor (reassembling continuations) and
// constructs the Entry it announces. The entry's position is the stream
// offset right after the descriptor record, where the payload record
// begins. The payload itself is not read here.
func readEntry(f *File, r *record.Reader) (*Entry, error) {
	text, err := r.ReadText()
	if err != nil {
		return nil, err
	}
	d, err := descriptor.Parse(text)
	if err != nil {
		return nil, err
	}
	if d.Kind == descriptor.KindTable {
		return nil, fmt.Errorf("%w: entry %q", ErrUnsupportedEntry, d.Name)
	}
	elem, err := d.ElemType()
	if err != nil {
		return nil, err
	}
	return &Entry{
		file:   f,
		pos:    r.Offset(),
		kind:   d.Kind,
		name:   d.Name,
		params: d.Params,
		elem:   elem,
		shape:  d.Shape(),
	}, nil
}

// skipPayload advances past an entry's payload record. Entries without
// an element type (labels, descriptors without a b parameter) have no
// payload record to skip.
func skipPayload(r *record.Reader, e *Entry) error {
	if e.elem.Class == descriptor.ClassNone {
		return nil
	}
	return r.SkipRecord()
}

// isLabel reports whether e is a label with the given name.
func isLabel(e *Entry, name string) bool {
	return e.kind == descriptor.KindLabel && e.name == name
}

// readFileEntries runs the file-scope parse context: entries and
// datasets until end of stream. Truncation while reading a descriptor
// at this level is the normal end-of-input signal, not an error.
func readFileEntries(f *File, r *record.Reader) error {
	for {
		e, err := readEntry(f, r)
		if err != nil {
			if errors.Is(err, record.ErrTruncated) {
				return nil
			}
			return err
		}

		if isLabel(e, descriptor.LabelDataSet) {
			ds, err := readDataSet(f, r, e.params)
			if err != nil {
				return err
			}
			f.datasets = append(f.datasets, ds)
			continue
		}

		f.entries = append(f.entries, e)
		if err := skipPayload(r, e); err != nil {
			return err
		}
	}
}

// readDataSet runs the dataset parse context until enddataset. Inside a
// dataset any error, including truncation, is fatal: the group must be
// closed before the stream ends.
func readDataSet(f *File, r *record.Reader, params map[string]string) (*DataSet, error) {
	ds := &DataSet{pos: r.Offset(), params: params}
	for {
		e, err := readEntry(f, r)
		if err != nil {
			return nil, err
		}

		switch {
		case isLabel(e, descriptor.LabelEndDataSet):
			return ds, nil
		case isLabel(e, descriptor.LabelBox):
			box, err := readBox(f, r, e.params)
			if err != nil {
				return nil, err
			}
			ds.boxes = append(ds.boxes, box)
		default:
			ds.entries = append(ds.entries, e)
			if err := skipPayload(r, e); err != nil {
				return nil, err
			}
		}
	}
}

// readBox runs the box parse context until endbox.
func readBox(f *File, r *record.Reader, params map[string]string) (*Box, error) {
	box := &Box{pos: r.Offset(), params: params}
	for {
		e, err := readEntry(f, r)
		if err != nil {
			return nil, err
		}
		if isLabel(e, descriptor.LabelEndBox) {
			return box, nil
		}
		box.entries = append(box.entries, e)
		if err := skipPayload(r, e); err != nil {
			return nil, err
		}
	}
}
