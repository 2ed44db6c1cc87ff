// Package uio provides a pure Go reader for the uio self-describing
// hierarchical binary container format. A uio file is a sequence of
// Fortran-style length-bracketed records: a textual descriptor record
// announces each entry, and an optional payload record follows it.
// Opening a file builds the full entry/box/dataset tree from the
// descriptors alone; payload bytes are read lazily on access.
package uio

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/scigolib/uio/internal/descriptor"
	"github.com/scigolib/uio/internal/record"
	"github.com/scigolib/uio/internal/utils"
)

// Magic is the mandatory header text at bytes 4..16 of every uio file,
// directly after the leading length word of the header record.
const Magic = "fileform uio"

// Object is any node of the parsed tree: *Entry, *Box or *DataSet.
type Object interface {
	Name() string
}

// File represents an open uio container. It owns the underlying byte
// source; entries hold only their offsets into it.
type File struct {
	src    io.ReaderAt
	closer io.Closer // nil when the source is not ours to close
	name   string
	header string

	entries  entryList
	datasets []*DataSet
	closed   bool
}

// Open opens a uio file for reading and builds its tree of entries and
// datasets. Files ending in .gz or .xz are decompressed into memory
// first; they lose the lazy-read memory benefit because record access
// needs random seeks.
func Open(filename string) (*File, error) {
	//nolint:gosec // G304: user-provided filename is intentional for a file reader library
	f, err := os.Open(filename)
	if err != nil {
		return nil, utils.WrapError("file open failed", err)
	}

	switch {
	case strings.HasSuffix(filename, ".xz"):
		defer func() { _ = f.Close() }()
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, utils.WrapError("xz open failed", err)
		}
		data, err := io.ReadAll(xr)
		if err != nil {
			return nil, utils.WrapError("xz decompression failed", err)
		}
		return openReader(bytes.NewReader(data), nil, filename)

	case strings.HasSuffix(filename, ".gz"):
		defer func() { _ = f.Close() }()
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, utils.WrapError("gzip open failed", err)
		}
		data, err := io.ReadAll(zr)
		if err != nil {
			return nil, utils.WrapError("gzip decompression failed", err)
		}
		return openReader(bytes.NewReader(data), nil, filename)

	default:
		file, err := openReader(f, f, filename)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return file, nil
	}
}

// OpenReader builds a uio tree from an arbitrary random-access byte
// source. Closing the returned File does not close src.
func OpenReader(src io.ReaderAt) (*File, error) {
	return openReader(src, nil, "")
}

func openReader(src io.ReaderAt, closer io.Closer, name string) (*File, error) {
	// Verify the magic before parsing anything: bytes 4..16 sit right
	// after the leading length word of the header record.
	probe := make([]byte, 4+len(Magic))
	if n, _ := src.ReadAt(probe, 0); n < len(probe) || string(probe[4:]) != Magic {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, name)
	}

	r := record.NewReader(src, 0)
	headerText, err := r.ReadText()
	if err != nil {
		return nil, utils.WrapError("header read failed", err)
	}
	hd, err := descriptor.Parse(headerText)
	if err != nil {
		return nil, utils.WrapError("header parse failed", err)
	}
	if hd.Kind != "fileform" || hd.Name != "uio" {
		return nil, fmt.Errorf("%w: header %q", ErrBadMagic, headerText)
	}

	file := &File{
		src:    src,
		closer: closer,
		name:   name,
		header: strings.TrimSpace(strings.TrimPrefix(headerText, Magic)),
	}

	if err := readFileEntries(file, r); err != nil {
		return nil, err
	}
	return file, nil
}

// Close releases the underlying byte source. It is safe to call Close
// multiple times; any later lookup or data access fails with ErrClosed.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}

// Closed reports whether Close has been called.
func (f *File) Closed() bool {
	return f.closed
}

// Name returns the path the file was opened from, if any.
func (f *File) Name() string {
	return f.name
}

// Header returns the free text following "fileform uio" in the header
// descriptor.
func (f *File) Header() string {
	return f.header
}

// Entries returns the top-level entries in stream order.
func (f *File) Entries() []*Entry {
	return f.entries
}

// Datasets returns the top-level datasets in stream order.
func (f *File) Datasets() []*DataSet {
	return f.datasets
}

// Lookup returns the first top-level entry with the given name.
func (f *File) Lookup(name string) (*Entry, error) {
	if err := f.ensureOpen(); err != nil {
		return nil, err
	}
	return f.entries.lookup(name)
}

// Walk visits every object in the tree, parents before children.
// Datasets and boxes are addressed by index because their labels carry
// no unique name.
func (f *File) Walk(fn func(path string, obj Object)) {
	for _, e := range f.entries {
		fn("/"+e.Name(), e)
	}
	for i, ds := range f.datasets {
		dsPath := fmt.Sprintf("/%s[%d]", ds.Name(), i)
		fn(dsPath, ds)
		for _, e := range ds.Entries() {
			fn(dsPath+"/"+e.Name(), e)
		}
		for j, b := range ds.Boxes() {
			boxPath := fmt.Sprintf("%s/%s[%d]", dsPath, b.Name(), j)
			fn(boxPath, b)
			for _, e := range b.Entries() {
				fn(boxPath+"/"+e.Name(), e)
			}
		}
	}
}

func (f *File) ensureOpen() error {
	if f.closed {
		return ErrClosed
	}
	return nil
}
