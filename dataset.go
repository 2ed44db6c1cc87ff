package uio

import "fmt"

// entryList is the ordered entry collection shared by File, DataSet and
// Box. Lookup is a linear scan, first match wins.
type entryList []*Entry

func (l entryList) lookup(name string) (*Entry, error) {
	for _, e := range l {
		if e.name == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Box is a flat named group of entries nested inside a dataset,
// delimited by box/endbox labels.
type Box struct {
	pos     int64
	params  map[string]string
	entries entryList
}

// Name returns the name parameter of the box label, or "box" when the
// label carries none.
func (b *Box) Name() string {
	if n, ok := b.params["name"]; ok {
		return n
	}
	return "box"
}

// Params returns the box label's parameter map.
func (b *Box) Params() map[string]string {
	return b.params
}

// Position returns the byte offset of the box body.
func (b *Box) Position() int64 {
	return b.pos
}

// Entries returns the box entries in stream order.
func (b *Box) Entries() []*Entry {
	return b.entries
}

// Len returns the number of entries.
func (b *Box) Len() int {
	return len(b.entries)
}

// Lookup returns the first entry with the given name.
func (b *Box) Lookup(name string) (*Entry, error) {
	return b.entries.lookup(name)
}

func (b *Box) String() string {
	return fmt.Sprintf("<box entries=%d>", len(b.entries))
}

// DataSet is a group of entries and boxes nested at file scope,
// delimited by dataset/enddataset labels. Entries and boxes are each in
// stream order, but the original interleaving between the two lists is
// not retained.
type DataSet struct {
	pos     int64
	params  map[string]string
	entries entryList
	boxes   []*Box
}

// Name returns the name parameter of the dataset label, or "dataset"
// when the label carries none.
func (d *DataSet) Name() string {
	if n, ok := d.params["name"]; ok {
		return n
	}
	return "dataset"
}

// Params returns the dataset label's parameter map.
func (d *DataSet) Params() map[string]string {
	return d.params
}

// Position returns the byte offset of the dataset body.
func (d *DataSet) Position() int64 {
	return d.pos
}

// Entries returns the dataset's direct entries in stream order,
// excluding those inside its boxes.
func (d *DataSet) Entries() []*Entry {
	return d.entries
}

// Boxes returns the dataset's boxes in stream order.
func (d *DataSet) Boxes() []*Box {
	return d.boxes
}

// Len returns the number of direct entries.
func (d *DataSet) Len() int {
	return len(d.entries)
}

// Lookup returns the first direct entry with the given name.
func (d *DataSet) Lookup(name string) (*Entry, error) {
	return d.entries.lookup(name)
}

func (d *DataSet) String() string {
	return fmt.Sprintf("<dataset entries=%d boxes=%d>", len(d.entries), len(d.boxes))
}
