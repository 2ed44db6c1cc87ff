package uio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDataSetStructure checks the partitioning of a dataset body into
// direct entries and boxes.
func TestDataSetStructure(t *testing.T) {
	buf := newTestStream()
	writeText(buf, "label dataset")
	writeText(buf, "integer itime b=4")
	writeInt32s(buf, 100)
	writeText(buf, "label box")
	writeText(buf, "real rho b=8 d=1:2")
	writeFloat64s(buf, 1.0, 2.0)
	writeText(buf, "real ei b=8 d=1:2")
	writeFloat64s(buf, 3.0, 4.0)
	writeText(buf, "label endbox")
	writeText(buf, "real time b=8")
	writeFloat64s(buf, 0.5)
	writeText(buf, "label enddataset")

	f, err := OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Empty(t, f.Entries())
	require.Len(t, f.Datasets(), 1)

	ds := f.Datasets()[0]
	require.Equal(t, 2, ds.Len())
	require.Len(t, ds.Boxes(), 1)

	// The box's internal entries stay out of the dataset's entry list.
	names := make([]string, 0, ds.Len())
	for _, e := range ds.Entries() {
		names = append(names, e.Name())
	}
	require.Equal(t, []string{"itime", "time"}, names)

	box := ds.Boxes()[0]
	require.Equal(t, 2, box.Len())
	rho, err := box.Lookup("rho")
	require.NoError(t, err)
	data, err := rho.Data()
	require.NoError(t, err)
	require.Equal(t, []float64{1.0, 2.0}, data)

	_, err = ds.Lookup("rho")
	require.ErrorIs(t, err, ErrNotFound)
}

// TestMultipleDatasets preserves stream order across datasets.
func TestMultipleDatasets(t *testing.T) {
	buf := newTestStream()
	for i := 0; i < 3; i++ {
		writeText(buf, "label dataset")
		writeText(buf, "integer step b=4")
		writeInt32s(buf, int32(i))
		writeText(buf, "label enddataset")
	}

	f, err := OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, f.Datasets(), 3)

	for i, ds := range f.Datasets() {
		e, err := ds.Lookup("step")
		require.NoError(t, err)
		data, err := e.Data()
		require.NoError(t, err)
		require.Equal(t, int64(i), data)
	}
}

// TestTableRejected fails construction on a table descriptor anywhere.
func TestTableRejected(t *testing.T) {
	tests := []struct {
		name   string
		stream func() *bytes.Buffer
	}{
		{
			name: "at file scope",
			stream: func() *bytes.Buffer {
				buf := newTestStream()
				writeText(buf, "table t1 b=8")
				return buf
			},
		},
		{
			name: "inside dataset",
			stream: func() *bytes.Buffer {
				buf := newTestStream()
				writeText(buf, "label dataset")
				writeText(buf, "table t1 b=8")
				return buf
			},
		},
		{
			name: "inside box",
			stream: func() *bytes.Buffer {
				buf := newTestStream()
				writeText(buf, "label dataset")
				writeText(buf, "label box")
				writeText(buf, "table t1 b=8")
				return buf
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := OpenReader(bytes.NewReader(tt.stream().Bytes()))
			require.ErrorIs(t, err, ErrUnsupportedEntry)
			require.Nil(t, f)
		})
	}
}

// TestUnterminatedGroup treats truncation inside a group as corruption,
// unlike end-of-stream at file scope.
func TestUnterminatedGroup(t *testing.T) {
	buf := newTestStream()
	writeText(buf, "label dataset")
	writeText(buf, "real x b=8")
	writeFloat64s(buf, 1.0)
	// No enddataset: the stream just stops.

	f, err := OpenReader(bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, ErrTruncated)
	require.Nil(t, f)
}

// TestCorruptRecordLength aborts construction on disagreeing length
// words.
func TestCorruptRecordLength(t *testing.T) {
	buf := newTestStream()
	payload := []byte("real x b=8")
	buf.Write([]byte{0, 0, 0, byte(len(payload))})
	buf.Write(payload)
	buf.Write([]byte{0, 0, 0, byte(len(payload) + 2)}) // Trailing word lies.

	f, err := OpenReader(bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, ErrLengthMismatch)
	require.Nil(t, f)
}

// TestMalformedDescriptor aborts construction on descriptor text that
// does not match the grammar.
func TestMalformedDescriptor(t *testing.T) {
	buf := newTestStream()
	writeText(buf, "=broken")

	f, err := OpenReader(bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, ErrMalformedDescriptor)
	require.Nil(t, f)
}

// TestDescriptorContinuation reassembles a descriptor split across
// records before parsing it.
func TestDescriptorContinuation(t *testing.T) {
	buf := newTestStream()
	writeText(buf, "real long_na&")
	writeText(buf, "me b=8 d=1:2")
	writeFloat64s(buf, 1.5, 2.5)

	f, err := OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	e, err := f.Lookup("long_name")
	require.NoError(t, err)
	data, err := e.Data()
	require.NoError(t, err)
	require.Equal(t, []float64{1.5, 2.5}, data)
}

// TestMarkerLabelAtFileScope keeps non-structural labels as ordinary
// typeless entries without consuming a payload record.
func TestMarkerLabelAtFileScope(t *testing.T) {
	buf := newTestStream()
	writeText(buf, "label checkpoint")
	writeText(buf, "real x b=8")
	writeFloat64s(buf, 9.0)

	f, err := OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, f.Entries(), 2)

	marker, err := f.Lookup("checkpoint")
	require.NoError(t, err)
	require.Equal(t, "label", marker.Kind())
	_, err = marker.Data()
	require.Error(t, err) // No payload record behind a marker label.

	x, err := f.Lookup("x")
	require.NoError(t, err)
	data, err := x.Data()
	require.NoError(t, err)
	require.Equal(t, 9.0, data)
}

// TestFirstMatchWins: duplicate names resolve to the first occurrence.
func TestFirstMatchWins(t *testing.T) {
	buf := newTestStream()
	writeText(buf, "real v b=8")
	writeFloat64s(buf, 1.0)
	writeText(buf, "real v b=8")
	writeFloat64s(buf, 2.0)

	f, err := OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, f.Entries(), 2)

	e, err := f.Lookup("v")
	require.NoError(t, err)
	data, err := e.Data()
	require.NoError(t, err)
	require.Equal(t, 1.0, data)
}
