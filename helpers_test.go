package uio

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Test streams are built record by record: 4-byte big-endian length,
// payload, identical trailing length.

func writeRecord(buf *bytes.Buffer, payload []byte) {
	var word [4]byte
	binary.BigEndian.PutUint32(word[:], uint32(len(payload))) //nolint:gosec // test payloads are small
	buf.Write(word[:])
	buf.Write(payload)
	buf.Write(word[:])
}

func writeText(buf *bytes.Buffer, s string) {
	writeRecord(buf, []byte(s))
}

func writeFloat64s(buf *bytes.Buffer, vals ...float64) {
	payload := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint64(payload[i*8:], math.Float64bits(v))
	}
	writeRecord(buf, payload)
}

func writeFloat32s(buf *bytes.Buffer, vals ...float32) {
	payload := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint32(payload[i*4:], math.Float32bits(v))
	}
	writeRecord(buf, payload)
}

func writeInt32s(buf *bytes.Buffer, vals ...int32) {
	payload := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint32(payload[i*4:], uint32(v)) //nolint:gosec // two's complement round-trip
	}
	writeRecord(buf, payload)
}

func writeComplex128s(buf *bytes.Buffer, vals ...complex128) {
	payload := make([]byte, 16*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint64(payload[i*16:], math.Float64bits(real(v)))
		binary.BigEndian.PutUint64(payload[i*16+8:], math.Float64bits(imag(v)))
	}
	writeRecord(buf, payload)
}

// newTestStream starts a stream with the standard test header.
func newTestStream() *bytes.Buffer {
	buf := &bytes.Buffer{}
	writeText(buf, "fileform uio test")
	return buf
}
