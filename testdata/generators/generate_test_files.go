// Command generate_test_files writes small sample uio files into the
// testdata directory for manual inspection with uiodump.
package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
)

func writeRecord(buf *bytes.Buffer, payload []byte) {
	var word [4]byte
	binary.BigEndian.PutUint32(word[:], uint32(len(payload))) //nolint:gosec // sample payloads are small
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

func writeInt32s(buf *bytes.Buffer, vals ...int32) {
	payload := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint32(payload[i*4:], uint32(v)) //nolint:gosec // two's complement round-trip
	}
	writeRecord(buf, payload)
}

// simpleFile has a few top-level entries only.
func simpleFile() []byte {
	buf := &bytes.Buffer{}
	writeText(buf, "fileform uio form=unformatted convert=big_endian")
	writeText(buf, "character file_id b=8")
	writeRecord(buf, []byte("sample  "))
	writeText(buf, "integer version b=4")
	writeInt32s(buf, 3)
	writeText(buf, "real grid b=8 d=1:5 u=cm")
	writeFloat64s(buf, 0, 0.25, 0.5, 0.75, 1.0)
	return buf.Bytes()
}

// meanFile mimics the layout of simulation mean files: datasets with
// boxes of per-snapshot arrays.
func meanFile() []byte {
	buf := &bytes.Buffer{}
	writeText(buf, "fileform uio form=unformatted convert=big_endian")
	writeText(buf, "character file_id b=8")
	writeRecord(buf, []byte("mean    "))
	for snap := 0; snap < 3; snap++ {
		writeText(buf, "label dataset")
		writeText(buf, "integer itime b=4")
		writeInt32s(buf, int32(100*snap))
		writeText(buf, "real time b=8 u=s")
		writeFloat64s(buf, float64(snap)*10.0)
		writeText(buf, "label box")
		writeText(buf, "real rho_mean b=8 d=1:4 u='g/cm^3'")
		writeFloat64s(buf, 1.1, 1.2, 1.3, 1.4)
		writeText(buf, "real ei_mean b=8 d=1:4 u='erg/g'")
		writeFloat64s(buf, 2.1, 2.2, 2.3, 2.4)
		writeText(buf, "label endbox")
		writeText(buf, "label enddataset")
	}
	return buf.Bytes()
}

func main() {
	files := map[string][]byte{
		"simple.uio": simpleFile(),
		"mean.uio":   meanFile(),
	}
	for name, data := range files {
		path := filepath.Join("testdata", name)
		if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // sample data
			log.Fatalf("write %s: %v", path, err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", path, len(data))
	}
}
