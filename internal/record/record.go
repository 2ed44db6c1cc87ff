// Package record reads Fortran-style sequential unformatted records:
// each logical record is wrapped in a 4-byte big-endian length word on
// both sides, and the two words must agree.
package record

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/scigolib/uio/internal/utils"
)

// Sentinel errors for the two ways a record can be broken on disk.
var (
	// ErrTruncated reports fewer bytes available than a length word or
	// payload requires. At file scope this is how end-of-input presents;
	// anywhere else it is corruption.
	ErrTruncated = errors.New("truncated stream")

	// ErrLengthMismatch reports disagreeing leading/trailing length words.
	ErrLengthMismatch = errors.New("record length mismatch")
)

// ContinuationMarker is the trailing character indicating that a text
// payload continues in the next record.
const ContinuationMarker = '&'

const textCutset = " \t\n\r\v\f"

// Reader walks records on a shared io.ReaderAt, keeping its own cursor.
// Several Readers may read the same source concurrently because every
// access goes through ReadAt with an explicit offset.
type Reader struct {
	src io.ReaderAt
	off int64
}

// NewReader returns a Reader positioned at offset on src.
func NewReader(src io.ReaderAt, offset int64) *Reader {
	return &Reader{src: src, off: offset}
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int64 {
	return r.off
}

// ReadLength reads one 4-byte big-endian length word and advances past it.
func (r *Reader) ReadLength() (uint32, error) {
	buf := utils.GetBuffer(4)
	defer utils.ReleaseBuffer(buf)

	n, _ := r.src.ReadAt(buf, r.off)
	if n < 4 {
		return 0, utils.WrapError(
			fmt.Sprintf("length word at offset %d", r.off), ErrTruncated)
	}
	r.off += 4
	return binary.BigEndian.Uint32(buf), nil
}

// ReadRecord reads one complete record and returns its payload bytes.
// The cursor ends immediately after the trailing length word.
func (r *Reader) ReadRecord() ([]byte, error) {
	nbytes, err := r.ReadLength()
	if err != nil {
		return nil, err
	}

	payload := make([]byte, nbytes)
	if nbytes > 0 {
		n, _ := r.src.ReadAt(payload, r.off)
		if n < int(nbytes) {
			return nil, utils.WrapError(
				fmt.Sprintf("record payload at offset %d", r.off), ErrTruncated)
		}
		r.off += int64(nbytes)
	}

	trailing, err := r.ReadLength()
	if err != nil {
		return nil, err
	}
	if trailing != nbytes {
		return nil, fmt.Errorf("%w: leading %d, trailing %d",
			ErrLengthMismatch, nbytes, trailing)
	}
	return payload, nil
}

// SkipRecord advances past one record without copying its payload.
// The trailing length word is still checked against the leading one.
func (r *Reader) SkipRecord() error {
	nbytes, err := r.ReadLength()
	if err != nil {
		return err
	}
	r.off += int64(nbytes)

	trailing, err := r.ReadLength()
	if err != nil {
		return err
	}
	if trailing != nbytes {
		return fmt.Errorf("%w: leading %d, trailing %d",
			ErrLengthMismatch, nbytes, trailing)
	}
	return nil
}

// ReadText reads one logical text payload, reassembling records joined by
// a trailing continuation marker. Trailing whitespace is stripped from
// the result.
func (r *Reader) ReadText() (string, error) {
	payload, err := r.ReadRecord()
	if err != nil {
		return "", err
	}
	s := string(payload)
	for {
		trimmed := strings.TrimRight(s, textCutset)
		if !strings.HasSuffix(trimmed, string(ContinuationMarker)) {
			return trimmed, nil
		}
		payload, err = r.ReadRecord()
		if err != nil {
			return "", err
		}
		s = trimmed[:len(trimmed)-1] + string(payload)
	}
}

// readElementRecord reads one record and checks that its byte length is
// a whole number of width-sized elements.
func (r *Reader) readElementRecord(width int) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("invalid element width %d", width)
	}
	data, err := r.ReadRecord()
	if err != nil {
		return nil, err
	}
	if len(data)%width != 0 {
		return nil, fmt.Errorf("record length %d is not a multiple of element width %d",
			len(data), width)
	}
	return data, nil
}

// ReadFloats reads one record of big-endian IEEE-754 values of the given
// byte width (4 or 8) and converts them to host float64s.
func (r *Reader) ReadFloats(width int) ([]float64, error) {
	data, err := r.readElementRecord(width)
	if err != nil {
		return nil, err
	}
	vals := make([]float64, len(data)/width)
	switch width {
	case 4:
		for i := range vals {
			bits := binary.BigEndian.Uint32(data[i*4:])
			vals[i] = float64(math.Float32frombits(bits))
		}
	case 8:
		for i := range vals {
			bits := binary.BigEndian.Uint64(data[i*8:])
			vals[i] = math.Float64frombits(bits)
		}
	default:
		return nil, fmt.Errorf("unsupported real element width %d", width)
	}
	return vals, nil
}

// ReadInts reads one record of big-endian two's-complement signed
// integers of the given byte width (1, 2, 4 or 8) as host int64s.
func (r *Reader) ReadInts(width int) ([]int64, error) {
	data, err := r.readElementRecord(width)
	if err != nil {
		return nil, err
	}
	vals := make([]int64, len(data)/width)
	switch width {
	case 1:
		for i := range vals {
			vals[i] = int64(int8(data[i]))
		}
	case 2:
		for i := range vals {
			vals[i] = int64(int16(binary.BigEndian.Uint16(data[i*2:])))
		}
	case 4:
		for i := range vals {
			vals[i] = int64(int32(binary.BigEndian.Uint32(data[i*4:])))
		}
	case 8:
		for i := range vals {
			vals[i] = int64(binary.BigEndian.Uint64(data[i*8:]))
		}
	default:
		return nil, fmt.Errorf("unsupported integer element width %d", width)
	}
	return vals, nil
}

// ReadComplexes reads one record of big-endian complex values. Width 8
// means two float32 halves per element, width 16 two float64 halves.
func (r *Reader) ReadComplexes(width int) ([]complex128, error) {
	data, err := r.readElementRecord(width)
	if err != nil {
		return nil, err
	}
	vals := make([]complex128, len(data)/width)
	switch width {
	case 8:
		for i := range vals {
			re := math.Float32frombits(binary.BigEndian.Uint32(data[i*8:]))
			im := math.Float32frombits(binary.BigEndian.Uint32(data[i*8+4:]))
			vals[i] = complex(float64(re), float64(im))
		}
	case 16:
		for i := range vals {
			re := math.Float64frombits(binary.BigEndian.Uint64(data[i*16:]))
			im := math.Float64frombits(binary.BigEndian.Uint64(data[i*16+8:]))
			vals[i] = complex(re, im)
		}
	default:
		return nil, fmt.Errorf("unsupported complex element width %d", width)
	}
	return vals, nil
}

// ReadChars reads one record of fixed-width character elements and
// returns them as raw, untrimmed strings of exactly width bytes each.
func (r *Reader) ReadChars(width int) ([]string, error) {
	data, err := r.readElementRecord(width)
	if err != nil {
		return nil, err
	}
	vals := make([]string, len(data)/width)
	for i := range vals {
		vals[i] = string(data[i*width : (i+1)*width])
	}
	return vals, nil
}
