package uio

import (
	"errors"

	"github.com/scigolib/uio/internal/descriptor"
	"github.com/scigolib/uio/internal/record"
)

// Errors reported by the reader. ErrTruncated, ErrLengthMismatch and
// ErrMalformedDescriptor originate in the internal layers and are
// re-exported here so callers can match them with errors.Is.
var (
	// ErrBadMagic reports a file that does not start with the
	// "fileform uio" header.
	ErrBadMagic = errors.New("not a uio file")

	// ErrTruncated reports a stream that ended where a length word or
	// payload was expected.
	ErrTruncated = record.ErrTruncated

	// ErrLengthMismatch reports a record whose leading and trailing
	// length words disagree.
	ErrLengthMismatch = record.ErrLengthMismatch

	// ErrMalformedDescriptor reports descriptor text that does not
	// match the "<kind> <name> ..." grammar.
	ErrMalformedDescriptor = descriptor.ErrMalformed

	// ErrUnsupportedEntry reports a table entry. The format defines
	// tables but this reader deliberately refuses them.
	ErrUnsupportedEntry = errors.New("table entries are not supported")

	// ErrNotFound reports a name lookup that matched no entry.
	ErrNotFound = errors.New("entry not found")

	// ErrClosed reports an operation on a closed file.
	ErrClosed = errors.New("file is closed")
)
