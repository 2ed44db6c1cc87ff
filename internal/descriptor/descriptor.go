// Package descriptor parses the one-line textual descriptors that
// precede every payload record in a uio stream. A descriptor has the
// shape "<kind> <name> [key=value ...]" where values are single-quoted
// strings or bare non-whitespace tokens, and anything else in the tail
// is ignored.
package descriptor

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ErrMalformed reports descriptor text that does not match the grammar.
var ErrMalformed = errors.New("malformed descriptor")

// Recognized descriptor kinds.
const (
	KindReal      = "real"
	KindInteger   = "integer"
	KindCharacter = "character"
	KindComplex   = "complex"
	KindLabel     = "label"
	KindTable     = "table"
)

// Label names that drive the tree structure.
const (
	LabelDataSet    = "dataset"
	LabelEndDataSet = "enddataset"
	LabelBox        = "box"
	LabelEndBox     = "endbox"
)

// Descriptor is one parsed descriptor line.
type Descriptor struct {
	Kind   string
	Name   string
	Params map[string]string
}

// descLine is the participle grammar for a descriptor. Param tokens are
// captured; stray Word and Junk tokens in the tail (free header text,
// units without keys) are consumed without capture, which reproduces the
// tolerant key=value extraction of the format's reference reader.
//
//nolint:govet // participle grammar tags are not standard struct tags
type descLine struct {
	Kind   string   `parser:"@Word"`
	Name   string   `parser:"@Word"`
	Params []string `parser:"( @Param | Word | Junk )*"`
}

// descLexer tokenizes a descriptor line. Param must come first so that
// "b=8" is not split into a Word and junk.
var descLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Param", Pattern: `\w+=(?:'[^']*'|\S+)`},
	{Name: "Word", Pattern: `\w+`},
	{Name: "Junk", Pattern: `\S+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var descParser = participle.MustBuild[descLine](
	participle.Lexer(descLexer),
	participle.Elide("Whitespace"),
)

// dimPattern extracts lo:hi range pairs from the d parameter.
var dimPattern = regexp.MustCompile(`\d+:\d+`)

// Parse parses one descriptor line.
func Parse(text string) (*Descriptor, error) {
	line, err := descParser.ParseString("", text)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, text)
	}

	params := make(map[string]string, len(line.Params))
	for _, tok := range line.Params {
		key, value, _ := strings.Cut(tok, "=")
		if len(value) >= 2 && strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'") {
			value = value[1 : len(value)-1]
		}
		params[key] = value
	}

	return &Descriptor{
		Kind:   line.Kind,
		Name:   line.Name,
		Params: params,
	}, nil
}

// Shape returns the array extents encoded in the d parameter, reversed
// from Fortran dimension order into row-major order. A nil result means
// the entry is scalar.
func (d *Descriptor) Shape() []int {
	pairs := dimPattern.FindAllString(d.Params["d"], -1)
	if len(pairs) == 0 {
		return nil
	}
	shape := make([]int, len(pairs))
	for i, pair := range pairs {
		lo, hi, _ := strings.Cut(pair, ":")
		l, _ := strconv.Atoi(lo)
		h, _ := strconv.Atoi(hi)
		shape[len(pairs)-1-i] = h - l + 1
	}
	return shape
}

// Class identifies the scalar element class of an entry's payload.
type Class int

// Element classes. ClassNone marks entries without a payload record
// (labels and anything lacking a b parameter).
const (
	ClassNone Class = iota
	ClassReal
	ClassInteger
	ClassCharacter
	ClassComplex
)

// ElemType is an element class plus its byte width.
type ElemType struct {
	Class Class
	Width int
}

// ElemType derives the element type from the descriptor kind and the b
// (byte width) parameter. Labels and entries without b have no element
// type; kinds outside the numeric/character vocabulary keep ClassNone
// as well, mirroring the reference reader.
func (d *Descriptor) ElemType() (ElemType, error) {
	b, ok := d.Params["b"]
	if !ok || d.Kind == KindLabel {
		return ElemType{}, nil
	}
	width, err := strconv.Atoi(b)
	if err != nil || width <= 0 {
		return ElemType{}, fmt.Errorf("%w: invalid byte width %q", ErrMalformed, b)
	}

	switch d.Kind {
	case KindReal:
		if width != 4 && width != 8 {
			return ElemType{}, fmt.Errorf("%w: real width %d", ErrMalformed, width)
		}
		return ElemType{Class: ClassReal, Width: width}, nil
	case KindInteger:
		if width != 1 && width != 2 && width != 4 && width != 8 {
			return ElemType{}, fmt.Errorf("%w: integer width %d", ErrMalformed, width)
		}
		return ElemType{Class: ClassInteger, Width: width}, nil
	case KindCharacter:
		return ElemType{Class: ClassCharacter, Width: width}, nil
	case KindComplex:
		if width != 8 && width != 16 {
			return ElemType{}, fmt.Errorf("%w: complex width %d", ErrMalformed, width)
		}
		return ElemType{Class: ClassComplex, Width: width}, nil
	default:
		return ElemType{}, nil
	}
}
