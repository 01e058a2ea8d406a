package protocol

import (
	"encoding/binary"
	"fmt"
)

// Kind identifies the wire type of one descriptor unit.
type Kind uint8

const (
	KindInt8 Kind = iota + 1
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindBool
	KindFloat32
	KindFloat64
	KindString
)

// unit is one field of a descriptor. Count == 0 means a plain scalar;
// Count > 0 declares an array (or string) of at most Count elements.
type unit struct {
	Kind  Kind
	Count int
}

func (u unit) elemSize() int {
	switch u.Kind {
	case KindInt8, KindUint8, KindBool, KindString:
		return 1
	case KindInt16, KindUint16:
		return 2
	case KindInt32, KindUint32, KindFloat32:
		return 4
	case KindInt64, KindUint64, KindFloat64:
		return 8
	}
	return 0
}

func (u unit) byteLen() int {
	n := u.Count
	if n == 0 {
		n = 1
	}
	return n * u.elemSize()
}

// Descriptor is a parsed field layout: a byte order followed by a sequence
// of typed units. The compact source form is retained from the device wire
// documentation: '>' or '<' then units like "B", "H", "8s", "16b".
type Descriptor struct {
	raw   string
	order binary.ByteOrder
	units []unit
}

var kindLetters = map[byte]Kind{
	'b': KindInt8,
	'B': KindUint8,
	'h': KindInt16,
	'H': KindUint16,
	'i': KindInt32,
	'I': KindUint32,
	'q': KindInt64,
	'Q': KindUint64,
	'?': KindBool,
	'f': KindFloat32,
	'd': KindFloat64,
	's': KindString,
}

// ParseDescriptor parses the compact descriptor form.
func ParseDescriptor(s string) (*Descriptor, error) {
	if len(s) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrBadDescriptor, s)
	}
	d := &Descriptor{raw: s}
	switch s[0] {
	case '>':
		d.order = binary.BigEndian
	case '<':
		d.order = binary.LittleEndian
	default:
		return nil, fmt.Errorf("%w: missing byte order in %q", ErrBadDescriptor, s)
	}

	count := 0
	haveCount := false
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			continue
		case c >= '0' && c <= '9':
			count = count*10 + int(c-'0')
			haveCount = true
		default:
			kind, ok := kindLetters[c]
			if !ok {
				return nil, fmt.Errorf("%w: unknown field %q in %q", ErrBadDescriptor, string(c), s)
			}
			u := unit{Kind: kind}
			if haveCount {
				u.Count = count
			}
			d.units = append(d.units, u)
			count = 0
			haveCount = false
		}
	}
	if haveCount {
		return nil, fmt.Errorf("%w: trailing count in %q", ErrBadDescriptor, s)
	}
	if len(d.units) == 0 {
		return nil, fmt.Errorf("%w: no fields in %q", ErrBadDescriptor, s)
	}
	return d, nil
}

// String returns the compact source form.
func (d *Descriptor) String() string { return d.raw }

// Size is the static worst-case byte length of the described layout. For
// variable fields it counts the full declared span, so it is an upper bound.
func (d *Descriptor) Size() int {
	total := 0
	for _, u := range d.units {
		total += u.byteLen()
	}
	return total
}

// ContainsVariable reports whether any unit is length-variable, requiring
// the dynamic decoder.
func (d *Descriptor) ContainsVariable() bool {
	for _, u := range d.units {
		if u.Count > 0 {
			return true
		}
	}
	return false
}

func (d *Descriptor) stringUnits() int {
	n := 0
	for _, u := range d.units {
		if u.Kind == KindString {
			n++
		}
	}
	return n
}
