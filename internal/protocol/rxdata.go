package protocol

import (
	"encoding/binary"
	"math"
)

// RxData describes an expected response layout. RxLength is a static upper
// bound; responses with variable fields may decode fewer bytes.
type RxData struct {
	// ConvertToInt folds a counted numeric field into a single integer,
	// most-significant element first, instead of emitting an array.
	ConvertToInt bool

	desc *Descriptor
}

// NewRxData parses the descriptor.
func NewRxData(descriptor string) (*RxData, error) {
	desc, err := ParseDescriptor(descriptor)
	if err != nil {
		return nil, err
	}
	return &RxData{desc: desc}, nil
}

// MustRxData is NewRxData for static command tables.
func MustRxData(descriptor string) *RxData {
	r, err := NewRxData(descriptor)
	if err != nil {
		panic(err)
	}
	return r
}

// RxLength is the worst-case byte length of the described response.
func (r *RxData) RxLength() int { return r.desc.Size() }

// ContainsVariable reports whether any field needs the dynamic decoder.
func (r *RxData) ContainsVariable() bool { return r.desc.ContainsVariable() }

// Unpack decodes a response. Layouts without variable fields use the direct
// fixed-width decode; anything else goes through UnpackDynamic.
func (r *RxData) Unpack(data []byte) ([]Value, error) {
	if r.desc.ContainsVariable() {
		return r.UnpackDynamic(data)
	}
	if len(data) != r.desc.Size() {
		if len(data) < r.desc.Size() {
			return nil, ErrTruncated
		}
		return nil, ErrLengthMismatch
	}
	out := make([]Value, 0, len(r.desc.units))
	pos := 0
	for _, u := range r.desc.units {
		out = append(out, decodeScalar(r.desc.order, u, data[pos:pos+u.elemSize()]))
		pos += u.elemSize()
	}
	return out, nil
}

// UnpackDynamic walks the descriptor field by field with a read cursor.
// A variable field scans forward until its declared maximum is reached or,
// for string fields only, a zero byte is found; the zero terminates the
// stream and is not data. Zero elements yield an empty value. The cursor
// then advances over the field's full declared span (clamped to the data
// end) so that fixed fields may follow at their declared offsets.
func (r *RxData) UnpackDynamic(data []byte) ([]Value, error) {
	out := make([]Value, 0, len(r.desc.units))
	pos := 0
	for _, u := range r.desc.units {
		size := u.elemSize()
		if u.Count == 0 {
			if pos+size > len(data) {
				return nil, ErrTruncated
			}
			out = append(out, decodeScalar(r.desc.order, u, data[pos:pos+size]))
			pos += size
			continue
		}

		span := u.Count * size
		limit := pos + span
		if limit > len(data) {
			limit = len(data)
		}
		fieldLen := 0
		for i := pos; i < limit; i++ {
			if data[i] == 0 && u.Kind == KindString {
				break
			}
			fieldLen++
		}
		elems := fieldLen / size

		switch {
		case r.ConvertToInt:
			var folded uint64
			for i := 0; i < elems; i++ {
				e := decodeScalar(r.desc.order, unit{Kind: u.Kind}, data[pos+i*size:pos+(i+1)*size])
				folded = folded<<(uint(size)*8) | e.AsUint64()
			}
			out = append(out, UintValue(folded))
		case u.Kind == KindString:
			out = append(out, StringValue(string(data[pos:pos+fieldLen])))
		default:
			arr := Value{Kind: ValueArray, Array: make([]Value, 0, elems)}
			for i := 0; i < elems; i++ {
				arr.Array = append(arr.Array, decodeScalar(r.desc.order, unit{Kind: u.Kind}, data[pos+i*size:pos+(i+1)*size]))
			}
			out = append(out, arr)
		}

		pos = limit
	}
	return out, nil
}

func decodeScalar(order binary.ByteOrder, u unit, b []byte) Value {
	switch u.Kind {
	case KindInt8:
		return IntValue(int64(int8(b[0])))
	case KindUint8, KindString:
		return UintValue(uint64(b[0]))
	case KindInt16:
		return IntValue(int64(int16(order.Uint16(b))))
	case KindUint16:
		return UintValue(uint64(order.Uint16(b)))
	case KindInt32:
		return IntValue(int64(int32(order.Uint32(b))))
	case KindUint32:
		return UintValue(uint64(order.Uint32(b)))
	case KindInt64:
		return IntValue(int64(order.Uint64(b)))
	case KindUint64:
		return UintValue(order.Uint64(b))
	case KindBool:
		return BoolValue(b[0] != 0)
	case KindFloat32:
		return FloatValue(float64(math.Float32frombits(order.Uint32(b))))
	case KindFloat64:
		return FloatValue(math.Float64frombits(order.Uint64(b)))
	}
	return Value{}
}
