package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// TxData describes one outgoing command: the command identifier, the field
// layout of its arguments, and the timing hints a channel must honor.
// The first descriptor unit is the command itself; a descriptor starting
// with ">B" declares a one-byte command, anything else a two-byte command.
type TxData struct {
	CmdID           uint16
	DeviceBusyDelay time.Duration
	SlaveAddress    *byte
	IgnoreAck       bool

	desc      *Descriptor
	cmdWidth  int
	stringLen int
}

// NewTxData parses the descriptor and validates it. At most one string
// field may appear in a single descriptor.
func NewTxData(cmdID uint16, descriptor string) (*TxData, error) {
	desc, err := ParseDescriptor(descriptor)
	if err != nil {
		return nil, err
	}
	t := &TxData{CmdID: cmdID, desc: desc, cmdWidth: 2}
	if strings.HasPrefix(descriptor, ">B") {
		t.cmdWidth = 1
	}
	switch desc.stringUnits() {
	case 0:
	case 1:
		for _, u := range desc.units {
			if u.Kind == KindString {
				t.stringLen = u.Count
			}
		}
	default:
		return nil, ErrMultipleStringFields
	}
	return t, nil
}

// MustTxData is NewTxData for static command tables.
func MustTxData(cmdID uint16, descriptor string) *TxData {
	t, err := NewTxData(cmdID, descriptor)
	if err != nil {
		panic(err)
	}
	return t
}

// CommandWidth is the number of bytes occupied by the command identifier.
func (t *TxData) CommandWidth() int { return t.cmdWidth }

// Pack serializes the command id followed by args according to the
// descriptor. Slice arguments are spliced into the flat value stream; a
// string argument fills its declared width, truncated with a warning when
// too long and zero-padded when too short.
func (t *TxData) Pack(args ...any) ([]byte, error) {
	scalars, err := flattenArgs(t.desc.units, t.CmdID, args)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, t.desc.Size())
	next := 0
	for _, u := range t.desc.units {
		if u.Kind == KindString {
			if next >= len(scalars) {
				return nil, ErrArgumentCount
			}
			s, err := stringArg(scalars[next])
			next++
			if err != nil {
				return nil, err
			}
			if len(s) > t.stringLen {
				log.Warn().
					Str("descriptor", t.desc.String()).
					Int("max", t.stringLen).
					Msg("truncating string argument")
				s = s[:t.stringLen]
			}
			out = append(out, s...)
			for i := len(s); i < t.stringLen; i++ {
				out = append(out, 0)
			}
			continue
		}
		n := u.Count
		if n == 0 {
			n = 1
		}
		for k := 0; k < n; k++ {
			if next >= len(scalars) {
				return nil, ErrArgumentCount
			}
			out, err = appendScalar(out, t.desc.order, u, scalars[next])
			next++
			if err != nil {
				return nil, err
			}
		}
	}
	if next != len(scalars) {
		return nil, ErrArgumentCount
	}
	return out, nil
}

// flattenArgs prepends the command id and splices slice arguments into a
// flat scalar list matching the descriptor's value stream.
func flattenArgs(units []unit, cmdID uint16, args []any) ([]any, error) {
	out := make([]any, 0, len(args)+1)
	out = append(out, cmdID)
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			out = append(out, v)
		case []byte:
			// raw bytes fill a string field whole; otherwise each byte
			// is one scalar of a counted numeric field
			if hasStringUnit(units) {
				out = append(out, v)
			} else {
				for _, b := range v {
					out = append(out, b)
				}
			}
		case []int:
			for _, e := range v {
				out = append(out, e)
			}
		case []int16:
			for _, e := range v {
				out = append(out, e)
			}
		case []int32:
			for _, e := range v {
				out = append(out, e)
			}
		case []int64:
			for _, e := range v {
				out = append(out, e)
			}
		case []uint16:
			for _, e := range v {
				out = append(out, e)
			}
		case []uint32:
			for _, e := range v {
				out = append(out, e)
			}
		case []uint64:
			for _, e := range v {
				out = append(out, e)
			}
		case []float32:
			for _, e := range v {
				out = append(out, e)
			}
		case []float64:
			for _, e := range v {
				out = append(out, e)
			}
		case []any:
			out = append(out, v...)
		default:
			out = append(out, arg)
		}
	}
	return out, nil
}

func hasStringUnit(units []unit) bool {
	for _, u := range units {
		if u.Kind == KindString {
			return true
		}
	}
	return false
}

func stringArg(arg any) ([]byte, error) {
	switch v := arg.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	}
	return nil, fmt.Errorf("%w: %T for string field", ErrArgumentType, arg)
}

func appendScalar(out []byte, order binary.ByteOrder, u unit, arg any) ([]byte, error) {
	switch u.Kind {
	case KindBool:
		b, ok := arg.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %T for bool field", ErrArgumentType, arg)
		}
		if b {
			return append(out, 1), nil
		}
		return append(out, 0), nil
	case KindFloat32:
		f, err := floatArg(arg)
		if err != nil {
			return nil, err
		}
		var buf [4]byte
		order.PutUint32(buf[:], math.Float32bits(float32(f)))
		return append(out, buf[:]...), nil
	case KindFloat64:
		f, err := floatArg(arg)
		if err != nil {
			return nil, err
		}
		var buf [8]byte
		order.PutUint64(buf[:], math.Float64bits(f))
		return append(out, buf[:]...), nil
	}

	v, signed, err := intArg(arg)
	if err != nil {
		return nil, err
	}
	if err := checkRange(u.Kind, v, signed); err != nil {
		return nil, err
	}
	switch u.elemSize() {
	case 1:
		return append(out, byte(v)), nil
	case 2:
		var buf [2]byte
		order.PutUint16(buf[:], uint16(v))
		return append(out, buf[:]...), nil
	case 4:
		var buf [4]byte
		order.PutUint32(buf[:], uint32(v))
		return append(out, buf[:]...), nil
	case 8:
		var buf [8]byte
		order.PutUint64(buf[:], uint64(v))
		return append(out, buf[:]...), nil
	}
	return nil, fmt.Errorf("%w: field kind %d", ErrBadDescriptor, u.Kind)
}

func intArg(arg any) (v int64, signed bool, err error) {
	switch n := arg.(type) {
	case int:
		return int64(n), true, nil
	case int8:
		return int64(n), true, nil
	case int16:
		return int64(n), true, nil
	case int32:
		return int64(n), true, nil
	case int64:
		return n, true, nil
	case uint8:
		return int64(n), false, nil
	case uint16:
		return int64(n), false, nil
	case uint32:
		return int64(n), false, nil
	case uint64:
		return int64(n), false, nil
	case uint:
		return int64(n), false, nil
	}
	return 0, false, fmt.Errorf("%w: %T for integer field", ErrArgumentType, arg)
}

func floatArg(arg any) (float64, error) {
	switch f := arg.(type) {
	case float32:
		return float64(f), nil
	case float64:
		return f, nil
	}
	if v, _, err := intArg(arg); err == nil {
		return float64(v), nil
	}
	return 0, fmt.Errorf("%w: %T for float field", ErrArgumentType, arg)
}

func checkRange(k Kind, v int64, signed bool) error {
	if !signed && v < 0 {
		// uint64 values above MaxInt64 wrapped negative; only the widest
		// unsigned field can hold them
		if k == KindUint64 {
			return nil
		}
		return ErrValueRange
	}
	var lo, hi int64
	switch k {
	case KindInt8:
		lo, hi = math.MinInt8, math.MaxInt8
	case KindUint8:
		lo, hi = 0, math.MaxUint8
	case KindInt16:
		lo, hi = math.MinInt16, math.MaxInt16
	case KindUint16:
		lo, hi = 0, math.MaxUint16
	case KindInt32:
		lo, hi = math.MinInt32, math.MaxInt32
	case KindUint32:
		lo, hi = 0, math.MaxUint32
	case KindInt64, KindUint64:
		return nil
	default:
		return nil
	}
	if v < lo || v > hi {
		return ErrValueRange
	}
	return nil
}
