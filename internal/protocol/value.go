package protocol

// ValueKind discriminates the payload of a decoded Value.
type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueUint
	ValueInt
	ValueFloat
	ValueBool
	ValueString
	ValueBytes
	ValueArray
)

// Value is one decoded field. Exactly one payload member is meaningful,
// selected by Kind.
type Value struct {
	Kind  ValueKind
	Uint  uint64
	Int   int64
	Float float64
	Bool  bool
	Str   string
	Array []Value
}

func UintValue(v uint64) Value   { return Value{Kind: ValueUint, Uint: v} }
func IntValue(v int64) Value     { return Value{Kind: ValueInt, Int: v} }
func FloatValue(v float64) Value { return Value{Kind: ValueFloat, Float: v} }
func BoolValue(v bool) Value     { return Value{Kind: ValueBool, Bool: v} }
func StringValue(v string) Value { return Value{Kind: ValueString, Str: v} }

// Empty reports whether the value carries no data, e.g. a variable field
// that decoded zero elements.
func (v Value) Empty() bool {
	switch v.Kind {
	case ValueNone:
		return true
	case ValueString:
		return v.Str == ""
	case ValueArray:
		return len(v.Array) == 0
	}
	return false
}

// AsFloat64 widens any numeric value to float64.
func (v Value) AsFloat64() float64 {
	switch v.Kind {
	case ValueUint:
		return float64(v.Uint)
	case ValueInt:
		return float64(v.Int)
	case ValueFloat:
		return v.Float
	}
	return 0
}

// AsUint64 narrows any numeric value to uint64.
func (v Value) AsUint64() uint64 {
	switch v.Kind {
	case ValueUint:
		return v.Uint
	case ValueInt:
		return uint64(v.Int)
	case ValueFloat:
		return uint64(v.Float)
	}
	return 0
}
