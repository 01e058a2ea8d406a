package signal

import (
	"math"
	"testing"
)

func TestScaleAndOffsetConvert(t *testing.T) {
	s := ScaleAndOffset{Scale: 2, Offset: 10}
	if got := s.Convert(30); got != 10 {
		t.Fatalf("convert(30) = %v", got)
	}
	if got := s.Convert(10); got != 0 {
		t.Fatalf("convert(10) = %v", got)
	}
	// the sht4x temperature mapping: 26214 ticks is 25 degC
	temp := ScaleAndOffset{Scale: 65535.0 / 175.0, Offset: 45.0 * 65535.0 / 175.0}
	if got := temp.Convert(26214); math.Abs(got-25.0) > 0.01 {
		t.Fatalf("temperature ticks convert to %.4f", got)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-3, 0, 100); got != 0 {
		t.Fatalf("clamp low = %v", got)
	}
	if got := Clamp(107, 0, 100); got != 100 {
		t.Fatalf("clamp high = %v", got)
	}
	if got := Clamp(42, 0, 100); got != 42 {
		t.Fatalf("clamp inside = %v", got)
	}
}

func TestValueString(t *testing.T) {
	v := Value{Quantity: 24.986, Unit: "degC"}
	if got := v.String(); got != "24.99 degC" {
		t.Fatalf("string = %q", got)
	}
}
