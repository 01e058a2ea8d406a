// Package signal converts raw sensor ticks into physical quantities.
package signal

import "fmt"

// ScaleAndOffset maps a raw reading to (raw - Offset) / Scale.
type ScaleAndOffset struct {
	Scale  float64
	Offset float64
}

// Convert applies the mapping to one raw reading.
func (s ScaleAndOffset) Convert(raw float64) float64 {
	return (raw - s.Offset) / s.Scale
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Value is one converted reading with its unit, for logs and display.
type Value struct {
	Quantity float64
	Unit     string
}

func (v Value) String() string {
	return fmt.Sprintf("%.2f %s", v.Quantity, v.Unit)
}
