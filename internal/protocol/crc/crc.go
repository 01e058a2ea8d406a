// Package crc builds the per-sensor checksum functions used by the I2C
// framing layer.
package crc

import (
	"errors"

	"github.com/sigurn/crc8"
)

// Func computes the one-byte checksum of a data slice. It must be pure and
// deterministic. A nil Func disables checksum framing entirely.
type Func func(data []byte) byte

// Params describe an 8-bit CRC: width, polynomial, initial value and final
// XOR. Sensor families publish these four numbers in their datasheets.
type Params struct {
	Width      uint8
	Polynomial uint8
	Init       uint8
	FinalXor   uint8
}

// Sensirion is the CRC-8 used by the Sensirion I2C sensor family.
var Sensirion = Params{Width: 8, Polynomial: 0x31, Init: 0xFF, FinalXor: 0x00}

var ErrUnsupportedWidth = errors.New("crc: only 8-bit checksums are supported")

// New builds a table-driven checksum function from params.
func New(p Params) (Func, error) {
	if p.Width != 8 {
		return nil, ErrUnsupportedWidth
	}
	table := crc8.MakeTable(crc8.Params{
		Poly:   p.Polynomial,
		Init:   p.Init,
		RefIn:  false,
		RefOut: false,
		XorOut: p.FinalXor,
	})
	return func(data []byte) byte {
		return crc8.Checksum(data, table)
	}, nil
}

// MustNew is New for static configuration.
func MustNew(p Params) Func {
	fn, err := New(p)
	if err != nil {
		panic(err)
	}
	return fn
}
