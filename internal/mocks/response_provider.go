// Package mocks provides transceiver test doubles that exercise the same
// framing and codec paths as production channels, without hardware.
package mocks

import "math/rand"

// ResponseProvider injects device-specific responses into a sensor mock.
// HandleCommand must return exactly length bytes.
type ResponseProvider interface {
	ID() string
	HandleCommand(cmdID uint16, data []byte, length int) []byte
}

// RandomResponse returns a random byte sequence of the requested length
// for any command. It is the default strategy of every sensor mock.
type RandomResponse struct{}

func (RandomResponse) ID() string { return "random_default" }

func (RandomResponse) HandleCommand(_ uint16, _ []byte, length int) []byte {
	if length <= 0 {
		return nil
	}
	return RandomBytes(length)
}

// RandomBytes returns n random bytes.
func RandomBytes(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(rand.Intn(256))
	}
	return out
}

// RandomASCII returns n random printable ascii bytes.
func RandomASCII(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(32 + rand.Intn(95))
	}
	return out
}

// PaddedASCII pads an ascii string with zero bytes to the expected
// response length.
func PaddedASCII(s string, n int) []byte {
	out := make([]byte, n)
	copy(out, s)
	return out
}
