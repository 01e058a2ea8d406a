// Package frame owns the I2C checksum framing: one checksum byte after
// every two payload bytes. Command bytes pass through unframed.
package frame

import (
	"fmt"

	"github.com/danmuck/sensorlink/internal/protocol/crc"
)

// ChecksumError reports a CRC mismatch on read.
type ChecksumError struct {
	Received byte
	Expected byte
	Pos      int
	Data     []byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("frame: checksum mismatch at byte %d: received 0x%02X expected 0x%02X",
		e.Pos, e.Received, e.Expected)
}

// BuildTx frames outgoing bytes. The first cmdWidth bytes are the command
// and pass through unmodified; each following payload byte pair is followed
// by its checksum. A nil fn disables framing; empty input yields nil.
func BuildTx(tx []byte, cmdWidth int, fn crc.Func) []byte {
	if len(tx) == 0 {
		return nil
	}
	if cmdWidth > len(tx) {
		cmdWidth = len(tx)
	}
	payload := tx[cmdWidth:]
	out := make([]byte, 0, len(tx)+len(payload)/2)
	out = append(out, tx[:cmdWidth]...)
	for i, b := range payload {
		out = append(out, b)
		if fn != nil && i%2 == 1 {
			out = append(out, fn(payload[i-1:i+1]))
		}
	}
	return out
}

// Strip validates and removes the inserted checksums: every third byte is
// the checksum of the preceding pair. It returns the remaining data, or nil
// when nothing remains. A nil fn returns the data as-is.
func Strip(data []byte, fn crc.Func) ([]byte, error) {
	if fn == nil {
		return data, nil
	}
	out := make([]byte, 0, 2*len(data)/3)
	for i := 0; i < len(data); i++ {
		if i%3 == 2 {
			expected := fn(data[i-2 : i])
			if data[i] != expected {
				return nil, &ChecksumError{Received: data[i], Expected: expected, Pos: i, Data: data}
			}
			continue
		}
		out = append(out, data[i])
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
