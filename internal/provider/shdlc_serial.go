package provider

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"

	"github.com/danmuck/sensorlink/internal/channel/shdlc"
	"github.com/danmuck/sensorlink/internal/protocol"
)

var (
	ErrFrameChecksum = errors.New("provider: shdlc frame checksum mismatch")
	ErrFrameTooShort = errors.New("provider: shdlc frame too short")
	ErrReadTimeout   = errors.New("provider: shdlc response timed out")
)

const (
	frameDelimiter = 0x7E
	escapeByte     = 0x7D
	escapeXor      = 0x20
)

// ShdlcSerial drives SHDLC devices over a serial port. It owns the port
// lifetime and implements the transceiver contract: MOSI framing with
// 0x7E delimiters, byte stuffing and an inverted-sum checksum.
type ShdlcSerial struct {
	portName string
	baud     int
	port     *serial.Port
	expected int
}

// NewShdlcSerial builds a provider for a serial device such as
// /dev/ttyUSB0.
func NewShdlcSerial(portName string, baud int) *ShdlcSerial {
	return &ShdlcSerial{portName: portName, baud: baud}
}

// Prepare opens the serial port. A short poll timeout keeps reads
// responsive; the per-exchange deadline is enforced in Transceive.
func (p *ShdlcSerial) Prepare() error {
	port, err := serial.OpenPort(&serial.Config{
		Name:        p.portName,
		Baud:        p.baud,
		ReadTimeout: 20 * time.Millisecond,
	})
	if err != nil {
		return err
	}
	p.port = port
	return nil
}

// Release closes the serial port.
func (p *ShdlcSerial) Release() error {
	if p.port == nil {
		return nil
	}
	err := p.port.Close()
	p.port = nil
	return err
}

// Channel returns a channel for one device on this line.
func (p *ShdlcSerial) Channel(channelDelay time.Duration, address byte) (*shdlc.Channel, error) {
	if p.port == nil {
		return nil, ErrNotPrepared
	}
	return shdlc.New(p, channelDelay, address), nil
}

func (p *ShdlcSerial) SetExpectedLength(rx *protocol.RxData) {
	if rx == nil {
		p.expected = 0
		return
	}
	p.expected = rx.RxLength()
}

// Transceive writes one request frame and reads back the response frame,
// honoring timeout as a best-effort bound on the whole roundtrip.
func (p *ShdlcSerial) Transceive(address, command byte, data []byte, timeout time.Duration) (shdlc.Response, error) {
	if p.port == nil {
		return shdlc.Response{}, ErrNotPrepared
	}
	if _, err := p.port.Write(buildMosiFrame(address, command, data)); err != nil {
		return shdlc.Response{}, err
	}
	raw, err := readFrame(p.port, p.expected, timeout)
	if err != nil {
		return shdlc.Response{}, err
	}
	return parseMosiFrame(raw)
}

// buildMosiFrame assembles a stuffed request frame: delimiter, address,
// command, payload length, payload, checksum, delimiter.
func buildMosiFrame(address, command byte, data []byte) []byte {
	content := make([]byte, 0, 3+len(data))
	content = append(content, address, command, byte(len(data)))
	content = append(content, data...)
	content = append(content, mosiChecksum(content))

	out := make([]byte, 0, 2+2*len(content))
	out = append(out, frameDelimiter)
	for _, b := range content {
		out = appendStuffed(out, b)
	}
	return append(out, frameDelimiter)
}

// parseMosiFrame unpacks an unstuffed response frame: address, command,
// state, payload length, payload, checksum.
func parseMosiFrame(content []byte) (shdlc.Response, error) {
	if len(content) < 5 {
		return shdlc.Response{}, ErrFrameTooShort
	}
	body, sum := content[:len(content)-1], content[len(content)-1]
	if expected := mosiChecksum(body); sum != expected {
		return shdlc.Response{}, fmt.Errorf("%w: received 0x%02X expected 0x%02X",
			ErrFrameChecksum, sum, expected)
	}
	resp := shdlc.Response{
		Address: body[0],
		Command: body[1],
		State:   body[2],
		Data:    body[4:],
	}
	if int(body[3]) != len(resp.Data) {
		return shdlc.Response{}, ErrFrameTooShort
	}
	return resp, nil
}

// readFrame collects bytes between two delimiters, undoing byte stuffing,
// until deadline. The port polls with a short VMIN=0/VTIME read timeout;
// a quiet poll window surfaces as io.EOF (or a bare zero-byte read) and
// only means the device has not answered yet, so the loop keeps polling
// until the deadline.
func readFrame(r io.Reader, expected int, timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	var (
		content = make([]byte, 0, expected+5)
		started bool
		escaped bool
		buf     [64]byte
	)
	for {
		n, err := r.Read(buf[:])
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		for _, b := range buf[:n] {
			switch {
			case b == frameDelimiter && !started:
				started = true
			case b == frameDelimiter:
				if len(content) == 0 {
					// empty frame: the opening delimiter repeated
					continue
				}
				return content, nil
			case !started:
				// noise before the frame
			case b == escapeByte:
				escaped = true
			case escaped:
				content = append(content, b^escapeXor)
				escaped = false
			default:
				content = append(content, b)
			}
		}
		if n == 0 && time.Now().After(deadline) {
			return nil, ErrReadTimeout
		}
	}
}

func appendStuffed(out []byte, b byte) []byte {
	switch b {
	case 0x7E, 0x7D, 0x11, 0x13:
		return append(out, escapeByte, b^escapeXor)
	}
	return append(out, b)
}

// mosiChecksum is the inverted low byte of the sum over the frame content.
func mosiChecksum(content []byte) byte {
	var sum byte
	for _, b := range content {
		sum += b
	}
	return ^sum
}
