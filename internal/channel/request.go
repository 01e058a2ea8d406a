package channel

import (
	"time"

	"github.com/danmuck/sensorlink/internal/protocol"
)

// Request bundles one physical exchange for a connection-style transport:
// the framed bytes to write, the expected raw response length, the delays
// to honor, and the response interpreter.
type Request struct {
	TxData   []byte
	RxLength int
	// ReadDelay is the device busy delay to wait between write and read.
	ReadDelay time.Duration

	channel  Channel
	rx       *protocol.RxData
	postTime time.Duration
	postSet  bool
}

// NewRequest builds a request for ch. rxLength is the raw byte count to
// read, including any transport framing overhead. A zero postDelay means
// unset.
func NewRequest(ch Channel, tx []byte, rx *protocol.RxData, busyDelay, postDelay time.Duration, rxLength int) *Request {
	return &Request{
		TxData:    tx,
		RxLength:  rxLength,
		ReadDelay: busyDelay,
		channel:   ch,
		rx:        rx,
		postTime:  postDelay,
		postSet:   postDelay != 0,
	}
}

// PostProcessingTime is the wait before the next communication with the
// device may take place. When unset it falls back to the read delay for
// write-only requests, since nothing else paces the bus.
func (r *Request) PostProcessingTime() time.Duration {
	if r.postSet {
		return r.postTime
	}
	if r.rx == nil {
		return r.ReadDelay
	}
	return 0
}

// Timeout is the advisory timeout of the owning channel.
func (r *Request) Timeout() time.Duration {
	if r.channel == nil {
		return 0
	}
	return r.channel.Timeout()
}

// Interpret strips transport framing from raw response bytes and decodes
// them, or returns nil values when no response layout was declared.
func (r *Request) Interpret(data []byte) ([]protocol.Value, error) {
	raw, err := r.channel.StripProtocol(data)
	if err != nil {
		return nil, err
	}
	if r.rx == nil {
		return nil, nil
	}
	return r.rx.Unpack(raw)
}
