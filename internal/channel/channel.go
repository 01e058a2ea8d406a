package channel

import (
	"time"

	"github.com/danmuck/sensorlink/internal/protocol"
)

// Options carry the per-exchange hints of a WriteRead call.
type Options struct {
	// DeviceBusyDelay is how long the device stays busy after the write,
	// before the response may be read.
	DeviceBusyDelay time.Duration
	// PostProcessingDelay is the wait after the full exchange before the
	// next communication may take place. Zero means unset: a transport
	// falls back to its own rule (no wait, or the busy delay when no
	// response is expected).
	PostProcessingDelay time.Duration
	// SlaveAddress overrides the channel's configured target address.
	SlaveAddress *byte
	// IgnoreErrors swallows any failure of the exchange, validation or
	// decode and yields no result instead. Intended for fire-and-forget
	// commands where a device may not acknowledge even on success.
	IgnoreErrors bool
}

// Address resolves the effective target address.
func (o Options) Address(fallback byte) byte {
	if o.SlaveAddress != nil {
		return *o.SlaveAddress
	}
	return fallback
}

// Channel is the request/response contract every transport implements.
// WriteRead is synchronous and blocking: it may sleep for the busy and
// post-processing delays on the calling goroutine.
type Channel interface {
	// WriteRead sends framed bytes and reads back the decoded response.
	// tx starts with payloadOffset header (command) bytes that the
	// framing layer must leave untouched. A nil rx means no response is
	// expected and nil values are returned.
	WriteRead(tx []byte, payloadOffset int, rx *protocol.RxData, opts Options) ([]protocol.Value, error)

	// StripProtocol validates received raw bytes and removes transport
	// framing, returning bare payload.
	StripProtocol(data []byte) ([]byte, error)

	// Timeout is the advisory per-exchange timeout of this channel. It is
	// passed on to the transceiver, never enforced preemptively.
	Timeout() time.Duration
}
