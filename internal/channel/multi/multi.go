// Package multi composes several channels into one channel-like object
// used within a bounded transaction, and fans a driver operation out
// across all of them.
package multi

import (
	"errors"
	"time"

	"github.com/danmuck/sensorlink/internal/channel"
	"github.com/danmuck/sensorlink/internal/protocol"
)

var (
	ErrNoChannels           = errors.New("multi: at least one channel is required")
	ErrNoTransaction        = errors.New("multi: write_read called outside an open transaction")
	ErrTransactionExhausted = errors.New("multi: all channels of this transaction already consumed")
)

// Channel wraps an ordered list of independent channels. Within an open
// transaction each WriteRead call consumes the next channel in order;
// calling it more than Count times per transaction is a usage error.
type Channel struct {
	channels []channel.Channel
	active   channel.Channel
	next     int
	open     bool
}

// New builds a multi channel over chs.
func New(chs ...channel.Channel) (*Channel, error) {
	if len(chs) == 0 {
		return nil, ErrNoChannels
	}
	return &Channel{channels: chs}, nil
}

// Count is the number of contained channels.
func (m *Channel) Count() int { return len(m.channels) }

// ChannelAt returns a contained channel by position.
func (m *Channel) ChannelAt(i int) channel.Channel { return m.channels[i] }

// Open begins a transaction, arming the channel iterator.
func (m *Channel) Open() {
	m.open = true
	m.next = 0
	m.active = nil
}

// Close ends the transaction and clears the active-channel state. It runs
// on every exit path, success or failure, and never masks the failure.
func (m *Channel) Close() {
	m.open = false
	m.next = 0
	m.active = nil
}

// WriteRead dispatches to the next channel of the open transaction.
func (m *Channel) WriteRead(tx []byte, payloadOffset int, rx *protocol.RxData, opts channel.Options) ([]protocol.Value, error) {
	if !m.open {
		return nil, ErrNoTransaction
	}
	if m.next >= len(m.channels) {
		return nil, ErrTransactionExhausted
	}
	m.active = m.channels[m.next]
	m.next++
	return m.active.WriteRead(tx, payloadOffset, rx, opts)
}

// StripProtocol delegates to the channel active in this transaction.
func (m *Channel) StripProtocol(data []byte) ([]byte, error) {
	if m.active == nil {
		return nil, ErrNoTransaction
	}
	return m.active.StripProtocol(data)
}

// Timeout reflects the active channel inside a transaction, or the first
// channel outside one.
func (m *Channel) Timeout() time.Duration {
	if m.active != nil {
		return m.active.Timeout()
	}
	return m.channels[0].Timeout()
}
