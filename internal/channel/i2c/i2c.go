// Package i2c implements the channel contract for I2C transports with
// inline CRC framing.
package i2c

import (
	"time"

	"github.com/danmuck/sensorlink/internal/channel"
	"github.com/danmuck/sensorlink/internal/observability"
	"github.com/danmuck/sensorlink/internal/protocol"
	"github.com/danmuck/sensorlink/internal/protocol/crc"
	"github.com/danmuck/sensorlink/internal/protocol/frame"
)

// Connection is the collaborator that performs the physical bus exchange.
// Execute must be safe to call repeatedly; it writes the request bytes,
// waits the request's read delay, reads the raw response and interprets it
// through the request.
type Connection interface {
	Execute(address byte, req *channel.Request) ([]protocol.Value, error)
}

// Channel talks to one I2C device through a Connection, inserting and
// validating checksums when a crc function is configured.
type Channel struct {
	conn         Connection
	slaveAddress byte
	crc          crc.Func
}

// New builds an I2C channel. A nil fn disables checksum framing.
func New(conn Connection, slaveAddress byte, fn crc.Func) *Channel {
	return &Channel{conn: conn, slaveAddress: slaveAddress, crc: fn}
}

// WriteRead implements the channel contract. The expected raw response
// length is scaled by 3/2 when CRC framing is active, accounting for the
// checksum byte inserted after every data pair.
func (c *Channel) WriteRead(tx []byte, payloadOffset int, rx *protocol.RxData, opts channel.Options) ([]protocol.Value, error) {
	framed := frame.BuildTx(tx, payloadOffset, c.crc)
	rxLen := 0
	if rx != nil {
		rxLen = rx.RxLength()
		if c.crc != nil {
			rxLen = 3 * rxLen / 2
		}
	}
	req := channel.NewRequest(c, framed, rx, opts.DeviceBusyDelay, opts.PostProcessingDelay, rxLen)

	start := time.Now()
	result, err := c.conn.Execute(opts.Address(c.slaveAddress), req)
	observability.ObserveExchange("i2c", time.Since(start), err)
	if err != nil {
		if opts.IgnoreErrors {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

// StripProtocol validates the checksums of received data and returns the
// data with all checksums removed. Without a crc function the data passes
// through as-is.
func (c *Channel) StripProtocol(data []byte) ([]byte, error) {
	return frame.Strip(data, c.crc)
}

// Timeout is always zero: I2C provides no transport-level timeout.
func (c *Channel) Timeout() time.Duration { return 0 }

// GeneralCallReset writes the byte 0x06 on the general call address,
// resetting every device on the bus. Devices need not acknowledge; the
// channel then blocks 50ms to let them reboot.
func (c *Channel) GeneralCallReset() error {
	addr := byte(0)
	_, err := c.WriteRead([]byte{0x06}, 1, nil, channel.Options{
		SlaveAddress:        &addr,
		IgnoreErrors:        true,
		PostProcessingDelay: 50 * time.Millisecond,
	})
	return err
}
