// Package shdlc implements the channel contract for the framed serial
// SHDLC protocol. Frame encoding happens at the transport layer; this
// channel validates the echoed address, command and status of a response.
package shdlc

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/sensorlink/internal/channel"
	"github.com/danmuck/sensorlink/internal/observability"
	"github.com/danmuck/sensorlink/internal/protocol"
)

// Response is one raw SHDLC exchange result as observed by the transceiver.
type Response struct {
	Address byte
	Command byte
	State   byte
	Data    []byte
}

// Transceiver is the collaborator that performs the framed serial exchange.
// Transceive must honor the timeout as a best-effort bound.
type Transceiver interface {
	Transceive(address, command byte, data []byte, timeout time.Duration) (Response, error)

	// SetExpectedLength announces the upcoming response layout so ports
	// that must size their read ahead of time can do so. A nil rx means
	// no response data is expected.
	SetExpectedLength(rx *protocol.RxData)
}

// Channel talks to one SHDLC device through a Transceiver.
type Channel struct {
	port         Transceiver
	channelDelay time.Duration
	address      byte
}

// New builds an SHDLC channel. channelDelay is the roundtrip time below
// which no timeout is reported.
func New(port Transceiver, channelDelay time.Duration, address byte) *Channel {
	return &Channel{port: port, channelDelay: channelDelay, address: address}
}

// WriteRead implements the channel contract. The first payloadOffset bytes
// of tx carry the command id; the rest is the payload. Responses always
// decode through the dynamic decoder since SHDLC payload sizes are never
// statically known.
func (c *Channel) WriteRead(tx []byte, payloadOffset int, rx *protocol.RxData, opts channel.Options) ([]protocol.Value, error) {
	result, err := c.writeRead(tx, payloadOffset, rx, opts)
	if err != nil {
		if opts.IgnoreErrors {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (c *Channel) writeRead(tx []byte, payloadOffset int, rx *protocol.RxData, opts channel.Options) ([]protocol.Value, error) {
	if len(tx) == 0 || payloadOffset < 1 {
		return nil, ErrEmptyFrame
	}
	// SHDLC commands are a single byte; a wider command id means the
	// descriptor was written for the wrong transport
	if payloadOffset != 1 {
		return nil, ErrCommandWidth
	}
	address := opts.Address(c.address)
	cmd := tx[0]
	data := tx[payloadOffset:]
	timeout := c.channelDelay
	if opts.DeviceBusyDelay > timeout {
		timeout = opts.DeviceBusyDelay
	}

	c.port.SetExpectedLength(rx)
	start := time.Now()
	resp, err := c.port.Transceive(address, cmd, data, timeout)
	observability.ObserveExchange("shdlc", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if resp.Address != address {
		return nil, &ResponseMismatchError{What: "address", Got: resp.Address, Want: address}
	}
	if resp.Command != cmd {
		return nil, &ResponseMismatchError{What: "command", Got: resp.Command, Want: cmd}
	}
	if resp.State&0x80 != 0 {
		log.Warn().
			Uint8("address", address).
			Msg("shdlc device is in error state")
	}
	if code := resp.State & 0x7F; code != 0 {
		log.Warn().
			Uint8("address", address).
			Uint8("code", code).
			Msg("shdlc device returned error")
		return nil, &DeviceError{Code: code}
	}

	var result []protocol.Value
	if rx != nil {
		result, err = rx.UnpackDynamic(resp.Data)
		if err != nil {
			return nil, err
		}
	}
	if opts.PostProcessingDelay > 0 {
		time.Sleep(opts.PostProcessingDelay)
	}
	return result, nil
}

// StripProtocol is the identity: the transport layer already stripped the
// frame.
func (c *Channel) StripProtocol(data []byte) ([]byte, error) { return data, nil }

// Timeout is the configured channel delay.
func (c *Channel) Timeout() time.Duration { return c.channelDelay }
