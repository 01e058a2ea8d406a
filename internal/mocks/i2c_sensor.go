package mocks

import (
	"encoding/binary"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/sensorlink/internal/protocol/crc"
	"github.com/danmuck/sensorlink/internal/protocol/frame"
)

type queuedRequest struct {
	cmd  uint16
	data []byte
}

// I2CSensor mocks one I2C device. It validates the target address,
// exercises the same CRC framing paths as production channels, and queues
// each write for a subsequent read. Reads without a preceding write are
// allowed.
type I2CSensor struct {
	cmdWidth int
	crc      crc.Func
	address  byte
	id       int
	provider ResponseProvider

	queue       []queuedRequest
	lastCommand uint16
}

// NewI2CSensor builds a mock device. A nil provider falls back to random
// responses.
func NewI2CSensor(provider ResponseProvider, cmdWidth int, mockID int, address byte, fn crc.Func) *I2CSensor {
	if provider == nil {
		provider = RandomResponse{}
	}
	return &I2CSensor{
		cmdWidth: cmdWidth,
		crc:      fn,
		address:  address,
		id:       mockID,
		provider: provider,
	}
}

// UpdateChannelParameters retargets the mock when a channel provider hands
// out a new channel. A zero cmdWidth or nil provider keeps the current
// value.
func (m *I2CSensor) UpdateChannelParameters(address byte, fn crc.Func, cmdWidth int, provider ResponseProvider) {
	m.address = address
	m.crc = fn
	if cmdWidth != 0 {
		m.cmdWidth = cmdWidth
	}
	if provider != nil {
		m.provider = provider
	}
}

// Write receives framed bytes from the channel: the command id followed by
// CRC-framed payload. The CRC check runs here, so a corrupted write fails
// the same way it would on hardware. A wake-up style write may carry fewer
// bytes than the command width.
func (m *I2CSensor) Write(_ byte, data []byte) error {
	cmdLen := m.cmdWidth
	if len(data) < cmdLen {
		cmdLen = len(data)
	}
	switch cmdLen {
	case 1:
		m.lastCommand = uint16(data[0])
	case 2:
		m.lastCommand = binary.BigEndian.Uint16(data[:2])
	}
	payload := data[cmdLen:]
	if m.crc != nil {
		stripped, err := frame.Strip(payload, m.crc)
		if err != nil {
			return err
		}
		payload = stripped
	}
	m.queue = append(m.queue, queuedRequest{cmd: m.lastCommand, data: payload})
	log.Debug().
		Str("provider", m.provider.ID()).
		Int("mock", m.id).
		Uint16("command", m.lastCommand).
		Msg("mock device received command")
	return nil
}

// Read serves a framed response of exactly n bytes. The requested length
// includes checksum overhead when CRC is active; the provider sees the
// bare data length.
func (m *I2CSensor) Read(address byte, n int) ([]byte, error) {
	if address != 0 && address != m.address {
		return nil, ErrUnsupportedAddress
	}
	cmd := m.lastCommand
	var data []byte
	if len(m.queue) > 0 {
		req := m.queue[0]
		m.queue = m.queue[1:]
		cmd, data = req.cmd, req.data
	}
	if n <= 0 {
		// the provider still gets to observe commands with no response
		return m.provider.HandleCommand(cmd, data, 0), nil
	}
	dataLen := n
	if m.crc != nil {
		dataLen = 2 * n / 3
	}
	log.Debug().
		Str("provider", m.provider.ID()).
		Int("mock", m.id).
		Int("bytes", dataLen).
		Msg("mock device received read request")
	raw := m.provider.HandleCommand(cmd, data, dataLen)
	if m.crc == nil {
		return raw, nil
	}
	return frame.BuildTx(raw, 0, m.crc), nil
}
