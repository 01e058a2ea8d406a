package mocks

import "github.com/rs/zerolog/log"

// ShdlcSensor mocks one SHDLC device. Every read must be preceded by a
// write for the same command id; anything else is a usage error in the
// test.
type ShdlcSensor struct {
	SlaveAddress byte

	id       int
	provider ResponseProvider
	queue    []queuedRequest
}

// NewShdlcSensor builds a mock device. A nil provider falls back to
// random responses.
func NewShdlcSensor(provider ResponseProvider, mockID int, slaveAddress byte) *ShdlcSensor {
	if provider == nil {
		provider = RandomResponse{}
	}
	return &ShdlcSensor{SlaveAddress: slaveAddress, id: mockID, provider: provider}
}

// UpdateChannelParameters swaps the response strategy; nil keeps the
// current one.
func (m *ShdlcSensor) UpdateChannelParameters(provider ResponseProvider) {
	if provider != nil {
		m.provider = provider
	}
}

// Write queues one command and its payload for a subsequent read.
func (m *ShdlcSensor) Write(cmd byte, data []byte) {
	m.queue = append(m.queue, queuedRequest{cmd: uint16(cmd), data: data})
	log.Debug().
		Str("provider", m.provider.ID()).
		Int("mock", m.id).
		Uint8("command", cmd).
		Msg("mock device received command")
}

// Read serves the oldest queued write, which must match cmd.
func (m *ShdlcSensor) Read(cmd byte, n int) ([]byte, error) {
	if len(m.queue) == 0 {
		return nil, ErrNoPendingRequest
	}
	req := m.queue[0]
	m.queue = m.queue[1:]
	if req.cmd != uint16(cmd) {
		return nil, ErrUnexpectedCommand
	}
	return m.provider.HandleCommand(req.cmd, req.data, n), nil
}
