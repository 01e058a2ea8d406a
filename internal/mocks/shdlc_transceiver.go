package mocks

import (
	"time"

	"github.com/danmuck/sensorlink/internal/channel/shdlc"
	"github.com/danmuck/sensorlink/internal/protocol"
)

// ShdlcTransceiver implements the shdlc transceiver contract against a
// sensor mock. It echoes the address and command it observed and reports a
// clean status.
type ShdlcTransceiver struct {
	sensor   *ShdlcSensor
	expected int
}

// NewShdlcTransceiver wires a transceiver to one mocked sensor.
func NewShdlcTransceiver(sensor *ShdlcSensor) *ShdlcTransceiver {
	return &ShdlcTransceiver{sensor: sensor}
}

func (t *ShdlcTransceiver) SetExpectedLength(rx *protocol.RxData) {
	if rx == nil {
		t.expected = 0
		return
	}
	t.expected = rx.RxLength()
}

func (t *ShdlcTransceiver) Transceive(address, command byte, data []byte, _ time.Duration) (shdlc.Response, error) {
	t.sensor.Write(command, data)
	rx, err := t.sensor.Read(command, t.expected)
	if err != nil {
		return shdlc.Response{}, err
	}
	return shdlc.Response{Address: address, Command: command, State: 0, Data: rx}, nil
}
