package provider

import (
	"time"

	"github.com/danmuck/sensorlink/internal/channel/shdlc"
	"github.com/danmuck/sensorlink/internal/mocks"
)

// MockShdlc hands out SHDLC channels backed by a mocked sensor.
type MockShdlc struct {
	sensor *mocks.ShdlcSensor
}

// NewMockShdlc builds the provider and its sensor mock.
func NewMockShdlc(provider mocks.ResponseProvider, mockID int, slaveAddress byte) *MockShdlc {
	return &MockShdlc{sensor: mocks.NewShdlcSensor(provider, mockID, slaveAddress)}
}

func (p *MockShdlc) Prepare() error { return nil }
func (p *MockShdlc) Release() error { return nil }

// Sensor exposes the mocked device for test assertions.
func (p *MockShdlc) Sensor() *mocks.ShdlcSensor { return p.sensor }

// Channel swaps the response strategy and returns a channel speaking to
// the mock.
func (p *MockShdlc) Channel(channelDelay time.Duration, provider mocks.ResponseProvider) *shdlc.Channel {
	p.sensor.UpdateChannelParameters(provider)
	return shdlc.New(mocks.NewShdlcTransceiver(p.sensor), channelDelay, p.sensor.SlaveAddress)
}
