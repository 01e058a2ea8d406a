package provider

import (
	"github.com/danmuck/sensorlink/internal/channel/i2c"
	"github.com/danmuck/sensorlink/internal/mocks"
	"github.com/danmuck/sensorlink/internal/protocol/crc"
)

// MockI2C hands out I2C channels backed by a mocked sensor. No hardware
// is involved; prepare and release are no-ops.
type MockI2C struct {
	sensor *mocks.I2CSensor
}

// NewMockI2C builds the provider and its sensor mock.
func NewMockI2C(cmdWidth int, provider mocks.ResponseProvider, mockID int) *MockI2C {
	return &MockI2C{sensor: mocks.NewI2CSensor(provider, cmdWidth, mockID, 0, nil)}
}

func (p *MockI2C) Prepare() error { return nil }
func (p *MockI2C) Release() error { return nil }

// Sensor exposes the mocked device for test assertions.
func (p *MockI2C) Sensor() *mocks.I2CSensor { return p.sensor }

// Channel retargets the mock and returns a channel speaking to it. Nil
// crc parameters disable checksum framing on both sides.
func (p *MockI2C) Channel(slaveAddress byte, params *crc.Params, provider mocks.ResponseProvider) (*i2c.Channel, error) {
	fn, err := tryCrc(params)
	if err != nil {
		return nil, err
	}
	p.sensor.UpdateChannelParameters(slaveAddress, fn, 0, provider)
	return i2c.New(mocks.NewI2CConnection(p.sensor), slaveAddress, fn), nil
}

// tryCrc evaluates optional CRC parameters; nil means no checksums.
func tryCrc(params *crc.Params) (crc.Func, error) {
	if params == nil {
		return nil, nil
	}
	return crc.New(*params)
}
