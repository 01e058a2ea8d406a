package mocks

import (
	"time"

	"github.com/danmuck/sensorlink/internal/channel"
	"github.com/danmuck/sensorlink/internal/protocol"
)

// I2CConnection implements the i2c connection contract against a sensor
// mock, honoring the same delays a hardware connection would.
type I2CConnection struct {
	sensor *I2CSensor
}

// NewI2CConnection wires a connection to one mocked sensor.
func NewI2CConnection(sensor *I2CSensor) *I2CConnection {
	return &I2CConnection{sensor: sensor}
}

// Execute writes the request bytes, waits the busy delay, reads and
// interprets the response, then waits the post-processing time.
func (c *I2CConnection) Execute(address byte, req *channel.Request) ([]protocol.Value, error) {
	if len(req.TxData) > 0 {
		if err := c.sensor.Write(address, req.TxData); err != nil {
			return nil, err
		}
		if req.ReadDelay > 0 {
			time.Sleep(req.ReadDelay)
		}
	}
	// always read, even for zero length, so the mock observes the command
	data, err := c.sensor.Read(address, req.RxLength)
	if err != nil {
		return nil, err
	}
	var result []protocol.Value
	if req.RxLength > 0 {
		result, err = req.Interpret(data)
		if err != nil {
			return nil, err
		}
	}
	if post := req.PostProcessingTime(); post > 0 {
		time.Sleep(post)
	}
	return result, nil
}
