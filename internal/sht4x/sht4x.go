// Package sht4x drives the SHT4x humidity and temperature sensor family
// over an I2C channel with Sensirion CRC framing.
package sht4x

import (
	"time"

	"github.com/danmuck/sensorlink/internal/channel"
	"github.com/danmuck/sensorlink/internal/channel/multi"
	"github.com/danmuck/sensorlink/internal/protocol"
	"github.com/danmuck/sensorlink/internal/signal"
)

// DefaultAddress is the factory I2C address of the SHT4x-A variant.
const DefaultAddress byte = 0x44

// Command table. One-byte commands; measurements answer with two
// CRC-protected words.
var (
	txMeasureHigh   = protocol.MustTxData(0xFD, ">B")
	txMeasureMedium = protocol.MustTxData(0xF6, ">B")
	txMeasureLowest = protocol.MustTxData(0xE0, ">B")
	txSerialNumber  = protocol.MustTxData(0x89, ">B")
	txSoftReset     = protocol.MustTxData(0x94, ">B")

	rxMeasurement  = protocol.MustRxData(">HH")
	rxSerialNumber = protocol.MustRxData(">I")
)

func init() {
	// worst-case measurement durations from the datasheet
	txMeasureHigh.DeviceBusyDelay = 8500 * time.Microsecond
	txMeasureMedium.DeviceBusyDelay = 4500 * time.Microsecond
	txMeasureLowest.DeviceBusyDelay = 1700 * time.Microsecond
	txSerialNumber.DeviceBusyDelay = time.Millisecond
	txSoftReset.DeviceBusyDelay = time.Millisecond
	txSoftReset.IgnoreAck = true
}

// Raw tick conversions from the datasheet:
// temperature = -45 + 175 * t / 65535, humidity = -6 + 125 * rh / 65535.
var (
	temperatureSignal = signal.ScaleAndOffset{Scale: 65535.0 / 175.0, Offset: 45.0 * 65535.0 / 175.0}
	humiditySignal    = signal.ScaleAndOffset{Scale: 65535.0 / 125.0, Offset: 6.0 * 65535.0 / 125.0}
)

// Measurement is one converted reading.
type Measurement struct {
	Temperature float64 // degrees Celsius
	Humidity    float64 // percent relative humidity, clamped to [0, 100]
}

// Device drives one sensor through any channel honoring the write/read
// contract.
type Device struct {
	ch channel.Channel
}

// New binds a driver to a channel.
func New(ch channel.Channel) *Device {
	return &Device{ch: ch}
}

// MeasureHighPrecision reads one measurement at the highest repeatability.
func (d *Device) MeasureHighPrecision() (Measurement, error) {
	return d.measure(txMeasureHigh)
}

// MeasureMediumPrecision reads one measurement at medium repeatability.
func (d *Device) MeasureMediumPrecision() (Measurement, error) {
	return d.measure(txMeasureMedium)
}

// MeasureLowestPrecision reads one measurement at the lowest
// repeatability, which is also the fastest.
func (d *Device) MeasureLowestPrecision() (Measurement, error) {
	return d.measure(txMeasureLowest)
}

func (d *Device) measure(tx *protocol.TxData) (Measurement, error) {
	vals, err := channel.ExecuteTransfer(d.ch, channel.Transfer{Tx: tx, Rx: rxMeasurement})
	if err != nil {
		return Measurement{}, err
	}
	if len(vals) < 2 {
		return Measurement{}, protocol.ErrTruncated
	}
	return Measurement{
		Temperature: temperatureSignal.Convert(vals[0].AsFloat64()),
		Humidity:    signal.Clamp(humiditySignal.Convert(vals[1].AsFloat64()), 0, 100),
	}, nil
}

// SerialNumber reads the unique serial of the sensor.
func (d *Device) SerialNumber() (uint32, error) {
	vals, err := channel.ExecuteTransfer(d.ch, channel.Transfer{Tx: txSerialNumber, Rx: rxSerialNumber})
	if err != nil {
		return 0, err
	}
	if len(vals) < 1 {
		return 0, protocol.ErrTruncated
	}
	return uint32(vals[0].AsUint64()), nil
}

// SoftReset restarts the sensor. The device may not acknowledge even on
// success, so a failed acknowledgment is swallowed.
func (d *Device) SoftReset() error {
	_, err := channel.ExecuteTransfer(d.ch, channel.Transfer{Tx: txSoftReset})
	return err
}

// Multi drives one sensor per channel of a multi channel, returning
// readings ordered by channel position.
type Multi struct {
	driver *multi.Driver[*Device]
}

// NewMulti duplicates the driver across mc's channels.
func NewMulti(mc *multi.Channel, mode multi.Mode) *Multi {
	return &Multi{driver: multi.NewDriver(mc, mode, New)}
}

// MeasureHighPrecision reads all sensors at the highest repeatability.
func (m *Multi) MeasureHighPrecision() ([]Measurement, error) {
	return multi.Each(m.driver, (*Device).MeasureHighPrecision)
}

// MeasureLowestPrecision reads all sensors at the lowest repeatability.
func (m *Multi) MeasureLowestPrecision() ([]Measurement, error) {
	return multi.Each(m.driver, (*Device).MeasureLowestPrecision)
}

// SerialNumbers reads every sensor's serial, ordered by channel position.
func (m *Multi) SerialNumbers() ([]uint32, error) {
	return multi.Each(m.driver, (*Device).SerialNumber)
}
