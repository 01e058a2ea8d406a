package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/sensorlink/internal/channel"
	"github.com/danmuck/sensorlink/internal/config"
	"github.com/danmuck/sensorlink/internal/protocol/crc"
	"github.com/danmuck/sensorlink/internal/provider"
	"github.com/danmuck/sensorlink/internal/sht4x"
)

// runSensorLoop reads an SHT4x over i2c until interrupted. Startup resets
// and identity reads are best effort: a sensor that stays silent only
// costs a warning, and failed measurements degrade to simulated values so
// the loop keeps producing output.
func runSensorLoop(cfg config.Config, stop <-chan os.Signal) error {
	ch, release, err := openI2CChannel(cfg)
	if err != nil {
		return err
	}
	defer release()

	sensor := sht4x.New(ch)

	if err := sensor.SoftReset(); err != nil {
		log.Warn().Err(err).Msg("soft reset failed")
	}
	if serial, err := sensor.SerialNumber(); err != nil {
		log.Warn().Err(err).Msg("could not read serial number")
	} else {
		log.Info().Uint32("serial", serial).Msg("sensor identified")
	}

	for {
		m, err := sensor.MeasureLowestPrecision()
		if err != nil {
			log.Warn().Err(err).Msg("sensor read failed, simulating data")
			m = simulateMeasurement()
		}
		log.Info().
			Float64("temperature_c", m.Temperature).
			Float64("humidity_rh", m.Humidity).
			Msg("measurement")
		if !sleepOrStop(cfg.Interval(), stop) {
			return nil
		}
	}
}

func openI2CChannel(cfg config.Config) (channel.Channel, func(), error) {
	switch cfg.Transport {
	case config.TransportLinuxI2C:
		p := provider.NewLinuxI2C(cfg.I2C.Device)
		if err := p.Prepare(); err != nil {
			return nil, nil, err
		}
		ch, err := p.Channel(cfg.I2C.Address(), &crc.Sensirion)
		if err != nil {
			p.Release()
			return nil, nil, err
		}
		return ch, func() { p.Release() }, nil
	case config.TransportMockI2C:
		p := provider.NewMockI2C(1, nil, 0)
		if err := p.Prepare(); err != nil {
			return nil, nil, err
		}
		ch, err := p.Channel(cfg.I2C.Address(), &crc.Sensirion, newSht4xSimulator())
		if err != nil {
			p.Release()
			return nil, nil, err
		}
		return ch, func() { p.Release() }, nil
	}
	return nil, nil, fmt.Errorf("no i2c transport %q", cfg.Transport)
}

func simulateMeasurement() sht4x.Measurement {
	return sht4x.Measurement{
		Temperature: 20.0 + 5.0*rand.Float64(),
		Humidity:    40.0 + 20.0*rand.Float64(),
	}
}
