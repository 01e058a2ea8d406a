package main

import (
	"encoding/binary"
	"math/rand"

	"github.com/danmuck/sensorlink/internal/mocks"
)

// sht4xSimulator emulates an SHT4x behind the mock transport: plausible
// room-climate ticks for measurement commands and a fixed serial number,
// so the demo produces readable output without hardware.
type sht4xSimulator struct {
	serial uint32
}

func newSht4xSimulator() *sht4xSimulator {
	return &sht4xSimulator{serial: 0x0BADCAFE}
}

func (s *sht4xSimulator) ID() string { return "sht4x_simulator" }

func (s *sht4xSimulator) HandleCommand(cmdID uint16, _ []byte, length int) []byte {
	if length <= 0 {
		return nil
	}
	switch cmdID {
	case 0x89: // serial number
		out := make([]byte, length)
		if length >= 4 {
			binary.BigEndian.PutUint32(out, s.serial)
		}
		return out
	case 0xFD, 0xF6, 0xE0: // measurements at any precision
		out := make([]byte, length)
		if length >= 4 {
			binary.BigEndian.PutUint16(out[0:2], temperatureTicks(20.0+5.0*rand.Float64()))
			binary.BigEndian.PutUint16(out[2:4], humidityTicks(40.0+20.0*rand.Float64()))
		}
		return out
	}
	return mocks.RandomBytes(length)
}

func temperatureTicks(celsius float64) uint16 {
	return uint16((celsius + 45.0) / 175.0 * 65535.0)
}

func humidityTicks(rh float64) uint16 {
	return uint16((rh + 6.0) / 125.0 * 65535.0)
}
