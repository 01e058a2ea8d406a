package main

import (
	"github.com/rs/zerolog/log"

	"github.com/danmuck/sensorlink/internal/channel"
	"github.com/danmuck/sensorlink/internal/config"
	"github.com/danmuck/sensorlink/internal/protocol"
	"github.com/danmuck/sensorlink/internal/provider"
)

// Device information requests of the SHDLC base command set: command 0xD0
// with a one-byte subcommand, answered by a zero-terminated string.
var (
	txDeviceInfo = protocol.MustTxData(0xD0, ">BB")
	rxDeviceInfo = protocol.MustRxData(">32s")
)

const (
	infoProductName  = 0x01
	infoSerialNumber = 0x03
)

// runShdlcProbe opens the serial line, asks the device to identify
// itself, and exits.
func runShdlcProbe(cfg config.Config) error {
	p := provider.NewShdlcSerial(cfg.Serial.Port, cfg.Serial.Baud)
	if err := p.Prepare(); err != nil {
		return err
	}
	defer p.Release()

	ch, err := p.Channel(cfg.ChannelDelay(), cfg.Serial.SlaveAddress)
	if err != nil {
		return err
	}

	name, err := deviceInfo(ch, infoProductName)
	if err != nil {
		return err
	}
	serial, err := deviceInfo(ch, infoSerialNumber)
	if err != nil {
		return err
	}
	log.Info().
		Str("product", name).
		Str("serial", serial).
		Msg("device identified")
	return nil
}

func deviceInfo(ch channel.Channel, subcommand byte) (string, error) {
	vals, err := channel.ExecuteTransfer(ch, channel.Transfer{
		Tx:   txDeviceInfo,
		Rx:   rxDeviceInfo,
		Args: []any{subcommand},
	})
	if err != nil {
		return "", err
	}
	if len(vals) == 0 {
		return "", protocol.ErrTruncated
	}
	return vals[0].Str, nil
}
