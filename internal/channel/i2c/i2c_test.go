package i2c

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/danmuck/sensorlink/internal/channel"
	"github.com/danmuck/sensorlink/internal/mocks"
	"github.com/danmuck/sensorlink/internal/protocol"
	"github.com/danmuck/sensorlink/internal/protocol/crc"
	"github.com/danmuck/sensorlink/internal/protocol/frame"
)

// fixedProvider answers every command with the same word, and records the
// last request it saw.
type fixedProvider struct {
	word    uint16
	lastCmd uint16
	lastLen int
	data    []byte
}

func (p *fixedProvider) ID() string { return "fixed" }

func (p *fixedProvider) HandleCommand(cmd uint16, data []byte, length int) []byte {
	p.lastCmd, p.lastLen, p.data = cmd, length, data
	out := make([]byte, length)
	if length >= 2 {
		binary.BigEndian.PutUint16(out, p.word)
	}
	return out
}

func newMockChannel(provider mocks.ResponseProvider, channelCrc, sensorCrc crc.Func) (*Channel, *mocks.I2CSensor) {
	sensor := mocks.NewI2CSensor(provider, 1, 0, 0x44, sensorCrc)
	ch := New(mocks.NewI2CConnection(sensor), 0x44, channelCrc)
	return ch, sensor
}

func TestWriteReadRoundTripWithCrc(t *testing.T) {
	fn := crc.MustNew(crc.Sensirion)
	provider := &fixedProvider{word: 1000}
	ch, _ := newMockChannel(provider, fn, fn)

	tx := protocol.MustTxData(0x89, ">B")
	packed, err := tx.Pack()
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	vals, err := ch.WriteRead(packed, tx.CommandWidth(), protocol.MustRxData(">H"), channel.Options{})
	if err != nil {
		t.Fatalf("write read: %v", err)
	}
	if len(vals) != 1 || vals[0].Uint != 1000 {
		t.Fatalf("decoded %+v, want [1000]", vals)
	}
	if provider.lastCmd != 0x89 {
		t.Fatalf("device saw command %#x", provider.lastCmd)
	}
	// the provider must see the bare data length, not the framed one
	if provider.lastLen != 2 {
		t.Fatalf("provider length = %d, want 2", provider.lastLen)
	}
}

func TestWriteReadPayloadSurvivesFraming(t *testing.T) {
	fn := crc.MustNew(crc.Sensirion)
	provider := &fixedProvider{}
	ch, _ := newMockChannel(provider, fn, fn)

	tx := protocol.MustTxData(0x2B, ">BHH")
	packed, err := tx.Pack(0x1234, 0x5678)
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	_, err = ch.WriteRead(packed, tx.CommandWidth(), nil, channel.Options{})
	if err != nil {
		t.Fatalf("write read: %v", err)
	}
	want := []byte{0x12, 0x34, 0x56, 0x78}
	if len(provider.data) != len(want) {
		t.Fatalf("device payload = % X, want % X", provider.data, want)
	}
	for i := range want {
		if provider.data[i] != want[i] {
			t.Fatalf("device payload = % X, want % X", provider.data, want)
		}
	}
}

func TestWriteReadChecksumMismatch(t *testing.T) {
	// channel and device disagree on the polynomial, so every framed write
	// fails validation on the device side
	chFn := crc.MustNew(crc.Sensirion)
	devFn := crc.MustNew(crc.Params{Width: 8, Polynomial: 0x07, Init: 0x00})
	ch, _ := newMockChannel(&fixedProvider{}, chFn, devFn)

	tx := protocol.MustTxData(0x2B, ">BH")
	packed, _ := tx.Pack(7)

	_, err := ch.WriteRead(packed, tx.CommandWidth(), nil, channel.Options{})
	var ce *frame.ChecksumError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ChecksumError, got %v", err)
	}

	vals, err := ch.WriteRead(packed, tx.CommandWidth(), nil, channel.Options{IgnoreErrors: true})
	if err != nil || vals != nil {
		t.Fatalf("ignored exchange must yield nothing, got %+v, %v", vals, err)
	}
}

func TestWriteReadRejectsUnknownAddress(t *testing.T) {
	ch, _ := newMockChannel(&fixedProvider{}, nil, nil)
	other := byte(0x45)
	_, err := ch.WriteRead([]byte{0x89}, 1, protocol.MustRxData(">H"), channel.Options{SlaveAddress: &other})
	if !errors.Is(err, mocks.ErrUnsupportedAddress) {
		t.Fatalf("expected ErrUnsupportedAddress, got %v", err)
	}
}

func TestGeneralCallReset(t *testing.T) {
	ch, _ := newMockChannel(&fixedProvider{}, nil, nil)
	if err := ch.GeneralCallReset(); err != nil {
		t.Fatalf("general call reset: %v", err)
	}
}

func TestTimeoutIsZero(t *testing.T) {
	ch, _ := newMockChannel(&fixedProvider{}, nil, nil)
	if ch.Timeout() != 0 {
		t.Fatalf("i2c has no transport timeout")
	}
}
