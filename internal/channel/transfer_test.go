package channel

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/danmuck/sensorlink/internal/protocol"
)

type recordedCall struct {
	tx            []byte
	payloadOffset int
	rx            *protocol.RxData
	opts          Options
}

type fakeChannel struct {
	calls   []recordedCall
	values  []protocol.Value
	err     error
	timeout time.Duration
}

func (f *fakeChannel) WriteRead(tx []byte, payloadOffset int, rx *protocol.RxData, opts Options) ([]protocol.Value, error) {
	f.calls = append(f.calls, recordedCall{tx: tx, payloadOffset: payloadOffset, rx: rx, opts: opts})
	return f.values, f.err
}

func (f *fakeChannel) StripProtocol(data []byte) ([]byte, error) { return data, nil }

func (f *fakeChannel) Timeout() time.Duration { return f.timeout }

func TestExecuteTransferReturnsLastResult(t *testing.T) {
	ch := &fakeChannel{values: []protocol.Value{protocol.UintValue(7)}}
	rx := protocol.MustRxData(">H")
	vals, err := ExecuteTransfer(ch,
		Transfer{Tx: protocol.MustTxData(0x10, ">B")},
		Transfer{Tx: protocol.MustTxData(0x20, ">BH"), Args: []any{42}, Rx: rx},
	)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(vals) != 1 || vals[0].Uint != 7 {
		t.Fatalf("unexpected result: %+v", vals)
	}
	if len(ch.calls) != 2 {
		t.Fatalf("expected 2 exchanges, got %d", len(ch.calls))
	}
	if !bytes.Equal(ch.calls[1].tx, []byte{0x20, 0x00, 0x2A}) {
		t.Fatalf("second tx = % X", ch.calls[1].tx)
	}
	if ch.calls[1].rx != rx {
		t.Fatalf("rx layout not forwarded")
	}
}

func TestExecuteTransferPropagatesOptions(t *testing.T) {
	ch := &fakeChannel{}
	addr := byte(0x31)
	tx := protocol.MustTxData(0x94, ">B")
	tx.DeviceBusyDelay = 9 * time.Millisecond
	tx.SlaveAddress = &addr
	tx.IgnoreAck = true

	_, err := ExecuteTransfer(ch, Transfer{Tx: tx, PostProcessingDelay: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	opts := ch.calls[0].opts
	if opts.DeviceBusyDelay != 9*time.Millisecond {
		t.Fatalf("busy delay = %v", opts.DeviceBusyDelay)
	}
	if opts.PostProcessingDelay != 50*time.Millisecond {
		t.Fatalf("post delay = %v", opts.PostProcessingDelay)
	}
	if opts.SlaveAddress == nil || *opts.SlaveAddress != 0x31 {
		t.Fatalf("slave address not forwarded: %v", opts.SlaveAddress)
	}
	if !opts.IgnoreErrors {
		t.Fatalf("ignore flag not forwarded")
	}
	if ch.calls[0].payloadOffset != 1 {
		t.Fatalf("payload offset = %d", ch.calls[0].payloadOffset)
	}
}

func TestExecuteTransferStopsOnError(t *testing.T) {
	fail := errors.New("bus stuck")
	ch := &fakeChannel{err: fail}
	_, err := ExecuteTransfer(ch,
		Transfer{Tx: protocol.MustTxData(0x10, ">B")},
		Transfer{Tx: protocol.MustTxData(0x11, ">B")},
	)
	if !errors.Is(err, fail) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if len(ch.calls) != 1 {
		t.Fatalf("must stop after first failure, got %d calls", len(ch.calls))
	}
}

func TestOptionsAddressFallback(t *testing.T) {
	if got := (Options{}).Address(0x44); got != 0x44 {
		t.Fatalf("fallback address = %#x", got)
	}
	addr := byte(0x45)
	if got := (Options{SlaveAddress: &addr}).Address(0x44); got != 0x45 {
		t.Fatalf("override address = %#x", got)
	}
}

func TestRequestPostProcessingTime(t *testing.T) {
	ch := &fakeChannel{}
	rx := protocol.MustRxData(">H")

	explicit := NewRequest(ch, nil, rx, 5*time.Millisecond, 20*time.Millisecond, 2)
	if got := explicit.PostProcessingTime(); got != 20*time.Millisecond {
		t.Fatalf("explicit post time = %v", got)
	}

	// write-only requests pace the bus with the busy delay
	writeOnly := NewRequest(ch, nil, nil, 5*time.Millisecond, 0, 0)
	if got := writeOnly.PostProcessingTime(); got != 5*time.Millisecond {
		t.Fatalf("write-only post time = %v", got)
	}

	read := NewRequest(ch, nil, rx, 5*time.Millisecond, 0, 2)
	if got := read.PostProcessingTime(); got != 0 {
		t.Fatalf("read post time = %v", got)
	}
}

func TestRequestInterpret(t *testing.T) {
	ch := &fakeChannel{}
	rx := protocol.MustRxData(">H")
	req := NewRequest(ch, nil, rx, 0, 0, 2)
	vals, err := req.Interpret([]byte{0x03, 0xE8})
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if vals[0].Uint != 1000 {
		t.Fatalf("decoded %d, want 1000", vals[0].Uint)
	}

	none := NewRequest(ch, nil, nil, 0, 0, 0)
	vals, err = none.Interpret([]byte{0xFF})
	if err != nil || vals != nil {
		t.Fatalf("nil rx must decode to nothing, got %+v, %v", vals, err)
	}
}
