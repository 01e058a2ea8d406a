package provider

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"
)

// scriptedReader serves one chunk per Read call; a nil chunk is a quiet
// poll window, reported the way a VMIN=0/VTIME tty read reports it: zero
// bytes and io.EOF.
type scriptedReader struct {
	chunks [][]byte
}

func (r *scriptedReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	chunk := r.chunks[0]
	r.chunks = r.chunks[1:]
	if chunk == nil {
		return 0, io.EOF
	}
	return copy(p, chunk), nil
}

func TestBuildMosiFrameLayout(t *testing.T) {
	got := buildMosiFrame(0x00, 0xD0, []byte{0x01})
	content := []byte{0x00, 0xD0, 0x01, 0x01}
	want := append([]byte{frameDelimiter}, content...)
	want = append(want, mosiChecksum(content), frameDelimiter)
	if !bytes.Equal(got, want) {
		t.Fatalf("frame % X, want % X", got, want)
	}
}

func TestBuildMosiFrameStuffsReservedBytes(t *testing.T) {
	got := buildMosiFrame(0x00, 0x7E, []byte{0x7D, 0x11, 0x13})
	// no bare reserved byte may appear between the delimiters
	for _, b := range got[1 : len(got)-1] {
		if b == frameDelimiter {
			t.Fatalf("unstuffed delimiter inside frame: % X", got)
		}
	}
	if !bytes.Contains(got, []byte{escapeByte, 0x7E ^ escapeXor}) {
		t.Fatalf("0x7E not stuffed: % X", got)
	}
	if !bytes.Contains(got, []byte{escapeByte, 0x11 ^ escapeXor}) {
		t.Fatalf("0x11 not stuffed: % X", got)
	}
}

func TestParseMosiFrame(t *testing.T) {
	body := []byte{0x00, 0xD0, 0x00, 0x03, 'a', 'b', 'c'}
	content := append(append([]byte(nil), body...), mosiChecksum(body))

	resp, err := parseMosiFrame(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if resp.Address != 0x00 || resp.Command != 0xD0 || resp.State != 0x00 {
		t.Fatalf("header mismatch: %+v", resp)
	}
	if !bytes.Equal(resp.Data, []byte("abc")) {
		t.Fatalf("data = % X", resp.Data)
	}
}

func TestParseMosiFrameChecksumMismatch(t *testing.T) {
	body := []byte{0x00, 0xD0, 0x00, 0x00}
	content := append(append([]byte(nil), body...), mosiChecksum(body)^0x01)
	_, err := parseMosiFrame(content)
	if !errors.Is(err, ErrFrameChecksum) {
		t.Fatalf("expected ErrFrameChecksum, got %v", err)
	}
}

func TestParseMosiFrameTooShort(t *testing.T) {
	if _, err := parseMosiFrame([]byte{0x00, 0xD0, 0x00}); !errors.Is(err, ErrFrameTooShort) {
		t.Fatalf("expected ErrFrameTooShort, got %v", err)
	}
	// declared payload length disagrees with the actual payload
	body := []byte{0x00, 0xD0, 0x00, 0x05, 'a'}
	content := append(append([]byte(nil), body...), mosiChecksum(body))
	if _, err := parseMosiFrame(content); !errors.Is(err, ErrFrameTooShort) {
		t.Fatalf("expected ErrFrameTooShort for bad length, got %v", err)
	}
}

func TestMosiChecksum(t *testing.T) {
	if got := mosiChecksum([]byte{0x00, 0x00}); got != 0xFF {
		t.Fatalf("checksum of zeros = %#x, want 0xFF", got)
	}
	if got := mosiChecksum([]byte{0x00, 0xD0, 0x01, 0x01}); got != ^byte(0xD2) {
		t.Fatalf("checksum = %#x", got)
	}
}

func TestReadFrameSurvivesQuietPolls(t *testing.T) {
	// the device answers only after two empty poll windows; the response
	// arrives split across reads, with line noise before the frame and a
	// stuffed delimiter inside it
	r := &scriptedReader{chunks: [][]byte{
		nil,
		nil,
		{0x01, frameDelimiter, 0x00},
		{escapeByte, frameDelimiter ^ escapeXor, 0x02, frameDelimiter},
	}}
	got, err := readFrame(r, 8, time.Second)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if !bytes.Equal(got, []byte{0x00, frameDelimiter, 0x02}) {
		t.Fatalf("content = % X", got)
	}
}

func TestReadFrameTimesOutOnSilence(t *testing.T) {
	// a silent line polls as endless zero-byte reads and must end in a
	// timeout, not an i/o error
	_, err := readFrame(&scriptedReader{}, 8, 5*time.Millisecond)
	if !errors.Is(err, ErrReadTimeout) {
		t.Fatalf("expected ErrReadTimeout, got %v", err)
	}
}

func TestReadFramePropagatesPortErrors(t *testing.T) {
	broken := errors.New("device unplugged")
	_, err := readFrame(failingReader{err: broken}, 8, time.Second)
	if !errors.Is(err, broken) {
		t.Fatalf("expected port error, got %v", err)
	}
}

type failingReader struct {
	err error
}

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestTransceiveRequiresPreparedPort(t *testing.T) {
	p := NewShdlcSerial("/dev/null", 115200)
	if _, err := p.Transceive(0, 0xD0, nil, 0); !errors.Is(err, ErrNotPrepared) {
		t.Fatalf("expected ErrNotPrepared, got %v", err)
	}
	if _, err := p.Channel(0, 0); !errors.Is(err, ErrNotPrepared) {
		t.Fatalf("expected ErrNotPrepared from channel, got %v", err)
	}
}
