package shdlc

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyFrame   = errors.New("shdlc: empty transmit frame")
	ErrCommandWidth = errors.New("shdlc: command id must be a single byte")
)

// ResponseMismatchError reports an echoed address or command that differs
// from what was sent.
type ResponseMismatchError struct {
	What string
	Got  byte
	Want byte
}

func (e *ResponseMismatchError) Error() string {
	return fmt.Sprintf("shdlc: received %s 0x%02X instead of 0x%02X", e.What, e.Got, e.Want)
}

// DeviceError is a nonzero error code reported in the status byte of a
// response. The command failed to execute on the device.
type DeviceError struct {
	Code byte
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("shdlc: device returned error code %d", e.Code)
}
