package mocks

import "errors"

var (
	ErrUnsupportedAddress = errors.New("mocks: read addressed to a different device")
	ErrNoPendingRequest   = errors.New("mocks: shdlc read without a preceding write")
	ErrUnexpectedCommand  = errors.New("mocks: shdlc read command does not match the queued write")
)
