package protocol

import "errors"

var (
	ErrBadDescriptor        = errors.New("protocol: malformed descriptor")
	ErrMultipleStringFields = errors.New("protocol: descriptor has more than one string field")
	ErrTruncated            = errors.New("protocol: truncated data")
	ErrLengthMismatch       = errors.New("protocol: data length does not match descriptor")
	ErrArgumentCount        = errors.New("protocol: argument count does not match descriptor")
	ErrArgumentType         = errors.New("protocol: unsupported argument type")
	ErrValueRange           = errors.New("protocol: value out of range for field")
)
