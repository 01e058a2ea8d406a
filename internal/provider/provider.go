// Package provider owns channel construction and the lifetime of the
// underlying transport resources. Every provider is an explicit
// prepare/release bracket; callers defer Release so the transport is
// closed on every exit path.
package provider

import "errors"

var ErrNotPrepared = errors.New("provider: transport not prepared")

// Provider acquires and releases the physical link behind one or more
// channels.
type Provider interface {
	Prepare() error
	Release() error
}
