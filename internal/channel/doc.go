// Package channel owns the transport-agnostic request/response contract.
//
// Ownership boundary:
// - the Channel write/read contract every transport implements
// - the Request adapter handed to connection-style transports
// - Transfer bundling and execution
package channel
