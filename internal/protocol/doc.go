// Package protocol owns the field codec for sensor request/response payloads.
//
// Ownership boundary:
// - descriptor parsing (byte order + typed field units)
// - pack of typed argument lists into raw bytes
// - unpack of raw bytes, fixed-width and dynamically sized
package protocol
