// Package bitfield provides offset/width views over an integer value,
// for device registers that pack several fields into one word.
package bitfield

import (
	"fmt"
	"strings"
)

// Field names one bit range within a container word.
type Field struct {
	Offset uint
	Width  uint
}

// Mask is the field's value mask before shifting.
func (f Field) Mask() uint64 {
	return (uint64(1) << f.Width) - 1
}

// Get extracts the field from word.
func (f Field) Get(word uint64) uint64 {
	return (word >> f.Offset) & f.Mask()
}

// Put returns word with the field replaced by value (masked to width).
func (f Field) Put(word, value uint64) uint64 {
	word &^= f.Mask() << f.Offset
	return word | (value&f.Mask())<<f.Offset
}

// Container holds one register word and its named fields.
type Container struct {
	word   uint64
	fields []namedField
}

type namedField struct {
	name  string
	field Field
}

// NewContainer declares a container; fields are registered with Declare.
func NewContainer(word uint64) *Container {
	return &Container{word: word}
}

// Declare registers a named field and returns it for direct use.
func (c *Container) Declare(name string, offset, width uint) Field {
	f := Field{Offset: offset, Width: width}
	c.fields = append(c.fields, namedField{name: name, field: f})
	return f
}

// Get extracts a field from the container word.
func (c *Container) Get(f Field) uint64 { return f.Get(c.word) }

// Set replaces a field within the container word.
func (c *Container) Set(f Field, value uint64) { c.word = f.Put(c.word, value) }

// Value is the whole register word.
func (c *Container) Value() uint64 { return c.word }

func (c *Container) String() string {
	parts := make([]string, 0, len(c.fields))
	for _, nf := range c.fields {
		parts = append(parts, fmt.Sprintf("%s: %#x", nf.name, nf.field.Get(c.word)))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
