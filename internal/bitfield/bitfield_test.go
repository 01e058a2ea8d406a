package bitfield

import "testing"

func TestFieldGetPut(t *testing.T) {
	f := Field{Offset: 4, Width: 3}
	if f.Mask() != 0x7 {
		t.Fatalf("mask = %#x", f.Mask())
	}
	word := f.Put(0, 5)
	if word != 5<<4 {
		t.Fatalf("put word = %#x", word)
	}
	if f.Get(word) != 5 {
		t.Fatalf("get = %d", f.Get(word))
	}
	// oversized values are masked to width
	if got := f.Get(f.Put(0, 0xFF)); got != 0x7 {
		t.Fatalf("masked put = %#x", got)
	}
	// putting leaves neighbouring bits alone
	word = f.Put(0xFFFF, 0)
	if word != 0xFFFF&^(0x7<<4) {
		t.Fatalf("neighbours disturbed: %#x", word)
	}
}

func TestContainer(t *testing.T) {
	c := NewContainer(0)
	mode := c.Declare("mode", 0, 2)
	flag := c.Declare("flag", 7, 1)

	c.Set(mode, 2)
	c.Set(flag, 1)
	if c.Value() != 2|1<<7 {
		t.Fatalf("word = %#x", c.Value())
	}
	if c.Get(mode) != 2 || c.Get(flag) != 1 {
		t.Fatalf("fields = %d, %d", c.Get(mode), c.Get(flag))
	}
	if got := c.String(); got != "{mode: 0x2, flag: 0x1}" {
		t.Fatalf("string = %q", got)
	}
}
