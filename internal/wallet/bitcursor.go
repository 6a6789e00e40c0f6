package wallet

// bitCursor reads an MSB-first bit stream laid over a byte slice. The
// position counts bits from the start of the stream, so callers never deal
// with byte boundaries.
type bitCursor struct {
	buf []byte
	pos int
}

func newBitCursor(buf []byte) *bitCursor {
	return &bitCursor{buf: buf}
}

// Remaining returns the number of unread bits.
func (c *bitCursor) Remaining() int {
	return len(c.buf)*8 - c.pos
}

// Read consumes the next n bits (n <= 32) and returns them as an unsigned
// integer. It panics if fewer than n bits remain.
func (c *bitCursor) Read(n int) uint32 {
	if n < 0 || n > 32 || n > c.Remaining() {
		panic("bitcursor: read past end of stream")
	}
	var v uint32
	for i := 0; i < n; i++ {
		b := c.buf[c.pos/8]
		bit := (b >> (7 - uint(c.pos%8))) & 1
		v = v<<1 | uint32(bit)
		c.pos++
	}
	return v
}
