package tagcheck

import "io"

// chunkedReader hands out data in fixed-size pieces to exercise reads that
// do not line up with tags.
type chunkedReader struct {
	data   []byte
	pos    int
	chunks []int
	next   int
}

func newChunkedReader(s string, chunks []int) *chunkedReader {
	return &chunkedReader{data: []byte(s), chunks: chunks}
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if c.pos >= len(c.data) {
		return 0, io.EOF
	}
	n := len(c.data) - c.pos
	if len(c.chunks) > 0 {
		n = min(n, c.chunks[c.next%len(c.chunks)])
		c.next++
	}
	n = min(n, len(p))
	copy(p, c.data[c.pos:c.pos+n])
	c.pos += n
	return n, nil
}
