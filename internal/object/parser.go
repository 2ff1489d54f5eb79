package object

import (
	"bytes"
	"fmt"
)

// Parser is a forward-only cursor over an encoded object. Every read is
// bounds checked and reports truncation as ErrCorrupt.
type Parser struct {
	buf []byte
	pos int
}

// NewParser returns a parser positioned at the start of buf.
func NewParser(buf []byte) *Parser {
	return &Parser{buf: buf}
}

// ReadUntil returns the bytes before the next delim and advances past it.
func (p *Parser) ReadUntil(delim byte) ([]byte, error) {
	i := bytes.IndexByte(p.buf[p.pos:], delim)
	if i < 0 {
		return nil, fmt.Errorf("%w: missing %q delimiter at offset %d", ErrCorrupt, delim, p.pos)
	}
	out := p.buf[p.pos : p.pos+i]
	p.pos += i + 1
	return out, nil
}

// ReadN returns exactly n bytes and advances past them.
func (p *Parser) ReadN(n int) ([]byte, error) {
	if n < 0 || p.Remaining() < n {
		return nil, fmt.Errorf("%w: want %d bytes at offset %d, have %d", ErrCorrupt, n, p.pos, p.Remaining())
	}
	out := p.buf[p.pos : p.pos+n]
	p.pos += n
	return out, nil
}

// Rest returns everything after the cursor without advancing.
func (p *Parser) Rest() []byte { return p.buf[p.pos:] }

// Offset is the current cursor position.
func (p *Parser) Offset() int { return p.pos }

// Remaining is the number of unread bytes.
func (p *Parser) Remaining() int { return len(p.buf) - p.pos }

// Done reports whether the input is exhausted.
func (p *Parser) Done() bool { return p.pos >= len(p.buf) }
