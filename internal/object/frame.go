package object

import (
	"bytes"
	"fmt"
	"strconv"
)

// Header is the parsed "<kind> <size>" prefix of a frame.
type Header struct {
	Kind Kind
	Size int
	// Offset is the index of the first payload byte in the frame.
	Offset int
}

// ParseHeader parses and validates the header of a framed object. The
// declared size must equal the number of bytes after the NUL.
func ParseHeader(framed []byte) (Header, error) {
	p := NewParser(framed)
	prefix, err := p.ReadUntil(0)
	if err != nil {
		return Header{}, fmt.Errorf("header: %w", err)
	}

	word, digits, ok := bytes.Cut(prefix, []byte{' '})
	if !ok || !isWord(word) || !isDigits(digits) {
		return Header{}, fmt.Errorf("%w: malformed header %q", ErrCorrupt, prefix)
	}
	size, err := strconv.Atoi(string(digits))
	if err != nil {
		return Header{}, fmt.Errorf("%w: header size %q: %v", ErrCorrupt, digits, err)
	}
	if size != p.Remaining() {
		return Header{}, fmt.Errorf("%w: header declares %d bytes, payload has %d", ErrCorrupt, size, p.Remaining())
	}

	return Header{Kind: Kind(word), Size: size, Offset: p.Offset()}, nil
}

// Decode splits a frame into its kind and payload. The payload aliases framed.
func Decode(framed []byte) (Kind, []byte, error) {
	h, err := ParseHeader(framed)
	if err != nil {
		return "", nil, err
	}
	return h.Kind, framed[h.Offset:], nil
}

func isWord(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

func isDigits(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
