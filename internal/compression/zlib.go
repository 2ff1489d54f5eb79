// Package compression provides the codecs used for stored records and
// archives.
package compression

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// Codec compresses and decompresses whole records.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// Zlib levels, matching git's core.compression range.
const (
	DefaultLevel  = zlib.DefaultCompression
	NoCompression = zlib.NoCompression
	BestSpeed     = zlib.BestSpeed
	BestLevel     = zlib.BestCompression
)

// Zlib is the RFC 1950 codec git uses for loose objects.
type Zlib struct {
	level   int
	writers sync.Pool
}

// NewZlib returns a codec compressing at level (-1 for the default, 0-9).
func NewZlib(level int) (*Zlib, error) {
	if level < DefaultLevel || level > BestLevel {
		return nil, fmt.Errorf("invalid zlib level %d", level)
	}
	return &Zlib{level: level}, nil
}

// Level returns the configured compression level.
func (z *Zlib) Level() int { return z.level }

func (z *Zlib) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data)/2 + 64)

	w, ok := z.writers.Get().(*zlib.Writer)
	if ok {
		w.Reset(&buf)
	} else {
		var err error
		if w, err = zlib.NewWriterLevel(&buf, z.level); err != nil {
			return nil, err
		}
	}
	defer z.writers.Put(w)

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (z *Zlib) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return out, nil
}
