package compression

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// ZstdWriter wraps a zstd stream encoder.
type ZstdWriter struct {
	enc *zstd.Encoder
}

// NewZstdWriter returns a streaming encoder. Levels map to
// 1 fastest, 2 default, 3 better compression; anything else is default.
func NewZstdWriter(w io.Writer, level int) (*ZstdWriter, error) {
	var encoderLevel zstd.EncoderLevel
	switch level {
	case 1:
		encoderLevel = zstd.SpeedFastest
	case 3:
		encoderLevel = zstd.SpeedBetterCompression
	default:
		encoderLevel = zstd.SpeedDefault
	}

	enc, err := zstd.NewWriter(w,
		zstd.WithEncoderLevel(encoderLevel),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, err
	}
	return &ZstdWriter{enc: enc}, nil
}

func (z *ZstdWriter) Write(p []byte) (int, error) { return z.enc.Write(p) }

// Close flushes the final frame. It does not close the underlying writer.
func (z *ZstdWriter) Close() error { return z.enc.Close() }

// NewZstdReader returns a streaming decoder for r. Callers must Close it.
func NewZstdReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}
