package compression

import (
	"bytes"
	"compress/zlib"
	"io"
	"testing"
)

func TestZlibRoundTrip(t *testing.T) {
	for _, level := range []int{DefaultLevel, NoCompression, BestSpeed, BestLevel} {
		z, err := NewZlib(level)
		if err != nil {
			t.Fatalf("NewZlib(%d): %v", level, err)
		}
		for _, data := range [][]byte{nil, []byte("blob 6\x00hello\n"), bytes.Repeat([]byte("tree"), 4096)} {
			c, err := z.Compress(data)
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			// Twice, to exercise the pooled writer.
			c2, err := z.Compress(data)
			if err != nil {
				t.Fatalf("Compress again: %v", err)
			}
			if !bytes.Equal(c, c2) {
				t.Errorf("level %d: compression is not deterministic", level)
			}
			got, err := z.Decompress(c)
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(got, data) {
				t.Errorf("level %d: round trip mismatch", level)
			}
		}
	}
}

func TestZlibInteroperatesWithStdlib(t *testing.T) {
	z, _ := NewZlib(DefaultLevel)
	c, err := z.Compress([]byte("blob 6\x00hello\n"))
	if err != nil {
		t.Fatal(err)
	}
	r, err := zlib.NewReader(bytes.NewReader(c))
	if err != nil {
		t.Fatalf("stdlib reader: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "blob 6\x00hello\n" {
		t.Errorf("got %q", got)
	}
}

func TestZlibDecompressGarbage(t *testing.T) {
	z, _ := NewZlib(DefaultLevel)
	if _, err := z.Decompress([]byte("not zlib at all")); err == nil {
		t.Error("expected error decompressing garbage")
	}
	c, _ := z.Compress(bytes.Repeat([]byte("x"), 1000))
	if _, err := z.Decompress(c[:len(c)/2]); err == nil {
		t.Error("expected error decompressing truncated stream")
	}
}

func TestNewZlibRejectsLevel(t *testing.T) {
	if _, err := NewZlib(10); err == nil {
		t.Error("level 10 should be rejected")
	}
	if _, err := NewZlib(-2); err == nil {
		t.Error("level -2 should be rejected")
	}
}

func TestZstdStream(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewZstdWriter(&buf, 2)
	if err != nil {
		t.Fatal(err)
	}
	data := bytes.Repeat([]byte("archive "), 512)
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := NewZstdReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Error("zstd round trip mismatch")
	}
}
