package object

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader([]byte("blob 6\x00hello\n"))
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.Kind != KindBlob || h.Size != 6 || h.Offset != 7 {
		t.Errorf("header: got %+v", h)
	}
}

func TestParseHeaderErrors(t *testing.T) {
	tests := []struct {
		name   string
		framed string
	}{
		{"no nul", "blob 6 hello\n"},
		{"empty", ""},
		{"no space", "blob6\x00hello\n"},
		{"empty kind", " 6\x00hello\n"},
		{"empty size", "blob \x00"},
		{"signed size", "blob +6\x00hello\n"},
		{"upper kind", "Blob 6\x00hello\n"},
		{"two spaces", "blob  6\x00hello\n"},
		{"short payload", "blob 7\x00hello\n"},
		{"long payload", "blob 5\x00hello\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHeader([]byte(tt.framed))
			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("got %v, want ErrCorrupt", err)
			}
		})
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	payloads := [][]byte{nil, []byte("x"), []byte("with\x00nul\x00bytes"), bytes.Repeat([]byte("abc"), 1000)}
	for _, payload := range payloads {
		_, framed := Address(KindBlob, payload)
		kind, got, err := Decode(framed)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if kind != KindBlob {
			t.Errorf("kind: got %q", kind)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("payload mismatch for %d bytes", len(payload))
		}
	}
}

func TestParserPrimitives(t *testing.T) {
	p := NewParser([]byte("ab cd\x00xyz"))
	got, err := p.ReadUntil(' ')
	if err != nil || string(got) != "ab" {
		t.Fatalf("ReadUntil space: %q, %v", got, err)
	}
	got, err = p.ReadUntil(0)
	if err != nil || string(got) != "cd" {
		t.Fatalf("ReadUntil nul: %q, %v", got, err)
	}
	if _, err := p.ReadN(4); !errors.Is(err, ErrCorrupt) {
		t.Errorf("ReadN past end: got %v", err)
	}
	got, err = p.ReadN(3)
	if err != nil || string(got) != "xyz" {
		t.Fatalf("ReadN: %q, %v", got, err)
	}
	if !p.Done() {
		t.Error("parser should be done")
	}
	if _, err := p.ReadUntil(' '); !errors.Is(err, ErrCorrupt) {
		t.Errorf("ReadUntil at end: got %v", err)
	}
}
