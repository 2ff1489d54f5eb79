// Package object implements the git-compatible object encoding: header
// framing, SHA-1 addressing and the binary tree format.
//
// An object is framed as "<kind> <size>\x00<payload>" and identified by the
// lowercase hex SHA-1 of the whole frame.
package object

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrCorrupt      = errors.New("object: corrupt object")
	ErrInvalidID    = errors.New("object: invalid id")
	ErrInvalidEntry = errors.New("object: invalid tree entry")
)

// Kind is the type word of an object header.
type Kind string

const (
	KindBlob   Kind = "blob"
	KindTree   Kind = "tree"
	KindCommit Kind = "commit"
	KindTag    Kind = "tag"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindBlob, KindTree, KindCommit, KindTag:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

const (
	// IDSize is the length of a raw object id in bytes.
	IDSize = sha1.Size
	// IDHexSize is the length of a hex-encoded object id.
	IDHexSize = 2 * IDSize
)

// ID is the lowercase hex SHA-1 of an object's frame.
type ID string

// ParseID validates s as a full 40-character lowercase hex id.
// Abbreviated ids are rejected.
func ParseID(s string) (ID, error) {
	if len(s) != IDHexSize {
		return "", fmt.Errorf("%w: %q: want %d hex characters", ErrInvalidID, s, IDHexSize)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", fmt.Errorf("%w: %q", ErrInvalidID, s)
		}
	}
	return ID(s), nil
}

// IDFromRaw encodes 20 raw hash bytes as an ID.
func IDFromRaw(raw []byte) (ID, error) {
	if len(raw) != IDSize {
		return "", fmt.Errorf("%w: raw id has %d bytes", ErrInvalidID, len(raw))
	}
	return ID(hex.EncodeToString(raw)), nil
}

// Raw returns the 20 raw hash bytes. The id must be valid.
func (id ID) Raw() [IDSize]byte {
	var raw [IDSize]byte
	hex.Decode(raw[:], []byte(id))
	return raw
}

// Shard is the fan-out directory name: the first two hex characters.
func (id ID) Shard() string { return string(id[:2]) }

// Rest is the file name inside the shard: the remaining 38 hex characters.
func (id ID) Rest() string { return string(id[2:]) }

func (id ID) String() string { return string(id) }

// Frame builds "<kind> <len>\x00<payload>".
func Frame(kind Kind, payload []byte) []byte {
	header := string(kind) + " " + strconv.Itoa(len(payload))
	buf := make([]byte, 0, len(header)+1+len(payload))
	buf = append(buf, header...)
	buf = append(buf, 0)
	return append(buf, payload...)
}

// Address frames payload and returns the frame together with its id.
func Address(kind Kind, payload []byte) (ID, []byte) {
	framed := Frame(kind, payload)
	return Sum(framed), framed
}

// HashObject returns the id an object would have without keeping the frame.
func HashObject(kind Kind, payload []byte) ID {
	h := sha1.New()
	h.Write([]byte(string(kind) + " " + strconv.Itoa(len(payload))))
	h.Write([]byte{0})
	h.Write(payload)
	return ID(hex.EncodeToString(h.Sum(nil)))
}

// Sum hashes an already framed object.
func Sum(framed []byte) ID {
	h := sha1.Sum(framed)
	return ID(hex.EncodeToString(h[:]))
}
