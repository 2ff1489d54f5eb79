package store

import (
	"bytes"
	"compress/zlib"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aweris/gitcas/internal/compression"
	"github.com/aweris/gitcas/internal/object"
)

func tempLocalStore(t *testing.T) *LocalStore {
	t.Helper()
	codec, err := compression.NewZlib(compression.DefaultLevel)
	if err != nil {
		t.Fatal(err)
	}
	return NewLocalStore(filepath.Join(t.TempDir(), "objects"), codec)
}

func TestLocalStorePutGet(t *testing.T) {
	s := tempLocalStore(t)
	ctx := context.Background()

	id, framed := object.Address(object.KindBlob, []byte("hello\n"))
	if err := s.Put(ctx, id, framed); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, framed) {
		t.Errorf("Get: got %q, want %q", got, framed)
	}

	ok, err := s.Has(ctx, id)
	if err != nil || !ok {
		t.Errorf("Has: %v, %v", ok, err)
	}
}

func TestLocalStoreLayout(t *testing.T) {
	s := tempLocalStore(t)
	id, framed := object.Address(object.KindBlob, []byte("hello\n"))
	if err := s.Put(context.Background(), id, framed); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(s.Dir(), "ce", "013625030ba8dba906f756967f9e9ca394464a")
	compressed, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("object file missing at %s: %v", path, err)
	}

	// The record must be a plain zlib stream of the frame.
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		t.Fatalf("record is not zlib: %v", err)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "blob 6\x00hello\n" {
		t.Errorf("record content: %q", raw)
	}
}

func TestLocalStoreIdempotentPut(t *testing.T) {
	s := tempLocalStore(t)
	ctx := context.Background()
	id, framed := object.Address(object.KindBlob, []byte("same"))

	for i := 0; i < 3; i++ {
		if err := s.Put(ctx, id, framed); err != nil {
			t.Fatalf("Put #%d: %v", i, err)
		}
	}
	ids, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != id {
		t.Errorf("List: got %v", ids)
	}
}

func TestLocalStoreConcurrentPut(t *testing.T) {
	s := tempLocalStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Half the writers race on one id, the rest land in the same
			// shards with different ids.
			payload := []byte("shared")
			if i%2 == 1 {
				payload = []byte{byte(i)}
			}
			id, framed := object.Address(object.KindBlob, payload)
			errs <- s.Put(ctx, id, framed)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("concurrent Put: %v", err)
		}
	}

	id, framed := object.Address(object.KindBlob, []byte("shared"))
	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, framed) {
		t.Error("shared object content mismatch")
	}
}

func TestLocalStoreNotFound(t *testing.T) {
	s := tempLocalStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "ce013625030ba8dba906f756967f9e9ca394464a")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("empty store: got %v, want ErrNotFound", err)
	}

	ok, err := s.Has(ctx, "ce013625030ba8dba906f756967f9e9ca394464a")
	if err != nil || ok {
		t.Errorf("Has on empty store: %v, %v", ok, err)
	}
}

func TestLocalStoreExactMatchInShard(t *testing.T) {
	s := tempLocalStore(t)
	ctx := context.Background()

	id, framed := object.Address(object.KindBlob, []byte("hello\n"))
	if err := s.Put(ctx, id, framed); err != nil {
		t.Fatal(err)
	}

	// Same shard, same leading characters, different id.
	sibling := object.ID("ce013625030ba8dba906f756967f9e9ca3944640")
	if _, err := s.Get(ctx, sibling); !errors.Is(err, ErrNotFound) {
		t.Errorf("sibling id: got %v, want ErrNotFound", err)
	}
}

func TestLocalStoreInvalidID(t *testing.T) {
	s := tempLocalStore(t)
	ctx := context.Background()
	if _, err := s.Get(ctx, "ce01"); !errors.Is(err, object.ErrInvalidID) {
		t.Errorf("abbreviated id: got %v", err)
	}
	if err := s.Put(ctx, "../../etc", nil); !errors.Is(err, object.ErrInvalidID) {
		t.Errorf("path id: got %v", err)
	}
}

func TestLocalStoreCorruptRecord(t *testing.T) {
	s := tempLocalStore(t)
	ctx := context.Background()
	id := object.ID("0123456789abcdef0123456789abcdef01234567")

	dir := filepath.Join(s.Dir(), id.Shard())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, id.Rest()), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Get(ctx, id); !errors.Is(err, object.ErrCorrupt) {
		t.Errorf("got %v, want ErrCorrupt", err)
	}
}

func TestLocalStoreListSkipsForeignFiles(t *testing.T) {
	s := tempLocalStore(t)
	ctx := context.Background()

	id, framed := object.Address(object.KindBlob, []byte("a"))
	if err := s.Put(ctx, id, framed); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{"pack", "info", filepath.Join(id.Shard(), "tmp_obj")} {
		if err := os.MkdirAll(filepath.Join(s.Dir(), filepath.Dir(p)), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(s.Dir(), p), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != id {
		t.Errorf("List: got %v", ids)
	}
}

func TestLocalStoreListMissingDir(t *testing.T) {
	s := tempLocalStore(t)
	ids, err := s.List(context.Background())
	if err != nil || len(ids) != 0 {
		t.Errorf("List on missing dir: %v, %v", ids, err)
	}
}

func TestLocalStoreCanceledContext(t *testing.T) {
	s := tempLocalStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	id, framed := object.Address(object.KindBlob, []byte("x"))
	if err := s.Put(ctx, id, framed); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
