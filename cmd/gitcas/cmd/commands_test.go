package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aweris/gitcas/internal/archive"
)

func TestArchive(t *testing.T) {
	gitDir := newRepo(t)
	work := t.TempDir()
	writeFile(t, filepath.Join(work, "hello.txt"), "hello\n")
	writeFile(t, filepath.Join(work, "sub", "b.txt"), "b\n")

	out, err := run(t, "", "--git-dir", gitDir, "write-tree", work)
	if err != nil {
		t.Fatal(err)
	}
	root := strings.TrimSpace(out)

	tarball := filepath.Join(t.TempDir(), "out.tar.zst")
	if _, err := run(t, "", "--git-dir", gitDir, "archive", "-o", tarball, "--prefix", "p/", root); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(tarball)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	entries, err := archive.List(f)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	got := strings.Join(names, ",")
	if !strings.Contains(got, "p/hello.txt") || !strings.Contains(got, "p/sub/b.txt") {
		t.Errorf("archive entries = %s", got)
	}
}

func TestVerify(t *testing.T) {
	gitDir := newRepo(t)
	if _, err := run(t, "hello\n", "--git-dir", gitDir, "hash-object", "-w", "--stdin"); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "--git-dir", gitDir, "verify")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if out != "checked 1 objects, 0 problems\n" {
		t.Errorf("output = %q", out)
	}

	path := filepath.Join(gitDir, "objects", helloBlob[:2], helloBlob[2:])
	if err := os.WriteFile(path, []byte("not zlib"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "", "--git-dir", gitDir, "verify")
	if err == nil {
		t.Fatal("expected verify to fail on a corrupt record")
	}
	if !strings.HasPrefix(out, helloBlob+": ") {
		t.Errorf("output = %q", out)
	}
}

func TestConfig(t *testing.T) {
	gitDir := newRepo(t)

	out, err := run(t, "", "--git-dir", gitDir, "config", "core.repositoryformatversion")
	if err != nil {
		t.Fatal(err)
	}
	if out != "0\n" {
		t.Errorf("repositoryformatversion = %q", out)
	}

	if _, err := run(t, "", "--git-dir", gitDir, "config", "core.compression", "9"); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "", "--git-dir", gitDir, "config", "core.compression")
	if err != nil {
		t.Fatal(err)
	}
	if out != "9\n" {
		t.Errorf("compression = %q", out)
	}

	if _, err := run(t, "", "--git-dir", gitDir, "config", "nodot"); err == nil {
		t.Error("expected error for key without section")
	}
	if _, err := run(t, "", "--git-dir", gitDir, "config", "user.name"); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestEnvironmentConfig(t *testing.T) {
	gitDir := newRepo(t)
	t.Setenv("GITCAS_GIT_DIR", gitDir)

	if _, err := run(t, "hello\n", "hash-object", "-w", "--stdin"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(gitDir, "objects", helloBlob[:2], helloBlob[2:])); err != nil {
		t.Errorf("GITCAS_GIT_DIR not honored: %v", err)
	}
}

func TestConfigFile(t *testing.T) {
	gitDir := newRepo(t)
	work := t.TempDir()
	writeFile(t, filepath.Join(work, "keep.txt"), "keep\n")
	writeFile(t, filepath.Join(work, "drop.tmp"), "drop\n")

	cfg := filepath.Join(t.TempDir(), "gitcas.yaml")
	writeFile(t, cfg, "git_dir: "+gitDir+"\nexclude:\n  - \"*.tmp\"\n")

	out, err := run(t, "", "--config", cfg, "write-tree", work)
	if err != nil {
		t.Fatal(err)
	}
	names, err := run(t, "", "--config", cfg, "ls-tree", "--name-only", strings.TrimSpace(out))
	if err != nil {
		t.Fatal(err)
	}
	if names != "keep.txt\n" {
		t.Errorf("names = %q", names)
	}

	if _, err := run(t, "", "--log-level", "loud", "--git-dir", gitDir, "verify"); err == nil {
		t.Error("expected error for invalid log level")
	}
}
