package osfilesystem

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestFileSystem_WriteCreatesParentsAndReads(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "native", "linux-x86_64", "libmpv.so")

	if err := fs.WriteFile(path, []byte("\x7fELF")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "\x7fELF" {
		t.Errorf("unexpected contents %q", data)
	}
}

func TestFileSystem_Exists(t *testing.T) {
	fs := New()
	dir := t.TempDir()

	exists, err := fs.Exists(dir)
	if err != nil || !exists {
		t.Errorf("expected directory to exist, got %v, %v", exists, err)
	}

	exists, err = fs.Exists(filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected file to not exist")
	}
}

func TestFileSystem_CanRead(t *testing.T) {
	fs := New()
	dir := t.TempDir()

	readable := filepath.Join(dir, "renderD128")
	if err := os.WriteFile(readable, []byte{}, 0644); err != nil {
		t.Fatal(err)
	}
	if !fs.CanRead(readable) {
		t.Error("expected file to be readable")
	}

	if fs.CanRead(filepath.Join(dir, "card0")) {
		t.Error("missing file must not be readable")
	}

	if runtime.GOOS != "windows" && os.Geteuid() != 0 {
		locked := filepath.Join(dir, "locked")
		if err := os.WriteFile(locked, []byte{}, 0000); err != nil {
			t.Fatal(err)
		}
		if fs.CanRead(locked) {
			t.Error("file without read permission must not be readable")
		}
	}
}

func TestFileSystem_TempDir(t *testing.T) {
	fs := New()
	dir := fs.TempDir()
	if !strings.HasPrefix(dir, os.TempDir()) {
		t.Errorf("expected temp dir under %s, got %s", os.TempDir(), dir)
	}
}
