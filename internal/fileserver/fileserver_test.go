package fileserver

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWrite(t *testing.T) {
	baseDir := t.TempDir()
	fs := New(baseDir)
	data := []byte("image bytes")

	fullpath, n, err := fs.Write("recipes/7/1.jpg", data)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != len(data) {
		t.Errorf("Write() n = %d, want %d", n, len(data))
	}
	if want := filepath.Join(baseDir, "recipes", "7", "1.jpg"); fullpath != want {
		t.Errorf("Write() fullpath = %q, want %q", fullpath, want)
	}

	content, err := os.ReadFile(fullpath)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("file content = %q, want %q", content, data)
	}
}

func TestWrite_Overwrite(t *testing.T) {
	fs := New(t.TempDir())

	if _, _, err := fs.Write("a.txt", []byte("first")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	fullpath, _, err := fs.Write("a.txt", []byte("second"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	content, err := os.ReadFile(fullpath)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(content) != "second" {
		t.Errorf("file content = %q, want %q", content, "second")
	}
}

func TestDelete(t *testing.T) {
	baseDir := t.TempDir()
	fs := New(baseDir)

	fullpath, _, err := fs.Write("recipes/7/1.jpg", []byte("data"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if err := fs.Delete("recipes/7/1.jpg"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(fullpath); !os.IsNotExist(err) {
		t.Errorf("expected file to be deleted, stat err = %v", err)
	}
}

func TestDelete_Missing(t *testing.T) {
	fs := New(t.TempDir())
	if err := fs.Delete("never/existed.jpg"); err != nil {
		t.Errorf("Delete() on a missing file should be a no-op, got %v", err)
	}
}

func TestBaseDirectory(t *testing.T) {
	baseDir := t.TempDir()
	fs := New(baseDir)
	if fs.BaseDirectory() != baseDir {
		t.Errorf("BaseDirectory() = %q, want %q", fs.BaseDirectory(), baseDir)
	}
}
