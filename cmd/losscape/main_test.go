package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/losscape/internal/field"
	"github.com/san-kum/losscape/internal/pathio"
)

var classic = []field.Point{{X: 2, Y: 8}, {X: 4, Y: 3}, {X: 9, Y: 6}}

func TestWriteFile_RemovesOnError(t *testing.T) {
	name := filepath.Join(t.TempDir(), "run.json")
	boom := errors.New("boom")
	err := writeFile(name, func(w io.Writer) error {
		io.WriteString(w, "{")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("writeFile() error = %v, want %v", err, boom)
	}
	if _, err := os.Stat(name); !os.IsNotExist(err) {
		t.Errorf("partial file left behind: stat err = %v", err)
	}
}

func TestWriteFile_KeepsOnSuccess(t *testing.T) {
	name := filepath.Join(t.TempDir(), "path.txt")
	path := []field.Param{{U: 0.5, V: 1}}
	if err := writeFile(name, func(w io.Writer) error { return pathio.Format(w, path) }); err != nil {
		t.Fatalf("writeFile() error = %v", err)
	}
	back, err := readPath(name)
	if err != nil {
		t.Fatalf("readPath() error = %v", err)
	}
	if len(back) != 1 || back[0] != path[0] {
		t.Errorf("readPath() = %v, want %v", back, path)
	}
}

func TestDescend_DivergentRateKeepsFinitePrefix(t *testing.T) {
	path, err := descend(classic, field.Param{}, 0.05, 1000)
	if err != nil {
		t.Fatalf("descend() error = %v", err)
	}
	if len(path) < 2 || len(path) >= 1001 {
		t.Errorf("path length = %d, want a truncated path", len(path))
	}
}
