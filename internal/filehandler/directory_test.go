package filehandler

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func scanFixture(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for _, name := range []string{
		"/lib/b.mov",
		"/lib/a.MP4",
		"/lib/notes.txt",
		"/lib/cover.jpg",
		"/lib/2024/trip.mov",
		"/lib/2024/deep/old.mov",
	} {
		if err := afero.WriteFile(fsys, name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return fsys
}

func TestScanDirectory(t *testing.T) {
	fsys := scanFixture(t)
	videos := func(p string) bool { return IsVideo(filepath.Ext(p)) }

	tests := []struct {
		name string
		opts ScanOptions
		want []string
	}{
		{"all supported", ScanOptions{}, []string{
			"/lib/2024/deep/old.mov", "/lib/2024/trip.mov", "/lib/a.MP4", "/lib/b.mov", "/lib/cover.jpg",
		}},
		{"videos only", ScanOptions{Match: videos}, []string{
			"/lib/2024/deep/old.mov", "/lib/2024/trip.mov", "/lib/a.MP4", "/lib/b.mov",
		}},
		{"top level only", ScanOptions{MaxDepth: 1, Match: videos}, []string{
			"/lib/a.MP4", "/lib/b.mov",
		}},
		{"two levels", ScanOptions{MaxDepth: 2, Match: videos}, []string{
			"/lib/2024/trip.mov", "/lib/a.MP4", "/lib/b.mov",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScanDirectory(fsys, "/lib", tt.opts)
			if err != nil {
				t.Fatalf("ScanDirectory() error = %v", err)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("ScanDirectory() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScanDirectoryLimit(t *testing.T) {
	got, err := ScanDirectory(scanFixture(t), "/lib", ScanOptions{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("ScanDirectory() returned %d files, want 2", len(got))
	}
}

func TestScanDirectoryErrors(t *testing.T) {
	fsys := scanFixture(t)
	if _, err := ScanDirectory(fsys, "/missing", ScanOptions{}); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ScanDirectory(missing) error = %v, want fs.ErrNotExist", err)
	}
	if _, err := ScanDirectory(fsys, "/lib/b.mov", ScanOptions{}); err == nil {
		t.Error("expected error for a file")
	}
}
