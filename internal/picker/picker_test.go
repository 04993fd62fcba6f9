package picker

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/posediver/media-picker/internal/config"
	"github.com/posediver/media-picker/internal/filehandler"
	"github.com/posediver/media-picker/internal/media"
	"github.com/spf13/afero"
)

// denyFs refuses every open, the way the OS does for a device or folder the
// user has not granted access to.
type denyFs struct {
	afero.Fs
}

func (d denyFs) Open(name string) (afero.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
}

func (d denyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	return d.Open(name)
}

func TestClassifyFSError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"permission", &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrPermission}, ErrPermissionDenied},
		{"missing", &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrNotExist}, ErrDeviceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyFSError(tt.err)
			if tt.want == nil {
				if got != nil {
					t.Errorf("classifyFSError(nil) = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("classifyFSError() = %v, want %v", got, tt.want)
			}
		})
	}

	_, scanErr := filehandler.ScanDirectory(afero.NewMemMapFs(), "/gone", filehandler.ScanOptions{})
	if got := classifyFSError(scanErr); !errors.Is(got, ErrDeviceUnavailable) {
		t.Errorf("classifyFSError(scan of missing dir) = %v, want ErrDeviceUnavailable", got)
	}

	other := errors.New("disk on fire")
	if got := classifyFSError(other); got != other {
		t.Errorf("classifyFSError(other) = %v, want unchanged", got)
	}
}

func TestResolve(t *testing.T) {
	fsys := afero.NewMemMapFs()

	native := config.Config{
		Picker:  config.PickerConfig{Backend: config.BackendNative},
		Camera:  config.CameraConfig{Format: "v4l2", Device: "/dev/video0", Duration: time.Second, OutputDir: "/tmp"},
		Library: config.LibraryConfig{Root: "/media"},
	}
	cam, lib, err := Resolve(native, fsys)
	if err != nil {
		t.Fatalf("Resolve(native) error = %v", err)
	}
	if _, ok := cam.(*FFmpegCamera); !ok {
		t.Errorf("native camera = %T, want *FFmpegCamera", cam)
	}
	if _, ok := lib.(*NativeLibrary); !ok {
		t.Errorf("native library = %T, want *NativeLibrary", lib)
	}

	scripted := config.Config{Picker: config.PickerConfig{
		Backend:  config.BackendScripted,
		Scripted: config.ScriptedConfig{Capture: "/clips/c.mov", Library: []string{"/clips/a.mov"}},
	}}
	cam, lib, err = Resolve(scripted, fsys)
	if err != nil {
		t.Fatalf("Resolve(scripted) error = %v", err)
	}
	if c, ok := cam.(*ScriptedCamera); !ok || c.Clip != "/clips/c.mov" {
		t.Errorf("scripted camera = %#v", cam)
	}
	if l, ok := lib.(*ScriptedLibrary); !ok || len(l.Files) != 1 {
		t.Errorf("scripted library = %#v", lib)
	}

	if _, _, err := Resolve(config.Config{Picker: config.PickerConfig{Backend: "mock"}}, fsys); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestScriptedCamera(t *testing.T) {
	ctx := context.Background()

	empty := &ScriptedCamera{}
	if err := empty.Check(ctx); !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("Check() with no clip = %v, want ErrDeviceUnavailable", err)
	}

	cam := &ScriptedCamera{Clip: "/clips/c.mov"}
	if err := cam.Check(ctx); err != nil {
		t.Fatalf("Check() = %v", err)
	}
	got, err := cam.Capture(ctx, CaptureRequest{AllowsEditing: true})
	if err != nil || got != "/clips/c.mov" {
		t.Errorf("Capture() = %q, %v; want /clips/c.mov", got, err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := cam.Capture(canceled, CaptureRequest{}); !errors.Is(err, ErrCanceled) {
		t.Errorf("Capture() on canceled ctx = %v, want ErrCanceled", err)
	}
}

func TestScriptedLibrary(t *testing.T) {
	ctx := context.Background()
	lib := &ScriptedLibrary{Files: []string{"/m/a.mov", "/m/b.jpg", "/m/c.mp4"}}

	got, err := lib.Select(ctx, SelectionRequest{Kind: media.KindVideo, Limit: 5})
	if err != nil {
		t.Fatalf("Select(video) error = %v", err)
	}
	if len(got) != 2 || got[0] != "/m/a.mov" || got[1] != "/m/c.mp4" {
		t.Errorf("Select(video) = %v, want [/m/a.mov /m/c.mp4]", got)
	}

	photos, err := lib.Select(ctx, SelectionRequest{Kind: media.KindPhoto, Limit: 5})
	if err != nil || len(photos) != 1 || photos[0] != "/m/b.jpg" {
		t.Errorf("Select(photo) = %v, %v", photos, err)
	}

	fsys := afero.NewMemMapFs()
	for _, name := range []string{"/lib/x.mov", "/lib/sub/y.mp4", "/lib/z.png"} {
		if err := afero.WriteFile(fsys, name, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	expanding := &ScriptedLibrary{Files: []string{"/m/a.mov", "/lib"}, Fs: fsys}
	got, err = expanding.Select(ctx, SelectionRequest{Kind: media.KindVideo, Limit: 5})
	if err != nil {
		t.Fatalf("Select() with directory error = %v", err)
	}
	if strings.Join(got, ",") != "/m/a.mov,/lib/sub/y.mp4,/lib/x.mov" {
		t.Errorf("Select() with directory = %v", got)
	}

	none := &ScriptedLibrary{Files: []string{"/m/b.jpg"}}
	if _, err := none.Select(ctx, SelectionRequest{Kind: media.KindVideo, Limit: 1}); !errors.Is(err, ErrCanceled) {
		t.Errorf("Select() with no match = %v, want ErrCanceled", err)
	}
}
