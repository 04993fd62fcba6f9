package picker

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/ncruces/zenity"
	"github.com/posediver/media-picker/internal/filehandler"
	"github.com/posediver/media-picker/internal/media"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// dialogTools are the helper programs zenity shells out to on Unix desktops
// other than macOS.
var dialogTools = []string{"zenity", "matedialog", "qarma"}

// NativeLibrary browses the media library with the OS file dialog.
type NativeLibrary struct {
	root  string
	title string
	fs    afero.Fs

	// Swappable for tests.
	lookPath       func(string) (string, error)
	selectFile     func(...zenity.Option) (string, error)
	selectMultiple func(...zenity.Option) ([]string, error)
}

// NewNativeLibrary returns a library picker whose dialog opens in root.
func NewNativeLibrary(root, title string, fsys afero.Fs) *NativeLibrary {
	if title == "" {
		title = "Select media"
	}
	return &NativeLibrary{
		root:           root,
		title:          title,
		fs:             fsys,
		lookPath:       exec.LookPath,
		selectFile:     zenity.SelectFile,
		selectMultiple: zenity.SelectFileMultiple,
	}
}

// Check verifies a dialog can be shown and the library root can be read.
func (l *NativeLibrary) Check(ctx context.Context) error {
	if !l.dialogAvailable() {
		return fmt.Errorf("%w: no dialog helper found (install zenity)", ErrDeviceUnavailable)
	}
	if l.root == "" {
		return nil
	}
	if err := filehandler.CheckReadableDir(l.fs, l.root); err != nil {
		return classifyFSError(err)
	}
	return nil
}

func (l *NativeLibrary) dialogAvailable() bool {
	switch runtime.GOOS {
	case "darwin", "windows":
		return true
	}
	for _, tool := range dialogTools {
		if _, err := l.lookPath(tool); err == nil {
			return true
		}
	}
	return false
}

// Select opens the file dialog filtered to req.Kind. A limit of one uses the
// single-file dialog; otherwise the multi-select dialog is shown and the
// caller enforces the limit.
func (l *NativeLibrary) Select(ctx context.Context, req SelectionRequest) ([]string, error) {
	opts := l.dialogOptions(ctx, req.Kind)

	log.Debug().
		Str("kind", string(req.Kind)).
		Int("limit", req.Limit).
		Str("root", l.root).
		Msg("Opening library dialog")

	var paths []string
	if req.Limit == 1 {
		selected, err := l.selectFile(opts...)
		if err != nil {
			return nil, l.dialogError(err)
		}
		paths = []string{selected}
	} else {
		selected, err := l.selectMultiple(opts...)
		if err != nil {
			return nil, l.dialogError(err)
		}
		paths = selected
	}

	log.Info().Str("kind", string(req.Kind)).Int("count", len(paths)).Msg("Files picked via native dialog")
	return paths, nil
}

func (l *NativeLibrary) dialogOptions(ctx context.Context, kind media.Kind) []zenity.Option {
	filter := zenity.FileFilter{Name: "Videos", Patterns: filehandler.VideoPatterns()}
	if kind == media.KindPhoto {
		filter = zenity.FileFilter{Name: "Photos", Patterns: filehandler.ImagePatterns()}
	}

	opts := []zenity.Option{
		zenity.Context(ctx),
		zenity.Title(l.title),
		zenity.FileFilters{filter},
	}
	if l.root != "" {
		// A trailing separator makes the dialog open inside the directory.
		opts = append(opts, zenity.Filename(l.root+string(filepath.Separator)))
	}
	return opts
}

func (l *NativeLibrary) dialogError(err error) error {
	if errors.Is(err, zenity.ErrCanceled) {
		return ErrCanceled
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}
	log.Error().Err(err).Msg("File picker failed")
	return fmt.Errorf("file picker failed: %w", err)
}
