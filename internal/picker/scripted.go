package picker

import (
	"context"
	"fmt"

	"github.com/posediver/media-picker/internal/filehandler"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ScriptedCamera replays a preconfigured recording instead of opening a
// device. It is used for headless runs and demos.
type ScriptedCamera struct {
	Clip string
}

// Check reports the camera as missing when no clip is configured.
func (c *ScriptedCamera) Check(ctx context.Context) error {
	if c.Clip == "" {
		return fmt.Errorf("%w: no scripted capture configured", ErrDeviceUnavailable)
	}
	return nil
}

func (c *ScriptedCamera) Capture(ctx context.Context, req CaptureRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	log.Debug().Str("clip", c.Clip).Bool("allows_editing", req.AllowsEditing).Msg("Scripted capture")
	return c.Clip, nil
}

// ScriptedLibrary answers every selection with the configured files that
// match the requested kind, in configuration order. Entries naming a
// directory on Fs are expanded to the media files below it.
type ScriptedLibrary struct {
	Files []string
	Fs    afero.Fs
}

func (l *ScriptedLibrary) Check(ctx context.Context) error {
	return nil
}

// Select behaves like a user who dismissed the dialog when nothing matches.
func (l *ScriptedLibrary) Select(ctx context.Context, req SelectionRequest) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
	}

	var out []string
	for _, f := range l.Files {
		if l.isDir(f) {
			found, err := filehandler.ScanDirectory(l.Fs, f, filehandler.ScanOptions{Match: req.Kind.Matches})
			if err != nil {
				return nil, classifyFSError(err)
			}
			out = append(out, found...)
			continue
		}
		if req.Kind.Matches(f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, ErrCanceled
	}
	return out, nil
}

func (l *ScriptedLibrary) isDir(path string) bool {
	if l.Fs == nil {
		return false
	}
	info, err := l.Fs.Stat(path)
	return err == nil && info.IsDir()
}
