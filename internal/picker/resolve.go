package picker

import (
	"fmt"

	"github.com/posediver/media-picker/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Resolve builds the camera and library for the configured backend.
func Resolve(cfg config.Config, fsys afero.Fs) (Camera, Library, error) {
	switch cfg.Picker.Backend {
	case config.BackendNative, "":
		camera := NewFFmpegCamera(CameraOptions{
			Format:    cfg.Camera.Format,
			Device:    cfg.Camera.Device,
			Duration:  cfg.Camera.Duration,
			OutputDir: cfg.Camera.OutputDir,
		}, fsys)
		library := NewNativeLibrary(cfg.Library.Root, cfg.Library.Title, fsys)
		return camera, library, nil
	case config.BackendScripted:
		log.Debug().
			Str("capture", cfg.Picker.Scripted.Capture).
			Int("library", len(cfg.Picker.Scripted.Library)).
			Msg("Using scripted picker backend")
		return &ScriptedCamera{Clip: cfg.Picker.Scripted.Capture},
			&ScriptedLibrary{Files: cfg.Picker.Scripted.Library, Fs: fsys}, nil
	default:
		return nil, nil, fmt.Errorf("unknown picker backend %q", cfg.Picker.Backend)
	}
}
