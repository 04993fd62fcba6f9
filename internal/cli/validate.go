package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/posediver/media-picker/internal/filehandler"
	"github.com/posediver/media-picker/internal/picker"
	"github.com/posediver/media-picker/internal/workflow"
	"github.com/spf13/afero"
)

// Exit codes for one-shot commands, following sysexits.h where one fits.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitCanceled     = 2
	ExitUnavailable  = 69
	ExitNoPermission = 77
)

// ResolveDirectory checks that the path is a readable directory, then
// returns the absolute path. Errors wrap fs.ErrNotExist or fs.ErrPermission.
func ResolveDirectory(fsys afero.Fs, dirPath string) (string, error) {
	absPath, err := filepath.Abs(dirPath)
	if err == nil {
		dirPath = absPath
	}
	if err := filehandler.CheckReadableDir(fsys, dirPath); err != nil {
		return "", fmt.Errorf("invalid directory: %w", err)
	}
	return dirPath, nil
}

// ExitCode maps a picker outcome onto a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, picker.ErrCanceled):
		return ExitCanceled
	case errors.Is(err, picker.ErrPermissionDenied):
		return ExitNoPermission
	case errors.Is(err, picker.ErrDeviceUnavailable):
		return ExitUnavailable
	case errors.Is(err, workflow.ErrBusy):
		return ExitUnavailable
	default:
		return ExitFailure
	}
}
