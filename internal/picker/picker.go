// Package picker adapts the operating system's media facilities (native file
// dialogs, the camera via ffmpeg) into a request/response contract the
// workflow can drive. Implementations block until the user finishes, so
// callers run them off the presentation loop.
package picker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/posediver/media-picker/internal/media"
)

var (
	// ErrDeviceUnavailable is returned when the requested source (camera,
	// dialog toolkit, library directory) is not present on this machine.
	ErrDeviceUnavailable = errors.New("media source is not available on this device")

	// ErrPermissionDenied is returned when the OS refuses access to the
	// camera or the media library.
	ErrPermissionDenied = errors.New("permission to access the media source was denied")

	// ErrCanceled reports that the user dismissed the picker. It is not a
	// failure and must not be shown as one.
	ErrCanceled = errors.New("picker canceled")
)

// CaptureRequest describes a live capture. Only video capture exists.
type CaptureRequest struct {
	AllowsEditing bool
}

// SelectionRequest describes a library browse constrained to Limit items.
type SelectionRequest struct {
	Kind  media.Kind
	Limit int
}

// Camera records new media.
type Camera interface {
	// Check reports ErrDeviceUnavailable or ErrPermissionDenied before any
	// UI is shown.
	Check(ctx context.Context) error

	// Capture blocks until recording finishes and returns the file location.
	Capture(ctx context.Context, req CaptureRequest) (string, error)
}

// Library browses existing media.
type Library interface {
	Check(ctx context.Context) error

	// Select blocks until the user confirms and returns the chosen file
	// locations in the order the dialog reported them.
	Select(ctx context.Context, req SelectionRequest) ([]string, error)
}

// classifyFSError maps filesystem errors onto the picker taxonomy. Errors
// that fit neither class are returned unchanged.
func classifyFSError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	default:
		return err
	}
}
