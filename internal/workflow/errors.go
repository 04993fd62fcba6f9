package workflow

import (
	"errors"

	"github.com/posediver/media-picker/internal/picker"
)

var (
	// ErrBusy is returned when a picker is already presented. The request is
	// rejected, not queued.
	ErrBusy = errors.New("a picker is already presented")

	// ErrInvalidLimit is returned for a selection limit below one.
	ErrInvalidLimit = errors.New("selection limit must be at least 1")

	// ErrUnsupportedKind is returned when the source cannot produce the
	// requested kind, such as a photo from the camera.
	ErrUnsupportedKind = errors.New("media kind not supported by this source")

	// ErrInvalidMedia is reported when a picker returned files but none of
	// them could be used.
	ErrInvalidMedia = errors.New("picked media could not be used")
)

// AlertMessage returns the text shown to the user for err.
func AlertMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, picker.ErrPermissionDenied):
		return "Access was denied. Allow access to the camera or media library and try again."
	case errors.Is(err, picker.ErrDeviceUnavailable):
		return "This media source is not available on this device."
	case errors.Is(err, ErrBusy):
		return "Finish the open picker first."
	case errors.Is(err, ErrInvalidMedia):
		return "The selected file could not be used."
	case errors.Is(err, ErrUnsupportedKind):
		return "That kind of media cannot be acquired from this source."
	default:
		return "Something went wrong: " + err.Error()
	}
}
