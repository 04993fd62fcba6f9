// Package media defines the values produced by a media-selection session:
// references to acquired photos and videos and the result of one picker
// invocation.
package media

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/posediver/media-picker/internal/filehandler"
)

// Kind is the type of an acquired media item.
type Kind string

const (
	KindVideo Kind = "video"
	// KindPhoto is accepted by library selection but no toolbar action
	// requests it yet.
	KindPhoto Kind = "photo"
)

// ParseKind converts a user-supplied string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindVideo:
		return KindVideo, nil
	case KindPhoto, "image":
		return KindPhoto, nil
	default:
		return "", fmt.Errorf("unknown media kind %q (want video or photo)", s)
	}
}

// Matches reports whether the file at path is of this kind, judged by extension.
func (k Kind) Matches(path string) bool {
	ext := filepath.Ext(path)
	switch k {
	case KindVideo:
		return filehandler.IsVideo(ext)
	case KindPhoto:
		return filehandler.IsImage(ext)
	}
	return false
}

// Source identifies which picker produced a reference.
type Source string

const (
	SourceCamera  Source = "camera"
	SourceLibrary Source = "library"
)

// Reference is an application-level handle to one acquired media item.
// Location is an absolute local file path that was validated when the
// reference was created.
type Reference struct {
	ID         string
	Kind       Kind
	Source     Source
	Location   string
	MIMEType   string
	Size       int64
	AcquiredAt time.Time

	// Metadata is nil when probing failed or was skipped.
	Metadata filehandler.MediaMetadata
}

// NewReference builds a Reference for a resolved location with a fresh ID.
func NewReference(kind Kind, source Source, loc filehandler.Location) Reference {
	return Reference{
		ID:         uuid.NewString(),
		Kind:       kind,
		Source:     source,
		Location:   loc.Path,
		MIMEType:   loc.MIMEType,
		Size:       loc.Size,
		AcquiredAt: time.Now(),
	}
}

// Name returns the base file name of the reference's location.
func (r Reference) Name() string {
	return filepath.Base(r.Location)
}

// SelectionResult is the ordered output of a single picker invocation.
// It is empty when the user cancelled.
type SelectionResult struct {
	Source     Source
	References []Reference
	Canceled   bool
}

// Count returns the number of references in the result.
func (r SelectionResult) Count() int {
	return len(r.References)
}
