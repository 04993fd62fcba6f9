// Package filehandler provides media file validation and metadata extraction
// for items returned by the pickers.
//
// Metadata extraction follows a split-provider model:
//   - Images (JPEG, PNG, HEIC, etc.): Pure Go using evanoberholster/imagemeta
//   - Videos (MP4, MOV, MKV, etc.): External tool using ffprobe
//
// Both providers implement the common MediaMetadata interface.
package filehandler

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// SupportedImageExtensions defines the file extensions accepted as photos.
var SupportedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".heif": "image/heif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// SupportedVideoExtensions defines the file extensions accepted as videos.
var SupportedVideoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".m4v":  "video/x-m4v",
	".avi":  "video/x-msvideo",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
}

// ErrUnsupportedFile is returned for locations whose extension is neither a
// supported image nor a supported video.
var ErrUnsupportedFile = errors.New("unsupported file type")

// MediaMetadata is the common interface for all media metadata types.
// Both ImageMetadata and VideoMetadata implement this interface.
type MediaMetadata interface {
	// GetMediaType returns "image" or "video".
	GetMediaType() string

	// HasGPSData returns true if GPS coordinates are available.
	HasGPSData() bool

	// GetGPS returns latitude and longitude (0,0 if not available).
	GetGPS() (latitude, longitude float64)

	// HasDateData returns true if date/time is available.
	HasDateData() bool

	// GetDate returns the date taken/created.
	GetDate() time.Time

	// Summary returns a short single-line description for list views.
	Summary() string
}

// Location is a validated local media file.
type Location struct {
	Path     string
	MIMEType string
	Size     int64
}

// ResolveLocation checks that path names an existing regular file with a
// supported extension and returns its absolute form.
func ResolveLocation(fsys afero.Fs, path string) (Location, error) {
	if strings.TrimSpace(path) == "" {
		return Location{}, fmt.Errorf("empty media location")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return Location{}, fmt.Errorf("failed to get absolute path: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(absPath))
	mimeType, err := GetMIMEType(ext)
	if err != nil {
		return Location{}, err
	}

	info, err := fsys.Stat(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Location{}, fmt.Errorf("file not found: %s", absPath)
		}
		return Location{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return Location{}, fmt.Errorf("path is a directory, not a file: %s", absPath)
	}

	log.Debug().
		Str("path", absPath).
		Str("mime_type", mimeType).
		Int64("size_bytes", info.Size()).
		Msg("Media location resolved")

	return Location{Path: absPath, MIMEType: mimeType, Size: info.Size()}, nil
}

// NormalizePath returns the key used to detect the same file picked twice.
func NormalizePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.Clean(path)
}

// GetMIMEType returns the MIME type for a given file extension.
func GetMIMEType(ext string) (string, error) {
	ext = strings.ToLower(ext)

	if mimeType, ok := SupportedImageExtensions[ext]; ok {
		return mimeType, nil
	}

	if mimeType, ok := SupportedVideoExtensions[ext]; ok {
		return mimeType, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
}

// IsImage returns true if the file extension corresponds to an image.
func IsImage(ext string) bool {
	_, ok := SupportedImageExtensions[strings.ToLower(ext)]
	return ok
}

// IsVideo returns true if the file extension corresponds to a video.
func IsVideo(ext string) bool {
	_, ok := SupportedVideoExtensions[strings.ToLower(ext)]
	return ok
}

// IsSupported returns true if the file extension is supported (image or video).
func IsSupported(ext string) bool {
	return IsImage(ext) || IsVideo(ext)
}

// ImagePatterns returns glob patterns ("*.jpg", ...) for every supported
// image extension, sorted for stable dialog filters.
func ImagePatterns() []string {
	return patterns(SupportedImageExtensions)
}

// VideoPatterns returns glob patterns for every supported video extension.
func VideoPatterns() []string {
	return patterns(SupportedVideoExtensions)
}

func patterns(table map[string]string) []string {
	out := make([]string, 0, len(table))
	for ext := range table {
		out = append(out, "*"+ext)
	}
	sort.Strings(out)
	return out
}

// CheckReadableDir verifies dir exists and can be listed. The returned error
// wraps fs.ErrNotExist or fs.ErrPermission so callers can classify it.
func CheckReadableDir(fsys afero.Fs, dir string) error {
	info, err := fsys.Stat(dir)
	if err != nil {
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory: %w", dir, fs.ErrNotExist)
	}

	f, err := fsys.Open(dir)
	if err != nil {
		return fmt.Errorf("open %s: %w", dir, err)
	}
	defer f.Close()

	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("list %s: %w", dir, err)
	}
	return nil
}
