package filehandler

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageMetadata contains EXIF metadata extracted from a photo.
//
// EXIF comes from evanoberholster/imagemeta, which reads only the metadata
// blocks (HEIC, JPEG, TIFF). Pixel dimensions come from image.DecodeConfig
// with the x/image decoders registered, so formats without EXIF still
// report a size.
type ImageMetadata struct {
	// GPS coordinates (converted from EXIF Rational format to float64)
	Latitude  float64
	Longitude float64
	HasGPS    bool

	// Timestamp (with timezone if available in OffsetTimeOriginal)
	DateTaken time.Time
	HasDate   bool

	// Camera info
	CameraMake  string
	CameraModel string

	Width  int
	Height int

	// Raw fields for debugging
	RawFields map[string]string
}

// Ensure ImageMetadata implements MediaMetadata
var _ MediaMetadata = (*ImageMetadata)(nil)

// GetMediaType returns "image" for ImageMetadata.
func (m *ImageMetadata) GetMediaType() string {
	return "image"
}

// HasGPSData returns true if GPS coordinates are available.
func (m *ImageMetadata) HasGPSData() bool {
	return m.HasGPS
}

// GetGPS returns the GPS coordinates.
func (m *ImageMetadata) GetGPS() (latitude, longitude float64) {
	return m.Latitude, m.Longitude
}

// HasDateData returns true if date/time is available.
func (m *ImageMetadata) HasDateData() bool {
	return m.HasDate
}

// GetDate returns the date taken.
func (m *ImageMetadata) GetDate() time.Time {
	return m.DateTaken
}

// Summary returns e.g. "4032x3024 · Apple iPhone 15 Pro · 2024-12-31".
func (m *ImageMetadata) Summary() string {
	var parts []string
	if m.Width > 0 && m.Height > 0 {
		parts = append(parts, fmt.Sprintf("%dx%d", m.Width, m.Height))
	}
	if camera := strings.TrimSpace(m.CameraMake + " " + m.CameraModel); camera != "" {
		parts = append(parts, camera)
	}
	if m.HasDate {
		parts = append(parts, m.DateTaken.Format("2006-01-02"))
	}
	if m.HasGPS {
		parts = append(parts, "GPS")
	}
	return strings.Join(parts, " · ")
}

// ExtractImageMetadata extracts EXIF metadata and pixel dimensions from a
// photo. EXIF failures are logged and tolerated as long as the dimensions
// can be read; the call fails only when neither source yields anything.
func ExtractImageMetadata(filePath string) (*ImageMetadata, error) {
	log.Debug().Str("path", filePath).Msg("Extracting image metadata")

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	metadata := &ImageMetadata{
		RawFields: make(map[string]string),
	}

	exifErr := readEXIF(file, metadata)
	if exifErr != nil {
		log.Debug().Err(exifErr).Str("path", filePath).Msg("No usable EXIF block")
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind file: %w", err)
	}
	cfg, format, dimErr := image.DecodeConfig(file)
	if dimErr == nil {
		metadata.Width = cfg.Width
		metadata.Height = cfg.Height
		metadata.RawFields["Format"] = format
	} else {
		log.Debug().Err(dimErr).Str("path", filePath).Msg("Image dimensions unavailable")
	}

	if exifErr != nil && dimErr != nil {
		return nil, fmt.Errorf("failed to decode image metadata: %w", exifErr)
	}

	log.Debug().
		Str("path", filePath).
		Bool("has_gps", metadata.HasGPS).
		Bool("has_date", metadata.HasDate).
		Int("width", metadata.Width).
		Int("height", metadata.Height).
		Msg("Image metadata extraction complete")

	return metadata, nil
}

// readEXIF fills GPS, date and camera fields from the file's EXIF block.
func readEXIF(r io.ReadSeeker, metadata *ImageMetadata) error {
	exifData, err := imagemeta.Decode(r)
	if err != nil {
		return err
	}

	gps := exifData.GPS
	if gps.Latitude() != 0 || gps.Longitude() != 0 {
		metadata.Latitude = gps.Latitude()
		metadata.Longitude = gps.Longitude()
		metadata.HasGPS = true
		metadata.RawFields["GPSLatitude"] = fmt.Sprintf("%f", gps.Latitude())
		metadata.RawFields["GPSLongitude"] = fmt.Sprintf("%f", gps.Longitude())
	}

	// Priority: DateTimeOriginal > CreateDate > ModifyDate
	if !exifData.DateTimeOriginal().IsZero() {
		metadata.DateTaken = exifData.DateTimeOriginal()
		metadata.HasDate = true
	} else if !exifData.CreateDate().IsZero() {
		metadata.DateTaken = exifData.CreateDate()
		metadata.HasDate = true
	} else if !exifData.ModifyDate().IsZero() {
		metadata.DateTaken = exifData.ModifyDate()
		metadata.HasDate = true
	}

	metadata.CameraMake = strings.TrimSpace(exifData.Make)
	metadata.CameraModel = strings.TrimSpace(exifData.Model)
	if metadata.CameraMake != "" {
		metadata.RawFields["Make"] = metadata.CameraMake
	}
	if metadata.CameraModel != "" {
		metadata.RawFields["Model"] = metadata.CameraModel
	}
	return nil
}
