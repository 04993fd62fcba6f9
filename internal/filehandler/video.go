package filehandler

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// VideoMetadata contains metadata extracted from a video file with ffprobe.
//
// GPS location is read from the ISO 6709 string that phones write into the
// container's location tag; ffprobe exposes it through the format tags.
type VideoMetadata struct {
	// GPS coordinates (parsed from ISO 6709 or vendor-specific atoms)
	Latitude  float64
	Longitude float64
	HasGPS    bool

	// Timestamp
	CreateDate time.Time
	HasDate    bool

	// Video properties (from stream metadata)
	Duration   time.Duration
	Width      int
	Height     int
	FrameRate  float64
	Codec      string
	BitRate    int64
	ColorSpace string
	AudioCodec string
	AudioRate  int

	// Device info (from format tags)
	DeviceMake  string
	DeviceModel string

	// Raw fields for debugging
	RawFields map[string]string
}

// Ensure VideoMetadata implements MediaMetadata
var _ MediaMetadata = (*VideoMetadata)(nil)

// GetMediaType returns "video" for VideoMetadata.
func (m *VideoMetadata) GetMediaType() string {
	return "video"
}

// HasGPSData returns true if GPS coordinates are available.
func (m *VideoMetadata) HasGPSData() bool {
	return m.HasGPS
}

// GetGPS returns the GPS coordinates.
func (m *VideoMetadata) GetGPS() (latitude, longitude float64) {
	return m.Latitude, m.Longitude
}

// HasDateData returns true if date/time is available.
func (m *VideoMetadata) HasDateData() bool {
	return m.HasDate
}

// GetDate returns the create date.
func (m *VideoMetadata) GetDate() time.Time {
	return m.CreateDate
}

// CheckFFprobeAvailable checks if ffprobe is available in the system PATH.
// Returns nil if ffprobe is available, or an error describing the issue.
func CheckFFprobeAvailable() error {
	path, err := exec.LookPath("ffprobe")
	if err != nil {
		return fmt.Errorf("ffprobe not found in PATH: video metadata extraction will be unavailable. Install FFmpeg with: brew install ffmpeg (macOS) or apt install ffmpeg (Linux)")
	}
	log.Debug().Str("path", path).Msg("ffprobe found")
	return nil
}

// IsFFprobeAvailable returns true if ffprobe is available in the system PATH.
func IsFFprobeAvailable() bool {
	return CheckFFprobeAvailable() == nil
}

// ffprobeOutput represents the JSON structure from ffprobe.
type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename       string            `json:"filename"`
	Duration       string            `json:"duration"`
	Size           string            `json:"size"`
	BitRate        string            `json:"bit_rate"`
	FormatName     string            `json:"format_name"`
	FormatLongName string            `json:"format_long_name"`
	Tags           map[string]string `json:"tags"`
}

type ffprobeStream struct {
	Index         int               `json:"index"`
	CodecName     string            `json:"codec_name"`
	CodecLongName string            `json:"codec_long_name"`
	CodecType     string            `json:"codec_type"`
	Width         int               `json:"width"`
	Height        int               `json:"height"`
	RFrameRate    string            `json:"r_frame_rate"`
	AvgFrameRate  string            `json:"avg_frame_rate"`
	Duration      string            `json:"duration"`
	BitRate       string            `json:"bit_rate"`
	SampleRate    string            `json:"sample_rate"`
	Channels      int               `json:"channels"`
	ColorSpace    string            `json:"color_space"`
	Tags          map[string]string `json:"tags"`
}

// ExtractVideoMetadata extracts metadata from a video file using ffprobe.
// Format-level tags are read first and stream-level tags fill whatever is
// still missing.
func ExtractVideoMetadata(ctx context.Context, filePath string) (*VideoMetadata, error) {
	log.Debug().Str("path", filePath).Msg("Extracting video metadata using ffprobe")

	ffprobePath, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	metadata, err := parseFFprobeOutput(output)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("path", filePath).
		Bool("has_gps", metadata.HasGPS).
		Bool("has_date", metadata.HasDate).
		Dur("duration", metadata.Duration).
		Int("width", metadata.Width).
		Int("height", metadata.Height).
		Float64("frame_rate", metadata.FrameRate).
		Str("codec", metadata.Codec).
		Msg("Video metadata extracted via ffprobe")

	return metadata, nil
}

// parseFFprobeOutput converts `ffprobe -print_format json -show_format
// -show_streams` output into VideoMetadata.
func parseFFprobeOutput(output []byte) (*VideoMetadata, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	metadata := &VideoMetadata{
		RawFields: make(map[string]string),
	}

	if probe.Format.Duration != "" {
		if dur, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
			metadata.Duration = time.Duration(dur * float64(time.Second))
		}
	}
	if probe.Format.BitRate != "" {
		metadata.BitRate, _ = strconv.ParseInt(probe.Format.BitRate, 10, 64)
	}

	for key, value := range probe.Format.Tags {
		metadata.RawFields[key] = value

		switch strings.ToLower(key) {
		case "creation_time":
			if t, err := time.Parse(time.RFC3339, value); err == nil {
				metadata.CreateDate = t
				metadata.HasDate = true
			}
		case "location", "location-eng", "com.apple.quicktime.location.iso6709":
			if !metadata.HasGPS {
				lat, lon := parseISO6709Location(value)
				if lat != 0 || lon != 0 {
					metadata.Latitude = lat
					metadata.Longitude = lon
					metadata.HasGPS = true
				}
			}
		case "com.android.manufacturer", "make", "com.apple.quicktime.make":
			if metadata.DeviceMake == "" {
				metadata.DeviceMake = value
			}
		case "com.android.model", "model", "com.apple.quicktime.model":
			if metadata.DeviceModel == "" {
				metadata.DeviceModel = value
			}
		case "com.android.version":
			metadata.RawFields["AndroidVersion"] = value
		case "com.apple.quicktime.software":
			metadata.RawFields["Software"] = value
		}
	}

	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "video":
			if metadata.Width == 0 {
				metadata.Width = stream.Width
				metadata.Height = stream.Height
			}
			if metadata.Codec == "" {
				metadata.Codec = stream.CodecName
			}
			if metadata.ColorSpace == "" && stream.ColorSpace != "" {
				metadata.ColorSpace = stream.ColorSpace
			}
			if metadata.FrameRate == 0 && stream.RFrameRate != "" {
				metadata.FrameRate = parseFrameRate(stream.RFrameRate)
			}
			if !metadata.HasDate {
				if ct, ok := stream.Tags["creation_time"]; ok {
					if t, err := time.Parse(time.RFC3339, ct); err == nil {
						metadata.CreateDate = t
						metadata.HasDate = true
					}
				}
			}
		case "audio":
			if metadata.AudioCodec == "" {
				metadata.AudioCodec = stream.CodecName
			}
			if metadata.AudioRate == 0 && stream.SampleRate != "" {
				metadata.AudioRate, _ = strconv.Atoi(stream.SampleRate)
			}
		}
	}

	return metadata, nil
}

var iso6709Pattern = regexp.MustCompile(`^([+-]\d+\.?\d*)([+-]\d+\.?\d*)(?:[+-]\d+\.?\d*)?$`)

// parseISO6709Location parses "±DD.DDDD±DDD.DDDD[±AAA.AAA]/". Altitude is
// ignored; unparseable input yields (0, 0).
func parseISO6709Location(value string) (lat, lon float64) {
	matches := iso6709Pattern.FindStringSubmatch(strings.TrimSuffix(value, "/"))

	if len(matches) >= 3 {
		lat, _ = strconv.ParseFloat(matches[1], 64)
		lon, _ = strconv.ParseFloat(matches[2], 64)
	}

	return lat, lon
}

// parseFrameRate parses frame rate from ffprobe format (e.g., "60/1" -> 60.0)
func parseFrameRate(value string) float64 {
	parts := strings.Split(value, "/")
	if len(parts) == 2 {
		num, _ := strconv.ParseFloat(parts[0], 64)
		den, _ := strconv.ParseFloat(parts[1], 64)
		if den != 0 {
			return num / den
		}
	}
	rate, _ := strconv.ParseFloat(value, 64)
	return rate
}

// formatDuration formats a duration in a human-readable format.
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// Summary returns e.g. "0:42 · 1920x1080 (Full HD) · 59.94 fps · h264".
func (m *VideoMetadata) Summary() string {
	var parts []string
	if m.Duration > 0 {
		parts = append(parts, formatDuration(m.Duration))
	}
	if m.Width > 0 && m.Height > 0 {
		resolution := fmt.Sprintf("%dx%d", m.Width, m.Height)
		if m.Width >= 3840 {
			resolution += " (4K UHD)"
		} else if m.Width >= 1920 {
			resolution += " (Full HD)"
		} else if m.Width >= 1280 {
			resolution += " (HD)"
		}
		parts = append(parts, resolution)
	}
	if m.FrameRate > 0 {
		parts = append(parts, fmt.Sprintf("%.2f fps", m.FrameRate))
	}
	if m.Codec != "" {
		parts = append(parts, m.Codec)
	}
	if m.HasGPS {
		parts = append(parts, "GPS")
	}
	return strings.Join(parts, " · ")
}
