package picker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// FFmpegCamera records video from a local capture device with ffmpeg.
// Recording runs for a fixed duration behind a progress dialog whose cancel
// button stops and discards the clip.
type FFmpegCamera struct {
	format    string
	device    string
	duration  time.Duration
	outputDir string
	fs        afero.Fs

	// Swappable for tests.
	lookPath func(string) (string, error)
	progress func(...zenity.Option) (zenity.ProgressDialog, error)
	entry    func(string, ...zenity.Option) (string, error)
	now      func() time.Time
}

// CameraOptions configures an FFmpegCamera.
type CameraOptions struct {
	// Format is the ffmpeg input format: v4l2, avfoundation or dshow.
	Format    string
	Device    string
	Duration  time.Duration
	OutputDir string
}

// NewFFmpegCamera returns a camera that writes recordings into
// opts.OutputDir.
func NewFFmpegCamera(opts CameraOptions, fsys afero.Fs) *FFmpegCamera {
	return &FFmpegCamera{
		format:    opts.Format,
		device:    opts.Device,
		duration:  opts.Duration,
		outputDir: opts.OutputDir,
		fs:        fsys,
		lookPath:  exec.LookPath,
		progress:  zenity.Progress,
		entry:     zenity.Entry,
		now:       time.Now,
	}
}

// Check verifies ffmpeg is installed and, for device-node inputs, that the
// device exists and can be opened.
func (c *FFmpegCamera) Check(ctx context.Context) error {
	if _, err := c.lookPath("ffmpeg"); err != nil {
		return fmt.Errorf("%w: ffmpeg not found in PATH", ErrDeviceUnavailable)
	}
	if c.device == "" {
		return fmt.Errorf("%w: no camera device configured", ErrDeviceUnavailable)
	}
	if c.format != "v4l2" {
		// avfoundation and dshow address devices by index or name.
		return nil
	}

	f, err := c.fs.Open(c.device)
	if err != nil {
		return classifyFSError(err)
	}
	return f.Close()
}

// Capture records one clip and returns its location. With AllowsEditing the
// user is offered a trim before the clip is accepted.
func (c *FFmpegCamera) Capture(ctx context.Context, req CaptureRequest) (string, error) {
	ffmpegPath, err := c.lookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("%w: ffmpeg not found in PATH", ErrDeviceUnavailable)
	}
	if err := c.fs.MkdirAll(c.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create capture directory: %w", err)
	}

	out := filepath.Join(c.outputDir, captureFileName(c.now()))

	recCtx, stop := context.WithCancel(ctx)
	defer stop()
	dismissed := c.showProgress(recCtx, stop)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(recCtx, ffmpegPath, buildCaptureArgs(c.format, c.device, c.duration, out)...)
	cmd.Stderr = &stderr

	log.Info().
		Str("device", c.device).
		Str("format", c.format).
		Dur("duration", c.duration).
		Str("output", out).
		Msg("Recording from camera")

	runErr := cmd.Run()
	stop()

	switch {
	case dismissed():
		c.discard(out)
		log.Info().Msg("Recording dismissed by user")
		return "", ErrCanceled
	case ctx.Err() != nil:
		c.discard(out)
		return "", fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
	case runErr != nil:
		c.discard(out)
		return "", classifyFFmpegError(stderr.String(), runErr)
	}

	if !req.AllowsEditing {
		return out, nil
	}
	return c.edit(ctx, ffmpegPath, out)
}

// showProgress opens a countdown dialog for the recording. Dismissing it
// calls stop. The returned func waits for the dialog to close and reports
// whether the user dismissed it.
func (c *FFmpegCamera) showProgress(ctx context.Context, stop context.CancelFunc) func() bool {
	var userDismissed atomic.Bool
	finished := make(chan struct{})

	secs := int(c.duration.Seconds())
	dlg, err := c.progress(
		zenity.Title("Recording"),
		zenity.MaxValue(secs),
		zenity.CancelLabel("Discard"),
	)
	if err != nil {
		log.Warn().Err(err).Msg("Progress dialog unavailable, recording without it")
		close(finished)
		return userDismissed.Load
	}

	go func() {
		defer close(finished)
		defer dlg.Close()

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		start := c.now()
		_ = dlg.Text(fmt.Sprintf("Recording… %ds left", secs))

		for {
			select {
			case <-ctx.Done():
				return
			case <-dlg.Done():
				userDismissed.Store(true)
				stop()
				return
			case <-ticker.C:
				elapsed := int(c.now().Sub(start).Seconds())
				_ = dlg.Value(min(elapsed, secs))
				_ = dlg.Text(fmt.Sprintf("Recording… %ds left", max(secs-elapsed, 0)))
			}
		}
	}()

	return func() bool {
		<-finished
		return userDismissed.Load()
	}
}

// edit asks for a trim length and stream-copies the trimmed clip. Dismissing
// the prompt discards the recording.
func (c *FFmpegCamera) edit(ctx context.Context, ffmpegPath, clip string) (string, error) {
	input, err := c.entry(
		fmt.Sprintf("Trim the recording to how many seconds? Leave blank to keep all %d.", int(c.duration.Seconds())),
		zenity.Title("Edit video"),
		zenity.OKLabel("Use Video"),
		zenity.CancelLabel("Discard"),
		zenity.Context(ctx),
	)
	if err != nil {
		c.discard(clip)
		if errors.Is(err, zenity.ErrCanceled) || ctx.Err() != nil {
			return "", ErrCanceled
		}
		return "", fmt.Errorf("edit dialog failed: %w", err)
	}

	trim, err := parseTrim(input, c.duration)
	if err != nil {
		log.Warn().Err(err).Str("input", input).Msg("Ignoring invalid trim length, keeping full clip")
		return clip, nil
	}
	if trim == 0 {
		return clip, nil
	}

	edited := strings.TrimSuffix(clip, filepath.Ext(clip)) + "-edited" + filepath.Ext(clip)
	cmd := exec.CommandContext(ctx, ffmpegPath, buildTrimArgs(clip, edited, trim)...)
	if output, err := cmd.CombinedOutput(); err != nil {
		c.discard(edited)
		log.Warn().Err(err).Str("output", string(output)).Msg("Trim failed, keeping full clip")
		return clip, nil
	}

	c.discard(clip)
	log.Info().Dur("length", trim).Str("output", edited).Msg("Recording trimmed")
	return edited, nil
}

func (c *FFmpegCamera) discard(path string) {
	if err := c.fs.Remove(path); err != nil && !errors.Is(err, afero.ErrFileNotFound) {
		log.Debug().Err(err).Str("path", path).Msg("Failed to remove discarded clip")
	}
}

func captureFileName(t time.Time) string {
	return "capture-" + t.Format("20060102-150405.000") + ".mov"
}

// buildCaptureArgs returns ffmpeg arguments recording duration from device
// into an H.264 QuickTime file.
func buildCaptureArgs(format, device string, duration time.Duration, out string) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-f", format}

	switch format {
	case "avfoundation":
		args = append(args, "-framerate", "30", "-i", device)
	case "dshow":
		args = append(args, "-i", "video="+device)
	default:
		args = append(args, "-i", device)
	}

	return append(args,
		"-t", strconv.FormatFloat(duration.Seconds(), 'f', -1, 64),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-pix_fmt", "yuv420p",
		"-y", out,
	)
}

func buildTrimArgs(in, out string, length time.Duration) []string {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-i", in,
		"-t", strconv.FormatFloat(length.Seconds(), 'f', -1, 64),
		"-c", "copy",
		"-y", out,
	}
}

// parseTrim converts the edit prompt's answer into a clip length. Zero
// means keep the whole clip.
func parseTrim(input string, full time.Duration) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, nil
	}
	secs, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number of seconds: %q", input)
	}
	if secs <= 0 {
		return 0, fmt.Errorf("trim length must be positive, got %v", secs)
	}
	d := time.Duration(secs * float64(time.Second))
	if d >= full {
		return 0, nil
	}
	return d, nil
}

// classifyFFmpegError maps ffmpeg's stderr onto the picker taxonomy.
func classifyFFmpegError(stderr string, err error) error {
	lower := strings.ToLower(stderr)
	detail := lastLine(stderr)

	switch {
	case strings.Contains(lower, "permission denied"), strings.Contains(lower, "not authorized"):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, detail)
	case strings.Contains(lower, "no such file or directory"),
		strings.Contains(lower, "no such device"),
		strings.Contains(lower, "could not find video device"),
		strings.Contains(lower, "device or resource busy"),
		strings.Contains(lower, "input/output error"):
		return fmt.Errorf("%w: %s", ErrDeviceUnavailable, detail)
	}
	if detail != "" {
		return fmt.Errorf("camera capture failed: %w: %s", err, detail)
	}
	return fmt.Errorf("camera capture failed: %w", err)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
