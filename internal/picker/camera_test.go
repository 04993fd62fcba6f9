package picker

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func newTestCamera(format, device string, fsys afero.Fs) *FFmpegCamera {
	c := NewFFmpegCamera(CameraOptions{
		Format:    format,
		Device:    device,
		Duration:  5 * time.Second,
		OutputDir: "/captures",
	}, fsys)
	c.lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }
	return c
}

func TestFFmpegCameraCheck(t *testing.T) {
	ctx := context.Background()
	withDevice := afero.NewMemMapFs()
	if err := afero.WriteFile(withDevice, "/dev/video0", nil, 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		camera *FFmpegCamera
		want   error
	}{
		{"v4l2 device present", newTestCamera("v4l2", "/dev/video0", withDevice), nil},
		{"v4l2 device missing", newTestCamera("v4l2", "/dev/video0", afero.NewMemMapFs()), ErrDeviceUnavailable},
		{"v4l2 device denied", newTestCamera("v4l2", "/dev/video0", denyFs{afero.NewMemMapFs()}), ErrPermissionDenied},
		{"no device configured", newTestCamera("v4l2", "", withDevice), ErrDeviceUnavailable},
		{"avfoundation by index", newTestCamera("avfoundation", "0", afero.NewMemMapFs()), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.camera.Check(ctx)
			if tt.want == nil {
				if err != nil {
					t.Errorf("Check() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Check() = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("ffmpeg missing", func(t *testing.T) {
		c := newTestCamera("v4l2", "/dev/video0", withDevice)
		c.lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
		if err := c.Check(ctx); !errors.Is(err, ErrDeviceUnavailable) {
			t.Errorf("Check() = %v, want ErrDeviceUnavailable", err)
		}
	})
}

func TestBuildCaptureArgs(t *testing.T) {
	tests := []struct {
		format string
		device string
		input  string
	}{
		{"v4l2", "/dev/video0", "-i /dev/video0"},
		{"avfoundation", "0", "-framerate 30 -i 0"},
		{"dshow", "Integrated Camera", "-i video=Integrated Camera"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			args := strings.Join(buildCaptureArgs(tt.format, tt.device, 2500*time.Millisecond, "/out.mov"), " ")
			if !strings.Contains(args, "-f "+tt.format+" "+tt.input) {
				t.Errorf("args %q missing input %q", args, tt.input)
			}
			if !strings.Contains(args, "-t 2.5") {
				t.Errorf("args %q missing duration", args)
			}
			if !strings.HasSuffix(args, "-y /out.mov") {
				t.Errorf("args %q should end with output", args)
			}
		})
	}
}

func TestBuildTrimArgs(t *testing.T) {
	got := strings.Join(buildTrimArgs("/in.mov", "/out.mov", 3*time.Second), " ")
	want := "-hide_banner -loglevel error -i /in.mov -t 3 -c copy -y /out.mov"
	if got != want {
		t.Errorf("buildTrimArgs() = %q, want %q", got, want)
	}
}

func TestParseTrim(t *testing.T) {
	full := 10 * time.Second
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"4", 4 * time.Second, false},
		{"2.5", 2500 * time.Millisecond, false},
		{"10", 0, false},
		{"30", 0, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseTrim(tt.input, full)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTrim(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseTrim(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassifyFFmpegError(t *testing.T) {
	exit := errors.New("exit status 1")
	tests := []struct {
		name   string
		stderr string
		want   error
	}{
		{"linux permission", "[video4linux2,v4l2 @ 0x1] Cannot open video device /dev/video0: Permission denied", ErrPermissionDenied},
		{"macos authorization", "Failed to create AV capture input device: not authorized to capture video", ErrPermissionDenied},
		{"no device", "/dev/video0: No such file or directory", ErrDeviceUnavailable},
		{"busy device", "ioctl(VIDIOC_STREAMON): Device or resource busy", ErrDeviceUnavailable},
		{"windows missing", "Could not find video device with name [Integrated Camera]", ErrDeviceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyFFmpegError(tt.stderr, exit); !errors.Is(got, tt.want) {
				t.Errorf("classifyFFmpegError() = %v, want %v", got, tt.want)
			}
		})
	}

	got := classifyFFmpegError("first\nencoder exploded\n", exit)
	if !errors.Is(got, exit) || !strings.Contains(got.Error(), "encoder exploded") {
		t.Errorf("classifyFFmpegError() = %v, want wrapped exit with last line", got)
	}
	if got := classifyFFmpegError("", exit); !errors.Is(got, exit) {
		t.Errorf("classifyFFmpegError(empty) = %v", got)
	}
}

func TestCaptureFileName(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 120_000_000, time.UTC)
	if got, want := captureFileName(ts), "capture-20240309-140507.120.mov"; got != want {
		t.Errorf("captureFileName() = %q, want %q", got, want)
	}
}
