// Package config loads media-picker settings from defaults, an optional TOML
// file and MEDIAPICKER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const envPrefix = "MEDIAPICKER"

// Backend names accepted by picker.backend.
const (
	BackendNative   = "native"
	BackendScripted = "scripted"
)

// Config holds application configuration.
type Config struct {
	Log     LogConfig
	Picker  PickerConfig
	Camera  CameraConfig
	Library LibraryConfig
}

// LogConfig controls the global zerolog logger.
type LogConfig struct {
	Level string
	// File receives log output instead of stderr when set. The interactive
	// session sets it because the terminal UI owns the screen.
	File string
}

// PickerConfig selects the picker implementation.
type PickerConfig struct {
	Backend  string
	Scripted ScriptedConfig
}

// ScriptedConfig feeds the scripted backend.
type ScriptedConfig struct {
	Capture string
	Library []string
}

// CameraConfig describes the capture device.
type CameraConfig struct {
	Format    string
	Device    string
	Duration  time.Duration
	OutputDir string `mapstructure:"output_dir"`
}

// LibraryConfig describes the media library the dialog opens in.
type LibraryConfig struct {
	Root  string
	Title string
}

// Load reads configuration. An explicit path must exist; otherwise the file
// named by MEDIAPICKER_CONFIG or ~/.config/media-picker/config.toml is read
// when present.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path == "" {
		path = os.Getenv(envPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "media-picker"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	format, device := DefaultCameraInput()
	home, _ := os.UserHomeDir()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("picker.backend", BackendNative)
	v.SetDefault("picker.scripted.capture", "")
	v.SetDefault("picker.scripted.library", []string{})
	v.SetDefault("camera.format", format)
	v.SetDefault("camera.device", device)
	v.SetDefault("camera.duration", 10*time.Second)
	v.SetDefault("camera.output_dir", filepath.Join(os.TempDir(), "media-picker"))
	v.SetDefault("library.root", DefaultLibraryRoot(home))
	v.SetDefault("library.title", "Select media")
}

// DefaultCameraInput returns the ffmpeg input format and device for the
// first camera on this OS.
func DefaultCameraInput() (format, device string) {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation", "0"
	case "windows":
		return "dshow", "Integrated Camera"
	default:
		return "v4l2", "/dev/video0"
	}
}

// DefaultLibraryRoot returns the conventional videos folder under home, or
// home itself when that folder does not exist.
func DefaultLibraryRoot(home string) string {
	if home == "" {
		return ""
	}
	videos := filepath.Join(home, "Videos")
	if runtime.GOOS == "darwin" {
		videos = filepath.Join(home, "Movies")
	}
	if info, err := os.Stat(videos); err == nil && info.IsDir() {
		return videos
	}
	return home
}

// Validate rejects settings the pickers cannot work with.
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	switch c.Picker.Backend {
	case BackendNative, BackendScripted:
	default:
		return fmt.Errorf("invalid picker.backend %q (want %s or %s)", c.Picker.Backend, BackendNative, BackendScripted)
	}
	if c.Camera.Duration <= 0 {
		return fmt.Errorf("camera.duration must be positive, got %s", c.Camera.Duration)
	}
	if c.Camera.OutputDir == "" {
		return fmt.Errorf("camera.output_dir must be set")
	}
	return nil
}
