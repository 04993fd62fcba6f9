package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/posediver/media-picker/internal/config"
	"github.com/posediver/media-picker/internal/filehandler"
	"github.com/posediver/media-picker/internal/logging"
	"github.com/posediver/media-picker/internal/picker"
	"github.com/posediver/media-picker/internal/workflow"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Global flags
var (
	configFlag   string
	backendFlag  string
	logLevelFlag string
)

// rootCmd runs the interactive session.
var rootCmd = &cobra.Command{
	Use:   "media-picker",
	Short: "Record or choose videos from the terminal",
	Long: `Media Picker collects videos for a session. Record a clip from the camera
or choose files from your media library; the session lists everything picked
until you clear it.

Examples:
  media-picker                          # Interactive session
  media-picker --backend scripted       # Session without dialogs or camera
  media-picker capture --edit           # Record once, offer a trim, print the file
  media-picker select --limit 3         # Choose up to three videos and print them`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run:           runSession,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default: $MEDIAPICKER_CONFIG or ~/.config/media-picker/config.toml)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Picker backend: native or scripted")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(captureCmd, selectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// loadConfig reads configuration and applies global flag overrides.
func loadConfig() config.Config {
	cfg, err := config.Load(configFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if backendFlag != "" {
		cfg.Picker.Backend = backendFlag
	}
	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	return cfg
}

// setup initializes logging and builds the workflow. The returned func
// flushes and closes the log.
func setup(name string, cfg config.Config, start time.Time) (*workflow.Workflow, func()) {
	closeLog, err := logging.Init(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logging")
	}

	fsys := afero.NewOsFs()
	camera, library, err := picker.Resolve(cfg, fsys)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up pickers")
	}
	wf := workflow.New(camera, library, workflow.WithFs(fsys))

	logging.NewStartupLogger(name).
		Version(version).
		Backend(cfg.Picker.Backend).
		Device("camera", cfg.Camera.Format+":"+cfg.Camera.Device).
		Directory("library", cfg.Library.Root).
		Directory("captures", cfg.Camera.OutputDir).
		Feature("ffprobe", filehandler.IsFFprobeAvailable()).
		Config("captureDuration", cfg.Camera.Duration.String()).
		InitDuration(time.Since(start)).
		Log()

	return wf, func() {
		if err := closeLog(); err != nil {
			log.Warn().Err(err).Msg("Failed to close log")
		}
	}
}

// sessionLogFile is where the interactive session logs, since the terminal
// belongs to the UI.
func sessionLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "media-picker", "session.log")
}
