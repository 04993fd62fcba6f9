package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/posediver/media-picker/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitLevels(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	tests := []struct {
		level   string
		want    zerolog.Level
		wantErr bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"", zerolog.InfoLevel, false},
		{"chatty", zerolog.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			closeLog, err := Init(config.LogConfig{Level: tt.level})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Init(%q) error = %v, wantErr %v", tt.level, err, tt.wantErr)
			}
			if err == nil {
				defer closeLog()
			}
			if got := zerolog.GlobalLevel(); got != tt.want {
				t.Errorf("GlobalLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInitFile(t *testing.T) {
	defer func() { log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}) }()

	path := filepath.Join(t.TempDir(), "logs", "session.log")
	closeLog, err := Init(config.LogConfig{Level: "info", File: path})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	log.Info().Str("source", "library").Msg("Presenting picker")
	if err := closeLog(); err != nil {
		t.Fatalf("close error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "Presenting picker") || !strings.Contains(out, "source=library") {
		t.Errorf("log file = %q, want message and field", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("log file contains color escapes")
	}
}

func TestStartupLoggerEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	s := NewStartupLogger("session").
		Version("1.2.3").
		Backend("scripted").
		Device("camera", "/dev/video0").
		Directory("library", "/home/u/Videos").
		Feature("ffprobe", true).
		Config("duration", "10s").
		InitDuration(15 * time.Millisecond)
	s.event(logger.Info()).Msg("Media picker started")

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	app, _ := got["app"].(map[string]any)
	if app["name"] != "session" || app["version"] != "1.2.3" {
		t.Errorf("app = %v", app)
	}
	if got["backend"] != "scripted" {
		t.Errorf("backend = %v", got["backend"])
	}
	if devices, _ := got["devices"].(map[string]any); devices["camera"] != "/dev/video0" {
		t.Errorf("devices = %v", got["devices"])
	}
	if dirs, _ := got["directories"].(map[string]any); dirs["library"] != "/home/u/Videos" {
		t.Errorf("directories = %v", got["directories"])
	}
	if features, _ := got["features"].(map[string]any); features["ffprobe"] != true {
		t.Errorf("features = %v", got["features"])
	}
	if _, ok := got["initDuration"]; !ok {
		t.Error("initDuration missing")
	}
}

func TestStartupLoggerOmitsEmptySections(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	NewStartupLogger("select").event(logger.Info()).Msg("")

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"backend", "devices", "directories", "features", "config", "initDuration"} {
		if _, ok := got[key]; ok {
			t.Errorf("unexpected key %q in %s", key, buf.String())
		}
	}
}
