package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/posediver/media-picker/internal/tui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Session flags
var (
	sessionEditFlag  bool
	sessionLimitFlag int
)

func init() {
	rootCmd.Flags().BoolVar(&sessionEditFlag, "edit", false, "Offer a trim after each recording")
	rootCmd.Flags().IntVar(&sessionLimitFlag, "limit", 1, "Maximum videos per library selection")
}

// runSession starts the terminal UI and wires it to the workflow.
func runSession(cmd *cobra.Command, args []string) {
	start := time.Now()
	cfg := loadConfig()
	if cfg.Log.File == "" {
		cfg.Log.File = sessionLogFile()
	}

	wf, closeLog := setup("session", cfg, start)
	defer closeLog()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	model := tui.New(ctx, wf, tui.Options{
		AllowsEditing:  sessionEditFlag,
		SelectionLimit: sessionLimitFlag,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	unsubscribe := wf.Subscribe(tui.Observe(p))
	defer unsubscribe()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("Session ended with error")
		return
	}
	log.Info().Int("results", len(wf.CurrentResults())).Msg("Session ended")
}
