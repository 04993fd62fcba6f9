package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/posediver/media-picker/internal/cli"
	"github.com/posediver/media-picker/internal/config"
	"github.com/posediver/media-picker/internal/media"
	"github.com/posediver/media-picker/internal/picker"
	"github.com/posediver/media-picker/internal/workflow"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// capture flags
var (
	captureEditFlag     bool
	captureDurationFlag time.Duration
	captureDeviceFlag   string
)

// select flags
var (
	selectKindFlag  string
	selectLimitFlag int
	selectRootFlag  string
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Record one video and print its location",
	Args:  cobra.NoArgs,
	Run:   runCapture,
}

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Choose media from the library and print the locations",
	Long: `Select opens the file dialog filtered to one kind of media and prints each
chosen file as a tab-separated line: location, kind, source, detail.

Exit status is 2 when the dialog is dismissed, 69 when the source is not
available and 77 when access is denied.`,
	Args: cobra.NoArgs,
	Run:  runSelect,
}

func init() {
	captureCmd.Flags().BoolVar(&captureEditFlag, "edit", false, "Offer a trim before accepting the recording")
	captureCmd.Flags().DurationVar(&captureDurationFlag, "duration", 0, "Recording length (overrides camera.duration)")
	captureCmd.Flags().StringVar(&captureDeviceFlag, "device", "", "Capture device (overrides camera.device)")

	selectCmd.Flags().StringVarP(&selectKindFlag, "kind", "k", string(media.KindVideo), "Media kind: video or photo")
	selectCmd.Flags().IntVarP(&selectLimitFlag, "limit", "n", 1, "Maximum number of items")
	selectCmd.Flags().StringVar(&selectRootFlag, "root", "", "Directory the dialog opens in (overrides library.root)")
}

func runCapture(cmd *cobra.Command, args []string) {
	start := time.Now()
	cfg := loadConfig()
	if captureDurationFlag > 0 {
		cfg.Camera.Duration = captureDurationFlag
	}
	if captureDeviceFlag != "" {
		cfg.Camera.Device = captureDeviceFlag
	}

	runOnce("capture", cfg, start, func(ctx context.Context, wf *workflow.Workflow) (*workflow.Pending, error) {
		return wf.RequestCapture(ctx, workflow.CaptureRequest{Kind: media.KindVideo, AllowsEditing: captureEditFlag})
	})
}

func runSelect(cmd *cobra.Command, args []string) {
	start := time.Now()
	cfg := loadConfig()

	kind, err := media.ParseKind(selectKindFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid --kind")
	}
	if selectRootFlag != "" {
		root, err := cli.ResolveDirectory(afero.NewOsFs(), selectRootFlag)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid --root")
		}
		cfg.Library.Root = root
	}

	runOnce("select", cfg, start, func(ctx context.Context, wf *workflow.Workflow) (*workflow.Pending, error) {
		return wf.RequestSelection(ctx, workflow.SelectionRequest{Kind: kind, Limit: selectLimitFlag})
	})
}

// runOnce issues a single request, waits for it and prints the result.
// It exits the process with a status describing the outcome.
func runOnce(name string, cfg config.Config, start time.Time, request func(context.Context, *workflow.Workflow) (*workflow.Pending, error)) {
	wf, closeLog := setup(name, cfg, start)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := func() int {
		pending, err := request(ctx, wf)
		if err != nil {
			log.Error().Err(err).Msg(workflow.AlertMessage(err))
			return cli.ExitCode(err)
		}

		result, err := pending.Wait(ctx)
		if err != nil {
			log.Error().Err(err).Msg(workflow.AlertMessage(err))
			return cli.ExitCode(err)
		}
		if result.Canceled {
			log.Info().Msg("Canceled")
			return cli.ExitCode(picker.ErrCanceled)
		}

		if err := cli.PrintReferences(os.Stdout, result.References); err != nil {
			log.Error().Err(err).Msg("Failed to write results")
			return cli.ExitFailure
		}
		return cli.ExitOK
	}()

	stop()
	closeLog()
	os.Exit(code)
}
