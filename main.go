package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"monocap/cmd"
	"monocap/internal/camera"
	"monocap/internal/capture"
	"monocap/internal/config"
	"monocap/internal/devices"
	"monocap/internal/events"
	"monocap/internal/logging"
	"monocap/internal/metrics"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"monocap.toml"`

	// Input settings; exactly one of cam and video must be given
	Cam   int    `help:"Camera index for webcam input (-1 = unset)" default:"-1" toml:"input.cam" env:"INPUT_CAM"`
	Video string `help:"Path to input video file" toml:"input.video" env:"INPUT_VIDEO"`

	// Capture settings; every value is advisory to the device
	Width      int `help:"Requested capture width" default:"1280" toml:"capture.width" env:"CAPTURE_WIDTH"`
	Height     int `help:"Requested capture height" default:"800" toml:"capture.height" env:"CAPTURE_HEIGHT"`
	Fps        int `help:"Requested frames per second" default:"30" toml:"capture.fps" env:"CAPTURE_FPS"`
	BufferSize int `help:"Requested input buffer depth" default:"10" toml:"capture.buffer_size" env:"CAPTURE_BUFFER_SIZE"`

	// Tuning settings; unsupported controls are reported, not fatal
	Gamma      float64 `help:"Gamma control value" default:"200" toml:"tuning.gamma" env:"TUNING_GAMMA"`
	Gain       float64 `help:"Gain control value" default:"0" toml:"tuning.gain" env:"TUNING_GAIN"`
	Brightness float64 `help:"Brightness control value" default:"0" toml:"tuning.brightness" env:"TUNING_BRIGHTNESS"`
	Contrast   float64 `help:"Contrast control value" default:"0" toml:"tuning.contrast" env:"TUNING_CONTRAST"`

	// Output settings
	Chunk  float64 `help:"Segment length in minutes" default:"1" toml:"output.chunk_minutes" env:"OUTPUT_CHUNK_MINUTES"`
	OutDir string  `help:"Output directory" default:"outputs" toml:"output.dir" env:"OUTPUT_DIR"`
	Out    string  `help:"Output base name; its extension is used for every segment" default:"output.mp4" toml:"output.name" env:"OUTPUT_NAME"`

	// Preview settings
	Show bool `help:"Show live preview window (press 'q' to stop)" toml:"preview.show" env:"PREVIEW_SHOW"`

	// Observability settings
	MetricsAddr string `help:"Serve Prometheus metrics on this address (empty = disabled)" toml:"metrics.addr" env:"METRICS_ADDR"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingCapture string `help:"Capture logging level" default:"info" toml:"logging.capture" env:"LOGGING_CAPTURE"`
	LoggingCamera  string `help:"Camera backend logging level" default:"info" toml:"logging.camera" env:"LOGGING_CAMERA"`
}

// metricsObserver feeds the Prometheus registry from loop
// notifications. It runs on the capture goroutine.
type metricsObserver struct{}

func (metricsObserver) SegmentOpened(info capture.SegmentInfo) {
	metrics.SegmentOpened(info.Index)
}

func (metricsObserver) SegmentClosed(info capture.SegmentInfo) {
	metrics.SegmentClosed(info.Frames, info.Duration)
}

func (metricsObserver) FrameWritten(capture.SegmentInfo) {
	metrics.AddFrame()
}

// busObserver publishes segment lifecycle events on the in-process
// event bus.
type busObserver struct {
	bus *events.Bus
}

func (o *busObserver) SegmentOpened(info capture.SegmentInfo) {
	o.bus.Publish(events.SegmentOpenedEvent{Index: info.Index, Path: info.Path})
}

func (o *busObserver) SegmentClosed(info capture.SegmentInfo) {
	o.bus.Publish(events.SegmentClosedEvent{
		Index:    info.Index,
		Path:     info.Path,
		Frames:   info.Frames,
		Duration: info.Duration,
	})
}

func (o *busObserver) FrameWritten(capture.SegmentInfo) {}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		// Load configuration automatically
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		// Initialize logging system
		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"capture": opts.LoggingCapture,
				"camera":  opts.LoggingCamera,
			},
		})
		logger := logging.GetLogger("main")

		cfg := capture.Config{
			Camera:     opts.Cam,
			Video:      opts.Video,
			Width:      opts.Width,
			Height:     opts.Height,
			FPS:        opts.Fps,
			Gamma:      opts.Gamma,
			Gain:       opts.Gain,
			Brightness: opts.Brightness,
			Contrast:   opts.Contrast,
			BufferSize: opts.BufferSize,
			Chunk:      time.Duration(opts.Chunk * float64(time.Minute)),
			OutputDir:  opts.OutDir,
			BaseName:   opts.Out,
		}

		ctx, cancel := context.WithCancel(context.Background())

		// Closed when the run is fully finalized, so shutdown can wait
		// for the last segment to be flushed.
		runDone := make(chan struct{})

		hooks.OnStart(func() {
			defer close(runDone)
			defer cancel()

			// Fail the source selection before touching anything.
			sel, err := cfg.Source()
			if err != nil {
				logger.Error("Invalid input selection", "error", err)
				os.Exit(2)
			}
			if sel.Live {
				if path, rerr := devices.NewDetector().ResolveIndex(sel.Camera); rerr != nil {
					logger.Error("Camera index does not resolve to a device", "cam", sel.Camera, "error", rerr)
					os.Exit(1)
				} else if path != "" {
					logger.Info("Resolved capture device", "cam", sel.Camera, "path", path)
				}
			}

			// The output directory is this layer's job, not the loop's.
			if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
				logger.Error("Failed to create output directory", "dir", cfg.OutputDir, "error", err)
				os.Exit(1)
			}

			if opts.MetricsAddr != "" {
				metrics.Serve(ctx, opts.MetricsAddr, logging.GetLogger("metrics"))
			}

			// Event bus for in-process lifecycle notifications
			bus := events.New()
			defer bus.Close()
			unsub := bus.Subscribe(func(e events.SegmentClosedEvent) {
				logger.Info("Segment written", "index", e.Index, "path", e.Path,
					"frames", e.Frames, "duration", e.Duration)
			})
			defer unsub()

			// Run-summary reporter. Delivery is asynchronous, so the
			// publisher below waits on summaryDone before exiting.
			summaryDone := make(chan struct{})
			unsubFinished := bus.Subscribe(func(e events.CaptureFinishedEvent) {
				logger.Info("Capture finished", "reason", e.Reason,
					"segments", e.Segments, "frames", e.Frames)
				close(summaryDone)
			})
			defer unsubFinished()

			loop := capture.NewLoop(camera.Opener{}, logging.GetLogger("capture"))
			loop.SetObserver(capture.Observers{metricsObserver{}, &busObserver{bus: bus}})
			if opts.Show {
				loop.SetPreview(camera.NewPreview())
			}

			res, err := loop.Run(ctx, cfg)
			for _, seg := range res.Segments {
				logger.Info("Output segment", "path", seg.Path)
			}
			if err != nil {
				logger.Error("Capture failed", "error", err)
				if errors.Is(err, capture.ErrUsage) {
					os.Exit(2)
				}
				os.Exit(1)
			}

			bus.Publish(events.CaptureFinishedEvent{
				Reason:   res.Reason.String(),
				Segments: len(res.Segments),
				Frames:   metrics.GetRunMetrics().Frames,
			})
			select {
			case <-summaryDone:
			case <-time.After(time.Second):
			}

			if res.Reason == capture.StopReadFailure && res.Err != nil {
				metrics.ReadError()
				logger.Error("Run ended on a read failure", "error", res.Err)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutdown requested")
			cancel()
			<-runDone
		})
	})

	// Add devices command
	devicesCmd := cmd.CreateDevicesCmd()
	cli.Root().AddCommand(devicesCmd)

	// Add version command
	versionCmd := cmd.CreateVersionCmd()
	cli.Root().AddCommand(versionCmd)

	// Run the CLI
	cli.Run()
}
