// Package main provides the CLI entry point for vidmark.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/vidmark/pkg/adapters/ffmpeg"
	"github.com/user/vidmark/pkg/adapters/filesink"
	"github.com/user/vidmark/pkg/adapters/ggrenderer"
	"github.com/user/vidmark/pkg/adapters/logger"
	"github.com/user/vidmark/pkg/adapters/mp4source"
	"github.com/user/vidmark/pkg/adapters/nullsink"
	"github.com/user/vidmark/pkg/adapters/osfilesystem"
	"github.com/user/vidmark/pkg/adapters/termsurface"
	"github.com/user/vidmark/pkg/checkpoint"
	"github.com/user/vidmark/pkg/config"
	"github.com/user/vidmark/pkg/orchestrator"
	"github.com/user/vidmark/pkg/ports"
	"github.com/user/vidmark/pkg/stages/annotate"
	"github.com/user/vidmark/pkg/stages/persist"
	"github.com/user/vidmark/pkg/stages/prepare"
	"github.com/user/vidmark/pkg/store"
	"github.com/user/vidmark/pkg/summarizer"
)

var version = "dev"

const (
	categorySession = "Session"
	categoryMedia   = "Media"
	categoryOutput  = "Output"
	categoryLogging = "Logging"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, l10n.F("Error: %s", err))
		os.Exit(1)
	}
}

// annotateFlags returns the flags of the annotate command, also accepted at the root.
func annotateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"C"}, Usage: l10n.T("YAML configuration file")},
		&cli.StringFlag{Name: "variant", Aliases: []string{"m"}, Usage: l10n.T("Checkpoint variant (keyed, pair, single)"), Category: l10n.T(categorySession)},
		&cli.IntFlag{Name: "tick-ms", Usage: l10n.T("Playback interval in milliseconds"), Category: l10n.T(categorySession)},
		&cli.StringSliceFlag{Name: "ext", Usage: l10n.T("Video extensions recognized in a directory"), Category: l10n.T(categorySession)},
		&cli.StringFlag{Name: "history-policy", Usage: l10n.T("How pair and single takes are merged (append, replace)"), Category: l10n.T(categorySession)},
		&cli.StringFlag{Name: "ffmpeg", Usage: l10n.T("Path to the ffmpeg executable (falls back to FFMPEG_PATH, then PATH)"), Category: l10n.T(categoryMedia)},
		&cli.IntFlag{Name: "crf", Usage: l10n.T("CRF used when converting to H.264 (0-51)"), Category: l10n.T(categoryMedia)},
		&cli.StringFlag{Name: "temp-dir", Usage: l10n.T("Directory for converted videos (default: system temp)"), Category: l10n.T(categoryMedia)},
		&cli.StringFlag{Name: "preview", Aliases: []string{"p"}, Usage: l10n.T("PNG file mirroring the displayed frame"), Category: l10n.T(categoryOutput)},
		&cli.StringFlag{Name: "font", Usage: l10n.T("TrueType font for the status bar"), Category: l10n.T(categoryOutput)},
		&cli.StringFlag{Name: "snapshot-dir", Usage: l10n.T("Directory for checkpoint snapshots"), Category: l10n.T(categoryOutput)},
		&cli.StringFlag{Name: "summary", Aliases: []string{"s"}, Usage: l10n.T("Write a Markdown summary of the batch to this file"), Category: l10n.T(categoryOutput)},
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Usage: l10n.T("Log level (debug, info, warn, error)"), Category: l10n.T(categoryLogging)},
		&cli.StringFlag{Name: "log-format", Usage: l10n.T("Log format (console, json)"), Category: l10n.T(categoryLogging)},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output and the summary table"), Category: l10n.T(categoryLogging)},
	}
}

func newApp() *cli.App {
	annotateCmd := &cli.Command{
		Name:      "annotate",
		Usage:     l10n.T("Mark checkpoints on every video of a directory or on a single video"),
		ArgsUsage: "PATH",
		Flags:     annotateFlags(),
		Action:    runAnnotate,
	}

	return &cli.App{
		Name:    "vidmark",
		Usage:   l10n.T("Mark frame-accurate checkpoints on videos"),
		Version: version,
		Flags:   annotateFlags(),
		Action:  runAnnotate,
		Commands: []*cli.Command{
			annotateCmd,
			{
				Name:  "keys",
				Usage: l10n.T("Print the active key bindings"),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Aliases: []string{"C"}, Usage: l10n.T("YAML configuration file")},
					&cli.StringFlag{Name: "variant", Aliases: []string{"m"}, Usage: l10n.T("Checkpoint variant (keyed, pair, single)")},
				},
				Action: runKeys,
			},
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, l10n.F("vidmark version %s", version))
					return nil
				},
			},
		},
	}
}

// loadConfig reads the configuration file, when given, and applies the flags set on the
// command line.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if c.IsSet("variant") {
		cfg.Variant = c.String("variant")
	}
	if c.IsSet("tick-ms") {
		cfg.TickMs = c.Int("tick-ms")
	}
	if c.IsSet("ext") {
		cfg.Extensions = normalizeExtensions(c.StringSlice("ext"))
	}
	if c.IsSet("history-policy") {
		cfg.HistoryPolicy = c.String("history-policy")
	}
	if c.IsSet("ffmpeg") {
		cfg.FFmpegPath = c.String("ffmpeg")
	}
	if c.IsSet("crf") {
		cfg.CRF = c.Int("crf")
	}
	if c.IsSet("preview") {
		cfg.PreviewPath = c.String("preview")
	}
	if c.IsSet("font") {
		cfg.FontPath = c.String("font")
	}
	if c.IsSet("snapshot-dir") {
		cfg.SnapshotDir = c.String("snapshot-dir")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.LogFormat = c.String("log-format")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		for _, part := range strings.Split(e, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if !strings.HasPrefix(part, ".") {
				part = "." + part
			}
			out = append(out, part)
		}
	}
	return out
}

func newLogger(cfg config.Config, quiet bool, w io.Writer) ports.Logger {
	if quiet {
		return logger.NewNoop()
	}
	level := ports.ParseLogLevel(cfg.LogLevel)
	if cfg.LogFormat == "json" {
		return logger.NewJSON(level, w)
	}
	return logger.NewConsole(level)
}

func runAnnotate(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New(l10n.T("exactly one PATH is required"))
	}
	input := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	quiet := c.Bool("quiet")
	log := newLogger(cfg, quiet, os.Stderr)

	variant, _ := checkpoint.ParseVariant(cfg.Variant)
	policy, _ := store.ParseHistoryPolicy(cfg.HistoryPolicy)
	keys, err := termsurface.BuildKeymap(variant, cfg.Keymap)
	if err != nil {
		return fmt.Errorf("keymap: %w", err)
	}

	ffmpegPath, err := ffmpeg.FindFFmpeg(cfg.FFmpegPath)
	if err != nil {
		return err
	}
	log.Debug("Using ffmpeg at %s", ffmpegPath)

	// Adapters
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	if cfg.FontPath != "" {
		if renderer, err = ggrenderer.NewWithFont(cfg.FontPath); err != nil {
			return err
		}
	}
	transcoder := ffmpeg.NewTranscoder(ffmpegPath, cfg.CRF, c.String("temp-dir"), log)
	opener := mp4source.NewOpener(ffmpeg.NewStreamDecoder(ffmpegPath, log), log)

	var sink ports.SnapshotSink
	if cfg.SnapshotDir != "" {
		if err := fs.MkdirAll(cfg.SnapshotDir); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
		sink = filesink.New(cfg.SnapshotDir, fs, renderer)
	} else {
		sink = nullsink.New()
	}

	surface := termsurface.New(os.Stdin, os.Stdout, keys, termsurface.Options{
		PreviewPath: cfg.PreviewPath,
		FS:          fs,
		Renderer:    renderer,
	}, log)
	defer surface.Close()

	// Stages
	st := store.New(fs, log, policy)
	orch := orchestrator.New(
		prepare.NewStage(transcoder, log),
		annotate.NewStage(opener, surface, sink, log),
		persist.NewStage(st, fs, log),
		st,
		fs,
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		fmt.Fprintln(c.App.Writer, l10n.T("Type a command and press Enter:"))
		for _, line := range keys.Describe() {
			fmt.Fprintf(c.App.Writer, "  %s\n", line)
		}
	}

	log.Info("Annotating %s (%s variant)", input, variant)
	result, err := orch.Run(ctx, cfg.ToOrchestratorConfig(input))
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		log.Warn("Interrupted, stopping after the current video")
	}

	summary := buildSummary(result)
	if !quiet {
		surface.Close()
		fmt.Fprint(c.App.Writer, summarizer.NewTableFormatter(l10n.T).Format(summary))
	}
	if path := c.String("summary"); path != "" {
		formatter := summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(l10n.T),
			summarizer.WithVersion(version),
		)
		if err := summarizer.NewWriter(formatter, fs).Write(path, summary); err != nil {
			return err
		}
		log.Info("Summary saved to %s", path)
	}
	return nil
}

func runKeys(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	variant, _ := checkpoint.ParseVariant(cfg.Variant)
	keys, err := termsurface.BuildKeymap(variant, cfg.Keymap)
	if err != nil {
		return fmt.Errorf("keymap: %w", err)
	}
	fmt.Fprintln(c.App.Writer, l10n.F("Key bindings (%s variant):", variant))
	for _, line := range keys.Describe() {
		fmt.Fprintf(c.App.Writer, "  %s\n", line)
	}
	return nil
}

func buildSummary(result orchestrator.BatchResult) *summarizer.Summary {
	b := summarizer.NewBuilder().WithBatch(summarizer.BatchInfo{
		Input:    result.Input,
		Variant:  string(result.Variant),
		Found:    result.Total,
		Stopped:  result.Quit && len(result.Videos) < result.Total,
		Duration: result.Duration,
	})
	for _, v := range result.Videos {
		info := summarizer.VideoInfo{
			Name:        v.Video,
			Status:      string(v.Status),
			Transcoded:  v.Transcoded,
			FrameCount:  v.FrameCount,
			Marks:       v.Marks,
			Rejected:    v.Rejected,
			Snapshots:   v.Snapshots,
			SidecarPath: v.SidecarPath,
			SidecarSize: v.SidecarSize,
			Annotations: v.Annotations,
		}
		if v.Err != nil {
			info.Error = v.Err.Error()
		}
		b.AddVideo(info)
	}
	return b.Build()
}
