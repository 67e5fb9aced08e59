package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/desktop"
	"github.com/pthm-cable/nebula/game"
	"github.com/pthm-cable/nebula/renderer"
	"github.com/pthm-cable/nebula/ui"
)

// wallpaperRefreshFrames is how often wallpaper mode re-reads the root window size.
const wallpaperRefreshFrames = 120

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without a window on a fixed-step clock")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	wallpaper := flag.Bool("wallpaper", false, "Size an undecorated window to the X11 root window")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(*logLevel)}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:      rngSeed,
		Headless:  *headless,
		OutputDir: *outputDir,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *headless {
		if err := runHeadless(ctx, cfg, opts, *maxFrames); err != nil {
			stop()
			os.Exit(1)
		}
		return
	}
	runWindowed(ctx, cfg, opts, *maxFrames, *wallpaper)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// runHeadless drives the engine without raylib. Labels and progress go to slog.
func runHeadless(ctx context.Context, cfg *config.Config, opts game.Options, maxFrames int) error {
	progress := game.ProgressFunc(func(pct int) {
		slog.Debug("progress", "pct", pct)
	})
	g := game.NewGame(cfg, opts, nil, nil, progress)
	defer g.Unload()

	if err := g.Boot(ctx); err != nil {
		return err
	}

	slog.Info("starting headless run",
		"seed", opts.Seed,
		"particles", cfg.Particles.Count,
		"max_frames", maxFrames,
	)

	for ctx.Err() == nil {
		g.Update()
		g.Draw(nil)

		if maxFrames > 0 && g.Frame() >= int64(maxFrames) {
			slog.Info("max frames reached", "frame", g.Frame(), "t", g.Now())
			break
		}
	}
	return nil
}

func runWindowed(ctx context.Context, cfg *config.Config, opts game.Options, maxFrames int, wallpaper bool) {
	rl.SetTraceLogCallback(raylibLog)

	width, height := cfg.Screen.Width, cfg.Screen.Height
	flags := uint32(rl.FlagWindowResizable | rl.FlagMsaa4xHint | rl.FlagVsyncHint)

	var display *desktop.Display
	if wallpaper {
		d, err := desktop.Open()
		if err != nil {
			slog.Error("wallpaper mode unavailable", "error", err)
			os.Exit(1)
		}
		defer d.Close()
		display = d
		width, height = d.Size()
		flags = rl.FlagWindowUndecorated | rl.FlagMsaa4xHint | rl.FlagVsyncHint
	}

	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(width), int32(height), cfg.Screen.Title)
	defer rl.CloseWindow()
	if wallpaper {
		rl.SetWindowPosition(0, 0)
	}
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	theme := ui.DefaultTheme()
	overlay := ui.NewOverlay(theme, int32(width), int32(height))
	loading := ui.NewLoading(theme, cfg.Derived.FadeDelay, cfg.Derived.FadeDuration, int32(width), int32(height))
	scene := renderer.NewScene(cfg)
	background := scene.ClearColor()

	// Boot runs on the main thread (raylib owns the GL context there),
	// so every progress step presents a frame with the indicator.
	progress := game.ProgressFunc(func(pct int) {
		loading.SetProgress(pct)
		rl.BeginDrawing()
		rl.ClearBackground(background)
		loading.Draw(rl.GetTime())
		rl.EndDrawing()
	})

	opts.Width, opts.Height = width, height
	g := game.NewGame(cfg, opts, scene, overlay, progress)
	defer g.Unload()

	if err := g.Boot(ctx); err != nil {
		slog.Error("visualization disabled", "error", err)
	}

	drawUI := func() {
		overlay.Draw()
		loading.Draw(rl.GetTime())
	}

	frames := 0
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		handleInput(g, display)
		handleResize(g, overlay, loading)
		if display != nil && frames%wallpaperRefreshFrames == 0 {
			followRootWindow(display)
		}

		if g.Ready() {
			g.Update()
			g.Draw(drawUI)
		} else {
			// Boot failed: keep an empty, responsive window
			rl.BeginDrawing()
			rl.ClearBackground(background)
			rl.EndDrawing()
		}

		frames++
		if maxFrames > 0 && frames >= maxFrames {
			slog.Info("max frames reached", "frame", frames)
			break
		}
	}
}

// handleInput maps a click or Space to a manual morph request.
func handleInput(g *game.Game, display *desktop.Display) {
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) || rl.IsKeyPressed(rl.KeySpace) {
		g.RequestMorph()
	}
	if display != nil {
		clicked, err := display.Clicked()
		if err != nil {
			slog.Warn("pointer query failed", "error", err)
		} else if clicked {
			g.RequestMorph()
		}
	}
}

// handleResize checks for window resize and propagates new dimensions.
func handleResize(g *game.Game, overlay *ui.Overlay, loading *ui.Loading) {
	if !rl.IsWindowResized() {
		return
	}
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	overlay.Resize(int32(w), int32(h))
	loading.Resize(int32(w), int32(h))
	if err := g.Resize(w, h); err != nil {
		slog.Error("resize failed", "error", err)
	}
}

// followRootWindow keeps a wallpaper window matched to the desktop size.
func followRootWindow(display *desktop.Display) {
	if err := display.Refresh(); err != nil {
		slog.Warn("root window query failed", "error", err)
		return
	}
	w, h := display.Size()
	if w != rl.GetScreenWidth() || h != rl.GetScreenHeight() {
		rl.SetWindowSize(w, h)
	}
}

// raylibLog routes raylib's trace log into slog.
func raylibLog(level int, text string) {
	switch level {
	case int(rl.LogTrace), int(rl.LogDebug):
		slog.Debug(text, "source", "raylib")
	case int(rl.LogInfo):
		slog.Info(text, "source", "raylib")
	case int(rl.LogWarning):
		slog.Warn(text, "source", "raylib")
	case int(rl.LogError), int(rl.LogFatal):
		slog.Error(text, "source", "raylib")
	}
}
