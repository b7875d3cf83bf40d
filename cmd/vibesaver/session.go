package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/image/font/opentype"

	"github.com/san-kum/vibesaver/internal/assets"
	"github.com/san-kum/vibesaver/internal/automation"
	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/engine"
	"github.com/san-kum/vibesaver/internal/glyph"
	"github.com/san-kum/vibesaver/internal/gui"
	"github.com/san-kum/vibesaver/internal/render"
	"github.com/san-kum/vibesaver/internal/variant"
	"github.com/san-kum/vibesaver/internal/viz"
)

// setupLogging routes engine logs to --log, or to stderr for headless
// commands. Interactive commands own the terminal, so without --log their
// logs are dropped. The returned func closes the log file.
func setupLogging(interactive bool) (func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var w io.Writer = os.Stderr
	closer := func() {}
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		w, closer = f, func() { f.Close() }
	case interactive:
		engine.SetLogger(nil)
		return closer, nil
	}
	engine.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return closer, nil
}

func imageSource(base string) engine.ImageSource {
	dir := assetsDir
	if dir == "" {
		dir = base
	}
	var opts []assets.Option
	if remoteAssets {
		opts = append(opts, assets.WithRemote(nil))
	}
	return assets.NewImages(dir, opts...)
}

// glyphCache loads the --font files, or the wide-coverage system fonts
// when none are given, ahead of the built-in faces. A system font that
// fails to parse is skipped; a --font that fails is an error.
func glyphCache() (*glyph.Cache, error) {
	paths, explicit := fontFiles, true
	if len(paths) == 0 {
		paths, explicit = glyph.SystemFonts(), false
	}
	var fonts []*opentype.Font
	for _, p := range paths {
		f, err := glyph.LoadFont(p)
		if err != nil {
			if explicit {
				return nil, err
			}
			continue
		}
		fonts = append(fonts, f)
	}
	return glyph.NewCache(glyph.WithFonts(fonts...)), nil
}

// newBuilder wires facade to a fresh registry, the asset loader and the
// glyph cache.
func newBuilder(facade render.Facade) (*engine.Builder, error) {
	glyphs, err := glyphCache()
	if err != nil {
		return nil, err
	}
	return engine.NewBuilder(facade, variant.NewRegistry(), imageSource(assetBase()),
		engine.WithSeed(seed), engine.WithGlyphCache(glyphs)), nil
}

// loadVibe resolves --config over --preset over the default vibe and
// passes it through the configuration boundary.
func loadVibe() (*config.Vibe, error) {
	var cfg *config.Vibe
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
	}
	if err := config.Prepare(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func assetBase() string {
	for _, p := range []string{configFile, playlistFile} {
		if p != "" {
			return filepath.Dir(p)
		}
	}
	return "."
}

// newSession builds a scheduler on facade and picks its director: a
// playlist, a rotation over every preset, or a manual cycle that starts on
// the chosen vibe.
func newSession(facade render.Facade) (*engine.Scheduler, viz.Director, error) {
	b, err := newBuilder(facade)
	if err != nil {
		return nil, nil, err
	}
	sched := engine.NewScheduler(b)

	director, err := newDirector(sched)
	if err != nil {
		sched.Stop()
		return nil, nil, err
	}
	return sched, director, nil
}

func newDirector(sched *engine.Scheduler) (viz.Director, error) {
	var pl *automation.Playlist
	var err error
	switch {
	case playlistFile != "":
		pl, err = automation.LoadPlaylist(playlistFile)
	case rotate > 0:
		pl, err = automation.FromPresets(config.ListPresets(), rotate)
	}
	if err != nil {
		return nil, err
	}
	if pl != nil {
		runner := automation.NewRunner(pl, sched, seed)
		if err := runner.Start(); err != nil {
			return nil, err
		}
		return runner, nil
	}

	cfg, err := loadVibe()
	if err != nil {
		return nil, err
	}
	if err := sched.Swap(cfg); err != nil {
		return nil, err
	}
	vibes := []*config.Vibe{cfg}
	for _, id := range config.ListPresets() {
		if id != cfg.ID {
			vibes = append(vibes, config.GetPreset(id))
		}
	}
	return viz.NewCycle(sched, vibes), nil
}

func targetFPS(sched *engine.Scheduler) int {
	if fps > 0 {
		return fps
	}
	if h := sched.Handle(); h != nil {
		return h.Config.Performance.TargetFPS
	}
	return viz.DefaultFPS
}

func runPlay(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(true)
	if err != nil {
		return err
	}
	defer closeLog()

	term := viz.NewTerminal(80, 24)
	sched, director, err := newSession(term)
	if err != nil {
		return err
	}

	p := viz.NewPlayer(sched, term,
		viz.WithDirector(director),
		viz.WithTheme(theme),
		viz.WithFPS(targetFPS(sched)),
	)
	if err := viz.Play(p); err != nil {
		sched.Stop()
		return err
	}
	if err := sched.Stop(); err != nil {
		return err
	}
	return p.Err()
}

func runGUI(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(false)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := gui.DefaultOptions()
	opts.Width, opts.Height = int32(width), int32(height)
	opts.FPS = int32(fps)
	opts.Fullscreen = fullscreen
	return gui.Run(opts, func(f *gui.Facade) (*engine.Scheduler, viz.Director, error) {
		return newSession(f)
	})
}

func runPlaylist(cmd *cobra.Command, args []string) error {
	playlistFile = args[0]
	if dryRun {
		return listPlaylist(playlistFile)
	}
	if useGUI, _ := cmd.Flags().GetBool("gui"); useGUI {
		width, height = 1280, 720
		return runGUI(cmd, nil)
	}
	return runPlay(cmd, nil)
}

func listPlaylist(path string) error {
	pl, err := automation.LoadPlaylist(path)
	if err != nil {
		return err
	}

	fmt.Printf("playlist: %s\n", pl.Name)
	if pl.Description != "" {
		fmt.Printf("%s\n", pl.Description)
	}
	fmt.Printf("loop: %v  shuffle: %v\n\n", pl.Loop, pl.Shuffle)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSOURCE\tVIBE\tGEOMETRY\tDURATION")
	for i, e := range pl.Entries {
		src := e.Preset
		if src == "" {
			src = e.Config
		}
		v := pl.Vibe(i)
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%v\n", i+1, src, v.Name, v.Geometry.Type, e.Duration)
	}
	return w.Flush()
}
