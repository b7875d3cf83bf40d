package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/vibesaver/internal/automation"
	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/viz"
)

var (
	dataDir   string
	logFile   string
	logLevel  string
	fontFiles []string

	preset       string
	configFile   string
	playlistFile string
	rotate       time.Duration
	seed         int64
	fps          int
	theme        string
	assetsDir    string
	remoteAssets bool

	frames     int
	snapFrames int
	width      int
	height     int
	output     string

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	fullscreen bool
	dryRun     bool
)

// main registers the vibesaver commands and runs the root command. With no
// subcommand it plays the default vibe in the terminal.
func main() {
	rootCmd := &cobra.Command{
		Use:          "vibesaver",
		Short:        "procedural 3D screensaver",
		SilenceUsage: true,
		RunE:         runPlay,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".vibesaver", "data directory")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "write engine logs to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSliceVar(&fontFiles, "font", nil, "ttf/otf/ttc files for glyph sprites (default: system fonts)")
	addSceneFlags(rootCmd)

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "play a vibe in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runPlay,
	}
	addSceneFlags(playCmd)
	playCmd.Flags().StringVar(&theme, "theme", "cyberpunk", fmt.Sprintf("status bar theme %v", viz.ThemeNames()))

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "play a vibe in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addSceneFlags(guiCmd)
	guiCmd.Flags().IntVar(&width, "width", 1280, "window width")
	guiCmd.Flags().IntVar(&height, "height", 720, "window height")
	guiCmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "start full screen")

	variantsCmd := &cobra.Command{
		Use:   "variants",
		Short: "list geometry variants",
		Args:  cobra.NoArgs,
		RunE:  listVariants,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in vibes",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}
	presetsCmd.AddCommand(&cobra.Command{
		Use:   "export [preset] [path]",
		Short: "write a preset to a yaml or json file",
		Args:  cobra.ExactArgs(2),
		RunE:  exportPreset,
	})

	validateCmd := &cobra.Command{
		Use:   "validate [file]...",
		Short: "check configuration files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  validateConfigs,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "play a vibe headless and record frame metrics",
		Args:  cobra.NoArgs,
		RunE:  benchVibe,
	}
	addSceneFlags(benchCmd)
	benchCmd.Flags().IntVar(&frames, "frames", 600, "frames to play")
	benchCmd.Flags().StringVar(&sweepParam, "sweep", "", fmt.Sprintf("sweep a parameter (%s, %s)", automation.SweepCount, automation.SweepIntensity))
	benchCmd.Flags().Float64Var(&sweepMin, "min", 0, "sweep start")
	benchCmd.Flags().Float64Var(&sweepMax, "max", 1, "sweep end")
	benchCmd.Flags().IntVar(&sweepSteps, "steps", 5, "sweep points")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	runsCmd.AddCommand(&cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	})
	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&output, "out", "o", "", "output file (default stdout)")
	runsCmd.AddCommand(exportCmd)

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the frame metrics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&output, "svg", "", "write the frame-time series to an SVG file")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "render one frame to SVG or the terminal",
		Args:  cobra.NoArgs,
		RunE:  snapshotVibe,
	}
	addSceneFlags(snapshotCmd)
	snapshotCmd.Flags().IntVar(&snapFrames, "frames", 120, "frames to play before the snapshot")
	snapshotCmd.Flags().IntVar(&width, "width", 1280, "image width (terminal columns with --terminal)")
	snapshotCmd.Flags().IntVar(&height, "height", 720, "image height (terminal rows with --terminal)")
	snapshotCmd.Flags().StringVarP(&output, "out", "o", "", "output SVG file")
	snapshotCmd.Flags().Bool("terminal", false, "render through the terminal backend")

	playlistCmd := &cobra.Command{
		Use:   "playlist [file]",
		Short: "play a yaml playlist",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlaylist,
	}
	playlistCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	playlistCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "status bar theme")
	playlistCmd.Flags().StringVar(&assetsDir, "assets", "", "directory for relative image paths")
	playlistCmd.Flags().BoolVar(&remoteAssets, "remote-assets", false, "allow http(s) image urls")
	playlistCmd.Flags().Bool("gui", false, "play in a window")
	playlistCmd.Flags().BoolVar(&dryRun, "dry-run", false, "list the entries and exit")

	rootCmd.AddCommand(playCmd, guiCmd, variantsCmd, presetsCmd, validateCmd, benchCmd, runsCmd, plotCmd, snapshotCmd, playlistCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", fmt.Sprintf("built-in vibe %v", config.ListPresets()))
	cmd.Flags().StringVar(&configFile, "config", "", "configuration file (yaml or json)")
	cmd.Flags().StringVar(&playlistFile, "playlist", "", "playlist file")
	cmd.Flags().DurationVar(&rotate, "rotate", 0, "cycle every preset, each for this long")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&fps, "fps", 0, "frame rate (default from the vibe)")
	cmd.Flags().StringVar(&assetsDir, "assets", "", "directory for relative image paths")
	cmd.Flags().BoolVar(&remoteAssets, "remote-assets", false, "allow http(s) image urls")
}
