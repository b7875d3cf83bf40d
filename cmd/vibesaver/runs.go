package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/vibesaver/internal/automation"
	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/engine"
	"github.com/san-kum/vibesaver/internal/export"
	"github.com/san-kum/vibesaver/internal/metrics"
	"github.com/san-kum/vibesaver/internal/render"
	"github.com/san-kum/vibesaver/internal/render/memory"
	"github.com/san-kum/vibesaver/internal/storage"
	"github.com/san-kum/vibesaver/internal/variant"
	"github.com/san-kum/vibesaver/internal/viz"
)

func benchVibe(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(false)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadVibe()
	if err != nil {
		return err
	}
	if sweepParam != "" {
		return benchSweep(cmd.Context(), cfg)
	}

	b, err := newBuilder(memory.New())
	if err != nil {
		return err
	}
	sched := engine.NewScheduler(b)
	defer sched.Stop()

	observers := metrics.Standard()
	rec := metrics.NewRecorder(frames)
	for _, o := range observers {
		sched.AddObserver(o)
	}
	sched.AddObserver(rec)

	if err := sched.Swap(cfg); err != nil {
		return err
	}
	tag := sched.Handle().Tag

	fmt.Printf("benchmarking %s (%s)\n\n", cfg.Name, tag)
	start := time.Now()
	n := sched.RunFrames(frames)
	elapsed := time.Since(start)

	values := make(map[string]float64, len(observers))
	for _, o := range observers {
		values[o.Name()] = o.Value()
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, tag, seed, rec.Samples(), values)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FRAMES\tTIME\tFRAMES/SEC")
	fmt.Fprintf(w, "%d\t%v\t%.0f\n", n, elapsed.Round(time.Millisecond), float64(n)/elapsed.Seconds())
	w.Flush()
	fmt.Println()
	printMetrics(values)
	fmt.Printf("\nrun saved: %s\n", runID)
	return nil
}

func benchSweep(ctx context.Context, cfg *config.Vibe) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	sw := &automation.Sweep{
		Base:   cfg,
		Param:  sweepParam,
		Min:    sweepMin,
		Max:    sweepMax,
		Steps:  sweepSteps,
		Frames: frames,
		Seed:   seed,
	}
	fmt.Printf("sweeping %s over %s [%g, %g]\n\n", cfg.Name, sweepParam, sweepMin, sweepMax)
	results, err := automation.RunSweep(ctx, sw, variant.NewRegistry(), func() render.Facade { return memory.New() })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tENTITIES\tFRAME MS\tPEAK NODES\tDEGRADED\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%d\t%.3f\t%.0f\t%.0f\n", r.Value, r.Entities, r.MeanFrameMs, r.PeakNodes, r.Degraded)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func printMetrics(values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.4f\n", name, values[name])
	}
	w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVIBE\tVARIANT\tTIME\tFRAMES\tCOUNT\tFRAME MS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%.3f\n",
			run.ID,
			run.Vibe,
			run.Variant,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Count,
			run.Metrics["frame_time_ms"],
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	cfg, err := st.LoadVibe(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run:       %s\n", meta.ID)
	fmt.Printf("vibe:      %s\n", meta.Vibe)
	fmt.Printf("geometry:  %s (played %s)\n", meta.Geometry, meta.Variant)
	fmt.Printf("recorded:  %s\n", meta.Timestamp.Format(time.RFC3339))
	fmt.Printf("seed:      %d\n", meta.Seed)
	fmt.Printf("frames:    %d\n", meta.Frames)
	fmt.Printf("count:     %d\n", meta.Count)
	fmt.Printf("intensity: %.2f\n", meta.Intensity)
	fmt.Printf("palette:   %v\n", cfg.Palette)
	fmt.Printf("pattern:   %s\n\n", cfg.Motion.Pattern)
	printMetrics(meta.Metrics)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := storage.ExportJSON(w, *meta, samples); err != nil {
		return err
	}
	if output != "" {
		fmt.Printf("exported %d frames to %s\n", len(samples), output)
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	times := make([]float64, len(samples))
	entities := make([]float64, len(samples))
	nodes := make([]float64, len(samples))
	for i, s := range samples {
		times[i] = float64(s.Elapsed.Microseconds()) / 1000
		entities[i] = float64(s.Entities)
		nodes[i] = float64(s.Nodes)
	}

	if output != "" {
		svg := export.SeriesToSVG(times, 800, 300, "#2cb67d")
		if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", output)
		return nil
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("vibe: %s (%s)\n", meta.Vibe, meta.Variant)
	fmt.Printf("frames: %d\n\n", len(samples))

	series := []struct {
		data    []float64
		caption string
	}{
		{times, "frame time (ms)"},
		{entities, "entities"},
		{nodes, "live nodes"},
	}
	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func snapshotVibe(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(false)
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadVibe()
	if err != nil {
		return err
	}

	onTerminal, _ := cmd.Flags().GetBool("terminal")
	var facade render.Facade
	var term *viz.Terminal
	if onTerminal {
		cols, rows := width, height
		if !cmd.Flags().Changed("width") {
			cols = 100
		}
		if !cmd.Flags().Changed("height") {
			rows = 30
		}
		term = viz.NewTerminal(cols, rows)
		facade = term
	} else {
		facade = memory.New()
	}

	b, err := newBuilder(facade)
	if err != nil {
		return err
	}
	sched := engine.NewScheduler(b)
	defer sched.Stop()
	if err := sched.Swap(cfg); err != nil {
		return err
	}
	sched.RunFrames(snapFrames)

	var svg string
	if term != nil {
		fmt.Println(term.Frame())
		svg = export.CanvasToSVG(term.Canvas(), 4)
	} else {
		points := render.Project(facade.Scene(), facade.Camera(), width, height)
		svg = export.FrameToSVG(points, facade.Background(), width, height)
		fmt.Printf("%s: %d points after %d frames\n", cfg.Name, len(points), sched.Frame())
	}

	if output == "" {
		return nil
	}
	if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", output)
	return nil
}
