package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dropscene/internal/export"
	"github.com/san-kum/dropscene/internal/storage"
	"github.com/san-kum/dropscene/internal/viz"
	"github.com/spf13/cobra"
)

// maxPlotted caps the number of series drawn by plot.
const maxPlotted = 8

func listRuns(cmd *cobra.Command, args []string) error {
	cat, err := storage.OpenCatalog(dataDir)
	if err != nil {
		return err
	}
	defer cat.Close()

	runs, err := cat.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSEED\tFPS\tDURATION\tFRAMES\tBODIES\tOUTPUT")

	for _, run := range runs {
		p := run.Preset
		if p == "" {
			p = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.2fs\t%d\t%d\t%s\n",
			run.ID,
			p,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.FPS,
			run.Duration,
			run.Frames,
			run.Bodies,
			run.OutputDir,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	cat, err := storage.OpenCatalog(dataDir)
	if err != nil {
		return err
	}
	defer cat.Close()

	run, err := cat.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

func plotRun(cmd *cobra.Command, args []string) error {
	cat, err := storage.OpenCatalog(dataDir)
	if err != nil {
		return err
	}
	defer cat.Close()

	run, err := cat.Load(args[0])
	if err != nil {
		return err
	}

	traj, err := storage.LoadTrajectory(filepath.Join(run.OutputDir, storage.TrajectoryFile))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("run %s has no trajectory; generate with --trajectory", run.ID)
	}
	if err != nil {
		return err
	}

	ids := storage.BodyIDs(traj)
	if len(ids) == 0 {
		return fmt.Errorf("no data to plot")
	}
	if len(ids) > maxPlotted {
		ids = ids[:maxPlotted]
	}

	fmt.Printf("run: %s\n", run.ID)
	fmt.Printf("frames: %d\n", run.Frames)
	fmt.Printf("bodies: %d (plotting %d)\n\n", run.Bodies, len(ids))

	series := make([][]float64, 0, len(ids))
	for _, id := range ids {
		series = append(series, storage.Heights(traj[id], run.Frames))
	}

	colors := []asciigraph.AnsiColor{
		asciigraph.Cyan, asciigraph.Magenta, asciigraph.Green, asciigraph.Yellow,
		asciigraph.Blue, asciigraph.Red, asciigraph.White, asciigraph.Gray,
	}

	graph := asciigraph.PlotMany(series,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.LowerBound(math.Floor(minHeight(series))),
		asciigraph.SeriesColors(colors[:len(series)]...),
		asciigraph.Caption("body height vs frame"),
	)
	fmt.Println(graph)

	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(export.TrajectorySVG(traj, 800, 400)), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", svgOut)
	}
	return nil
}

func previewFrame(cmd *cobra.Command, args []string) error {
	v, err := viz.ParseView(view)
	if err != nil {
		return err
	}

	doc, err := storage.LoadFrame(args[0])
	if err != nil {
		return err
	}

	if svgOut != "" {
		w, h := doc.Camera.Width, doc.Camera.Height
		if w <= 0 || h <= 0 {
			w, h = 1200, 800
		}
		if err := os.WriteFile(svgOut, []byte(export.FrameSVG(doc, v, w, h)), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
		return nil
	}

	fmt.Printf("%s (%s view, %d spheres)\n", filepath.Base(args[0]), v, len(doc.Spheres()))
	fmt.Print(viz.Preview(doc, v, cols, rows))
	return nil
}

func minHeight(series [][]float64) float64 {
	lo := math.Inf(1)
	for _, s := range series {
		for _, v := range s {
			if !math.IsNaN(v) && v < lo {
				lo = v
			}
		}
	}
	if math.IsInf(lo, 1) {
		return 0
	}
	return lo
}
