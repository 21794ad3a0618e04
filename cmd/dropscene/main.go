package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/dropscene/internal/config"
	"github.com/san-kum/dropscene/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	dataDir    string
	logLevel   string
	pretty     bool
	configFile string
	preset     string
	progress   bool
	trajectory bool
	metricList []string
	runs       int
	seedStart  int64
	view       string
	svgOut     string
	cols       int
	rows       int

	log = logging.New(os.Stderr, "info", false)
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "dropscene",
		Short:         "bouncing-sphere scene generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = logging.New(os.Stderr, logLevel, pretty)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dropscene", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "human readable logs")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "simulate and write one scene document per frame",
		Long:  "Simulate and write one scene document per frame.\n\n" + envHelp(),
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	addSceneFlags(generateCmd.Flags())
	generateCmd.Flags().BoolVar(&progress, "progress", false, "show a progress view")
	generateCmd.Flags().BoolVar(&trajectory, "trajectory", true, "record trajectory.csv beside the frames")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "generate several seeds in parallel",
		Long:  "Generate several seeds in parallel, one seed_<seed> directory each.\n\n" + envHelp(),
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSceneFlags(sweepCmd.Flags())
	sweepCmd.Flags().IntVar(&runs, "runs", 4, "number of seeds")
	sweepCmd.Flags().Int64Var(&seedStart, "seed-start", 1, "first seed")
	sweepCmd.Flags().BoolVar(&trajectory, "trajectory", true, "record trajectory.csv beside the frames")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot body heights of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the plot as svg")

	previewCmd := &cobra.Command{
		Use:   "preview [frame.json]",
		Short: "draw a frame document in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  previewFrame,
	}
	previewCmd.Flags().StringVar(&view, "view", "side", "view (side, top, camera)")
	previewCmd.Flags().StringVar(&svgOut, "svg", "", "write the frame as svg instead")
	previewCmd.Flags().IntVar(&cols, "cols", 80, "terminal columns")
	previewCmd.Flags().IntVar(&rows, "rows", 24, "terminal rows")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-10s %5.1fs  g=%-5.2f every %d frames\n", name, p.Duration, p.Gravity, p.SpawnInterval)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "dropscene.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			if err := config.Save(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(generateCmd, sweepCmd, listCmd, showCmd, plotCmd, previewCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// addSceneFlags registers one flag per config override key. The defaults
// are for help output only; unchanged flags never override a preset or file.
func addSceneFlags(fs *pflag.FlagSet) {
	d := config.DefaultConfig()

	fs.StringVar(&configFile, "config", "", "config file path (yaml)")
	fs.StringVar(&preset, "preset", "", "use preset configuration")
	fs.StringSliceVar(&metricList, "metrics", nil, "metrics to collect (default all)")

	fs.Int("fps", d.FPS, "frames per second")
	fs.Float64("duration", d.Duration, "animation length in seconds")
	fs.Float64("initial-height", d.InitialHeight, "spawn height")
	fs.Float64("spawn-z", d.SpawnZ, "spawn depth")
	fs.Float64("gravity", d.Gravity, "gravitational acceleration")
	fs.Float64("radius", d.Radius, "sphere radius")
	fs.Float64("ground-level", d.GroundLevel, "ground plane height")
	fs.Float64("restitution", d.Restitution, "bounce restitution")
	fs.Float64("horizontal-speed", d.HorizontalSpeed, "speed after the first bounce")
	fs.Int("spawn-interval", d.SpawnInterval, "frames between spawns")
	fs.Float64("camera-radius", d.CameraRadius, "camera orbit radius")
	fs.StringP("output", "o", d.OutputDir, "frame output directory")
	fs.Int64("seed", d.Seed, "random seed (0 for time based)")
	fs.Int("width", d.Render.Width, "image width")
	fs.Int("height", d.Render.Height, "image height")
}

// envHelp lists the environment variables read by loadConfig.
func envHelp() string {
	var b strings.Builder
	b.WriteString("Environment overrides (flags win):\n")
	for _, key := range config.OverrideKeys() {
		fmt.Fprintf(&b, "  %s\n", config.EnvName(key))
	}
	return b.String()
}

// loadConfig resolves defaults, preset, config file, environment and flags
// in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := config.ApplyOverrides(cfg, config.NewEnv(), cmd.Flags()); err != nil {
		return nil, err
	}
	return cfg, nil
}
