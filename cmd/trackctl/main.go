package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/trackctl/internal/config"
	"github.com/san-kum/trackctl/internal/control"
	"github.com/san-kum/trackctl/internal/metrics"
	"github.com/san-kum/trackctl/internal/replay"
	"github.com/san-kum/trackctl/internal/storage"
	"github.com/san-kum/trackctl/internal/tracking"
	"github.com/san-kum/trackctl/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	runName    string
	window     int
	kp         float64
	ki         float64
	kd         float64
	speed      float64
	dt         float64
	fromSpeed  float64
	toSpeed    float64
	stepSpeed  float64
	withTicks  bool
	showMap    bool
	svgFile    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "trackctl",
		Short:         "waypoint tracking controller (pid + lqr)",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every control tick")

	runCmd := &cobra.Command{
		Use:   "run [states.csv] [waypoints.csv]",
		Short: "replay a state log through the controller and store the run",
		Args:  cobra.ExactArgs(2),
		RunE:  runReplay,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().StringVar(&runName, "name", "replay", "run name")
	runCmd.Flags().IntVar(&window, "window", config.DefaultWindow, "waypoints passed per tick (0 = whole path)")
	runCmd.Flags().Float64Var(&kp, "kp", control.DefaultKp, "pid kp")
	runCmd.Flags().Float64Var(&ki, "ki", control.DefaultKi, "pid ki")
	runCmd.Flags().Float64Var(&kd, "kd", control.DefaultKd, "pid kd")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot throttle, steer and cross-track error",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().BoolVar(&showMap, "map", false, "also draw a top-down map of path and trajectory")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().BoolVar(&withTicks, "ticks", false, "include per-tick series")
	exportCmd.Flags().StringVar(&svgFile, "svg", "", "write a path/trajectory svg instead of json")

	gainsCmd := &cobra.Command{
		Use:   "gains",
		Short: "solve the lateral lqr at one speed",
		Args:  cobra.NoArgs,
		RunE:  showGains,
	}
	gainsCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	gainsCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	gainsCmd.Flags().Float64Var(&speed, "speed", 5.0, "vehicle speed")
	gainsCmd.Flags().Float64Var(&dt, "dt", control.DefaultFallbackDt, "control period")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compute a speed-indexed gain schedule",
		Args:  cobra.NoArgs,
		RunE:  sweepGains,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	sweepCmd.Flags().Float64Var(&fromSpeed, "from", 0.0, "lowest speed")
	sweepCmd.Flags().Float64Var(&toSpeed, "to", 30.0, "highest speed")
	sweepCmd.Flags().Float64Var(&stepSpeed, "step", 2.5, "speed step")
	sweepCmd.Flags().Float64Var(&dt, "dt", control.DefaultFallbackDt, "control period")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				params := config.GetPreset(name).GetControllerParams()
				fmt.Printf("  %-12s %s\n", name, viz.Subtle.Render(formatParams(params)))
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [config.yaml]",
		Short: "write a config file from defaults or a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, gainsCmd, sweepCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, viz.StatusFail.Render("error:"), err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig starts from defaults or a preset and applies the config file
// on top.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	return cfg, nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// CLI flags override config
	flags := cmd.Flags()
	if flags.Changed("window") {
		cfg.Replay.Window = window
	}
	if !flags.Changed("data") && cfg.Replay.DataDir != "" {
		dataDir = cfg.Replay.DataDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	states, err := replay.LoadStates(args[0])
	if err != nil {
		return err
	}
	path, err := replay.LoadPath(args[1])
	if err != nil {
		return err
	}

	ctrl, err := tracking.New(cfg.Controller, tracking.WithLogger(newLogger()))
	if err != nil {
		return err
	}

	// gain flags are applied to the live PID, then recorded in the run config
	gains := map[string]float64{}
	for _, o := range []struct {
		flag, param string
		value       float64
	}{{"kp", "Kp", kp}, {"ki", "Ki", ki}, {"kd", "Kd", kd}} {
		if flags.Changed(o.flag) {
			gains[o.param] = o.value
		}
	}
	if err := control.ApplyParams(ctrl.PID(), gains); err != nil {
		return err
	}
	applied := ctrl.PID().GetParams()
	cfg.Controller.PID.Kp, cfg.Controller.PID.Ki, cfg.Controller.PID.Kd = applied["Kp"], applied["Ki"], applied["Kd"]

	runner := replay.New(ctrl, path, cfg.Replay.Window)
	for _, m := range metrics.Default() {
		runner.AddMetric(m)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("replaying %d states over %d waypoints...\n", len(states), len(path))
	start := time.Now()

	result, runErr := runner.Run(ctx, states)
	if runErr != nil && (result == nil || len(result.Ticks) == 0) {
		return runErr
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "%s after %d of %d ticks: %v\n",
			viz.StatusWarn.Render("interrupted"), len(result.Ticks), len(states), runErr)
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Name:       runName,
		StatesFile: args[0],
		PathFile:   args[1],
		Window:     cfg.Replay.Window,
		Controller: cfg.Controller,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", len(result.Ticks))
	if n := result.Faults(); n > 0 {
		fmt.Printf("faults: %s\n", viz.StatusWarn.Render(fmt.Sprint(n)))
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return runErr
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tTICKS\tFAULTS\tWINDOW\tCTE_RMS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.4f\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Faults,
			run.Window,
			run.Metrics["cross_track_rms"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	ticks, err := st.LoadTicks(runID)
	if err != nil {
		return err
	}

	if len(ticks) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(ticks))

	captions := map[string]string{
		"throttle":    "throttle [0, 1]",
		"steer":       "steer [-1, 1]",
		"cross_track": "cross-track error (m)",
	}
	for _, name := range []string{"throttle", "steer", "cross_track"} {
		data, err := storage.Column(ticks, name)
		if err != nil {
			return err
		}
		fmt.Println(viz.Chart(data, captions[name], viz.DefaultChartWidth, viz.DefaultChartHeight))
		fmt.Println()
	}

	if showMap {
		route, traj := trackPoints(meta, ticks)
		fmt.Println(viz.HeaderStyle.Render("track"))
		fmt.Print(viz.TrackMap(route, traj, viz.DefaultChartWidth/2, viz.DefaultChartHeight*2))
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	if svgFile != "" {
		ticks, err := st.LoadTicks(runID)
		if err != nil {
			return err
		}
		route, traj := trackPoints(meta, ticks)
		out := viz.TrackSVG(route, traj, 800, 600)
		if out == "" {
			return fmt.Errorf("not enough points to draw %s", runID)
		}
		if err := os.WriteFile(svgFile, []byte(out), 0644); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", svgFile)
		return nil
	}

	if withTicks {
		ticks, err := st.LoadTicks(runID)
		if err != nil {
			return err
		}
		return storage.ExportJSON(os.Stdout, meta, ticks)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// trackPoints returns the stored run's waypoints and driven positions. A
// missing waypoint file only drops the route.
func trackPoints(meta *storage.RunMetadata, ticks []storage.TickRecord) ([]viz.Point, []viz.Point) {
	traj := make([]viz.Point, len(ticks))
	for i, t := range ticks {
		traj[i] = viz.Point{X: t.X, Y: t.Y}
	}

	path, err := replay.LoadPath(meta.PathFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "waypoints unavailable: %v\n", err)
		return nil, traj
	}
	route := make([]viz.Point, len(path))
	for i, wp := range path {
		route[i] = viz.Point{X: wp.X, Y: wp.Y}
	}
	return route, traj
}

func showGains(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", dt)
	}

	sol, err := tracking.SolveLateral(cfg.Controller, speed, dt)
	if err != nil {
		return err
	}

	rho := sol.SpectralRadius()
	rows := []viz.Row{
		{Label: "speed", Value: fmt.Sprintf("%.2f", speed)},
		{Label: "dt", Value: fmt.Sprintf("%.4f", dt)},
		{Label: "K", Value: viz.FormatVector(sol.K.RawRowView(0))},
		{Label: "iterations", Value: fmt.Sprintf("%d / %d", sol.Iterations, cfg.Controller.DARE.MaxIterations)},
		{Label: "delta", Value: fmt.Sprintf("%.3e", sol.Delta)},
		{Label: "eigenvalues", Value: viz.FormatComplex(sol.Eigenvalues)},
		{Label: "spectral radius", Value: fmt.Sprintf("%.4f", rho)},
		{Label: "status", Value: viz.Status(sol.Converged, rho >= 0 && rho < 1)},
	}
	fmt.Println(viz.Panel("lateral lqr", rows))
	return nil
}

func sweepGains(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", dt)
	}

	schedule := tracking.GainSchedule(cfg.Controller, dt, tracking.SpeedRange(fromSpeed, toSpeed, stepSpeed))

	fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("gain schedule (dt=%.4f)", dt)))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPEED\tK\tITER\tCONVERGED\tRHO")
	for _, p := range schedule {
		if p.Err != nil {
			fmt.Fprintf(w, "%.2f\t-\t-\t-\t%v\n", p.Speed, p.Err)
			continue
		}
		fmt.Fprintf(w, "%.2f\t%s\t%d\t%t\t%.4f\n",
			p.Speed,
			viz.FormatVector(p.Solution.K.RawRowView(0)),
			p.Solution.Iterations,
			p.Solution.Converged,
			p.Solution.SpectralRadius(),
		)
	}
	return w.Flush()
}

func formatParams(params map[string]float64) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, params[k])
	}
	return strings.Join(parts, " ")
}
