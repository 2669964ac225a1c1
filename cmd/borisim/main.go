package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/borisim/internal/boris"
	"github.com/san-kum/borisim/internal/config"
	"github.com/san-kum/borisim/internal/metrics"
	"github.com/san-kum/borisim/internal/sim"
	"github.com/san-kum/borisim/internal/storage"
	"github.com/san-kum/borisim/internal/vec"
	"github.com/san-kum/borisim/internal/viz"
)

var (
	preset    string
	steps     int
	dt        float64
	every     int
	save      bool
	plot      bool
	plane     string
	output    string
	frameRate int
)

// main registers the commands and flags and executes the root command.
// It exits with status 1 if the command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "borisim",
		Short:        "relativistic charged particle pusher",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initSettings(cmd)
		},
	}

	rootCmd.PersistentFlags().String("data", ".borisim", "data directory (env BORISIM_DATA)")
	rootCmd.PersistentFlags().String("settings", "", "settings file (yaml)")

	runCmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "run a scenario file or preset",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().IntVar(&every, "every", 0, "record every n-th step (0 keeps scenario value)")
	runCmd.Flags().BoolVar(&save, "save", true, "save the run to the data directory")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot the trajectory after the run")
	runCmd.Flags().StringVar(&plane, "plane", "xy", "projection plane for --plot")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plane, "plane", "xy", "projection plane (xy, xz, yz)")

	exportCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a saved run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	fieldCmd := &cobra.Command{
		Use:   "field x y z [scenario.yaml]",
		Short: "sample the electric and magnetic field at a point",
		Args:  cobra.RangeArgs(3, 4),
		RunE:  sampleField,
	}
	fieldCmd.Flags().StringVar(&preset, "preset", "", "use a built-in scenario")

	liveCmd := &cobra.Command{
		Use:   "live [scenario.yaml]",
		Short: "run with a live terminal view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	rootCmd.AddCommand(runCmd, presetsCmd, listCmd, plotCmd, exportCmd, fieldCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use a built-in scenario")
	cmd.Flags().IntVar(&steps, "steps", 0, "number of steps (0 keeps scenario value)")
	cmd.Flags().Float64Var(&dt, "dt", 0, "timestep (0 keeps scenario value)")
}

// initSettings binds flags, BORISIM_* environment variables and an
// optional settings file through viper.
func initSettings(cmd *cobra.Command) error {
	viper.SetEnvPrefix("borisim")
	viper.AutomaticEnv()
	if err := viper.BindPFlag("data", cmd.Flags().Lookup("data")); err != nil {
		return err
	}
	if path, _ := cmd.Flags().GetString("settings"); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read settings: %w", err)
		}
	}
	return nil
}

func dataDir() string {
	return viper.GetString("data")
}

// loadScenario resolves the scenario from a file argument or --preset and
// applies --steps/--dt overrides.
func loadScenario(args []string) (*config.Scenario, error) {
	var (
		s   *config.Scenario
		err error
	)
	switch {
	case len(args) > 0:
		s, err = config.Load(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario: %w", err)
		}
	case preset != "":
		s, err = config.GetPreset(preset)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("need a scenario file or --preset (available: %s)", strings.Join(config.ListPresets(), ", "))
	}

	if steps > 0 {
		s.Steps = steps
	}
	if dt > 0 {
		s.Dt = dt
	}
	if every > 0 {
		s.Every = every
	}
	return s, s.Validate()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := loadScenario(args)
	if err != nil {
		return err
	}

	solver, err := scenario.Solver()
	if err != nil {
		return err
	}

	simulator := sim.New(solver)
	gyro := metrics.NewGyroradius(solver.BField(solver.XAfter()))
	gamma := metrics.NewGammaStats()
	for _, m := range []sim.Metric{
		metrics.NewSpeedDrift(),
		metrics.NewKineticEnergy(scenario.C()),
		metrics.NewDisplacement(),
		gyro,
		gamma,
	} {
		simulator.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(viz.TitleStyle.Render(fmt.Sprintf("running %s (%d steps, dt=%g)", scenario.Name, scenario.Steps, scenario.Dt)))
	start := time.Now()

	result, runErr := simulator.Run(ctx, sim.Config{Steps: scenario.Steps, Every: scenario.Every, ValidateState: true})
	if result == nil {
		return runErr
	}
	if runErr != nil {
		fmt.Println(viz.ErrorStyle.Render("stopped: " + runErr.Error()))
	}

	fmt.Printf("completed %d steps in %v\n", result.StepsTaken, time.Since(start))
	if last, ok := result.Last(); ok {
		fmt.Println(viz.TextLine("final position", last.Position.String()))
		fmt.Println(viz.TextLine("final velocity", last.Velocity.String()))
	}
	fmt.Println()
	fmt.Println(viz.HeaderStyle.Render("metrics"))
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Println(viz.MetricLine(name, result.Metrics[name]))
	}
	fmt.Println(viz.MetricLine("gamma_stddev", gamma.StdDev()))

	if save {
		st := storage.New(dataDir())
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(runMetadata(scenario), result)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(viz.TextLine("run id", runID))
	}

	if plot {
		p, err := viz.ParsePlane(plane)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Print(viz.PlotPath(result.Samples, p, 60, 20))
	}

	return runErr
}

func runMetadata(s *config.Scenario) storage.RunMetadata {
	meta := storage.RunMetadata{
		Scenario:     s.Name,
		Charge:       s.Charge,
		Mass:         s.Mass,
		Dt:           s.Dt,
		Steps:        s.Steps,
		SpeedOfLight: s.C(),
	}
	e, b, err := s.Fields()
	if err != nil {
		return meta
	}
	for _, src := range e.Sources() {
		meta.Electric = append(meta.Electric, src.String())
	}
	for _, src := range b.Sources() {
		meta.Magnetic = append(meta.Magnetic, src.String())
	}
	return meta
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTEPS\tDT\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%d\t%g\t%s\n", name, p.Steps, p.Dt, p.Description)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir())
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tSTEPS\tDT\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%g\t%s\n", r.ID, r.Scenario, r.Steps, r.Dt, r.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	p, err := viz.ParsePlane(plane)
	if err != nil {
		return err
	}

	st := storage.New(dataDir())
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("run %s has no samples", args[0])
	}

	fmt.Println(viz.TitleStyle.Render(fmt.Sprintf("%s (%s plane)", meta.Scenario, p)))
	fmt.Print(viz.PlotPath(samples, p, 60, 20))
	fmt.Println()
	fmt.Println(viz.PlotComponents(samples, 80, 10))
	fmt.Println(viz.PlotSeries(viz.Speeds(samples), "|v|", 80, 6))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir())
	if output != "" {
		if err := st.ExportJSONFile(output, args[0]); err != nil {
			return err
		}
		fmt.Printf("exported %s to %s\n", args[0], output)
		return nil
	}
	return st.ExportJSON(os.Stdout, args[0])
}

func sampleField(cmd *cobra.Command, args []string) error {
	var coords [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q: %w", args[i], err)
		}
		coords[i] = v
	}

	scenario, err := loadScenario(args[3:])
	if err != nil {
		return err
	}
	e, b, err := scenario.Fields()
	if err != nil {
		return err
	}

	pos := vec.New(coords[0], coords[1], coords[2])
	fmt.Println(viz.TextLine("position", pos.String()))
	fmt.Println(viz.TextLine("E", e.At(pos).String()))
	fmt.Println(viz.TextLine("B", b.At(pos).String()))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	scenario, err := loadScenario(args)
	if err != nil {
		return err
	}

	factory := func() (*boris.Solver, error) { return scenario.Solver() }
	m, err := viz.NewLiveModel(scenario.Name, factory, scenario.Steps, frameRate)
	if err != nil {
		return err
	}
	return viz.RunLive(m)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
