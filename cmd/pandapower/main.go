package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/jkisse/pandapower/internal/analysis"
	"github.com/jkisse/pandapower/internal/config"
	"github.com/jkisse/pandapower/internal/opf"
	"github.com/jkisse/pandapower/internal/ppc"
	"github.com/jkisse/pandapower/internal/storage"
	"github.com/jkisse/pandapower/internal/study"
	"github.com/jkisse/pandapower/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	mode       string
	lossWeight float64
	steps      int
	sweepScales string
	// watched cell for the live view
	watchElement  string
	watchVariable string
	watchIndex    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pandapower",
		Short: "time-series power study toolkit",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a time-series study",
		RunE:  runStudy,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "study config file (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().IntVar(&steps, "steps", 0, "override step count")

	objectiveCmd := &cobra.Command{
		Use:   "objective [case.json]",
		Short: "build and store the opf objective for a case",
		Args:  cobra.ExactArgs(1),
		RunE:  buildObjective,
	}
	objectiveCmd.Flags().StringVar(&mode, "mode", string(opf.ModeLinear), "objective mode")
	objectiveCmd.Flags().Float64Var(&lossWeight, "loss-weight", config.DefaultLossWeight, "loss penalty weight (linear_minloss)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a study with a live terminal view",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "study config file (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	liveCmd.Flags().StringVar(&watchElement, "watch-element", "", "element table to plot")
	liveCmd.Flags().StringVar(&watchVariable, "watch-variable", "", "column to plot")
	liveCmd.Flags().IntVar(&watchIndex, "watch-index", 0, "row to plot")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the recorded series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export recorded series as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "periodicity analysis of a recorded series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a study across several injection scale factors",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "study config file (yaml)")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	sweepCmd.Flags().StringVar(&sweepScales, "scales", "0.8,1.0,1.2", "comma-separated scale factors")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available study presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, objectiveCmd, liveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, analyzeCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadStudyConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		return nil, fmt.Errorf("either --config or --preset is required")
	}
	if cmd.Flags().Changed("steps") && steps > 0 {
		cfg.Steps = steps
	}
	if !cmd.Flags().Changed("data") && cfg.DataDir != "" {
		dataDir = cfg.DataDir
	}
	return cfg, nil
}

func runStudy(cmd *cobra.Command, args []string) error {
	cfg, err := loadStudyConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := study.New(cfg, nil)
	if err != nil {
		return err
	}

	recorder := study.NewRecorder(s.Watches()...)
	s.Runner().AddObserver(recorder)

	fmt.Printf("running %d steps...\n", s.Steps())
	start := time.Now()

	result, err := s.Run(context.Background())
	if err != nil {
		return err
	}

	caseName := cfg.Case
	if caseName == "" {
		caseName = "study"
	}
	runID, err := st.SaveRun(caseName, cfg.Mode, cfg.LossWeight, result, recorder.Series())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsRun)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
}

func buildObjective(cmd *cobra.Command, args []string) error {
	bundle, err := ppc.LoadBundle(args[0])
	if err != nil {
		return err
	}

	c, err := opf.BuildObjective(bundle.Case, bundle.Lookups, bundle.Costs, opf.Mode(mode), lossWeight)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	caseName := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	dir, err := st.SaveObjective(caseName, c)
	if err != nil {
		return err
	}

	ng, _ := c.GenCost.Dims()
	fmt.Printf("mode: %s\n", mode)
	fmt.Printf("gencost rows: %d (%d reference)\n", ng, c.NumRef())
	if c.QP != nil {
		rows, cols := c.QP.A.Dims()
		fmt.Printf("qp: %d constraint rows over %d variables, %d penalty terms\n",
			rows, cols, c.QP.H.NNZ())
	}
	fmt.Printf("artifacts: %s\n", dir)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadStudyConfig(cmd)
	if err != nil {
		return err
	}

	s, err := study.New(cfg, nil)
	if err != nil {
		return err
	}

	watch := study.Watch{Element: watchElement, Variable: watchVariable, Index: watchIndex}
	if watch.Element == "" {
		watches := s.Watches()
		if len(watches) == 0 {
			return fmt.Errorf("no watchable controller cells; use --watch-element")
		}
		watch = watches[0]
	}

	p := tea.NewProgram(tui.NewModel(s, watch))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
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
	fmt.Fprintln(w, "ID\tCASE\tTIME\tMODE\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			run.ID,
			run.Case,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Mode,
			run.Steps,
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
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("case: %s  mode: %s\n\n", meta.Case, meta.Mode)

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name == "step" || name == "iterations" {
			continue
		}
		graph := asciigraph.Plot(series[name],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	fmt.Printf("periodicity analysis: %s\n", meta.ID)
	fmt.Printf("case: %s  steps: %d\n\n", meta.Case, meta.Steps)

	names := make([]string, 0, len(series))
	for name := range series {
		if name == "step" || name == "iterations" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		data := series[name]
		ps := analysis.PowerSpectrum(data)
		if len(ps) > 1 {
			plotData := ps[1:]
			if len(plotData) > len(data) {
				plotData = plotData[:len(data)]
			}
			graph := asciigraph.Plot(plotData,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", name)),
			)
			fmt.Println(graph)
		}
		if period, ok := analysis.DominantPeriod(data); ok {
			fmt.Printf("dominant period: %.1f steps\n\n", period)
		} else {
			fmt.Printf("no dominant period\n\n")
		}
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadStudyConfig(cmd)
	if err != nil {
		return err
	}

	var scales []float64
	for _, field := range strings.Split(sweepScales, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return fmt.Errorf("bad scale factor %q: %w", field, err)
		}
		scales = append(scales, v)
	}

	fmt.Printf("sweeping %d scenarios over %d steps...\n\n", len(scales), cfg.Steps)
	results, err := study.NewSweep(cfg, scales).Run(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCALE\tSTEPS\tMETRIC\tVALUE")
	for i, result := range results {
		for _, name := range sortedKeys(result.Metrics) {
			fmt.Fprintf(w, "%.2f\t%d\t%s\t%.6f\n", scales[i], result.StepsRun, name, result.Metrics[name])
		}
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to export")
	}

	names := make([]string, 0, len(series))
	n := 0
	for name, vals := range series {
		if name == "step" {
			continue
		}
		names = append(names, name)
		if len(vals) > n {
			n = len(vals)
		}
	}
	sort.Strings(names)

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := append([]string{"step"}, names...)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		row := []string{strconv.Itoa(i)}
		for _, name := range names {
			v := 0.0
			if i < len(series[name]) {
				v = series[name][i]
			}
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
