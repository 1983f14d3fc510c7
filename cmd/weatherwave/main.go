package main

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/weatherwave/internal/config"
	"github.com/san-kum/weatherwave/internal/encode"
	"github.com/san-kum/weatherwave/internal/session"
	"github.com/san-kum/weatherwave/internal/spectrum"
	"github.com/san-kum/weatherwave/internal/storage"
	"github.com/san-kum/weatherwave/internal/telemetry"
	"github.com/san-kum/weatherwave/internal/weather"
)

var (
	configFile  string
	envFile     string
	preset      string
	frames      int
	frameRate   int
	seed        uint64
	displayMode string
	theme       string
	hold        bool
	outDir      string
	primary     string
	fallback    string
	record      bool
	storeDir    string
	metricsFile string
	strict      bool
	logLevel    string
	logFormat   string

	asCSV       bool
	frameFormat string
	frameOut    string

	logger *slog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "weatherwave",
		Short:         "turn a simulated weather series into an animated waveform",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogger(cmd, os.Stderr)
		},
		RunE: runAnimation,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&envFile, "env-file", "", "env file with WEATHERWAVE_* overrides (default .env)")
	pf.StringVar(&preset, "preset", "", "start from a preset configuration")
	pf.IntVar(&frames, "frames", config.DefaultFrames, "number of frames")
	pf.Uint64Var(&seed, "seed", 0, "noise seed")
	pf.StringVar(&storeDir, "data", config.DefaultStoreDir, "run record directory")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	pf.StringVar(&logFormat, "log-format", "text", "log format (text|json)")

	f := rootCmd.Flags()
	f.IntVar(&frameRate, "fps", config.DefaultFrameRate, "frames per second")
	f.StringVar(&displayMode, "display", "tui", "live view (tui|window|none); renders headless when it cannot open unless display.headless_fallback is false")
	f.StringVar(&theme, "theme", "night", "tui theme")
	f.BoolVar(&hold, "hold", false, "keep the live view open after the last frame")
	f.StringVar(&outDir, "out", config.DefaultOutDir, "output directory")
	f.StringVar(&primary, "primary", "mp4", "primary output format (mp4|gif|svg)")
	f.StringVar(&fallback, "fallback", "gif", "fallback output format, empty for none")
	f.BoolVar(&record, "record", false, "record the run under --data")
	f.StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this textfile")
	f.BoolVar(&strict, "strict", false, "exit non-zero when no output could be written")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, name := range config.ListPresets() {
				fmt.Fprintf(w, "%s\t%s\n", name, config.Presets[name].Description)
			}
			w.Flush()
		},
	}

	samplesCmd := &cobra.Command{
		Use:   "samples",
		Short: "print the generated weather series",
		Args:  cobra.NoArgs,
		RunE:  printSamples,
	}
	samplesCmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of a table")

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "plot temperature, humidity and wind",
		Args:  cobra.NoArgs,
		RunE:  plotSamples,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "dominant oscillation count of every frame",
		Args:  cobra.NoArgs,
		RunE:  analyzeFrames,
	}

	frameCmd := &cobra.Command{
		Use:   "frame [index]",
		Short: "write a single frame as svg or png",
		Args:  cobra.ExactArgs(1),
		RunE:  writeFrame,
	}
	frameCmd.Flags().StringVar(&frameFormat, "format", "svg", "svg or png")
	frameCmd.Flags().StringVarP(&frameOut, "output", "o", "", "output file (default frame_<index>.<format>)")

	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "report which output formats are usable",
		Args:  cobra.NoArgs,
		RunE:  probeFormats,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a recorded run's samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(storeDir).ExportCSV(os.Stdout, args[0])
		},
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a recorded run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(storeDir).ExportJSON(os.Stdout, args[0])
		},
	}

	rootCmd.AddCommand(presetsCmd, samplesCmd, plotCmd, analyzeCmd, frameCmd, probeCmd, listCmd, exportCSVCmd, exportJSONCmd)

	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("weatherwave failed", "error", err)
		os.Exit(1)
	}
}

// initLogger loads the env files first so LOG_LEVEL and LOG_FORMAT may come
// from .env like every other setting.
func initLogger(cmd *cobra.Command, w io.Writer) error {
	if err := config.LoadEnvFiles(envFiles()...); err != nil {
		return err
	}
	logger = telemetry.NewLogger(w, envOr("LOG_LEVEL", logLevel, cmd, "log-level"), envOr("LOG_FORMAT", logFormat, cmd, "log-format"))
	slog.SetDefault(logger)
	return nil
}

func envFiles() []string {
	if envFile == "" {
		return nil
	}
	return []string{envFile}
}

// envOr prefers an explicit flag, then the environment variable, then the
// flag's default.
func envOr(key, flagValue string, cmd *cobra.Command, flag string) string {
	if cmd.Flags().Changed(flag) {
		return flagValue
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return flagValue
}

// loadConfig layers defaults, preset, config file, environment and finally
// flags the user actually set.
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

	if err := config.ApplyEnv(cfg, envFiles()...); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("seed") {
		cfg.Weather.Noise.Seed = seed
	}
	if flags.Changed("data") {
		cfg.Store.Dir = storeDir
	}
	if flags.Lookup("fps") == nil {
		return cfg, cfg.Validate()
	}

	if flags.Changed("fps") {
		cfg.FrameRate = frameRate
	}
	if flags.Changed("display") {
		cfg.Display.Mode = displayMode
	}
	if flags.Changed("theme") {
		cfg.Display.Theme = theme
	}
	if flags.Changed("hold") {
		cfg.Display.Hold = hold
	}
	if flags.Changed("out") {
		cfg.Output.Dir = outDir
	}
	if flags.Changed("primary") {
		cfg.Output.Primary = primary
	}
	if flags.Changed("fallback") {
		cfg.Output.Fallback = fallback
	}
	if flags.Changed("record") {
		cfg.Store.Enabled = record
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = metricsFile
	}
	return cfg, cfg.Validate()
}

func runAnimation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := session.New(cfg, session.WithLogger(logger), session.WithPreset(preset))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := s.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("frames: %d/%d (%s)\n", report.State.Len(), cfg.Frames, report.State.StopReason())
	if report.Encoding.Succeeded() {
		fmt.Printf("saved: %s (%s)\n", report.Encoding.OutputPath, report.Encoding.SucceededFormat)
	} else {
		fmt.Printf("no animation saved (tried %v)\n", report.Encoding.AttemptedFormats)
		if strict {
			return report.EncodeErr
		}
	}
	if report.RunID != "" {
		fmt.Printf("run: %s\n", report.RunID)
	}
	return nil
}

func generate(cmd *cobra.Command) (*config.Config, []weather.Sample, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	samples, err := weather.Generate(cfg.Frames, cfg.WeatherParams(time.Now()))
	return cfg, samples, err
}

func printSamples(cmd *cobra.Command, args []string) error {
	_, samples, err := generate(cmd)
	if err != nil {
		return err
	}
	if asCSV {
		return storage.WriteCSV(os.Stdout, samples)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "index\tdate\ttemperature\thumidity\twind\t")
	for _, s := range samples {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%.2f\t\n", s.Index, s.Time.Format("2006-01-02"), s.Temperature, s.Humidity, s.WindSpeed)
	}
	return w.Flush()
}

func plotSamples(cmd *cobra.Command, args []string) error {
	_, samples, err := generate(cmd)
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("need at least 2 samples to plot, got %d", len(samples))
	}

	series := []struct {
		caption string
		value   func(weather.Sample) float64
	}{
		{"temperature (°C)", func(s weather.Sample) float64 { return s.Temperature }},
		{"humidity (%)", func(s weather.Sample) float64 { return s.Humidity }},
		{"wind speed (m/s)", func(s weather.Sample) float64 { return s.WindSpeed }},
	}
	for _, ser := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = ser.value(s)
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(ser.caption),
		))
		fmt.Println()
	}
	return nil
}

func analyzeFrames(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := session.New(cfg, session.WithLogger(logger))
	if err != nil {
		return err
	}
	pipe, err := s.Pipeline()
	if err != nil {
		return err
	}

	cycles := make([]float64, cfg.Frames)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "frame\ttemperature\tcycles\t")
	for t := range cycles {
		f := pipe.Frame(t)
		cycles[t] = spectrum.DominantCycles(f.Curve)
		fmt.Fprintf(w, "%d\t%.2f\t%.2f\t\n", t, f.Sample.Temperature, cycles[t])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(cycles) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(cycles,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("dominant oscillations per frame"),
		))
	}
	return nil
}

func writeFrame(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil || index < 0 {
		return fmt.Errorf("invalid frame index: %s", args[0])
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := session.New(cfg, session.WithLogger(logger))
	if err != nil {
		return err
	}
	pipe, err := s.Pipeline()
	if err != nil {
		return err
	}

	path := frameOut
	if path == "" {
		path = fmt.Sprintf("frame_%04d.%s", index, frameFormat)
	}
	frame := pipe.Frame(index)
	opts := cfg.EncodeOptions()

	out, err := os.Create(path)
	if err != nil {
		return err
	}

	switch frameFormat {
	case "svg":
		err = encode.WriteFrameSVG(out, frame, opts)
	case "png":
		err = png.Encode(out, encode.RasterizeFrame(frame, opts))
	default:
		err = fmt.Errorf("unknown frame format: %s", frameFormat)
	}
	if err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	logger.Info("frame written", "index", index, "path", path)
	return out.Close()
}

func probeFormats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return err
	}

	reg := encode.NewRegistry(cfg.Output.FFmpeg, cfg.Output.Codec)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "format\tpath\tstatus")
	for _, format := range reg.Formats() {
		c, err := reg.Get(format)
		if err != nil {
			return err
		}
		path := cfg.OutputPath(format)
		status := "ok"
		if err := c.Probe(cmd.Context(), path); err != nil {
			status = "unavailable: " + err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", format, filepath.Clean(path), status)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(storeDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\ttime\tpreset\tframes\tstop\toutput")
	for _, r := range runs {
		output := r.Encoding.OutputPath
		if output == "" {
			output = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\t%s\n",
			r.ID, r.Timestamp.Local().Format("2006-01-02 15:04"), r.Preset, r.Buffered, r.Requested, r.StopReason, output)
	}
	return w.Flush()
}
