package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/weatherwave/internal/encode"
	"github.com/san-kum/weatherwave/internal/palette"
	"github.com/san-kum/weatherwave/internal/render"
	"github.com/san-kum/weatherwave/internal/waveform"
	"github.com/san-kum/weatherwave/internal/weather"
)

const (
	DefaultFrames    = 60
	DefaultFrameRate = 5
	DefaultOutDir    = "output"
	DefaultVideo     = "animation.mp4"
	DefaultImage     = "animation.gif"
	DefaultStoreDir  = ".weatherwave/runs"
)

type Config struct {
	Frames      int            `yaml:"frames" validate:"gte=0"`
	FrameRate   int            `yaml:"frame_rate" validate:"gt=0,lte=120"`
	Realtime    bool           `yaml:"realtime"`
	Weather     WeatherConfig  `yaml:"weather"`
	Waveform    WaveformConfig `yaml:"waveform"`
	Color       ColorConfig    `yaml:"color"`
	Viewport    ViewportConfig `yaml:"viewport"`
	Output      OutputConfig   `yaml:"output"`
	Display     DisplayConfig  `yaml:"display"`
	Store       StoreConfig    `yaml:"store"`
	MetricsFile string         `yaml:"metrics_file,omitempty"`
}

type FieldConfig struct {
	Base      float64 `yaml:"base"`
	Amplitude float64 `yaml:"amplitude" validate:"gte=0"`
	Period    float64 `yaml:"period" validate:"gt=0"`
	Phase     float64 `yaml:"phase"`
}

type NoiseConfig struct {
	Temperature float64 `yaml:"temperature" validate:"gte=0"`
	Humidity    float64 `yaml:"humidity" validate:"gte=0"`
	Wind        float64 `yaml:"wind" validate:"gte=0"`
	Seed        uint64  `yaml:"seed"`
}

type WeatherConfig struct {
	Temperature FieldConfig `yaml:"temperature"`
	Humidity    FieldConfig `yaml:"humidity"`
	Wind        FieldConfig `yaml:"wind"`
	Noise       NoiseConfig `yaml:"noise"`
	// Start labels sample 0; empty means today.
	Start time.Time     `yaml:"start,omitempty"`
	Step  time.Duration `yaml:"step" validate:"gte=0"`
}

type WaveformConfig struct {
	Strategy      string  `yaml:"strategy" validate:"required"`
	KF            float64 `yaml:"k_f" validate:"gte=0"`
	KA            float64 `yaml:"k_a" validate:"gte=0"`
	KC            float64 `yaml:"k_c" validate:"gte=0"`
	PhaseStep     float64 `yaml:"phase_step"`
	MaxComplexity int     `yaml:"max_complexity" validate:"gte=1"`
	Resolution    int     `yaml:"resolution" validate:"gte=2"`
	// Layers stacks phase-shifted curves per frame; only layered strategies
	// such as drift draw more than one.
	Layers int `yaml:"layers" validate:"gte=1,lte=16"`
	// XMin/XMax default to the viewport's x range when equal.
	XMin float64 `yaml:"x_min"`
	XMax float64 `yaml:"x_max"`
}

type ColorConfig struct {
	Strategy string   `yaml:"strategy" validate:"required"`
	Cold     string   `yaml:"cold" validate:"omitempty,hexcolor"`
	Hot      string   `yaml:"hot" validate:"omitempty,hexcolor"`
	Stops    []string `yaml:"stops,omitempty" validate:"omitempty,dive,hexcolor"`
	// TMin/TMax override the color domain; equal values mean base ± amplitude.
	TMin float64 `yaml:"t_min"`
	TMax float64 `yaml:"t_max"`
}

type ViewportConfig struct {
	XMin float64 `yaml:"x_min"`
	XMax float64 `yaml:"x_max" validate:"gtfield=XMin"`
	YMin float64 `yaml:"y_min"`
	YMax float64 `yaml:"y_max" validate:"gtfield=YMin"`
}

type OutputConfig struct {
	Dir        string `yaml:"dir" validate:"required"`
	Video      string `yaml:"video" validate:"required"`
	Image      string `yaml:"image" validate:"required"`
	Primary    string `yaml:"primary" validate:"oneof=mp4 gif svg"`
	Fallback   string `yaml:"fallback" validate:"omitempty,oneof=mp4 gif svg"`
	Width      int    `yaml:"width" validate:"gte=16"`
	Height     int    `yaml:"height" validate:"gte=16"`
	LineWidth  int    `yaml:"line_width" validate:"gte=1"`
	Background string `yaml:"background" validate:"hexcolor"`
	FFmpeg     string `yaml:"ffmpeg"`
	Codec      string `yaml:"codec"`
}

type DisplayConfig struct {
	Mode             string `yaml:"mode" validate:"oneof=tui window none"`
	Theme            string `yaml:"theme"`
	Hold             bool   `yaml:"hold"`
	HeadlessFallback bool   `yaml:"headless_fallback"`
}

type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir" validate:"required_if=Enabled true"`
}

func DefaultConfig() *Config {
	p := weather.DefaultParams()
	w := waveform.DefaultConfig()
	vp := render.DefaultViewport()
	o := encode.DefaultOptions()
	return &Config{
		Frames:    DefaultFrames,
		FrameRate: DefaultFrameRate,
		Realtime:  true,
		Weather: WeatherConfig{
			Temperature: fieldConfig(p.Temperature),
			Humidity:    fieldConfig(p.Humidity),
			Wind:        fieldConfig(p.Wind),
			Step:        p.Step,
		},
		Waveform: WaveformConfig{
			Strategy:      "harmonic",
			KF:            w.KF,
			KA:            w.KA,
			KC:            w.KC,
			PhaseStep:     w.PhaseStep,
			MaxComplexity: w.MaxComplexity,
			Resolution:    waveform.DefaultResolution,
			Layers:        1,
		},
		Color: ColorConfig{
			Strategy: "linear",
			Cold:     palette.DefaultCold,
			Hot:      palette.DefaultHot,
		},
		Viewport: ViewportConfig{XMin: vp.XMin, XMax: vp.XMax, YMin: vp.YMin, YMax: vp.YMax},
		Output: OutputConfig{
			Dir:        DefaultOutDir,
			Video:      DefaultVideo,
			Image:      DefaultImage,
			Primary:    "mp4",
			Fallback:   "gif",
			Width:      o.Width,
			Height:     o.Height,
			LineWidth:  o.LineWidth,
			Background: palette.Hex(o.Background),
			FFmpeg:     encode.DefaultFFmpegBin,
			Codec:      encode.DefaultCodec,
		},
		Display: DisplayConfig{
			Mode:             "tui",
			Theme:            "night",
			HeadlessFallback: true,
		},
		Store: StoreConfig{Dir: DefaultStoreDir},
	}
}

func fieldConfig(f weather.FieldParams) FieldConfig {
	return FieldConfig{Base: f.Base, Amplitude: f.Amplitude, Period: f.Period, Phase: f.Phase}
}

// Load reads a YAML file over the defaults, so omitted keys keep their default.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto unmarshals the file over cfg. Keys the file does not mention keep
// their current values, so a file can refine a preset.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

var validate = newValidator()

// newValidator reports fields by their yaml keys.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldPath drops the root type from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// Validate checks struct constraints, then the strategy names and derived
// parameters. Failures are *weather.GenerationError.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &weather.GenerationError{
				Field:  fieldPath(fe.Namespace()),
				Reason: fmt.Sprintf("failed %q (value %v)", fe.ActualTag(), fe.Value()),
			}
		}
		return &weather.GenerationError{Field: "config", Reason: err.Error()}
	}

	if _, err := waveform.New(c.Waveform.Strategy, c.WaveformConfig()); err != nil {
		return &weather.GenerationError{Field: "waveform.strategy", Reason: err.Error()}
	}
	if _, err := palette.New(c.Color.Strategy, c.PaletteConfig()); err != nil {
		return &weather.GenerationError{Field: "color", Reason: err.Error()}
	}
	if c.Waveform.XMax < c.Waveform.XMin {
		return &weather.GenerationError{Field: "waveform.x_max", Reason: "must not be below x_min"}
	}
	if c.Color.TMax < c.Color.TMin {
		return &weather.GenerationError{Field: "color.t_max", Reason: "must not be below t_min"}
	}
	return c.WeatherParams(time.Time{}).Validate()
}

// WeatherParams converts the weather section. now labels sample 0 when no
// start date is configured.
func (c *Config) WeatherParams(now time.Time) weather.Params {
	w := c.Weather
	start := w.Start
	if start.IsZero() {
		y, m, d := now.Date()
		start = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	}
	return weather.Params{
		Temperature: fieldParams(w.Temperature),
		Humidity:    fieldParams(w.Humidity),
		Wind:        fieldParams(w.Wind),
		Noise: weather.Noise{
			Temperature: w.Noise.Temperature,
			Humidity:    w.Noise.Humidity,
			Wind:        w.Noise.Wind,
			Seed:        w.Noise.Seed,
		},
		Start: start,
		Step:  w.Step,
	}
}

func fieldParams(f FieldConfig) weather.FieldParams {
	return weather.FieldParams{Base: f.Base, Amplitude: f.Amplitude, Period: f.Period, Phase: f.Phase}
}

func (c *Config) WaveformConfig() waveform.Config {
	return waveform.Config{
		KF:            c.Waveform.KF,
		KA:            c.Waveform.KA,
		KC:            c.Waveform.KC,
		PhaseStep:     c.Waveform.PhaseStep,
		MaxComplexity: c.Waveform.MaxComplexity,
	}
}

// XDomain is the x range curves are sampled over.
func (c *Config) XDomain() waveform.Domain {
	if c.Waveform.XMax > c.Waveform.XMin {
		return waveform.Domain{Min: c.Waveform.XMin, Max: c.Waveform.XMax}
	}
	return waveform.Domain{Min: c.Viewport.XMin, Max: c.Viewport.XMax}
}

func (c *Config) PaletteConfig() palette.Config {
	pc := palette.DefaultConfig()
	if c.Color.Cold != "" {
		pc.Cold = c.Color.Cold
	}
	if c.Color.Hot != "" {
		pc.Hot = c.Color.Hot
	}
	if len(c.Color.Stops) > 0 {
		pc.Stops = c.Color.Stops
	}
	return pc
}

// ColorDomain returns the configured temperature range, falling back to the
// temperature base ± amplitude.
func (c *Config) ColorDomain() palette.Domain {
	if c.Color.TMax > c.Color.TMin {
		return palette.Domain{Min: c.Color.TMin, Max: c.Color.TMax}
	}
	t := c.Weather.Temperature
	return palette.DomainFor(t.Base, t.Amplitude)
}

// RenderViewport is the fixed plot range.
func (c *Config) RenderViewport() render.Viewport {
	v := c.Viewport
	return render.Viewport{XMin: v.XMin, XMax: v.XMax, YMin: v.YMin, YMax: v.YMax}
}

// EncodeOptions converts the output section. An unparsable background falls
// back to black; Validate rejects it first.
func (c *Config) EncodeOptions() encode.Options {
	o := encode.DefaultOptions()
	o.FPS = c.FrameRate
	o.Width = c.Output.Width
	o.Height = c.Output.Height
	o.LineWidth = c.Output.LineWidth
	if bg, err := palette.ParseHex(c.Output.Background); err == nil {
		o.Background = bg
	}
	return o
}

// OutputPath returns where the given format is written.
func (c *Config) OutputPath(format string) string {
	switch format {
	case "mp4":
		return filepath.Join(c.Output.Dir, c.Output.Video)
	case "gif":
		return filepath.Join(c.Output.Dir, c.Output.Image)
	}
	return filepath.Join(c.Output.Dir, "frames_"+format)
}
