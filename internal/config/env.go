package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const envPrefix = "WEATHERWAVE_"

// LoadEnvFiles loads the given .env files into the process environment
// (".env" when none are given; a missing default file is not an error).
// Variables already set in the process environment win over .env entries, so
// loading the same files again is harmless.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

// ApplyEnv runs LoadEnvFiles and overrides cfg from WEATHERWAVE_* variables.
func ApplyEnv(cfg *Config, files ...string) error {
	if err := LoadEnvFiles(files...); err != nil {
		return err
	}

	ints := map[string]*int{
		"FRAMES":     &cfg.Frames,
		"FPS":        &cfg.FrameRate,
		"WIDTH":      &cfg.Output.Width,
		"HEIGHT":     &cfg.Output.Height,
		"LINE_WIDTH": &cfg.Output.LineWidth,
		"LAYERS":     &cfg.Waveform.Layers,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"REALTIME":          &cfg.Realtime,
		"RECORD":            &cfg.Store.Enabled,
		"HOLD":              &cfg.Display.Hold,
		"HEADLESS_FALLBACK": &cfg.Display.HeadlessFallback,
	}
	for key, dst := range bools {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", envPrefix, key, err)
			}
			*dst = b
		}
	}

	strs := map[string]*string{
		"DISPLAY":      &cfg.Display.Mode,
		"THEME":        &cfg.Display.Theme,
		"OUT_DIR":      &cfg.Output.Dir,
		"PRIMARY":      &cfg.Output.Primary,
		"FALLBACK":     &cfg.Output.Fallback,
		"FFMPEG":       &cfg.Output.FFmpeg,
		"CODEC":        &cfg.Output.Codec,
		"STORE_DIR":    &cfg.Store.Dir,
		"METRICS_FILE": &cfg.MetricsFile,
		"WAVEFORM":     &cfg.Waveform.Strategy,
		"COLOR":        &cfg.Color.Strategy,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup("SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sSEED: %w", envPrefix, err)
		}
		cfg.Weather.Noise.Seed = seed
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
