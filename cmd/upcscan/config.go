package main

import (
	"fmt"
	"runtime"

	"go.uber.org/zap/zapcore"
	"gopkg.in/ini.v1"
)

// config holds the CLI settings. Values come from the compiled-in defaults, then
// the optional ini file, then command line flags.
type config struct {
	Row            int // -1 selects the middle row
	Column         int // >= 0 reads a column instead of a row
	Threshold      int
	TrimQuietZone  bool
	Jobs           int
	Format         string
	AppendCheck    bool
	LogLevel       zapcore.Level
	BarWidth       int
	Height         int
	QuietZoneWidth int
}

func defaultConfig() *config {
	return &config{
		Row:            -1,
		Column:         -1,
		Threshold:      127,
		TrimQuietZone:  true,
		Jobs:           runtime.NumCPU(),
		Format:         "text",
		LogLevel:       zapcore.WarnLevel,
		BarWidth:       2,
		Height:         60,
		QuietZoneWidth: 10,
	}
}

// loadConfig reads an ini file on top of the defaults. An empty path returns
// the defaults.
func loadConfig(path string) (*config, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return configFromIni(f)
}

func configFromIni(f *ini.File) (*config, error) {
	cfg := defaultConfig()

	sec := f.Section("scan")
	cfg.Row = sec.Key("ROW").MustInt(cfg.Row)
	cfg.Column = sec.Key("COLUMN").MustInt(cfg.Column)
	cfg.Threshold = sec.Key("THRESHOLD").MustInt(cfg.Threshold)
	cfg.TrimQuietZone = sec.Key("TRIM_QUIET_ZONE").MustBool(cfg.TrimQuietZone)
	cfg.Jobs = sec.Key("JOBS").MustInt(cfg.Jobs)

	sec = f.Section("output")
	cfg.Format = sec.Key("FORMAT").In(cfg.Format, outputFormats)
	cfg.AppendCheck = sec.Key("APPEND_CHECK_DIGIT").MustBool(cfg.AppendCheck)

	sec = f.Section("log")
	if s := sec.Key("LEVEL").String(); s != "" {
		lvl, err := zapcore.ParseLevel(s)
		if err != nil {
			return nil, fmt.Errorf("[log] LEVEL: %w", err)
		}
		cfg.LogLevel = lvl
	}

	sec = f.Section("generate")
	cfg.BarWidth = sec.Key("BAR_WIDTH").MustInt(cfg.BarWidth)
	cfg.Height = sec.Key("HEIGHT").MustInt(cfg.Height)
	cfg.QuietZoneWidth = sec.Key("QUIET_ZONE").MustInt(cfg.QuietZoneWidth)

	return cfg, cfg.validate()
}

func (c *config) validate() error {
	if c.Threshold < 0 || c.Threshold > 255 {
		return fmt.Errorf("threshold must be in [0, 255], got %d", c.Threshold)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be positive, got %d", c.Jobs)
	}
	if c.BarWidth < 1 {
		return fmt.Errorf("bar width must be positive, got %d", c.BarWidth)
	}
	if c.QuietZoneWidth < 0 {
		return fmt.Errorf("quiet zone must not be negative, got %d", c.QuietZoneWidth)
	}
	for _, f := range outputFormats {
		if c.Format == f {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q", c.Format)
}
