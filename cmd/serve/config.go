package main

import (
	"flag"
	"fmt"

	"github.com/BurntSushi/toml"
)

// config holds the resolved server settings. Values come from built-in
// defaults, then an optional TOML file, then command-line flags; later
// sources win.
type config struct {
	Dir       string `toml:"dir"`
	Port      int    `toml:"port"`
	IndexFile string `toml:"index_file"`
	LogFormat string `toml:"log_format"`
	Quiet     bool   `toml:"quiet"`
}

func defaultConfig() config {
	return config{
		Dir:       ".",
		Port:      3000,
		IndexFile: "index.html",
		LogFormat: "text",
	}
}

// loadConfig parses flags and, when -config names a TOML file, merges it
// underneath any flag set explicitly on the command line.
func loadConfig(args []string) (config, error) {
	cfg := defaultConfig()

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	var configPath string
	fs.StringVar(&configPath, "config", "", "TOML config file")
	fs.StringVar(&cfg.Dir, "dir", cfg.Dir, "directory to serve")
	fs.IntVar(&cfg.Port, "port", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.IndexFile, "index", cfg.IndexFile, "directory index file name")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "suppress the startup banner")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if configPath != "" {
		merged := defaultConfig()
		if _, err := toml.DecodeFile(configPath, &merged); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", configPath, err)
		}
		// Re-apply only the flags the user actually set.
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "dir":
				merged.Dir = cfg.Dir
			case "port":
				merged.Port = cfg.Port
			case "index":
				merged.IndexFile = cfg.IndexFile
			case "log-format":
				merged.LogFormat = cfg.LogFormat
			case "quiet":
				merged.Quiet = cfg.Quiet
			}
		})
		cfg = merged
	}

	return cfg, cfg.validate()
}

func (c config) validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", c.LogFormat)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.IndexFile == "" {
		return fmt.Errorf("index file name must not be empty")
	}
	return nil
}
