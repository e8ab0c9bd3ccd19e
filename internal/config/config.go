// Package config holds the settings shared by the fetch and extract stages.
// Values are layered by viper: flags, UNIPROTKB_* environment variables, an
// optional config file, then defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/ColinFX/UniProtKB-Preprocessing/internal/segment"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultBaseURL is the UniProtKB REST endpoint for single entries.
const DefaultBaseURL = "https://rest.uniprot.org/uniprotkb"

type Config struct {
	InputDir     string        `mapstructure:"input_dir"`
	DownloadDir  string        `mapstructure:"download_dir"`
	ProcessedDir string        `mapstructure:"processed_dir"`
	Splits       []string      `mapstructure:"splits"`
	BaseURL      string        `mapstructure:"base_url"`
	MaxLen       int           `mapstructure:"max_len"`
	OverlapLen   int           `mapstructure:"overlap_len"`
	Timeout      time.Duration `mapstructure:"request_timeout"`
	Delay        time.Duration `mapstructure:"request_delay"`
	UserAgent    string        `mapstructure:"user_agent"`
	LogFile      string        `mapstructure:"log_file"`
	LogLevel     string        `mapstructure:"log_level"`
}

// flagKeys maps command line flag names onto config keys.
var flagKeys = map[string]string{
	"input-dir":     "input_dir",
	"download-dir":  "download_dir",
	"processed-dir": "processed_dir",
	"split":         "splits",
	"base-url":      "base_url",
	"max-len":       "max_len",
	"overlap-len":   "overlap_len",
	"timeout":       "request_timeout",
	"delay":         "request_delay",
	"log-file":      "log_file",
	"log-level":     "log_level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input_dir", "./data")
	v.SetDefault("download_dir", "./download")
	v.SetDefault("processed_dir", "./processed")
	v.SetDefault("splits", []string{"test", "val", "train"})
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("max_len", segment.MaxLen)
	v.SetDefault("overlap_len", segment.OverlapLen)
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("request_delay", time.Duration(0))
	v.SetDefault("user_agent", "uniprotkb-preprocessing/0.1.0")
	v.SetDefault("log_level", "info")
}

// Default returns the configuration used when no file, env or flag is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	c, err := decode(v)
	if err != nil {
		// defaults always decode
		panic(err)
	}
	return c
}

// Load reads the config file at path (./config.{json,yaml,toml} when empty)
// and overlays environment variables and any changed flags. A missing file is
// not fatal: defaults are used.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("UNIPROTKB")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path == "" {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &c, nil
}

// Validate rejects settings that would make either stage misbehave. The
// window check runs here so a bad stride fails before any work starts.
func (c *Config) Validate() error {
	if len(c.Splits) == 0 {
		return errors.New("config: no splits configured")
	}
	for _, s := range c.Splits {
		if strings.TrimSpace(s) == "" || strings.ContainsAny(s, `/\`) {
			return fmt.Errorf("config: invalid split name %q", s)
		}
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("config: base_url is empty")
	}
	if c.Timeout < 0 || c.Delay < 0 {
		return errors.New("config: request_timeout and request_delay must not be negative")
	}
	if err := segment.Validate(c.MaxLen, c.OverlapLen); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// AccessionListPath is the accession list for split.
func (c *Config) AccessionListPath(split string) string {
	return filepath.Join(c.InputDir, split+".txt")
}

// SplitDownloadDir is where raw records of split are stored.
func (c *Config) SplitDownloadDir(split string) string {
	return filepath.Join(c.DownloadDir, split)
}

// RecordPath is the raw record file of one accession.
func (c *Config) RecordPath(split, accession string) string {
	return filepath.Join(c.DownloadDir, split, accession+".json")
}

// CorpusPath is the JSONL output of split.
func (c *Config) CorpusPath(split string) string {
	return filepath.Join(c.ProcessedDir, split+".jsonl")
}
