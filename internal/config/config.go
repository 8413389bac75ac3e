package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/crocstat-cli/internal/analysis"
	"github.com/KaramelBytes/crocstat-cli/internal/utils"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DatasetPath string `mapstructure:"dataset_path" yaml:"dataset_path"`
	// Delimiter and Decimal are single characters; empty means auto-detect.
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	Decimal   string `mapstructure:"decimal" yaml:"decimal"`
	Sheet     string `mapstructure:"sheet" yaml:"sheet"`

	TopSpecies   int `mapstructure:"top_species" yaml:"top_species"`
	TopRegions   int `mapstructure:"top_regions" yaml:"top_regions"`
	TopSpecimens int `mapstructure:"top_specimens" yaml:"top_specimens"`

	// Menu behaviour
	Pause bool `mapstructure:"pause" yaml:"pause"`
	Color bool `mapstructure:"color" yaml:"color"`
}

// AnalysisOptions maps the ranking limits onto analysis.Options, falling
// back to the catalog defaults for non-positive values.
func (c *Global) AnalysisOptions() analysis.Options {
	opt := analysis.DefaultOptions()
	if c.TopSpecies > 0 {
		opt.TopSpecies = c.TopSpecies
	}
	if c.TopRegions > 0 {
		opt.TopRegions = c.TopRegions
	}
	if c.TopSpecimens > 0 {
		opt.TopSpecimens = c.TopSpecimens
	}
	return opt
}

// Defaults returns the configuration used when no file or env is present.
func Defaults() *Global {
	def := analysis.DefaultOptions()
	return &Global{
		DatasetPath:  "crocodile_dataset.csv",
		TopSpecies:   def.TopSpecies,
		TopRegions:   def.TopRegions,
		TopSpecimens: def.TopSpecimens,
		Pause:        true,
		Color:        true,
	}
}

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".crocstat", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.crocstat/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := defaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist)
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults; CLI flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CROCSTAT")
	v.AutomaticEnv()

	def := Defaults()
	v.SetDefault("dataset_path", def.DatasetPath)
	v.SetDefault("delimiter", def.Delimiter)
	v.SetDefault("decimal", def.Decimal)
	v.SetDefault("sheet", def.Sheet)
	v.SetDefault("top_species", def.TopSpecies)
	v.SetDefault("top_regions", def.TopRegions)
	v.SetDefault("top_specimens", def.TopSpecimens)
	v.SetDefault("pause", def.Pause)
	v.SetDefault("color", def.Color)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		// a missing file is created by Save; a malformed one is an error
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		p, err := defaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
