package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds the inspector's settings.
type Config struct {
	// Definitions is the proxy definitions document to inspect.
	Definitions string `koanf:"definitions"`
	// Output is "table" or "json".
	Output string `koanf:"output"`
	// ExpandPieces lists the pieces of multipiece datasets in trees.
	ExpandPieces bool `koanf:"expand_pieces"`
	Verbose      bool `koanf:"verbose"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

const (
	DefaultDefinitions = "proxies.yaml"
	DefaultOutput      = "table"
	envPrefix          = "PQINSPECT_"
)

var configNames = []string{"pqinspect.yaml", "pqinspect.yml"}

// findConfigFile returns explicit, or the first default config file present
// in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// LoadConfig loads configuration from defaults, the config file, PQINSPECT_
// environment variables and explicitly set flags, in increasing priority.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"definitions":   DefaultDefinitions,
		"output":        DefaultOutput,
		"expand_pieces": false,
		"verbose":       false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// PQINSPECT_EXPAND_PIECES -> expand_pieces
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks option values.
func (c *Config) Validate() error {
	switch c.Output {
	case "table", "json":
	default:
		return fmt.Errorf("invalid output format %q (want table or json)", c.Output)
	}
	if c.Definitions == "" {
		return fmt.Errorf("no proxy definitions file configured")
	}
	return nil
}
