// Package config loads tagcheck settings from defaults, a YAML file,
// TAGCHECK_ environment variables and command-line flags.
package config

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

	"github.com/grahms/tagcheck"
)

// EnvPrefix is the prefix of environment overrides. A double underscore
// separates nested keys: TAGCHECK_REGION__START sets region.start.
const EnvPrefix = "TAGCHECK_"

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// DefaultConfigFiles are looked up in the working directory, in order.
var DefaultConfigFiles = []string{"tagcheck.yaml", "tagcheck.yml", ".tagcheck.yaml"}

// Config holds all settings of a run.
type Config struct {
	Region       tagcheck.RegionMarkers `koanf:"region"`
	VoidElements []string               `koanf:"void_elements"`
	Tokenizer    string                 `koanf:"tokenizer"`
	Policy       string                 `koanf:"policy"`
	Output       string                 `koanf:"output"`
	Verbose      bool                   `koanf:"verbose"`
	NoColor      bool                   `koanf:"no_color"`
	Windows      Windows                `koanf:"windows"`
	Adjacent     AdjacentConfig         `koanf:"adjacent"`
	Sequence     SequenceConfig         `koanf:"sequence"`

	// FileUsed is the config file that was read, if any.
	FileUsed string `koanf:"-"`
}

// Windows configures the diagnostic snippets.
type Windows struct {
	Mismatch tagcheck.Window `koanf:"mismatch"`
	Unclosed tagcheck.Window `koanf:"unclosed"`
}

// AdjacentConfig configures the adjacent close search.
type AdjacentConfig struct {
	First  string `koanf:"first"`
	Second string `koanf:"second"`
}

// SequenceConfig configures the line sequence search.
type SequenceConfig struct {
	Suffixes []string `koanf:"suffixes"`
}

// flagKeys maps flag names to config keys. Flags not listed here are
// command behaviour (--watch, --config) and never reach the config.
var flagKeys = map[string]string{
	"start-marker": "region.start",
	"end-marker":   "region.end",
	"void":         "void_elements",
	"tokenizer":    "tokenizer",
	"collect-all":  "policy",
	"output":       "output",
	"verbose":      "verbose",
	"no-color":     "no_color",
	"first":        "adjacent.first",
	"second":       "adjacent.second",
	"suffix":       "sequence.suffixes",
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"region.start":            tagcheck.DefaultRegionMarkers.Start,
		"region.end":              tagcheck.DefaultRegionMarkers.End,
		"void_elements":           tagcheck.DefaultVoidElements,
		"tokenizer":               "regex",
		"policy":                  tagcheck.HaltOnFirst.String(),
		"output":                  OutputText,
		"verbose":                 false,
		"no_color":                false,
		"windows.mismatch.before": tagcheck.DefaultMismatchWindow.Before,
		"windows.mismatch.after":  tagcheck.DefaultMismatchWindow.After,
		"windows.unclosed.before": tagcheck.DefaultUnclosedWindow.Before,
		"windows.unclosed.after":  tagcheck.DefaultUnclosedWindow.After,
		"adjacent.first":          "div",
		"adjacent.second":         "select",
		"sequence.suffixes":       tagcheck.DefaultLineSuffixes,
	}
}

// findConfigFile returns the explicit path, or the first default file found.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range DefaultConfigFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load builds the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: TAGCHECK_WINDOWS__MISMATCH__BEFORE -> windows.mismatch.before
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			if f.Name == "collect-all" {
				if on, _ := flags.GetBool(f.Name); on {
					return key, tagcheck.CollectAll.String()
				}
				return key, tagcheck.HaltOnFirst.String()
			}
			if f.Value.Type() == "stringArray" {
				vals, _ := flags.GetStringArray(f.Name)
				return key, vals
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.FileUsed = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be caught by decoding.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("invalid output format %q (want %s or %s)", c.Output, OutputText, OutputJSON)
	}
	if _, err := tagcheck.ParseErrorPolicy(c.Policy); err != nil {
		return err
	}
	for name, w := range map[string]tagcheck.Window{"mismatch": c.Windows.Mismatch, "unclosed": c.Windows.Unclosed} {
		if w.Before < 0 || w.After < 0 {
			return fmt.Errorf("windows.%s: before and after must not be negative", name)
		}
	}
	return nil
}

// ErrorPolicy returns the parsed policy. Validate has already checked it.
func (c *Config) ErrorPolicy() tagcheck.ErrorPolicy {
	p, _ := tagcheck.ParseErrorPolicy(c.Policy)
	return p
}
