// Package config provides the engine configuration shared by all façades.
// It centralizes how each external analysis engine is started and bounded.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration with YAML decoding of Go duration strings
// like "90s" or "2m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}

	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Engine describes how one external analysis engine is invoked.
type Engine struct {
	// Command is the engine executable, resolved via PATH lookup
	Command string `yaml:"command"`
	// Args are prepended before the per-request arguments
	Args []string `yaml:"args"`
	// Timeout bounds one invocation, the process is killed on expiry
	Timeout Duration `yaml:"timeout"`
}

// Config maps each analysis type to its engine.
type Config struct {
	Steganography Engine `yaml:"steganography"`
	Malware       Engine `yaml:"malware"`
	URL           Engine `yaml:"url"`
}

// Default returns the engine layout the bridge ships with: the Python
// analysis services invoked through the system interpreter.
func Default() Config {
	return Config{
		Steganography: Engine{
			Command: "python3",
			Args:    []string{"python_services/steganography_service.py"},
			Timeout: Duration(60 * time.Second),
		},
		Malware: Engine{
			Command: "python3",
			Args:    []string{"python_services/media_security_service.py"},
			Timeout: Duration(120 * time.Second),
		},
		URL: Engine{
			Command: "python3",
			Args:    []string{"python_services/url_analysis_service.py"},
			Timeout: Duration(90 * time.Second),
		},
	}
}

// Load reads a YAML engine configuration. Engines left out of the file
// keep their defaults, a missing timeout falls back to the default of the
// respective engine.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	defaults := Default()
	normalize(&cfg.Steganography, defaults.Steganography)
	normalize(&cfg.Malware, defaults.Malware)
	normalize(&cfg.URL, defaults.URL)

	return cfg, nil
}

func normalize(eng *Engine, def Engine) {
	if eng.Command == "" {
		eng.Command = def.Command
		eng.Args = def.Args
	}

	if eng.Timeout <= 0 {
		eng.Timeout = def.Timeout
	}
}
