package app

import (
	"flag"
	"strings"
)

// Config represents the command-line parameters for the terrasim binary.
type Config struct {
	ConfigPath string
	Width      int
	Height     int
	Seed       uint64
	LogLevel   string
	LogFormat  string
	Describe   bool
	OutputPath string
	Overrides  KVList
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Width: 256, Height: 256, Seed: 1337, LogLevel: "info", LogFormat: "text"}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "path to an HCL pipeline file")
	fs.IntVar(&c.Width, "width", c.Width, "terrain width in cells")
	fs.IntVar(&c.Height, "height", c.Height, "terrain height in cells")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "seed for the input field and erosion")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "logging level: debug, info, warn or error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log output format: text or json")
	fs.BoolVar(&c.Describe, "describe", c.Describe, "print the resolved plan parameters and exit")
	fs.StringVar(&c.OutputPath, "out", c.OutputPath, "write a shaded PNG map of the result to this path")
	fs.Var(&c.Overrides, "set", "stage override in kind.key=value form (repeatable)")
}

// KVList collects repeated key=value flags.
type KVList []string

func (l *KVList) String() string {
	return strings.Join(*l, ",")
}

// Set appends a raw key=value entry.
func (l *KVList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// Map splits the entries into a map. Entries without '=' are skipped and
// later entries win.
func (l KVList) Map() map[string]string {
	out := make(map[string]string, len(l))
	for _, kv := range l {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return out
}
