// Package config loads the YAML description of a LODCM instance.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jortiz-slac/pcdsdevices/pkg/lodcm"
	"github.com/jortiz-slac/pcdsdevices/pkg/motor"
	"github.com/jortiz-slac/pcdsdevices/pkg/xray"
)

// Config describes one LODCM.
type Config struct {
	// Prefix is the PV prefix, e.g. "XPP:LOM". The hutch in it selects
	// the foil states.
	Prefix string `yaml:"prefix"`

	// Name is the device name. Derived from Prefix when empty.
	Name string `yaml:"name"`

	// MainLine and MonoLine name the two destinations.
	MainLine string `yaml:"main_line"`
	MonoLine string `yaml:"mono_line"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// EventLog is the path of the CBOR event log. Empty disables it.
	EventLog string `yaml:"event_log"`

	// Offsets are the Bragg angle calibration offsets by motor
	// (th1_c, th2_c, th1_si, th2_si).
	Offsets map[string]float64 `yaml:"offsets"`

	Reflections Reflections `yaml:"reflections"`
	Motor       MotorConfig `yaml:"motor"`
	Sim         SimConfig   `yaml:"sim"`
}

// Reflections holds the crystal reflections of both towers.
type Reflections struct {
	Tower1 TowerReflections `yaml:"tower1"`
	Tower2 TowerReflections `yaml:"tower2"`
}

// TowerReflections holds the reflections of one tower.
type TowerReflections struct {
	Diamond xray.Reflection `yaml:"diamond"`
	Silicon xray.Reflection `yaml:"silicon"`
}

// MotorConfig applies to every motor of the energy assembly.
type MotorConfig struct {
	// Settle is the simulated move time.
	Settle time.Duration `yaml:"settle"`

	// LowLimit and HighLimit are soft limits. Equal limits disable them.
	LowLimit  float64 `yaml:"low_limit"`
	HighLimit float64 `yaml:"high_limit"`
}

// SimConfig sets the initial simulated state.
type SimConfig struct {
	// Material puts every crystal stage of both towers to C or Si.
	Material string `yaml:"material"`

	// States puts individual state elements, keyed by attribute path
	// (e.g. "tower1.h1n_state", "yag"). Applied after Material.
	States map[string]string `yaml:"states"`
}

var validOffsets = map[string]bool{
	"th1_c": true, "th2_c": true, "th1_si": true, "th2_si": true,
}

// Default returns the configuration of the XPP LODCM with diamond
// crystals and (1, 1, 1) reflections.
func Default() *Config {
	ref := xray.Reflection{1, 1, 1}
	return &Config{
		Prefix:   "XPP:LOM",
		MainLine: lodcm.DefaultMainLine,
		MonoLine: lodcm.DefaultMonoLine,
		LogLevel: "info",
		Offsets:  map[string]float64{},
		Reflections: Reflections{
			Tower1: TowerReflections{Diamond: ref, Silicon: ref},
			Tower2: TowerReflections{Diamond: ref, Silicon: ref},
		},
		Sim: SimConfig{
			Material: "C",
			States: map[string]string{
				"yag":     "OUT",
				"dectris": "OUT",
				"diode":   "OUT",
				"foil":    "OUT",
			},
		},
	}
}

// Parse parses YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &LoadError{
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{
			Message: "invalid configuration",
			Cause:   err,
		}
	}
	return cfg, nil
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	cfg, err := Parse(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{
			File:    path,
			Message: err.Error(),
		}
	}
	return cfg, nil
}

// DeviceName returns Name, or one derived from Prefix ("XPP:LOM" gives
// "xpp_lom").
func (c *Config) DeviceName() string {
	if c.Name != "" {
		return c.Name
	}
	return strings.ToLower(strings.ReplaceAll(c.Prefix, ":", "_"))
}

// Level returns the slog level of LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Prefix == "" {
		return fmt.Errorf("prefix is required")
	}
	if c.LogLevel != "" {
		if _, err := c.Level(); err != nil {
			return err
		}
	}
	for name := range c.Offsets {
		if !validOffsets[name] {
			return fmt.Errorf("offsets: unknown motor %q", name)
		}
	}
	for tower, refs := range map[string]TowerReflections{
		"tower1": c.Reflections.Tower1,
		"tower2": c.Reflections.Tower2,
	} {
		if refs.Diamond.IsZero() || refs.Silicon.IsZero() {
			return fmt.Errorf("reflections.%s: %w: (0, 0, 0)", tower, xray.ErrInvalidReflection)
		}
	}
	if c.Motor.Settle < 0 {
		return fmt.Errorf("motor.settle must not be negative")
	}
	if c.Motor.LowLimit > c.Motor.HighLimit {
		return fmt.Errorf("motor limits: low %v above high %v", c.Motor.LowLimit, c.Motor.HighLimit)
	}
	switch xray.Material(c.Sim.Material) {
	case "", xray.MaterialDiamond, xray.MaterialSilicon:
	default:
		return fmt.Errorf("sim.material: %w: %q", xray.ErrUnknownMaterial, c.Sim.Material)
	}
	return nil
}

// Build creates the LODCM and applies the simulated initial state.
func (c *Config) Build() (*lodcm.LODCM, error) {
	var opts []motor.Option
	if c.Motor.Settle > 0 {
		opts = append(opts, motor.WithSettle(c.Motor.Settle))
	}
	if c.Motor.LowLimit != c.Motor.HighLimit {
		opts = append(opts, motor.WithLimits(c.Motor.LowLimit, c.Motor.HighLimit))
	}

	l := lodcm.New(c.Prefix, c.DeviceName(), lodcm.Options{
		MainLine:     c.MainLine,
		MonoLine:     c.MonoLine,
		Offsets:      lodcm.Offsets(c.Offsets),
		MotorOptions: opts,
	})
	lodcm.SimSetReflections(l.Tower1, c.Reflections.Tower1.Diamond, c.Reflections.Tower1.Silicon)
	lodcm.SimSetReflections(l.Tower2, c.Reflections.Tower2.Diamond, c.Reflections.Tower2.Silicon)

	if c.Sim.Material != "" {
		if err := l.SimSetMaterial(xray.Material(c.Sim.Material)); err != nil {
			return nil, err
		}
	}
	if err := l.SimSetStates(c.Sim.States); err != nil {
		return nil, err
	}
	return l, nil
}

// LoadError provides details about a configuration loading error.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.File == "" {
		return msg
	}
	return e.File + ": " + msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
