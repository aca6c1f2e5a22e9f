package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oomph-ac/motion/collider"
	"github.com/oomph-ac/motion/game"
	"github.com/oomph-ac/motion/movement"
	"github.com/oomph-ac/motion/oerror"
	"github.com/pelletier/go-toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Settings contains everything that can be configured for the reconciliation core and the
// simulation harness.
type Settings struct {
	Reconciler struct {
		CatchUpTickBudget     int     `toml:"catch_up_tick_budget" yaml:"catch_up_tick_budget"`
		CatchUpSpeed          float64 `toml:"catch_up_speed" yaml:"catch_up_speed"`
		SmoothingFactor       float64 `toml:"smoothing_factor" yaml:"smoothing_factor"`
		ClampSpeedTolerance   float64 `toml:"clamp_speed_tolerance" yaml:"clamp_speed_tolerance"`
		ClampFallbackMaxDelta float64 `toml:"clamp_fallback_max_delta" yaml:"clamp_fallback_max_delta"`
		FixedDt               float64 `toml:"fixed_dt" yaml:"fixed_dt"`
		Epsilon               float64 `toml:"epsilon" yaml:"epsilon"`
	} `toml:"reconciler" yaml:"reconciler"`
	Selector struct {
		// Fallback is the fallback ranking, as method identifiers or aliases.
		Fallback          []string `toml:"fallback" yaml:"fallback"`
		ForcedPriority    int      `toml:"forced_priority" yaml:"forced_priority"`
		AnimationPriority int      `toml:"animation_priority" yaml:"animation_priority"`
		// ColliderModes maps methods to the collider mode requested when they are entered.
		ColliderModes map[string]string `toml:"collider_modes" yaml:"collider_modes"`
	} `toml:"selector" yaml:"selector"`
	Simulation struct {
		// Workers is the number of goroutines stepping entities. Zero uses one per CPU.
		Workers int `toml:"workers" yaml:"workers"`
		// DefaultColliderMode is the mode new entities start in.
		DefaultColliderMode string `toml:"default_collider_mode" yaml:"default_collider_mode"`
	} `toml:"simulation" yaml:"simulation"`
	Logging struct {
		Level string `toml:"level" yaml:"level"`
	} `toml:"logging" yaml:"logging"`
	Sentry struct {
		DSN         string `toml:"dsn" yaml:"dsn"`
		Environment string `toml:"environment" yaml:"environment"`
	} `toml:"sentry" yaml:"sentry"`
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	s := Settings{}
	s.Reconciler.CatchUpTickBudget = game.DefaultCatchUpTickBudget
	s.Reconciler.SmoothingFactor = game.DefaultSmoothingFactor
	s.Reconciler.ClampSpeedTolerance = game.DefaultClampSpeedTolerance
	s.Reconciler.ClampFallbackMaxDelta = game.DefaultClampFallbackMaxDelta
	s.Reconciler.FixedDt = game.DefaultFixedDt
	s.Reconciler.Epsilon = game.DefaultEpsilon

	s.Selector.Fallback = []string{movement.MethodClampedEntity.String()}
	s.Selector.ForcedPriority = game.DefaultForcedPriority
	s.Selector.AnimationPriority = game.DefaultAnimationPriority
	s.Selector.ColliderModes = map[string]string{}

	s.Simulation.DefaultColliderMode = collider.ModePushable.String()
	s.Logging.Level = logrus.InfoLevel.String()
	s.Sentry.Environment = "development"
	return s
}

// ReconcilerOptions converts the reconciler settings.
func (s Settings) ReconcilerOptions() movement.ReconcilerOptions {
	return movement.ReconcilerOptions{
		CatchUpTickBudget:     s.Reconciler.CatchUpTickBudget,
		CatchUpSpeed:          s.Reconciler.CatchUpSpeed,
		SmoothingFactor:       s.Reconciler.SmoothingFactor,
		ClampSpeedTolerance:   s.Reconciler.ClampSpeedTolerance,
		ClampFallbackMaxDelta: s.Reconciler.ClampFallbackMaxDelta,
		FixedDt:               s.Reconciler.FixedDt,
		Epsilon:               s.Reconciler.Epsilon,
	}
}

// SelectorOptions converts the selector settings, resolving method and mode names.
func (s Settings) SelectorOptions() (movement.SelectorOptions, error) {
	opts := movement.SelectorOptions{
		Priorities: movement.Priorities{
			Forced:    s.Selector.ForcedPriority,
			Animation: s.Selector.AnimationPriority,
		},
		SmoothingTicks:    movement.SmoothingTicksFor(s.Reconciler.SmoothingFactor),
		CatchUpTickBudget: s.Reconciler.CatchUpTickBudget,
	}
	for _, name := range s.Selector.Fallback {
		m, ok := movement.ParseMethod(name)
		if !ok {
			return movement.SelectorOptions{}, oerror.Newf(oerror.KindInvalidMethod, "unknown fallback method %q", name)
		}
		opts.Fallback = append(opts.Fallback, m)
	}
	if len(s.Selector.ColliderModes) > 0 {
		opts.ColliderModes = make(map[movement.Method]collider.Mode, len(s.Selector.ColliderModes))
		for methodName, modeName := range s.Selector.ColliderModes {
			m, ok := movement.ParseMethod(methodName)
			if !ok {
				return movement.SelectorOptions{}, oerror.Newf(oerror.KindInvalidMethod, "unknown method %q in collider modes", methodName)
			}
			mode, err := parseMode(modeName)
			if err != nil {
				return movement.SelectorOptions{}, err
			}
			opts.ColliderModes[m] = mode
		}
	}
	return opts, nil
}

// DefaultColliderMode returns the mode new entities start in.
func (s Settings) DefaultColliderMode() (collider.Mode, error) {
	return parseMode(s.Simulation.DefaultColliderMode)
}

// LogLevel returns the configured logging level, or info if it cannot be parsed.
func (s Settings) LogLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(s.Logging.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Validate returns an error if the settings cannot be used.
func (s Settings) Validate() error {
	if err := s.ReconcilerOptions().Validate(); err != nil {
		return err
	}
	opts, err := s.SelectorOptions()
	if err != nil {
		return err
	}
	if _, err := movement.NewSelector(opts); err != nil {
		return err
	}
	if _, err := s.DefaultColliderMode(); err != nil {
		return err
	}
	if s.Simulation.Workers < 0 {
		return oerror.New("worker count must not be negative, got %d", s.Simulation.Workers)
	}
	if _, err := logrus.ParseLevel(s.Logging.Level); err != nil {
		return oerror.New("invalid logging level %q", s.Logging.Level)
	}
	return nil
}

func parseMode(name string) (collider.Mode, error) {
	var mode collider.Mode
	if err := mode.UnmarshalText([]byte(name)); err != nil {
		return collider.ModeUndefined, oerror.Newf(oerror.KindInvalidMode, "unknown collider mode %q", name)
	}
	if !mode.Live() {
		return collider.ModeUndefined, oerror.Newf(oerror.KindInvalidMode, "%s cannot be applied", mode)
	}
	return mode, nil
}

// Encode encodes s in the format matching the extension of path: TOML for .toml, YAML for
// .yaml and .yml.
func Encode(s Settings, path string) ([]byte, error) {
	switch format(path) {
	case "toml":
		return toml.Marshal(s)
	case "yaml":
		return yaml.Marshal(s)
	}
	return nil, fmt.Errorf("unsupported settings format %q", filepath.Ext(path))
}

// Decode decodes data over the default settings, so keys missing from data keep their
// default value.
func Decode(data []byte, path string) (Settings, error) {
	s := DefaultSettings()
	var err error
	switch format(path) {
	case "toml":
		err = toml.Unmarshal(data, &s)
	case "yaml":
		err = yaml.Unmarshal(data, &s)
	default:
		err = fmt.Errorf("unsupported settings format %q", filepath.Ext(path))
	}
	if err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Write encodes s to path, replacing any existing file.
func Write(s Settings, path string) error {
	data, err := Encode(s, path)
	if err != nil {
		return fmt.Errorf("failed encoding settings: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed writing settings file: %v", err)
	}
	return nil
}

// SaveDefault will create and save the default settings file. If the file already exists, it will return an error.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return errors.New("settings file already exists")
	}
	return Write(DefaultSettings(), path)
}

// Load will load and validate the settings from your settings file, and return an error if the file does not exist.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Settings{}, errors.New("settings file doesn't exist")
	} else if err != nil {
		return Settings{}, fmt.Errorf("error reading config: %v", err)
	}

	s, err := Decode(data, path)
	if err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %v", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid config: %w", err)
	}
	return s, nil
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	case ".yaml", ".yml":
		return "yaml"
	}
	return ""
}
