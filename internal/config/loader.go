package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stigoleg/keepalive-motion/internal/logging"
	"github.com/stigoleg/keepalive-motion/internal/util"
)

const (
	appName    = "keepalive"
	configName = "config"
	configType = "toml"
	envPrefix  = "KEEPALIVE"
	logName    = "keepalive.log"

	InputXdotool = "xdotool"
	InputUinput  = "uinput"
)

var (
	// ErrNoConfigFile is returned by Watch when no file was loaded.
	ErrNoConfigFile = errors.New("no configuration file loaded")

	errDurationAndUntil = errors.New("session duration and until are mutually exclusive")
)

// flagKeys maps configuration keys to the command-line flags bound to them.
var flagKeys = map[string]string{
	"session.duration":  "duration",
	"session.until":     "until",
	"motion.radius":     "radius",
	"activity.interval": "interval",
	"logging.level":     "log-level",
	"logging.format":    "log-format",
	"logging.file":      "log-file",
	"ui.headless":       "headless",
	"platform.input":    "input",
}

// Dir returns the per-user configuration directory
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}

// DefaultPath is where `keepalive config init` writes the file
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configName+"."+configType), nil
}

// DefaultLogFile is the log destination while the TUI owns the terminal
func DefaultLogFile() string {
	dir, err := Dir()
	if err != nil {
		return logName
	}
	return filepath.Join(dir, logName)
}

// Manager handles configuration loading and watching.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
	log       zerolog.Logger
}

// NewManager creates a configuration manager. An empty file searches the
// working directory and then the user configuration directory.
func NewManager(file string, log zerolog.Logger) (*Manager, error) {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType(configType)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(".")
		dir, err := Dir()
		if err != nil {
			log.Debug().Err(err).Msg("No user config directory")
		} else {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", envPrefix+"_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind %s_LOG_LEVEL: %w", envPrefix, err)
	}
	if err := v.BindEnv("logging.format", envPrefix+"_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind %s_LOG_FORMAT: %w", envPrefix, err)
	}

	return &Manager{
		viper: v,
		log:   log,
	}, nil
}

// BindFlags lets command-line flags override every other source. Flags
// missing from fs are skipped.
func (m *Manager) BindFlags(fs *pflag.FlagSet) error {
	for key, name := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := m.viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Load reads defaults, the config file and the environment.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	cfg, err := m.build()
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

func (m *Manager) setDefaults() {
	d := Default()

	m.viper.SetDefault("motion.radius", d.Motion.Radius)
	m.viper.SetDefault("motion.degree_increment", d.Motion.DegreeIncrement)
	m.viper.SetDefault("motion.ticks_per_revolution", d.Motion.TicksPerRevolution)
	m.viper.SetDefault("motion.initial_step_delay_ticks", d.Motion.InitialStepDelayTicks)

	m.viper.SetDefault("activity.interval", d.Activity.Interval)
	m.viper.SetDefault("activity.quiet_checks", d.Activity.QuietChecks)

	m.viper.SetDefault("session.duration", d.Session.Duration)
	m.viper.SetDefault("session.until", d.Session.Until)

	m.viper.SetDefault("logging.level", d.Logging.Level)
	m.viper.SetDefault("logging.format", d.Logging.Format)
	m.viper.SetDefault("logging.file", d.Logging.File)

	m.viper.SetDefault("ui.headless", d.UI.Headless)
	m.viper.SetDefault("platform.input", d.Platform.Input)
}

func (m *Manager) readConfigFile() error {
	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			m.log.Debug().Msg("No config file found, using defaults")
			return nil
		}
		file := m.viper.ConfigFileUsed()
		return fmt.Errorf("failed to read config file %s: %w\nCheck the file format (must be valid TOML) and permissions", file, err)
	}
	m.log.Debug().Str("file", m.viper.ConfigFileUsed()).Msg("Config file loaded")
	return nil
}

func (m *Manager) build() (*Config, error) {
	cfg := &Config{}
	if err := m.viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	normalize(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func normalize(cfg *Config) {
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
	cfg.Logging.File = strings.TrimSpace(cfg.Logging.File)
	cfg.Session.Duration = strings.TrimSpace(cfg.Session.Duration)
	cfg.Session.Until = strings.TrimSpace(cfg.Session.Until)

	switch strings.ToLower(strings.TrimSpace(cfg.Platform.Input)) {
	case "", InputXdotool:
		cfg.Platform.Input = InputXdotool
	case InputUinput:
		cfg.Platform.Input = InputUinput
	}
}

// Validate checks every section and joins the problems found
func Validate(cfg *Config) error {
	var errs []error

	if err := cfg.Settings().Validate(); err != nil {
		errs = append(errs, err)
	}

	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		errs = append(errs, err)
	}
	switch cfg.Logging.Format {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q (use %s or %s)",
			cfg.Logging.Format, logging.FormatConsole, logging.FormatJSON))
	}

	switch cfg.Platform.Input {
	case InputXdotool, InputUinput:
	default:
		errs = append(errs, fmt.Errorf("invalid input backend %q (use %s or %s)",
			cfg.Platform.Input, InputXdotool, InputUinput))
	}

	if cfg.Session.Duration != "" && cfg.Session.Until != "" {
		errs = append(errs, errDurationAndUntil)
	} else if cfg.Session.Duration != "" {
		if _, err := util.ParseDuration(cfg.Session.Duration); err != nil {
			errs = append(errs, err)
		}
	} else if cfg.Session.Until != "" {
		if _, err := util.ParseTimeString(cfg.Session.Until); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return Default()
	}
	c := *m.config
	return &c
}

// FileUsed returns the loaded config file, or "" when running on defaults.
func (m *Manager) FileUsed() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viper.ConfigFileUsed()
}

// OnConfigChange registers a callback for configuration reloads.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

// Watch reloads the configuration whenever the file changes. Invalid
// edits are logged and the previous configuration stays in effect.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil
	}
	if m.viper.ConfigFileUsed() == "" {
		return ErrNoConfigFile
	}

	m.viper.OnConfigChange(m.handleChange)
	m.viper.WatchConfig()
	m.watching = true
	return nil
}

func (m *Manager) handleChange(e fsnotify.Event) {
	m.log.Debug().Str("op", e.Op.String()).Str("file", e.Name).Msg("Config change detected")

	m.mu.Lock()
	cfg, err := m.build()
	if err != nil {
		m.mu.Unlock()
		m.log.Warn().Err(err).Msg("Ignoring invalid configuration change")
		return
	}
	m.config = cfg
	callbacks := make([]func(*Config), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	m.log.Info().Str("file", e.Name).Msg("Configuration reloaded")
	for _, cb := range callbacks {
		c := *cfg
		cb(&c)
	}
}
