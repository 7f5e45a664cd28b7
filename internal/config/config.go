// ABOUTME: Bot settings loading with global + explicit file merge and defaults
// ABOUTME: YAML via gopkg.in/yaml.v3; durations accept Go syntax ("1s", "2m")

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied to zero-valued settings.
const (
	DefaultPollInterval        = time.Second
	DefaultMaxBackoff          = time.Minute
	DefaultDispatchConcurrency = 1
	DefaultMaxPostChars        = 5000
	DefaultRequestsPerSecond   = 5.0
	DefaultLogLevel            = "info"

	// AccessTokenEnv is read when no access_token is configured.
	AccessTokenEnv = "FEDIBOT_ACCESS_TOKEN"
)

// Settings holds the merged configuration.
type Settings struct {
	InstanceURL         string        `yaml:"instance_url,omitempty"`
	AccessToken         string        `yaml:"access_token,omitempty"`
	About               string        `yaml:"about,omitempty"`
	PollInterval        time.Duration `yaml:"poll_interval,omitempty"`
	MaxBackoff          time.Duration `yaml:"max_backoff,omitempty"`
	DispatchConcurrency int           `yaml:"dispatch_concurrency,omitempty"`
	MaxPostChars        int           `yaml:"max_post_chars,omitempty"`
	RequestsPerSecond   float64       `yaml:"requests_per_second,omitempty"`
	LogLevel            string        `yaml:"log_level,omitempty"`
	UserAgent           string        `yaml:"user_agent,omitempty"`
}

// Load reads the global settings file and then the file at path (if not
// empty), merges them with the explicit file winning, expands ${VAR}
// references and fills defaults. A missing global file is not an error; a
// missing explicit file is.
func Load(path string) (*Settings, error) {
	global, err := loadFile(GlobalConfigFile())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	var explicit *Settings
	if path != "" {
		explicit, err = loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}

	merged := merge(global, explicit)
	ResolveEnvVars(merged)
	if merged.AccessToken == "" {
		merged.AccessToken = os.Getenv(AccessTokenEnv)
	}
	merged.ApplyDefaults()
	return merged, nil
}

// loadFile reads Settings from a YAML file. Returns zero Settings if the file
// does not exist.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge overlays override onto base. Non-zero override values win.
func merge(base, override *Settings) *Settings {
	if base == nil {
		base = &Settings{}
	}
	if override == nil {
		result := *base
		return &result
	}

	result := *base

	if override.InstanceURL != "" {
		result.InstanceURL = override.InstanceURL
	}
	if override.AccessToken != "" {
		result.AccessToken = override.AccessToken
	}
	if override.About != "" {
		result.About = override.About
	}
	if override.PollInterval != 0 {
		result.PollInterval = override.PollInterval
	}
	if override.MaxBackoff != 0 {
		result.MaxBackoff = override.MaxBackoff
	}
	if override.DispatchConcurrency != 0 {
		result.DispatchConcurrency = override.DispatchConcurrency
	}
	if override.MaxPostChars != 0 {
		result.MaxPostChars = override.MaxPostChars
	}
	if override.RequestsPerSecond != 0 {
		result.RequestsPerSecond = override.RequestsPerSecond
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.UserAgent != "" {
		result.UserAgent = override.UserAgent
	}

	return &result
}

// ApplyDefaults fills zero-valued fields.
func (s *Settings) ApplyDefaults() {
	if s.PollInterval == 0 {
		s.PollInterval = DefaultPollInterval
	}
	if s.MaxBackoff == 0 {
		s.MaxBackoff = DefaultMaxBackoff
	}
	if s.DispatchConcurrency == 0 {
		s.DispatchConcurrency = DefaultDispatchConcurrency
	}
	if s.MaxPostChars == 0 {
		s.MaxPostChars = DefaultMaxPostChars
	}
	if s.RequestsPerSecond == 0 {
		s.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if s.LogLevel == "" {
		s.LogLevel = DefaultLogLevel
	}
}

// Validate reports every invalid field at once.
func (s *Settings) Validate() error {
	var errs []error
	if strings.TrimSpace(s.InstanceURL) == "" {
		errs = append(errs, errors.New("instance_url is required"))
	}
	if s.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval must be positive, got %s", s.PollInterval))
	}
	if s.MaxBackoff < s.PollInterval {
		errs = append(errs, fmt.Errorf("max_backoff (%s) must not be shorter than poll_interval (%s)", s.MaxBackoff, s.PollInterval))
	}
	if s.DispatchConcurrency < 1 {
		errs = append(errs, fmt.Errorf("dispatch_concurrency must be at least 1, got %d", s.DispatchConcurrency))
	}
	if s.MaxPostChars < 1 {
		errs = append(errs, fmt.Errorf("max_post_chars must be positive, got %d", s.MaxPostChars))
	}
	if s.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("requests_per_second must not be negative, got %g", s.RequestsPerSecond))
	}
	return errors.Join(errs...)
}
