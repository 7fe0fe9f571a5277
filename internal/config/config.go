// Package config loads operator settings from defaults, an optional
// toa.toml file, an optional .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Default values mirror what the bot deployment ships with.
const (
	DefaultBuild        = "v27"
	DefaultURL          = "https://clarobrasil.etadirect.com/"
	DefaultBridgeHost   = "127.0.0.1"
	DefaultBridgePort   = 8787
	DefaultTimeout      = 8
	DefaultWaitSeconds  = 20
	DefaultPollInterval = 1
)

// Config is the top-level configuration shared by both commands.
type Config struct {
	// Build is the tag printed in front of every status line.
	Build   string        `toml:"build"`
	Browser BrowserConfig `toml:"browser"`
	Bridge  BridgeConfig  `toml:"bridge"`
	Lookup  LookupConfig  `toml:"lookup"`
}

// BrowserConfig configures toa-open.
type BrowserConfig struct {
	URL string `toml:"url"`
}

// BridgeConfig locates the local bridge service.
type BridgeConfig struct {
	Host           string  `toml:"host"`
	Port           int     `toml:"port"`
	Token          string  `toml:"token"`           // sent as x-toa-token when non-empty
	TimeoutSeconds float64 `toml:"timeout_seconds"` // per request
}

// LookupConfig controls the poll loop of toa-lookup.
type LookupConfig struct {
	WaitSeconds  float64 `toml:"wait_seconds"`
	PollInterval float64 `toml:"poll_interval"`
	// Queue asks the bridge to enqueue the contract for the browser
	// extension before polling starts.
	Queue bool `toml:"queue"`
}

// BuildTag returns the status tag straight from the environment. It is
// used for messages printed before the configuration is loaded.
func BuildTag() string {
	if v := os.Getenv("BOT_BUILD"); v != "" {
		return v
	}
	return DefaultBuild
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Build:   DefaultBuild,
		Browser: BrowserConfig{URL: DefaultURL},
		Bridge: BridgeConfig{
			Host:           DefaultBridgeHost,
			Port:           DefaultBridgePort,
			TimeoutSeconds: DefaultTimeout,
		},
		Lookup: LookupConfig{
			WaitSeconds:  DefaultWaitSeconds,
			PollInterval: DefaultPollInterval,
		},
	}
}

// Load builds the effective configuration. Both path and envFile are
// optional: an empty name or a missing file is skipped. Environment
// variables always win over the TOML file.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	// godotenv.Load never overrides variables that are already set.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("BOT_BUILD"); v != "" {
		c.Build = v
	}
	if v := os.Getenv("TOA_URL"); v != "" {
		c.Browser.URL = v
	}
	if v := os.Getenv("TOA_BRIDGE_HOST"); v != "" {
		c.Bridge.Host = v
	}
	if v := os.Getenv("TOA_BRIDGE_PORT"); v != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TOA_BRIDGE_PORT: %w", err)
		}
		c.Bridge.Port = port
	}
	if v, ok := os.LookupEnv("TOA_BRIDGE_TOKEN"); ok {
		c.Bridge.Token = v
	}
	if v := os.Getenv("TOA_PY_WAIT_SECONDS"); v != "" {
		secs, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("TOA_PY_WAIT_SECONDS: %w", err)
		}
		c.Lookup.WaitSeconds = secs
	}
	if v := os.Getenv("TOA_PY_POLL_INTERVAL"); v != "" {
		secs, err := parseSeconds(v)
		if err != nil {
			return fmt.Errorf("TOA_PY_POLL_INTERVAL: %w", err)
		}
		c.Lookup.PollInterval = secs
	}
	return nil
}

func parseSeconds(v string) (float64, error) {
	secs, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, fmt.Errorf("not a finite number: %q", v)
	}
	return secs, nil
}

func (c *Config) validate() error {
	if c.Build == "" {
		c.Build = DefaultBuild
	}

	if err := ValidURL(c.Browser.URL); err != nil {
		return fmt.Errorf("browser.url: %w", err)
	}

	if c.Bridge.Host == "" {
		return fmt.Errorf("bridge.host is required")
	}
	if c.Bridge.Port < 1 || c.Bridge.Port > 65535 {
		return fmt.Errorf("bridge.port out of range: %d", c.Bridge.Port)
	}
	for name, v := range map[string]float64{
		"bridge.timeout_seconds": c.Bridge.TimeoutSeconds,
		"lookup.wait_seconds":    c.Lookup.WaitSeconds,
		"lookup.poll_interval":   c.Lookup.PollInterval,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite number", name)
		}
	}

	// Checked after conversion: sub-nanosecond values truncate to zero.
	if c.Bridge.Timeout() <= 0 {
		return fmt.Errorf("bridge.timeout_seconds must be positive")
	}
	if c.Lookup.Interval() <= 0 {
		return fmt.Errorf("lookup.poll_interval must be positive")
	}
	// A negative wait is a deadline that has already passed: one attempt.
	if c.Lookup.WaitSeconds < 0 {
		c.Lookup.WaitSeconds = 0
	}
	return nil
}

// ValidURL checks that raw is an absolute http or https address.
func ValidURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("not an http(s) address: %q", raw)
	}
	return nil
}

// BaseURL returns the bridge root, e.g. "http://127.0.0.1:8787".
func (b BridgeConfig) BaseURL() string {
	return "http://" + net.JoinHostPort(b.Host, strconv.Itoa(b.Port))
}

// Timeout is the per-request HTTP timeout.
func (b BridgeConfig) Timeout() time.Duration {
	return seconds(b.TimeoutSeconds)
}

// Wait is the total time the poller keeps trying.
func (l LookupConfig) Wait() time.Duration {
	return seconds(l.WaitSeconds)
}

// Interval is the pause between two polls.
func (l LookupConfig) Interval() time.Duration {
	return seconds(l.PollInterval)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
