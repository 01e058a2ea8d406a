// Package config loads the TOML configuration of the sensorlink tools.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Transport names accepted in the config file.
const (
	TransportMockI2C     = "mock-i2c"
	TransportLinuxI2C    = "linux-i2c"
	TransportShdlcSerial = "shdlc-serial"
)

type I2CConfig struct {
	Device string `toml:"device"`
	// SlaveAddress is a pointer so that the general call address 0 stays
	// distinguishable from an absent setting.
	SlaveAddress *byte `toml:"slave_address"`
}

// Address is the configured slave address, or the SHT4x factory address
// when the config file leaves it out.
func (c I2CConfig) Address() byte {
	if c.SlaveAddress != nil {
		return *c.SlaveAddress
	}
	return 0x44
}

type SerialConfig struct {
	Port               string `toml:"port"`
	Baud               int    `toml:"baud"`
	SlaveAddress       byte   `toml:"slave_address"`
	ChannelDelayMillis int    `toml:"channel_delay_ms"`
}

type Config struct {
	Transport      string       `toml:"transport"`
	LogLevel       string       `toml:"log_level"`
	MetricsAddr    string       `toml:"metrics_addr"`
	IntervalMillis int          `toml:"interval_ms"`
	I2C            I2CConfig    `toml:"i2c"`
	Serial         SerialConfig `toml:"serial"`
}

// Interval is the pause between measurements.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMillis) * time.Millisecond
}

// ChannelDelay is the SHDLC roundtrip allowance.
func (c Config) ChannelDelay() time.Duration {
	return time.Duration(c.Serial.ChannelDelayMillis) * time.Millisecond
}

// Default is the configuration used when no file is given: a mocked
// sensor, so the tool runs without hardware.
func Default() Config {
	cfg := Config{}
	applyDefaults(&cfg)
	return cfg
}

// Load reads and validates a config file.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Transport == "" {
		cfg.Transport = TransportMockI2C
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.IntervalMillis == 0 {
		cfg.IntervalMillis = 5000
	}
	if cfg.I2C.Device == "" {
		cfg.I2C.Device = "/dev/i2c-1"
	}
	if cfg.Serial.Port == "" {
		cfg.Serial.Port = "/dev/ttyUSB0"
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = 115200
	}
	if cfg.Serial.ChannelDelayMillis == 0 {
		cfg.Serial.ChannelDelayMillis = 50
	}
}

// Validate rejects configurations no transport can serve.
func Validate(cfg Config) error {
	switch cfg.Transport {
	case TransportMockI2C, TransportLinuxI2C, TransportShdlcSerial:
	default:
		return fmt.Errorf("config: unknown transport %q", cfg.Transport)
	}
	if cfg.IntervalMillis < 0 {
		return fmt.Errorf("config: negative interval_ms %d", cfg.IntervalMillis)
	}
	if cfg.Transport == TransportShdlcSerial && cfg.Serial.Baud <= 0 {
		return fmt.Errorf("config: invalid baud %d", cfg.Serial.Baud)
	}
	return nil
}
