package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	GPS GPSConfig `yaml:"gps"`
}

type GPSConfig struct {
	// Device is the serial device path. Empty or "auto" means detect.
	Device string `yaml:"device"`

	// Baud 0 leaves the tty settings untouched.
	Baud int `yaml:"baud"`

	LineBuffer     int           `yaml:"line_buffer"`
	MaxAttempts    int           `yaml:"max_attempts"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	VerifyChecksum bool          `yaml:"verify_checksum"`
	RetryRate      int           `yaml:"retry_rate"`
}

// Default returns the settings used when no config file is given.
func Default() Config {
	return Config{GPS: GPSConfig{
		LineBuffer:  124,
		MaxAttempts: 20,
		RetryRate:   50,
	}}
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	g := c.GPS
	if g.LineBuffer < 8 {
		return fmt.Errorf("gps.line_buffer must be >= 8")
	}
	if g.MaxAttempts <= 0 {
		return fmt.Errorf("gps.max_attempts must be > 0")
	}
	if g.ReadTimeout < 0 {
		return fmt.Errorf("gps.read_timeout must be >= 0")
	}
	if g.RetryRate <= 0 {
		return fmt.Errorf("gps.retry_rate must be > 0")
	}
	switch g.Baud {
	case 0, 4800, 9600, 19200, 38400, 57600, 115200:
	default:
		return fmt.Errorf("gps.baud %d is not supported", g.Baud)
	}
	return nil
}
