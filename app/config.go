package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"sparkwatch/hal"
	"sparkwatch/sparkos/tasks/watchface"
)

// FileConfig is the host configuration file.
//
//	display:   {width: 144, height: 168, scale: 3}
//	clock:     {style: 24h, offset: 0s}
//	sync:      {addr: 127.0.0.1:9844}
//	flash:     {path: spark.flash}
//	bluetooth: {display: connectivity, connected: true}
//	battery:   {percent: 80, charging: false}
//	log:       {level: info}
type FileConfig struct {
	Display struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
		Scale  int `yaml:"scale"`
	} `yaml:"display"`

	Clock struct {
		Style  string `yaml:"style"`  // 24h | 12h
		Offset string `yaml:"offset"` // Go duration added to the host clock
	} `yaml:"clock"`

	Sync struct {
		Addr string `yaml:"addr"`
	} `yaml:"sync"`

	Flash struct {
		Path string `yaml:"path"`
	} `yaml:"flash"`

	Bluetooth struct {
		Display   string `yaml:"display"` // connectivity | vibe-gated
		Connected bool   `yaml:"connected"`
	} `yaml:"bluetooth"`

	Battery struct {
		Percent  int  `yaml:"percent"`
		Charging bool `yaml:"charging"`
	} `yaml:"battery"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultFileConfig returns the configuration used without a file.
func DefaultFileConfig() *FileConfig {
	c := &FileConfig{}
	c.Display.Scale = 3
	c.Clock.Style = "24h"
	c.Bluetooth.Display = watchface.BluetoothConnectivity.String()
	c.Bluetooth.Connected = true
	c.Battery.Percent = 80
	c.Log.Level = "info"
	return c
}

// LoadFileConfig reads a YAML file over the defaults and validates it.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	c := DefaultFileConfig()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config file %q: %w", path, err)
	}
	return c, nil
}

// Validate checks values that the zero-value defaults cannot repair.
func (c *FileConfig) Validate() error {
	if c.Display.Width < 0 || c.Display.Height < 0 || c.Display.Scale < 0 {
		return fmt.Errorf("display: negative size")
	}
	if c.Clock.Style != "24h" && c.Clock.Style != "12h" {
		return fmt.Errorf("clock.style %q: want 24h or 12h", c.Clock.Style)
	}
	if _, err := c.clockOffset(); err != nil {
		return err
	}
	if _, err := watchface.ParseBluetoothDisplay(c.Bluetooth.Display); err != nil {
		return err
	}
	if c.Battery.Percent < 0 || c.Battery.Percent > 100 {
		return fmt.Errorf("battery.percent %d: want 0..100", c.Battery.Percent)
	}
	return nil
}

func (c *FileConfig) clockOffset() (time.Duration, error) {
	if c.Clock.Offset == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Clock.Offset)
	if err != nil {
		return 0, fmt.Errorf("clock.offset: %w", err)
	}
	return d, nil
}

// Host maps the file onto the emulated device configuration.
func (c *FileConfig) Host() (hal.HostConfig, error) {
	if err := c.Validate(); err != nil {
		return hal.HostConfig{}, err
	}
	off, _ := c.clockOffset()
	return hal.HostConfig{
		Width:       c.Display.Width,
		Height:      c.Display.Height,
		Scale:       c.Display.Scale,
		FlashPath:   c.Flash.Path,
		SyncAddr:    c.Sync.Addr,
		Clock24h:    c.Clock.Style == "24h",
		ClockOffset: off,
		Battery: hal.BatteryState{
			Percent:  uint8(c.Battery.Percent),
			Charging: c.Battery.Charging,
			Plugged:  c.Battery.Charging,
		},
		Bluetooth: c.Bluetooth.Connected,
		LogLevel:  c.Log.Level,
	}, nil
}

// App maps the file onto the OS configuration.
func (c *FileConfig) App() (Config, error) {
	d, err := watchface.ParseBluetoothDisplay(c.Bluetooth.Display)
	if err != nil {
		return Config{}, err
	}
	return Config{BluetoothDisplay: d}, nil
}
