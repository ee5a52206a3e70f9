package nrfnet

import (
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of a gateway's config file.
type FileConfig struct {
	Address string `yaml:"address"`

	FragHeads    int    `yaml:"frag_heads"`
	FragHoles    int    `yaml:"frag_holes"`
	FragExpireMs uint32 `yaml:"frag_expire_ms"`

	FortunaPools           int    `yaml:"fortuna_pools"`
	FortunaReseedTimeoutUs uint64 `yaml:"fortuna_reseed_timeout_us"`

	Forward bool `yaml:"forward"`

	Radio       string `yaml:"radio"` // "gpio" or "pty"
	GPIOChip    string `yaml:"gpio_chip"`
	GPIOCELine  int    `yaml:"gpio_ce_line"`
	GPIOIRQLine int    `yaml:"gpio_irq_line"`

	SPIDevice     string `yaml:"spi_device"`
	SPIMaxSpeedHz uint32 `yaml:"spi_max_speed_hz"`

	Advertise     bool   `yaml:"advertise"`
	AdvertiseName string `yaml:"advertise_name"`
	AdvertisePort int    `yaml:"advertise_port"`
}

// DefaultFileConfig returns the sizing and timing defaults applied before a
// config file is parsed over them.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		FragHeads:              16,
		FragHoles:              32,
		FragExpireMs:           10000,
		FortunaPools:           16,
		FortunaReseedTimeoutUs: 100000,
		Radio:                  "pty",
		AdvertisePort:          7246,
		GPIOChip:               "gpiochip0",
		GPIOCELine:             22,
		GPIOIRQLine:            23,
		SPIDevice:              "/dev/spidev0.0",
		SPIMaxSpeedHz:          8000000,
	}
}

// LoadConfig reads and parses a YAML config file at path, starting from
// DefaultFileConfig so unset fields keep sensible values.
func LoadConfig(path string) (FileConfig, error) {
	cfg := DefaultFileConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// NodeConfig extracts the Node sizing fields from a FileConfig.
func (c FileConfig) NodeConfig() Config {
	return Config{
		FragHeads:    c.FragHeads,
		FragHoles:    c.FragHoles,
		FragExpireMs: c.FragExpireMs,
	}
}
