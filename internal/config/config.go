// Package config handles service configuration loading and management.
package config

import "path/filepath"

// Config holds all service settings.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Cloth   ClothConfig   `yaml:"cloth"`
	Models  ModelsConfig  `yaml:"models"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// DataConfig holds asset and working directory paths.
type DataConfig struct {
	AssetsDir string `yaml:"assets_dir"` // Garment manifest and model files
	DataDir   string `yaml:"data_dir"`   // Uploaded inputs and generated results
}

// ClothConfig holds cloth simulation parameters.
type ClothConfig struct {
	TimeStep  float64 `yaml:"time_step"`
	Steps     int     `yaml:"steps"`
	Damping   float64 `yaml:"damping"`
	Stiffness float64 `yaml:"stiffness"`
}

// ModelsConfig holds pretrained model cache settings.
type ModelsConfig struct {
	CacheSize int `yaml:"cache_size"` // Max cached garment models per process
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen: "127.0.0.1:8080",
		},
		Data: DataConfig{
			AssetsDir: "assets",
			DataDir:   "data",
		},
		Cloth: ClothConfig{
			TimeStep:  1.0 / 30.0,
			Steps:     28,
			Damping:   0.92,
			Stiffness: 14.0,
		},
		Models: ModelsConfig{
			CacheSize: 32,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// GarmentsDir returns the garment catalog directory.
func (c *Config) GarmentsDir() string {
	return filepath.Join(c.Data.AssetsDir, "garments")
}

// InputDir returns the directory for uploaded photographs.
func (c *Config) InputDir() string {
	return filepath.Join(c.Data.DataDir, "inputs")
}

// ResultDir returns the directory for generated artifacts.
func (c *Config) ResultDir() string {
	return filepath.Join(c.Data.DataDir, "results")
}

// LogDir returns the directory for log files.
func (c *Config) LogDir() string {
	return filepath.Join(c.Data.DataDir, "logs")
}
