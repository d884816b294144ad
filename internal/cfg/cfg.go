// Package cfg loads service settings from an optional YAML file and the
// environment. Environment variables always override file values.
package cfg

import (
	"fmt"
	"os"
	"strings"
	"time"

	"turnover-rf/internal/common"

	"gopkg.in/yaml.v3"
)

type Settings struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string // feed origins; empty allows any

	ModelDir     string
	ModelFile    string
	FeaturesFile string
	DataFile     string
	TargetColumn string
	SampleSize   int
	SampleSeed   int64
	CacheSize    int

	ReportPath string // empty disables the prediction report store

	LogLevel      string
	LogFormat     string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

type ConfigFile struct {
	Server struct {
		Port           int      `yaml:"port"`
		ReadTimeout    string   `yaml:"readTimeout"`
		WriteTimeout   string   `yaml:"writeTimeout"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`

	Model struct {
		Dir          string `yaml:"dir"`
		ModelFile    string `yaml:"modelFile"`
		FeaturesFile string `yaml:"featuresFile"`
		DataFile     string `yaml:"dataFile"`
		TargetColumn string `yaml:"targetColumn"`
		SampleSize   int    `yaml:"sampleSize"`
		SampleSeed   int64  `yaml:"sampleSeed"`
		CacheSize    int    `yaml:"cacheSize"`
	} `yaml:"model"`

	Report struct {
		Path string `yaml:"path"`
	} `yaml:"report"`

	Log struct {
		Level      string `yaml:"level"`
		Format     string `yaml:"format"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"maxSizeMB"`
		MaxBackups int    `yaml:"maxBackups"`
		MaxAgeDays int    `yaml:"maxAgeDays"`
	} `yaml:"log"`
}

func Load() (Settings, error) {
	// Try to load from YAML file first
	if configPath := os.Getenv(common.EnvConfigFile); configPath != "" {
		return loadFromYAML(configPath)
	}

	// Fallback to environment variables
	return loadFromEnv()
}

// defaultConfigFile returns a ConfigFile holding every default, so keys
// absent from the YAML document keep their default value.
func defaultConfigFile() ConfigFile {
	var c ConfigFile
	c.Server.Port = common.DefaultPort
	c.Server.ReadTimeout = (common.DefaultReadTimeoutSec * time.Second).String()
	c.Server.WriteTimeout = (common.DefaultWriteTimeoutSec * time.Second).String()
	c.Model.Dir = common.DefaultModelDir
	c.Model.ModelFile = common.DefaultModelFile
	c.Model.FeaturesFile = common.DefaultFeaturesFile
	c.Model.DataFile = common.DefaultDataFile
	c.Model.TargetColumn = common.DefaultTargetColumn
	c.Model.SampleSize = common.DefaultSampleSize
	c.Model.SampleSeed = common.DefaultSampleSeed
	c.Model.CacheSize = common.DefaultCacheSize
	c.Log.Level = common.DefaultLogLevel
	c.Log.Format = common.DefaultLogFormat
	c.Log.MaxSizeMB = common.DefaultLogMaxSizeMB
	c.Log.MaxBackups = common.DefaultLogBackups
	c.Log.MaxAgeDays = common.DefaultLogMaxAge
	return c
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := defaultConfigFile()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	readTimeout, err := time.ParseDuration(config.Server.ReadTimeout)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid server.readTimeout %q: %w", config.Server.ReadTimeout, err)
	}
	writeTimeout, err := time.ParseDuration(config.Server.WriteTimeout)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid server.writeTimeout %q: %w", config.Server.WriteTimeout, err)
	}

	return finish(fromConfigFile(config, readTimeout, writeTimeout))
}

func loadFromEnv() (Settings, error) {
	config := defaultConfigFile()
	return finish(fromConfigFile(config,
		common.DefaultReadTimeoutSec*time.Second,
		common.DefaultWriteTimeoutSec*time.Second,
	))
}

func fromConfigFile(c ConfigFile, readTimeout, writeTimeout time.Duration) Settings {
	return Settings{
		Port:           c.Server.Port,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		AllowedOrigins: c.Server.AllowedOrigins,
		ModelDir:       c.Model.Dir,
		ModelFile:      c.Model.ModelFile,
		FeaturesFile:   c.Model.FeaturesFile,
		DataFile:       c.Model.DataFile,
		TargetColumn:   c.Model.TargetColumn,
		SampleSize:     c.Model.SampleSize,
		SampleSeed:     c.Model.SampleSeed,
		CacheSize:      c.Model.CacheSize,
		ReportPath:     c.Report.Path,
		LogLevel:       c.Log.Level,
		LogFormat:      c.Log.Format,
		LogFile:        c.Log.File,
		LogMaxSizeMB:   c.Log.MaxSizeMB,
		LogMaxBackups:  c.Log.MaxBackups,
		LogMaxAgeDays:  c.Log.MaxAgeDays,
	}
}

// finish applies environment overrides and validates the result.
func finish(s Settings) (Settings, error) {
	applyEnv(&s)
	if err := validateSettings(&s); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return s, nil
}

func applyEnv(s *Settings) {
	s.Port = getIntOrDefault(common.EnvPort, s.Port)
	s.ReadTimeout = getDurationOrDefault(common.EnvReadTimeout, s.ReadTimeout)
	s.WriteTimeout = getDurationOrDefault(common.EnvWriteTimeout, s.WriteTimeout)
	s.AllowedOrigins = splitOrDefault(os.Getenv(common.EnvAllowedOrigins), s.AllowedOrigins)

	s.ModelDir = getEnvOrDefault(common.EnvModelDir, s.ModelDir)
	s.ModelFile = getEnvOrDefault(common.EnvModelFile, s.ModelFile)
	s.FeaturesFile = getEnvOrDefault(common.EnvFeaturesFile, s.FeaturesFile)
	s.DataFile = getEnvOrDefault(common.EnvDataFile, s.DataFile)
	s.TargetColumn = getEnvOrDefault(common.EnvTargetColumn, s.TargetColumn)
	s.SampleSize = getIntOrDefault(common.EnvSampleSize, s.SampleSize)
	s.SampleSeed = getInt64OrDefault(common.EnvSampleSeed, s.SampleSeed)
	s.CacheSize = getIntOrDefault(common.EnvCacheSize, s.CacheSize)

	s.ReportPath = getEnvOrDefault(common.EnvReportPath, s.ReportPath)

	s.LogLevel = getEnvOrDefault(common.EnvLogLevel, s.LogLevel)
	s.LogFormat = getEnvOrDefault(common.EnvLogFormat, s.LogFormat)
	s.LogFile = getEnvOrDefault(common.EnvLogFile, s.LogFile)
	s.LogMaxSizeMB = getIntOrDefault(common.EnvLogMaxSizeMB, s.LogMaxSizeMB)
	s.LogMaxBackups = getIntOrDefault(common.EnvLogMaxBackups, s.LogMaxBackups)
	s.LogMaxAgeDays = getIntOrDefault(common.EnvLogMaxAgeDays, s.LogMaxAgeDays)
}

// validateSettings performs validation of configuration values
func validateSettings(settings *Settings) error {
	if settings.Port < common.MinPort || settings.Port > common.MaxPort {
		return fmt.Errorf("port must be between %d and %d, got %d", common.MinPort, common.MaxPort, settings.Port)
	}
	if settings.ReadTimeout < time.Second || settings.ReadTimeout > 5*time.Minute {
		return fmt.Errorf("read timeout must be between 1s and 5m, got %v", settings.ReadTimeout)
	}
	if settings.WriteTimeout < time.Second || settings.WriteTimeout > 5*time.Minute {
		return fmt.Errorf("write timeout must be between 1s and 5m, got %v", settings.WriteTimeout)
	}

	// Artifacts
	if strings.TrimSpace(settings.ModelFile) == "" {
		return fmt.Errorf("model file cannot be empty")
	}
	if strings.TrimSpace(settings.FeaturesFile) == "" {
		return fmt.Errorf("features file cannot be empty")
	}
	if strings.TrimSpace(settings.DataFile) == "" {
		return fmt.Errorf("data file cannot be empty")
	}
	if strings.TrimSpace(settings.TargetColumn) == "" {
		return fmt.Errorf("target column cannot be empty")
	}
	if settings.SampleSize < common.MinSampleSize || settings.SampleSize > common.MaxSampleSize {
		return fmt.Errorf("sample size must be between %d and %d, got %d", common.MinSampleSize, common.MaxSampleSize, settings.SampleSize)
	}
	if settings.CacheSize < 0 || settings.CacheSize > common.MaxCacheSize {
		return fmt.Errorf("cache size must be between 0 and %d, got %d", common.MaxCacheSize, settings.CacheSize)
	}

	// Logging
	switch strings.ToLower(settings.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("log format must be json or console, got %q", settings.LogFormat)
	}
	switch strings.ToLower(settings.LogLevel) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("invalid log level %q", settings.LogLevel)
	}
	if settings.LogFile != "" {
		if settings.LogMaxSizeMB <= 0 {
			return fmt.Errorf("log max size must be positive, got %d", settings.LogMaxSizeMB)
		}
		if settings.LogMaxBackups < 0 || settings.LogMaxAgeDays < 0 {
			return fmt.Errorf("log retention values cannot be negative")
		}
	}

	for _, origin := range settings.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("allowed origins cannot contain empty entries")
		}
	}

	return nil
}
