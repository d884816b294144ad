package cfg

import (
	"strings"
	"testing"
	"time"
)

// createValidSettings creates a valid Settings struct for testing
func createValidSettings() *Settings {
	return &Settings{
		Port:          5000,
		ReadTimeout:   10 * time.Second,
		WriteTimeout:  10 * time.Second,
		ModelDir:      "models",
		ModelFile:     "rf_model.json",
		FeaturesFile:  "rf_features.json",
		DataFile:      "turnover_data.csv",
		TargetColumn:  "turnover_intention",
		SampleSize:    200,
		SampleSeed:    42,
		CacheSize:     1024,
		LogLevel:      "info",
		LogFormat:     "json",
		LogMaxSizeMB:  100,
		LogMaxBackups: 3,
		LogMaxAgeDays: 28,
	}
}

func TestValidateSettings_ValidConfig(t *testing.T) {
	if err := validateSettings(createValidSettings()); err != nil {
		t.Errorf("Expected valid config to pass, got error: %v", err)
	}
}

func TestValidateSettings_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr string
	}{
		{"port zero", func(s *Settings) { s.Port = 0 }, "port"},
		{"port too high", func(s *Settings) { s.Port = 65536 }, "port"},
		{"read timeout too short", func(s *Settings) { s.ReadTimeout = 500 * time.Millisecond }, "read timeout"},
		{"write timeout too long", func(s *Settings) { s.WriteTimeout = time.Hour }, "write timeout"},
		{"empty model file", func(s *Settings) { s.ModelFile = " " }, "model file"},
		{"empty features file", func(s *Settings) { s.FeaturesFile = "" }, "features file"},
		{"empty data file", func(s *Settings) { s.DataFile = "" }, "data file"},
		{"empty target", func(s *Settings) { s.TargetColumn = "" }, "target column"},
		{"sample size zero", func(s *Settings) { s.SampleSize = 0 }, "sample size"},
		{"sample size huge", func(s *Settings) { s.SampleSize = 1_000_000 }, "sample size"},
		{"negative cache", func(s *Settings) { s.CacheSize = -5 }, "cache size"},
		{"log format", func(s *Settings) { s.LogFormat = "text" }, "log format"},
		{"log level", func(s *Settings) { s.LogLevel = "verbose" }, "log level"},
		{"log file without size", func(s *Settings) { s.LogFile = "rf.log"; s.LogMaxSizeMB = 0 }, "log max size"},
		{"negative retention", func(s *Settings) { s.LogFile = "rf.log"; s.LogMaxBackups = -1 }, "retention"},
		{"empty origin", func(s *Settings) { s.AllowedOrigins = []string{"https://a.example", " "} }, "origins"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := createValidSettings()
			tt.mutate(settings)

			err := validateSettings(settings)
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateSettings_Boundaries(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{"min port", func(s *Settings) { s.Port = 1 }},
		{"max port", func(s *Settings) { s.Port = 65535 }},
		{"cache disabled", func(s *Settings) { s.CacheSize = 0 }},
		{"single sample", func(s *Settings) { s.SampleSize = 1 }},
		{"console logs", func(s *Settings) { s.LogFormat = "console" }},
		{"rotating file", func(s *Settings) { s.LogFile = "logs/rf.log" }},
		{"wildcard origin", func(s *Settings) { s.AllowedOrigins = []string{"*"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := createValidSettings()
			tt.mutate(settings)
			if err := validateSettings(settings); err != nil {
				t.Errorf("Expected valid settings, got %v", err)
			}
		})
	}
}
