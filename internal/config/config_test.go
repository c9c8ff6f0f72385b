package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults without file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "data/upsc_results.csv", cfg.Dataset.Path)
				assert.Equal(t, ',', cfg.Dataset.DelimiterRune())
				assert.Equal(t, 25, cfg.Dashboard.ScoreStep)
				assert.Equal(t, 2007, cfg.Dashboard.YearMin)
				assert.Equal(t, 2017, cfg.Dashboard.YearMax)
				assert.Equal(t, 1250, cfg.Dashboard.RankMax)
				assert.Equal(t, 20, cfg.Dashboard.HistogramBins)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
		{
			name: "file overrides defaults",
			file: `
server:
  port: 9090
dataset:
  path: /srv/results.tsv
  delimiter: tab
  watch: true
  watch_debounce: 2s
dashboard:
  histogram_bins: 40
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "/srv/results.tsv", cfg.Dataset.Path)
				assert.Equal(t, '\t', cfg.Dataset.DelimiterRune())
				assert.True(t, cfg.Dataset.Watch)
				assert.Equal(t, 2*time.Second, cfg.Dataset.WatchDebounce)
				assert.Equal(t, 40, cfg.Dashboard.HistogramBins)
				// untouched keys keep defaults
				assert.Equal(t, 25, cfg.Dashboard.RankStep)
				assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
			},
		},
		{
			name: "env wins over file",
			file: "server:\n  port: 9090\n",
			env: map[string]string{
				"UPSC_SERVER_PORT":              "7070",
				"UPSC_DATASET_SOURCE":           "results.xlsx",
				"UPSC_DATASET_SHEET":            "2017",
				"UPSC_SECURITY_ALLOWED_ORIGINS": "http://a.example,http://b.example",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, "results.xlsx", cfg.Dataset.Path)
				assert.Equal(t, "2017", cfg.Dataset.Sheet)
				assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Security.AllowedOrigins)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"UPSC_SERVER_PORT": "70000"},
			wantErr: "invalid server port",
		},
		{
			name:    "inverted year range",
			file:    "dashboard:\n  year_min: 2018\n  year_max: 2010\n",
			wantErr: "year range is inverted",
		},
		{
			name:    "zero histogram bins",
			env:     map[string]string{"UPSC_DASHBOARD_HISTOGRAM_BINS": "0"},
			wantErr: "histogram bins must be positive",
		},
		{
			name:    "bad duration in env",
			env:     map[string]string{"UPSC_SERVER_READ_TIMEOUT": "soon"},
			wantErr: "failed to load config from env",
		},
		{
			name:    "malformed yaml",
			file:    "server: [",
			wantErr: "failed to load config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFile(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{name: "default is valid", mutate: func(*Config) {}},
		{name: "empty dataset path", mutate: func(c *Config) { c.Dataset.Path = "  " }, wantErr: true},
		{name: "zero read timeout", mutate: func(c *Config) { c.Server.ReadTimeout = 0 }, wantErr: true},
		{name: "negative score step", mutate: func(c *Config) { c.Dashboard.ScoreStep = -25 }, wantErr: true},
		{name: "inverted rank range", mutate: func(c *Config) { c.Dashboard.RankMin = 2000 }, wantErr: true},
		{name: "multi character delimiter", mutate: func(c *Config) { c.Dataset.Delimiter = ";;" }, wantErr: true},
		{name: "cors without origins", mutate: func(c *Config) { c.Security.AllowedOrigins = nil }, wantErr: true},
		{
			name:   "cors disabled without origins",
			mutate: func(c *Config) { c.Security.EnableCORS = false; c.Security.AllowedOrigins = nil },
		},
		{
			name:   "logging normalised",
			mutate: func(c *Config) { c.Logging.Format = "text"; c.Logging.Output = "syslog"; c.Logging.FilePath = "" },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "json", c.Logging.Format)
				assert.Equal(t, "both", c.Logging.Output)
				assert.Equal(t, "logs/upscdash.log", c.Logging.FilePath)
			},
		},
		{
			name:   "debounce defaulted",
			mutate: func(c *Config) { c.Dataset.WatchDebounce = 0 },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 500*time.Millisecond, c.Dataset.WatchDebounce)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestDelimiterRune(t *testing.T) {
	tests := map[string]rune{
		"":    ',',
		",":   ',',
		"tab": '\t',
		`\t`:  '\t',
		"\t":  '\t',
		";":   ';',
		"|":   '|',
	}
	for in, want := range tests {
		assert.Equal(t, want, DatasetConfig{Delimiter: in}.DelimiterRune(), "delimiter %q", in)
	}
}

func TestServerAddr(t *testing.T) {
	assert.Equal(t, ":8080", Default().Server.Addr())
	assert.Equal(t, "127.0.0.1:9000", ServerConfig{Host: "127.0.0.1", Port: 9000}.Addr())
}

func TestGetConfigFilePath_EnvOverride(t *testing.T) {
	t.Setenv("UPSC_CONFIG_FILE", "/etc/upscdash/config.yaml")
	assert.Equal(t, "/etc/upscdash/config.yaml", getConfigFilePath())
}
