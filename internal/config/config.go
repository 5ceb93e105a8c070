// Package config loads application configuration and initializes logging.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Sources  SourcesConfig  `yaml:"sources" mapstructure:"sources"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SourcesConfig holds the external data-source endpoints.
type SourcesConfig struct {
	VitibrasilBaseURL string `yaml:"vitibrasil_base_url" mapstructure:"vitibrasil_base_url"`
	ExchangeRatesURL  string `yaml:"exchange_rates_url" mapstructure:"exchange_rates_url"`
	ContinentsURL     string `yaml:"continents_url" mapstructure:"continents_url"`
}

// PipelineConfig configures the processing run.
type PipelineConfig struct {
	StartYear     int     `yaml:"start_year" mapstructure:"start_year"`
	EndYear       int     `yaml:"end_year" mapstructure:"end_year"`
	DensityKgPerL float64 `yaml:"density_kg_per_l" mapstructure:"density_kg_per_l"`
}

// FetchConfig configures the HTTP fetcher.
type FetchConfig struct {
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// OutputConfig configures artifact writing.
type OutputConfig struct {
	Dir  string `yaml:"dir" mapstructure:"dir"`
	XLSX bool   `yaml:"xlsx" mapstructure:"xlsx"`
}

// StoreConfig configures the run-log database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the read-only HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("VINEXPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sources.vitibrasil_base_url", "http://vitibrasil.cnpuv.embrapa.br")
	v.SetDefault("sources.exchange_rates_url", "https://www.dineroeneltiempo.com/divisas/usd-brl/historico")
	v.SetDefault("sources.continents_url", "https://paintmaps.com/pt/informacoes-do-pais/continente")
	v.SetDefault("pipeline.start_year", 2009)
	v.SetDefault("pipeline.end_year", 2024)
	v.SetDefault("pipeline.density_kg_per_l", 0.995)
	v.SetDefault("fetch.user_agent", "vinexport/1.0")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("output.dir", "Data")
	v.SetDefault("output.xlsx", false)
	v.SetDefault("store.path", "vinexport.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Pipeline.StartYear > c.Pipeline.EndYear {
		return eris.Errorf("config: start_year %d after end_year %d", c.Pipeline.StartYear, c.Pipeline.EndYear)
	}
	if c.Pipeline.DensityKgPerL <= 0 {
		return eris.Errorf("config: density_kg_per_l must be positive, got %v", c.Pipeline.DensityKgPerL)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
