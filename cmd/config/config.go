// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	backofflib "github.com/coraldb/fieldcaps/internal/backoff"
	"github.com/coraldb/fieldcaps/pkg/fieldcaps"
	"github.com/coraldb/fieldcaps/pkg/fieldcaps/server"
	"github.com/coraldb/fieldcaps/pkg/otel"
	pgcatalog "github.com/coraldb/fieldcaps/pkg/schema/postgres"
)

// Config is the full serve configuration, assembled from the optional yaml
// config file with CLI flag and env var overrides on top.
type Config struct {
	LogLevel        string                `mapstructure:"log_level"`
	Server          ServerConfig          `mapstructure:"server"`
	Catalog         CatalogConfig         `mapstructure:"catalog"`
	Resolver        ResolverConfig        `mapstructure:"resolver"`
	Instrumentation InstrumentationConfig `mapstructure:"instrumentation"`
}

type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type CatalogConfig struct {
	PostgresURL string      `mapstructure:"postgres_url"`
	FixtureFile string      `mapstructure:"fixture_file"`
	Retry       RetryConfig `mapstructure:"retry"`
}

type RetryConfig struct {
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	MaxRetries      uint          `mapstructure:"max_retries"`
}

type ResolverConfig struct {
	SnapshotWorkers uint `mapstructure:"snapshot_workers"`
}

type InstrumentationConfig struct {
	MetricsEndpoint string  `mapstructure:"metrics_endpoint"`
	TracesEndpoint  string  `mapstructure:"traces_endpoint"`
	SampleRatio     float64 `mapstructure:"traces_sample_ratio"`
}

var errNoCatalogConfigured = errors.New("no index catalog configured: one of catalog postgres URL or fixture file required")

// Load reads the optional config file and assembles the configuration with
// flag and env overrides applied.
func Load() (*Config, error) {
	if file := viper.GetString("config"); file != "" {
		viper.SetConfigFile(file)
		viper.SetConfigType(filepath.Ext(file)[1:])
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("creating config decoder: %w", err)
	}
	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	applyOverrides(cfg)

	if cfg.Catalog.PostgresURL == "" && cfg.Catalog.FixtureFile == "" {
		return nil, errNoCatalogConfigured
	}

	return cfg, nil
}

// CLI flags and env vars win over the config file.
func applyOverrides(cfg *Config) {
	if v := viper.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v := viper.GetString("address"); v != "" {
		cfg.Server.Address = v
	}
	if v := viper.GetString("postgres-url"); v != "" {
		cfg.Catalog.PostgresURL = v
	}
	if v := viper.GetString("fixture-file"); v != "" {
		cfg.Catalog.FixtureFile = v
	}
	if v := viper.GetUint("snapshot-workers"); v > 0 {
		cfg.Resolver.SnapshotWorkers = v
	}
}

func (c *Config) ServerConfig() *server.Config {
	return &server.Config{
		Address:      c.Server.Address,
		ReadTimeout:  c.Server.ReadTimeout,
		WriteTimeout: c.Server.WriteTimeout,
	}
}

func (c *Config) ResolverConfig() *fieldcaps.Config {
	return &fieldcaps.Config{
		SnapshotWorkers: c.Resolver.SnapshotWorkers,
	}
}

func (c *Config) PostgresCatalogConfig() pgcatalog.Config {
	return pgcatalog.Config{
		URL: c.Catalog.PostgresURL,
	}
}

func (c *Config) BackoffConfig() *backofflib.Config {
	if c.Catalog.Retry.MaxRetries == 0 {
		return nil
	}
	return &backofflib.Config{
		Exponential: &backofflib.ExponentialConfig{
			InitialInterval: c.Catalog.Retry.InitialInterval,
			MaxInterval:     c.Catalog.Retry.MaxInterval,
			MaxRetries:      c.Catalog.Retry.MaxRetries,
		},
	}
}

func (c *Config) OtelConfig() *otel.Config {
	cfg := &otel.Config{}
	if c.Instrumentation.MetricsEndpoint != "" {
		cfg.Metrics = &otel.MetricsConfig{
			Endpoint: c.Instrumentation.MetricsEndpoint,
		}
	}
	if c.Instrumentation.TracesEndpoint != "" {
		cfg.Traces = &otel.TracesConfig{
			Endpoint:    c.Instrumentation.TracesEndpoint,
			SampleRatio: c.Instrumentation.SampleRatio,
		}
	}
	return cfg
}
