package cfg

import (
	"errors"
	"fmt"
)

type (
	App struct {
		Name     string `mapstructure:"name"`
		Version  string `mapstructure:"version"`
		LogLevel string `mapstructure:"log_level"`
	}

	Server struct {
		Port int `mapstructure:"port"`
	}

	Mysql struct {
		Host                  string `mapstructure:"host"`
		Port                  string `mapstructure:"port"`
		Username              string `mapstructure:"username"`
		Password              string `mapstructure:"password"`
		Database              string `mapstructure:"database"`
		MaxIdleConnection     int    `mapstructure:"max_idle_connection"`
		MaxOpenConnection     int    `mapstructure:"max_open_connection"`
		MaxLifeTimeConnection int    `mapstructure:"max_life_time_connection"`
	}

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	}

	KafkaProducer struct {
		TopicProject string `mapstructure:"topic_project"`
	}

	KafkaConsumer struct {
		GroupID         string `mapstructure:"group_id"`
		BatchSize       int    `mapstructure:"batch_size"`
		BatchTimeoutSec int    `mapstructure:"batch_timeout_sec"`
	}

	Kafka struct {
		Brokers  []string      `mapstructure:"brokers"`
		Producer KafkaProducer `mapstructure:"producer"`
		Consumer KafkaConsumer `mapstructure:"consumer"`
	}

	GithubApi struct {
		AccessToken       string `mapstructure:"access_token"`
		ApiUrl            string `mapstructure:"api_url"`
		PerPage           int    `mapstructure:"per_page"`
		RequestsPerSecond int    `mapstructure:"requests_per_second"`
		RateLimitResetMin int    `mapstructure:"rate_limit_reset_min"`
		MaxBackoffSec     int    `mapstructure:"max_backoff_sec"`
		MaxRetries        int    `mapstructure:"max_retries"`
		TimeoutSec        int    `mapstructure:"timeout_sec"`
	}

	Discovery struct {
		// Seed of the language selector; 0 seeds from the clock.
		Seed int64 `mapstructure:"seed"`
	}

	Sync struct {
		Schedule      string `mapstructure:"schedule"`
		RefreshCounts bool   `mapstructure:"refresh_counts"`
		Deprecation   string `mapstructure:"deprecation"`
		StaleDays     int    `mapstructure:"stale_days"`
	}
)

type Config struct {
	App       App       `mapstructure:"app"`
	Server    Server    `mapstructure:"server"`
	Mysql     Mysql     `mapstructure:"mysql"`
	Redis     Redis     `mapstructure:"redis"`
	Kafka     Kafka     `mapstructure:"kafka"`
	GithubApi GithubApi `mapstructure:"github_api"`
	Discovery Discovery `mapstructure:"discovery"`
	Sync      Sync      `mapstructure:"sync"`
}

func (c *Config) Validate() error {
	var errs []error
	if c.GithubApi.ApiUrl == "" {
		errs = append(errs, errors.New("github_api.api_url is required"))
	}
	if c.GithubApi.PerPage < 1 || c.GithubApi.PerPage > 100 {
		errs = append(errs, fmt.Errorf("github_api.per_page must be in [1, 100], got %d", c.GithubApi.PerPage))
	}
	if c.GithubApi.RequestsPerSecond < 1 {
		errs = append(errs, fmt.Errorf("github_api.requests_per_second must be positive, got %d", c.GithubApi.RequestsPerSecond))
	}
	if c.Sync.Deprecation == "stale" && c.Sync.StaleDays < 1 {
		errs = append(errs, errors.New("sync.stale_days must be positive for the stale deprecation policy"))
	}
	return errors.Join(errs...)
}
