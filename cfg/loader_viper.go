package cfg

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "cfg/yaml"
	envPrefix         = "GINDER"
)

type ViperLoader struct {
	v                     *viper.Viper
	configPath            string
	watch                 bool
	once                  sync.Once
	mu                    sync.RWMutex
	cfg                   *Config
	configChangeCallbacks []func(*Config)
}

func NewViperLoader(configPath string) (*ViperLoader, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}
	return &ViperLoader{
		v:                     viper.New(),
		configPath:            configPath,
		watch:                 true,
		configChangeCallbacks: make([]func(*Config), 0),
	}, nil
}

// DisableWatch turns off config hot reload. Must be called before Load.
func (yl *ViperLoader) DisableWatch() {
	yl.watch = false
}

func (yl *ViperLoader) Load() (*Config, error) {
	var err error
	yl.once.Do(func() {
		err = yl.loadConfig()
		if err == nil && yl.IsWatchChange() {
			yl.v.OnConfigChange(func(e fsnotify.Event) {
				fmt.Printf("[INFO][CONFIG] Config file changed: %s\n", e.Name)
				if errReload := yl.reloadConfig(); errReload != nil {
					fmt.Printf("[ERROR][CONFIG] Failed to reload config: %v\n", errReload)
				}
			})
			yl.v.WatchConfig()
		}
	})

	if err != nil {
		return nil, err
	}

	yl.mu.RLock()
	defer yl.mu.RUnlock()
	if yl.cfg == nil {
		return nil, errors.New("[ERROR][CONFIG] config was not loaded")
	}
	return yl.cfg, nil
}

func (yl *ViperLoader) IsWatchChange() bool {
	return yl.watch && yl.v.ConfigFileUsed() != ""
}

func (yl *ViperLoader) RegisterConfigChangeCallback(callback func(*Config)) {
	yl.mu.Lock()
	yl.configChangeCallbacks = append(yl.configChangeCallbacks, callback)
	yl.mu.Unlock()
}

func (yl *ViperLoader) loadConfig() error {
	// A missing .env is fine, the environment may already carry everything
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("[ERROR][CONFIG] failed to read .env file: %w", err)
	}

	setDefaults(yl.v)
	yl.v.SetEnvPrefix(envPrefix)
	yl.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	yl.v.AutomaticEnv()
	if err := yl.v.BindEnv("github_api.access_token", envPrefix+"_GITHUB_API_ACCESS_TOKEN", "GITHUB_TOKEN"); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to bind env: %w", err)
	}

	yl.v.AddConfigPath(yl.configPath)
	yl.v.SetConfigName("mode")
	yl.v.SetConfigType("yaml")
	if err := yl.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("[ERROR][CONFIG] failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := yl.v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] invalid config: %w", err)
	}

	yl.mu.Lock()
	yl.cfg = cfg
	yl.mu.Unlock()

	return nil
}

func (yl *ViperLoader) reloadConfig() error {
	cfg := &Config{}
	if err := yl.v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to unmarshal config during reload: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] invalid config during reload: %w", err)
	}

	yl.mu.Lock()
	yl.cfg = cfg
	callbacks := make([]func(*Config), len(yl.configChangeCallbacks))
	copy(callbacks, yl.configChangeCallbacks)
	yl.mu.Unlock()

	for _, callback := range callbacks {
		go callback(cfg)
	}

	fmt.Println("[INFO][CONFIG] Configuration reloaded successfully")
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "ginder")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("server.port", 8080)

	v.SetDefault("mysql.host", "127.0.0.1")
	v.SetDefault("mysql.port", "3306")
	v.SetDefault("mysql.username", "root")
	v.SetDefault("mysql.password", "")
	v.SetDefault("mysql.database", "ginder")
	v.SetDefault("mysql.max_idle_connection", 10)
	v.SetDefault("mysql.max_open_connection", 100)
	v.SetDefault("mysql.max_life_time_connection", 3600)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.brokers", []string{"127.0.0.1:9092"})
	v.SetDefault("kafka.producer.topic_project", "ginder.projects")
	v.SetDefault("kafka.consumer.group_id", "ginder-catalog")
	v.SetDefault("kafka.consumer.batch_size", 100)
	v.SetDefault("kafka.consumer.batch_timeout_sec", 5)

	v.SetDefault("github_api.access_token", "")
	v.SetDefault("github_api.api_url", "https://api.github.com")
	v.SetDefault("github_api.per_page", 30)
	v.SetDefault("github_api.requests_per_second", 10)
	v.SetDefault("github_api.rate_limit_reset_min", 1)
	v.SetDefault("github_api.max_backoff_sec", 120)
	v.SetDefault("github_api.max_retries", 2)
	v.SetDefault("github_api.timeout_sec", 30)

	v.SetDefault("discovery.seed", 0)

	v.SetDefault("sync.schedule", "@every 6h")
	v.SetDefault("sync.refresh_counts", true)
	v.SetDefault("sync.deprecation", "never")
	v.SetDefault("sync.stale_days", 365)
}
