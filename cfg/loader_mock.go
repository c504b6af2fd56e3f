package cfg

type MockLoader struct{}

func NewMockLoader() (*MockLoader, error) {
	return &MockLoader{}, nil
}

func (ml *MockLoader) Load() (*Config, error) {
	return &Config{
		App: App{
			Name:     "ginder",
			Version:  "0.1.0",
			LogLevel: "debug",
		},

		Server: Server{
			Port: 8080,
		},

		Mysql: Mysql{
			Host:                  "127.0.0.1",
			Password:              "root",
			Username:              "root",
			Port:                  "3306",
			Database:              "ginder",
			MaxIdleConnection:     10,
			MaxOpenConnection:     100,
			MaxLifeTimeConnection: 3600,
		},

		Redis: Redis{
			Addr: "127.0.0.1:6379",
		},

		Kafka: Kafka{
			Brokers: []string{"127.0.0.1:9092"},
			Producer: KafkaProducer{
				TopicProject: "ginder.projects",
			},
			Consumer: KafkaConsumer{
				GroupID:         "ginder-catalog",
				BatchSize:       100,
				BatchTimeoutSec: 5,
			},
		},

		GithubApi: GithubApi{
			AccessToken:       "",
			ApiUrl:            "https://api.github.com",
			PerPage:           30,
			RequestsPerSecond: 10,
			RateLimitResetMin: 1,
			MaxBackoffSec:     120,
			MaxRetries:        2,
			TimeoutSec:        30,
		},

		Sync: Sync{
			Schedule:      "@every 6h",
			RefreshCounts: true,
			Deprecation:   "never",
		},
	}, nil
}
