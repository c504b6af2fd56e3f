package cfg

import "fmt"

type Loader interface {
	Load() (*Config, error)
}

func NewLoader(kind string, configPath string) (Loader, error) {
	switch kind {
	case "", "viper":
		return NewViperLoader(configPath)
	case "mock":
		return NewMockLoader()
	default:
		return nil, fmt.Errorf("[ERROR][CONFIG] unsupported config loader: %s", kind)
	}
}
