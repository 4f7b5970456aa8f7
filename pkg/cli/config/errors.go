package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrMissingConfig       = goerr.New("missing required configuration")
	ErrInvalidConfig       = goerr.New("invalid configuration")
	ErrConfigNotFound      = goerr.New("configuration file not found")
	ErrUnsupportedProvider = goerr.New("unsupported model provider")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	MissingKey    = "missing"
	SelectorKey   = "selector"
	BackendKey    = "backend"
)
