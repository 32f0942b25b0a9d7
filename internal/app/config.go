package app

import "errors"

// Config holds the settings an App is started with. Non-empty values
// override those read from configuration files.
type Config struct {
	ConsistPath string   // .con file, or a directory of them, to load
	ConfigPaths []string // hcl files or directories

	TrainsetDir string
	IndexFile   string
	LogFormat   string
	LogLevel    string
	WorkerCount int // concurrent loads for a directory
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConsistPath == "" {
		return nil, errors.New("ConsistPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
