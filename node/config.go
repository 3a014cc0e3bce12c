// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package node

import (
	"errors"
	"fmt"
	"os"

	"github.com/aungmawjj/juria-cfhello/consensus"
	"github.com/aungmawjj/juria-cfhello/execution"
	"github.com/aungmawjj/juria-cfhello/storage"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "JURIA_"

type Config struct {
	Debug   bool   `yaml:"debug" env:"DEBUG"`
	Datadir string `yaml:"datadir" env:"DATADIR"`
	APIPort int    `yaml:"apiPort" env:"API_PORT"`

	StorageConfig   storage.Config   `yaml:"storage" envPrefix:"STORAGE_"`
	ExecutionConfig execution.Config `yaml:"execution" envPrefix:"EXECUTION_"`
	ConsensusConfig consensus.Config `yaml:"consensus" envPrefix:"CONSENSUS_"`
}

var DefaultConfig = Config{
	Datadir:         "juria-data",
	APIPort:         9040,
	StorageConfig:   storage.DefaultConfig,
	ExecutionConfig: execution.DefaultConfig,
	ConsensusConfig: consensus.DefaultConfig,
}

// LoadConfig starts from DefaultConfig, applies the yaml file at path
// and then the JURIA_ environment variables.
// A missing file is not an error, the defaults are used.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig
	if path != "" {
		if err := loadConfigFile(path, &config); err != nil {
			return config, err
		}
	}
	err := env.ParseWithOptions(&config, env.Options{Prefix: EnvPrefix})
	if err != nil {
		return config, fmt.Errorf("parse env: %w", err)
	}
	return config, nil
}

func loadConfigFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
