// Central package for app-global config.
package configs

import (
	"os"

	"github.com/pkg/errors"
	"github.com/unbasical/gatekeeper/pkg/telemetry"
	"gopkg.in/yaml.v3"
)

// Configuration for the entire app.
type AppConfig struct {
	ExternalConfig
	MetricsProvider telemetry.MetricsProvider
}

// External config.
type ExternalConfig struct {
	Data    *DatastoreConfig `yaml:"data"`
	Gateway *GatewayConfig   `yaml:"gateway"`
}

// ConfigLoader is the interface that the functionality of loading gatekeeper's external configuration.
//
// Load loads all external configuration from a predefined source.
// It returns the loaded configuration and any error encountered that caused the Loader to stop early.
type ConfigLoader interface {
	Load() (*ExternalConfig, error)
}

// ByteConfigLoader implements configs.ConfigLoader by loading config from
// a provided byte slice.
type ByteConfigLoader struct {
	ConfigBytes []byte
}

// Implementing Load from configs.ConfigLoader by using the properties of the ByteConfigLoader.
func (l ByteConfigLoader) Load() (*ExternalConfig, error) {
	if l.ConfigBytes == nil {
		return nil, errors.Errorf("ConfigBytes must not be nil!")
	}

	result := new(ExternalConfig)

	// Expand config with environment variables
	l.ConfigBytes = []byte(os.ExpandEnv(string(l.ConfigBytes)))
	if err := yaml.Unmarshal(l.ConfigBytes, result); err != nil {
		return nil, errors.Errorf("Unable to parse config: " + err.Error())
	}

	// Validate config
	if result.Data == nil {
		return nil, errors.Errorf("Config contains no data section!")
	}
	if err := result.Data.validate(); err != nil {
		return nil, errors.Wrap(err, "Loaded invalid datastore config")
	}
	if result.Gateway == nil {
		return nil, errors.Errorf("Config contains no gateway section!")
	}
	if err := result.Gateway.validate(result.Data); err != nil {
		return nil, errors.Wrap(err, "Loaded invalid gateway config")
	}

	return result, nil
}

// FileConfigLoader implements configs.ConfigLoader by loading config from
// a file located at the given path.
type FileConfigLoader struct {
	ConfigPath string
}

// Implementing Load from configs.ConfigLoader by using the properties of the FileConfigLoader.
func (l FileConfigLoader) Load() (*ExternalConfig, error) {
	if l.ConfigPath == "" {
		return nil, errors.Errorf("ConfigPath must not be empty!")
	}

	configBytes, ioError := os.ReadFile(l.ConfigPath)
	if ioError != nil {
		return nil, ioError
	}
	return ByteConfigLoader{ConfigBytes: configBytes}.Load()
}
