// Package conf contains the configuration of the intexpr command. The
// configuration is read from a TOML file and can be overridden by environment
// variables with the INTEXPR_ prefix.
//
// An example of configuration file:
//
//	[logging]
//	debug = true
//	log_level = "info"
//
//	[output]
//	color = true
//	echo = false
//
//	[variables]
//	a = 3
//	b = 2
package conf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Names used to locate the configuration file.
const (
	// ConfigFileEnvVariableName is the environment variable holding the
	// path of the configuration file.
	ConfigFileEnvVariableName = "INTEXPR_CONFIG_FILE"
	// DefaultConfigFileName is the configuration file looked up in the
	// working directory, without extension.
	DefaultConfigFileName = "intexpr"

	envPrefix = "INTEXPR"
)

// ConfigStruct is a structure holding the whole command configuration.
type ConfigStruct struct {
	Logging   LoggingConfiguration `mapstructure:"logging" toml:"logging"`
	Output    OutputConfiguration  `mapstructure:"output" toml:"output"`
	Variables map[string]int64     `mapstructure:"variables" toml:"variables"`
}

// LoggingConfiguration represents configuration for logging in general
type LoggingConfiguration struct {
	// Debug enables pretty colored logging
	Debug bool `mapstructure:"debug" toml:"debug"`

	// LogLevel sets logging level to show. Possible values are the level
	// names understood by zerolog: "trace", "debug", "info", "warn",
	// "error", "fatal", "panic", "disabled".
	LogLevel string `mapstructure:"log_level" toml:"log_level"`
}

// OutputConfiguration controls how results and errors are printed.
type OutputConfiguration struct {
	// Color enables colored error messages.
	Color bool `mapstructure:"color" toml:"color"`
	// Echo prints each expression along with its result.
	Echo bool `mapstructure:"echo" toml:"echo"`
}

// defaults is the configuration used for settings absent from the file.
func defaults() ConfigStruct {
	return ConfigStruct{
		Logging: LoggingConfiguration{LogLevel: "warn"},
		Output:  OutputConfiguration{Color: true},
	}
}

// LoadConfiguration loads configuration from the file named by the
// environment variable configFileEnvVariableName, or from defaultConfigFile
// in the working directory. A missing default file is not an error. Settings
// are then overridden from the environment.
func LoadConfiguration(configFileEnvVariableName, defaultConfigFile string) (ConfigStruct, error) {
	if configFile, specified := os.LookupEnv(configFileEnvVariableName); specified {
		return loadConfiguration(configFile, true)
	}
	return loadConfiguration(defaultConfigFile, false)
}

// LoadConfigurationFile loads configuration from the named file, which must
// exist, then applies overrides from the environment.
func LoadConfigurationFile(configFile string) (ConfigStruct, error) {
	return loadConfiguration(configFile, true)
}

// loadConfiguration reads configFile, a path if specified is true and
// otherwise a file name without extension looked up in the working directory.
func loadConfiguration(configFile string, specified bool) (ConfigStruct, error) {
	config := defaults()
	v := viper.New()

	// Register every key with its default so that environment variables
	// can override keys absent from the file.
	fake := new(bytes.Buffer)
	if err := toml.NewEncoder(fake).Encode(config); err != nil {
		return config, err
	}
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(fake.String())); err != nil {
		return config, err
	}

	if specified {
		directory, basename := filepath.Split(configFile)
		file := strings.TrimSuffix(basename, filepath.Ext(basename))
		v.SetConfigName(file)
		v.AddConfigPath(directory)
	} else {
		log.Debug().Str("filename", configFile).Msg("Parsing configuration file")
		v.SetConfigName(configFile)
		v.AddConfigPath(".")
	}

	err := v.MergeInConfig()
	if _, isNotFoundError := err.(viper.ConfigFileNotFoundError); !specified && isNotFoundError {
		log.Debug().Str("filename", configFile).Msg("No configuration file, using defaults")
	} else if err != nil {
		return config, fmt.Errorf("fatal error config file: %s", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&config); err != nil {
		return config, err
	}
	return config, nil
}

// GetLoggingConfiguration returns logging configuration
func GetLoggingConfiguration(config *ConfigStruct) LoggingConfiguration {
	return config.Logging
}

// GetOutputConfiguration returns output configuration
func GetOutputConfiguration(config *ConfigStruct) OutputConfiguration {
	return config.Output
}

// GetVariables returns the initial variable bindings
func GetVariables(config *ConfigStruct) map[string]int64 {
	return config.Variables
}
