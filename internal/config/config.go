package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name used for config files
	AppName = "n8n-workflow-tool"

	// EnvPrefix is the prefix for environment variables
	EnvPrefix = "N8NWF"
)

// Defaults carried over from the original tooling.
const (
	DefaultInstanceURL     = "http://127.0.0.1:5678"
	DefaultWorkflowName    = "n8n-nodes-binalyze-air-e2e"
	DefaultOutputFile      = "n8n-nodes-binalyze-air-e2e.json"
	DefaultCredentialsFile = ".env.local.yml"
)

// AppConfig holds the application configuration
type AppConfig struct {
	// Core settings
	Debug     bool   `mapstructure:"debug"`
	LogFormat string `mapstructure:"log_format"`
	LogFile   string `mapstructure:"log_file"`

	// n8n settings
	N8N struct {
		InstanceURL     string `mapstructure:"instance_url"`
		Workflow        string `mapstructure:"workflow"`
		OutputFile      string `mapstructure:"output_file"`
		CredentialsFile string `mapstructure:"credentials_file"`
	} `mapstructure:"n8n"`
}

// Load reads the application configuration and returns it by value.
// Configuration is resolved from defaults, an optional YAML config file,
// and N8NWF_* environment variables, in increasing order of precedence.
func Load(cfgFile string) (AppConfig, error) {
	v := viper.New()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfg AppConfig

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Only fail if the config file was found but couldn't be read
			return cfg, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file: defaults and environment variables apply
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("log_format", "human")
	v.SetDefault("log_file", "")

	v.SetDefault("n8n.instance_url", DefaultInstanceURL)
	v.SetDefault("n8n.workflow", DefaultWorkflowName)
	v.SetDefault("n8n.output_file", DefaultOutputFile)
	v.SetDefault("n8n.credentials_file", DefaultCredentialsFile)
}
