// Package config loads the Azure DevOps connection settings from an optional
// YAML file and AZURE_DEVOPS_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

const (
	// DefaultHost is the Azure DevOps Services host
	DefaultHost = "dev.azure.com"

	// DefaultAPIVersion is sent as the api-version query parameter on every request
	DefaultAPIVersion = "7.0"

	// DefaultUserAgent identifies this adapter to the remote API
	DefaultUserAgent = "workitems-devops-mcp/1.0"

	// DefaultPlannedDateField is the custom field holding the planned start date
	DefaultPlannedDateField = "Custom.FechaInicioPlaneada"

	// DefaultRealEffortField is the custom field holding the real effort in hours
	DefaultRealEffortField = "Custom.RealEffort"

	// EnvPrefix prefixes every environment override, e.g. AZURE_DEVOPS_ACCESS_TOKEN
	EnvPrefix = "AZURE_DEVOPS"

	// EnvAliasToken and EnvAliasOrganization are the names the mcper plugin
	// registry passes credentials under. They fill in only what is still unset.
	EnvAliasToken        = "AZURE_DEVOPS_PAT"
	EnvAliasOrganization = "AZURE_DEVOPS_ORG"
)

// Config is the process-wide configuration. It is built once at startup and
// passed by value into the layers that need it.
type Config struct {
	Organization string `mapstructure:"organization" yaml:"organization"`
	Project      string `mapstructure:"project" yaml:"project"`
	AccessToken  string `mapstructure:"access_token" yaml:"access_token"`

	Host       string        `mapstructure:"host" yaml:"host"`
	APIVersion string        `mapstructure:"api_version" yaml:"api_version"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`

	PlannedDateField string `mapstructure:"planned_date_field" yaml:"planned_date_field"`
	RealEffortField  string `mapstructure:"real_effort_field" yaml:"real_effort_field"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns a configuration with every optional key set.
func Default() Config {
	return Config{
		Host:             DefaultHost,
		APIVersion:       DefaultAPIVersion,
		UserAgent:        DefaultUserAgent,
		Timeout:          30 * time.Second,
		PlannedDateField: DefaultPlannedDateField,
		RealEffortField:  DefaultRealEffortField,
		LogLevel:         "INFO",
	}
}

// Dir returns ~/.workitems, where the config file and the log live.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(homeDir, ".workitems"), nil
}

// DefaultPath returns the default location of the YAML config file.
func DefaultPath() string {
	dir, err := Dir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the optional YAML file at path and applies AZURE_DEVOPS_*
// environment overrides. A missing file is not an error, and neither are
// missing organization, project or token: those surface as remote failures.
func Load(path string) (Config, error) {
	def := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("organization", "")
	v.SetDefault("project", "")
	v.SetDefault("access_token", "")
	v.SetDefault("host", def.Host)
	v.SetDefault("api_version", def.APIVersion)
	v.SetDefault("user_agent", def.UserAgent)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("planned_date_field", def.PlannedDateField)
	v.SetDefault("real_effort_field", def.RealEffortField)
	v.SetDefault("log_level", def.LogLevel)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(errors.UnwrapAll(err)) {
				return Config{}, errors.Wrapf(err, "reading config %s", path)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse config")
	}
	return cfg.WithEnvAliases(os.Getenv), nil
}

// WithEnvAliases returns a copy of c with an empty token or organization
// taken from EnvAliasToken or EnvAliasOrganization.
func (c Config) WithEnvAliases(getenv func(string) string) Config {
	if c.AccessToken == "" {
		c.AccessToken = getenv(EnvAliasToken)
	}
	if c.Organization == "" {
		c.Organization = getenv(EnvAliasOrganization)
	}
	return c
}

// BaseURL returns the work item tracking root:
// https://<host>/<organization>/<project>/_apis/wit
func (c Config) BaseURL() string {
	host := strings.TrimRight(c.Host, "/")
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return fmt.Sprintf("%s/%s/%s/_apis/wit", host, c.Organization, c.Project)
}

// WithAccessToken returns a copy of c with the token replaced.
func (c Config) WithAccessToken(token string) Config {
	c.AccessToken = token
	return c
}
