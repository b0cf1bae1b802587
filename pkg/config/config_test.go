package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvAliasToken, "")
	t.Setenv(EnvAliasOrganization, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultAPIVersion, cfg.APIVersion)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.Equal(t, DefaultPlannedDateField, cfg.PlannedDateField)
	assert.Equal(t, DefaultRealEffortField, cfg.RealEffortField)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.Organization)
	assert.Empty(t, cfg.AccessToken)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "organization: contoso\nproject: web\naccess_token: from-file\napi_version: \"7.1\"\ntimeout: 5s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("AZURE_DEVOPS_ACCESS_TOKEN", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "contoso", cfg.Organization)
	assert.Equal(t, "web", cfg.Project)
	assert.Equal(t, "from-env", cfg.AccessToken)
	assert.Equal(t, "7.1", cfg.APIVersion)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("organization: [unterminated"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestConfig_BaseURL(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expected string
	}{
		{
			name:     "default host",
			cfg:      Config{Host: DefaultHost, Organization: "contoso", Project: "web"},
			expected: "https://dev.azure.com/contoso/web/_apis/wit",
		},
		{
			name:     "explicit scheme",
			cfg:      Config{Host: "http://127.0.0.1:8080/", Organization: "o", Project: "p"},
			expected: "http://127.0.0.1:8080/o/p/_apis/wit",
		},
		{
			name:     "unset organization is not validated",
			cfg:      Config{Host: DefaultHost},
			expected: "https://dev.azure.com///_apis/wit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.BaseURL())
		})
	}
}

func TestConfig_WithAccessToken(t *testing.T) {
	orig := Default()
	updated := orig.WithAccessToken("pat")

	assert.Empty(t, orig.AccessToken)
	assert.Equal(t, "pat", updated.AccessToken)
}

func TestConfig_WithEnvAliases(t *testing.T) {
	env := map[string]string{
		EnvAliasToken:        "alias-pat",
		EnvAliasOrganization: "alias-org",
	}
	getenv := func(key string) string { return env[key] }

	tests := []struct {
		name     string
		cfg      Config
		getenv   func(string) string
		expToken string
		expOrg   string
	}{
		{name: "fills empty", getenv: getenv, expToken: "alias-pat", expOrg: "alias-org"},
		{
			name:     "keeps configured",
			cfg:      Config{AccessToken: "pat", Organization: "contoso"},
			getenv:   getenv,
			expToken: "pat",
			expOrg:   "contoso",
		},
		{
			name:     "partial",
			cfg:      Config{Organization: "contoso"},
			getenv:   getenv,
			expToken: "alias-pat",
			expOrg:   "contoso",
		},
		{name: "unset", getenv: func(string) string { return "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.WithEnvAliases(tt.getenv)
			assert.Equal(t, tt.expToken, got.AccessToken)
			assert.Equal(t, tt.expOrg, got.Organization)
		})
	}
}

func TestLoad_EnvAliases(t *testing.T) {
	t.Setenv(EnvAliasToken, "alias-pat")
	t.Setenv(EnvAliasOrganization, "alias-org")
	t.Setenv("AZURE_DEVOPS_ORGANIZATION", "contoso")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "alias-pat", cfg.AccessToken)
	assert.Equal(t, "contoso", cfg.Organization)
}
