package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/effective-security/xlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected xlog.LogLevel
	}{
		{"debug", xlog.DEBUG},
		{" WARN ", xlog.WARNING},
		{"warning", xlog.WARNING},
		{"ERROR", xlog.ERROR},
		{"trace", xlog.TRACE},
		{"", xlog.INFO},
		{"bogus", xlog.INFO},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.in))
		})
	}
}

func TestSetup_CreatesLogFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	f, err := Setup(dir, "INFO")
	require.NoError(t, err)
	require.NotNil(t, f)
	defer f.Close()

	_, err = os.Stat(filepath.Join(dir, FileName))
	assert.NoError(t, err)

	// restore stderr-only output for other tests
	_, _ = Setup("", "INFO")
}

func TestSetup_NoDir(t *testing.T) {
	f, err := Setup("", "DEBUG")
	require.NoError(t, err)
	assert.Nil(t, f)
}
