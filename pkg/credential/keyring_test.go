package credential

import (
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/cockroachdb/errors"
	"github.com/joshcarp/workitems-mcp/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore(keyring.NewArrayKeyring(nil))
}

func TestCredentials_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		creds    *Credentials
		expected bool
	}{
		{name: "nil credentials", creds: nil, expected: false},
		{name: "empty token", creds: &Credentials{Organization: "contoso"}, expected: false},
		{name: "blank token", creds: &Credentials{Token: "  "}, expected: false},
		{name: "token", creds: &Credentials{Token: "abc"}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.creds.IsValid())
		})
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "pat:contoso", Key("contoso"))
	assert.Equal(t, "pat:contoso", Key(" Contoso "))
}

func TestStore_SaveLoadDelete(t *testing.T) {
	s := newTestStore()

	_, err := s.Load("contoso")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotLoggedIn))

	require.NoError(t, s.Save(&Credentials{Organization: "contoso", Token: "secret"}))

	creds, err := s.Load("Contoso")
	require.NoError(t, err)
	assert.Equal(t, "secret", creds.Token)
	assert.Equal(t, "contoso", creds.Organization)
	assert.WithinDuration(t, time.Now(), creds.SavedAt, time.Minute)

	require.NoError(t, s.Delete("contoso"))
	_, err = s.Load("contoso")
	assert.True(t, errors.Is(err, ErrNotLoggedIn))

	assert.NoError(t, s.Delete("contoso"))
}

func TestStore_SaveRejectsEmptyToken(t *testing.T) {
	assert.Error(t, newTestStore().Save(&Credentials{Organization: "contoso"}))
}

func TestStore_ResolveToken(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.Save(&Credentials{Organization: "contoso", Token: "from-keyring"}))

	cfg := config.Default()
	cfg.Organization = "contoso"

	resolved, err := s.ResolveToken(cfg)
	require.NoError(t, err)
	assert.Equal(t, "from-keyring", resolved.AccessToken)
	assert.Empty(t, cfg.AccessToken)

	cfg.AccessToken = "from-env"
	resolved, err = s.ResolveToken(cfg)
	require.NoError(t, err)
	assert.Equal(t, "from-env", resolved.AccessToken)

	cfg = config.Default()
	cfg.Organization = "fabrikam"
	_, err = s.ResolveToken(cfg)
	assert.True(t, errors.Is(err, ErrNotLoggedIn))
}
