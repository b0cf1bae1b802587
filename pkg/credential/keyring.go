// Package credential keeps the Azure DevOps personal access token in the OS
// keyring so it does not have to live in the config file or the environment.
package credential

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/99designs/keyring"
	"github.com/cockroachdb/errors"
	"github.com/joshcarp/workitems-mcp/pkg/config"
)

const serviceName = "workitems-mcp"

// ErrNotLoggedIn is returned when no token is stored for an organization.
var ErrNotLoggedIn = errors.New("not logged in")

// Credentials is what gets stored per organization.
type Credentials struct {
	Organization string    `json:"organization"`
	Token        string    `json:"token"`
	SavedAt      time.Time `json:"saved_at"`
}

// IsValid reports whether the credentials carry a token.
func (c *Credentials) IsValid() bool {
	return c != nil && strings.TrimSpace(c.Token) != ""
}

// Store reads and writes credentials in a keyring.
type Store struct {
	ring keyring.Keyring
}

// NewStore wraps an already opened keyring.
func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Open opens the OS keyring. Where no system keyring exists it falls back to
// the file backend under dir. That backend's key is a constant compiled into
// the binary, so its files are obfuscated, not protected: anyone who can read
// them can recover the token. File permissions are the only real guard.
func Open(dir string) (*Store, error) {
	if dir == "" {
		d, err := config.Dir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  filepath.Join(dir, "credentials"),
		// Fixed key: obfuscation only.
		FilePasswordFunc:         keyring.FixedStringPrompt(serviceName + "-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "opening keyring")
	}
	return NewStore(ring), nil
}

// Key is the keyring entry name for an organization.
func Key(organization string) string {
	return "pat:" + strings.ToLower(strings.TrimSpace(organization))
}

// Load returns the credentials stored for organization.
func (s *Store) Load(organization string) (*Credentials, error) {
	item, err := s.ring.Get(Key(organization))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, errors.Wrapf(ErrNotLoggedIn, "organization %q", organization)
		}
		return nil, errors.Wrapf(err, "getting credentials for %q", organization)
	}

	var creds Credentials
	if err := json.Unmarshal(item.Data, &creds); err != nil {
		return nil, errors.Wrapf(err, "parsing credentials for %q", organization)
	}
	return &creds, nil
}

// Save stores creds under its organization.
func (s *Store) Save(creds *Credentials) error {
	if !creds.IsValid() {
		return errors.New("token is required")
	}
	if creds.SavedAt.IsZero() {
		creds.SavedAt = time.Now().UTC()
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return errors.Wrap(err, "marshaling credentials")
	}

	err = s.ring.Set(keyring.Item{
		Key:         Key(creds.Organization),
		Data:        data,
		Label:       "Azure DevOps token (" + creds.Organization + ")",
		Description: "Personal access token used by workitems-mcp",
	})
	if err != nil {
		return errors.Wrapf(err, "setting credentials for %q", creds.Organization)
	}
	return nil
}

// Delete removes the credentials of organization. Removing a missing entry
// is not an error.
func (s *Store) Delete(organization string) error {
	err := s.ring.Remove(Key(organization))
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return errors.Wrapf(err, "deleting credentials for %q", organization)
	}
	return nil
}

// ResolveToken fills cfg.AccessToken from the store when the configuration
// does not already carry one. A configured token always wins.
func (s *Store) ResolveToken(cfg config.Config) (config.Config, error) {
	if cfg.AccessToken != "" {
		return cfg, nil
	}
	creds, err := s.Load(cfg.Organization)
	if err != nil {
		return cfg, err
	}
	return cfg.WithAccessToken(creds.Token), nil
}
