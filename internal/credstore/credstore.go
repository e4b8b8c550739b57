// Package credstore persists the session credentials between invocations.
// Credentials are stored in ~/.config/huum/credentials.toml with owner-only
// permissions.
package credstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/huumcli/huum/internal/huumapi"
)

const defaultStorePath = "~/.config/huum/credentials.toml"

// staleAfter is the session age beyond which revalidation is advised. The
// store only advises; callers decide whether to re-login.
const staleAfter = 24 * time.Hour

// Store reads and writes credentials at a fixed path.
type Store struct {
	path string
}

// New builds a Store. An empty path uses the default location.
func New(path string) *Store {
	return &Store{path: path}
}

// Get retrieves stored credentials. The second return is false when no
// credentials are stored; an error means the store itself failed.
func (s *Store) Get() (huumapi.AuthCredentials, bool, error) {
	resolved, err := s.resolve()
	if err != nil {
		return huumapi.AuthCredentials{}, false, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return huumapi.AuthCredentials{}, false, nil
		}
		return huumapi.AuthCredentials{}, false, fmt.Errorf("open credentials: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return huumapi.AuthCredentials{}, false, fmt.Errorf("read credentials: %w", err)
	}

	var creds huumapi.AuthCredentials
	if err := toml.Unmarshal(data, &creds); err != nil {
		return huumapi.AuthCredentials{}, false, fmt.Errorf("parse credentials: %w", err)
	}
	if strings.TrimSpace(creds.Session) == "" {
		return huumapi.AuthCredentials{}, false, nil
	}
	return creds, true, nil
}

// Put stores credentials, creating the directory as needed. The file is
// written owner-readable only.
func (s *Store) Put(creds huumapi.AuthCredentials) error {
	resolved, err := s.resolve()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}

	data, err := toml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}

	if err := os.WriteFile(resolved, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Delete removes stored credentials. Deleting an absent store is not an
// error.
func (s *Store) Delete() error {
	resolved, err := s.resolve()
	if err != nil {
		return err
	}
	if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}

// Stale reports whether the session is old enough that revalidation is
// advised.
func Stale(creds huumapi.AuthCredentials, now time.Time) bool {
	if creds.CreatedAt.IsZero() {
		return true
	}
	return now.Sub(creds.CreatedAt) > staleAfter
}

func (s *Store) resolve() (string, error) {
	path := s.path
	if strings.TrimSpace(path) == "" {
		path = defaultStorePath
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
