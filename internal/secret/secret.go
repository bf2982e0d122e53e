// Package secret stores the AI service API key.
package secret

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	ServiceName = "invoicer"
	KeyName     = "gemini-api-key"

	// DefaultEnvVar overrides the keyring when set.
	DefaultEnvVar = "INVOICER_API_KEY"
)

// ErrNotFound is returned when no key is stored anywhere.
var ErrNotFound = errors.New("api key not found")

// Source says where a key was read from.
type Source string

const (
	SourceNone    Source = "none"
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
)

// Store provides API key storage.
type Store interface {
	GetKey() (string, Source, error)
	SetKey(key string) error
	DeleteKey() error
	IsAvailable() bool
}

type store struct {
	envVar string
}

// NewStore returns a Store that checks envVar before the OS keyring. An
// empty envVar uses DefaultEnvVar.
func NewStore(envVar string) Store {
	if envVar == "" {
		envVar = DefaultEnvVar
	}
	return &store{envVar: envVar}
}

// GetKey returns the key from the environment, then from the keyring.
func (s *store) GetKey() (string, Source, error) {
	if key := strings.TrimSpace(os.Getenv(s.envVar)); key != "" {
		return key, SourceEnv, nil
	}

	key, err := keyring.Get(ServiceName, KeyName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", SourceNone, ErrNotFound
		}
		return "", SourceNone, fmt.Errorf("failed to retrieve key from keyring: %w", err)
	}
	if key == "" {
		return "", SourceNone, ErrNotFound
	}
	return key, SourceKeyring, nil
}

// SetKey stores key in the OS keyring.
func (s *store) SetKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("api key cannot be empty")
	}
	if err := keyring.Set(ServiceName, KeyName, key); err != nil {
		return fmt.Errorf("failed to store key in keyring: %w", err)
	}
	return nil
}

// DeleteKey removes the key from the OS keyring. The environment is left alone.
func (s *store) DeleteKey() error {
	if err := keyring.Delete(ServiceName, KeyName); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete key from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks whether the keyring accepts writes.
func (s *store) IsAvailable() bool {
	testKey := "__invoicer_availability_test__"
	if err := keyring.Set(ServiceName, testKey, "test"); err != nil {
		return false
	}
	_ = keyring.Delete(ServiceName, testKey)
	return true
}
