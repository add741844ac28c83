package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/99designs/keyring"
)

const (
	keyringService = "mailtrap"
	tokenKey       = "api_token"
)

var errNotLoggedIn = errors.New("no API token configured; run \"mailtrap auth login\" or set MAILTRAP_API_TOKEN")

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "mailtrap")
}

// openKeyring returns the OS credential store.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: keyringService,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  filepath.Join(configDir(), "credentials"),
		FilePasswordFunc:         keyring.FixedStringPrompt("mailtrap-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// tokenStore reads and writes the API token in a keyring.
type tokenStore struct {
	open func() (keyring.Keyring, error)
}

func (s tokenStore) Get() (string, error) {
	ring, err := s.open()
	if err != nil {
		return "", err
	}
	item, err := ring.Get(tokenKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", errNotLoggedIn
	}
	if err != nil {
		return "", fmt.Errorf("reading API token: %w", err)
	}
	return string(item.Data), nil
}

func (s tokenStore) Set(token string) error {
	ring, err := s.open()
	if err != nil {
		return err
	}
	err = ring.Set(keyring.Item{
		Key:         tokenKey,
		Data:        []byte(token),
		Label:       "Mailtrap API token",
		Description: "API token used by the mailtrap command",
	})
	if err != nil {
		return fmt.Errorf("storing API token: %w", err)
	}
	return nil
}

func (s tokenStore) Delete() error {
	ring, err := s.open()
	if err != nil {
		return err
	}
	if err := ring.Remove(tokenKey); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("removing API token: %w", err)
	}
	return nil
}
