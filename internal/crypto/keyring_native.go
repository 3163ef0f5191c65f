//go:build darwin || linux || windows

package crypto

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

type nativeKeyring struct{}

func newPlatformKeyring() Keyring {
	return &nativeKeyring{}
}

// GetToken retrieves the remote API token from the system keyring
func (k *nativeKeyring) GetToken() (string, error) {
	token, err := keyring.Get(ServiceName, TokenName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("API token not found in keyring: %w", err)
		}
		return "", fmt.Errorf("failed to retrieve token from keyring: %w", err)
	}

	if token == "" {
		return "", errors.New("API token is empty")
	}

	return token, nil
}

// SetToken stores the remote API token in the system keyring
func (k *nativeKeyring) SetToken(token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}

	if err := keyring.Set(ServiceName, TokenName, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}

	return nil
}

// DeleteToken removes the remote API token from the system keyring
func (k *nativeKeyring) DeleteToken() error {
	err := keyring.Delete(ServiceName, TokenName)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("API token not found in keyring: %w", err)
		}
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}

	return nil
}

// IsAvailable checks if the system keyring is accessible
func (k *nativeKeyring) IsAvailable() bool {
	// Test availability with a throwaway entry
	testKey := "__billdesk_availability_test__"
	if err := keyring.Set(ServiceName, testKey, "test"); err != nil {
		return false
	}
	_ = keyring.Delete(ServiceName, testKey)
	return true
}
