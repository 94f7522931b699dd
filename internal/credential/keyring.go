package credential

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/99designs/keyring"
)

const serviceName = "whatsboard"

// Keys under which secrets are stored.
const (
	GeminiAPIKey    = "gemini-api-key"
	AnthropicAPIKey = "anthropic-api-key"
	WhatsAppToken   = "whatsapp-token"
	IMAPPassword    = "imap-password"
)

// envVars maps each key to the environment variable that overrides it.
var envVars = map[string]string{
	GeminiAPIKey:    "GEMINI_API_KEY",
	AnthropicAPIKey: "ANTHROPIC_API_KEY",
	WhatsAppToken:   "WHATSBOARD_TOKEN",
	IMAPPassword:    "WHATSBOARD_IMAP_PASSWORD",
}

// EnvVar returns the environment variable consulted before the keyring
// for key, or "" if there is none.
func EnvVar(key string) string {
	return envVars[key]
}

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	home, _ := os.UserHomeDir()
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  filepath.Join(home, ".config", serviceName, "credentials"),
		FilePasswordFunc:         keyring.FixedStringPrompt(serviceName + "-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Lookup returns the secret for key, preferring its environment variable
// over the keyring. A secret stored nowhere yields "" and a nil error.
func Lookup(key string) (string, error) {
	if name := envVars[key]; name != "" {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, nil
		}
	}

	v, err := Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	return v, err
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring.
func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}
