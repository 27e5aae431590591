package fetch

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringService is the keyring service all swaggercov passwords live under.
const KeyringService = "swaggercov"

// keyringUser returns the keyring entry name for a user of an API.
func keyringUser(apiName, username string) string {
	return apiName + ":" + username
}

// StorePassword saves the basic-auth password of username for apiName.
func StorePassword(apiName, username, password string) error {
	if err := keyring.Set(KeyringService, keyringUser(apiName, username), password); err != nil {
		return fmt.Errorf("failed to store password for %s: %w", keyringUser(apiName, username), err)
	}
	return nil
}

// LookupPassword returns the stored password of username for apiName.
// ErrPasswordNotFound is returned when nothing is stored.
func LookupPassword(apiName, username string) (string, error) {
	password, err := keyring.Get(KeyringService, keyringUser(apiName, username))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w: %s", ErrPasswordNotFound, keyringUser(apiName, username))
	}
	if err != nil {
		return "", fmt.Errorf("failed to read password for %s: %w", keyringUser(apiName, username), err)
	}
	return password, nil
}

// DeletePassword removes the stored password. Deleting a missing entry
// returns ErrPasswordNotFound.
func DeletePassword(apiName, username string) error {
	err := keyring.Delete(KeyringService, keyringUser(apiName, username))
	if errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrPasswordNotFound, keyringUser(apiName, username))
	}
	if err != nil {
		return fmt.Errorf("failed to delete password for %s: %w", keyringUser(apiName, username), err)
	}
	return nil
}

// ResolveAuth builds basic-auth credentials. It returns nil when username
// is empty. An empty password is looked up in the keyring when useKeyring
// is set.
func ResolveAuth(apiName, username, password string, useKeyring bool) (*BasicAuth, error) {
	if username == "" {
		return nil, nil //nolint:nilnil // no auth configured
	}
	if password == "" && useKeyring {
		stored, err := LookupPassword(apiName, username)
		if err != nil {
			return nil, err
		}
		password = stored
	}
	return &BasicAuth{Username: username, Password: password}, nil
}
