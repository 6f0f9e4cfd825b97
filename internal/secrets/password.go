// Package secrets keeps the SMTP password in the OS keychain so it does not
// have to live in the environment or a .env file.
package secrets

import (
	"errors"
	"fmt"
	"strings"

	"jobdigest/internal/config"

	"github.com/zalando/go-keyring"
)

// KeyringService groups the digest's entries in the OS keychain.
const KeyringService = "jobdigest"

var (
	// ErrNotFound means the keychain answered but holds no usable entry.
	ErrNotFound = errors.New("no SMTP password in keychain")
	// ErrUnavailable means the keychain itself could not be queried
	// (no secret service on the session bus, locked store, ...).
	ErrUnavailable = errors.New("keychain unavailable")
)

// MailKeyringAccount names the entry for cfg's SMTP login.
func MailKeyringAccount(cfg config.Config) string {
	return fmt.Sprintf("jobdigest:smtp:%s@%s", cfg.Mail.User, cfg.Mail.Host)
}

func checkAccount(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keychain account name is empty")
	}
	return nil
}

// GetMailPassword returns the stored password for account. Errors wrap
// either ErrNotFound or ErrUnavailable.
func GetMailPassword(account string) (string, error) {
	if err := checkAccount(account); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	pw, err := keyring.Get(KeyringService, account)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return "", fmt.Errorf("%w for %s", ErrNotFound, account)
	case err != nil:
		return "", fmt.Errorf("%w: read %s: %v", ErrUnavailable, account, err)
	case strings.TrimSpace(pw) == "":
		return "", fmt.Errorf("%w for %s (entry is blank)", ErrNotFound, account)
	}
	return pw, nil
}

func SetMailPassword(account, password string) error {
	if err := checkAccount(account); err != nil {
		return err
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	if err := keyring.Set(KeyringService, account, password); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, account, err)
	}
	return nil
}

func DeleteMailPassword(account string) error {
	if err := checkAccount(account); err != nil {
		return err
	}
	err := keyring.Delete(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%w for %s", ErrNotFound, account)
	}
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrUnavailable, account, err)
	}
	return nil
}

// ResolveMailPassword fills cfg.Mail.Password from the keychain when the
// environment left it empty. The returned error only explains why the
// fallback missed; config.Validate still reports the missing credential.
func ResolveMailPassword(cfg *config.Config) error {
	if cfg.Mail.Password != "" {
		return nil
	}
	if cfg.Mail.User == "" || cfg.Mail.Host == "" {
		return fmt.Errorf("%w: %s and %s are needed to look it up", ErrNotFound, config.EnvMailUser, config.EnvMailHost)
	}
	pw, err := GetMailPassword(MailKeyringAccount(*cfg))
	if err != nil {
		return err
	}
	cfg.Mail.Password = pw
	return nil
}
