package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"jobdigest/internal/config"
	"jobdigest/internal/secrets"
)

// storePassword reads one line from in and saves it as the SMTP password for
// the configured account.
func storePassword(cfg config.Config, in io.Reader) (string, error) {
	if cfg.Mail.User == "" || cfg.Mail.Host == "" {
		return "", fmt.Errorf("%s and %s must be set to name the keychain entry", config.EnvMailUser, config.EnvMailHost)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	account := secrets.MailKeyringAccount(cfg)
	if err := secrets.SetMailPassword(account, strings.TrimRight(line, "\r\n")); err != nil {
		return "", err
	}
	return account, nil
}

func deletePassword(cfg config.Config) (string, error) {
	account := secrets.MailKeyringAccount(cfg)
	return account, secrets.DeleteMailPassword(account)
}
