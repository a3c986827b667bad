// Package auth keeps secrets in the system keyring instead of the config file.
package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	service   = "mafilu-cli"
	redisUser = "resume-redis-password"
)

// SetRedisPassword stores the password of the redis resume backend.
func SetRedisPassword(password string) error {
	return keyring.Set(service, redisUser, password)
}

// RedisPassword returns the stored password, or "" when none was stored.
func RedisPassword() (string, error) {
	password, err := keyring.Get(service, redisUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return password, err
}

// DeleteRedisPassword removes the stored password.
func DeleteRedisPassword() error {
	err := keyring.Delete(service, redisUser)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
