// Package auth keeps catalog API credentials in the system keyring.
//
// Secrets set in the config file or environment take a back seat: the
// keyring wins when both are present.
package auth

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/constant"
	"github.com/thrombe/kolekk/key"
	"github.com/zalando/go-keyring"
)

// Service names a catalog that needs a credential.
type Service string

const (
	TMDB   Service = "tmdb"
	LastFM Service = "lastfm"
	MAL    Service = "mal"
)

// Services lists every known credential holder.
var Services = []Service{TMDB, LastFM, MAL}

var configKeys = map[Service]string{
	TMDB:   key.TMDBAPIKey,
	LastFM: key.LastFMAPIKey,
	MAL:    key.MalClientID,
}

// ErrUnknownService is returned for names outside Services.
var ErrUnknownService = errors.New("unknown service")

// ParseService validates a user supplied service name.
func ParseService(name string) (Service, error) {
	s := Service(name)
	if !lo.Contains(Services, s) {
		return "", fmt.Errorf("%w %q, expected one of %v", ErrUnknownService, name, Services)
	}
	return s, nil
}

// Set stores secret for s.
func Set(s Service, secret string) error {
	return keyring.Set(constant.Kolekk, string(s), secret)
}

// Delete forgets the stored secret of s. Deleting a missing secret is not an error.
func Delete(s Service) error {
	err := keyring.Delete(constant.Kolekk, string(s))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// Get returns the secret of s from the keyring, falling back to the config.
// An empty string means no secret is known.
func Get(s Service) string {
	if secret, err := keyring.Get(constant.Kolekk, string(s)); err == nil && secret != "" {
		return secret
	}
	return viper.GetString(configKeys[s])
}

// Source tells where Get would read the secret of s from: "keyring", "config" or "".
func Source(s Service) string {
	if secret, err := keyring.Get(constant.Kolekk, string(s)); err == nil && secret != "" {
		return "keyring"
	}
	if viper.GetString(configKeys[s]) != "" {
		return "config"
	}
	return ""
}
