// Package config registers every setting with its default and wires viper to the config file and environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/constant"
	"github.com/thrombe/kolekk/filesystem"
	"github.com/thrombe/kolekk/key"
	"github.com/thrombe/kolekk/where"
)

// EnvKeyReplacer maps config keys onto environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup registers defaults and environment bindings, then reads kolekk.toml if present.
func Setup() error {
	viper.SetConfigName(constant.Kolekk)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Kolekk)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	return nil
}

// Debounce returns the configured minimum spacing between interactive searches.
func Debounce() time.Duration {
	return time.Duration(viper.GetInt(key.SearchDebounce)) * time.Millisecond
}

// PageSize returns the page size used by local store sessions.
func PageSize() int {
	if n := viper.GetInt(key.SearchPageSize); n > 0 {
		return n
	}
	return Default[key.SearchPageSize].Value.(int)
}

// Timeout returns the per-request timeout of the shared HTTP client.
func Timeout() time.Duration {
	return time.Duration(viper.GetInt(key.NetworkTimeout)) * time.Second
}
