package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/constant"
	"github.com/thrombe/kolekk/filesystem"
	"github.com/thrombe/kolekk/where"
)

// ErrUnknownKey is returned for keys that were never registered.
var ErrUnknownKey = errors.New("unknown key")

// Lookup returns the field of k, suggesting the closest key when there is none.
func Lookup(k string) (Field, error) {
	if f, ok := Default[k]; ok {
		return f, nil
	}

	closest := lo.MinBy(lo.Keys(Default), func(a, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})
	return Field{}, fmt.Errorf("%w %q, did you mean %q?", ErrUnknownKey, k, closest)
}

// Parse converts command line values into the type of the field's default.
func Parse(f Field, values []string) (any, error) {
	if _, ok := f.Value.([]string); ok {
		return values, nil
	}
	if len(values) != 1 {
		return nil, fmt.Errorf("%s takes exactly one value, got %d", f.Key, len(values))
	}

	switch f.Value.(type) {
	case string:
		return values[0], nil
	case int:
		n, err := strconv.Atoi(values[0])
		if err != nil {
			return nil, fmt.Errorf("%s expects an integer: %w", f.Key, err)
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(values[0])
		if err != nil {
			return nil, fmt.Errorf("%s expects a boolean: %w", f.Key, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%s has unsupported type %T", f.Key, f.Value)
	}
}

// Path is the config file viper reads and writes.
func Path() string {
	return filepath.Join(where.Config(), constant.Kolekk+".toml")
}

// Save writes the current settings, creating the file when needed.
func Save() error {
	err := viper.WriteConfig()
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return viper.WriteConfigAs(Path())
	}
	return err
}

// Remove deletes the config file.
func Remove() error {
	return filesystem.API().Remove(Path())
}
