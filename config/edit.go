package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mafilu-cli/mafilu/constant"
	"github.com/mafilu-cli/mafilu/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// ErrUnknownKey is wrapped by Lookup and Parse for keys that are not registered.
var ErrUnknownKey = errors.New("unknown key")

// Lookup returns the registered field of name.
func Lookup(name string) (Field, error) {
	field, ok := Default[name]
	if !ok {
		return Field{}, fmt.Errorf("%w %s", ErrUnknownKey, name)
	}
	return field, nil
}

// Parse converts raw into the type of the field's default and validates it.
func Parse(name, raw string) (any, error) {
	field, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	raw = strings.TrimSpace(raw)
	var value any
	switch field.Value.(type) {
	case string:
		value = raw
	case bool:
		if value, err = strconv.ParseBool(raw); err != nil {
			return nil, fmt.Errorf("%s expects true or false, got %q", name, raw)
		}
	case int:
		// 1_000_000 reads like the defaults do.
		n, err := strconv.ParseInt(strings.ReplaceAll(raw, "_", ""), 10, 0)
		if err != nil {
			return nil, fmt.Errorf("%s expects a whole number, got %q", name, raw)
		}
		value = int(n)
	case float64:
		if value, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, fmt.Errorf("%s expects a number, got %q", name, raw)
		}
	default:
		return nil, fmt.Errorf("%s cannot be set from the command line", name)
	}

	if err := Validate(name, value); err != nil {
		return nil, err
	}
	return value, nil
}

// Section is the part of a key before the first dot.
func Section(name string) string {
	section, _, _ := strings.Cut(name, ".")
	return section
}

// Sections groups the registered fields by section. Sections and the fields
// inside them are sorted by name.
func Sections() map[string][]Field {
	sections := lo.GroupBy(lo.Values(Default), func(f Field) string {
		return Section(f.Key)
	})
	for _, fields := range sections {
		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})
	}
	return sections
}

// Path is the location of the config file.
func Path() string {
	return filepath.Join(where.Config(), constant.Mafilu+".toml")
}

// Save writes the current configuration, creating the file when there is none.
func Save() error {
	err := viper.WriteConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return viper.SafeWriteConfig()
	}
	return err
}

// Reset restores the given keys, or every key when none are given, to their defaults.
func Reset(names ...string) error {
	if len(names) == 0 {
		names = lo.Keys(Default)
	}
	for _, name := range names {
		field, err := Lookup(name)
		if err != nil {
			return err
		}
		viper.Set(name, field.Value)
	}
	return nil
}
