// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

// Type is a loaded rowdiff.yaml. Keys are dotted paths into Data. When
// Namespace is set (the running subcommand), "<Namespace>.<key>" is tried
// before the bare key.
type Type struct {
	Source    string
	Namespace string
	Data      map[string]any
}

// Config is the process wide configuration. Getters load it on first use.
var Config Type

// GetInt returns the int at key, or the single defaultValue when key is
// absent.
func GetInt(key string, defaultValue ...int) (int, error) {
	val, err := lookup(key)
	if err != nil {
		return orDefault(err, defaultValue)
	}

	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	}
	return 0, fmt.Errorf("%s: value is not an int", key)
}

// GetString returns the string at key, or the single defaultValue when key
// is absent.
func GetString(key string, defaultValue ...string) (string, error) {
	val, err := lookup(key)
	if err != nil {
		return orDefault(err, defaultValue)
	}

	s, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s: value is not a string", key)
	}
	return s, nil
}

// GetStringSlice returns the list of strings at key. Argument sets
// (compare.defaults, compare.<set>) are read this way.
func GetStringSlice(key string, defaultValue ...[]string) ([]string, error) {
	val, err := lookup(key)
	if err != nil {
		return orDefault(err, defaultValue)
	}

	items, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: value is not a list", key)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s: list element is not a string", key)
		}
		out = append(out, s)
	}
	return out, nil
}

// Load reads rowdiff.yaml into Config. An explicit path wins over
// ROWDIFF_CFG_FILE, which wins over the user config directory.
func Load(cfgFilePath ...string) (Type, error) {
	path := ""
	if len(cfgFilePath) == 1 {
		path = cfgFilePath[0]
	}
	if path == "" {
		p, err := locate()
		if err != nil {
			return Type{}, err
		}
		path = p
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Type{}, err
	}

	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Type{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	Config = Type{Source: path, Namespace: Config.Namespace, Data: data}
	return Config, nil
}

func lookup(key string) (any, error) {
	if len(Config.Data) == 0 {
		_, _ = Load(Config.Source)
	}
	return Config.get(key)
}

func orDefault[T any](err error, defaultValue []T) (T, error) {
	var zero T
	if len(defaultValue) == 1 {
		return defaultValue[0], nil
	}
	return zero, err
}

// get walks Data along the dotted key, trying the namespaced form first.
func (cfg *Type) get(key string) (any, error) {
	candidates := []string{key}
	if cfg.Namespace != "" {
		candidates = []string{cfg.Namespace + "." + key, key}
	}

	for _, candidate := range candidates {
		if v, ok := walk(cfg.Data, strings.Split(candidate, ".")); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("no valid path found among: %v", candidates)
}

func walk(node any, path []string) (any, bool) {
	for _, p := range path {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		if node, ok = m[p]; !ok {
			return nil, false
		}
	}
	return node, true
}

func locate() (string, error) {
	if p := os.Getenv("ROWDIFF_CFG_FILE"); p != "" {
		fi, err := os.Stat(p)
		switch {
		case err != nil:
			return "", fmt.Errorf("config file not found at ROWDIFF_CFG_FILE path: %s", p)
		case fi.IsDir():
			return "", fmt.Errorf("ROWDIFF_CFG_FILE points to a directory: %s", p)
		}
		log.Debugf("using config file from ROWDIFF_CFG_FILE: %s", p)
		return p, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "rowdiff.yaml")
	if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
		log.Debugf("using config file: %s", p)
		return p, nil
	}
	return "", errors.New("no config file found in standard locations")
}
