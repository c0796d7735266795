// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tfctl/rowdiff/internal/log"
)

// Dir is ROWDIFF_CACHE_DIR, else <user cache dir>/rowdiff. ok is false when
// neither resolves, which disables the cache.
func Dir() (dir string, ok bool) {
	if c := os.Getenv("ROWDIFF_CACHE_DIR"); c != "" {
		return c, true
	}
	if base, err := os.UserCacheDir(); err == nil && base != "" {
		return filepath.Join(base, "rowdiff"), true
	}
	return "", false
}

// Enabled is false only when ROWDIFF_CACHE is "0" or "false".
func Enabled() bool {
	switch os.Getenv("ROWDIFF_CACHE") {
	case "0", "false":
		return false
	}
	return true
}

// EnsureBaseDir creates Dir. ok reports whether the cache is usable.
func EnsureBaseDir() (dir string, ok bool, err error) {
	if !Enabled() {
		return "", false, nil
	}
	if dir, ok = Dir(); !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return dir, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return dir, true, nil
}

// Read returns the bytes stored under key, unmodified. Leading blank lines
// matter to the parser so nothing is trimmed.
func Read(subdirs []string, key string) ([]byte, bool) {
	if !Enabled() {
		return nil, false
	}
	p, ok := entryPath(subdirs, key)
	if !ok {
		return nil, false
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", key)
	return data, true
}

// Write stores data under key. A disabled cache is a silent no-op.
func Write(subdirs []string, key string, data []byte) error {
	if !Enabled() {
		return nil
	}
	p, _ := entryPath(subdirs, key)
	if p == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(p, data, 0o600); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Debugf("cache write: key=%s", key)
	return nil
}

// Purge deletes cached files older than hours. hours <= 0 keeps everything.
func Purge(hours int) error {
	if hours <= 0 {
		return nil
	}
	base, ok := Dir()
	if !ok {
		return nil
	}

	cutoff := time.Now().Add(-time.Duration(hours) * time.Hour)
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		// Another run may remove files mid walk.
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil || d.IsDir() {
			return err
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warnf("failed to remove cache file %s", path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// Key identifies one version of a remote object.
func Key(parts ...string) string {
	return strings.Join(parts, "|")
}

// entryPath is where key lives under subdirs and whether it exists there.
func entryPath(subdirs []string, key string) (string, bool) {
	base, ok := Dir()
	if !ok {
		return "", false
	}
	p := filepath.Join(append(append([]string{base}, subdirs...), encodeKey(key))...)
	_, err := os.Stat(p)
	return p, err == nil
}

func encodeKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
