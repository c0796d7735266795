// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is the legacy single-byte encoding delimited exports are
// written in.
const DefaultEncoding = "latin1"

// ErrUnknownEncoding is returned by Decode for an encoding name it does not
// know.
var ErrUnknownEncoding = errors.New("unknown encoding")

var encodings = map[string]encoding.Encoding{
	"latin1":      charmap.ISO8859_1,
	"iso-8859-1":  charmap.ISO8859_1,
	"windows1252": charmap.Windows1252,
	"cp1252":      charmap.Windows1252,
	"utf8":        unicode.UTF8BOM,
	"utf-8":       unicode.UTF8BOM,
}

// Encodings lists the accepted encoding names, sorted.
func Encodings() []string {
	names := make([]string, 0, len(encodings))
	for name := range encodings {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Decode converts data to a Go string. An empty name means DefaultEncoding.
func Decode(data []byte, name string) (string, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, ok := encodings[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEncoding, name)
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s text: %w", name, err)
	}
	return string(out), nil
}
