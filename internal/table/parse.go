// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tfctl/rowdiff/internal/log"
)

// DefaultDelimiter separates fields when no WithDelimiter option is given.
const DefaultDelimiter = ';'

// ErrNegativeSkip is returned when the header skip count is below zero.
var ErrNegativeSkip = errors.New("header skip must not be negative")

type options struct {
	delimiter string
}

// Option customizes parsing.
type Option func(*options)

// WithDelimiter overrides the field delimiter. The zero rune is ignored.
func WithDelimiter(d rune) Option {
	return func(o *options) {
		if d != 0 {
			o.delimiter = string(d)
		}
	}
}

// Parse turns text into a Table. The first headerSkip lines are discarded,
// the next line is the header and every remaining line is a candidate row.
// Parse only fails for a negative headerSkip; anything else degrades to
// fewer or shorter rows.
func Parse(text string, headerSkip int, opts ...Option) (*Table, error) {
	if headerSkip < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeSkip, headerSkip)
	}

	o := options{delimiter: string(DefaultDelimiter)}
	for _, opt := range opts {
		opt(&o)
	}

	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}

	if headerSkip >= len(lines) {
		log.Debugf("header skip exceeds input: skip=%d, lines=%d", headerSkip, len(lines))
		lines = nil
	} else {
		lines = lines[headerSkip:]
	}

	// An empty input still yields a header line, just an empty one.
	headerLine := ""
	if len(lines) > 0 {
		headerLine = lines[0]
		lines = lines[1:]
	}

	t := &Table{}
	for _, h := range strings.Split(headerLine, o.delimiter) {
		t.Headers = append(t.Headers, strings.TrimSpace(h))
	}
	t.index()
	log.Tracef("headers parsed: headers=%v", t.Headers)

	for n, line := range lines {
		row, blank := t.buildRow(line, o.delimiter)
		if blank {
			log.Tracef("blank sentinel dropped: line=%d", n+headerSkip+2)
			t.Skipped++
			continue
		}
		t.Rows = append(t.Rows, row)
	}

	log.Debugf("table parsed: columns=%d, rows=%d, skipped=%d", len(t.Headers), len(t.Rows), t.Skipped)
	return t, nil
}

// ParseReader reads all of r and parses it like Parse.
func ParseReader(r io.Reader, headerSkip int, opts ...Option) (*Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read table input: %w", err)
	}
	return Parse(string(b), headerSkip, opts...)
}

// buildRow zips the header with the fields of line. It reports blank when the
// first field is empty, which covers empty lines, the trailing line left by a
// final newline and all-delimiter filler lines.
func (t *Table) buildRow(line string, delim string) (Row, bool) {
	fields := strings.Split(line, delim)
	if fields[0] == "" {
		return nil, true
	}

	row := make(Row, len(t.Headers))
	for i, h := range t.Headers {
		if i >= len(fields) {
			break
		}
		row[h] = fields[i]
	}
	return row, false
}
