// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package session holds the two table slots of a comparison and recomputes
// the diff whenever asked.
package session

import (
	"context"
	"fmt"

	"github.com/tfctl/rowdiff/internal/differ"
	"github.com/tfctl/rowdiff/internal/log"
	"github.com/tfctl/rowdiff/internal/source"
	"github.com/tfctl/rowdiff/internal/table"
)

// Slot names one side of a comparison.
type Slot int

const (
	Original Slot = iota
	Changed
)

func (s Slot) String() string {
	if s == Original {
		return "original"
	}
	return "changed"
}

// Session is not safe for concurrent use.
type Session struct {
	HeaderSkip int
	IDColumn   string
	NameColumn string
	Strict     bool
	Delimiter  rune
	Encoding   string

	tables [2]*table.Table
	refs   [2]string
}

// Load parses text into slot, replacing whatever was there. A parse failure
// leaves the slot empty.
func (s *Session) Load(_ context.Context, slot Slot, text string) error {
	s.tables[slot] = nil

	t, err := table.Parse(text, s.HeaderSkip, table.WithDelimiter(s.Delimiter))
	if err != nil {
		return fmt.Errorf("failed to parse %s file: %w", slot, err)
	}
	log.Debugf("slot loaded: slot=%s, columns=%d, rows=%d, skipped=%d", slot, len(t.Headers), t.Len(), t.Skipped)

	s.tables[slot] = t
	return nil
}

// LoadFrom reads ref through src, decodes it and loads it into slot.
func (s *Session) LoadFrom(ctx context.Context, slot Slot, src source.Source, ref string) error {
	s.tables[slot] = nil
	s.refs[slot] = ref

	text, err := source.Text(ctx, src, ref, s.Encoding)
	if err != nil {
		return fmt.Errorf("failed to load %s file: %w", slot, err)
	}
	return s.Load(ctx, slot, text)
}

// Table returns the table held in slot, nil when empty.
func (s *Session) Table(slot Slot) *table.Table {
	return s.tables[slot]
}

// Ref returns the reference slot was last loaded from.
func (s *Session) Ref(slot Slot) string {
	return s.refs[slot]
}

// Ready reports whether both slots hold a table.
func (s *Session) Ready() bool {
	return s.tables[Original] != nil && s.tables[Changed] != nil
}

// Compare diffs the two slots from scratch.
func (s *Session) Compare() differ.Result {
	return differ.Compare(s.tables[Original], s.tables[Changed], differ.Options{
		IDColumn:   s.IDColumn,
		NameColumn: s.NameColumn,
		Strict:     s.Strict,
	})
}
