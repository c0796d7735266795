// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import "fmt"

// Messages surfaced to the user.
const (
	MsgMismatch  = "Files do not match."
	MsgIdentical = "There are no differences in these files."
	MsgRemoved   = "This line was removed."
	MsgAdded     = "This line was added."
)

// Kind classifies a Record.
type Kind int

const (
	Changed Kind = iota
	Added
	Removed
)

func (k Kind) String() string {
	switch k {
	case Changed:
		return "changed"
	case Added:
		return "added"
	case Removed:
		return "removed"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText renders the kind by name for JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// FieldChange is one column whose trimmed value differs between a matched
// pair of rows. Values are kept raw, untrimmed.
type FieldChange struct {
	Field    string `json:"field" yaml:"field"`
	Original string `json:"original" yaml:"original"`
	New      string `json:"new" yaml:"new"`
}

// Record describes one reportable row. Changes is only populated for
// Changed records and is never empty for them.
type Record struct {
	ID      string        `json:"id" yaml:"id"`
	Name    string        `json:"name" yaml:"name"`
	Kind    Kind          `json:"status" yaml:"status"`
	Message string        `json:"message,omitempty" yaml:"message,omitempty"`
	Changes []FieldChange `json:"changes,omitempty" yaml:"changes,omitempty"`
}

// Status is the outcome of a comparison.
type Status int

const (
	// StatusNotReady means one side has no table yet. Nothing is reported.
	StatusNotReady Status = iota
	// StatusIdentical means the comparison ran and found nothing.
	StatusIdentical
	// StatusDifferent means at least one record was produced.
	StatusDifferent
	// StatusMismatch means the header counts differ.
	StatusMismatch
	// StatusUnknownColumn means the id column is not a header of the
	// original table.
	StatusUnknownColumn
	// StatusDuplicateID means strict mode found an id twice on one side.
	StatusDuplicateID
)

var statusNames = map[Status]string{
	StatusNotReady:      "not-ready",
	StatusIdentical:     "identical",
	StatusDifferent:     "different",
	StatusMismatch:      "mismatch",
	StatusUnknownColumn: "unknown-column",
	StatusDuplicateID:   "duplicate-id",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Blocking reports whether the status prevented a diff from being computed.
func (s Status) Blocking() bool {
	return s == StatusMismatch || s == StatusUnknownColumn || s == StatusDuplicateID
}

// Result is the full outcome of Compare. Message, when set, should be shown
// in preference to the (empty) record list.
type Result struct {
	Status     Status   `json:"-" yaml:"-"`
	Message    string   `json:"message,omitempty" yaml:"message,omitempty"`
	IDColumn   string   `json:"idColumn,omitempty" yaml:"idColumn,omitempty"`
	NameColumn string   `json:"nameColumn,omitempty" yaml:"nameColumn,omitempty"`
	Records    []Record `json:"records" yaml:"records"`
}

// Counts tallies records by kind.
func (r Result) Counts() (changed, added, removed int) {
	for _, rec := range r.Records {
		switch rec.Kind {
		case Changed:
			changed++
		case Added:
			added++
		case Removed:
			removed++
		}
	}
	return
}
