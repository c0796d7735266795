// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"strings"

	"github.com/tfctl/rowdiff/internal/log"
	"github.com/tfctl/rowdiff/internal/table"
)

// Options configures Compare.
type Options struct {
	// IDColumn aligns rows. Empty means the original table's first header.
	IDColumn string
	// NameColumn supplies the display name of each record. Empty means no
	// name.
	NameColumn string
	// Strict rejects tables that repeat an id instead of matching the first
	// occurrence.
	Strict bool
}

// Compare aligns original and changed by id and reports the differences.
//
// Records come in two runs: one Changed or Removed record per original row in
// original order, followed by one Added record per unmatched changed row in
// changed order. A matched pair with no differing cells produces nothing.
func Compare(original, changed *table.Table, opts Options) Result {
	if original == nil || changed == nil {
		log.Debugf("compare not ready: original=%t, changed=%t", original != nil, changed != nil)
		return Result{Status: StatusNotReady}
	}

	if len(original.Headers) == 0 || len(changed.Headers) == 0 {
		log.Debugf("compare not ready: a table has no header")
		return Result{Status: StatusNotReady}
	}

	if len(original.Headers) != len(changed.Headers) {
		log.Debugf("column count mismatch: original=%d, changed=%d", len(original.Headers), len(changed.Headers))
		return Result{Status: StatusMismatch, Message: MsgMismatch}
	}

	idCol := opts.IDColumn
	if idCol == "" {
		idCol = original.Headers[0]
	}
	if !original.HasColumn(idCol) {
		return Result{
			Status:  StatusUnknownColumn,
			Message: fmt.Sprintf("Column %q does not exist.", idCol),
		}
	}
	if !changed.HasColumn(idCol) {
		log.Warnf("id column %q missing from changed file, every row will be added", idCol)
	}

	if opts.Strict {
		for _, side := range []struct {
			name string
			t    *table.Table
		}{{"original", original}, {"changed", changed}} {
			if id, dup := firstDuplicate(side.t, idCol); dup {
				return Result{
					Status:  StatusDuplicateID,
					Message: fmt.Sprintf("Duplicate id %q in %s file.", id, side.name),
				}
			}
		}
	}

	res := Result{IDColumn: idCol, NameColumn: opts.NameColumn}

	// First occurrence wins when the changed side repeats an id.
	matches := make(map[rowKey]table.Row, changed.Len())
	for _, row := range changed.Rows {
		k := keyOf(row, idCol)
		if _, seen := matches[k]; !seen {
			matches[k] = row
		}
	}

	originalIDs := make(map[rowKey]struct{}, original.Len())
	for _, curr := range original.Rows {
		k := keyOf(curr, idCol)
		id := k.id
		originalIDs[k] = struct{}{}

		match, ok := matches[k]
		if !ok {
			res.Records = append(res.Records, Record{
				ID:      id,
				Name:    nameOf(curr, opts.NameColumn),
				Kind:    Removed,
				Message: MsgRemoved,
			})
			continue
		}

		changes := fieldChanges(original.Headers, curr, match)
		if len(changes) == 0 {
			continue
		}
		res.Records = append(res.Records, Record{
			ID:      id,
			Name:    nameOf(match, opts.NameColumn),
			Kind:    Changed,
			Changes: changes,
		})
	}

	for _, row := range changed.Rows {
		k := keyOf(row, idCol)
		if _, ok := originalIDs[k]; ok {
			continue
		}
		res.Records = append(res.Records, Record{
			ID:      k.id,
			Name:    nameOf(row, opts.NameColumn),
			Kind:    Added,
			Message: MsgAdded,
		})
	}

	if len(res.Records) == 0 {
		res.Status = StatusIdentical
		res.Message = MsgIdentical
	} else {
		res.Status = StatusDifferent
	}

	c, a, r := res.Counts()
	log.Debugf("compare done: id=%s, changed=%d, added=%d, removed=%d", idCol, c, a, r)
	return res
}

// fieldChanges lists, in header order, every column whose trimmed values
// differ. Absent cells compare as empty.
func fieldChanges(headers []string, original, changed table.Row) []FieldChange {
	var changes []FieldChange
	for _, h := range headers {
		o, n := original.Value(h), changed.Value(h)
		if strings.TrimSpace(o) == strings.TrimSpace(n) {
			continue
		}
		changes = append(changes, FieldChange{Field: h, Original: o, New: n})
	}
	return changes
}

func nameOf(row table.Row, col string) string {
	if col == "" {
		return ""
	}
	return row.Value(col)
}

// firstDuplicate returns the first id value seen twice in t.
func firstDuplicate(t *table.Table, idCol string) (string, bool) {
	seen := make(map[rowKey]struct{}, t.Len())
	for _, row := range t.Rows {
		k := keyOf(row, idCol)
		if _, ok := seen[k]; ok {
			return k.id, true
		}
		seen[k] = struct{}{}
	}
	return "", false
}

// rowKey matches rows by id. A line too short to carry the id column never
// matches one whose id cell is present but empty.
type rowKey struct {
	id      string
	present bool
}

func keyOf(row table.Row, idCol string) rowKey {
	id, ok := row.Get(idCol)
	return rowKey{id: id, present: ok}
}
