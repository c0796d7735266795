// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ aligns the rows of two tables by an id column and reports
// rows that changed, were added or were removed.
//
// Comparison never fails with a Go error. Conditions such as a missing table,
// a column count mismatch or an identical pair of files are reported through
// Result.Status and Result.Message so callers can branch on data alone.
//
// StatusMismatch is the structural check: both tables must have the same
// number of columns. StatusUnknownColumn is a second blocking check on top of
// it, raised when the id column is not an original header. StatusDuplicateID
// blocks too but only Options.Strict produces it.
//
// Cell values are compared after trimming surrounding whitespace. Numeric
// interpretation only matters for presentation: Classify decides whether a
// FieldChange is an increase, a decrease or a plain textual change.
package differ
