// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package table parses delimiter separated text into a Table: an ordered list
// of column names taken from a header line and an ordered list of rows keyed
// by those names. Lines whose first field is empty are blank sentinels and
// never become rows. Rows shorter than the header degrade to absent trailing
// cells rather than failing.
package table
