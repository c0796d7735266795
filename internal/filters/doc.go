// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters selects dataset rows with --filter expressions.
//
// Filters are specified as key-operator-target expressions joined by a
// delimiter (default: comma, override with ROWDIFF_FILTER_DELIM).
//
// Operators, each negatable with a leading !:
//
//   - = : exact match
//   - ~ : case-insensitive match
//   - ^ : prefix match
//   - < : less than (numeric when both sides are numbers)
//   - > : greater than (numeric when both sides are numbers)
//   - @ : contains substring
//   - / : regex match
//
// Examples:
//
//   - "status=changed" : rows reporting a changed line
//   - "field^qty" : rows for fields starting with qty
//   - "delta>10" : numeric increases larger than 10
//   - "name!@spare" : rows whose name does not contain spare
//
// Filter keys are matched against the OutputKey of attributes (see attrs
// package). Invalid specs are logged and skipped so the rest of the set
// still applies.
package filters
