// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output flattens comparison results into dataset rows and renders
// them as text tables, JSON or YAML after filtering, transforming and
// sorting.
package output
