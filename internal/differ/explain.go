// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/tfctl/rowdiff/internal/log"
	"github.com/tfctl/rowdiff/internal/table"
)

type headerDoc struct {
	Columns int      `json:"columns"`
	Headers []string `json:"headers"`
}

// ExplainMismatch renders the difference between the two header lines as an
// ASCII delta. It is meant to accompany MsgMismatch and returns "" when the
// headers are identical.
func ExplainMismatch(original, changed *table.Table, coloring bool) (string, error) {
	if original == nil || changed == nil {
		return "", nil
	}

	left, err := json.Marshal(headerDoc{Columns: len(original.Headers), Headers: original.Headers})
	if err != nil {
		return "", fmt.Errorf("failed to marshal original headers: %w", err)
	}
	right, err := json.Marshal(headerDoc{Columns: len(changed.Headers), Headers: changed.Headers})
	if err != nil {
		return "", fmt.Errorf("failed to marshal changed headers: %w", err)
	}

	delta, err := gojsondiff.New().Compare(left, right)
	if err != nil {
		return "", fmt.Errorf("failed to compare headers: %w", err)
	}
	if !delta.Modified() {
		return "", nil
	}
	log.Debugf("header delta: deltas=%d", len(delta.Deltas()))

	var jdoc map[string]interface{}
	if err := json.Unmarshal(left, &jdoc); err != nil {
		return "", fmt.Errorf("failed to unmarshal headers: %w", err)
	}

	f := formatter.NewAsciiFormatter(jdoc, formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       coloring,
	})
	return f.Format(delta)
}
