// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/tfctl/rowdiff/internal/differ"
	"github.com/tfctl/rowdiff/internal/table"
)

// Row is one line of compare output. A Changed record yields one Row per
// field change, Added and Removed records one Row each.
type Row struct {
	ID        string   `json:"id" attr:"id"`
	Name      string   `json:"name" attr:"name"`
	Status    string   `json:"status" attr:"status"`
	Field     string   `json:"field" attr:"field"`
	Original  string   `json:"original" attr:"original"`
	New       string   `json:"new" attr:"new"`
	Change    string   `json:"change" attr:"change"`
	Direction string   `json:"direction" attr:"direction"`
	Delta     *float64 `json:"delta" attr:"delta"`
	Message   string   `json:"message" attr:"message"`
}

// Column is one line of headers output.
type Column struct {
	Index     int    `json:"index" attr:"index"`
	Column    string `json:"column" attr:"column"`
	Populated int    `json:"populated" attr:"populated"`
	Blank     int    `json:"blank" attr:"blank"`
}

// Flatten turns the records of res into Rows, preserving record order.
func Flatten(res differ.Result) []Row {
	rows := make([]Row, 0, len(res.Records))
	for _, rec := range res.Records {
		base := Row{
			ID:      rec.ID,
			Name:    rec.Name,
			Status:  rec.Kind.String(),
			Change:  rec.Message,
			Message: rec.Message,
		}
		if rec.Kind != differ.Changed {
			rows = append(rows, base)
			continue
		}

		for _, fc := range rec.Changes {
			row := base
			row.Field = fc.Field
			row.Original = fc.Original
			row.New = fc.New
			row.Change = differ.Describe(fc)
			row.Direction = differ.Classify(fc).String()
			// JSON has no encoding for infinities.
			if d, ok := differ.Delta(fc); ok && !math.IsInf(d, 0) && !math.IsNaN(d) {
				row.Delta = &d
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// Columns describes each header of t and how many rows fill it.
func Columns(t *table.Table) []Column {
	if t == nil {
		return nil
	}

	cols := make([]Column, 0, len(t.Headers))
	for i, h := range t.Headers {
		col := Column{Index: i, Column: h}
		for _, v := range t.Column(h) {
			if strings.TrimSpace(v) == "" {
				col.Blank++
			} else {
				col.Populated++
			}
		}
		cols = append(cols, col)
	}
	return cols
}

// Marshal encodes any dataset into the JSON buffer consumed by
// SliceDiceSpit.
func Marshal(v any) (bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return buf, fmt.Errorf("failed to encode dataset: %w", err)
	}
	return buf, nil
}
