// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/rowdiff/internal/attrs"
	"github.com/tfctl/rowdiff/internal/differ"
	"github.com/tfctl/rowdiff/internal/expr"
	"github.com/tfctl/rowdiff/internal/table"
)

func sampleResult() differ.Result {
	return differ.Result{
		Status:   differ.StatusDifferent,
		IDColumn: "id",
		Records: []differ.Record{
			{ID: "2", Name: "Nut", Kind: differ.Removed, Message: differ.MsgRemoved},
			{ID: "1", Name: "Bolt", Kind: differ.Changed, Changes: []differ.FieldChange{
				{Field: "qty", Original: "9", New: "10"},
				{Field: "unit", Original: "pcs", New: "box"},
			}},
			{ID: "3", Name: "Washer", Kind: differ.Added, Message: differ.MsgAdded},
		},
	}
}

func defaultAttrs(t *testing.T) attrs.AttrList {
	t.Helper()
	var a attrs.AttrList
	require.NoError(t, a.Set("id,name,status,change,!field,!original,!new,!delta,!direction"))
	return a
}

func TestFlatten(t *testing.T) {
	rows := Flatten(sampleResult())
	require.Len(t, rows, 4)

	assert.Equal(t, Row{ID: "2", Name: "Nut", Status: "removed", Change: differ.MsgRemoved, Message: differ.MsgRemoved}, rows[0])

	assert.Equal(t, "qty", rows[1].Field)
	assert.Equal(t, "Increases qty from 9 to 10.", rows[1].Change)
	assert.Equal(t, "increase", rows[1].Direction)
	require.NotNil(t, rows[1].Delta)
	assert.Equal(t, 1.0, *rows[1].Delta)

	assert.Equal(t, `Changes unit from "pcs" to "box".`, rows[2].Change)
	assert.Equal(t, "change", rows[2].Direction)
	assert.Nil(t, rows[2].Delta)

	assert.Equal(t, "added", rows[3].Status)
}

func TestFlatten_InfiniteDeltaOmitted(t *testing.T) {
	res := differ.Result{Records: []differ.Record{{ID: "1", Kind: differ.Changed, Changes: []differ.FieldChange{
		{Field: "qty", Original: "5", New: "Infinity"},
	}}}}

	rows := Flatten(res)
	require.Len(t, rows, 1)
	assert.Equal(t, "increase", rows[0].Direction)
	assert.Nil(t, rows[0].Delta)

	_, err := Marshal(rows)
	assert.NoError(t, err)
}

func TestColumns(t *testing.T) {
	tbl, err := table.Parse("id;name;qty\n1;Bolt;\n2; ;9\n3", 0)
	require.NoError(t, err)

	assert.Equal(t, []Column{
		{Index: 0, Column: "id", Populated: 3},
		{Index: 1, Column: "name", Populated: 1, Blank: 2},
		{Index: 2, Column: "qty", Populated: 1, Blank: 2},
	}, Columns(tbl))
	assert.Nil(t, Columns(nil))
}

func spit(t *testing.T, a attrs.AttrList, opts Options) string {
	t.Helper()
	raw, err := Marshal(Flatten(sampleResult()))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, SliceDiceSpit(raw, a, opts, &buf, nil))
	return ansi.Strip(buf.String())
}

func TestSliceDiceSpit_JSON(t *testing.T) {
	out := spit(t, defaultAttrs(t), Options{Output: "json", Filter: "status=changed"})

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0]["id"])
	assert.Equal(t, 1.0, got[0]["delta"])
	assert.Nil(t, got[1]["delta"])
}

func TestSliceDiceSpit_JSONEmpty(t *testing.T) {
	out := spit(t, defaultAttrs(t), Options{Output: "json", Filter: "status=nothing"})
	assert.Equal(t, "[]\n", out)
}

func TestSliceDiceSpit_YAML(t *testing.T) {
	out := spit(t, defaultAttrs(t), Options{Output: "yaml", Sort: "-id"})

	var got []map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Len(t, got, 4)
	assert.Equal(t, "3", got[0]["id"])
	assert.Equal(t, "1", got[3]["id"])
}

func TestSliceDiceSpit_Where(t *testing.T) {
	where, err := expr.Compile(`direction == "increase"`)
	require.NoError(t, err)

	out := spit(t, defaultAttrs(t), Options{Output: "json", Where: where})

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "qty", got[0]["field"])
}

func TestSliceDiceSpit_Raw(t *testing.T) {
	raw, err := Marshal([]Column{{Index: 0, Column: "id", Populated: 1}})
	require.NoError(t, err)
	want := raw.String()

	var buf bytes.Buffer
	require.NoError(t, SliceDiceSpit(raw, nil, Options{Output: "raw"}, &buf, nil))
	assert.Equal(t, want, buf.String())
}

func TestSliceDiceSpit_TextTransformsAndPostProcess(t *testing.T) {
	a := defaultAttrs(t)
	require.NoError(t, a.Set("name::u"))

	var seen int
	raw, err := Marshal(Flatten(sampleResult()))
	require.NoError(t, err)

	var buf bytes.Buffer
	err = SliceDiceSpit(raw, a, Options{Titles: true, Header: "old.txt -> new.txt", Footer: "1 changed"}, &buf,
		func(rows []map[string]interface{}) error {
			seen = len(rows)
			return nil
		})
	require.NoError(t, err)

	out := ansi.Strip(buf.String())
	assert.Equal(t, 4, seen)
	assert.Contains(t, out, "old.txt -> new.txt")
	assert.Contains(t, out, "BOLT")
	assert.Contains(t, out, "Increases qty from 9 to 10.")
	assert.Contains(t, out, "change")
	assert.NotContains(t, out, "direction")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "1 changed"))
}

func TestTableWriter_EmptyPrintsHeaderAndFooterOnly(t *testing.T) {
	var buf bytes.Buffer
	TableWriter(nil, defaultAttrs(t), Options{Header: "head", Footer: "foot"}, &buf)
	assert.Equal(t, "head\nfoot\n", ansi.Strip(buf.String()))

	buf.Reset()
	TableWriter(nil, defaultAttrs(t), Options{}, &buf)
	assert.Empty(t, buf.String())
}

func TestTableWriter_MissingValuesRenderAsDash(t *testing.T) {
	a := attrs.AttrList{{Key: "id", OutputKey: "id", Include: true}, {Key: "delta", OutputKey: "delta", Include: true}}

	var buf bytes.Buffer
	TableWriter([]map[string]interface{}{{"id": "7", "delta": nil}}, a, Options{}, &buf)
	out := ansi.Strip(buf.String())
	assert.Contains(t, out, "7")
	assert.Contains(t, out, "-")
}

func TestRowTrend(t *testing.T) {
	assert.Equal(t, "decrease", rowTrend(map[string]interface{}{"direction": "decrease", "status": "changed"}))
	assert.Equal(t, "added", rowTrend(map[string]interface{}{"direction": "", "status": "added"}))
	assert.Equal(t, "", rowTrend(map[string]interface{}{}))
}

func TestGetColors(t *testing.T) {
	p := getColors("colors")
	assert.NotNil(t, p.header)
	assert.NotNil(t, p.increase)
	assert.NotNil(t, p.decrease)
}

func TestSortDataset(t *testing.T) {
	testData := []map[string]interface{}{
		{"id": "b", "delta": 3.0, "name": "Zebra"},
		{"id": "a", "delta": -7.5, "name": "alpha"},
		{"id": "c", "delta": nil, "name": "Beta"},
	}

	tests := []struct {
		name      string
		spec      string
		wantOrder []string
	}{
		{"ascending by name", "name", []string{"a", "c", "b"}},
		{"descending by name", "-name", []string{"b", "c", "a"}},
		{"case sensitive", "!name", []string{"c", "b", "a"}},
		{"numeric with fractions", "delta", []string{"c", "a", "b"}},
		{"empty spec keeps order", "", []string{"b", "a", "c"}},
		{"multiple fields", "status, -id", []string{"c", "b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]map[string]interface{}, len(testData))
			copy(data, testData)
			SortDataset(data, tt.spec)
			for i, want := range tt.wantOrder {
				assert.Equal(t, want, data[i]["id"], "at index %d", i)
			}
		})
	}
}

func TestInterfaceToString(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		emptyVal []string
		want     string
	}{
		{"string", "hello", nil, "hello"},
		{"int", 42, nil, "42"},
		{"whole float", 10.0, nil, "10"},
		{"fractional float", -7.5, nil, "-7.5"},
		{"bool", true, nil, "true"},
		{"nil default", nil, nil, ""},
		{"nil custom", nil, []string{"-"}, "-"},
		{"empty string custom", "", []string{"-"}, "-"},
		{"slice", []string{"a"}, nil, `["a"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InterfaceToString(tt.value, tt.emptyVal...))
		})
	}
}

func TestDumpSchema(t *testing.T) {
	var buf bytes.Buffer
	DumpSchema(reflect.TypeOf(Row{}), &buf)

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines[0], "--attrs")
	assert.Contains(t, out, "delta      number")
	assert.Contains(t, out, "direction  string")
	assert.Less(t, strings.Index(out, "id "), strings.Index(out, "message"))

	buf.Reset()
	DumpSchema(reflect.TypeOf(&Column{}), &buf)
	assert.Contains(t, buf.String(), "populated  number")

	buf.Reset()
	DumpSchema(reflect.TypeOf(""), &buf)
	assert.NotContains(t, buf.String(), "string")
}
