// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/rowdiff/internal/attrs"
	"github.com/tfctl/rowdiff/internal/config"
	"github.com/tfctl/rowdiff/internal/expr"
	"github.com/tfctl/rowdiff/internal/filters"
	"github.com/tfctl/rowdiff/internal/log"
)

// Options are the rendering flags shared by every command.
type Options struct {
	Output  string
	Filter  string
	Where   *expr.Where
	Sort    string
	Titles  bool
	Color   bool
	Padding int
	// Header and Footer are printed around text tables when set.
	Header string
	Footer string
}

// NewOptions reads the global output flags from cmd.
func NewOptions(cmd *cli.Command) (Options, error) {
	where, err := expr.Compile(cmd.String("where"))
	if err != nil {
		return Options{}, err
	}

	return Options{
		Output:  cmd.String("output"),
		Filter:  cmd.String("filter"),
		Where:   where,
		Sort:    cmd.String("sort"),
		Titles:  cmd.Bool("titles"),
		Color:   cmd.Bool("color"),
		Padding: cmd.Int("padding"),
	}, nil
}

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return humanize.Ftoa(value)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// SliceDiceSpit filters, transforms, sorts and renders a JSON array dataset
// according to opts and the attribute specs. The optional postProcess
// callback runs on the final dataset before text rendering.
func SliceDiceSpit(raw bytes.Buffer,
	attrs attrs.AttrList,
	opts Options,
	w io.Writer,
	postProcess func([]map[string]interface{}) error) error {

	if w == nil {
		w = os.Stdout
	}

	// If raw, just dump it and go home.
	if opts.Output == "raw" {
		_, err := w.Write(raw.Bytes())
		return err
	}

	fullDataset := gjson.Parse(raw.String())

	// Filter out the rows we don't want first so the later phases work on a
	// smaller dataset.
	dataset := filters.FilterDataset(fullDataset, attrs, opts.Filter)
	dataset = opts.Where.Filter(dataset)

	// Sort before transforming so numbers order as numbers.
	SortDataset(dataset, opts.Sort)

	for _, row := range dataset {
		for _, attr := range attrs {
			if attr.TransformSpec != "" {
				row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
			}
		}
	}

	switch opts.Output {
	case "json":
		if dataset == nil {
			dataset = []map[string]interface{}{}
		}
		jsonOutput, err := json.Marshal(dataset)
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonOutput))
		return err
	case "yaml":
		yamlOutput, err := yaml.Marshal(dataset)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(yamlOutput)
		return err
	default:
		if postProcess != nil {
			if err := postProcess(dataset); err != nil {
				log.Errorf("postProcess: %v", err)
			}
		}

		TableWriter(dataset, attrs, opts, w)
	}
	return nil
}

// TableWriter renders the result set in a tabular form honoring color,
// titles and padding options.
func TableWriter(
	resultSet []map[string]interface{},
	attrs attrs.AttrList,
	opts Options,
	w io.Writer) {

	if w == nil {
		w = os.Stdout
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
		upStyle      = cellStyle
		downStyle    = cellStyle
	)

	if opts.Color {
		p := getColors("colors")

		headerStyle = headerStyle.Foreground(p.header)
		evenRowStyle = evenRowStyle.Foreground(p.even)
		oddRowStyle = oddRowStyle.Foreground(p.odd)
		upStyle = upStyle.Foreground(p.increase)
		downStyle = downStyle.Foreground(p.decrease)
	}

	if opts.Header != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Header))
	}

	// We return early if there are no results to display.
	if len(resultSet) != 0 {
		var rows [][]string
		trend := make([]string, 0, len(resultSet))
		for _, result := range resultSet {
			row := make([]string, 0, len(result))
			for _, attr := range attrs {
				if !attr.Include {
					continue
				}
				row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
			}
			rows = append(rows, row)
			trend = append(trend, rowTrend(result))
		}

		pad := opts.Padding
		t := table.New().
			BorderBottom(false).
			BorderTop(false).
			BorderLeft(false).
			BorderRight(false).
			Border(lipgloss.HiddenBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				var style lipgloss.Style
				switch {
				case row == table.HeaderRow:
					style = headerStyle
				case trend[row] == "increase" || trend[row] == "added":
					style = upStyle
				case trend[row] == "decrease" || trend[row] == "removed":
					style = downStyle
				case row%2 == 0:
					style = evenRowStyle
				default:
					style = oddRowStyle
				}

				if col > 0 {
					style = style.PaddingLeft(pad)
				}

				return style
			}).
			Headers().
			Rows(rows...)

		if opts.Titles {
			var headers []string
			for _, attr := range attrs {
				if attr.Include {
					headers = append(headers, attr.OutputKey)
				}
			}

			// https://github.com/charmbracelet/lipgloss/issues/261
			t = t.Headers(headers...).BorderHeader(false)
		}
		fmt.Fprintln(w, t)
	}

	if opts.Footer != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Footer))
	}
}

// rowTrend picks the highlight of a row from its direction, falling back to
// its status.
func rowTrend(row map[string]interface{}) string {
	if d, ok := row["direction"].(string); ok && d != "" {
		return d
	}
	s, _ := row["status"].(string)
	return s
}

type palette struct {
	header, even, odd, increase, decrease color.Color
}

// getColors returns configured color values for table rendering. Each color is
// selected based on terminal background color and brightness so that we can
// make sure output is reasonably visible for all(?) terminal themes.
func getColors(key string) palette {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	// Use the explicit color if found in the config and leave it up to the user
	// to choose appropriate colors for their theme. If not found, pick a
	// reasonable default based on terminal background.
	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	return palette{
		header:   resolveColor(key+".title", "#b08800", "#f6be00"),
		even:     resolveColor(key+".even", "#333333", "#ffffff"),
		odd:      resolveColor(key+".odd", "#0088a0", "#00c8f0"),
		increase: resolveColor(key+".increase", "#1a7f37", "#3fb950"),
		decrease: resolveColor(key+".decrease", "#cf222e", "#f85149"),
	}
}
