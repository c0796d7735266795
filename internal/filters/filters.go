// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/tfctl/rowdiff/internal/attrs"
	"github.com/tfctl/rowdiff/internal/log"
)

// filterRegex splits a filter expression into key, operator (with optional
// negation) and target. "name" (key only), "name=value" and "name=" all
// match.
var filterRegex = regexp.MustCompile(`^([^!?=^~<>@/]*)(!?[=^~<>@/])?(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Key     string `yaml:"key" json:"Key"`
	Negate  bool   `yaml:"negate" json:"Negate"`
	Operand string `yaml:"operand" json:"Operand"`
	Value   string `yaml:"value" json:"Value"`
}

// BuildFilters parses a --filter string into a slice of Filter.
// Invalid specs are skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	// Default delimiter is ",", allow an override for situations where the value
	// contains commas.
	delim := ","
	if d, ok := os.LookupEnv("ROWDIFF_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		filterSpec = strings.TrimSpace(filterSpec)
		if filterSpec == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil {
			log.Errorf("invalid filter: %s", filterSpec)
			continue
		}

		key := strings.TrimSpace(parts[1])
		operand := parts[2]
		target := parts[3]

		if key == "" {
			log.Errorf("invalid filter: empty key in %s", filterSpec)
			continue
		}

		// A bare key is a presence test: the value must be non-empty.
		if operand == "" {
			if target != "" {
				log.Errorf("invalid filter: %s", filterSpec)
				continue
			}
			filters = append(filters, Filter{Key: key, Negate: true, Operand: "="})
			continue
		}

		negate := strings.HasPrefix(operand, "!")
		if negate {
			operand = strings.TrimPrefix(operand, "!")
		}

		filters = append(filters, Filter{
			Key:     key,
			Negate:  negate,
			Operand: operand,
			Value:   target,
		})
	}

	return filters
}

// FilterDataset returns the candidate rows matching every filter in spec,
// projected onto attrs. Transforms are left to the output phase.
func FilterDataset(candidates gjson.Result, attrs attrs.AttrList, spec string) []map[string]interface{} {
	//nolint:prealloc
	var filteredResults []map[string]interface{}

	filters := BuildFilters(spec)
	warned := map[string]bool{}

	for _, candidate := range candidates.Array() {
		if !applyFilters(candidate, attrs, filters, warned) {
			continue
		}

		result := make(map[string]interface{})
		for _, attr := range attrs {
			if attr.Key == "*" {
				continue
			}
			result[attr.OutputKey] = candidate.Get(gjsonPath(attr.Key)).Value()
		}
		filteredResults = append(filteredResults, result)
	}

	log.Debugf("dataset filtered: in=%d, out=%d", len(candidates.Array()), len(filteredResults))
	return filteredResults
}

// applyFilters returns true if the candidate row matches all of the
// provided filters. Unknown keys are reported once and otherwise ignored.
func applyFilters(candidate gjson.Result, attrs attrs.AttrList, filters []Filter, warned map[string]bool) bool {
	for _, filter := range filters {
		var key string
		for _, attr := range attrs {
			if attr.OutputKey == filter.Key {
				key = attr.Key
				break
			}
		}

		if key == "" {
			if warned != nil && !warned[filter.Key] {
				warned[filter.Key] = true
				log.Errorf("filter key not found: %s", filter.Key)
				fmt.Fprintf(os.Stderr, "warning: filter key not found: %s\n", filter.Key)
			}
			continue
		}

		value := candidate.Get(gjsonPath(key))

		var result bool
		switch value.Type {
		case gjson.Number:
			result = checkNumericOperand(value.Num, filter)
		case gjson.Null:
			// Null behaves as the empty string, so "delta=" selects rows with
			// no delta.
			result = checkStringOperand("", filter)
		default:
			result = checkStringOperand(value.String(), filter)
		}

		if !result {
			return false
		}
	}

	return true
}

// gjsonPath escapes gjson metacharacters so header names such as "qty.1"
// address a single key.
func gjsonPath(key string) string {
	var b strings.Builder
	for _, r := range key {
		if strings.ContainsRune(`.*?|#@\!=<>%`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// checkNumericOperand compares a numeric value against the filter value. A
// non-numeric target falls back to string semantics on the formatted value.
func checkNumericOperand(value float64, filter Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Value), 64)
	if err != nil {
		return checkStringOperand(strconv.FormatFloat(value, 'f', -1, 64), filter)
	}

	switch filter.Operand {
	case "=":
		return (value == tgt) == !filter.Negate
	case ">":
		return (value > tgt) == !filter.Negate
	case "<":
		return (value < tgt) == !filter.Negate
	default:
		return checkStringOperand(strconv.FormatFloat(value, 'f', -1, 64), filter)
	}
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value using the operand semantics. Ordering operands compare
// numerically when both sides parse as numbers, so "qty>9" works on cells.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return value == filter.Value == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Value) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Value) == !filter.Negate
	case ">", "<":
		if v, ok := toFloat64(value); ok {
			if _, ok := toFloat64(filter.Value); ok {
				return checkNumericOperand(v, filter)
			}
		}
		if filter.Operand == ">" {
			return value > filter.Value == !filter.Negate
		}
		return value < filter.Value == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Value) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Value, value)
		if err != nil {
			log.Errorf("invalid regex: %s", filter.Value)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Errorf("unsupported filtering operand: %s", filter.Operand)
		return false
	}
}

// toFloat64 parses a trimmed string as a float.
func toFloat64(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}
