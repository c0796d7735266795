// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package attrs parses --attrs specs, which choose, rename and transform the
// columns of a dataset.
package attrs

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/tfctl/rowdiff/internal/log"
)

var lengthRegex = regexp.MustCompile(`-?\d+`)

// Attr is one column of a dataset row.
type Attr struct {
	// The dataset key to read.
	Key string `yaml:"key" json:"Key"`
	// Should this Attr be included in output or is it just
	// intended for filtering and sorting?
	Include bool `yaml:"include" json:"Include"`
	// The key to use in the output. This is also the column title when
	// output=text.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// Transformation spec to apply to the output value.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// Transform applies the attribute's transform spec to a value and returns the
// transformed result.
func (a *Attr) Transform(value interface{}) interface{} {
	if a.TransformSpec == "" {
		return value
	}

	// Humanize numbers: 1234567.5 -> 1,234,567.5.
	if strings.ContainsAny(a.TransformSpec, "hH") {
		if f, ok := numberOf(value); ok {
			value = humanize.Commaf(f)
			log.Tracef("humanized: result=%v", value)
		}
	}

	result, ok := value.(string)
	if !ok {
		log.Tracef("non-string value: value=%v", value)
		return value
	}

	// We need to know which case transformation appears last. This covers the
	// case where there has been a global case transformation prepended to the
	// attrs transformation and allows the attr's to carry more weight.
	// IOW... --attrs '*::U,name::l' will be lower case.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")

	if lastL > lastU {
		result = strings.ToLower(result)
		log.Tracef("case lower: result=%s", result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
		log.Tracef("case upper: result=%s", result)
	}

	// Same logic as above re: case. The last length wins so a specific
	// length overrides a global one.
	match := lengthRegex.FindAllString(a.TransformSpec, -1)
	if len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		result = truncate(result, l)
	}

	return result
}

// truncate cuts s to l runes. A negative l keeps both ends and elides the
// middle.
func truncate(s string, l int) string {
	runes := []rune(s)
	abs := int(math.Abs(float64(l)))
	if len(runes) <= abs || abs == 0 {
		return s
	}

	if l < 0 {
		lr := max(abs/2-1, 1)
		if 2*lr >= len(runes) {
			return s
		}
		s = string(runes[:lr]) + ".." + string(runes[len(runes)-lr:])
		log.Tracef("length middle: result=%s", s)
		return s
	}

	s = string(runes[:l])
	log.Tracef("length trunc: result=%s", s)
	return s
}

// numberOf accepts float64 values and strings that parse as floats.
func numberOf(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// AttrList is a collection of Attr used to shape output fields.
type AttrList []Attr

// Set parses each spec from --attrs and adds it to the AttrList.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		log.Debugf("early return: value=%s", value)
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

	// There are three : delimited fields in each spec. The first is the
	// dataset key. The second is the key to use in the output. The third is
	// the transformation spec. The latter two are optional.
	specs := strings.Split(value, ",")
	log.Debugf("specs split: specs=%v", specs)
specloop:
	for _, spec := range specs {
		attr := Attr{
			Include: true,
		}

		fields := strings.Split(spec, ":")

		// A leading ! keeps the key available for filtering and sorting but
		// hides it from output.
		attr.Key = strings.TrimPrefix(strings.TrimSpace(fields[keyIdx]), ".")
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("invalid attr spec: %q", spec)
		}

		if attr.Key == "*" {
			attr.Include = false
		}
		log.Tracef("key parsed: key=%s, include=%v", attr.Key, attr.Include)

		attr.OutputKey = attr.Key
		if len(fields) > outputIdx && strings.TrimSpace(fields[outputIdx]) != "" {
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		}

		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}
		log.Tracef("attr set: outputKey=%s, spec=%s", attr.OutputKey, attr.TransformSpec)

		// If the attr already exists in the list (because it is a default for
		// a command or the user double-entered it), apply the OutputKey, Include
		// and TransformSpec to the existing Attr.
		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				(*a)[i].OutputKey = attr.OutputKey
				(*a)[i].TransformSpec = attr.TransformSpec
				log.Tracef("existing updated: i=%d", i)
				continue specloop
			}
		}

		*a = append(*a, attr)
		log.Tracef("attr appended: len=%d", len(*a))
	}

	return nil
}

// SetGlobalTransformSpec inserts a global transform spec at the front of all
// attrs in the list.
func (a *AttrList) SetGlobalTransformSpec() error {
	spec := ""

	// Find the global transform spec. If there is more than one, take the first.
	for attr := range *a {
		if (*a)[attr].Key == "*" {
			spec = (*a)[attr].TransformSpec
			break
		}
	}
	log.Debugf("global spec: spec=%s", spec)

	if spec == "" {
		return nil
	}

	for attr := range *a {
		(*a)[attr].TransformSpec = spec + "," + (*a)[attr].TransformSpec
	}

	return nil
}

// Included returns the attrs that are rendered, in order.
func (a AttrList) Included() AttrList {
	var out AttrList
	for _, attr := range a {
		if attr.Include {
			out = append(out, attr)
		}
	}
	return out
}

// String returns a string representation of the AttrList. This matches the
// format of the original --attrs flag.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}

	return strings.Join(result, ",")
}

// Type returns the flag type for use with the flag.Value interface.
func (a *AttrList) Type() string { return "list" }
