// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalRegex accepts an optionally signed decimal with optional fraction
// and exponent, e.g. "5", "-1.5", ".5", "5.", "1e3".
var decimalRegex = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Number is the tagged result of ParseNumber.
type Number struct {
	Value   float64
	Numeric bool
}

// ParseNumber coerces s to a number the permissive way a spreadsheet user
// expects. Surrounding whitespace is ignored, an empty string is zero, and
// decimals, exponents, Infinity and 0x/0o/0b integer literals are accepted.
// Anything else is reported as non-numeric.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{Value: 0, Numeric: true}
	}

	switch s {
	case "Infinity", "+Infinity":
		return Number{Value: math.Inf(1), Numeric: true}
	case "-Infinity":
		return Number{Value: math.Inf(-1), Numeric: true}
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			u, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return Number{}
			}
			return Number{Value: float64(u), Numeric: true}
		}
	}

	if !decimalRegex.MatchString(s) {
		return Number{}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Number{}
	}
	// Out of range values come back as ±Inf or 0, which is what we want.
	return Number{Value: f, Numeric: true}
}

// Direction is how a FieldChange reads to a human.
type Direction int

const (
	// Generic is a plain textual change.
	Generic Direction = iota
	Increase
	Decrease
)

func (d Direction) String() string {
	switch d {
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	}
	return "change"
}

// Classify compares the two sides of fc numerically when both coerce to a
// number. A non-numeric side is Generic.
//
// Two numerically equal spellings such as "5" and "5.0" are Generic too, not
// an increase with a zero delta.
func Classify(fc FieldChange) Direction {
	o := ParseNumber(fc.Original)
	if !o.Numeric {
		return Generic
	}
	n := ParseNumber(fc.New)
	if !n.Numeric {
		return Generic
	}

	switch {
	case n.Value > o.Value:
		return Increase
	case n.Value < o.Value:
		return Decrease
	}
	return Generic
}

// Delta returns New - Original when Classify finds a direction.
func Delta(fc FieldChange) (float64, bool) {
	if Classify(fc) == Generic {
		return 0, false
	}
	return ParseNumber(fc.New).Value - ParseNumber(fc.Original).Value, true
}

// Describe renders fc as a sentence.
func Describe(fc FieldChange) string {
	switch Classify(fc) {
	case Increase:
		return fmt.Sprintf("Increases %s from %s to %s.", fc.Field, fc.Original, fc.New)
	case Decrease:
		return fmt.Sprintf("Decreases %s from %s to %s.", fc.Field, fc.Original, fc.New)
	}
	return fmt.Sprintf(`Changes %s from "%s" to "%s".`, fc.Field, fc.Original, fc.New)
}
