// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/tfctl/rowdiff/internal/source"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

func OutputValidator(value any) error {
	var validOutputFlagValues = []string{"text", "json", "raw", "yaml"}
	valid := false
	for _, v := range validOutputFlagValues {
		if v == value {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

func EncodingValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(source.Encodings(), strings.ToLower(s)) {
		return fmt.Errorf("must be one of %v", source.Encodings())
	}
	return nil
}

// DelimiterValidator accepts exactly one character other than a line break.
func DelimiterValidator(value any) error {
	s, _ := value.(string)
	if utf8.RuneCountInString(s) != 1 {
		return errors.New("must be a single character")
	}
	if s == "\n" || s == "\r" {
		return errors.New("cannot be a line break")
	}
	return nil
}

func NonNegativeValidator(value any) error {
	if n, ok := value.(int); ok && n < 0 {
		return errors.New("cannot be negative")
	}
	return nil
}

// delimiterRune returns the delimiter flag as a rune. The zero rune keeps the
// parser default.
func delimiterRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return 0
	}
	return r
}
