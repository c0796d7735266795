// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/rowdiff/internal/source"
)

// NewGlobalFlags returns the output flags shared by every table-producing
// command. When ns and the config file path are given, --output, --sort and
// --padding also fall back to the config file.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	output := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output format",
		Value:   "text",
		Sources: cli.EnvVars("ROWDIFF_OUTPUT"),
		Validator: func(value string) error {
			return FlagValidators(value, OutputValidator)
		},
	}
	sort := &cli.StringFlag{
		Name:    "sort",
		Aliases: []string{"s"},
		Usage:   "comma-separated list of attributes to sort the results by",
	}
	padding := &cli.IntFlag{
		Name:  "padding",
		Usage: "spaces between text columns",
		Value: 1,
		Validator: func(value int) error {
			return FlagValidators(value, NonNegativeValidator)
		},
	}

	if len(params) == 2 {
		NameSpacedValueChainFlagFromConfigFile(params[0], params[1], output)
		NameSpacedValueChainFlagFromConfigFile(params[0], params[1], sort)
		withConfigSources(params[0], params[1], padding.Name, &padding.Sources)
	}

	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		output,
		padding,
		newSchemaFlag(),
		sort,
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "where",
			Aliases: []string{"w"},
			Usage:   "expression each result row must satisfy",
		},
	}

	return
}

func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "list the dataset keys and exit",
		HideDefault: true,
	}
}

// NewParseFlags returns the flags controlling how a file is read and split
// into a table, namespaced to a command and config file like NewGlobalFlags.
func NewParseFlags(params ...string) []cli.Flag {
	headerSkip := &cli.IntFlag{
		Name:    "header-skip",
		Aliases: []string{"k"},
		Usage:   "lines to discard before the header line",
		Sources: cli.EnvVars("ROWDIFF_HEADER_SKIP"),
		Validator: func(value int) error {
			return FlagValidators(value, NonNegativeValidator)
		},
	}
	encoding := &cli.StringFlag{
		Name:    "encoding",
		Aliases: []string{"e"},
		Usage:   "character encoding of the input files (" + strings.Join(source.Encodings(), ", ") + ")",
		Value:   source.DefaultEncoding,
		Sources: cli.EnvVars("ROWDIFF_ENCODING"),
		Validator: func(value string) error {
			return FlagValidators(value, EncodingValidator)
		},
	}
	delimiter := &cli.StringFlag{
		Name:    "delimiter",
		Aliases: []string{"d"},
		Usage:   "field delimiter",
		Value:   ";",
		Sources: cli.EnvVars("ROWDIFF_DELIMITER"),
		Validator: func(value string) error {
			return FlagValidators(value, DelimiterValidator)
		},
	}

	if len(params) == 2 {
		withConfigSources(params[0], params[1], headerSkip.Name, &headerSkip.Sources)
		NameSpacedValueChainFlagFromConfigFile(params[0], params[1], encoding)
		NameSpacedValueChainFlagFromConfigFile(params[0], params[1], delimiter)
	}

	return []cli.Flag{headerSkip, encoding, delimiter}
}

// NewSourceFlags returns the flags used to reach s3:// operands. They fall
// back to the s3 section of the config file.
func NewSourceFlags(params ...string) []cli.Flag {
	region := &cli.StringFlag{
		Name:    "s3-region",
		Usage:   "AWS region for s3:// operands",
		Sources: cli.EnvVars("ROWDIFF_S3_REGION"),
	}
	profile := &cli.StringFlag{
		Name:    "s3-profile",
		Usage:   "AWS shared config profile for s3:// operands",
		Sources: cli.EnvVars("ROWDIFF_S3_PROFILE"),
	}
	endpoint := &cli.StringFlag{
		Name:    "s3-endpoint",
		Usage:   "S3 compatible endpoint URL",
		Sources: cli.EnvVars("ROWDIFF_S3_ENDPOINT"),
	}

	if len(params) == 2 {
		for _, f := range []*cli.StringFlag{region, profile, endpoint} {
			withConfigSources("s3", params[1], strings.TrimPrefix(f.Name, "s3-"), &f.Sources)
		}
	}

	return []cli.Flag{region, profile, endpoint}
}

// NewCompareFlags returns the flags specific to the compare command.
func NewCompareFlags(params ...string) []cli.Flag {
	id := &cli.StringFlag{
		Name:    "id",
		Aliases: []string{"i"},
		Usage:   "column identifying a row in both files (default: first column)",
		Sources: cli.EnvVars("ROWDIFF_ID"),
	}
	name := &cli.StringFlag{
		Name:    "name",
		Aliases: []string{"n"},
		Usage:   "column used as the display name of a row",
		Sources: cli.EnvVars("ROWDIFF_NAME"),
	}

	if len(params) == 2 {
		NameSpacedValueChainFlagFromConfigFile(params[0], params[1], id)
		NameSpacedValueChainFlagFromConfigFile(params[0], params[1], name)
	}

	return []cli.Flag{
		id,
		name,
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "fail when an id occurs more than once in a file",
		},
		&cli.BoolFlag{
			Name:  "exit-code",
			Usage: "exit with status 1 when differences are found",
		},
		&cli.BoolFlag{
			Name:  "explain",
			Usage: "show how the headers differ when the files do not match",
		},
		&cli.BoolFlag{
			Name:  "pick",
			Usage: "choose missing operands interactively",
		},
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	withConfigSources(ns, path, flag.Name, &flag.Sources)
	return flag
}

// withConfigSources appends the <ns>.<key> and <key> config file lookups to
// chain. Dashes in the flag name become underscores in the key.
func withConfigSources(ns string, path string, name string, chain *cli.ValueSourceChain) {
	if path == "" {
		return
	}
	key := strings.ReplaceAll(name, "-", "_")

	chain.Chain = append(chain.Chain,
		yaml.YAML(ns+"."+key, altsrc.StringSourcer(path)),
		yaml.YAML(key, altsrc.StringSourcer(path)),
	)
}
