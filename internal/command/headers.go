// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/rowdiff/internal/log"
	"github.com/tfctl/rowdiff/internal/meta"
	"github.com/tfctl/rowdiff/internal/output"
	"github.com/tfctl/rowdiff/internal/source"
	"github.com/tfctl/rowdiff/internal/table"
)

var headersDefaultAttrs = []string{"index", "column", "populated", "blank"}

// headersCommandAction parses one file and lists its columns so the user can
// choose --id and --name.
func headersCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := GetMeta(cmd)
	log.Debugf("Executing action for %s %v", cmd.Name, cmd.Args().Slice())

	if DumpSchemaIfRequested(cmd, reflect.TypeOf(output.Column{})) {
		return nil
	}

	opts, err := output.NewOptions(cmd)
	if err != nil {
		return err
	}

	// Get the positional argument or default to piped stdin.
	var ref string
	switch args := cmd.Args().Slice(); {
	case len(args) == 1:
		ref = args[0]
	case len(args) == 0 && !meta.Interactive:
		ref = source.StdinRef
	default:
		return errors.New("expected exactly one FILE operand")
	}

	text, err := source.Text(ctx, newResolver(cmd), ref, cmd.String("encoding"))
	if err != nil {
		return err
	}

	t, err := table.Parse(text, cmd.Int("header-skip"), table.WithDelimiter(delimiterRune(cmd.String("delimiter"))))
	if err != nil {
		return err
	}

	if opts.Titles {
		opts.Header = source.DisplayName(ref)
		opts.Footer = fmt.Sprintf("%d rows, %d skipped lines", t.Len(), t.Skipped)
	}

	raw, err := output.Marshal(output.Columns(t))
	if err != nil {
		return err
	}

	return output.SliceDiceSpit(raw, BuildAttrs(cmd, headersDefaultAttrs...), opts, writer(cmd), nil)
}

// headersCommandBuilder constructs the "headers" subcommand.
func headersCommandBuilder(meta meta.Meta) *cli.Command {
	ns := "headers"
	flags := NewGlobalFlags(ns, meta.Config.Source)
	flags = append(flags, NewParseFlags(ns, meta.Config.Source)...)
	flags = append(flags, NewSourceFlags(ns, meta.Config.Source)...)

	return &cli.Command{
		Name:      ns,
		Usage:     "list the columns of a delimited text export",
		UsageText: "rowdiff headers [flags] [FILE]",
		Metadata:  map[string]any{"meta": meta},
		Flags:     flags,
		Before:    namespace,
		Action:    headersCommandAction,
	}
}
