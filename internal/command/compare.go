// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/rowdiff/internal/differ"
	"github.com/tfctl/rowdiff/internal/log"
	"github.com/tfctl/rowdiff/internal/meta"
	"github.com/tfctl/rowdiff/internal/output"
	"github.com/tfctl/rowdiff/internal/picker"
	"github.com/tfctl/rowdiff/internal/session"
	"github.com/tfctl/rowdiff/internal/source"
)

// Exit codes returned through cli.Exit. Init and run failures (1 and 2) are
// mapped in main.
const (
	ExitDifferent = 1
	ExitBlocked   = 3
)

// compareDefaultAttrs are shown unless --attrs overrides them. The hidden
// keys stay available to --filter, --where and --sort.
var compareDefaultAttrs = []string{
	"id", "name", "status", "change",
	"!field", "!original", "!new", "!direction", "!delta", "!message",
}

// rawResult is the --output raw document.
type rawResult struct {
	Status string `json:"status"`
	differ.Result
}

// compareCommandAction loads both operands, diffs them and renders the
// records through the output pipeline.
func compareCommandAction(ctx context.Context, cmd *cli.Command) error {
	meta := GetMeta(cmd)
	log.Debugf("Executing action for %s %v", cmd.Name, cmd.Args().Slice())

	if DumpSchemaIfRequested(cmd, reflect.TypeOf(output.Row{})) {
		return nil
	}

	opts, err := output.NewOptions(cmd)
	if err != nil {
		return err
	}

	refs, err := compareOperands(ctx, cmd, meta)
	if err != nil {
		return err
	}

	sess := &session.Session{
		HeaderSkip: cmd.Int("header-skip"),
		IDColumn:   cmd.String("id"),
		NameColumn: cmd.String("name"),
		Strict:     cmd.Bool("strict"),
		Delimiter:  delimiterRune(cmd.String("delimiter")),
		Encoding:   cmd.String("encoding"),
	}

	resolver := newResolver(cmd)
	for i, ref := range refs {
		if err := sess.LoadFrom(ctx, session.Slot(i), resolver, ref); err != nil {
			return err
		}
	}

	res := sess.Compare()
	w := writer(cmd)

	if opts.Output == "raw" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rawResult{Status: res.Status.String(), Result: res}); err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		return compareExit(cmd, res)
	}

	if res.Message != "" {
		if err := emitMessage(cmd, sess, res, opts); err != nil {
			return err
		}
		return compareExit(cmd, res)
	}

	if opts.Titles {
		changed, added, removed := res.Counts()
		opts.Header = fmt.Sprintf("%s -> %s", source.DisplayName(refs[0]), source.DisplayName(refs[1]))
		opts.Footer = fmt.Sprintf("%d changed, %d added, %d removed", changed, added, removed)
	}

	raw, err := output.Marshal(output.Flatten(res))
	if err != nil {
		return err
	}

	al := BuildAttrs(cmd, compareDefaultAttrs...)
	if err := output.SliceDiceSpit(raw, al, opts, w, nil); err != nil {
		return err
	}

	return compareExit(cmd, res)
}

// emitMessage reports a result that carries no records. Text output prints
// the message on stdout; structured output stays a valid empty document and
// the message goes to stderr.
func emitMessage(cmd *cli.Command, sess *session.Session, res differ.Result, opts output.Options) error {
	w := writer(cmd)

	if opts.Output == "text" {
		fmt.Fprintln(w, res.Message)
	} else {
		fmt.Fprintln(errWriter(cmd), res.Message)
		raw, err := output.Marshal([]output.Row{})
		if err != nil {
			return err
		}
		if err := output.SliceDiceSpit(raw, BuildAttrs(cmd, compareDefaultAttrs...), opts, w, nil); err != nil {
			return err
		}
	}

	if res.Status == differ.StatusMismatch && cmd.Bool("explain") {
		delta, err := differ.ExplainMismatch(sess.Table(session.Original), sess.Table(session.Changed), opts.Color)
		if err != nil {
			return err
		}
		fmt.Fprint(errWriterFor(cmd, opts), delta)
	}
	return nil
}

// errWriterFor keeps --explain output off stdout unless stdout is text.
func errWriterFor(cmd *cli.Command, opts output.Options) io.Writer {
	if opts.Output == "text" {
		return writer(cmd)
	}
	return errWriter(cmd)
}

// compareExit maps the comparison status to the process exit status.
func compareExit(cmd *cli.Command, res differ.Result) error {
	switch {
	case res.Status.Blocking():
		return cli.Exit("", ExitBlocked)
	case res.Status == differ.StatusDifferent && cmd.Bool("exit-code"):
		return cli.Exit("", ExitDifferent)
	}
	return nil
}

// compareOperands returns the ORIGINAL and CHANGED references. A single
// operand is paired with piped stdin; with --pick on a terminal the missing
// operands are chosen interactively from the working directory.
func compareOperands(ctx context.Context, cmd *cli.Command, meta meta.Meta) ([2]string, error) {
	var refs [2]string
	args := cmd.Args().Slice()

	switch {
	case len(args) > 2:
		return refs, fmt.Errorf("expected ORIGINAL and CHANGED, got %d operands", len(args))
	case len(args) < 2 && cmd.Bool("pick"):
		if !meta.Interactive {
			return refs, errors.New("--pick needs a terminal")
		}
		dir := meta.StartingDir
		if dir == "" {
			dir = "."
		}
		picked, err := picker.Pick(ctx, dir, 2-len(args))
		if err != nil {
			return refs, err
		}
		args = append(args, picked...)
	case len(args) == 1 && !meta.Interactive:
		args = append(args, source.StdinRef)
	case len(args) < 2:
		return refs, errors.New("expected ORIGINAL and CHANGED operands")
	}

	copy(refs[:], args)
	log.Debugf("operands: original=%s, changed=%s", refs[0], refs[1])
	return refs, nil
}

// compareCommandBuilder constructs the "compare" subcommand.
func compareCommandBuilder(meta meta.Meta) *cli.Command {
	ns := "compare"
	flags := NewGlobalFlags(ns, meta.Config.Source)
	flags = append(flags, NewParseFlags(ns, meta.Config.Source)...)
	flags = append(flags, NewSourceFlags(ns, meta.Config.Source)...)
	flags = append(flags, NewCompareFlags(ns, meta.Config.Source)...)

	return &cli.Command{
		Name:      ns,
		Usage:     "compare two delimited text exports row by row",
		UsageText: "rowdiff compare [flags] ORIGINAL CHANGED",
		Metadata:  map[string]any{"meta": meta},
		Flags:     flags,
		Before:    namespace,
		Action:    compareCommandAction,
	}
}
