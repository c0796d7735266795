// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/rowdiff/internal/cacheutil"
	"github.com/tfctl/rowdiff/internal/command"
	"github.com/tfctl/rowdiff/internal/config"
	"github.com/tfctl/rowdiff/internal/log"
	"github.com/tfctl/rowdiff/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// processCommandArgs handles command-specific argument processing.
func processCommandArgs(args []string) []string {
	if len(args) > 1 && args[1] == "completion" {
		// Short-circuit completion: pass args directly.
		return args
	}

	args = processSetOnly(args)
	log.Debugf("args after set processing: args=%v", args)

	args = deduplicateFlags(args, command.BoolFlagNames())
	log.Debugf("args after dedup: args=%v", args)

	return args
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	// Pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("cache ensure err: err=%v", err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		return exitStatus(err)
	}

	return 0
}

// exitStatus reports err and maps it to a process exit status. Commands
// choose their own status through cli.Exit; anything else is a run failure.
func exitStatus(err error) int {
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		log.Debugf("app exit: code=%d", ec.ExitCode())
		return ec.ExitCode()
	}

	fmt.Fprintln(os.Stderr, err)
	log.Debugf("app run err: err=%v", err)
	return 2
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip command processing and let the CLI handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processCommandArgs(args)
	}

	return initAndRunApp(args)
}

// processSetOnly expands a named argument set from the config file. An
// explicit @set argument is replaced in place by <command>.<set>. Without
// one, <command>.defaults is inserted right after the command so anything
// given on the command line overrides it.
func processSetOnly(args []string) []string {
	if len(args) < 2 || strings.HasPrefix(args[1], "-") {
		return args
	}

	idx := 2
	for i, a := range args[idx:] {
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			rest := append([]string{}, args[idx+i+1:]...)
			entries, err := config.GetStringSlice(args[1] + "." + a[1:])
			if err != nil {
				log.Warnf("argument set not found: set=%s, err=%v", a, err)
			}
			return injectConfigSet(args[:idx+i], entries, rest)
		}
	}

	entries, err := config.GetStringSlice(args[1] + ".defaults")
	if err != nil {
		return args
	}
	return injectConfigSet(args[:idx], entries, args[idx:])
}

// injectConfigSet returns head, the whitespace separated fields of every
// entry, then tail.
func injectConfigSet(head []string, entries []string, tail []string) []string {
	out := append([]string{}, head...)
	for _, entry := range entries {
		out = append(out, strings.Fields(entry)...)
	}
	return append(out, tail...)
}

// deduplicateFlags keeps only the last occurrence of each flag so values
// from an argument set can be overridden on the command line. A flag
// consumes the following argument unless it is written --flag=value, is a
// known boolean, or the next argument is itself a flag. args[0] and args[1]
// are never touched.
func deduplicateFlags(args []string, boolFlags map[string]bool) []string {
	if len(args) <= 2 {
		return append([]string{}, args...)
	}

	type token struct {
		name  string
		parts []string
	}

	var tokens []token
	for i := 2; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-" || !strings.HasPrefix(a, "-"):
			tokens = append(tokens, token{parts: []string{a}})
		case strings.Contains(a, "="):
			tokens = append(tokens, token{name: a[:strings.Index(a, "=")], parts: []string{a}})
		case boolFlags[a] || i+1 >= len(args) || strings.HasPrefix(args[i+1], "-"):
			tokens = append(tokens, token{name: a, parts: []string{a}})
		default:
			tokens = append(tokens, token{name: a, parts: []string{a, args[i+1]}})
			i++
		}
	}

	last := map[string]int{}
	for i, tok := range tokens {
		if tok.name != "" {
			last[tok.name] = i
		}
	}

	out := append([]string{}, args[:2]...)
	for i, tok := range tokens {
		if tok.name != "" && last[tok.name] != i {
			continue
		}
		out = append(out, tok.parts...)
	}
	return out
}
