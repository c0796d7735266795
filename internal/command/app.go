// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/tfctl/rowdiff/internal/config"
	"github.com/tfctl/rowdiff/internal/log"
	"github.com/tfctl/rowdiff/internal/meta"
)

func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, _ := os.Getwd()

	// A missing config file is normal; flags and env vars still apply.
	cfg, err := config.Load()
	if err != nil {
		log.Debugf("config not loaded: err=%v", err)
	}

	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}

	return newApp(meta), nil
}

// newApp assembles the command tree around meta.
func newApp(meta meta.Meta) *cli.Command {
	app := &cli.Command{
		Name:  "rowdiff",
		Usage: "compare semicolon delimited text exports row by row",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "rowdiff version info",
				HideDefault: true,
			},
		},
		// Exit codes are mapped by main, never by the cli package.
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	app.Commands = append(app.Commands,
		compareCommandBuilder(meta),
		headersCommandBuilder(meta),
		completionCommandBuilder(meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app
}

// BoolFlagNames returns every spelling (--name, -n) of the boolean flags of
// all commands. Argument pre-processing uses it to tell a boolean flag from
// one that consumes the next argument.
func BoolFlagNames() map[string]bool {
	var flags []cli.Flag
	flags = append(flags, NewGlobalFlags()...)
	flags = append(flags, NewParseFlags()...)
	flags = append(flags, NewSourceFlags()...)
	flags = append(flags, NewCompareFlags()...)

	names := map[string]bool{}
	for _, f := range flags {
		if _, ok := f.(*cli.BoolFlag); !ok {
			continue
		}
		for _, n := range f.Names() {
			if len(n) == 1 {
				names["-"+n] = true
			} else {
				names["--"+strings.TrimLeft(n, "-")] = true
			}
		}
	}
	return names
}

// Commands returns the subcommands with zero metadata, for tooling that
// only inspects the command tree.
func Commands() []*cli.Command {
	return newApp(meta.Meta{}).Commands
}
