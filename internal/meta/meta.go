// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/tfctl/rowdiff/internal/config"
)

// Meta contains runtime metadata shared by commands. It carries the
// pre-processed CLI arguments, loaded configuration, context, the starting
// working directory and whether stdin is attached to a terminal.
type Meta struct {
	Args        []string
	Config      config.Type
	Context     context.Context
	StartingDir string
	Interactive bool
}
