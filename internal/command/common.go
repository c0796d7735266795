// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"io"
	"os"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/rowdiff/internal/attrs"
	"github.com/tfctl/rowdiff/internal/aws"
	"github.com/tfctl/rowdiff/internal/config"
	"github.com/tfctl/rowdiff/internal/log"
	"github.com/tfctl/rowdiff/internal/meta"
	"github.com/tfctl/rowdiff/internal/output"
	"github.com/tfctl/rowdiff/internal/source"
)

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (al attrs.AttrList) {
	//nolint:errcheck
	{
		for _, d := range defaults {
			al.Set(d)
		}
		if extras := cmd.String("attrs"); extras != "" {
			al.Set(extras)
		}
		al.SetGlobalTransformSpec()
	}
	return
}

// DumpSchemaIfRequested writes the dataset keys of the provided type when
// --schema is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(t, writer(cmd))
		return true
	}
	return false
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// newResolver builds the source resolver for a command from its s3 flags and
// the cache.clean config value.
func newResolver(cmd *cli.Command) *source.Resolver {
	var opts []aws.Option
	if v := cmd.String("s3-profile"); v != "" {
		opts = append(opts, aws.WithProfile(v))
	}
	if v := cmd.String("s3-region"); v != "" {
		opts = append(opts, aws.WithRegion(v))
	}
	if v := cmd.String("s3-endpoint"); v != "" {
		opts = append(opts, aws.WithEndpoint(v))
	}

	clean, _ := config.GetInt("cache.clean", 0)
	log.Debugf("resolver: s3opts=%d, clean=%d", len(opts), clean)

	return source.NewResolver(reader(cmd), &source.S3{Options: opts, CleanHours: clean})
}

// reader and writer return the root command's streams so tests can swap
// them out.
func reader(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

// namespace points config lookups at the command's section.
func namespace(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	config.Config.Namespace = cmd.Name
	return ctx, nil
}
