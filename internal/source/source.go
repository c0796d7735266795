// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tfctl/rowdiff/internal/aws"
	"github.com/tfctl/rowdiff/internal/log"
)

// StdinRef is the reference that selects standard input.
const StdinRef = "-"

var (
	// ErrUnsupportedScheme is returned for URL-like references other than s3://.
	ErrUnsupportedScheme = errors.New("unsupported source scheme")
	// ErrIsDirectory is returned when a local reference names a directory.
	ErrIsDirectory = errors.New("source is a directory")
	// ErrStdinReused is returned when more than one operand asks for stdin.
	ErrStdinReused = errors.New("standard input can only be read once")
)

// Source fetches the raw bytes behind a reference.
type Source interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Local reads files from the local filesystem.
type Local struct{}

// Fetch implements Source.
func (Local) Fetch(_ context.Context, ref string) ([]byte, error) {
	info, err := os.Stat(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", ref, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, ref)
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ref, err)
	}
	log.Debugf("local file read: path=%s, bytes=%d", ref, len(data))
	return data, nil
}

// Stdin reads everything from Reader on the first Fetch and refuses any
// later one.
type Stdin struct {
	Reader io.Reader
	used   bool
}

// Fetch implements Source.
func (s *Stdin) Fetch(_ context.Context, _ string) ([]byte, error) {
	if s.used {
		return nil, ErrStdinReused
	}
	s.used = true

	r := s.Reader
	if r == nil {
		r = os.Stdin
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	log.Debugf("stdin read: bytes=%d", len(data))
	return data, nil
}

// Resolver dispatches each reference to the Source that can serve it. It is
// itself a Source.
type Resolver struct {
	Local Local
	Stdin *Stdin
	S3    *S3
}

// NewResolver returns a Resolver reading stdin from in and S3 objects with a
// lazily created client.
func NewResolver(in io.Reader, s3 *S3) *Resolver {
	if s3 == nil {
		s3 = &S3{}
	}
	return &Resolver{Stdin: &Stdin{Reader: in}, S3: s3}
}

// Resolve returns the Source for ref.
func (r *Resolver) Resolve(ref string) (Source, error) {
	switch {
	case ref == StdinRef:
		if r.Stdin == nil {
			r.Stdin = &Stdin{}
		}
		return r.Stdin, nil
	case aws.IsURI(ref):
		if r.S3 == nil {
			r.S3 = &S3{}
		}
		return r.S3, nil
	case strings.Contains(ref, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, ref)
	default:
		return r.Local, nil
	}
}

// Fetch implements Source.
func (r *Resolver) Fetch(ctx context.Context, ref string) ([]byte, error) {
	src, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return src.Fetch(ctx, ref)
}

// Text fetches ref through src and decodes it with the named encoding.
func Text(ctx context.Context, src Source, ref string, encoding string) (string, error) {
	data, err := src.Fetch(ctx, ref)
	if err != nil {
		return "", err
	}
	return Decode(data, encoding)
}

// DisplayName is the short label used for ref in titles and messages.
func DisplayName(ref string) string {
	switch {
	case ref == StdinRef:
		return "stdin"
	case aws.IsURI(ref):
		if obj, err := aws.ParseURI(ref); err == nil {
			return filepath.Base(obj.Key)
		}
		return ref
	default:
		return filepath.Base(ref)
	}
}
