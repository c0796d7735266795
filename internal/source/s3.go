// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"fmt"

	"github.com/tfctl/rowdiff/internal/aws"
	"github.com/tfctl/rowdiff/internal/cacheutil"
	"github.com/tfctl/rowdiff/internal/log"
)

// S3 fetches objects from S3. Bodies are cached on disk keyed by the object
// URI and its ETag, so an unchanged object is only downloaded once.
type S3 struct {
	// Client is used when set. Otherwise one is built on first use from
	// Options.
	Client  aws.ObjectAPI
	Options []aws.Option
	// CleanHours purges cache entries older than this many hours before the
	// first fetch. Zero keeps everything.
	CleanHours int

	purged bool
}

// Fetch implements Source.
func (s *S3) Fetch(ctx context.Context, ref string) ([]byte, error) {
	obj, err := aws.ParseURI(ref)
	if err != nil {
		return nil, err
	}

	if err := s.client(ctx); err != nil {
		return nil, err
	}
	s.purge()

	etag, err := aws.ETag(ctx, s.Client, obj)
	if err != nil {
		return nil, err
	}

	subdirs := []string{"s3", obj.Bucket}
	key := cacheutil.Key(obj.String(), etag)
	if data, ok := cacheutil.Read(subdirs, key); ok {
		log.Debugf("cache hit: uri=%s, etag=%s", obj, etag)
		return data, nil
	}

	data, err := aws.GetObject(ctx, s.Client, obj)
	if err != nil {
		return nil, err
	}

	// A cache write failure never fails the fetch.
	if err := cacheutil.Write(subdirs, key, data); err != nil {
		log.WithError(err).Warnf("failed to cache %s", obj)
	}
	return data, nil
}

func (s *S3) client(ctx context.Context) error {
	if s.Client != nil {
		return nil
	}
	c, err := aws.NewS3Client(ctx, s.Options...)
	if err != nil {
		return fmt.Errorf("failed to create s3 client: %w", err)
	}
	s.Client = c
	return nil
}

func (s *S3) purge() {
	if s.purged || s.CleanHours <= 0 {
		return
	}
	s.purged = true
	if err := cacheutil.Purge(s.CleanHours); err != nil {
		log.WithError(err).Warnf("failed to purge cache")
	}
}
