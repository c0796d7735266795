// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tfctl/rowdiff/internal/log"
)

// ErrBadURI is returned by ParseURI for anything that is not s3://bucket/key.
var ErrBadURI = errors.New("invalid s3 uri")

// ObjectAPI is the slice of the S3 client used to fetch files.
type ObjectAPI interface {
	HeadObject(ctx context.Context, in *s3v2.HeadObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.HeadObjectOutput, error)
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

// ObjectURI addresses one S3 object, optionally pinned to a version.
type ObjectURI struct {
	Bucket    string
	Key       string
	VersionID string
}

// IsURI reports whether ref uses the s3 scheme.
func IsURI(ref string) bool {
	return strings.HasPrefix(strings.ToLower(ref), "s3://")
}

// ParseURI parses s3://bucket/key[?versionId=...].
func ParseURI(ref string) (ObjectURI, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return ObjectURI{}, fmt.Errorf("%w: %s: %v", ErrBadURI, ref, err)
	}
	if !strings.EqualFold(u.Scheme, "s3") {
		return ObjectURI{}, fmt.Errorf("%w: %s: scheme must be s3", ErrBadURI, ref)
	}

	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return ObjectURI{}, fmt.Errorf("%w: %s: bucket and key are required", ErrBadURI, ref)
	}

	return ObjectURI{
		Bucket:    u.Host,
		Key:       key,
		VersionID: u.Query().Get("versionId"),
	}, nil
}

func (o ObjectURI) String() string {
	s := "s3://" + o.Bucket + "/" + o.Key
	if o.VersionID != "" {
		s += "?versionId=" + url.QueryEscape(o.VersionID)
	}
	return s
}

func (o ObjectURI) versionID() *string {
	if o.VersionID == "" {
		return nil
	}
	return awsv2.String(o.VersionID)
}

// ETag returns the entity tag of the object, used to key the local cache.
func ETag(ctx context.Context, api ObjectAPI, obj ObjectURI) (string, error) {
	out, err := api.HeadObject(ctx, &s3v2.HeadObjectInput{
		Bucket:    awsv2.String(obj.Bucket),
		Key:       awsv2.String(obj.Key),
		VersionId: obj.versionID(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to head %s: %w", obj, err)
	}
	return awsv2.ToString(out.ETag), nil
}

// GetObject downloads the full body of the object.
func GetObject(ctx context.Context, api ObjectAPI, obj ObjectURI) ([]byte, error) {
	out, err := api.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket:    awsv2.String(obj.Bucket),
		Key:       awsv2.String(obj.Key),
		VersionId: obj.versionID(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", obj, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", obj, err)
	}
	log.Debugf("s3 object read: uri=%s, bytes=%d", obj, len(body))
	return body, nil
}
