// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package aws

import (
	"context"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	var o options
	for _, opt := range []Option{
		WithProfile("dev"),
		WithRegion("eu-west-1"),
		WithEndpoint("http://localhost:9000"),
		WithRetryer(func() awsv2.Retryer { return retry.NewStandard() }),
	} {
		opt(&o)
	}

	assert.Equal(t, "dev", o.profile)
	assert.Equal(t, "eu-west-1", o.region)
	assert.Equal(t, "http://localhost:9000", o.endpoint)
	assert.NotNil(t, o.retryer)
}

func TestS3Options(t *testing.T) {
	assert.Nil(t, s3Options(options{}))

	fns := s3Options(options{endpoint: "http://localhost:9000"})
	require.Len(t, fns, 1)

	var so s3v2.Options
	fns[0](&so)
	assert.Equal(t, "http://localhost:9000", awsv2.ToString(so.BaseEndpoint))
	assert.True(t, so.UsePathStyle)
}

func TestNewS3Client(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_CONFIG_FILE", "/nonexistent")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent")

	client, err := NewS3Client(context.Background(), WithRegion("us-east-1"), WithEndpoint("http://localhost:9000"))
	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.Equal(t, "us-east-1", client.Options().Region)
	assert.True(t, client.Options().UsePathStyle)
}

func TestNewS3Client_UnknownProfile(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", "/nonexistent")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent")

	_, err := NewS3Client(context.Background(), WithProfile("no-such-profile"))
	assert.Error(t, err)
}
