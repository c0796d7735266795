// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package source acquires the raw bytes of a delimited file from a local
// path, standard input or an S3 object, and decodes them into text.
//
// References are resolved by shape:
//
//	-                          standard input (at most once per run)
//	s3://bucket/key[?versionId=...]  S3 object, cached on disk by ETag
//	anything else              local file path
package source
