// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package publish uploads rendered READMEs and the aggregate snapshot to an
// S3 bucket.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"runtime"
	"strings"
	"sync"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/staranto/docgen/internal/readme"
)

// SnapshotKey is the object name of the snapshot below the prefix.
const SnapshotKey = "docgen.json"

// Content types of the uploaded objects.
const (
	MarkdownType = "text/markdown"
	JSONType     = "application/json"
)

// PutObjectAPI is the part of the S3 client publish needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Object is one upload.
type Object struct {
	Key         string
	ContentType string
	Body        []byte
}

// Options for Upload.
type Options struct {
	Bucket string
	DryRun bool
	// Jobs bounds the uploads in flight. <= 0 uses GOMAXPROCS.
	Jobs int
}

// Stats summarises an Upload.
type Stats struct {
	Objects int
	Bytes   uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("%s objects, %s", humanize.Comma(int64(s.Objects)), humanize.Bytes(s.Bytes))
}

// Objects lays out the READMEs and snapshot below prefix.
func Objects(prefix string, readmes []readme.Result, snapshot []byte) []Object {
	prefix = strings.Trim(prefix, "/")

	objs := make([]Object, 0, len(readmes)+1)
	for _, r := range readmes {
		objs = append(objs, Object{
			Key:         path.Join(prefix, r.Path),
			ContentType: MarkdownType,
			Body:        r.Content,
		})
	}
	if snapshot != nil {
		objs = append(objs, Object{
			Key:         path.Join(prefix, SnapshotKey),
			ContentType: JSONType,
			Body:        snapshot,
		})
	}
	return objs
}

// Upload puts every object into the bucket in parallel. Every upload is
// attempted; the failures are joined into the returned error.
func Upload(ctx context.Context, client PutObjectAPI, objs []Object, opts Options) (Stats, error) {
	if opts.Bucket == "" {
		return Stats{}, errors.New("publish: bucket is required")
	}

	var stats Stats
	for _, o := range objs {
		stats.Objects++
		stats.Bytes += uint64(len(o.Body))
	}

	if opts.DryRun {
		for _, o := range objs {
			log.Infof("publish: would upload s3://%s/%s (%s)", opts.Bucket, o.Key, humanize.Bytes(uint64(len(o.Body))))
		}
		return stats, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var (
		mu   sync.Mutex
		errs []error
	)

	var g errgroup.Group
	g.SetLimit(jobs)
	for _, o := range objs {
		g.Go(func() error {
			_, err := client.PutObject(ctx, &s3.PutObjectInput{
				Bucket:        awsv2.String(opts.Bucket),
				Key:           awsv2.String(o.Key),
				Body:          bytes.NewReader(o.Body),
				ContentType:   awsv2.String(o.ContentType),
				ContentLength: awsv2.Int64(int64(len(o.Body))),
			})
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("s3://%s/%s: %w", opts.Bucket, o.Key, err))
				mu.Unlock()
				return nil
			}
			log.Debugf("publish: uploaded s3://%s/%s", opts.Bucket, o.Key)
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) > 0 {
		return stats, fmt.Errorf("publish: %d of %d uploads failed: %w", len(errs), len(objs), errors.Join(errs...))
	}
	log.Infof("publish: uploaded %s to s3://%s", stats, opts.Bucket)
	return stats, nil
}
