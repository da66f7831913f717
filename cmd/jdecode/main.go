// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program jdecode decodes saved responses from the public Bluesky API and
// prints a summary of their contents.
//
// Usage:
//
//	jdecode [flags] profile FILE...
//	jdecode [flags] follows FILE...
//	jdecode [flags] feed FILE...
//
// Each FILE holds the JSON body of a single response.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/creachadair/jdecode"
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

func main() {
	app := newApp(os.Stdout, os.Stderr)
	kingpin.MustParse(app.Parse(os.Args[1:]))
}

// settings are the flags shared by all subcommands.
type settings struct {
	maxDepth int
	comments bool
	verbose  bool

	out    io.Writer
	logw   io.Writer
	logger log.Logger
}

func newApp(out, logw io.Writer) *kingpin.Application {
	s := &settings{out: out, logw: logw, logger: log.NewNopLogger()}

	app := kingpin.New("jdecode", "Decode and summarize Bluesky API responses.")
	app.UsageWriter(logw)
	app.ErrorWriter(logw)
	app.Flag("max-depth", "Maximum nesting depth of arrays and objects (0 for the default).").
		Default("0").IntVar(&s.maxDepth)
	app.Flag("comments", "Allow comments and trailing commas in the input.").BoolVar(&s.comments)
	app.Flag("verbose", "Log diagnostic detail.").Short('v').BoolVar(&s.verbose)
	app.PreAction(s.setup)

	addProfileCommand(app, s)
	addFollowsCommand(app, s)
	addFeedCommand(app, s)
	return app
}

func (s *settings) setup(*kingpin.ParseContext) error {
	allow := level.AllowInfo()
	if s.verbose {
		allow = level.AllowDebug()
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(s.logw))
	s.logger = level.NewFilter(log.With(logger, "ts", log.DefaultTimestampUTC), allow)
	return nil
}

func (s *settings) options() *jdecode.Options {
	return &jdecode.Options{MaxDepth: s.maxDepth, AllowComments: s.comments}
}

// decodeFile reads the named file and decodes its contents with schema.
func decodeFile[T any](s *settings, name string, schema jdecode.Schema[T]) (T, error) {
	var zero T
	data, err := os.ReadFile(name)
	if err != nil {
		return zero, err
	}
	level.Debug(s.logger).Log("msg", "read input", "file", name, "size", humanize.Bytes(uint64(len(data))))

	v, err := jdecode.ParseWith(s.options(), data, schema)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// forEachFile calls f for each named file, logging and counting the failures.
// It reports an error if any of the calls failed.
func (s *settings) forEachFile(names []string, f func(name string) error) error {
	var nfail int
	for _, name := range names {
		if err := f(name); err != nil {
			level.Error(s.logger).Log("msg", "decoding failed", "file", name, "err", err)
			nfail++
		}
	}
	if nfail > 0 {
		return fmt.Errorf("%d of %d files failed", nfail, len(names))
	}
	return nil
}
