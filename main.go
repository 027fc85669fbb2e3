// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/docgen/internal/cacheutil"
	"github.com/staranto/docgen/internal/command"
	"github.com/staranto/docgen/internal/config"
	mylog "github.com/staranto/docgen/internal/log"
	"github.com/staranto/docgen/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

func realMain() int {
	mylog.InitLogger()

	args := os.Args

	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "No command specified.")
		args = append(args, "--help")
	} else {
		args = mangleArguments(args)
	}

	// Short-circuit --version/-v.
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return 0
		}
	}

	// Best-effort: pre-create the cache directory and age out old entries.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		fmt.Fprintln(os.Stderr, err)
	} else if ok {
		hours, _ := config.GetInt("cache.purge_hours", 0)
		if err := cacheutil.Purge(hours); err != nil {
			log.WithError(err).Warn("cache purge")
		}
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	return 0
}

// mangleArguments expands a named flag set from the config file. `docgen
// examples @wide` inserts the entries of examples.wide right after the
// subcommand; without an @set, examples.defaults is used if present. The
// inserted flags come first so that flags on the command line win.
func mangleArguments(args []string) []string {
	// We know the first two args are going to be the executable and command.
	if strings.HasPrefix(args[1], "-") {
		return args
	}

	out := make([]string, 2, len(args)+4) //nolint:mnd
	copy(out, args[:2])

	// Short-circuit for --help/-h.
	for _, a := range args[2:] {
		if a == "--help" || a == "-h" {
			return append(out, "--help")
		}
	}

	set := "defaults"
	rest := make([]string, 0, len(args)-2) //nolint:mnd
	for _, a := range args[2:] {
		if len(a) > 1 && strings.HasPrefix(a, "@") {
			set = a[1:]
			continue
		}
		rest = append(rest, a)
	}

	setArgs, _ := config.GetStringSlice(args[1] + "." + set)
	for _, arg := range setArgs {
		out = append(out, strings.Fields(arg)...)
	}
	out = append(out, rest...)

	log.Debugf("set=%s, args=%v", set, out)
	return out
}
