// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package annots

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var version = "development"

type handler interface {
	RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int
}

var handlers = map[string]handler{
	"version":   versioncmd{},
	"-version":  versioncmd{},
	"--version": versioncmd{},

	"convert": &converter{},
}

func Main() {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		logrus.StandardLogger().Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	}
	os.Exit(run(os.Args[0], os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 || handlers[args[0]] == nil {
		if len(args) > 0 {
			fmt.Fprintf(stderr, "%s: unrecognized command %q\n", prog, args[0])
		}
		fmt.Fprintf(stderr, "usage: %s command [options]\n\ncommands:\n", prog)
		var names []string
		for name := range handlers {
			if name[0] != '-' {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(stderr, "  %s\n", name)
		}
		return 2
	}
	return handlers[args[0]].RunCommand(prog+" "+args[0], args[1:], stdin, stdout, stderr)
}

type versioncmd struct{}

func (versioncmd) RunCommand(prog string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fmt.Fprintln(stdout, version)
	return 0
}
