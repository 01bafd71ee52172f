// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"io"

	"github.com/spf13/afero"
)

type (
	Command    = command
	Option     = option
	SaltReader = saltReader
)

var (
	NewCommand = newCommand

	ErrNoInput = errNoInput
)

func WithCfgFile(f string) func(c *Command) {
	return func(c *Command) {
		c.cfgFile = f
	}
}

func WithHomeDir(dir string) func(c *Command) {
	return func(c *Command) {
		c.homeDir = dir
	}
}

func WithArgs(a ...string) func(c *Command) {
	return func(c *Command) {
		c.root.SetArgs(a)
	}
}

func WithOutput(w io.Writer) func(c *Command) {
	return func(c *Command) {
		c.root.SetOut(w)
	}
}

func WithErrorOutput(w io.Writer) func(c *Command) {
	return func(c *Command) {
		c.root.SetErr(w)
	}
}

func WithSaltReader(r SaltReader) func(c *Command) {
	return func(c *Command) {
		c.saltReader = r
	}
}

func WithFs(fs afero.Fs) func(c *Command) {
	return func(c *Command) {
		c.fs = fs
	}
}
