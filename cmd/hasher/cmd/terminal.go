// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type saltReader interface {
	ReadSalt() (salt string, err error)
}

type stdInSaltReader struct{}

func (stdInSaltReader) ReadSalt() (salt string, err error) {
	v, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	return string(v), err
}

func terminalPromptSalt(cmd *cobra.Command, r saltReader, title string) (salt string, err error) {
	cmd.PrintErr(title + ": ")
	salt, err = r.ReadSalt()
	cmd.PrintErrln()
	if err != nil {
		return "", err
	}
	return salt, nil
}
