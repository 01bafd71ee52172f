// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"strings"

	"github.com/ethersphere/hasher/pkg/digest"
	"github.com/ethersphere/hasher/pkg/encrypt"
	"github.com/ethersphere/hasher/pkg/files"
	"github.com/ethersphere/hasher/pkg/report"
	"github.com/spf13/cobra"
)

func (c *command) initEncryptCmd() {
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Compute salted digests of plaintexts",
		Long: `Compute salted digests of plaintexts.

Digests are printed as plaintext:digest lines, or as the digest alone when a
single plaintext is given.`,
		PreRunE: c.bindFlags,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if len(args) > 0 {
				return cmd.Help()
			}

			verbosity, err := report.ParseVerbosity(c.config.GetString(optionNameVerbosity))
			if err != nil {
				return fmt.Errorf("%s: %w", optionNameVerbosity, err)
			}
			printer := report.New(report.Options{
				Stdout:    cmd.OutOrStdout(),
				Stderr:    cmd.ErrOrStderr(),
				Verbosity: verbosity,
				Color:     c.config.GetBool(optionNameColor),
			})

			alg, err := digest.Get(c.config.GetString(optionNameAlgorithm))
			if err != nil {
				return err
			}

			inputs := c.config.GetStringSlice(optionNameInput)
			if path := c.config.GetString(optionNameInputFile); path != "" {
				printer.Start("Reading", path)
				lines, err := files.ReadLines(c.fs, path)
				printer.Done(err)
				if err != nil {
					return err
				}
				inputs = append(inputs, lines...)
			}
			if len(inputs) == 0 {
				return errNoInput
			}

			salt, err := c.salt(cmd)
			if err != nil {
				return err
			}

			fields := []report.Field{{Label: "Algorithm", Value: alg.Name()}}
			if salt != "" {
				fields = append(fields, report.Field{Label: "Salt", Value: salt})
			}
			printer.Options(fields, inputs)

			results, err := encrypt.Execute(cmd.Context(), alg, salt, inputs, c.config.GetInt(optionNameThreads))
			if err != nil {
				return err
			}

			printer.SetSingle(len(results) == 1)
			pairs := make([]files.Pair, len(results))
			for i, r := range results {
				pairs[i] = files.Pair{Input: r.Plain, Output: r.Digest.String()}
				printer.Hit(pairs[i].Input, pairs[i].Output)
			}

			if path := c.config.GetString(optionNameOutput); path != "" {
				printer.Start("Writing", path)
				err := files.WritePairs(c.fs, path, pairs)
				printer.Done(err)
				if err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().String(optionNameAlgorithm, digest.SHA256.Name(), "hash algorithm, one of "+strings.Join(digest.List(), ", "))
	cmd.Flags().StringSlice(optionNameInput, nil, "plaintext to hash, can be repeated")
	cmd.Flags().String(optionNameInputFile, "", "path to a file with one plaintext per line")
	cmd.Flags().String(optionNameSalt, "", "salt prepended to every plaintext before hashing")
	cmd.Flags().Bool(optionNameSaltPrompt, false, "read the salt from the terminal")
	cmd.Flags().Int(optionNameThreads, 0, "number of workers, 0 for one per CPU")
	cmd.Flags().String(optionNameOutput, "", "path of the file digests are written to")
	cmd.Flags().String(optionNameVerbosity, "low", "output verbosity none, low or high")
	cmd.Flags().Bool(optionNameColor, false, "colorize the output")

	c.root.AddCommand(cmd)
}
