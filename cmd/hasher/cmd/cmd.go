// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethersphere/hasher/pkg/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	optionNameAlgorithm          = "algorithm"
	optionNameInput              = "input"
	optionNameInputFile          = "input-file"
	optionNamePrefix             = "prefix"
	optionNameLength             = "length"
	optionNameNumberSpace        = "number-space"
	optionNameSalt               = "salt"
	optionNameSaltPrompt         = "salt-prompt"
	optionNameXOR                = "xor"
	optionNameThreads            = "threads"
	optionNameDevice             = "device"
	optionNameLanes              = "lanes"
	optionNameOutput             = "output"
	optionNameSummaryFile        = "summary-file"
	optionNameVerbosity          = "verbosity"
	optionNameLogVerbosity       = "log-verbosity"
	optionNameColor              = "color"
	optionNameDebugAPIAddr       = "debug-api-addr"
	optionNameTracingEnabled     = "tracing-enable"
	optionNameTracingEndpoint    = "tracing-endpoint"
	optionNameTracingServiceName = "tracing-service-name"
)

const configName = ".hasher"

func init() {
	cobra.EnableCommandSorting = false
}

type command struct {
	root       *cobra.Command
	config     *viper.Viper
	saltReader saltReader
	fs         afero.Fs
	cfgFile    string
	homeDir    string
}

type option func(*command)

func newCommand(opts ...option) (c *command, err error) {
	c = &command{
		root: &cobra.Command{
			Use:           "hasher",
			Short:         "Recover plaintexts of salted digests over a numeric keyspace",
			SilenceErrors: true,
			SilenceUsage:  true,
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
				return c.initConfig()
			},
		},
	}

	for _, o := range opts {
		o(c)
	}
	if c.saltReader == nil {
		c.saltReader = new(stdInSaltReader)
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}

	// Find home directory.
	if err := c.setHomeDir(); err != nil {
		return nil, err
	}

	c.initGlobalFlags()
	c.initDecryptCmd()
	c.initEncryptCmd()
	c.initVersionCmd()

	return c, nil
}

func (c *command) Execute() (err error) {
	return c.root.Execute()
}

// Execute parses command line arguments and runs appropriate functions.
func Execute() (err error) {
	c, err := newCommand()
	if err != nil {
		return err
	}
	return c.Execute()
}

func (c *command) initGlobalFlags() {
	globalFlags := c.root.PersistentFlags()
	globalFlags.StringVar(&c.cfgFile, "config", c.cfgFile, "config file (default is $HOME/"+configName+".yaml)")
}

func (c *command) initConfig() (err error) {
	config := viper.New()
	if c.cfgFile != "" {
		// Use config file from the flag.
		config.SetConfigFile(c.cfgFile)
	} else {
		// Search config in home directory with name ".hasher" (without extension).
		config.AddConfigPath(c.homeDir)
		config.SetConfigName(configName)
	}

	// Environment, HASHER_SALT among others.
	config.SetEnvPrefix("hasher")
	config.AutomaticEnv()
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if c.homeDir != "" && c.cfgFile == "" {
		c.cfgFile = filepath.Join(c.homeDir, configName+".yaml")
	}

	if err := config.ReadInConfig(); err != nil {
		var e viper.ConfigFileNotFoundError
		if !errors.As(err, &e) {
			return err
		}
	}
	c.config = config
	return nil
}

// bindFlags is run before each subcommand. Subcommands share flag names,
// so only the flags of the executed one may be bound.
func (c *command) bindFlags(cmd *cobra.Command, _ []string) error {
	return c.config.BindPFlags(cmd.Flags())
}

func (c *command) setHomeDir() (err error) {
	if c.homeDir != "" {
		return
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	c.homeDir = dir
	return nil
}

func newLogger(cmd *cobra.Command, verbosity string) (logging.Logger, error) {
	level, err := logging.ParseVerbosity(verbosity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", optionNameLogVerbosity, err)
	}
	return logging.New(cmd.ErrOrStderr(), level), nil
}
