// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ethersphere/hasher/pkg/accel"
	"github.com/ethersphere/hasher/pkg/accel/simd"
	"github.com/ethersphere/hasher/pkg/debugapi"
	"github.com/ethersphere/hasher/pkg/digest"
	"github.com/ethersphere/hasher/pkg/files"
	"github.com/ethersphere/hasher/pkg/index"
	"github.com/ethersphere/hasher/pkg/keyspace"
	"github.com/ethersphere/hasher/pkg/logging"
	m "github.com/ethersphere/hasher/pkg/metrics"
	"github.com/ethersphere/hasher/pkg/report"
	"github.com/ethersphere/hasher/pkg/search"
	"github.com/ethersphere/hasher/pkg/tracing"
	"github.com/spf13/cobra"
)

const (
	deviceCPU  = "cpu"
	deviceSIMD = "simd"
)

var errNoInput = errors.New("no input given")

// executor is a search backend that exposes its metrics.
type executor interface {
	search.Executor
	m.MetricsCollector
}

func (c *command) initDecryptCmd() {
	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Recover plaintexts of digests by exhaustive search",
		Long: `Recover plaintexts of digests by exhaustive search.

Every candidate is the prefix followed by a zero padded number of the given
length. The salt is prepended to a candidate before it is hashed. With a XOR
key the candidate is XOR-ed with the key and base64 encoded first.

Recovered values are printed as digest:plaintext lines, or as the plaintext
alone when a single digest is searched for. The command fails when not every
digest is recovered.`,
		PreRunE: c.bindFlags,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if len(args) > 0 {
				return cmd.Help()
			}

			logger, err := newLogger(cmd, c.config.GetString(optionNameLogVerbosity))
			if err != nil {
				return err
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

			targets, err := c.decryptTargets(printer, alg)
			if err != nil {
				return err
			}

			salt, err := c.salt(cmd)
			if err != nil {
				return err
			}

			var xor []byte
			if v := c.config.GetString(optionNameXOR); v != "" {
				xor, err = base64.StdEncoding.DecodeString(v)
				if err != nil {
					return fmt.Errorf("%s: %w", optionNameXOR, err)
				}
			}

			length := c.config.GetUint(optionNameLength)
			if length > math.MaxUint8 {
				return keyspace.NewConfigurationError("Length", fmt.Errorf("value %d out of range", length))
			}
			ks, err := keyspace.New(keyspace.Options{
				Algorithm: alg,
				Prefix:    c.config.GetString(optionNamePrefix),
				Length:    uint8(length),
				Count:     c.config.GetUint64(optionNameNumberSpace),
				Salt:      salt,
				XOR:       xor,
			})
			if err != nil {
				return err
			}

			idx, err := index.New(targets)
			if err != nil {
				return err
			}
			threads := c.config.GetInt(optionNameThreads)
			run, err := search.NewRun(ks, idx, threads)
			if err != nil {
				return err
			}

			tracer, tracerCloser, err := tracing.NewTracer(&tracing.Options{
				Enabled:     c.config.GetBool(optionNameTracingEnabled),
				Endpoint:    c.config.GetString(optionNameTracingEndpoint),
				ServiceName: c.config.GetString(optionNameTracingServiceName),
			})
			if err != nil {
				return fmt.Errorf("tracer: %w", err)
			}
			defer tracerCloser.Close()

			device := c.config.GetString(optionNameDevice)
			exec, closeExec, err := newExecutor(device, c.config.GetInt(optionNameLanes), threads, logger, tracer)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := closeExec(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			printer.SetSingle(idx.Len() == 1)
			progress := report.NewProgress(printer, idx.Len())

			if addr := c.config.GetString(optionNameDebugAPIAddr); addr != "" {
				shutdown, err := startDebugAPI(addr, logger, tracer, progress, logger, exec)
				if err != nil {
					return err
				}
				defer shutdown()
			}

			printer.Options(c.decryptFields(alg, salt, device, ks), digestStrings(idx.Digests()))

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// The first signal ends the run at the next checkpoint, so the
			// recovered values are still printed and written. A second one
			// cancels the run.
			interruptChannel := make(chan os.Signal, 1)
			signal.Notify(interruptChannel, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(interruptChannel)
			go func() {
				select {
				case sig := <-interruptChannel:
					logger.Infof("received signal: %v", sig)
					printer.Stop()
				case <-ctx.Done():
					return
				}
				select {
				case sig := <-interruptChannel:
					logger.Infof("received signal: %v", sig)
					cancel()
				case <-ctx.Done():
				}
			}()

			progress.SetRunning(true)
			summary, err := exec.Execute(ctx, run, progress)
			progress.SetRunning(false)
			if err != nil {
				return err
			}

			printer.Summary(summary)

			if path := c.config.GetString(optionNameOutput); path != "" {
				printer.Start("Writing", path)
				err := files.WritePairs(c.fs, path, files.HitPairs(summary.Hits))
				printer.Done(err)
				if err != nil {
					return err
				}
			}
			if path := c.config.GetString(optionNameSummaryFile); path != "" {
				printer.Start("Writing", path)
				err := files.WriteSummary(c.fs, path, summary)
				printer.Done(err)
				if err != nil {
					return err
				}
			}

			if !summary.Complete() {
				return fmt.Errorf("%w: %d of %d", search.ErrIncomplete, summary.Found(), summary.Total)
			}
			return nil
		},
	}

	cmd.Flags().String(optionNameAlgorithm, digest.SHA256.Name(), "hash algorithm, one of "+strings.Join(digest.List(), ", "))
	cmd.Flags().StringSlice(optionNameInput, nil, "hex digest to recover, can be repeated")
	cmd.Flags().String(optionNameInputFile, "", "path to a file with one hex digest per line")
	cmd.Flags().String(optionNamePrefix, "", "fixed prefix of every candidate")
	cmd.Flags().Uint(optionNameLength, 0, "number of digits after the prefix")
	cmd.Flags().Uint64(optionNameNumberSpace, 0, "number of candidates to try, 0 for all of 10^length")
	cmd.Flags().String(optionNameSalt, "", "salt prepended to every candidate before hashing")
	cmd.Flags().Bool(optionNameSaltPrompt, false, "read the salt from the terminal")
	cmd.Flags().String(optionNameXOR, "", "base64 encoded key of the XOR and base64 candidate transform")
	cmd.Flags().Int(optionNameThreads, 0, fmt.Sprintf("number of workers, 0 for one per CPU, at most %d", search.MaxWorkers))
	cmd.Flags().String(optionNameDevice, deviceCPU, "search backend, cpu or simd")
	cmd.Flags().Int(optionNameLanes, simd.DefaultLanes, "candidates per dispatch of the simd device")
	cmd.Flags().String(optionNameOutput, "", "path of the file recovered values are written to")
	cmd.Flags().String(optionNameSummaryFile, "", "path of the file the run summary is written to as JSON")
	cmd.Flags().String(optionNameVerbosity, "low", "output verbosity none, low or high")
	cmd.Flags().String(optionNameLogVerbosity, "warn", "log verbosity level 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace")
	cmd.Flags().Bool(optionNameColor, false, "colorize the output")
	cmd.Flags().String(optionNameDebugAPIAddr, "", "debug HTTP API listen address, disabled when empty")
	cmd.Flags().Bool(optionNameTracingEnabled, false, "enable tracing")
	cmd.Flags().String(optionNameTracingEndpoint, "127.0.0.1:6831", "endpoint to send tracing data")
	cmd.Flags().String(optionNameTracingServiceName, "hasher", "service name identifier for tracing")

	c.root.AddCommand(cmd)
}

// decryptTargets collects the digests of the input flag and the input file.
func (c *command) decryptTargets(printer *report.Printer, alg digest.Algorithm) ([]digest.Digest, error) {
	targets, err := files.ParseTargets(alg, c.config.GetStringSlice(optionNameInput))
	if err != nil {
		return nil, err
	}
	if path := c.config.GetString(optionNameInputFile); path != "" {
		printer.Start("Reading", path)
		fromFile, err := files.ReadTargets(c.fs, path, alg)
		printer.Done(err)
		if err != nil {
			return nil, err
		}
		targets = append(targets, fromFile...)
	}
	if len(targets) == 0 {
		return nil, errNoInput
	}
	return targets, nil
}

// salt returns the salt option or prompts for it.
func (c *command) salt(cmd *cobra.Command) (string, error) {
	if !c.config.GetBool(optionNameSaltPrompt) {
		return c.config.GetString(optionNameSalt), nil
	}
	salt, err := terminalPromptSalt(cmd, c.saltReader, "Salt")
	if err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	return salt, nil
}

func newExecutor(device string, lanes, threads int, logger logging.Logger, tracer *tracing.Tracer) (e executor, closeFn func() error, err error) {
	switch device {
	case deviceCPU:
		return search.NewCPU(logger, tracer), func() error { return nil }, nil
	case deviceSIMD:
		if threads < 0 || threads > search.MaxWorkers {
			return nil, nil, keyspace.NewConfigurationError("Workers", fmt.Errorf("%w: %d", search.ErrTooManyWorkers, threads))
		}
		dev := simd.New(simd.Options{Lanes: lanes, Workers: threads})
		return accel.New(dev, logger, tracer), dev.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown device %q", device)
	}
}

// startDebugAPI serves the debug API until the returned function is called.
func startDebugAPI(addr string, logger logging.Logger, tracer *tracing.Tracer, progress debugapi.Progresser, components ...m.MetricsCollector) (shutdown func(), err error) {
	debugAPIService := debugapi.New(logger, tracer)
	// register metrics from components
	debugAPIService.MustRegisterMetrics(components...)
	debugAPIService.Configure(progress)

	debugAPIListener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("debug api listener: %w", err)
	}

	debugAPIServer := &http.Server{
		Handler:           debugAPIService,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Infof("debug api address: %s", debugAPIListener.Addr())

		if err := debugAPIServer.Serve(debugAPIListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("debug api server: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := debugAPIServer.Shutdown(ctx); err != nil {
			logger.Errorf("debug api server shutdown: %v", err)
		}
	}, nil
}

func (c *command) decryptFields(alg digest.Algorithm, salt, device string, ks *keyspace.Descriptor) []report.Field {
	fields := []report.Field{{Label: "Algorithm", Value: alg.Name()}}
	if salt != "" {
		fields = append(fields, report.Field{Label: "Salt", Value: salt})
	}
	if xor := ks.XOR(); xor != nil {
		fields = append(fields, report.Field{Label: "XOR", Value: base64.StdEncoding.EncodeToString(xor)})
	}
	fields = append(fields, report.Field{Label: "Device", Value: device})
	if threads := c.config.GetInt(optionNameThreads); threads > 0 {
		fields = append(fields, report.Field{Label: "Threads", Value: threads})
	}
	if ks.Prefix() != "" {
		fields = append(fields, report.Field{Label: "Prefix", Value: ks.Prefix()})
	}
	return append(fields,
		report.Field{Label: "Length", Value: ks.Length()},
		report.Field{Label: "Number space", Value: report.Number(ks.Count())},
	)
}

func digestStrings(ds []digest.Digest) []string {
	s := make([]string, len(ds))
	for i, d := range ds {
		s[i] = d.String()
	}
	return s
}
