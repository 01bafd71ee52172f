// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging provides the logger interface abstraction
// and implementation for hasher. It uses logrus under the hood.
package logging

import (
	"fmt"
	"io"
	"strings"

	m "github.com/ethersphere/hasher/pkg/metrics"
	"github.com/sirupsen/logrus"
)

type Logger interface {
	Tracef(format string, args ...any)
	Trace(args ...any)
	Debugf(format string, args ...any)
	Debug(args ...any)
	Infof(format string, args ...any)
	Info(args ...any)
	Warningf(format string, args ...any)
	Warning(args ...any)
	Errorf(format string, args ...any)
	Error(args ...any)
	WithField(key string, value any) *logrus.Entry
	WithFields(fields logrus.Fields) *logrus.Entry
	NewEntry() *logrus.Entry
	Metrics() []m.Collector
}

type logger struct {
	*logrus.Logger
	metrics metrics
}

// New returns a Logger writing text records with full timestamps to w.
func New(w io.Writer, level logrus.Level) Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(level)
	l.Formatter = &logrus.TextFormatter{
		FullTimestamp: true,
	}
	metrics := newMetrics()
	l.AddHook(metrics)
	return &logger{
		Logger:  l,
		metrics: metrics,
	}
}

// Noop returns a Logger that discards everything.
func Noop() Logger {
	return New(io.Discard, 0)
}

func (l *logger) NewEntry() *logrus.Entry {
	return logrus.NewEntry(l.Logger)
}

// ParseVerbosity maps a verbosity option value, either a number from 0 to 5
// or a level name, to a logrus level. Silent maps to the panic level, so
// nothing that hasher logs gets through.
func ParseVerbosity(v string) (logrus.Level, error) {
	switch strings.ToLower(v) {
	case "0", "silent":
		return logrus.PanicLevel, nil
	case "1", "error":
		return logrus.ErrorLevel, nil
	case "2", "warn":
		return logrus.WarnLevel, nil
	case "3", "info":
		return logrus.InfoLevel, nil
	case "4", "debug":
		return logrus.DebugLevel, nil
	case "5", "trace":
		return logrus.TraceLevel, nil
	}
	return 0, fmt.Errorf("unknown verbosity level %q", v)
}
