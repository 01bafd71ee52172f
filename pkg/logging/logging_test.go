// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logging_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ethersphere/hasher/pkg/logging"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
)

func TestParseVerbosity(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		value string
		want  logrus.Level
	}{
		{"0", logrus.PanicLevel},
		{"silent", logrus.PanicLevel},
		{"1", logrus.ErrorLevel},
		{"warn", logrus.WarnLevel},
		{"3", logrus.InfoLevel},
		{"DEBUG", logrus.DebugLevel},
		{"5", logrus.TraceLevel},
	} {
		got, err := logging.ParseVerbosity(tc.value)
		if err != nil {
			t.Fatalf("%q: %v", tc.value, err)
		}
		if got != tc.want {
			t.Errorf("%q: got level %v, want %v", tc.value, got, tc.want)
		}
	}

	if _, err := logging.ParseVerbosity("loud"); err == nil {
		t.Error("unknown verbosity accepted")
	}
}

func TestLoggerLevelAndMetrics(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New(&buf, logrus.InfoLevel)

	logger.Debugf("search: %d workers", 4)
	logger.Infof("debug api address: %s", "127.0.0.1:1635")
	logger.WithField("run", "r1").Warning("worker stopped")

	out := buf.String()
	if strings.Contains(out, "workers") {
		t.Errorf("debug record written at info level: %q", out)
	}
	for _, want := range []string{"debug api address: 127.0.0.1:1635", "run=r1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}

	var total float64
	for _, c := range logger.Metrics() {
		total += testutil.ToFloat64(c)
	}
	if total != 2 {
		t.Errorf("got %v counted records, want 2", total)
	}
}
