// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ethersphere/hasher/pkg/report"
	"github.com/ethersphere/hasher/pkg/search"
	"github.com/ethersphere/hasher/pkg/search/mock"
	"github.com/google/go-cmp/cmp"
)

func newPrinter(v report.Verbosity) (*report.Printer, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	p := report.New(report.Options{
		Stdout:           &stdout,
		Stderr:           &stderr,
		Verbosity:        v,
		ProgressInterval: time.Hour,
	})
	return p, &stdout, &stderr
}

func TestPrinterHit(t *testing.T) {
	t.Parallel()

	p, stdout, stderr := newPrinter(report.None)
	p.Hit("e99a18c4", "123")
	p.SetSingle(true)
	p.Hit("e99a18c4", "123")

	if diff := cmp.Diff("e99a18c4:123\n123\n", stdout.String()); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}
	if stderr.Len() != 0 {
		t.Errorf("got stderr %q at verbosity none", stderr.String())
	}
}

func TestPrinterProgress(t *testing.T) {
	t.Parallel()

	p, _, stderr := newPrinter(report.Low)
	p.Progress(3)
	p.Progress(4) // throttled
	p.Progress(100)

	if diff := cmp.Diff("\rProgress: 03%\rProgress: 100%", stderr.String()); diff != "" {
		t.Errorf("stderr mismatch (-want +got):\n%s", diff)
	}

	quiet, _, stderr := newPrinter(report.None)
	quiet.Progress(100)
	if stderr.Len() != 0 {
		t.Errorf("got progress %q at verbosity none", stderr.String())
	}
}

func TestPrinterStop(t *testing.T) {
	t.Parallel()

	p, _, _ := newPrinter(report.None)
	if p.ShouldTerminate() {
		t.Fatal("new printer terminates")
	}
	p.Stop()
	if !p.ShouldTerminate() {
		t.Fatal("stopped printer does not terminate")
	}
}

func TestPrinterSummary(t *testing.T) {
	t.Parallel()

	p, _, stderr := newPrinter(report.Low)
	p.Summary(&search.Summary{
		Workers:   4,
		Total:     3,
		HashCount: 2_500_000,
		Duration:  1234 * time.Millisecond,
		Hits:      make([]search.Hit, 2),
	})

	want := strings.Join([]string{
		"\x1b[1K\r",
		"Summary",
		"----------",
		"Threads launched:    4",
		"Time elapsed:        1.23s (1234ms)",
		"Hashes:              2.5 million",
		"Hashes per millisec: 2.025 thousand",
		"Values found:        2/3 (66%)",
		"",
	}, "\n")
	if diff := cmp.Diff(want, stderr.String()); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	stderr.Reset()
	p.Summary(&search.Summary{Total: 1})
	if !strings.Contains(stderr.String(), "Hashes per millisec: NaN\n") {
		t.Errorf("got summary %q", stderr.String())
	}
}

func TestPrinterOptions(t *testing.T) {
	t.Parallel()

	p, _, stderr := newPrinter(report.High)
	p.Options([]report.Field{{Label: "Algorithm", Value: "md5"}, {Label: "Length", Value: 3}}, []string{"e99a18c4"})

	want := "\nOptions\n----------\nAlgorithm:     md5\nLength:        3\n\nInput\n----------\ne99a18c4\n"
	if diff := cmp.Diff(want, stderr.String()); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}

	low, _, stderr := newPrinter(report.Low)
	low.Options([]report.Field{{Label: "Algorithm", Value: "md5"}}, nil)
	if stderr.Len() != 0 {
		t.Errorf("got options %q at verbosity low", stderr.String())
	}
}

func TestPrinterFiles(t *testing.T) {
	t.Parallel()

	p, _, stderr := newPrinter(report.Low)
	p.Start("Writing", "out.txt")
	p.Done(nil)
	p.Start("Loading", "in.txt")
	p.Done(errors.New("no such file"))

	want := "Writing out.txt: Done\nLoading in.txt: Error: no such file\n"
	if diff := cmp.Diff(want, stderr.String()); diff != "" {
		t.Errorf("stderr mismatch (-want +got):\n%s", diff)
	}
}

func TestParseVerbosity(t *testing.T) {
	t.Parallel()

	for s, want := range map[string]report.Verbosity{"none": report.None, "1": report.Low, "high": report.High} {
		got, err := report.ParseVerbosity(s)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("%q: got %v, want %v", s, got, want)
		}
	}
	if _, err := report.ParseVerbosity("loud"); err == nil {
		t.Error("parsed unknown verbosity")
	}
}

func TestProgressStatus(t *testing.T) {
	t.Parallel()

	inner := mock.NewChannel(mock.WithTerminateAfterHits(2))
	p := report.NewProgress(inner, 5)
	p.SetRunning(true)
	p.Progress(40)
	p.Hit("aa", "1")
	p.Hit("bb", "2")

	want := report.Status{Running: true, Percent: 40, Hits: 2, Targets: 5}
	if diff := cmp.Diff(want, p.Status()); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
	if !p.ShouldTerminate() {
		t.Error("termination of the wrapped channel not forwarded")
	}
	if diff := cmp.Diff([]uint8{40}, inner.ProgressValues()); diff != "" {
		t.Errorf("progress not forwarded (-want +got):\n%s", diff)
	}
}
