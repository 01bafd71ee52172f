// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report renders runs on a terminal. Recovered values go to the
// standard output, everything else goes to the standard error.
package report

import (
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/ethersphere/hasher/pkg/search"
	"github.com/fatih/color"
	"go.uber.org/atomic"
	"golang.org/x/time/rate"
)

// Verbosity selects how much the Printer writes besides hits.
type Verbosity int

const (
	// None prints hits only.
	None Verbosity = iota
	// Low adds progress and the run summary.
	Low
	// High also prints the run options and inputs.
	High
)

// ParseVerbosity parses the names none, low and high.
func ParseVerbosity(s string) (Verbosity, error) {
	switch s {
	case "none", "0":
		return None, nil
	case "low", "1":
		return Low, nil
	case "high", "2":
		return High, nil
	}
	return None, fmt.Errorf("unknown verbosity %q", s)
}

// DefaultProgressInterval is the minimum time between two progress lines.
const DefaultProgressInterval = 100 * time.Millisecond

const clearLine = "\x1b[1K\r"

type Options struct {
	Stdout    io.Writer
	Stderr    io.Writer
	Verbosity Verbosity
	Color     bool
	// Single prints recovered plaintexts without their digest.
	Single bool
	// ProgressInterval throttles progress output, zero selects
	// DefaultProgressInterval.
	ProgressInterval time.Duration
}

// Printer is a search.Channel writing to a terminal. It is safe for
// concurrent use.
type Printer struct {
	mu        sync.Mutex
	stdout    io.Writer
	stderr    io.Writer
	verbosity Verbosity
	single    bool
	limiter   *rate.Limiter
	stopped   *atomic.Bool

	section *color.Color
	label   *color.Color
	good    *color.Color
	bad     *color.Color
}

var _ search.Channel = (*Printer)(nil)

func New(o Options) *Printer {
	if o.ProgressInterval <= 0 {
		o.ProgressInterval = DefaultProgressInterval
	}
	p := &Printer{
		stdout:    o.Stdout,
		stderr:    o.Stderr,
		verbosity: o.Verbosity,
		single:    o.Single,
		limiter:   rate.NewLimiter(rate.Every(o.ProgressInterval), 1),
		stopped:   atomic.NewBool(false),
		section:   color.New(color.FgYellow),
		label:     color.New(color.FgBlue),
		good:      color.New(color.FgGreen),
		bad:       color.New(color.FgHiRed),
	}
	for _, c := range []*color.Color{p.section, p.label, p.good, p.bad} {
		if o.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// SetSingle switches the hit format to the plaintext alone.
func (p *Printer) SetSingle(single bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.single = single
}

// Verbosity returns the configured verbosity.
func (p *Printer) Verbosity() Verbosity {
	return p.verbosity
}

func (p *Printer) Progress(percent uint8) {
	if p.verbosity < Low {
		return
	}
	if percent < 100 && !p.limiter.Allow() {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.stderr, "\r%s %02d%%", p.label.Sprint("Progress:"), percent)
}

func (p *Printer) Hit(digest, plain string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.verbosity >= Low {
		fmt.Fprint(p.stderr, clearLine)
	}
	if p.single {
		fmt.Fprintln(p.stdout, plain)
		return
	}
	fmt.Fprintf(p.stdout, "%s:%s\n", digest, plain)
}

func (p *Printer) ShouldTerminate() bool {
	return p.stopped.Load()
}

// Stop makes the run end at the next checkpoint.
func (p *Printer) Stop() {
	p.stopped.Store(true)
}

// Section starts a titled block on the standard error.
func (p *Printer) Section(title string) {
	if p.verbosity < Low {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.sectionLocked(title)
}

func (p *Printer) sectionLocked(title string) {
	fmt.Fprintln(p.stderr)
	fmt.Fprintln(p.stderr, p.section.Sprint(title))
	fmt.Fprintln(p.stderr, "----------")
}

// Field is a labeled value of the options section.
type Field struct {
	Label string
	Value any
}

// Options prints the run options and inputs at high verbosity.
func (p *Printer) Options(fields []Field, inputs []string) {
	if p.verbosity < High {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.sectionLocked("Options")
	for _, f := range fields {
		fmt.Fprintf(p.stderr, "%s%v\n", p.label.Sprintf("%-15s", f.Label+":"), f.Value)
	}
	p.sectionLocked("Input")
	for _, in := range inputs {
		fmt.Fprintln(p.stderr, in)
	}
}

// Summary prints the outcome of a run.
func (p *Printer) Summary(s *search.Summary) {
	if p.verbosity < Low {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprint(p.stderr, clearLine)
	p.sectionLocked("Summary")
	p.line("Threads launched:", Number(uint64(s.Workers)))
	p.line("Time elapsed:", Duration(s.Duration))
	p.line("Hashes:", Number(s.HashCount))
	if rate := s.Rate(); math.IsNaN(rate) {
		p.line("Hashes per millisec:", "NaN")
	} else {
		p.line("Hashes per millisec:", Number(uint64(rate)))
	}
	percent := 0
	if s.Total > 0 {
		percent = s.Found() * 100 / s.Total
	}
	p.line("Values found:", fmt.Sprintf("%d/%d (%d%%)", s.Found(), s.Total, percent))
}

func (p *Printer) line(label, value string) {
	fmt.Fprintf(p.stderr, "%s%s\n", p.label.Sprintf("%-21s", label), value)
}

// Start announces a file operation, Done completes its line.
func (p *Printer) Start(verb, file string) {
	if p.verbosity < Low {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.stderr, "%s %s", p.label.Sprint(verb), file)
}

// Done completes the line of the last Start with the error, if any.
func (p *Printer) Done(err error) {
	if p.verbosity < Low {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		fmt.Fprintf(p.stderr, ": %s %v\n", p.bad.Sprint("Error:"), err)
		return
	}
	fmt.Fprintf(p.stderr, ": %s\n", p.good.Sprint("Done"))
}
