// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"github.com/ethersphere/hasher/pkg/search"
	"go.uber.org/atomic"
)

// Progress is a search.Channel decorator that remembers the state of the
// run for observers such as the debug API.
type Progress struct {
	search.Channel
	targets int
	percent *atomic.Uint32
	hits    *atomic.Int64
	running *atomic.Bool
}

// Status is a snapshot of a Progress.
type Status struct {
	Running bool  `json:"running"`
	Percent uint8 `json:"percent"`
	Hits    int64 `json:"hits"`
	Targets int   `json:"targets"`
}

// NewProgress wraps ch. Targets is the number of digests searched for.
func NewProgress(ch search.Channel, targets int) *Progress {
	if ch == nil {
		ch = search.NopChannel{}
	}
	return &Progress{
		Channel: ch,
		targets: targets,
		percent: atomic.NewUint32(0),
		hits:    atomic.NewInt64(0),
		running: atomic.NewBool(false),
	}
}

func (p *Progress) Progress(percent uint8) {
	p.percent.Store(uint32(percent))
	p.Channel.Progress(percent)
}

func (p *Progress) Hit(digest, plain string) {
	p.hits.Inc()
	p.Channel.Hit(digest, plain)
}

// SetRunning marks whether a run is in flight.
func (p *Progress) SetRunning(running bool) {
	p.running.Store(running)
}

func (p *Progress) Status() Status {
	return Status{
		Running: p.running.Load(),
		Percent: uint8(p.percent.Load()),
		Hits:    p.hits.Load(),
		Targets: p.targets,
	}
}
