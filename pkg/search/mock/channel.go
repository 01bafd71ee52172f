// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mock

import (
	"sync"

	"github.com/ethersphere/hasher/pkg/search"
)

// Channel records everything a run reports.
type Channel struct {
	mu             sync.Mutex
	progress       []uint8
	hits           map[string]string
	order          []string
	polls          int
	terminateAfter int
	terminatePolls int
	hitFunc        func(digest, plain string)
}

var _ search.Channel = (*Channel)(nil)

type Option interface {
	apply(*Channel)
}

type optionFunc func(*Channel)

func (f optionFunc) apply(c *Channel) { f(c) }

// WithTerminateAfterHits makes ShouldTerminate return true once n hits are
// recorded.
func WithTerminateAfterHits(n int) Option {
	return optionFunc(func(c *Channel) {
		c.terminateAfter = n
	})
}

// WithTerminateAfterPolls makes ShouldTerminate return true from its n-th
// call on.
func WithTerminateAfterPolls(n int) Option {
	return optionFunc(func(c *Channel) {
		c.terminatePolls = n
	})
}

// WithHitFunc calls f for every reported hit, before it is recorded.
func WithHitFunc(f func(digest, plain string)) Option {
	return optionFunc(func(c *Channel) {
		c.hitFunc = f
	})
}

func NewChannel(opts ...Option) *Channel {
	c := &Channel{
		hits: make(map[string]string),
	}
	for _, o := range opts {
		o.apply(c)
	}
	return c
}

func (c *Channel) Progress(percent uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.progress = append(c.progress, percent)
}

func (c *Channel) Hit(digest, plain string) {
	if c.hitFunc != nil {
		c.hitFunc(digest, plain)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.hits[digest] = plain
	c.order = append(c.order, digest)
}

func (c *Channel) ShouldTerminate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.polls++
	if c.terminatePolls > 0 && c.polls >= c.terminatePolls {
		return true
	}
	return c.terminateAfter > 0 && len(c.order) >= c.terminateAfter
}

// Hits returns the recorded plaintexts by hex digest.
func (c *Channel) Hits() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := make(map[string]string, len(c.hits))
	for k, v := range c.hits {
		m[k] = v
	}
	return m
}

// Order returns the hex digests in the order they were reported.
func (c *Channel) Order() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]string(nil), c.order...)
}

// ProgressValues returns all recorded percentages.
func (c *Channel) ProgressValues() []uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]uint8(nil), c.progress...)
}

// Polls returns the number of ShouldTerminate calls.
func (c *Channel) Polls() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.polls
}
