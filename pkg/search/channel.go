// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package search

// Channel connects a running search to its caller. Implementations must be
// safe for concurrent use, every worker calls into the same Channel.
type Channel interface {
	// Progress reports the completion percentage, 0 to 100.
	Progress(percent uint8)
	// Hit reports a recovered plaintext together with the hex digest it
	// hashes to.
	Hit(digest, plain string)
	// ShouldTerminate is polled at every checkpoint. Returning true stops
	// the run early.
	ShouldTerminate() bool
}

// NopChannel discards all reports and never terminates.
type NopChannel struct{}

func (NopChannel) Progress(uint8)        {}
func (NopChannel) Hit(string, string)    {}
func (NopChannel) ShouldTerminate() bool { return false }
