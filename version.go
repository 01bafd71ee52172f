// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hasher holds the build information of the hasher binary.
package hasher

var (
	version    = "0.1.0" // manually set semantic version number
	commitHash string    // automatically set git commit hash

	// Version is the semantic version, suffixed with the commit hash of
	// release builds or with "dev" otherwise.
	Version = func() string {
		if commitHash != "" {
			return version + "-" + commitHash
		}
		return version + "-dev"
	}()
)
