// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package digest

import (
	"crypto/md5"
	"errors"
	"fmt"
	"hash"
	"sort"
	"sync"

	sha256 "github.com/minio/sha256-simd"
	"golang.org/x/crypto/sha3"
)

// ErrUnknownAlgorithm is returned by Get for names that were never registered.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Algorithm is a hash primitive selected once from configuration and used
// as an opaque capability for the rest of a run.
type Algorithm interface {
	// Name is the identifier used in configuration.
	Name() string
	// Size is the width of produced digests in bytes.
	Size() int
	// New returns a fresh hash.Hash. Instances are not safe for
	// concurrent use, every worker keeps its own.
	New() hash.Hash
}

type algorithm struct {
	name string
	size int
	new  func() hash.Hash
}

func (a algorithm) Name() string   { return a.name }
func (a algorithm) Size() int      { return a.size }
func (a algorithm) New() hash.Hash { return a.new() }
func (a algorithm) String() string { return a.name }

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Algorithm)
)

var (
	MD5       = register(algorithm{name: "md5", size: md5.Size, new: md5.New})
	SHA256    = register(algorithm{name: "sha256", size: sha256.Size, new: sha256.New})
	Keccak256 = register(algorithm{name: "keccak256", size: 32, new: sha3.NewLegacyKeccak256})
)

func register(a Algorithm) Algorithm {
	Register(a)
	return a
}

// Register makes an Algorithm available by its name.
// Registering the same name twice replaces the previous entry.
func Register(a Algorithm) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[a.Name()] = a
}

// Get returns the Algorithm registered under name.
func Get(name string) (Algorithm, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if a, ok := registry[name]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// List returns the sorted names of all registered algorithms.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sum hashes the concatenation of parts with a fresh instance of a.
func Sum(a Algorithm, parts ...[]byte) Digest {
	h := a.New()
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var buf [MaxSize]byte
	return New(h.Sum(buf[:0]))
}

// Parse returns a Digest with the width of a from its hex representation.
func Parse(a Algorithm, s string) (Digest, error) {
	return ParseHex(s, a.Size())
}
