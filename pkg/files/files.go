// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package files reads run inputs from and writes run results to a
// filesystem.
package files

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethersphere/hasher/pkg/digest"
	"github.com/ethersphere/hasher/pkg/search"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

const filePerm = 0o644

// Pair is an input and the value derived from it, written as input:output.
type Pair struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// HitPairs returns the digest:plaintext pairs of hits.
func HitPairs(hits []search.Hit) []Pair {
	pairs := make([]Pair, len(hits))
	for i, h := range hits {
		pairs[i] = Pair{Input: h.Digest.String(), Output: h.Plain}
	}
	return pairs
}

// ReadLines returns the lines of the file with surrounding white space
// removed. Blank lines and lines starting with # are skipped.
func ReadLines(fs afero.Fs, path string) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// ParseTargets parses hex digests of the algorithm. All malformed values
// are reported together.
func ParseTargets(alg digest.Algorithm, values []string) ([]digest.Digest, error) {
	var (
		targets = make([]digest.Digest, 0, len(values))
		merr    *multierror.Error
	)
	for i, v := range values {
		d, err := digest.Parse(alg, v)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("target %d %q: %w", i+1, v, err))
			continue
		}
		targets = append(targets, d)
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return targets, nil
}

// ReadTargets reads newline separated hex digests of the algorithm.
func ReadTargets(fs afero.Fs, path string, alg digest.Algorithm) ([]digest.Digest, error) {
	lines, err := ReadLines(fs, path)
	if err != nil {
		return nil, err
	}
	targets, err := ParseTargets(alg, lines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return targets, nil
}

// WritePairs writes one input:output line per pair, replacing the file.
func WritePairs(fs afero.Fs, path string, pairs []Pair) (err error) {
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	for _, p := range pairs {
		if _, err := fmt.Fprintf(w, "%s:%s\n", p.Input, p.Output); err != nil {
			return err
		}
	}
	return w.Flush()
}

// WriteSummary writes the run summary as indented JSON.
func WriteSummary(fs afero.Fs, path string, s *search.Summary) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, append(b, '\n'), filePerm)
}
