// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"fmt"
	"strconv"
	"time"
)

var magnitudes = []struct {
	limit uint64
	name  string
}{
	{1_000_000, "thousand"},
	{1_000_000_000, "million"},
	{1_000_000_000_000, "billion"},
	{1_000_000_000_000_000, "trillion"},
}

// Number spells large counts with a magnitude word, 1500 becomes
// "1.5 thousand". Values outside the named magnitudes are printed as is.
func Number(n uint64) string {
	if n < 1000 {
		return strconv.FormatUint(n, 10)
	}
	unit := uint64(1)
	for _, m := range magnitudes {
		if n < m.limit {
			// keep three significant fractional digits
			f := float32(n/unit) / 1000
			return strconv.FormatFloat(float64(f), 'f', -1, 32) + " " + m.name
		}
		unit *= 1000
	}
	return strconv.FormatUint(n, 10)
}

// Duration formats d as minutes and fractional seconds followed by the
// total milliseconds, like "2m3.46s (123456ms)".
func Duration(d time.Duration) string {
	ms := d.Milliseconds()
	seconds := float64(ms%60_000) / 1000
	if minutes := ms / 60_000; minutes > 0 {
		return fmt.Sprintf("%dm%.2fs (%dms)", minutes, seconds, ms)
	}
	return fmt.Sprintf("%.2fs (%dms)", seconds, ms)
}
