// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package debugapi_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ethersphere/hasher/pkg/debugapi"
	"github.com/ethersphere/hasher/pkg/logging"
	"github.com/ethersphere/hasher/pkg/report"
	"github.com/ethersphere/hasher/pkg/tracing"
	"resenje.org/web"
)

type testServerOptions struct {
	Progress debugapi.Progresser
	Tracer   *tracing.Tracer
}

func newTestServer(t *testing.T, o testServerOptions) (*debugapi.Service, *http.Client) {
	t.Helper()

	s := debugapi.New(logging.Noop(), o.Tracer)
	if o.Progress != nil {
		s.Configure(o.Progress)
	}
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	client := &http.Client{
		Transport: web.RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			u, err := url.Parse(ts.URL + r.URL.String())
			if err != nil {
				return nil, err
			}
			r.URL = u
			return ts.Client().Transport.RoundTrip(r)
		}),
	}
	return s, client
}

type staticProgress report.Status

func (p staticProgress) Status() report.Status {
	return report.Status(p)
}
