// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package debugapi_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/ethersphere/hasher"
	"github.com/ethersphere/hasher/pkg/debugapi"
	"github.com/ethersphere/hasher/pkg/jsonhttp"
	"github.com/ethersphere/hasher/pkg/jsonhttp/jsonhttptest"
	"github.com/ethersphere/hasher/pkg/report"
	"github.com/ethersphere/hasher/pkg/tracing"
)

func TestHealth(t *testing.T) {
	t.Parallel()

	_, client := newTestServer(t, testServerOptions{})

	jsonhttptest.Request(t, client, http.MethodGet, "/health", http.StatusOK,
		jsonhttptest.WithExpectedJSONResponse(debugapi.StatusResponse{
			Status:  "ok",
			Version: hasher.Version,
		}),
	)
	jsonhttptest.Request(t, client, http.MethodPost, "/health", http.StatusMethodNotAllowed)
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	_, client := newTestServer(t, testServerOptions{})
	jsonhttptest.Request(t, client, http.MethodGet, "/readiness", http.StatusNotFound,
		jsonhttptest.WithExpectedJSONResponse(jsonhttp.StatusResponse{
			Message: http.StatusText(http.StatusNotFound),
			Code:    http.StatusNotFound,
		}),
	)

	_, client = newTestServer(t, testServerOptions{Progress: staticProgress{}})
	jsonhttptest.Request(t, client, http.MethodGet, "/readiness", http.StatusOK,
		jsonhttptest.WithExpectedJSONResponse(debugapi.StatusResponse{
			Status:  "ok",
			Version: hasher.Version,
		}),
	)
}

func TestProgress(t *testing.T) {
	t.Parallel()

	progress := report.NewProgress(nil, 3)
	progress.SetRunning(true)
	progress.Progress(57)
	progress.Hit("e99a18c428cb38d5f260853678922e03", "123")

	_, client := newTestServer(t, testServerOptions{Progress: progress})

	jsonhttptest.Request(t, client, http.MethodGet, "/progress", http.StatusOK,
		jsonhttptest.WithExpectedJSONResponse(report.Status{
			Running: true,
			Percent: 57,
			Hits:    1,
			Targets: 3,
		}),
	)
}

func TestProgressUnavailable(t *testing.T) {
	t.Parallel()

	s, client := newTestServer(t, testServerOptions{})
	jsonhttptest.Request(t, client, http.MethodGet, "/progress", http.StatusServiceUnavailable,
		jsonhttptest.WithExpectedJSONResponse(jsonhttp.StatusResponse{
			Message: "run is not configured",
			Code:    http.StatusServiceUnavailable,
		}),
	)

	s.Configure(staticProgress{Percent: 10, Targets: 2})
	jsonhttptest.Request(t, client, http.MethodGet, "/progress", http.StatusOK,
		jsonhttptest.WithExpectedJSONResponse(report.Status{
			Percent: 10,
			Targets: 2,
		}),
	)
}

func TestProgressTraced(t *testing.T) {
	t.Parallel()

	tracer, closer, err := tracing.NewTracer(&tracing.Options{Enabled: true, ServiceName: "test"})
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()

	span, _, ctx := tracer.StartSpanFromContext(context.Background(), "client", nil)
	defer span.Finish()
	headers := make(http.Header)
	if err := tracer.AddContextHTTPHeader(ctx, headers); err != nil {
		t.Fatal(err)
	}

	_, client := newTestServer(t, testServerOptions{
		Progress: staticProgress{Percent: 100, Targets: 1, Hits: 1},
		Tracer:   tracer,
	})
	jsonhttptest.Request(t, client, http.MethodGet, "/progress", http.StatusOK,
		jsonhttptest.WithRequestHeader(tracing.TraceContextHeaderName, headers.Get(tracing.TraceContextHeaderName)),
		jsonhttptest.WithExpectedJSONResponse(report.Status{
			Percent: 100,
			Hits:    1,
			Targets: 1,
		}),
	)
}
