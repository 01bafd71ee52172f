// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsonhttptest issues requests against JSON HTTP handlers in tests
// and checks their responses.
package jsonhttptest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/ethersphere/hasher/pkg/jsonhttp"
)

// Request performs the request and checks the response status code and,
// depending on the options, its body. It returns the response headers.
func Request(t *testing.T, client *http.Client, method, url string, responseCode int, opts ...Option) http.Header {
	t.Helper()

	o := new(options)
	for _, opt := range opts {
		opt.apply(o)
	}

	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range o.requestHeaders {
		req.Header[k] = v
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != responseCode {
		t.Errorf("got response status %s, want %v %s", resp.Status, responseCode, http.StatusText(responseCode))
	}

	got, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if o.responseBody != nil {
		*o.responseBody = got
	}

	if o.expectedJSONResponse != nil {
		if v := resp.Header.Get("Content-Type"); v != jsonhttp.DefaultContentTypeHeader {
			t.Errorf("got content type %q, want %q", v, jsonhttp.DefaultContentTypeHeader)
		}
		want, err := json.Marshal(o.expectedJSONResponse)
		if err != nil {
			t.Fatal(err)
		}
		if got := bytes.TrimSpace(got); !bytes.Equal(got, want) {
			t.Errorf("got json response %s, want %s", string(got), string(want))
		}
	}

	if o.unmarshalResponse != nil {
		if err := json.Unmarshal(got, o.unmarshalResponse); err != nil {
			t.Fatal(err)
		}
	}
	return resp.Header
}

// WithRequestHeader adds a request header.
func WithRequestHeader(key, value string) Option {
	return optionFunc(func(o *options) {
		if o.requestHeaders == nil {
			o.requestHeaders = make(http.Header)
		}
		o.requestHeaders.Add(key, value)
	})
}

// WithExpectedJSONResponse compares the body with the JSON encoding of
// response.
func WithExpectedJSONResponse(response any) Option {
	return optionFunc(func(o *options) {
		o.expectedJSONResponse = response
	})
}

// WithUnmarshalJSONResponse decodes the body into response, which must be
// a pointer.
func WithUnmarshalJSONResponse(response any) Option {
	return optionFunc(func(o *options) {
		o.unmarshalResponse = response
	})
}

// WithPutResponseBody stores the raw body in b.
func WithPutResponseBody(b *[]byte) Option {
	return optionFunc(func(o *options) {
		o.responseBody = b
	})
}

type options struct {
	requestHeaders       http.Header
	expectedJSONResponse any
	unmarshalResponse    any
	responseBody         *[]byte
}

type Option interface {
	apply(*options)
}

type optionFunc func(*options)

func (f optionFunc) apply(o *options) { f(o) }
