// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsonhttp writes JSON responses of the debug API.
package jsonhttp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

var (
	// DefaultContentTypeHeader is the value of the Content-Type header of
	// every response.
	DefaultContentTypeHeader = "application/json; charset=utf-8"
	// EscapeHTMLEnabled controls HTML escaping in response bodies.
	EscapeHTMLEnabled = false
)

// StatusResponse is the body of responses that carry only a status.
type StatusResponse struct {
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Respond writes response as JSON with the status code. A nil response
// becomes a StatusResponse with the status text, a string response a
// StatusResponse with that message.
func Respond(w http.ResponseWriter, statusCode int, response any) {
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	switch v := response.(type) {
	case nil:
		response = &StatusResponse{Message: http.StatusText(statusCode), Code: statusCode}
	case string:
		response = &StatusResponse{Message: v, Code: statusCode}
	}

	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(EscapeHTMLEnabled)
	if err := enc.Encode(response); err != nil {
		panic(err)
	}
	w.Header().Set("Content-Type", DefaultContentTypeHeader)
	w.WriteHeader(statusCode)
	fmt.Fprint(w, b.String())
}

// OK writes a 200 response.
func OK(w http.ResponseWriter, response any) {
	Respond(w, http.StatusOK, response)
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, response any) {
	Respond(w, http.StatusNotFound, response)
}

// MethodNotAllowed writes a 405 response.
func MethodNotAllowed(w http.ResponseWriter, response any) {
	Respond(w, http.StatusMethodNotAllowed, response)
}

// ServiceUnavailable writes a 503 response.
func ServiceUnavailable(w http.ResponseWriter, response any) {
	Respond(w, http.StatusServiceUnavailable, response)
}
