// Copyright 2020 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package debugapi

import (
	"net/http"

	"github.com/ethersphere/hasher"
	"github.com/ethersphere/hasher/pkg/jsonhttp"
)

type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func statusHandler(w http.ResponseWriter, _ *http.Request) {
	jsonhttp.OK(w, StatusResponse{
		Status:  "ok",
		Version: hasher.Version,
	})
}

func (s *Service) progressHandler(w http.ResponseWriter, _ *http.Request) {
	s.handlerMu.RLock()
	progress := s.progress
	s.handlerMu.RUnlock()

	if progress == nil {
		jsonhttp.ServiceUnavailable(w, "run is not configured")
		return
	}
	jsonhttp.OK(w, progress.Status())
}
