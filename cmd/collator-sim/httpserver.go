// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/parastaking/metrics"
)

type httpServer struct {
	srv      *http.Server
	listener net.Listener
	url      string
}

func listen(addr, path string, handler http.Handler) (*httpServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen addr [%v]", addr)
	}
	return &httpServer{
		srv:      &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second},
		listener: listener,
		url:      "http://" + listener.Addr().String() + path,
	}, nil
}

func startAPIServer(addr string, handler http.Handler) (*httpServer, error) {
	return listen(addr, "/", handler)
}

func startMetricsServer(addr string) (*httpServer, error) {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	return listen(addr, "/metrics", handlers.CompressHandler(router))
}

// Serve blocks until the server is shut down.
func (s *httpServer) Serve() error {
	if err := s.srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *httpServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
