/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2021 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/named-data/ndnfw/core"
	"github.com/named-data/ndnfw/fw"
	"github.com/named-data/ndnfw/mgmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsServer serves the forwarder metrics over HTTP at /metrics.
type MetricsServer struct {
	server   *http.Server
	listener net.Listener
}

// NewMetricsServer listens on address and prepares to serve the metrics of the forwarder.
func NewMetricsServer(address string, forwarder *fw.Forwarder) (*MetricsServer, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(mgmt.NewMetricsCollector(forwarder)); err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return &MetricsServer{
		server:   &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		listener: listener,
	}, nil
}

func (s *MetricsServer) String() string {
	return "MetricsServer"
}

// Addr returns the address the server listens on.
func (s *MetricsServer) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve serves until the server is shut down.
func (s *MetricsServer) Serve() {
	core.LogInfo(s, "Serving metrics on ", s.listener.Addr())
	if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		core.LogError(s, "Unable to serve metrics: ", err)
	}
}

// Shutdown stops the server.
func (s *MetricsServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		core.LogWarn(s, "Unable to shut down metrics server: ", err)
	}
}
