// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"code.vegaprotocol.io/vamm/core/markets"
	"code.vegaprotocol.io/vamm/logging"
	"code.vegaprotocol.io/vamm/metrics"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// MarketStore gives read access to the stored markets.
type MarketStore interface {
	MarketIDs() ([]string, error)
	LoadMarket(id string) (*markets.Snapshot, error)
}

// Server is a read only REST view of the stored markets.
type Server struct {
	log   *logging.Logger
	cfg   Config
	store MarketStore
	srv   *http.Server
}

func New(log *logging.Logger, cfg Config, store MarketStore) *Server {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	s := &Server{
		log:   log,
		cfg:   cfg,
		store: store,
	}
	s.srv = &http.Server{
		Addr:              net.JoinHostPort(cfg.IP, strconv.Itoa(cfg.Port)),
		Handler:           s.Handler(),
		ReadHeaderTimeout: cfg.Timeout.Get(),
		ReadTimeout:       cfg.Timeout.Get(),
		WriteTimeout:      cfg.Timeout.Get(),
	}
	return s
}

// Handler returns the router of the server wrapped with CORS.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/markets", s.listMarkets).Methods(http.MethodGet)
	r.HandleFunc("/markets/{id}", s.getMarket).Methods(http.MethodGet)
	r.HandleFunc("/markets/{id}/settlement", s.previewSettlement).Methods(http.MethodGet)
	if s.cfg.ServeMetrics {
		r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	}
	r.Use(s.logRequests)

	return cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	}).Handler(r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request served",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Duration("took", time.Since(start)),
		)
	})
}

// Start serves until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting REST api", logging.String("address", s.srv.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("REST api stopped: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout.Get())
		defer cancel()
		s.log.Info("stopping REST api")
		return s.srv.Shutdown(shutdownCtx)
	}
}
