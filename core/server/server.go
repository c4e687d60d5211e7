/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/caregrid/core/dataset"
	"github.com/google/caregrid/core/export"
	"github.com/google/caregrid/core/grid"
	"github.com/google/caregrid/core/logging"
	"github.com/google/caregrid/core/query"
	"github.com/google/caregrid/core/rendering"
	"github.com/google/caregrid/core/tables"
	"github.com/google/caregrid/core/views"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Paths served by the handler.
const (
	GridPath       = "/"
	DownloadPath   = "/download"
	RegeneratePath = "/regenerate"
	HealthPath     = "/healthz"
)

// Options configures a Server.
type Options struct {
	Title           string
	Limit           int // rows shown when the URL has no limit
	ShutdownTimeout time.Duration
	Logger          *zap.Logger
}

// Server represents the application server with all its dependencies
type Server struct {
	store    *dataset.Store
	renderer *rendering.GridRenderer
	logger   *zap.Logger
	opts     Options

	// The view of the current dataset, rebuilt when the dataset changes.
	// TableView caches its filter mask and is not safe for concurrent use.
	mu        sync.Mutex
	viewID    uuid.UUID
	tableView *tables.TableView
}

// HandlerResult represents a failed request
type HandlerResult struct {
	Error      error
	StatusCode int
	Message    string
}

// NewServer creates a new server over store
func NewServer(store *dataset.Store, opts Options) (*Server, error) {
	renderer, err := rendering.NewGridRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Limit == 0 {
		opts.Limit = query.DefaultLimit
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	return &Server{
		store:    store,
		renderer: renderer,
		logger:   opts.Logger,
		opts:     opts,
	}, nil
}

// buildModel evaluates the URL state against the current dataset. With
// allRows set the display limit is ignored.
func (s *Server) buildModel(requestURL *url.URL, q *query.Query, allRows bool) *grid.Model {
	switch {
	case allRows:
		q.Limit = 0
	case requestURL.Query().Get("limit") == "":
		q.Limit = s.opts.Limit
	}

	ds := s.store.Current()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tableView == nil || s.viewID != ds.ID {
		s.tableView = tables.NewTableView(ds.Table, "grid")
		s.viewID = ds.ID
	}
	return grid.Build(ds, s.tableView, q)
}

// HandleGridRequest renders the grid page for the state in requestURL
func (s *Server) HandleGridRequest(w io.Writer, requestURL *url.URL, setHeader func(key, value string)) *HandlerResult {
	q := query.NewQuery(requestURL)
	m := s.buildModel(requestURL, q, false)
	vm := views.BuildGridViewModel(m, s.opts.Title, DownloadPath)

	setHeader("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Render(w, vm); err != nil {
		s.logger.Error("template rendering failed", zap.Error(err))
		return &HandlerResult{Error: err, StatusCode: http.StatusInternalServerError, Message: "rendering failed"}
	}
	return nil
}

// HandleDownloadRequest writes every row matching the URL state, in sort
// order and with the visible columns, in the requested format
func (s *Server) HandleDownloadRequest(w io.Writer, requestURL *url.URL, setHeader func(key, value string)) *HandlerResult {
	q := query.NewQuery(requestURL)
	format, err := export.ParseFormat(q.Format)
	if err != nil {
		return &HandlerResult{Error: err, StatusCode: http.StatusBadRequest, Message: err.Error()}
	}

	m := s.buildModel(requestURL, q, true)
	rows := m.Dataset.Table.Rows(m.Rows, m.Dataset.Accessors)
	table := export.NewTable("Records", m.Forest, rows)

	setHeader("Content-Type", format.ContentType())
	setHeader("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename("caregrid-"+m.Dataset.ID.String()[:8])))
	if err := export.Write(w, format, table); err != nil {
		s.logger.Error("export failed", zap.String("format", string(format)), zap.Error(err))
		return &HandlerResult{Error: err, StatusCode: http.StatusInternalServerError, Message: "export failed"}
	}
	s.logger.Debug("export written", zap.String("format", string(format)), zap.Int("rows", len(rows)))
	return nil
}

type health struct {
	Status      string    `json:"status"`
	Dataset     string    `json:"dataset"`
	Rows        int       `json:"rows"`
	Columns     int       `json:"columns"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Handler returns the HTTP handler serving every route
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(GridPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != GridPath {
			http.NotFound(w, r)
			return
		}
		if !allowMethod(w, r, http.MethodGet, http.MethodHead) {
			return
		}
		s.writeResult(w, s.HandleGridRequest(w, r.URL, w.Header().Set))
	})

	mux.HandleFunc(DownloadPath, func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodGet, http.MethodHead) {
			return
		}
		s.writeResult(w, s.HandleDownloadRequest(w, r.URL, w.Header().Set))
	})

	mux.HandleFunc(RegeneratePath, func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodPost) {
			return
		}
		if _, err := s.store.Regenerate(); err != nil {
			s.logger.Error("regenerate failed", zap.Error(err))
			http.Error(w, "regenerate failed", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, GridPath, http.StatusSeeOther)
	})

	mux.HandleFunc(HealthPath, func(w http.ResponseWriter, r *http.Request) {
		ds := s.store.Current()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(health{
			Status:      "ok",
			Dataset:     ds.ID.String(),
			Rows:        ds.Len(),
			Columns:     len(ds.Accessors),
			GeneratedAt: ds.GeneratedAt,
		})
	})

	return logging.AccessLog(s.logger, mux)
}

// writeResult turns a failed HandlerResult into an HTTP error. The
// renderer may already have written part of the page, in which case the
// status cannot change any more and only the log entry remains.
func (s *Server) writeResult(w http.ResponseWriter, result *HandlerResult) {
	if result == nil {
		return
	}
	status := result.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	http.Error(w, result.Message, status)
}

func allowMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string, watcher *dataset.Watcher) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln, watcher)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
// A non-nil watcher runs alongside the server and stops with it.
func (s *Server) Serve(ctx context.Context, ln net.Listener, watcher *dataset.Watcher) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("serving", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(gctx)
		})
	}
	return g.Wait()
}
