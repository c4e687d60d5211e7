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
	"encoding/csv"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/caregrid/core/dataset"
	"github.com/google/caregrid/core/schema"
	"github.com/google/caregrid/core/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T, rows int) (*Server, *dataset.Store) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store, err := dataset.NewStore(schema.Healthcare(), synth.Healthcare(), dataset.Options{Count: rows, Seed: 9}, logger)
	require.NoError(t, err)
	srv, err := NewServer(store, Options{Title: "Patients", Limit: 10, Logger: logger})
	require.NoError(t, err)
	return srv, store
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleGridRequest(t *testing.T) {
	srv, _ := newTestServer(t, 30)

	u, _ := url.Parse("/?sort=age")
	var sb strings.Builder
	headers := map[string]string{}
	result := srv.HandleGridRequest(&sb, u, func(k, v string) { headers[k] = v })

	require.Nil(t, result)
	assert.Equal(t, "text/html; charset=utf-8", headers["Content-Type"])
	assert.Contains(t, sb.String(), "Healthcare user")
	assert.Contains(t, sb.String(), "Showing 10 of 30 matching rows")
}

func TestGridRoute(t *testing.T) {
	srv, _ := newTestServer(t, 5)
	h := srv.Handler()

	rec := get(t, h, "/?limit=0&expanded=0")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Inner Form Grid Goes here")
	assert.Contains(t, rec.Body.String(), "Columns (8/8)")

	assert.Equal(t, http.StatusNotFound, get(t, h, "/nope").Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
}

func TestDownloadRoute(t *testing.T) {
	srv, store := newTestServer(t, 20)
	h := srv.Handler()

	rec := get(t, h, "/download?format=csv&sort=name&hidden=date&limit=3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	// The display limit does not apply to downloads.
	require.Len(t, records, 21)
	assert.Len(t, records[0], 7)
	assert.NotContains(t, records[0], "Date")
	assert.Equal(t, store.Current().Len(), len(records)-1)

	for i := 2; i < len(records); i++ {
		assert.LessOrEqual(t, strings.ToLower(records[i-1][0]), strings.ToLower(records[i][0]))
	}

	for _, format := range []string{"json", "xlsx", "parquet"} {
		rec := get(t, h, "/download?format="+format)
		assert.Equal(t, http.StatusOK, rec.Code, format)
		assert.NotZero(t, rec.Body.Len(), format)
	}

	rec = get(t, h, "/download?format=pdf")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = get(t, h, "/download")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegenerateRoute(t *testing.T) {
	srv, store := newTestServer(t, 5)
	h := srv.Handler()
	before := store.Current().ID

	assert.Equal(t, http.StatusMethodNotAllowed, get(t, h, "/regenerate").Code)
	assert.Equal(t, before, store.Current().ID)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/regenerate", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.NotEqual(t, before, store.Current().ID)
	assert.Equal(t, 5, store.Current().Len())

	// The grid follows the new dataset.
	rec = get(t, h, "/")
	assert.Contains(t, rec.Body.String(), store.Current().ID.String())
}

func TestHealthRoute(t *testing.T) {
	srv, store := newTestServer(t, 4)
	rec := get(t, srv.Handler(), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body health
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, store.Current().ID.String(), body.Dataset)
	assert.Equal(t, 4, body.Rows)
	assert.Equal(t, 8, body.Columns)
}

func TestServe(t *testing.T) {
	srv, _ := newTestServer(t, 3)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln, nil) }()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	client.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
