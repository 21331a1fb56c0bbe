// SPDX-License-Identifier: EPL-2.0

package stream_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/ik5/brstmplay/stream"
)

func serve(t *testing.T, data []byte) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/song.brstm", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		_, _ = w.Write(data)
	})
	mux.HandleFunc("/missing.brstm", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestOpen(t *testing.T) {
	t.Parallel()

	_, data := fixture()
	srv := serve(t, data)

	body, size, err := stream.Open(context.Background(), srv.Client(), srv.URL+"/song.brstm")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer body.Close()

	if size != int64(len(data)) {
		t.Errorf("size = %d, want %d", size, len(data))
	}

	l := stream.NewLoader(stream.Config{SizeHint: int(size), Logger: quietLogger()})
	if err := l.Run(context.Background(), body); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if l.SamplesReady() != 200 {
		t.Errorf("SamplesReady() = %d, want 200", l.SamplesReady())
	}
}

func TestOpen_Status(t *testing.T) {
	t.Parallel()

	srv := serve(t, nil)

	_, _, err := stream.Open(context.Background(), srv.Client(), srv.URL+"/missing.brstm")
	var se *stream.HTTPStatusError
	if !errors.As(err, &se) {
		t.Fatalf("Open() error = %v, want *HTTPStatusError", err)
	}
	if se.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", se.StatusCode)
	}
}

func TestOpen_BadURL(t *testing.T) {
	t.Parallel()

	if _, _, err := stream.Open(context.Background(), nil, "://nope"); err == nil {
		t.Error("Open() accepted a malformed URL")
	}
}

func TestFetch(t *testing.T) {
	t.Parallel()

	_, data := fixture()
	srv := serve(t, data)

	got, err := stream.Fetch(context.Background(), srv.URL+"/song.brstm", 5*time.Second)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(got) != len(data) {
		t.Errorf("Fetch() returned %d bytes, want %d", len(got), len(data))
	}
}
