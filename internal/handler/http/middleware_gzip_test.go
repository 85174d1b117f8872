// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write(data)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func gunzip(t *testing.T, data []byte) string {
	t.Helper()
	gr, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer gr.Close()
	out, err := io.ReadAll(gr)
	require.NoError(t, err)
	return string(out)
}

func TestGZip(t *testing.T) {
	tests := []struct {
		name            string
		acceptEncoding  string
		contentEncoding string
		requestBody     []byte
		compressRequest bool
		wantStatus      int
		wantResponse    string
		wantGzipped     bool
		wantRequestEcho bool
	}{
		{
			name:           "compress response when client accepts gzip",
			acceptEncoding: "gzip",
			wantStatus:     http.StatusOK,
			wantResponse:   `{"status":"ok"}`,
			wantGzipped:    true,
		},
		{
			name:         "no compression when client doesn't accept gzip",
			wantStatus:   http.StatusOK,
			wantResponse: `{"status":"ok"}`,
		},
		{
			name:           "accept-encoding with quality values",
			acceptEncoding: "deflate, gzip;q=1.0, br",
			wantStatus:     http.StatusOK,
			wantResponse:   strings.Repeat("large form ", 500),
			wantGzipped:    true,
		},
		{
			name:            "decompress gzipped request body",
			contentEncoding: "gzip",
			requestBody:     []byte(`{"company":"Acme"}`),
			compressRequest: true,
			wantStatus:      http.StatusOK,
			wantResponse:    `{"company":"Acme"}`,
			wantRequestEcho: true,
		},
		{
			name:            "decompress request and compress response",
			acceptEncoding:  "gzip",
			contentEncoding: "gzip",
			requestBody:     []byte(`{"company":"Acme"}`),
			compressRequest: true,
			wantStatus:      http.StatusOK,
			wantResponse:    `{"company":"Acme"}`,
			wantGzipped:     true,
			wantRequestEcho: true,
		},
		{
			name:            "invalid gzip request body",
			contentEncoding: "gzip",
			requestBody:     []byte("not gzipped data"),
			wantStatus:      http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.wantRequestEcho {
					assert.Empty(t, r.Header.Get("Content-Encoding"))
					body, err := io.ReadAll(r.Body)
					require.NoError(t, err)
					w.Write(body)
					return
				}
				w.Write([]byte(tt.wantResponse))
			})

			body := tt.requestBody
			if tt.compressRequest {
				body = gzipBytes(t, body)
			}
			req := httptest.NewRequest(http.MethodPost, "/api/v1/forms/submit", bytes.NewReader(body))
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			if tt.contentEncoding != "" {
				req.Header.Set("Content-Encoding", tt.contentEncoding)
			}

			rr := httptest.NewRecorder()
			withGZip(next).ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, rr.Body.String(), `"error"`)
				return
			}

			if tt.wantGzipped {
				assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
				assert.Equal(t, tt.wantResponse, gunzip(t, rr.Body.Bytes()))
				return
			}
			assert.Empty(t, rr.Header().Get("Content-Encoding"))
			assert.Equal(t, tt.wantResponse, rr.Body.String())
		})
	}
}

func TestGZip_ExplicitStatusIsKept(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"1"}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	withGZip(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", rr.Header().Get("Vary"))
	assert.Equal(t, `{"id":"1"}`, gunzip(t, rr.Body.Bytes()))
}

func TestGZip_NoContentIsNotCompressed(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	withGZip(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Header().Get("Content-Encoding"))
	assert.Zero(t, rr.Body.Len())
}

func TestGZip_ConcurrentRequests(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Write(body)
	})
	handler := withGZip(next)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		payload := strings.Repeat("x", i+1)
		compressed := gzipBytes(t, []byte(payload))

		wg.Go(func() {
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(compressed))
			req.Header.Set("Content-Encoding", "gzip")
			req.Header.Set("Accept-Encoding", "gzip")
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			gr, err := gzip.NewReader(rr.Body)
			if !assert.NoError(t, err) {
				return
			}
			out, _ := io.ReadAll(gr)
			assert.Equal(t, payload, string(out))
		})
	}
	wg.Wait()
}

func TestWrappedReadCloser_Close(t *testing.T) {
	closeCalled := false
	wrapped := &wrappedReadCloser{
		Reader:  strings.NewReader("test"),
		OnClose: func() { closeCalled = true },
	}

	assert.NoError(t, wrapped.Close())
	assert.True(t, closeCalled, "OnClose should be called")

	assert.NoError(t, (&wrappedReadCloser{Reader: strings.NewReader("test")}).Close())
}
