package publishers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type capturedRequest struct {
	method, contentType, runID, custom string
	event                              Event
}

func TestWebhookPublisher(t *testing.T) {
	cases := []struct {
		name    string
		method  string
		status  int
		headers map[string]string
		wantErr string
	}{
		{name: "post accepted", method: http.MethodPost, status: http.StatusAccepted, headers: map[string]string{"X-Test": "1"}},
		{name: "put ok", method: http.MethodPut, status: http.StatusOK},
		{name: "configured headers cannot override content type", method: http.MethodPost, status: http.StatusOK,
			headers: map[string]string{"Content-Type": "text/plain", "X-Run-ID": "spoofed"}},
		{name: "rejected", method: http.MethodPost, status: http.StatusBadRequest, wantErr: "http response status 400: nope"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := make(chan capturedRequest, 1)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				req := capturedRequest{
					method:      r.Method,
					contentType: r.Header.Get("Content-Type"),
					runID:       r.Header.Get("X-Run-ID"),
					custom:      r.Header.Get("X-Test"),
				}
				_ = json.NewDecoder(r.Body).Decode(&req.event)
				got <- req
				if tc.status >= 400 {
					http.Error(w, "nope", tc.status)
					return
				}
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			pub, err := newHTTPPublisher(context.Background(), PublisherConfig{
				ID:   "hook",
				Type: TypeHTTP,
				HTTP: &HTTPPublisherConfig{URL: srv.URL, Method: tc.method, Headers: tc.headers, TimeoutSeconds: 2},
			}, nil)
			if err != nil {
				t.Fatalf("newHTTPPublisher: %v", err)
			}

			err = pub.Publish(context.Background(), sampleEvent())
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("Publish error = %v, want %q", err, tc.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Publish: %v", err)
			}

			req := <-got
			if req.method != tc.method {
				t.Fatalf("method = %s", req.method)
			}
			if req.contentType != "application/json" || req.runID != "run-123" {
				t.Fatalf("content-type=%q run-id=%q", req.contentType, req.runID)
			}
			if req.custom != tc.headers["X-Test"] {
				t.Fatalf("X-Test = %q", req.custom)
			}
			if req.event.RunID != "run-123" || req.event.Passed != 1 {
				t.Fatalf("decoded event %#v", req.event)
			}
		})
	}
}

func TestNewHTTPPublisherRequiresConfig(t *testing.T) {
	if _, err := newHTTPPublisher(context.Background(), PublisherConfig{ID: "h"}, nil); err == nil {
		t.Fatalf("expected error for missing http block")
	}
}
