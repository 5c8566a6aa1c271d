package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRestyClientGetSendsQueryAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if got := r.URL.Query().Get("value"); got != "0" {
			t.Errorf("value = %q", got)
		}
		if got := r.Header.Get("X-Test"); got != "1" {
			t.Errorf("X-Test = %q", got)
		}
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))
	defer srv.Close()

	c := NewRestyClient(2 * time.Second)
	resp, err := c.Get(context.Background(), srv.URL, map[string]string{"value": "0"}, map[string]string{"X-Test": "1"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusTeapot {
		t.Fatalf("StatusCode = %d", resp.StatusCode())
	}
	if string(resp.Body()) != "short and stout" {
		t.Fatalf("Body = %q", resp.Body())
	}
}

func TestRestyClientPostJSONEncodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		raw, _ := io.ReadAll(r.Body)
		var got map[string]int
		if err := json.Unmarshal(raw, &got); err != nil || got["n"] != 7 {
			t.Errorf("unexpected body %s (%v)", raw, err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := NewRestyClient(0).PostJSON(context.Background(), srv.URL, map[string]int{"n": 7}, nil)
	if err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("StatusCode = %d", resp.StatusCode())
	}
}

func TestRestyClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := NewRestyClient(time.Second).Get(context.Background(), url, nil, nil); err == nil {
		t.Fatalf("expected transport error for closed server")
	}
}
