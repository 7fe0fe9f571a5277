package bridge_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iyulab/toa-assist/internal/bridge"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchContract_BareRecord(t *testing.T) {
	var gotPath, gotToken string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get(bridge.TokenHeader)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"contrato":"123456","telefones":["84999990000","84988880000"]}`)
	})

	c := bridge.NewClient(srv.URL, "secret", 0)
	entry, err := c.FetchContract(context.Background(), "123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/toa/contract/123456" {
		t.Errorf("path = %q, want /toa/contract/123456", gotPath)
	}
	if gotToken != "secret" {
		t.Errorf("token header = %q, want secret", gotToken)
	}
	if !entry.Found() {
		t.Error("expected Found() = true")
	}
	if entry.Phones() != 2 {
		t.Errorf("Phones() = %d, want 2", entry.Phones())
	}
}

func TestFetchContract_FoundEnvelope(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true,"found":{"contrato":"1234567","telefones":["84999990000"],"nome":"Maria"}}`)
	})

	entry, err := bridge.NewClient(srv.URL, "", 0).FetchContract(context.Background(), "1234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !entry.Found() || entry.Phones() != 1 {
		t.Errorf("entry = %v, want found with 1 phone", entry)
	}
}

func TestFetchContract_EnvelopeNotFound(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true,"found":null}`)
	})

	entry, err := bridge.NewClient(srv.URL, "", 0).FetchContract(context.Background(), "1234567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Found() {
		t.Error("null found should not count as a hit")
	}
}

func TestFetchContract_NoTokenHeaderWhenEmpty(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header[http.CanonicalHeaderKey(bridge.TokenHeader)]; ok {
			t.Error("token header should be omitted")
		}
		io.WriteString(w, `{}`)
	})

	if _, err := bridge.NewClient(srv.URL, "", 0).FetchContract(context.Background(), "123456"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetchContract_NonObjectBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `["123456"]`)
	})

	entry, err := bridge.NewClient(srv.URL, "", 0).FetchContract(context.Background(), "123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry != nil {
		t.Errorf("entry = %v, want nil for non-object body", entry)
	}
}

func TestFetchContract_InvalidJSON(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>`)
	})

	_, err := bridge.NewClient(srv.URL, "", 0).FetchContract(context.Background(), "123456")
	if err == nil {
		t.Fatal("expected parse error")
	}
	var se *bridge.StatusError
	if errors.As(err, &se) {
		t.Errorf("parse failure must not be a StatusError: %v", err)
	}
}

func TestFetchContract_HTTPError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"ok":false,"error":"Token inválido"}`)
	})

	_, err := bridge.NewClient(srv.URL, "wrong", 0).FetchContract(context.Background(), "123456")
	var se *bridge.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Code != http.StatusUnauthorized {
		t.Errorf("Code = %d, want 401", se.Code)
	}
	if !strings.Contains(se.Error(), "401") {
		t.Errorf("error should mention status code: %v", se)
	}
}

func TestFetchContract_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := bridge.NewClient(addr, "", 0).FetchContract(context.Background(), "123456")
	if err == nil {
		t.Fatal("expected transport error")
	}
	var se *bridge.StatusError
	if errors.As(err, &se) {
		t.Errorf("transport failure must not be a StatusError: %v", err)
	}
}

func TestFetchContract_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	c := bridge.NewClient(srv.URL, "", 50*time.Millisecond)
	if _, err := c.FetchContract(context.Background(), "123456"); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestQueueLookup(t *testing.T) {
	var got struct {
		Contrato string `json:"contrato"`
	}
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/toa/queue-lookup" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		io.WriteString(w, `{"ok":true,"queued":true,"contrato":"123456","stats":{"pendingLookups":1}}`)
	})

	queued, err := bridge.NewClient(srv.URL, "", 0).QueueLookup(context.Background(), "123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !queued {
		t.Error("expected queued = true")
	}
	if got.Contrato != "123456" {
		t.Errorf("posted contrato = %q, want 123456", got.Contrato)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/toa/health" {
			t.Errorf("path = %q", r.URL.Path)
		}
		io.WriteString(w, `{"ok":true,"stats":{"contracts":12,"phones":20,"port":8787,"pendingLookups":2,"pendingQueue":["123456","654321"]}}`)
	})

	stats, err := bridge.NewClient(srv.URL+"/", "", 0).Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Contracts != 12 || stats.Phones != 20 || stats.PendingLookups != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if len(stats.PendingQueue) != 2 {
		t.Errorf("pending queue = %v, want 2 entries", stats.PendingQueue)
	}
}

func TestHealth_NotOK(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":false}`)
	})

	if _, err := bridge.NewClient(srv.URL, "", 0).Health(context.Background()); err == nil {
		t.Fatal("expected error when bridge reports not ok")
	}
}
