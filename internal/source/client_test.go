package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/muurk/meshinv/internal/inventory"
)

const mockListResponse = `[
  {"ip":"10.0.0.5","mac":"aa:bb:cc:dd:ee:01","vendor":"HP Inc.","hostname":"printer-50.mesh","method":"arp","timestamp":1700000000},
  {"ip":"10.0.0.6","mac":"aa:bb:cc:dd:ee:02","vendor":"Synology","method":"nmap","timestamp":1700000000.5},
  {"ip":"10.0.0.8","mac":"aa:bb:cc:dd:ee:04"}
]`

func newTestClient(url string) *Client {
	client := NewClient(url)
	client.SetRetry(2, time.Millisecond)
	client.MaxRetryDelay = 5 * time.Millisecond
	return client
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://10.0.0.1/cgi-bin/wg-mesh-discovery/")

	if client.BaseURL != "http://10.0.0.1/cgi-bin/wg-mesh-discovery" {
		t.Errorf("BaseURL = %s, want trailing slash trimmed", client.BaseURL)
	}
	if client.ListURL() != "http://10.0.0.1/cgi-bin/wg-mesh-discovery/list?format=json" {
		t.Errorf("ListURL() = %s", client.ListURL())
	}
	if client.ScanURL() != "http://10.0.0.1/cgi-bin/wg-mesh-discovery/scan" {
		t.Errorf("ScanURL() = %s", client.ScanURL())
	}
	if client.HTTPClient.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.HTTPClient.Timeout, DefaultTimeout)
	}
}

func TestSetTimeoutAndRetry(t *testing.T) {
	client := NewClient("http://10.0.0.1")
	client.SetTimeout(5 * time.Second)
	client.SetRetry(5, 2*time.Second)

	if client.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.HTTPClient.Timeout)
	}
	if client.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", client.MaxRetries)
	}
	if client.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", client.RetryDelay)
	}
}

func TestList_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/list" {
			t.Errorf("Path = %s, want /list", r.URL.Path)
		}
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("format = %q, want json", r.URL.Query().Get("format"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mockListResponse))
	}))
	defer server.Close()

	records, err := newTestClient(server.URL).List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	if records[0].Hostname != "printer-50.mesh" || records[0].Method != "arp" {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[1].Timestamp == nil || *records[1].Timestamp != 1700000000.5 {
		t.Errorf("records[1].Timestamp = %v, want 1700000000.5", records[1].Timestamp)
	}
	if records[2].Vendor != "" || records[2].Timestamp != nil {
		t.Errorf("records[2] optional fields should be absent: %+v", records[2])
	}
}

func TestList_EmptyArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(" [] "))
	}))
	defer server.Close()

	records, err := newTestClient(server.URL).List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("records = %v, want empty non-nil slice", records)
	}
}

func TestList_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"null", "null"},
		{"object", `{"devices":[]}`},
		{"html", "<html>Internal</html>"},
		{"truncated", `[{"ip":"10.0.0.5"`},
		{"missing mac", `[{"ip":"10.0.0.5"}]`},
		{"missing ip", `[{"mac":"aa:bb:cc:dd:ee:01"}]`},
		{"wrong type", `[{"ip":5,"mac":"aa"}]`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).List(context.Background())
			if !IsMalformed(err) {
				t.Fatalf("List() error = %v, want malformed", err)
			}
			if calls.Load() != 1 {
				t.Errorf("calls = %d, malformed responses must not be retried", calls.Load())
			}
		})
	}
}

func TestList_ServerErrorRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(mockListResponse))
	}))
	defer server.Close()

	records, err := newTestClient(server.URL).List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 3 {
		t.Errorf("len(records) = %d, want 3", len(records))
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestList_ServerErrorExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).List(context.Background())
	if !IsUnavailable(err) {
		t.Fatalf("List() error = %v, want unavailable", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3 (1 + 2 retries)", calls.Load())
	}
}

func TestList_NotFoundNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).List(context.Background())
	if !IsHTTPError(err) {
		t.Fatalf("List() error = %v, want HTTP error", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestList_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(url)
	client.SetRetry(0, 0)

	_, err := client.List(context.Background())
	if !IsUnavailable(err) {
		t.Fatalf("List() error = %v, want unavailable", err)
	}
}

func TestList_ContextBoundsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetRetry(10, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.List(ctx)
	if err == nil {
		t.Fatal("List() should fail")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("List() took %v, context should bound retries", elapsed)
	}
}

func TestScan(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("scan started"))
	}))
	defer server.Close()

	if err := newTestClient(server.URL).Scan(context.Background()); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("Method = %s, want POST", gotMethod)
	}
	if gotPath != "/scan" {
		t.Errorf("Path = %s, want /scan", gotPath)
	}
}

func TestScan_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	err := newTestClient(server.URL).Scan(context.Background())
	if !IsHTTPError(err) {
		t.Fatalf("Scan() error = %v, want HTTP error", err)
	}
}

func TestClientIsInventorySource(t *testing.T) {
	var _ inventory.Source = NewClient("http://10.0.0.1")
}
