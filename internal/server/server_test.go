package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/agbru/numkernels/internal/kernels"
	"github.com/agbru/numkernels/internal/sysmon"
)

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	cfg := Config{
		Limits:   kernels.Limits{MaxMatrixSize: 64, MaxPrimeLimit: 1_000_000},
		Security: DefaultSecurityConfig(),
	}
	s := New(cfg, opts...)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, into any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode
}

func TestHandleKernel_Success(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	tests := []struct {
		path   string
		op     string
		result string
	}{
		{"/v1/fibonacci_sum?a=10&b=20", "fibonacci_sum", "6820"},
		{"/v1/fibsum?a=5&b=5", "fibonacci_sum", "10"},
		{"/v1/fibonacci?n=94", "fibonacci", "1293530146158671551"},
		{"/v1/prime_count?limit=100", "prime_count", "25"},
		{"/v1/primes?a=10", "prime_count", "4"},
		{"/v1/matrix_multiply_sum?size=3", "matrix_multiply_sum", "126"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			var body struct {
				Op         string          `json:"op"`
				Args       []uint32        `json:"args"`
				Result     json.RawMessage `json:"result"`
				DurationNS int64           `json:"duration_ns"`
			}
			if code := getJSON(t, ts.URL+tt.path, &body); code != http.StatusOK {
				t.Fatalf("status = %d", code)
			}
			if body.Op != tt.op || string(body.Result) != tt.result {
				t.Errorf("got op=%s result=%s, want op=%s result=%s", body.Op, body.Result, tt.op, tt.result)
			}
			if body.DurationNS < 0 {
				t.Errorf("duration_ns = %d", body.DurationNS)
			}
		})
	}
}

func TestHandleKernel_Errors(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	tests := []struct {
		name string
		path string
		code int
	}{
		{"unknown op", "/v1/sqrt?a=4", http.StatusBadRequest},
		{"missing arg", "/v1/fibonacci_sum?a=4", http.StatusBadRequest},
		{"negative arg", "/v1/fibonacci?n=-1", http.StatusBadRequest},
		{"arg overflow", "/v1/fibonacci?n=4294967296", http.StatusBadRequest},
		{"matrix over limit", "/v1/matrix?size=65", http.StatusUnprocessableEntity},
		{"primes over limit", "/v1/primes?limit=1000001", http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var body errorResponse
			if code := getJSON(t, ts.URL+tt.path, &body); code != tt.code {
				t.Errorf("status = %d, want %d", code, tt.code)
			}
			if body.Error == "" {
				t.Error("error message should be set")
			}
		})
	}
}

func TestHandleKernel_MethodNotAllowed(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/v1/fibonacci?n=3", "text/plain", http.NoBody)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestHandleKernel_RecordsSpan(t *testing.T) {
	t.Parallel()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	ts := newTestServer(t, WithTracer(tp.Tracer("test")))
	var body map[string]any
	getJSON(t, ts.URL+"/v1/prime_count?limit=50", &body)

	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Name() != "kernel.prime_count" {
		t.Fatalf("unexpected spans: %v", spans)
	}
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()
	fixed := func(context.Context) sysmon.Stats {
		return sysmon.Stats{CPUPercent: 12.5, MemPercent: 40, LogicalCPU: 4}
	}
	ts := newTestServer(t, WithSampler(fixed))

	var body healthResponse
	if code := getJSON(t, ts.URL+"/healthz", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body.Status != "ok" || body.Host.CPUPercent != 12.5 || body.Host.LogicalCPU != 4 {
		t.Errorf("unexpected health body: %+v", body)
	}
}

func TestMetricsEndpoint_CountsKernelResponses(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	for _, p := range []string{"/v1/fibonacci?n=10", "/v1/matrix?size=100"} {
		resp, err := http.Get(ts.URL + p)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	body := string(data)
	for _, want := range []string{
		`numkernels_responses_total{code="200",op="fibonacci"} 1`,
		`numkernels_responses_total{code="422",op="matrix_multiply_sum"} 1`,
		`numkernels_limit_rejections_total{op="matrix_multiply_sum"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := New(Config{Security: DefaultSecurityConfig()})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/v1/fibonacci?n=20"
	var resp *http.Response
	for i := 0; i < 50; i++ {
		if resp, err = http.Get(url); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never answered: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
