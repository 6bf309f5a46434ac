package engine

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxRetries:  3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetryDoSucceedsAfterTransientFailure(t *testing.T) {
	var calls int
	result, err := RetryDo(context.Background(), fastRetry(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", &httpStatusError{StatusCode: 503}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if result != "ok" {
		t.Errorf("result = %q", result)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryDoStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("bad request")
	var calls int
	_, err := RetryDo(context.Background(), fastRetry(), func() (string, error) {
		calls++
		return "", permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("err = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, non-retryable errors must not be retried", calls)
	}
}

func TestRetryDoExhaustsRetries(t *testing.T) {
	var calls int
	_, err := RetryDo(context.Background(), fastRetry(), func() (int, error) {
		calls++
		return 0, &httpStatusError{StatusCode: 429}
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 4 { // initial + 3 retries
		t.Errorf("calls = %d, want 4", calls)
	}
}

func TestRetryDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RetryDo(ctx, fastRetry(), func() (int, error) {
		return 0, &httpStatusError{StatusCode: 500}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRetryHTTPRetriesServerErrors(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		io.WriteString(w, "done")
	}))
	defer server.Close()

	resp, err := RetryHTTP(context.Background(), fastRetry(), func() (*http.Response, error) {
		return http.Get(server.URL)
	})
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if hits.Load() != 3 {
		t.Errorf("hits = %d, want 3", hits.Load())
	}
}

func TestRetryHTTPPassesThroughClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	resp, err := RetryHTTP(context.Background(), fastRetry(), func() (*http.Response, error) {
		return http.Get(server.URL)
	})
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, 4xx responses are the caller's problem", resp.StatusCode)
	}
}

func TestIsRetryableStatus(t *testing.T) {
	for _, code := range []int{429, 500, 502, 503, 504} {
		if !isRetryableStatus(code) {
			t.Errorf("status %d should be retryable", code)
		}
	}
	for _, code := range []int{200, 400, 401, 403, 404} {
		if isRetryableStatus(code) {
			t.Errorf("status %d should not be retryable", code)
		}
	}
}
