package aigen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestOpenAIProviderComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "ответ"}},
			},
		})
	}))
	defer server.Close()

	p := &openaiProvider{
		apiKey:  "test-key",
		model:   "gpt-4o-mini",
		baseURL: server.URL,
		client:  server.Client(),
	}

	text, err := p.Complete(context.Background(), "вопрос")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "ответ" {
		t.Errorf("expected ответ, got %q", text)
	}
}

func TestAnthropicProviderComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if key := r.Header.Get("x-api-key"); key != "test-key" {
			t.Errorf("unexpected api key header %q", key)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{{"text": "ответ"}},
		})
	}))
	defer server.Close()

	p := &anthropicProvider{
		apiKey:  "test-key",
		model:   "claude-3-5-haiku-latest",
		baseURL: server.URL,
		client:  server.Client(),
	}

	text, err := p.Complete(context.Background(), "вопрос")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "ответ" {
		t.Errorf("expected ответ, got %q", text)
	}
}

func TestProviderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	p := &openaiProvider{
		apiKey:  "test-key",
		model:   "gpt-4o-mini",
		baseURL: server.URL,
		client:  server.Client(),
	}

	_, err := p.Complete(context.Background(), "вопрос")
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", perr.StatusCode)
	}
	if perr.Retryable() {
		t.Error("400 must not be retryable")
	}
}

func TestWithRetryRecoversFromServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "готово"}},
			},
		})
	}))
	defer server.Close()

	inner := &openaiProvider{
		apiKey:  "test-key",
		model:   "gpt-4o-mini",
		baseURL: server.URL,
		client:  server.Client(),
	}
	p := &retryingProvider{inner: inner, maxRetries: 3, baseDelay: time.Millisecond}

	text, err := p.Complete(context.Background(), "вопрос")
	if err != nil {
		t.Fatalf("Complete failed after retries: %v", err)
	}
	if text != "готово" {
		t.Errorf("expected готово, got %q", text)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 calls, got %d", got)
	}
}

func TestWithRetryStopsOnNonRetryable(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	inner := &openaiProvider{
		apiKey:  "bad-key",
		model:   "gpt-4o-mini",
		baseURL: server.URL,
		client:  server.Client(),
	}
	p := &retryingProvider{inner: inner, maxRetries: 3, baseDelay: time.Millisecond}

	_, err := p.Complete(context.Background(), "вопрос")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected a single call for non-retryable error, got %d", got)
	}
}
