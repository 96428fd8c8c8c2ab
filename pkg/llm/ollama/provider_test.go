package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"navi-be/pkg/inference"
	"navi-be/pkg/llm"
)

func TestGenerate(t *testing.T) {
	var gotReq generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"model": "llama3.2", "response": "Relevance Score: 7", "done": true}`))
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "llama3.2")
	out, err := provider.Generate(context.Background(), "judge this",
		llm.WithTemperature(0.2),
		llm.WithTopP(0.8),
	)
	if err != nil {
		t.Fatal(err)
	}
	if out != "Relevance Score: 7" {
		t.Errorf("got %q", out)
	}

	if gotReq.Model != "llama3.2" || gotReq.Prompt != "judge this" {
		t.Errorf("bad request: %+v", gotReq)
	}
	if gotReq.Stream {
		t.Error("stream must be false")
	}
	if gotReq.Options == nil || gotReq.Options.Temperature != 0.2 || gotReq.Options.TopP != 0.8 {
		t.Errorf("options not forwarded: %+v", gotReq.Options)
	}
}

func TestGenerateErrors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := NewOllamaProvider(server.URL, "m").Generate(context.Background(), "p")
		var connErr *inference.ConnectivityError
		if !errors.As(err, &connErr) {
			t.Fatalf("want ConnectivityError, got %v", err)
		}
		if connErr.Status != http.StatusNotFound {
			t.Errorf("status = %d", connErr.Status)
		}
	})

	t.Run("missing response field", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"model": "m", "done": true}`))
		}))
		defer server.Close()

		_, err := NewOllamaProvider(server.URL, "m").Generate(context.Background(), "p")
		var malErr *inference.MalformedResponseError
		if !errors.As(err, &malErr) {
			t.Fatalf("want MalformedResponseError, got %v", err)
		}
	})

	t.Run("cancelled context passes through", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"response": "x"}`))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewOllamaProvider(server.URL, "m").Generate(ctx, "p")
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
	})
}
